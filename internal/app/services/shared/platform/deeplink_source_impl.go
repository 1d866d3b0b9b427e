package platform

import (
	"context"
	"healthcard-service/internal/app/contracts"
	"sync"
)

// ChannelDeepLinkSource is the in-process deep-link feed. The gateway
// redirect endpoint pushes URLs into it with Deliver; the launch URL, when
// present, is recorded with SetInitialURL. The same URL may be observable
// through both paths, which is exactly the duplication the deep-link router
// has to reconcile.
type ChannelDeepLinkSource struct {
	mu          sync.Mutex
	initialURL  string
	subscribers map[int]func(url string)
	nextID      int
}

func NewDeepLinkSource() *ChannelDeepLinkSource {
	return &ChannelDeepLinkSource{
		subscribers: make(map[int]func(url string)),
	}
}

var _ contracts.DeepLinkSource = (*ChannelDeepLinkSource)(nil)

func (s *ChannelDeepLinkSource) GetInitialURL(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialURL, nil
}

func (s *ChannelDeepLinkSource) SetInitialURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialURL = url
}

func (s *ChannelDeepLinkSource) Subscribe(handler func(url string)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = handler
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Deliver fans a URL out to the current subscribers. URLs already dispatched
// are unaffected by later unsubscribes.
func (s *ChannelDeepLinkSource) Deliver(url string) {
	s.mu.Lock()
	handlers := make([]func(string), 0, len(s.subscribers))
	for _, h := range s.subscribers {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h(url)
	}
}
