package platform

import (
	"healthcard-service/internal/app/contracts"
	"sync"
)

// ChannelLifecycleSource relays app-foreground notifications reported by the
// client to the abandoned-payment monitor.
type ChannelLifecycleSource struct {
	mu          sync.Mutex
	subscribers map[int]func()
	nextID      int
}

func NewLifecycleSource() *ChannelLifecycleSource {
	return &ChannelLifecycleSource{
		subscribers: make(map[int]func()),
	}
}

var _ contracts.LifecycleSource = (*ChannelLifecycleSource)(nil)

func (s *ChannelLifecycleSource) SubscribeForeground(handler func()) (unsubscribe func()) {
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

func (s *ChannelLifecycleSource) NotifyForeground() {
	s.mu.Lock()
	handlers := make([]func(), 0, len(s.subscribers))
	for _, h := range s.subscribers {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}
