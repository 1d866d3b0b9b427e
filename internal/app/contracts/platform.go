package contracts

import "context"

// URLDispatcher is the platform capability used to hand off to the external
// wallet app or browser. Implementations decide what "open" means; the
// checkout manager is indifferent.
type URLDispatcher interface {
	CanOpen(ctx context.Context, url string) (bool, error)
	Open(ctx context.Context, url string) error
}

// DeepLinkSource delivers the URLs the application was launched or resumed
// with. The same logical URL may arrive through GetInitialURL and the live
// subscription; the deep-link router is the single point that reconciles both.
type DeepLinkSource interface {
	GetInitialURL(ctx context.Context) (string, error)
	Subscribe(handler func(url string)) (unsubscribe func())
}

// LifecycleSource emits a signal whenever the application returns to the
// foreground. Used by the abandoned-payment monitor as its trigger condition.
type LifecycleSource interface {
	SubscribeForeground(handler func()) (unsubscribe func())
}
