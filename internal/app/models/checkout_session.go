package models

import "time"

// CheckoutSession is the ephemeral handle for the external-wallet path. It is
// owned by the PaymentAttempt that spawned it; a later submission for the same
// application reuses the existing session instead of creating another one.
type CheckoutSession struct {
	ID          string    `json:"id"`
	PaymentID   string    `json:"payment_id"`
	CheckoutURL string    `json:"checkout_url"`
	CreatedAt   time.Time `json:"created_at"`
}
