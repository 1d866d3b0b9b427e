package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusComplete   PaymentStatus = "complete"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
	PaymentStatusExpired    PaymentStatus = "expired"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Terminal reports whether no further transition is accepted from s.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusComplete, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusExpired, PaymentStatusRefunded:
		return true
	}
	return false
}

// paymentTransitions is the allowed transition table. Manual methods may move
// pending directly to a terminal status; wallet methods pass through processing.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {
		PaymentStatusProcessing,
		PaymentStatusComplete,
		PaymentStatusFailed,
		PaymentStatusCancelled,
		PaymentStatusExpired,
	},
	PaymentStatusProcessing: {
		PaymentStatusComplete,
		PaymentStatusFailed,
		PaymentStatusCancelled,
		PaymentStatusExpired,
		PaymentStatusRefunded,
	},
}

// CanTransitionPaymentStatus reports whether from may move to to. Terminal
// statuses accept nothing, a status may always "move" to itself (idempotent
// re-application is a no-op for the caller to log, not an error).
func CanTransitionPaymentStatus(from, to PaymentStatus) bool {
	if from == to {
		return true
	}
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type PaymentAttempt struct {
	PaymentID         string        `json:"payment_id"`
	ApplicationID     string        `json:"application_id"`
	Method            string        `json:"method"`
	Amount            float64       `json:"amount"`
	ServiceFee        float64       `json:"service_fee"`
	NetAmount         float64       `json:"net_amount"`
	ReferenceNumber   string        `json:"reference_number"`
	ReceiptRef        string        `json:"receipt_ref,omitempty"`
	Status            PaymentStatus `json:"status"`
	CheckoutSessionID string        `json:"checkout_session_id,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}
