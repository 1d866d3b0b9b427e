package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusTerminal(t *testing.T) {
	assert.False(t, PaymentStatusPending.Terminal())
	assert.False(t, PaymentStatusProcessing.Terminal())
	assert.True(t, PaymentStatusComplete.Terminal())
	assert.True(t, PaymentStatusFailed.Terminal())
	assert.True(t, PaymentStatusCancelled.Terminal())
	assert.True(t, PaymentStatusExpired.Terminal())
	assert.True(t, PaymentStatusRefunded.Terminal())
}

func TestCanTransitionPaymentStatus(t *testing.T) {
	testCases := []struct {
		name    string
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{"Pending to processing", PaymentStatusPending, PaymentStatusProcessing, true},
		{"Pending directly to complete", PaymentStatusPending, PaymentStatusComplete, true},
		{"Pending to failed", PaymentStatusPending, PaymentStatusFailed, true},
		{"Pending to refunded", PaymentStatusPending, PaymentStatusRefunded, false},
		{"Processing to complete", PaymentStatusProcessing, PaymentStatusComplete, true},
		{"Processing to refunded", PaymentStatusProcessing, PaymentStatusRefunded, true},
		{"Processing back to pending", PaymentStatusProcessing, PaymentStatusPending, false},
		{"Complete to failed", PaymentStatusComplete, PaymentStatusFailed, false},
		{"Complete to processing", PaymentStatusComplete, PaymentStatusProcessing, false},
		{"Cancelled to complete", PaymentStatusCancelled, PaymentStatusComplete, false},
		{"Same status is a no-op", PaymentStatusComplete, PaymentStatusComplete, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransitionPaymentStatus(tc.from, tc.to))
		})
	}
}
