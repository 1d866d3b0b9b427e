package deeplink

import (
	"healthcard-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDeepLink(t *testing.T) {
	t.Run("Success redirect with query params", func(t *testing.T) {
		event, ok := ParseDeepLink("healthcard://payment/success?paymentId=pay-1&applicationId=app-1")
		assert.True(t, ok)
		assert.Equal(t, models.DeepLinkStatusSuccess, event.Status)
		assert.Equal(t, "pay-1", event.PaymentID)
		assert.Equal(t, "app-1", event.ApplicationID)
	})

	t.Run("Failed redirect with reason", func(t *testing.T) {
		event, ok := ParseDeepLink("healthcard://payment/failed?paymentId=pay-1&reason=insufficient_funds")
		assert.True(t, ok)
		assert.Equal(t, models.DeepLinkStatusFailed, event.Status)
		assert.Equal(t, "insufficient_funds", event.Reason)
	})

	t.Run("Cancelled redirect", func(t *testing.T) {
		event, ok := ParseDeepLink("healthcard://payment/cancelled?paymentId=pay-1")
		assert.True(t, ok)
		assert.Equal(t, models.DeepLinkStatusCancelled, event.Status)
	})

	t.Run("HTTPS universal link", func(t *testing.T) {
		event, ok := ParseDeepLink("https://app.example.gov/return/payment/success?paymentId=pay-1")
		assert.True(t, ok)
		assert.Equal(t, models.DeepLinkStatusSuccess, event.Status)
		assert.Equal(t, "pay-1", event.PaymentID)
	})

	t.Run("Unrecognized outcome segment is ignored", func(t *testing.T) {
		_, ok := ParseDeepLink("healthcard://payment/refund?paymentId=pay-1")
		assert.False(t, ok)
	})

	t.Run("Marker with no outcome segment is ignored", func(t *testing.T) {
		_, ok := ParseDeepLink("healthcard://payment?paymentId=pay-1")
		assert.False(t, ok)
	})

	t.Run("Non-payment URL is ignored", func(t *testing.T) {
		_, ok := ParseDeepLink("healthcard://profile/settings")
		assert.False(t, ok)
	})

	t.Run("Unparseable URL is ignored", func(t *testing.T) {
		_, ok := ParseDeepLink("://not-a-url")
		assert.False(t, ok)
	})
}
