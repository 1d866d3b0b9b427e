package deeplink

import (
	"healthcard-service/internal/app/models"
	"healthcard-service/internal/pkg/constvars"
	"net/url"
	"strings"
)

// ParseDeepLink decodes a raw inbound URL into a payment event. The second
// return value is false for URLs that are not payment deep links at all;
// those belong to other features and must pass through untouched.
func ParseDeepLink(rawURL string) (*models.DeepLinkEvent, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, false
	}

	segments := splitPath(parsed)
	markerIndex := -1
	for i, segment := range segments {
		if segment == constvars.DeepLinkPaymentPathMarker {
			markerIndex = i
			break
		}
	}
	if markerIndex < 0 {
		return nil, false
	}

	if markerIndex+1 >= len(segments) {
		return nil, false
	}

	var status models.DeepLinkStatus
	switch segments[markerIndex+1] {
	case constvars.DeepLinkSegmentSuccess:
		status = models.DeepLinkStatusSuccess
	case constvars.DeepLinkSegmentFailed:
		status = models.DeepLinkStatusFailed
	case constvars.DeepLinkSegmentCancelled:
		status = models.DeepLinkStatusCancelled
	default:
		// Unrecognized outcome segments are not payment events.
		return nil, false
	}

	query := parsed.Query()
	return &models.DeepLinkEvent{
		RawURL:        rawURL,
		Path:          strings.Join(segments, "/"),
		Status:        status,
		PaymentID:     query.Get(constvars.DeepLinkParamPaymentID),
		ApplicationID: query.Get(constvars.DeepLinkParamApplicationID),
		Reason:        query.Get(constvars.DeepLinkParamReason),
	}, true
}

// splitPath yields the non-empty path segments. For custom schemes like
// healthcard://payment/success the host is the first segment.
func splitPath(parsed *url.URL) []string {
	raw := parsed.Path
	if parsed.Host != "" && parsed.Scheme != "http" && parsed.Scheme != "https" {
		raw = parsed.Host + "/" + strings.TrimPrefix(raw, "/")
	}

	parts := strings.Split(raw, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
