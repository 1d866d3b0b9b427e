package platform

import (
	"context"
	"healthcard-service/internal/app/config"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/pkg/constvars"
	"healthcard-service/internal/pkg/exceptions"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// httpDispatcher validates a checkout URL against the configured scheme
// allowlist and performs the handoff probe. Wallet app schemes (gcash, maya)
// cannot be probed from here, so for those CanOpen answers from the allowlist
// alone; http(s) URLs get a reachability probe on Open.
type httpDispatcher struct {
	allowedSchemes map[string]bool
	client         *http.Client
	Log            *zap.Logger
}

func NewURLDispatcher(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.URLDispatcher {
	allowed := make(map[string]bool)
	for _, scheme := range strings.Split(internalConfig.Wallet.AllowedSchemes, ",") {
		scheme = strings.TrimSpace(strings.ToLower(scheme))
		if scheme != "" {
			allowed[scheme] = true
		}
	}

	timeout := time.Duration(internalConfig.Wallet.OpenProbeTimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &httpDispatcher{
		allowedSchemes: allowed,
		client:         &http.Client{Timeout: timeout},
		Log:            logger,
	}
}

func (d *httpDispatcher) CanOpen(ctx context.Context, rawURL string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, nil
	}
	if parsed.Scheme == "" {
		return false, nil
	}
	return d.allowedSchemes[strings.ToLower(parsed.Scheme)], nil
}

func (d *httpDispatcher) Open(ctx context.Context, rawURL string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	d.Log.Info("httpDispatcher.Open called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCheckoutURLKey, rawURL),
	)

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return exceptions.ErrExternalAppOpen(err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if !d.allowedSchemes[scheme] {
		return exceptions.ErrExternalAppUnavailable(nil)
	}

	if scheme != "http" && scheme != "https" {
		// App-scheme handoff happens on the device; nothing to probe here.
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodHead, rawURL, nil)
	if err != nil {
		return exceptions.ErrCreateHTTPRequest(err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		d.Log.Error("httpDispatcher.Open probe failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrExternalAppOpen(err)
	}
	resp.Body.Close()

	if resp.StatusCode >= 500 {
		return exceptions.ErrExternalAppOpen(nil)
	}
	return nil
}
