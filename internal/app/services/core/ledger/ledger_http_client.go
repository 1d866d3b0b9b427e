package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"healthcard-service/internal/app/config"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/app/models"
	"healthcard-service/internal/app/services/shared/jwtmanager"
	"healthcard-service/internal/pkg/constvars"
	"healthcard-service/internal/pkg/exceptions"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	ledgerClientInstance contracts.LedgerService
	onceLedgerClient     sync.Once
)

type ledgerHTTPClient struct {
	BaseUrl    string
	Client     *http.Client
	JWTManager *jwtmanager.JWTManager
	Limiter    *rate.Limiter
	Log        *zap.Logger
}

func NewLedgerHTTPClient(internalConfig *config.InternalConfig, jwtManager *jwtmanager.JWTManager, logger *zap.Logger) contracts.LedgerService {
	onceLedgerClient.Do(func() {
		timeout := time.Duration(internalConfig.Ledger.RequestTimeoutInSeconds) * time.Second
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		rps := internalConfig.Ledger.MaxRequestsPerSecond
		if rps <= 0 {
			rps = 10
		}
		client := &ledgerHTTPClient{
			BaseUrl:    internalConfig.Ledger.BaseUrl,
			Client:     &http.Client{Timeout: timeout},
			JWTManager: jwtManager,
			Limiter:    rate.NewLimiter(rate.Limit(rps), rps),
			Log:        logger,
		}
		ledgerClientInstance = client
	})
	return ledgerClientInstance
}

type statusResponse struct {
	Status models.PaymentStatus `json:"status"`
}

type uploadURLResponse struct {
	URL string `json:"url"`
}

func (c *ledgerHTTPClient) CreateCheckoutSession(ctx context.Context, input *contracts.CreateCheckoutSessionInput) (*contracts.CreateCheckoutSessionOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("ledgerHTTPClient.CreateCheckoutSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingApplicationIDKey, input.ApplicationID),
	)

	output := new(contracts.CreateCheckoutSessionOutput)
	err := c.doJSON(ctx, constvars.MethodPost, c.BaseUrl+"/checkout-sessions", input, output, "createCheckoutSession")
	if err != nil {
		return nil, err
	}
	return output, nil
}

func (c *ledgerHTTPClient) CreatePayment(ctx context.Context, input *contracts.CreatePaymentInput) (*contracts.CreatePaymentOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("ledgerHTTPClient.CreatePayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingApplicationIDKey, input.ApplicationID),
	)

	output := new(contracts.CreatePaymentOutput)
	err := c.doJSON(ctx, constvars.MethodPost, c.BaseUrl+"/payments", input, output, "createPayment")
	if err != nil {
		return nil, err
	}
	return output, nil
}

func (c *ledgerHTTPClient) UpdatePaymentStatus(ctx context.Context, paymentID string, status models.PaymentStatus) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("ledgerHTTPClient.UpdatePaymentStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, paymentID),
		zap.String(constvars.LoggingPaymentStatusKey, string(status)),
	)

	url := fmt.Sprintf("%s/payments/%s/status", c.BaseUrl, paymentID)
	body := statusResponse{Status: status}
	return c.doJSON(ctx, constvars.MethodPatch, url, body, nil, "updatePaymentStatus")
}

func (c *ledgerHTTPClient) SyncPaymentStatus(ctx context.Context, paymentID string) (models.PaymentStatus, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("ledgerHTTPClient.SyncPaymentStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, paymentID),
	)

	url := fmt.Sprintf("%s/payments/%s/sync", c.BaseUrl, paymentID)
	output := new(statusResponse)
	if err := c.doJSON(ctx, constvars.MethodPost, url, nil, output, "syncPaymentStatus"); err != nil {
		return "", err
	}
	return output.Status, nil
}

func (c *ledgerHTTPClient) CheckPaymentStatus(ctx context.Context, paymentID string) (models.PaymentStatus, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("ledgerHTTPClient.CheckPaymentStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, paymentID),
	)

	url := fmt.Sprintf("%s/payments/%s/status", c.BaseUrl, paymentID)
	output := new(statusResponse)
	if err := c.doJSON(ctx, constvars.MethodGet, url, nil, output, "checkPaymentStatus"); err != nil {
		return "", err
	}
	return output.Status, nil
}

func (c *ledgerHTTPClient) GenerateUploadURL(ctx context.Context) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("ledgerHTTPClient.GenerateUploadURL called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	output := new(uploadURLResponse)
	if err := c.doJSON(ctx, constvars.MethodPost, c.BaseUrl+"/upload-urls", nil, output, "generateUploadUrl"); err != nil {
		return "", err
	}
	return output.URL, nil
}

// doJSON issues one authenticated JSON round trip against the ledger. Each
// call is atomic from this service's perspective.
func (c *ledgerHTTPClient) doJSON(ctx context.Context, method, url string, in, out interface{}, operation string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if err := c.Limiter.Wait(ctx); err != nil {
		return exceptions.ErrLedgerCall(err, operation)
	}

	var payload *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return exceptions.ErrCannotMarshalJSON(err)
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	token, err := c.JWTManager.CreateToken(&jwtmanager.CreateTokenInput{Subject: operation})
	if err != nil {
		return err
	}
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		c.Log.Error("ledgerHTTPClient request failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("operation", operation),
			zap.Error(err),
		)
		return exceptions.ErrLedgerCall(err, operation)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.Log.Error("ledgerHTTPClient non-success status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("operation", operation),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		)
		return exceptions.ErrLedgerStatus(resp.StatusCode, operation)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return exceptions.ErrLedgerDecodeResponse(err, operation)
	}
	return nil
}
