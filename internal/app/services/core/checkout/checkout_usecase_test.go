package checkout

import (
	"context"
	"errors"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/app/models"
	"healthcard-service/internal/pkg/dto/requests"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeLedgerService struct {
	contracts.LedgerService
	createSessionCalls int
	output             *contracts.CreateCheckoutSessionOutput
	err                error
}

func (f *fakeLedgerService) CreateCheckoutSession(ctx context.Context, input *contracts.CreateCheckoutSessionInput) (*contracts.CreateCheckoutSessionOutput, error) {
	f.createSessionCalls++
	return f.output, f.err
}

type fakeSessionRepository struct {
	sessions map[string]*models.CheckoutSession
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: make(map[string]*models.CheckoutSession)}
}

func (f *fakeSessionRepository) SaveSession(ctx context.Context, applicationID string, session *models.CheckoutSession) error {
	copied := *session
	f.sessions[applicationID] = &copied
	return nil
}

func (f *fakeSessionRepository) GetSession(ctx context.Context, applicationID string) (*models.CheckoutSession, error) {
	session, ok := f.sessions[applicationID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionRepository) DeleteSession(ctx context.Context, applicationID string) error {
	delete(f.sessions, applicationID)
	return nil
}

type fakeStateRepository struct {
	states map[string]*models.PaymentAttempt
}

func newFakeStateRepository() *fakeStateRepository {
	return &fakeStateRepository{states: make(map[string]*models.PaymentAttempt)}
}

func (f *fakeStateRepository) SaveState(ctx context.Context, state *models.PaymentAttempt) error {
	copied := *state
	f.states[state.PaymentID] = &copied
	return nil
}

func (f *fakeStateRepository) GetState(ctx context.Context, paymentID string) (*models.PaymentAttempt, error) {
	state, ok := f.states[paymentID]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

type fakeWatchRepository struct {
	watched map[string]bool
}

func newFakeWatchRepository() *fakeWatchRepository {
	return &fakeWatchRepository{watched: make(map[string]bool)}
}

func (f *fakeWatchRepository) Watch(ctx context.Context, paymentID string) error {
	f.watched[paymentID] = true
	return nil
}

func (f *fakeWatchRepository) Unwatch(ctx context.Context, paymentID string) error {
	delete(f.watched, paymentID)
	return nil
}

func (f *fakeWatchRepository) Watched(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.watched))
	for id := range f.watched {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeURLDispatcher struct {
	canOpen   bool
	openErr   error
	openCalls int
}

func (f *fakeURLDispatcher) CanOpen(ctx context.Context, url string) (bool, error) {
	return f.canOpen, nil
}

func (f *fakeURLDispatcher) Open(ctx context.Context, url string) error {
	f.openCalls++
	return f.openErr
}

func newTestCheckoutUsecase(ledger *fakeLedgerService, sessions *fakeSessionRepository, states *fakeStateRepository, watch *fakeWatchRepository, dispatcher *fakeURLDispatcher) *checkoutUsecase {
	return &checkoutUsecase{
		LedgerService:      ledger,
		SessionRepository:  sessions,
		StateRepository:    states,
		WatchRepository:    watch,
		URLDispatcher:      dispatcher,
		Log:                zap.NewNop(),
		processingDeadline: 30 * time.Minute,
	}
}

func TestInitiateHappyPath(t *testing.T) {
	ledger := &fakeLedgerService{
		output: &contracts.CreateCheckoutSessionOutput{
			PaymentID:   "pay-1",
			CheckoutURL: "https://wallet.example.com/checkout/abc",
		},
	}
	sessions := newFakeSessionRepository()
	states := newFakeStateRepository()
	watch := newFakeWatchRepository()
	dispatcher := &fakeURLDispatcher{canOpen: true}
	uc := newTestCheckoutUsecase(ledger, sessions, states, watch, dispatcher)

	resp, err := uc.Initiate(context.Background(), &requests.InitiateCheckoutRequest{
		ApplicationID: "app-1",
		Amount:        50,
	})
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.WaitingForReturn)
	assert.Equal(t, "pay-1", resp.PaymentID)
	assert.Equal(t, 1, dispatcher.openCalls)

	state, _ := states.GetState(context.Background(), "pay-1")
	assert.NotNil(t, state)
	assert.Equal(t, models.PaymentStatusProcessing, state.Status)
	assert.True(t, watch.watched["pay-1"])

	session, _ := sessions.GetSession(context.Background(), "app-1")
	assert.NotNil(t, session)
	assert.Equal(t, "https://wallet.example.com/checkout/abc", session.CheckoutURL)
}

func TestInitiateReusesActiveSession(t *testing.T) {
	ledger := &fakeLedgerService{}
	sessions := newFakeSessionRepository()
	sessions.SaveSession(context.Background(), "app-1", &models.CheckoutSession{
		ID:          "pay-1",
		PaymentID:   "pay-1",
		CheckoutURL: "https://wallet.example.com/checkout/abc",
		CreatedAt:   time.Now(),
	})
	dispatcher := &fakeURLDispatcher{canOpen: true}
	uc := newTestCheckoutUsecase(ledger, sessions, newFakeStateRepository(), newFakeWatchRepository(), dispatcher)

	resp, err := uc.Initiate(context.Background(), &requests.InitiateCheckoutRequest{
		ApplicationID: "app-1",
		Amount:        50,
	})
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.ExistingPayment)
	assert.Equal(t, "pay-1", resp.PaymentID)
	assert.Equal(t, 0, ledger.createSessionCalls, "no second ledger session for an active checkout")
	assert.Equal(t, 1, dispatcher.openCalls)
}

func TestInitiateOpenFailure(t *testing.T) {
	ledger := &fakeLedgerService{
		output: &contracts.CreateCheckoutSessionOutput{
			PaymentID:   "pay-1",
			CheckoutURL: "badscheme://nope",
		},
	}
	sessions := newFakeSessionRepository()
	states := newFakeStateRepository()
	dispatcher := &fakeURLDispatcher{canOpen: false}
	uc := newTestCheckoutUsecase(ledger, sessions, states, newFakeWatchRepository(), dispatcher)

	resp, err := uc.Initiate(context.Background(), &requests.InitiateCheckoutRequest{
		ApplicationID: "app-1",
		Amount:        50,
	})
	assert.NoError(t, err)
	assert.False(t, resp.Success)
	assert.False(t, resp.WaitingForReturn)
	assert.Equal(t, "Unable to open checkout URL", resp.Reason)

	// Nothing stored: the payment never left pending at the ledger.
	session, _ := sessions.GetSession(context.Background(), "app-1")
	assert.Nil(t, session)
	state, _ := states.GetState(context.Background(), "pay-1")
	assert.Nil(t, state)
}

func TestInitiateOpenErrorAfterProbe(t *testing.T) {
	ledger := &fakeLedgerService{
		output: &contracts.CreateCheckoutSessionOutput{
			PaymentID:   "pay-1",
			CheckoutURL: "https://wallet.example.com/checkout/abc",
		},
	}
	dispatcher := &fakeURLDispatcher{canOpen: true, openErr: errors.New("activity not found")}
	uc := newTestCheckoutUsecase(ledger, newFakeSessionRepository(), newFakeStateRepository(), newFakeWatchRepository(), dispatcher)

	resp, err := uc.Initiate(context.Background(), &requests.InitiateCheckoutRequest{
		ApplicationID: "app-1",
		Amount:        50,
	})
	assert.NoError(t, err)
	assert.False(t, resp.Success)
	// The dispatcher's own message tells the caller what went wrong.
	assert.Equal(t, "activity not found", resp.Reason)
}

func TestInitiateRejectsInvalidAmount(t *testing.T) {
	uc := newTestCheckoutUsecase(&fakeLedgerService{}, newFakeSessionRepository(), newFakeStateRepository(), newFakeWatchRepository(), &fakeURLDispatcher{canOpen: true})

	resp, err := uc.Initiate(context.Background(), &requests.InitiateCheckoutRequest{
		ApplicationID: "app-1",
		Amount:        49.995,
	})
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestInitiateServiceFeeValidation(t *testing.T) {
	newUsecase := func() *checkoutUsecase {
		ledger := &fakeLedgerService{
			output: &contracts.CreateCheckoutSessionOutput{
				PaymentID:   "pay-1",
				CheckoutURL: "https://wallet.example.com/checkout/abc",
			},
		}
		return newTestCheckoutUsecase(ledger, newFakeSessionRepository(), newFakeStateRepository(), newFakeWatchRepository(), &fakeURLDispatcher{canOpen: true})
	}

	t.Run("Zero fee means no fee", func(t *testing.T) {
		resp, err := newUsecase().Initiate(context.Background(), &requests.InitiateCheckoutRequest{
			ApplicationID: "app-1",
			Amount:        50,
			ServiceFee:    0,
		})
		assert.NoError(t, err)
		assert.True(t, resp.Success)
	})

	t.Run("Non-zero fee gets the full rule set", func(t *testing.T) {
		resp, err := newUsecase().Initiate(context.Background(), &requests.InitiateCheckoutRequest{
			ApplicationID: "app-1",
			Amount:        50,
			ServiceFee:    0.005,
		})
		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestActiveSession(t *testing.T) {
	sessions := newFakeSessionRepository()
	uc := newTestCheckoutUsecase(&fakeLedgerService{}, sessions, newFakeStateRepository(), newFakeWatchRepository(), &fakeURLDispatcher{})

	t.Run("No session", func(t *testing.T) {
		resp, err := uc.ActiveSession(context.Background(), "app-1")
		assert.NoError(t, err)
		assert.Nil(t, resp.Session)
		assert.False(t, resp.StillProcessing)
	})

	t.Run("Fresh session", func(t *testing.T) {
		sessions.SaveSession(context.Background(), "app-1", &models.CheckoutSession{
			PaymentID: "pay-1",
			CreatedAt: time.Now(),
		})
		resp, err := uc.ActiveSession(context.Background(), "app-1")
		assert.NoError(t, err)
		assert.NotNil(t, resp.Session)
		assert.False(t, resp.StillProcessing)
	})

	t.Run("Session past processing deadline", func(t *testing.T) {
		sessions.SaveSession(context.Background(), "app-1", &models.CheckoutSession{
			PaymentID: "pay-1",
			CreatedAt: time.Now().Add(-45 * time.Minute),
		})
		resp, err := uc.ActiveSession(context.Background(), "app-1")
		assert.NoError(t, err)
		assert.NotNil(t, resp.Session)
		assert.True(t, resp.StillProcessing)
	})
}
