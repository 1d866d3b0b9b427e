package reconciliation

import (
	"context"
	"errors"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/app/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeLedgerService struct {
	contracts.LedgerService
	syncStatus    models.PaymentStatus
	syncErr       error
	checkStatus   models.PaymentStatus
	updateCalls   []models.PaymentStatus
	updateErr     error
}

func (f *fakeLedgerService) SyncPaymentStatus(ctx context.Context, paymentID string) (models.PaymentStatus, error) {
	return f.syncStatus, f.syncErr
}

func (f *fakeLedgerService) CheckPaymentStatus(ctx context.Context, paymentID string) (models.PaymentStatus, error) {
	return f.checkStatus, nil
}

func (f *fakeLedgerService) UpdatePaymentStatus(ctx context.Context, paymentID string, status models.PaymentStatus) error {
	f.updateCalls = append(f.updateCalls, status)
	return f.updateErr
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

type fakeSessionRepository struct {
	deleted []string
}

func (f *fakeSessionRepository) SaveSession(ctx context.Context, applicationID string, session *models.CheckoutSession) error {
	return nil
}

func (f *fakeSessionRepository) GetSession(ctx context.Context, applicationID string) (*models.CheckoutSession, error) {
	return nil, nil
}

func (f *fakeSessionRepository) DeleteSession(ctx context.Context, applicationID string) error {
	f.deleted = append(f.deleted, applicationID)
	return nil
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

type fakeAuditRepository struct {
	inserted []*contracts.PaymentAuditDocument
}

func (f *fakeAuditRepository) InsertTransition(ctx context.Context, doc *contracts.PaymentAuditDocument) error {
	f.inserted = append(f.inserted, doc)
	return nil
}

func (f *fakeAuditRepository) FindByPaymentID(ctx context.Context, paymentID string) ([]contracts.PaymentAuditDocument, error) {
	var docs []contracts.PaymentAuditDocument
	for _, doc := range f.inserted {
		if doc.PaymentID == paymentID {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

type fakeEventPublisher struct {
	published []*contracts.StatusChangeEvent
}

func (f *fakeEventPublisher) PublishStatusChange(ctx context.Context, event *contracts.StatusChangeEvent) error {
	f.published = append(f.published, event)
	return nil
}

type reconciliationFixture struct {
	ledger    *fakeLedgerService
	states    *fakeStateRepository
	sessions  *fakeSessionRepository
	watch     *fakeWatchRepository
	audit     *fakeAuditRepository
	publisher *fakeEventPublisher
	usecase   *reconciliationUsecase
}

func newFixture() *reconciliationFixture {
	f := &reconciliationFixture{
		ledger:    &fakeLedgerService{},
		states:    newFakeStateRepository(),
		sessions:  &fakeSessionRepository{},
		watch:     newFakeWatchRepository(),
		audit:     &fakeAuditRepository{},
		publisher: &fakeEventPublisher{},
	}
	f.usecase = &reconciliationUsecase{
		LedgerService:     f.ledger,
		StateRepository:   f.states,
		SessionRepository: f.sessions,
		WatchRepository:   f.watch,
		AuditRepository:   f.audit,
		EventPublisher:    f.publisher,
		Log:               zap.NewNop(),
	}
	return f
}

func (f *reconciliationFixture) seedState(status models.PaymentStatus) {
	f.states.SaveState(context.Background(), &models.PaymentAttempt{
		PaymentID:     "pay-1",
		ApplicationID: "app-1",
		Method:        "external_wallet",
		Status:        status,
		CreatedAt:     time.Now().Add(-time.Minute),
		UpdatedAt:     time.Now().Add(-time.Minute),
	})
}

func TestOnStatusTerminalHintSyncsLedger(t *testing.T) {
	f := newFixture()
	f.seedState(models.PaymentStatusProcessing)
	f.watch.watched["pay-1"] = true
	f.ledger.syncStatus = models.PaymentStatusComplete

	err := f.usecase.OnStatus(context.Background(), &models.DeepLinkEvent{
		PaymentID:     "pay-1",
		ApplicationID: "app-1",
		Status:        models.DeepLinkStatusSuccess,
	})
	assert.NoError(t, err)

	state, _ := f.states.GetState(context.Background(), "pay-1")
	assert.Equal(t, models.PaymentStatusComplete, state.Status)
	assert.Equal(t, []string{"app-1"}, f.sessions.deleted)
	assert.False(t, f.watch.watched["pay-1"])
	assert.Len(t, f.audit.inserted, 1)
	assert.Equal(t, models.PaymentStatusProcessing, f.audit.inserted[0].FromStatus)
	assert.Equal(t, models.PaymentStatusComplete, f.audit.inserted[0].ToStatus)
	assert.Len(t, f.publisher.published, 1)
}

func TestOnStatusLedgerDisagreesWithHint(t *testing.T) {
	// The deep link claims success but the ledger says failed: the ledger wins.
	f := newFixture()
	f.seedState(models.PaymentStatusProcessing)
	f.ledger.syncStatus = models.PaymentStatusFailed

	err := f.usecase.OnStatus(context.Background(), &models.DeepLinkEvent{
		PaymentID: "pay-1",
		Status:    models.DeepLinkStatusSuccess,
	})
	assert.NoError(t, err)

	state, _ := f.states.GetState(context.Background(), "pay-1")
	assert.Equal(t, models.PaymentStatusFailed, state.Status)
}

func TestOnStatusProcessingHintIsLocalOnly(t *testing.T) {
	f := newFixture()
	f.seedState(models.PaymentStatusPending)

	err := f.usecase.OnStatus(context.Background(), &models.DeepLinkEvent{
		PaymentID: "pay-1",
		Status:    models.DeepLinkStatusProcessing,
	})
	assert.NoError(t, err)

	state, _ := f.states.GetState(context.Background(), "pay-1")
	assert.Equal(t, models.PaymentStatusProcessing, state.Status)
	assert.Empty(t, f.publisher.published, "no event for an informational hint")
	assert.True(t, f.watch.watched["pay-1"])
}

func TestOnStatusSyncFailureKeepsProcessing(t *testing.T) {
	f := newFixture()
	f.seedState(models.PaymentStatusProcessing)
	f.ledger.syncErr = errors.New("ledger unreachable")

	err := f.usecase.OnStatus(context.Background(), &models.DeepLinkEvent{
		PaymentID: "pay-1",
		Status:    models.DeepLinkStatusSuccess,
	})
	assert.Error(t, err)

	state, _ := f.states.GetState(context.Background(), "pay-1")
	assert.Equal(t, models.PaymentStatusProcessing, state.Status)
	assert.Empty(t, f.audit.inserted)
}

func TestMonotonicTerminalGuard(t *testing.T) {
	f := newFixture()
	f.seedState(models.PaymentStatusComplete)
	f.ledger.syncStatus = models.PaymentStatusFailed

	// A stale failed event after completion must not downgrade the state.
	err := f.usecase.OnStatus(context.Background(), &models.DeepLinkEvent{
		PaymentID: "pay-1",
		Status:    models.DeepLinkStatusFailed,
	})
	assert.NoError(t, err)

	state, _ := f.states.GetState(context.Background(), "pay-1")
	assert.Equal(t, models.PaymentStatusComplete, state.Status)
	assert.Empty(t, f.audit.inserted)
	assert.Empty(t, f.publisher.published)
}

func TestLateProcessingHintAfterTerminal(t *testing.T) {
	f := newFixture()
	f.seedState(models.PaymentStatusComplete)

	err := f.usecase.OnStatus(context.Background(), &models.DeepLinkEvent{
		PaymentID: "pay-1",
		Status:    models.DeepLinkStatusProcessing,
	})
	assert.NoError(t, err)

	state, _ := f.states.GetState(context.Background(), "pay-1")
	assert.Equal(t, models.PaymentStatusComplete, state.Status)
}

func TestCheckStatusAppliesConfirmed(t *testing.T) {
	f := newFixture()
	f.seedState(models.PaymentStatusProcessing)
	f.ledger.checkStatus = models.PaymentStatusComplete

	status, err := f.usecase.CheckStatus(context.Background(), "pay-1")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusComplete, status)

	state, _ := f.states.GetState(context.Background(), "pay-1")
	assert.Equal(t, models.PaymentStatusComplete, state.Status)
}

func TestCheckStatusKeepsTerminalOnStaleAnswer(t *testing.T) {
	f := newFixture()
	f.seedState(models.PaymentStatusComplete)
	f.ledger.checkStatus = models.PaymentStatusProcessing

	status, err := f.usecase.CheckStatus(context.Background(), "pay-1")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusComplete, status)
}

func TestCancel(t *testing.T) {
	t.Run("Cancels an in-flight payment", func(t *testing.T) {
		f := newFixture()
		f.seedState(models.PaymentStatusProcessing)

		err := f.usecase.Cancel(context.Background(), "pay-1")
		assert.NoError(t, err)
		assert.Equal(t, []models.PaymentStatus{models.PaymentStatusCancelled}, f.ledger.updateCalls)

		state, _ := f.states.GetState(context.Background(), "pay-1")
		assert.Equal(t, models.PaymentStatusCancelled, state.Status)
		assert.Len(t, f.audit.inserted, 1)
	})

	t.Run("Already terminal is a no-op", func(t *testing.T) {
		f := newFixture()
		f.seedState(models.PaymentStatusComplete)

		err := f.usecase.Cancel(context.Background(), "pay-1")
		assert.NoError(t, err)
		assert.Empty(t, f.ledger.updateCalls)
	})

	t.Run("Ledger error is returned", func(t *testing.T) {
		f := newFixture()
		f.seedState(models.PaymentStatusProcessing)
		f.ledger.updateErr = errors.New("ledger unreachable")

		err := f.usecase.Cancel(context.Background(), "pay-1")
		assert.Error(t, err)

		state, _ := f.states.GetState(context.Background(), "pay-1")
		assert.Equal(t, models.PaymentStatusProcessing, state.Status)
	})
}

func TestOnStatusWithoutPaymentID(t *testing.T) {
	f := newFixture()
	err := f.usecase.OnStatus(context.Background(), &models.DeepLinkEvent{
		RawURL: "healthcard://payment/success",
		Status: models.DeepLinkStatusSuccess,
	})
	assert.NoError(t, err)
	assert.Empty(t, f.publisher.published)
}
