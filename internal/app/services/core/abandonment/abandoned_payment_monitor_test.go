package abandonment

import (
	"context"
	"healthcard-service/internal/app/models"
	"healthcard-service/internal/app/services/shared/platform"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeReconciliation struct {
	mu      sync.Mutex
	probed  []string
	status  models.PaymentStatus
}

func (f *fakeReconciliation) OnStatus(ctx context.Context, event *models.DeepLinkEvent) error {
	return nil
}

func (f *fakeReconciliation) CheckStatus(ctx context.Context, paymentID string) (models.PaymentStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probed = append(f.probed, paymentID)
	return f.status, nil
}

func (f *fakeReconciliation) Cancel(ctx context.Context, paymentID string) error {
	return nil
}

func (f *fakeReconciliation) probeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.probed)
}

type fakeStateRepository struct {
	mu     sync.Mutex
	states map[string]*models.PaymentAttempt
}

func newFakeStateRepository() *fakeStateRepository {
	return &fakeStateRepository{states: make(map[string]*models.PaymentAttempt)}
}

func (f *fakeStateRepository) SaveState(ctx context.Context, state *models.PaymentAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *state
	f.states[state.PaymentID] = &copied
	return nil
}

func (f *fakeStateRepository) GetState(ctx context.Context, paymentID string) (*models.PaymentAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.states[paymentID]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

type fakeWatchRepository struct {
	mu      sync.Mutex
	watched map[string]bool
}

func newFakeWatchRepository() *fakeWatchRepository {
	return &fakeWatchRepository{watched: make(map[string]bool)}
}

func (f *fakeWatchRepository) Watch(ctx context.Context, paymentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watched[paymentID] = true
	return nil
}

func (f *fakeWatchRepository) Unwatch(ctx context.Context, paymentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.watched, paymentID)
	return nil
}

func (f *fakeWatchRepository) Watched(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.watched))
	for id := range f.watched {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeWatchRepository) isWatched(paymentID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.watched[paymentID]
}

type fakeLocker struct {
	denied bool
}

func (f *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	if f.denied {
		return false, "", nil
	}
	return true, "lock-value", nil
}

func (f *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	return nil
}

func newTestMonitor(rec *fakeReconciliation, states *fakeStateRepository, watch *fakeWatchRepository, locker *fakeLocker) *Monitor {
	return &Monitor{
		Reconciliation:     rec,
		StateRepository:    states,
		WatchRepository:    watch,
		Lifecycle:          platform.NewLifecycleSource(),
		Locker:             locker,
		Log:                zap.NewNop(),
		tick:               time.Hour,
		stallThreshold:     3 * time.Minute,
		processingDeadline: 30 * time.Minute,
	}
}

func seedProcessing(states *fakeStateRepository, watch *fakeWatchRepository, paymentID string, age time.Duration) {
	states.SaveState(context.Background(), &models.PaymentAttempt{
		PaymentID: paymentID,
		Status:    models.PaymentStatusProcessing,
		CreatedAt: time.Now().Add(-age),
		UpdatedAt: time.Now().Add(-age),
	})
	watch.Watch(context.Background(), paymentID)
}

func TestRunOnceProbesStalledPayments(t *testing.T) {
	rec := &fakeReconciliation{status: models.PaymentStatusProcessing}
	states := newFakeStateRepository()
	watch := newFakeWatchRepository()
	monitor := newTestMonitor(rec, states, watch, &fakeLocker{})

	seedProcessing(states, watch, "stalled", 10*time.Minute)
	seedProcessing(states, watch, "fresh", 30*time.Second)

	monitor.runOnce(context.Background())

	assert.Equal(t, []string{"stalled"}, rec.probed, "only payments past the stall threshold are probed")
}

func TestRunOnceUnwatchesTerminalPayments(t *testing.T) {
	rec := &fakeReconciliation{}
	states := newFakeStateRepository()
	watch := newFakeWatchRepository()
	monitor := newTestMonitor(rec, states, watch, &fakeLocker{})

	states.SaveState(context.Background(), &models.PaymentAttempt{
		PaymentID: "settled",
		Status:    models.PaymentStatusComplete,
		UpdatedAt: time.Now().Add(-10 * time.Minute),
	})
	watch.Watch(context.Background(), "settled")

	monitor.runOnce(context.Background())

	assert.False(t, watch.isWatched("settled"))
	assert.Equal(t, 0, rec.probeCount())
}

func TestRunOnceUnwatchesExpiredMirror(t *testing.T) {
	rec := &fakeReconciliation{}
	states := newFakeStateRepository()
	watch := newFakeWatchRepository()
	monitor := newTestMonitor(rec, states, watch, &fakeLocker{})

	// Watched but the state mirror is gone.
	watch.Watch(context.Background(), "vanished")

	monitor.runOnce(context.Background())

	assert.False(t, watch.isWatched("vanished"))
}

func TestRunOnceSkipsWhenLockDenied(t *testing.T) {
	rec := &fakeReconciliation{status: models.PaymentStatusProcessing}
	states := newFakeStateRepository()
	watch := newFakeWatchRepository()
	monitor := newTestMonitor(rec, states, watch, &fakeLocker{denied: true})

	seedProcessing(states, watch, "stalled", 10*time.Minute)

	monitor.runOnce(context.Background())

	assert.Equal(t, 0, rec.probeCount(), "another instance holds the sweep lock")
}

func TestForegroundTransitionTriggersSweep(t *testing.T) {
	rec := &fakeReconciliation{status: models.PaymentStatusProcessing}
	states := newFakeStateRepository()
	watch := newFakeWatchRepository()
	lifecycle := platform.NewLifecycleSource()

	monitor := newTestMonitor(rec, states, watch, &fakeLocker{})
	monitor.Lifecycle = lifecycle

	seedProcessing(states, watch, "stalled", 10*time.Minute)

	stop := monitor.Start(context.Background())
	defer stop()

	lifecycle.NotifyForeground()

	assert.Eventually(t, func() bool {
		return rec.probeCount() == 1
	}, time.Second, 10*time.Millisecond)
}
