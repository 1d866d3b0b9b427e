package reconciliation

import (
	"context"
	"fmt"
	"healthcard-service/internal/app/config"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/app/models"
	"healthcard-service/internal/pkg/constvars"
	"time"

	"github.com/goccy/go-json"
)

type paymentStateRepository struct {
	RedisRepository contracts.RedisRepository
	TTL             time.Duration
}

func NewPaymentStateRepository(redisRepository contracts.RedisRepository, internalConfig *config.InternalConfig) contracts.PaymentStateRepository {
	ttl := time.Duration(internalConfig.Payments.StateTTLInHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &paymentStateRepository{
		RedisRepository: redisRepository,
		TTL:             ttl,
	}
}

func (r *paymentStateRepository) SaveState(ctx context.Context, state *models.PaymentAttempt) error {
	key := fmt.Sprintf(constvars.RedisKeyPaymentState, state.PaymentID)
	return r.RedisRepository.Set(ctx, key, state, r.TTL)
}

func (r *paymentStateRepository) GetState(ctx context.Context, paymentID string) (*models.PaymentAttempt, error) {
	key := fmt.Sprintf(constvars.RedisKeyPaymentState, paymentID)
	raw, err := r.RedisRepository.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	state := new(models.PaymentAttempt)
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		return nil, err
	}
	return state, nil
}
