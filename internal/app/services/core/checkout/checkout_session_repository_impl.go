package checkout

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

type checkoutSessionRepository struct {
	RedisRepository contracts.RedisRepository
	TTL             time.Duration
}

func NewCheckoutSessionRepository(redisRepository contracts.RedisRepository, internalConfig *config.InternalConfig) contracts.CheckoutSessionRepository {
	ttl := time.Duration(internalConfig.Payments.StateTTLInHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &checkoutSessionRepository{
		RedisRepository: redisRepository,
		TTL:             ttl,
	}
}

func (r *checkoutSessionRepository) SaveSession(ctx context.Context, applicationID string, session *models.CheckoutSession) error {
	key := fmt.Sprintf(constvars.RedisKeyActiveCheckoutSession, applicationID)
	return r.RedisRepository.Set(ctx, key, session, r.TTL)
}

func (r *checkoutSessionRepository) GetSession(ctx context.Context, applicationID string) (*models.CheckoutSession, error) {
	key := fmt.Sprintf(constvars.RedisKeyActiveCheckoutSession, applicationID)
	raw, err := r.RedisRepository.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	session := new(models.CheckoutSession)
	if err := json.Unmarshal([]byte(raw), session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *checkoutSessionRepository) DeleteSession(ctx context.Context, applicationID string) error {
	key := fmt.Sprintf(constvars.RedisKeyActiveCheckoutSession, applicationID)
	return r.RedisRepository.Delete(ctx, key)
}
