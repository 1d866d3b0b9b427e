package uploads

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

type uploadQueueRepository struct {
	RedisRepository contracts.RedisRepository
	TTL             time.Duration
}

func NewUploadQueueRepository(redisRepository contracts.RedisRepository, internalConfig *config.InternalConfig) contracts.UploadQueueRepository {
	ttl := time.Duration(internalConfig.Payments.UploadQueueTTLInHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &uploadQueueRepository{
		RedisRepository: redisRepository,
		TTL:             ttl,
	}
}

func (r *uploadQueueRepository) SaveQueue(ctx context.Context, queueID string, operations []models.UploadOperation) error {
	key := fmt.Sprintf(constvars.RedisKeyUploadQueue, queueID)
	return r.RedisRepository.Set(ctx, key, operations, r.TTL)
}

func (r *uploadQueueRepository) GetQueue(ctx context.Context, queueID string) ([]models.UploadOperation, error) {
	key := fmt.Sprintf(constvars.RedisKeyUploadQueue, queueID)
	raw, err := r.RedisRepository.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var operations []models.UploadOperation
	if err := json.Unmarshal([]byte(raw), &operations); err != nil {
		return nil, err
	}
	return operations, nil
}
