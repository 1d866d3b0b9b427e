package reconciliation

import (
	"context"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/pkg/constvars"
)

type processingWatchRepository struct {
	RedisRepository contracts.RedisRepository
}

func NewProcessingWatchRepository(redisRepository contracts.RedisRepository) contracts.ProcessingWatchRepository {
	return &processingWatchRepository{RedisRepository: redisRepository}
}

func (r *processingWatchRepository) Watch(ctx context.Context, paymentID string) error {
	return r.RedisRepository.AddToSet(ctx, constvars.RedisKeyProcessingWatchSet, paymentID)
}

func (r *processingWatchRepository) Unwatch(ctx context.Context, paymentID string) error {
	return r.RedisRepository.RemoveFromSet(ctx, constvars.RedisKeyProcessingWatchSet, paymentID)
}

func (r *processingWatchRepository) Watched(ctx context.Context) ([]string, error) {
	return r.RedisRepository.GetSetMembers(ctx, constvars.RedisKeyProcessingWatchSet)
}
