package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"vibespace/internal/apperrors"
	"vibespace/internal/models"
)

// ShareRepository stores share capabilities in Redis, one JSON value per
// token. Shares never expire, so no TTL is set.
type ShareRepository struct {
	rdb *redis.Client
}

func NewShareRepository(rdb *redis.Client) *ShareRepository {
	return &ShareRepository{rdb: rdb}
}

var _ ShareStore = (*ShareRepository)(nil)

func shareKey(token string) string {
	return "share:" + token
}

func (r *ShareRepository) Put(ctx context.Context, share *models.DocShare) error {
	payload, err := json.Marshal(share)
	if err != nil {
		return fmt.Errorf("failed to encode share %s: %w", share.ID, err)
	}
	return r.rdb.Set(ctx, shareKey(share.ID), payload, 0).Err()
}

// Get treats malformed entries the same as missing ones: an unknown
// token, whatever the cause.
func (r *ShareRepository) Get(ctx context.Context, token string) (*models.DocShare, error) {
	payload, err := r.rdb.Get(ctx, shareKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: share token", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read share %s: %w", token, err)
	}
	var share models.DocShare
	if err := json.Unmarshal(payload, &share); err != nil {
		return nil, fmt.Errorf("%w: share token", apperrors.ErrNotFound)
	}
	return &share, nil
}
