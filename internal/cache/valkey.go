package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"partyplan/internal/logger"
	"partyplan/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const profileKeyPrefix = "profile:"

type ValkeyCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewValkeyCache(cfg Config) (*ValkeyCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return newValkeyCache(rdb, cfg.TTL), nil
}

func newValkeyCache(client *redis.Client, ttl time.Duration) *ValkeyCache {
	return &ValkeyCache{client: client, ttl: ttl}
}

func (v *ValkeyCache) Get(ctx context.Context, id uuid.UUID) (*models.Profile, bool) {
	data, err := v.client.Get(ctx, profileKeyPrefix+id.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithContext(ctx).Warn().Err(err).Str("user_id", id.String()).Msg("Profile cache lookup failed")
		}
		return nil, false
	}

	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, false
	}
	return &profile, true
}

func (v *ValkeyCache) Set(ctx context.Context, profile *models.Profile) {
	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := v.client.Set(ctx, profileKeyPrefix+profile.ID.String(), data, v.ttl).Err(); err != nil {
		logger.WithContext(ctx).Warn().Err(err).Str("user_id", profile.ID.String()).Msg("Profile cache write failed")
	}
}

func (v *ValkeyCache) Close() error {
	return v.client.Close()
}
