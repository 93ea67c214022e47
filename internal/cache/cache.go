package cache

import (
	"context"
	"time"

	"partyplan/internal/logger"
	"partyplan/internal/models"

	"github.com/google/uuid"
)

type Config struct {
	RedisAddr     string
	RedisPassword string
	TTL           time.Duration
}

// Cache stores profiles by id. Misses and backend errors both report false.
type Cache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Profile, bool)
	Set(ctx context.Context, profile *models.Profile)
	Close() error
}

// New returns a Redis-backed cache when an address is configured and
// reachable, otherwise an in-process one.
func New(cfg Config) Cache {
	if cfg.RedisAddr != "" {
		c, err := NewValkeyCache(cfg)
		if err == nil {
			return c
		}
		logger.Get().Warn().Err(err).Msg("Redis unavailable, falling back to in-memory profile cache")
	}
	return NewMemoryCache(cfg.TTL)
}

// ProfileSource loads profiles from the database
type ProfileSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// Profiles is a read-through cache in front of a ProfileSource
type Profiles struct {
	source ProfileSource
	cache  Cache
}

func NewProfiles(source ProfileSource, cache Cache) *Profiles {
	return &Profiles{source: source, cache: cache}
}

// GetByID returns nil, nil for unknown profiles; those are not cached.
func (p *Profiles) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if profile, ok := p.cache.Get(ctx, id); ok {
		return profile, nil
	}

	profile, err := p.source.GetByID(ctx, id)
	if err != nil || profile == nil {
		return profile, err
	}

	p.cache.Set(ctx, profile)
	return profile, nil
}
