package cache

import (
	"context"
	"time"

	"partyplan/internal/models"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type MemoryCache struct {
	items *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{items: gocache.New(ttl, 2*ttl)}
}

func (m *MemoryCache) Get(_ context.Context, id uuid.UUID) (*models.Profile, bool) {
	v, ok := m.items.Get(id.String())
	if !ok {
		return nil, false
	}
	profile, ok := v.(models.Profile)
	if !ok {
		return nil, false
	}
	return &profile, true
}

// Set stores a copy so callers cannot mutate cached entries
func (m *MemoryCache) Set(_ context.Context, profile *models.Profile) {
	m.items.SetDefault(profile.ID.String(), *profile)
}

func (m *MemoryCache) Close() error {
	m.items.Flush()
	return nil
}
