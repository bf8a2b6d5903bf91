package modelcatalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"menlo.ai/chat-relay/app/infrastructure/cache"
	"menlo.ai/chat-relay/app/utils/functional"
	"menlo.ai/chat-relay/app/utils/httpclients/openrouter"
	"menlo.ai/chat-relay/app/utils/logger"
	"menlo.ai/chat-relay/config/environment_variables"
)

var ErrCatalogUnavailable = errors.New("failed to retrieve models")

type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	Created       int64  `json:"created"`
	ContextLength int    `json:"context_length,omitempty"`
}

type ModelLister interface {
	GetModels(ctx context.Context, apiKey string) (*openrouter.ModelsResponse, error)
}

// ModelCatalogService serves the upstream model list from cache, keeping the last good
// snapshot for when both cache and upstream fail.
type ModelCatalogService struct {
	client ModelLister
	cache  cache.CacheService

	mu       sync.RWMutex
	snapshot []Model
}

func NewService(client ModelLister, cacheService cache.CacheService) *ModelCatalogService {
	return &ModelCatalogService{
		client: client,
		cache:  cacheService,
	}
}

func (s *ModelCatalogService) ListModels(ctx context.Context) ([]Model, error) {
	var models []Model
	err := s.cache.GetWithFallback(ctx, cache.ModelsCacheKey, &models, func() (any, error) {
		return s.fetch(ctx)
	}, cache.ModelsCacheExpiration)
	if err == nil {
		return models, nil
	}

	if snapshot := s.lastSnapshot(); len(snapshot) > 0 {
		logger.GetLogger().Warnf("model catalog unavailable, serving %d cached models: %v", len(snapshot), err)
		return snapshot, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
}

// RefreshModels fetches the upstream list and replaces the cached copy.
func (s *ModelCatalogService) RefreshModels(ctx context.Context) ([]Model, error) {
	models, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cache.ModelsCacheKey, models, cache.ModelsCacheExpiration); err != nil {
		logger.GetLogger().Errorf("failed to cache model catalog: %v", err)
	}
	return models, nil
}

func (s *ModelCatalogService) fetch(ctx context.Context) ([]Model, error) {
	resp, err := s.client.GetModels(ctx, environment_variables.EnvironmentVariables.OPENROUTER_API_KEY)
	if err != nil {
		return nil, err
	}
	upstream := functional.Filter(resp.Data, func(m openrouter.Model) bool {
		return strings.TrimSpace(m.ID) != ""
	})
	models := functional.Map(upstream, func(m openrouter.Model) Model {
		return Model{
			ID:            m.ID,
			Name:          m.Name,
			Created:       m.Created,
			ContextLength: m.ContextLength,
		}
	})
	sort.Slice(models, func(i, j int) bool {
		return models[i].ID < models[j].ID
	})

	s.mu.Lock()
	s.snapshot = models
	s.mu.Unlock()
	return models, nil
}

func (s *ModelCatalogService) lastSnapshot() []Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
