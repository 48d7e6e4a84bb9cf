package localrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golocales/internal/domain"
	"golocales/internal/pkg/cache"
	"golocales/internal/pkg/logger"
)

const cacheKeyPrefix = "local:"

// CachedRepository decora um domain.LocalRepository com cache-aside em FindByID.
// Falhas do cache nunca falham a operação; FindAll e FindByManager vão sempre ao store.
type CachedRepository struct {
	domain.LocalRepository
	cache  cache.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRepository(next domain.LocalRepository, c cache.Client, ttl time.Duration, log logger.Logger) *CachedRepository {
	return &CachedRepository{LocalRepository: next, cache: c, ttl: ttl, logger: log}
}

func cacheKey(id string) string { return cacheKeyPrefix + id }

func (r *CachedRepository) FindByID(ctx context.Context, id string) (domain.Local, error) {
	raw, err := r.cache.Get(ctx, cacheKey(id))
	if err == nil {
		var local domain.Local
		if err := json.Unmarshal([]byte(raw), &local); err == nil {
			r.logger.Debug("Cache hit.", map[string]interface{}{"local_id": id})
			return local, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Warn("Falha ao ler cache de local.", map[string]interface{}{"local_id": id, "error": err.Error()})
	}

	local, err := r.LocalRepository.FindByID(ctx, id)
	if err != nil {
		return domain.Local{}, err
	}
	r.store(ctx, local)
	return local, nil
}

func (r *CachedRepository) Update(ctx context.Context, current domain.Local, patch domain.LocalPatch) (domain.Local, error) {
	updated, err := r.LocalRepository.Update(ctx, current, patch)
	r.invalidate(ctx, current.LocalID)
	return updated, err
}

func (r *CachedRepository) Delete(ctx context.Context, local domain.Local) error {
	err := r.LocalRepository.Delete(ctx, local)
	r.invalidate(ctx, local.LocalID)
	return err
}

func (r *CachedRepository) store(ctx context.Context, local domain.Local) {
	b, err := json.Marshal(local)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(local.LocalID), b, r.ttl); err != nil {
		r.logger.Warn("Falha ao gravar cache de local.", map[string]interface{}{"local_id": local.LocalID, "error": err.Error()})
	}
}

func (r *CachedRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, cacheKey(id)); err != nil {
		r.logger.Warn("Falha ao invalidar cache de local.", map[string]interface{}{"local_id": id, "error": err.Error()})
	}
}
