package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	domaincatalog "staymarket/internal/domain/catalog"
	domaincommissions "staymarket/internal/domain/commissions"
)

const (
	typeKeyPrefix = "commission:type:"
	settingsKey   = "commission:settings"

	// DefaultTTL bounds how long a stale rate can be served after a
	// configuration change in another process.
	DefaultTTL = 5 * time.Minute
)

// Cache is the injectable TTL store behind the resolver; satisfied by the
// in-process and redis implementations in infra/cache.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// cachedEntry distinguishes a cached per-type override from a cached
// "no override, use the global fallback" marker, so settings changes only
// have to invalidate the settings key.
type cachedEntry struct {
	Fallback bool                    `json:"fallback"`
	Rates    domaincommissions.Rates `json:"rates"`
}

// Resolver derives commission rates for a property type: active per-type
// row, else the most recent active global settings, else zero.
type Resolver struct {
	Store  domaincommissions.Store
	Cache  Cache
	TTL    time.Duration
	Logger *slog.Logger
}

func NewResolver(store domaincommissions.Store, cache Cache, logger *slog.Logger) *Resolver {
	return &Resolver{Store: store, Cache: cache, TTL: DefaultTTL, Logger: logger}
}

// Resolve returns the applicable rates. Results are cached per type with a
// lazy TTL; a cache failure falls through to the store rather than erroring.
func (r *Resolver) Resolve(ctx context.Context, typeID domaincatalog.PropertyTypeID) (domaincommissions.Rates, error) {
	entry, ok := r.cachedType(ctx, typeID)
	if !ok {
		fresh, err := r.loadType(ctx, typeID)
		if err != nil {
			return domaincommissions.Rates{}, err
		}
		entry = fresh
		r.storeType(ctx, typeID, entry)
	}
	if !entry.Fallback {
		return entry.Rates, nil
	}
	return r.resolveGlobal(ctx)
}

func (r *Resolver) resolveGlobal(ctx context.Context) (domaincommissions.Rates, error) {
	if raw, ok, err := r.cacheGet(ctx, settingsKey); err == nil && ok {
		var rates domaincommissions.Rates
		if json.Unmarshal(raw, &rates) == nil {
			return rates, nil
		}
	}
	settings, err := r.Store.LatestActiveSettings(ctx)
	if err != nil {
		if errors.Is(err, domaincommissions.ErrSettingsNotFound) {
			rates := domaincommissions.Rates{}
			r.cacheSet(ctx, settingsKey, rates)
			return rates, nil
		}
		return domaincommissions.Rates{}, err
	}
	r.cacheSet(ctx, settingsKey, settings.Rates)
	return settings.Rates, nil
}

// Invalidate drops cached rates for the given property types. Mutations that
// move a commission between types must pass both the old and new type.
func (r *Resolver) Invalidate(ctx context.Context, typeIDs ...domaincatalog.PropertyTypeID) error {
	if r.Cache == nil || len(typeIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(typeIDs))
	for _, id := range typeIDs {
		if id == "" {
			continue
		}
		keys = append(keys, typeKeyPrefix+string(id))
	}
	return r.Cache.Invalidate(ctx, keys...)
}

// InvalidateGlobal drops the cached global fallback after a settings change.
func (r *Resolver) InvalidateGlobal(ctx context.Context) error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Invalidate(ctx, settingsKey)
}

func (r *Resolver) loadType(ctx context.Context, typeID domaincatalog.PropertyTypeID) (cachedEntry, error) {
	commission, err := r.Store.ByType(ctx, typeID)
	if err != nil {
		if errors.Is(err, domaincommissions.ErrCommissionNotFound) {
			return cachedEntry{Fallback: true}, nil
		}
		return cachedEntry{}, err
	}
	if !commission.Active {
		return cachedEntry{Fallback: true}, nil
	}
	return cachedEntry{Rates: commission.Rates}, nil
}

func (r *Resolver) cachedType(ctx context.Context, typeID domaincatalog.PropertyTypeID) (cachedEntry, bool) {
	raw, ok, err := r.cacheGet(ctx, typeKeyPrefix+string(typeID))
	if err != nil || !ok {
		return cachedEntry{}, false
	}
	var entry cachedEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return cachedEntry{}, false
	}
	return entry, true
}

func (r *Resolver) storeType(ctx context.Context, typeID domaincatalog.PropertyTypeID, entry cachedEntry) {
	if r.Cache == nil {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, typeKeyPrefix+string(typeID), raw, r.ttl()); err != nil && r.Logger != nil {
		r.Logger.Warn("commission cache set failed", "type_id", typeID, "error", err)
	}
}

func (r *Resolver) cacheGet(ctx context.Context, key string) ([]byte, bool, error) {
	if r.Cache == nil {
		return nil, false, nil
	}
	raw, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Warn("commission cache read failed", "key", key, "error", err)
		}
		return nil, false, err
	}
	return raw, ok, nil
}

func (r *Resolver) cacheSet(ctx context.Context, key string, rates domaincommissions.Rates) {
	if r.Cache == nil {
		return
	}
	raw, err := json.Marshal(rates)
	if err != nil {
		return
	}
	_ = r.Cache.Set(ctx, key, raw, r.ttl())
}

func (r *Resolver) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return DefaultTTL
}
