package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// LookupCache keeps the JSON encoded list of values of entity fields
type LookupCache struct {
	backend Cache
}

// NewLookupCache wraps a backend
func NewLookupCache(backend Cache) *LookupCache {
	return &LookupCache{backend: backend}
}

// LookupKey returns the cache key of a field's list of values
func LookupKey(entity, field string) string {
	return fmt.Sprintf("lov:%s:%s", entity, field)
}

// Get decodes a cached list into dst. It reports false on a miss.
func (l *LookupCache) Get(ctx context.Context, entity, field string, dst interface{}) (bool, error) {
	data, err := l.backend.Get(ctx, LookupKey(entity, field))
	if err != nil {
		if IsCacheMiss(err) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		// a corrupt entry behaves like a miss and is dropped
		_ = l.backend.Delete(ctx, LookupKey(entity, field))
		return false, nil
	}
	return true, nil
}

// Set stores a list of values with the backend's default ttl
func (l *LookupCache) Set(ctx context.Context, entity, field string, values interface{}) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode lookup values: %w", err)
	}
	return l.backend.Set(ctx, LookupKey(entity, field), data, 0)
}

// Invalidate drops the cached list of values of an entity field
func (l *LookupCache) Invalidate(ctx context.Context, entity, field string) error {
	return l.backend.Delete(ctx, LookupKey(entity, field))
}
