package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zlatanpham/exploro-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultCacheTTL mirrors how long mapping rows stay hot between admin edits.
const DefaultCacheTTL = time.Hour

func mappingCacheKey(ingredientID, countUnitID uuid.UUID) string {
	return fmt.Sprintf("unitconv:mapping:%s:%s", ingredientID, countUnitID)
}

func conversionCacheKey(fromUnitID, toUnitID uuid.UUID) string {
	return fmt.Sprintf("unitconv:factor:%s:%s", fromUnitID, toUnitID)
}

// cacheGet decodes a cached JSON value into dest. Any miss or decode error
// reports false; the caller falls through to storage.
func cacheGet(ctx context.Context, rdb *redis.Client, key string, dest any) bool {
	raw, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// cacheSet is best effort.
func cacheSet(ctx context.Context, rdb *redis.Client, key string, v any, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// ── Mapping cache ─────────────────────────────────────────────────────────────

type cachedMappingRepository struct {
	MappingRepository
	rdb *redis.Client
	ttl time.Duration
}

// NewCachedMappingRepository wraps inner with a Redis read-through cache for
// single-row lookups. Writes invalidate the affected key. A nil client
// returns inner unchanged.
func NewCachedMappingRepository(inner MappingRepository, rdb *redis.Client, ttl time.Duration) MappingRepository {
	if rdb == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &cachedMappingRepository{MappingRepository: inner, rdb: rdb, ttl: ttl}
}

func (r *cachedMappingRepository) Find(ctx context.Context, ingredientID, countUnitID uuid.UUID) (*model.IngredientUnitMapping, error) {
	key := mappingCacheKey(ingredientID, countUnitID)
	var cached model.IngredientUnitMapping
	if cacheGet(ctx, r.rdb, key, &cached) {
		return &cached, nil
	}
	m, err := r.MappingRepository.Find(ctx, ingredientID, countUnitID)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, r.rdb, key, m, r.ttl)
	return m, nil
}

func (r *cachedMappingRepository) Upsert(ctx context.Context, m *model.IngredientUnitMapping) error {
	if err := r.MappingRepository.Upsert(ctx, m); err != nil {
		return err
	}
	return r.invalidate(ctx, m.IngredientID, m.CountUnitID)
}

func (r *cachedMappingRepository) Delete(ctx context.Context, ingredientID, countUnitID uuid.UUID) error {
	if err := r.MappingRepository.Delete(ctx, ingredientID, countUnitID); err != nil {
		return err
	}
	return r.invalidate(ctx, ingredientID, countUnitID)
}

func (r *cachedMappingRepository) invalidate(ctx context.Context, ingredientID, countUnitID uuid.UUID) error {
	if err := r.rdb.Del(ctx, mappingCacheKey(ingredientID, countUnitID)).Err(); err != nil {
		return fmt.Errorf("invalidate mapping cache: %w", err)
	}
	return nil
}

// ── Conversion factor cache ───────────────────────────────────────────────────

type cachedConversionRepository struct {
	UnitConversionRepository
	rdb *redis.Client
	ttl time.Duration
}

// NewCachedConversionRepository caches curated factors by unit pair.
func NewCachedConversionRepository(inner UnitConversionRepository, rdb *redis.Client, ttl time.Duration) UnitConversionRepository {
	if rdb == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &cachedConversionRepository{UnitConversionRepository: inner, rdb: rdb, ttl: ttl}
}

func (r *cachedConversionRepository) Find(ctx context.Context, fromUnitID, toUnitID uuid.UUID) (*model.UnitConversion, error) {
	key := conversionCacheKey(fromUnitID, toUnitID)
	var cached model.UnitConversion
	if cacheGet(ctx, r.rdb, key, &cached) {
		return &cached, nil
	}
	c, err := r.UnitConversionRepository.Find(ctx, fromUnitID, toUnitID)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, r.rdb, key, c, r.ttl)
	return c, nil
}

func (r *cachedConversionRepository) CreatePair(ctx context.Context, forward, inverse *model.UnitConversion) error {
	if err := r.UnitConversionRepository.CreatePair(ctx, forward, inverse); err != nil {
		return err
	}
	return r.rdb.Del(ctx,
		conversionCacheKey(forward.FromUnitID, forward.ToUnitID),
		conversionCacheKey(inverse.FromUnitID, inverse.ToUnitID),
	).Err()
}
