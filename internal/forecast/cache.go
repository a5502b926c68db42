package forecast

import (
	"context"
	"encoding/json"
	"time"

	"pharmacy-inventory/internal/common/database"
	"pharmacy-inventory/internal/common/logger"
	"pharmacy-inventory/internal/dataset"
)

// CachedEngine serves forecasts through a redis cache. Cache failures fall
// back to recomputing; the cache is an optimization, not a dependency.
type CachedEngine struct {
	engine *Engine
	cache  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedEngine(engine *Engine, cache *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedEngine {
	return &CachedEngine{
		engine: engine,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "forecast-cache"}),
	}
}

func (c *CachedEngine) Forecast(ctx context.Context, sales []dataset.SaleRecord, drug string) []Point {
	key := "forecast:" + dataset.NormalizeName(drug)

	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, key); err == nil {
			var points []Point
			if err := json.Unmarshal([]byte(raw), &points); err == nil {
				return points
			}
			// Unreadable entry; drop it and recompute.
			_ = c.cache.Del(ctx, key)
		}
	}

	points := c.engine.Forecast(sales, drug)

	if c.cache != nil {
		if raw, err := json.Marshal(points); err == nil {
			if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
				c.logger.Warn("forecast cache write failed", map[string]interface{}{
					"drug":  drug,
					"error": err.Error(),
				})
			}
		}
	}

	return points
}
