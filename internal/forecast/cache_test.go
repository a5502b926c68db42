package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy-inventory/internal/common/config"
	"pharmacy-inventory/internal/common/database"
	"pharmacy-inventory/internal/common/logger"
)

func setupCache(t *testing.T) (*database.RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestCachedEngine_MissThenHit(t *testing.T) {
	client, mr := setupCache(t)

	engine := NewEngine(30).WithClock(fixedClock)
	cached := NewCachedEngine(engine, client, time.Minute, logger.NewTestLogger(t))

	sales := linearSales("dolo 650", 14, 10, 2)
	ctx := context.Background()

	first := cached.Forecast(ctx, sales, "dolo 650")
	require.Len(t, first, 30)
	assert.True(t, mr.Exists("forecast:dolo 650"))

	// Second call is served from the cache even with no sales supplied.
	second := cached.Forecast(ctx, nil, "dolo 650")
	assert.Equal(t, first, second)
}

func TestCachedEngine_KeyNormalization(t *testing.T) {
	client, mr := setupCache(t)

	engine := NewEngine(30).WithClock(fixedClock)
	cached := NewCachedEngine(engine, client, time.Minute, logger.NewNoOpLogger())

	cached.Forecast(context.Background(), linearSales("pan 40", 12, 5, 0), "PAN-40")
	assert.True(t, mr.Exists("forecast:pan 40"))
}

func TestCachedEngine_CorruptEntryRecomputes(t *testing.T) {
	client, mr := setupCache(t)
	require.NoError(t, mr.Set("forecast:dolo 650", "{not json"))

	engine := NewEngine(30).WithClock(fixedClock)
	cached := NewCachedEngine(engine, client, time.Minute, logger.NewNoOpLogger())

	points := cached.Forecast(context.Background(), linearSales("dolo 650", 14, 10, 2), "dolo 650")
	assert.Len(t, points, 30)
}

func TestCachedEngine_NoCacheStillWorks(t *testing.T) {
	engine := NewEngine(30).WithClock(fixedClock)
	cached := NewCachedEngine(engine, nil, time.Minute, logger.NewNoOpLogger())

	points := cached.Forecast(context.Background(), linearSales("dolo 650", 14, 10, 2), "dolo 650")
	assert.Len(t, points, 30)
}
