package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy-inventory/internal/dataset"
)

var testNow = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func linearSales(drug string, days int, base, slope float64) []dataset.SaleRecord {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	sales := make([]dataset.SaleRecord, 0, days)
	for i := 0; i < days; i++ {
		sales = append(sales, dataset.SaleRecord{
			Date:     start.AddDate(0, 0, i),
			DrugName: drug,
			QtySold:  base + slope*float64(i),
		})
	}
	return sales
}

func TestForecast_TooLittleHistory(t *testing.T) {
	engine := NewEngine(30).WithClock(fixedClock)
	points := engine.Forecast(linearSales("dolo 650", 9, 10, 1), "dolo 650")
	assert.Empty(t, points)
}

func TestForecast_RisingDemand(t *testing.T) {
	engine := NewEngine(30).WithClock(fixedClock)

	points := engine.Forecast(linearSales("dolo 650", 14, 10, 2), "dolo 650")
	require.Len(t, points, 30)

	// Exact linear history fits exactly.
	require.NotNil(t, points[0].MAPE)
	assert.Equal(t, 0.0, *points[0].MAPE)

	// First forecast day continues the trend: 10 + 2*14 = 38.
	assert.InDelta(t, 38.0, points[0].Forecast, 0.01)
	assert.True(t, points[1].Forecast > points[0].Forecast)

	// Steep rise trips the surge alert.
	assert.True(t, points[0].DemandSurge)
	// 14 days of history is under the seasonal window.
	assert.False(t, points[0].SeasonalSpike)

	// Mean demand over 10..36 is 23; reorder covers a week.
	assert.Equal(t, 161, points[0].ReorderQty)
	assert.Equal(t, testNow.AddDate(0, 0, 5).Format("2006-01-02"), points[0].ReorderDate)
}

func TestForecast_FlatDemand(t *testing.T) {
	engine := NewEngine(30).WithClock(fixedClock)

	points := engine.Forecast(linearSales("pan 40", 12, 5, 0), "pan 40")
	require.Len(t, points, 30)

	assert.InDelta(t, 5.0, points[0].Forecast, 0.01)
	assert.False(t, points[0].DemandSurge)
	assert.Equal(t, 35, points[0].ReorderQty)
}

func TestForecast_MatchesDrugCaseInsensitively(t *testing.T) {
	engine := NewEngine(30).WithClock(fixedClock)

	sales := linearSales("dolo 650", 12, 8, 1)
	points := engine.Forecast(sales, "  DOLO 650 ")
	assert.NotEmpty(t, points)

	points = engine.Forecast(sales, "pan 40")
	assert.Empty(t, points)
}

func TestForecast_NeverNegative(t *testing.T) {
	engine := NewEngine(30).WithClock(fixedClock)

	// Falling demand; the extrapolated trend would cross zero.
	points := engine.Forecast(linearSales("telma 40", 12, 22, -2), "telma 40")
	require.Len(t, points, 30)

	for _, p := range points {
		assert.GreaterOrEqual(t, p.Forecast, 0.0)
	}
}
