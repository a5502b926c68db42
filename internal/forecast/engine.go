// Package forecast estimates near-term demand per drug from sales history.
package forecast

import (
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"pharmacy-inventory/internal/dataset"
)

// minObservations is the smallest number of distinct sales days worth
// fitting a trend over.
const minObservations = 10

// Point is one forecast row.
type Point struct {
	Date          time.Time `json:"ds"`
	Actual        float64   `json:"actual"`
	Forecast      float64   `json:"yhat"`
	MovingAvg     float64   `json:"moving_avg"`
	ReorderQty    int       `json:"reorder_qty"`
	ReorderDate   string    `json:"reorder_date"`
	MAPE          *float64  `json:"mape"`
	DemandSurge   bool      `json:"demand_surge"`
	SeasonalSpike bool      `json:"seasonal_spike"`
}

// Engine fits a least-squares daily demand trend and extrapolates it.
type Engine struct {
	horizonDays int
	now         func() time.Time
}

func NewEngine(horizonDays int) *Engine {
	return &Engine{horizonDays: horizonDays, now: time.Now}
}

// WithClock overrides the time source; used by tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Forecast produces horizon-length demand estimates for one drug. Returns an
// empty slice when the history is too short to fit.
func (e *Engine) Forecast(sales []dataset.SaleRecord, drug string) []Point {
	drug = strings.ToLower(strings.TrimSpace(drug))

	daily := make(map[time.Time]float64)
	for _, s := range sales {
		if strings.ToLower(s.DrugName) != drug {
			continue
		}
		day := s.Date.Truncate(24 * time.Hour)
		daily[day] += s.QtySold
	}

	if len(daily) < minObservations {
		return []Point{}
	}

	days := make([]time.Time, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	origin := days[0]
	xs := make([]float64, len(days))
	ys := make([]float64, len(days))
	for i, day := range days {
		xs[i] = day.Sub(origin).Hours() / 24
		ys[i] = daily[day]
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	trend := func(x float64) float64 {
		y := alpha + beta*x
		if y < 0 {
			return 0
		}
		return y
	}

	avgDemand := stat.Mean(ys, nil)
	reorderQty := int(avgDemand * 7)
	reorderDate := e.now().AddDate(0, 0, 5).Format("2006-01-02")
	mape := meanAbsolutePctError(xs, ys, trend)

	recentActual := tailMean(ys, 7)
	surge, spike := false, false

	lastDay := days[len(days)-1]
	lastX := xs[len(xs)-1]

	// Trailing actuals window for the moving average; future days count as 0.
	window := append([]float64{}, ys[max(0, len(ys)-7):]...)

	var futureSum float64
	points := make([]Point, 0, e.horizonDays)
	for i := 1; i <= e.horizonDays; i++ {
		x := lastX + float64(i)
		yhat := trend(x)
		if i <= 7 {
			futureSum += yhat
		}

		window = append(window, 0)
		if len(window) > 7 {
			window = window[1:]
		}

		points = append(points, Point{
			Date:        lastDay.AddDate(0, 0, i),
			Actual:      0,
			Forecast:    round2(yhat),
			MovingAvg:   round2(stat.Mean(window, nil)),
			ReorderQty:  reorderQty,
			ReorderDate: reorderDate,
			MAPE:        mape,
		})
	}

	if recentActual > 0 {
		surge = futureSum/7 > recentActual*1.3
	}
	spike = maxRollingMean(ys, 30) > avgDemand*1.25

	for i := range points {
		points[i].DemandSurge = surge
		points[i].SeasonalSpike = spike
	}

	return points
}

// meanAbsolutePctError scores the fitted trend against positive actuals.
// Returns nil when no actual is positive.
func meanAbsolutePctError(xs, ys []float64, trend func(float64) float64) *float64 {
	var sum float64
	var n int
	for i, y := range ys {
		if y <= 0 {
			continue
		}
		sum += math.Abs(y-trend(xs[i])) / y
		n++
	}
	if n == 0 {
		return nil
	}
	mape := round2(sum / float64(n) * 100)
	return &mape
}

func tailMean(ys []float64, n int) float64 {
	if len(ys) == 0 {
		return 0
	}
	start := max(0, len(ys)-n)
	return stat.Mean(ys[start:], nil)
}

func maxRollingMean(ys []float64, window int) float64 {
	if len(ys) < window {
		return 0
	}
	best := math.Inf(-1)
	for i := 0; i+window <= len(ys); i++ {
		if m := stat.Mean(ys[i:i+window], nil); m > best {
			best = m
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
