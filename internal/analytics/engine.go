// Package analytics computes wastage, expiry risk and dashboard figures.
package analytics

import (
	"math"
	"time"

	"pharmacy-inventory/internal/dataset"
)

// RiskBucket is one named slice of an expiry-risk distribution.
type RiskBucket struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ExpiryRisk groups batch counts and value at risk by time-to-expiry.
type ExpiryRisk struct {
	Distribution []RiskBucket `json:"distribution"`
	ValueAtRisk  []RiskBucket `json:"value_at_risk"`
}

// KPIs are the dashboard headline figures.
type KPIs struct {
	UniqueMedicines int `json:"unique_medicines"`
	TotalUnits      int `json:"total_units"`
	LowStock        int `json:"low_stock"`
	ExpiringSoon    int `json:"expiring_soon"`
}

// LossRecovery splits the value of expiring stock into what discounting
// could still recover and the remaining potential loss.
type LossRecovery struct {
	Chart   []RiskBucket        `json:"chart"`
	Summary LossRecoverySummary `json:"summary"`
}

type LossRecoverySummary struct {
	TotalValue       float64 `json:"total_value"`
	RecoverableValue float64 `json:"recoverable_value"`
	PotentialLoss    float64 `json:"potential_loss"`
}

// Engine computes analytics over the cleaned datasets.
type Engine struct {
	lowStockThreshold int
	expiryWindowDays  int
	now               func() time.Time
}

func NewEngine(lowStockThreshold, expiryWindowDays int) *Engine {
	return &Engine{
		lowStockThreshold: lowStockThreshold,
		expiryWindowDays:  expiryWindowDays,
		now:               time.Now,
	}
}

// WithClock overrides the time source; used by tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// WastageCost is the purchase value of already-expired stock, rounded to 2dp.
func (e *Engine) WastageCost(purchases []dataset.PurchaseRecord) float64 {
	now := e.now()
	var total float64
	for _, p := range purchases {
		if p.ExpiryDate.IsZero() || !p.ExpiryDate.Before(now) {
			continue
		}
		total += p.QtyReceived * p.UnitCost
	}
	return round2(total)
}

// ExpiryRisk buckets non-expired batches into High (<=7d), Medium (8-30d)
// and Low (>30d) risk, by count and by stock value.
func (e *Engine) ExpiryRisk(purchases []dataset.PurchaseRecord) ExpiryRisk {
	now := e.now()

	var highCount, mediumCount, lowCount float64
	var highValue, mediumValue, lowValue float64

	for _, p := range purchases {
		if p.ExpiryDate.IsZero() {
			continue
		}
		days := int(p.ExpiryDate.Sub(now).Hours() / 24)
		value := p.QtyReceived * p.UnitCost
		switch {
		case days <= 7:
			highCount++
			highValue += value
		case days <= 30:
			mediumCount++
			mediumValue += value
		default:
			lowCount++
			lowValue += value
		}
	}

	return ExpiryRisk{
		Distribution: []RiskBucket{
			{Name: "High Risk", Value: highCount},
			{Name: "Medium Risk", Value: mediumCount},
			{Name: "Low Risk", Value: lowCount},
		},
		ValueAtRisk: []RiskBucket{
			{Name: "High Risk", Value: round2(highValue)},
			{Name: "Medium Risk", Value: round2(mediumValue)},
			{Name: "Low Risk", Value: round2(lowValue)},
		},
	}
}

// Dashboard computes the headline KPI figures over both datasets.
func (e *Engine) Dashboard(ds *dataset.Dataset) KPIs {
	now := e.now()

	names := make(map[string]struct{})
	var totalSold, totalReceived float64
	received := make(map[string]float64)
	sold := make(map[string]float64)
	expiringSoon := 0

	for _, s := range ds.Sales {
		names[s.DrugName] = struct{}{}
		totalSold += s.QtySold
		sold[s.DrugName] += s.QtySold
	}
	for _, p := range ds.Purchases {
		names[p.DrugName] = struct{}{}
		totalReceived += p.QtyReceived
		received[p.DrugName] += p.QtyReceived
		if !p.ExpiryDate.IsZero() && !p.ExpiryDate.Before(now) {
			if days := int(p.ExpiryDate.Sub(now).Hours() / 24); days <= e.expiryWindowDays {
				expiringSoon++
			}
		}
	}

	// Threshold over the union of both datasets: a drug that was only ever
	// sold has negative derived stock and still counts as low.
	lowStock := 0
	for drug := range names {
		if received[drug]-sold[drug] < float64(e.lowStockThreshold) {
			lowStock++
		}
	}

	totalUnits := int(totalReceived - totalSold)
	if totalUnits < 0 {
		totalUnits = 0
	}

	return KPIs{
		UniqueMedicines: len(names),
		TotalUnits:      totalUnits,
		LowStock:        lowStock,
		ExpiringSoon:    expiringSoon,
	}
}

// LossRecovery estimates how much of the expiring stock's value is still
// recoverable. Recoverable value is the batch value scaled by remaining
// shelf life within the window: a batch expiring tomorrow recovers almost
// nothing, one expiring at the window edge recovers nearly all.
func (e *Engine) LossRecovery(purchases []dataset.PurchaseRecord) LossRecovery {
	now := e.now()

	var totalValue, recoverable float64
	for _, p := range purchases {
		if p.ExpiryDate.IsZero() {
			continue
		}
		days := int(p.ExpiryDate.Sub(now).Hours() / 24)
		if days < 0 || days > e.expiryWindowDays {
			continue
		}
		value := p.QtyReceived * p.UnitCost
		totalValue += value
		recoverable += value * float64(days) / float64(e.expiryWindowDays)
	}

	totalValue = round2(totalValue)
	recoverable = round2(recoverable)
	loss := round2(totalValue - recoverable)

	if totalValue == 0 {
		return LossRecovery{Chart: []RiskBucket{}}
	}

	return LossRecovery{
		Chart: []RiskBucket{
			{Name: "Recoverable Value", Value: recoverable},
			{Name: "Potential Loss", Value: loss},
		},
		Summary: LossRecoverySummary{
			TotalValue:       totalValue,
			RecoverableValue: recoverable,
			PotentialLoss:    loss,
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
