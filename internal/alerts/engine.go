// Package alerts raises low-stock and expiry (FEFO) alerts.
package alerts

import (
	"sort"
	"time"

	"pharmacy-inventory/internal/dataset"
	"pharmacy-inventory/internal/inventory"
)

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
)

const lowStockReason = "Stock below safety threshold"

// LowStockAlert flags a medicine under the safety threshold.
type LowStockAlert struct {
	Medicine string   `json:"medicine"`
	Stock    int      `json:"stock"`
	Severity Severity `json:"severity"`
	Reason   string   `json:"reason"`
}

// ExpiryAlert flags a purchase batch expiring within the window.
type ExpiryAlert struct {
	DrugName     string    `json:"drug_name"`
	Batch        string    `json:"batch"`
	ExpiryDate   time.Time `json:"expiry_date"`
	DaysToExpiry int       `json:"days_to_expiry"`
	Severity     Severity  `json:"severity"`
}

// Engine evaluates alert rules against the derived views.
type Engine struct {
	lowStockThreshold int
	criticalStock     int
	expiryWindowDays  int
	criticalDays      int
	now               func() time.Time
}

func NewEngine(lowStockThreshold, expiryWindowDays int) *Engine {
	return &Engine{
		lowStockThreshold: lowStockThreshold,
		criticalStock:     20,
		expiryWindowDays:  expiryWindowDays,
		criticalDays:      7,
		now:               time.Now,
	}
}

// WithClock overrides the time source; used by tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// LowStock returns the medicines under the threshold with severity applied.
func (e *Engine) LowStock(snapshot inventory.Snapshot) []LowStockAlert {
	var out []LowStockAlert
	for _, item := range snapshot.Below(e.lowStockThreshold) {
		severity := SeverityWarning
		if item.Stock < e.criticalStock {
			severity = SeverityCritical
		}
		out = append(out, LowStockAlert{
			Medicine: item.Medicine,
			Stock:    item.Stock,
			Severity: severity,
			Reason:   lowStockReason,
		})
	}
	return out
}

// Expiry returns the batches expiring within the window, soonest first
// (FEFO order). Batches with no parseable expiry date are skipped.
func (e *Engine) Expiry(purchases []dataset.PurchaseRecord) []ExpiryAlert {
	now := e.now()

	var out []ExpiryAlert
	for _, p := range purchases {
		if p.ExpiryDate.IsZero() {
			continue
		}
		days := int(p.ExpiryDate.Sub(now).Hours() / 24)
		if days < 0 || days > e.expiryWindowDays {
			continue
		}
		severity := SeverityWarning
		if days <= e.criticalDays {
			severity = SeverityCritical
		}
		batch := p.Batch
		if batch == "" {
			batch = "—"
		}
		out = append(out, ExpiryAlert{
			DrugName:     p.DrugName,
			Batch:        batch,
			ExpiryDate:   p.ExpiryDate,
			DaysToExpiry: days,
			Severity:     severity,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysToExpiry < out[j].DaysToExpiry
	})

	return out
}
