// Package reorder creates and records replenishment requests.
package reorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pharmacy-inventory/internal/common/logger"
	"pharmacy-inventory/internal/common/metrics"
	"pharmacy-inventory/internal/inventory"
)

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusIgnored Status = "IGNORED"
	StatusError   Status = "ERROR"
)

// Result is the tagged outcome of a reorder attempt.
type Result struct {
	Status    Status `json:"status"`
	RequestID string `json:"request_id,omitempty"`
	Medicine  string `json:"medicine,omitempty"`
	Stock     int    `json:"stock,omitempty"`
	Message   string `json:"message"`
}

// Notifier delivers manager alerts for created requests.
type Notifier interface {
	NotifyReorder(ctx context.Context, requestID, medicine string, stock int) error
}

// Store persists created requests.
type Store interface {
	Save(ctx context.Context, requestID, medicine string, stock int, createdAt time.Time) error
}

// Engine decides whether a reorder is warranted and records it. Persistence
// and notification are best-effort: their failures are logged and never
// change the returned result.
type Engine struct {
	threshold int
	store     Store
	notifier  Notifier
	logger    logger.Logger
	now       func() time.Time
}

func NewEngine(threshold int, store Store, notifier Notifier, log logger.Logger) *Engine {
	return &Engine{
		threshold: threshold,
		store:     store,
		notifier:  notifier,
		logger:    log.WithFields(map[string]interface{}{"component": "reorder-engine"}),
		now:       time.Now,
	}
}

// WithClock overrides the time source; used by tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Create evaluates a reorder for one medicine against the current snapshot.
func (e *Engine) Create(ctx context.Context, medicine string, snapshot inventory.Snapshot) Result {
	medicine = strings.ToLower(strings.TrimSpace(medicine))

	item, ok := snapshot.Lookup(medicine)
	if !ok {
		metrics.ReorderRequestsTotal.WithLabelValues(string(StatusError)).Inc()
		return Result{
			Status:  StatusError,
			Message: fmt.Sprintf("No inventory data found for %s", medicine),
		}
	}

	if item.Stock > e.threshold {
		metrics.ReorderRequestsTotal.WithLabelValues(string(StatusIgnored)).Inc()
		return Result{
			Status:   StatusIgnored,
			Medicine: medicine,
			Stock:    item.Stock,
			Message:  fmt.Sprintf("%s has sufficient stock (%d units)", title(medicine), item.Stock),
		}
	}

	now := e.now()
	requestID := fmt.Sprintf("REQ-%s-%s", now.Format("20060102150405"), uuid.NewString()[:8])

	if e.store != nil {
		if err := e.store.Save(ctx, requestID, medicine, item.Stock, now); err != nil {
			e.logger.Error("failed to persist reorder request", map[string]interface{}{
				"requestId": requestID,
				"medicine":  medicine,
				"error":     err.Error(),
			})
		}
	}

	if e.notifier != nil {
		if err := e.notifier.NotifyReorder(ctx, requestID, medicine, item.Stock); err != nil {
			e.logger.Warn("manager notification failed", map[string]interface{}{
				"requestId": requestID,
				"error":     err.Error(),
			})
		}
	}

	e.logger.Info("reorder request created", map[string]interface{}{
		"requestId": requestID,
		"medicine":  medicine,
		"stock":     item.Stock,
	})
	metrics.ReorderRequestsTotal.WithLabelValues(string(StatusSuccess)).Inc()

	return Result{
		Status:    StatusSuccess,
		RequestID: requestID,
		Medicine:  medicine,
		Stock:     item.Stock,
		Message:   "Reorder request submitted successfully and manager notified",
	}
}

// title upper-cases the first letter of each word, mirroring how medicine
// names are shown in responses.
func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
