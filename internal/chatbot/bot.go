package chatbot

import (
	"context"
	"time"

	"pharmacy-inventory/internal/alerts"
	"pharmacy-inventory/internal/common/logger"
	"pharmacy-inventory/internal/common/metrics"
	"pharmacy-inventory/internal/common/observability"
	"pharmacy-inventory/internal/inventory"
)

// Bot ties the trained classifier to the response router and records
// per-query telemetry.
type Bot struct {
	model  *Model
	router *Router
	logger logger.Logger
	obs    *observability.Observability
}

func NewBot(model *Model, router *Router, log logger.Logger, obs *observability.Observability) *Bot {
	return &Bot{
		model:  model,
		router: router,
		logger: log.WithFields(map[string]interface{}{"component": "chatbot"}),
		obs:    obs,
	}
}

// Process classifies the query and routes it to an answer. The classification
// result is returned alongside the text so callers can expose it.
func (b *Bot) Process(ctx context.Context, query string, snapshot inventory.Snapshot, expiries []alerts.ExpiryAlert, wastageCost float64) (string, Result) {
	start := time.Now()
	res := b.model.Classify(query)
	metrics.ChatClassifyDuration.Observe(time.Since(start).Seconds())

	answer := b.router.Respond(ctx, query, res, snapshot, expiries, wastageCost)

	switch answer {
	case outOfScopeMessage:
		metrics.ChatFallbacksTotal.WithLabelValues("out_of_scope").Inc()
	case lowConfidenceMessage:
		metrics.ChatFallbacksTotal.WithLabelValues("low_confidence").Inc()
	default:
		metrics.ChatQueriesTotal.WithLabelValues(string(res.Intent)).Inc()
	}
	if b.obs != nil {
		b.obs.RecordQueryProcessed(ctx, string(res.Intent))
		b.obs.RecordQueryDuration(ctx, time.Since(start), string(res.Intent))
	}

	b.logger.Debug("query processed", map[string]interface{}{
		"intent":     string(res.Intent),
		"confidence": res.Confidence,
	})
	return answer, res
}
