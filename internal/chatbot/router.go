package chatbot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pharmacy-inventory/internal/alerts"
	"pharmacy-inventory/internal/inventory"
	"pharmacy-inventory/internal/reorder"
)

const (
	outOfScopeMessage = "🚫 **Out of Scope Query**\n" +
		"I am an AI Pharmacy Assistant and can help only with:\n" +
		"• Medicine stock availability\n" +
		"• Expiry & FEFO alerts\n" +
		"• Wastage analysis\n" +
		"• Reorder recommendations"

	lowConfidenceMessage = "🤖 Please ask about stock, expiry, wastage, or reorders."

	fallbackMessage = "🤖 I can assist with pharmacy inventory insights."

	maxExpiryLines = 5
)

// ReorderService creates a replenishment request for one medicine.
type ReorderService interface {
	Create(ctx context.Context, medicine string, snapshot inventory.Snapshot) reorder.Result
}

// SuggestFunc returns in-stock alternatives for a medicine.
type SuggestFunc func(medicine string, snapshot inventory.Snapshot) []inventory.Item

// Router turns a classified query into a user-facing answer. It is stateless:
// every call receives the derived views it should answer from, and the only
// side effect is the delegated reorder creation.
type Router struct {
	threshold float64
	lowStock  int
	reorder   ReorderService
	suggest   SuggestFunc
}

func NewRouter(confidenceThreshold float64, lowStockThreshold int, reorderSvc ReorderService, suggest SuggestFunc) *Router {
	return &Router{
		threshold: confidenceThreshold,
		lowStock:  lowStockThreshold,
		reorder:   reorderSvc,
		suggest:   suggest,
	}
}

// Respond applies the scope and confidence gates, then dispatches on intent.
// A query failing both gates is refused before any intent logic runs; a query
// mentioning pharmacy vocabulary is answered even at low confidence.
func (r *Router) Respond(ctx context.Context, query string, res Result, snapshot inventory.Snapshot, expiries []alerts.ExpiryAlert, wastageCost float64) string {
	onTopic := InDomain(query)

	if !AllowedIntents[res.Intent] && !onTopic {
		return outOfScopeMessage
	}
	if res.Confidence < r.threshold && !onTopic {
		return lowConfidenceMessage
	}

	switch res.Intent {
	case IntentStock:
		return r.stockAnswer(query, snapshot)
	case IntentExpiry:
		return expiryAnswer(expiries)
	case IntentWastage:
		return fmt.Sprintf("💰 **Wastage Summary**\nEstimated expiry loss: ₹%s", formatMoney(wastageCost))
	case IntentReorder:
		return r.reorderAnswer(ctx, query, snapshot)
	case IntentAlternatives:
		return r.alternativesAnswer(query, snapshot)
	}
	return fallbackMessage
}

func (r *Router) stockAnswer(query string, snapshot inventory.Snapshot) string {
	med := ExtractMedicine(query)
	if med == "" {
		return "📦 Please specify the medicine name."
	}
	item, ok := snapshot.Lookup(med)
	if !ok {
		return fmt.Sprintf("❌ No stock data found for %s.", titleCase(med))
	}
	return fmt.Sprintf("📦 **Stock Update**\n%s has **%d units** available.", titleCase(med), item.Stock)
}

func expiryAnswer(expiries []alerts.ExpiryAlert) string {
	if len(expiries) == 0 {
		return "✅ No medicines are expiring soon."
	}
	var b strings.Builder
	b.WriteString("⏰ **Upcoming Expiries (FEFO Priority)**\n")
	for i, a := range expiries {
		if i == maxExpiryLines {
			break
		}
		fmt.Fprintf(&b, "- %s (Batch %s) in %d days\n", titleCase(a.DrugName), a.Batch, a.DaysToExpiry)
	}
	return strings.TrimSpace(b.String())
}

func (r *Router) reorderAnswer(ctx context.Context, query string, snapshot inventory.Snapshot) string {
	med := ExtractMedicine(query)

	if med == "" {
		low := snapshot.Below(r.lowStock)
		if len(low) == 0 {
			return "✅ All medicines are sufficiently stocked."
		}
		var b strings.Builder
		b.WriteString("🔁 **Reorder Report**\n")
		for _, item := range low {
			fmt.Fprintf(&b, "- %s (%d units left)\n", titleCase(item.Medicine), item.Stock)
		}
		return strings.TrimSpace(b.String())
	}

	result := r.reorder.Create(ctx, med, snapshot)
	if result.Status == reorder.StatusSuccess {
		return fmt.Sprintf(
			"✅ **Reorder Request Submitted**\nMedicine: %s\nRequest ID: %s\nManager has been notified.",
			titleCase(med), result.RequestID,
		)
	}
	return fmt.Sprintf("⚠️ %s", result.Message)
}

func (r *Router) alternativesAnswer(query string, snapshot inventory.Snapshot) string {
	med := ExtractMedicine(query)
	if med == "" {
		return "📦 Please specify the medicine name for alternatives."
	}
	options := r.suggest(med, snapshot)
	if len(options) == 0 {
		return fmt.Sprintf("❌ No substitutes available for %s.", titleCase(med))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🔄 **Alternative Medicines for %s**\n", titleCase(med))
	for _, item := range options {
		fmt.Fprintf(&b, "- %s (%d units)\n", titleCase(item.Medicine), item.Stock)
	}
	return strings.TrimSpace(b.String())
}

// titleCase upper-cases the first letter of each word for display.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// formatMoney renders a rupee amount with thousands separators and two
// decimal places, e.g. 1234567.5 -> "1,234,567.50".
func formatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign = "-"
		intPart = intPart[1:]
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + "." + fracPart
}
