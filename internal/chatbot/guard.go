package chatbot

import "strings"

// pharmacyKeywords are the substrings that mark a query as on-topic even when
// the classifier is unsure about it.
var pharmacyKeywords = []string{
	"stock", "expire", "expiry", "wastage",
	"loss", "reorder", "medicine", "drug",
	"batch", "inventory", "alternative", "substitute",
}

// InDomain reports whether the query mentions any pharmacy keyword. The match
// is a case-insensitive substring check, so "expires" and "medicines" pass.
func InDomain(query string) bool {
	q := strings.ToLower(query)
	for _, k := range pharmacyKeywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}
