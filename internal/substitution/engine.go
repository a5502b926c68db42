// Package substitution suggests in-stock generic equivalents.
package substitution

import (
	"strings"

	"pharmacy-inventory/internal/inventory"
)

// genericMap maps a brand to its interchangeable equivalents.
var genericMap = map[string][]string{
	"dolo 650":     {"paracetamol", "calpol 650"},
	"pan 40":       {"pantocid 40", "pantop 40"},
	"azithral 500": {"azithromycin 500"},
	"telma 40":     {"telmisartan 40"},
}

// Suggest returns the inventory rows for known alternatives of the medicine
// that are actually in stock. Unknown medicines yield an empty slice.
func Suggest(medicine string, snapshot inventory.Snapshot) []inventory.Item {
	alternatives := genericMap[strings.ToLower(strings.TrimSpace(medicine))]
	if len(alternatives) == 0 {
		return nil
	}

	allowed := make(map[string]struct{}, len(alternatives))
	for _, alt := range alternatives {
		allowed[alt] = struct{}{}
	}

	var out []inventory.Item
	for _, item := range snapshot {
		if _, ok := allowed[strings.ToLower(item.Medicine)]; ok && item.Stock > 0 {
			out = append(out, item)
		}
	}
	return out
}
