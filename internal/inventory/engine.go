// Package inventory derives current stock levels from the cleaned datasets.
package inventory

import (
	"sort"
	"strings"

	"pharmacy-inventory/internal/dataset"
)

// Item is one derived stock row.
type Item struct {
	Medicine string `json:"medicine"`
	Stock    int    `json:"stock"`
}

// Snapshot is a read-only view of derived stock, ordered by medicine name.
type Snapshot []Item

// Calculate derives stock per medicine as received minus sold, floored at 0.
// Medicines that were only ever sold (no purchase rows) are excluded, as the
// received side is authoritative for what the pharmacy carries.
func Calculate(ds *dataset.Dataset) Snapshot {
	received := make(map[string]float64)
	for _, p := range ds.Purchases {
		received[p.DrugName] += p.QtyReceived
	}

	sold := make(map[string]float64)
	for _, s := range ds.Sales {
		sold[s.DrugName] += s.QtySold
	}

	snapshot := make(Snapshot, 0, len(received))
	for drug, qty := range received {
		stock := qty - sold[drug]
		if stock < 0 {
			stock = 0
		}
		snapshot = append(snapshot, Item{Medicine: drug, Stock: int(stock)})
	}

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Medicine < snapshot[j].Medicine
	})

	return snapshot
}

// Lookup returns the item for a medicine, matched case-insensitively.
func (s Snapshot) Lookup(medicine string) (Item, bool) {
	needle := strings.ToLower(strings.TrimSpace(medicine))
	for _, item := range s {
		if strings.ToLower(item.Medicine) == needle {
			return item, true
		}
	}
	return Item{}, false
}

// Below returns the items with stock under the threshold, preserving order.
func (s Snapshot) Below(threshold int) []Item {
	var out []Item
	for _, item := range s {
		if item.Stock < threshold {
			out = append(out, item)
		}
	}
	return out
}
