package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy-inventory/internal/dataset"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestCalculate(t *testing.T) {
	ds := &dataset.Dataset{
		Purchases: []dataset.PurchaseRecord{
			{DrugName: "dolo 650", QtyReceived: 200, DateReceived: day("2026-07-01")},
			{DrugName: "dolo 650", QtyReceived: 50, DateReceived: day("2026-07-10")},
			{DrugName: "pan 40", QtyReceived: 30, DateReceived: day("2026-07-01")},
			{DrugName: "telma 40", QtyReceived: 20, DateReceived: day("2026-07-01")},
		},
		Sales: []dataset.SaleRecord{
			{DrugName: "dolo 650", QtySold: 130, Date: day("2026-08-01")},
			{DrugName: "telma 40", QtySold: 45, Date: day("2026-08-01")},
			{DrugName: "allegra 120", QtySold: 10, Date: day("2026-08-01")},
		},
	}

	snapshot := Calculate(ds)

	require.Len(t, snapshot, 3)

	// Sorted by medicine name.
	assert.Equal(t, []Item{
		{Medicine: "dolo 650", Stock: 120},
		{Medicine: "pan 40", Stock: 30},
		{Medicine: "telma 40", Stock: 0}, // oversold, floored at 0
	}, []Item(snapshot))
}

func TestSnapshot_Lookup(t *testing.T) {
	snapshot := Snapshot{
		{Medicine: "dolo 650", Stock: 120},
		{Medicine: "pan 40", Stock: 5},
	}

	item, ok := snapshot.Lookup("Dolo 650")
	require.True(t, ok)
	assert.Equal(t, 120, item.Stock)

	item, ok = snapshot.Lookup("  PAN 40 ")
	require.True(t, ok)
	assert.Equal(t, 5, item.Stock)

	_, ok = snapshot.Lookup("azithral 500")
	assert.False(t, ok)
}

func TestSnapshot_Below(t *testing.T) {
	snapshot := Snapshot{
		{Medicine: "allegra 120", Stock: 80},
		{Medicine: "dolo 650", Stock: 10},
		{Medicine: "pan 40", Stock: 49},
	}

	low := snapshot.Below(50)
	require.Len(t, low, 2)
	assert.Equal(t, "dolo 650", low[0].Medicine)
	assert.Equal(t, "pan 40", low[1].Medicine)

	assert.Empty(t, snapshot.Below(0))
}
