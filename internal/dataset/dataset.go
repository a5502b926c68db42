// Package dataset loads and cleans the raw pharmacy sales/purchase exports.
package dataset

import "time"

// SaleRecord is one cleaned sales row.
type SaleRecord struct {
	Date      time.Time `json:"date"`
	DrugName  string    `json:"drug_name"`
	QtySold   float64   `json:"qty_sold"`
	UnitPrice float64   `json:"mrp_unit_price"`
	Batch     string    `json:"batch_no"`
}

// PurchaseRecord is one cleaned purchase row. ExpiryDate is the zero time
// when the raw value was missing or unparseable.
type PurchaseRecord struct {
	DateReceived time.Time `json:"date_received"`
	DrugName     string    `json:"drug_name"`
	QtyReceived  float64   `json:"qty_received"`
	UnitCost     float64   `json:"unit_cost_price"`
	ExpiryDate   time.Time `json:"expiry_date"`
	Batch        string    `json:"batch_no"`
}

// Dataset holds the cleaned records the engines compute over.
type Dataset struct {
	Sales     []SaleRecord
	Purchases []PurchaseRecord

	// Rows dropped during load, by cause.
	RejectedSales     int
	RejectedPurchases int
}
