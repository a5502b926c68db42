package dataset

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"
	"time"

	"pharmacy-inventory/internal/common/errors"
	"pharmacy-inventory/internal/common/logger"
)

var (
	dashUnderscore = regexp.MustCompile(`[-_]`)
	multiSpace     = regexp.MustCompile(`\s+`)
)

// Dates in the exports appear in a handful of layouts.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"02-01-2006",
	"2006/01/02",
}

// Loader reads the raw JSON exports, validates each record against its
// schema and applies the cleaning rules.
type Loader struct {
	logger logger.Logger
}

func NewLoader(log logger.Logger) *Loader {
	return &Loader{logger: log.WithFields(map[string]interface{}{"component": "dataset-loader"})}
}

// Load reads and cleans both exports.
func (l *Loader) Load(salesPath, purchasesPath string) (*Dataset, error) {
	rawSales, err := readRecords(salesPath)
	if err != nil {
		return nil, errors.NewDatasetLoadFailedError(salesPath, err)
	}
	rawPurchases, err := readRecords(purchasesPath)
	if err != nil {
		return nil, errors.NewDatasetLoadFailedError(purchasesPath, err)
	}

	ds := &Dataset{}

	for _, rec := range rawSales {
		if !validateRecord(saleSchema, rec) {
			ds.RejectedSales++
			continue
		}
		sale, ok := cleanSale(rec)
		if !ok {
			ds.RejectedSales++
			continue
		}
		ds.Sales = append(ds.Sales, sale)
	}

	for _, rec := range rawPurchases {
		if !validateRecord(purchaseSchema, rec) {
			ds.RejectedPurchases++
			continue
		}
		ds.Purchases = append(ds.Purchases, cleanPurchase(rec))
	}

	l.logger.Info("dataset loaded", map[string]interface{}{
		"sales":             len(ds.Sales),
		"purchases":         len(ds.Purchases),
		"rejectedSales":     ds.RejectedSales,
		"rejectedPurchases": ds.RejectedPurchases,
	})

	return ds, nil
}

func readRecords(path string) ([]map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// cleanSale applies the sales cleaning rules. Rows with an unparseable date
// or dated in the far future are dropped.
func cleanSale(rec map[string]interface{}) (SaleRecord, bool) {
	date, ok := parseDate(stringField(rec, "Date"))
	if !ok || date.Year() >= 2090 {
		return SaleRecord{}, false
	}

	return SaleRecord{
		Date:      date,
		DrugName:  NormalizeName(stringField(rec, "Drug_Name")),
		QtySold:   numberField(rec, "Qty_Sold"),
		UnitPrice: clampNonNegative(numberField(rec, "MRP_Unit_Price")),
		Batch:     batchField(rec),
	}, true
}

// cleanPurchase applies the purchase cleaning rules. Unparseable dates stay
// as the zero time; downstream windows skip them.
func cleanPurchase(rec map[string]interface{}) PurchaseRecord {
	received, _ := parseDate(stringField(rec, "Date_Received"))
	expiry, _ := parseDate(stringField(rec, "Expiry_Date"))

	return PurchaseRecord{
		DateReceived: received,
		DrugName:     NormalizeName(stringField(rec, "Drug_Name")),
		QtyReceived:  numberField(rec, "Qty_Received"),
		UnitCost:     clampNonNegative(numberField(rec, "Unit_Cost_Price")),
		ExpiryDate:   expiry,
		Batch:        batchField(rec),
	}
}

// NormalizeName canonicalizes a drug name: lower-case, dashes/underscores to
// spaces, collapsed whitespace. Empty input maps to "unknown".
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	name = strings.ToLower(name)
	name = dashUnderscore.ReplaceAllString(name, " ")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func stringField(rec map[string]interface{}, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

func numberField(rec map[string]interface{}, key string) float64 {
	if v, ok := rec[key].(float64); ok {
		return v
	}
	return 0
}

func batchField(rec map[string]interface{}) string {
	// Exports disagree on the batch column name.
	for _, key := range []string{"Batch_Number", "Batch_No", "Batch"} {
		if v, ok := rec[key].(string); ok && v != "" {
			return v
		}
	}
	return "UNKNOWN"
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
