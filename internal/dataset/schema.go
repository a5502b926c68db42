package dataset

import (
	"github.com/xeipuuv/gojsonschema"
)

// Raw records come from hand-exported JSON and carry nulls, missing fields
// and stray extras. The schemas reject only rows that are structurally
// unusable; cleaning handles the rest.
const saleSchemaJSON = `{
	"type": "object",
	"properties": {
		"Date":           {"type": ["string", "null"]},
		"Drug_Name":      {"type": ["string", "null"]},
		"Qty_Sold":       {"type": ["number", "null"]},
		"MRP_Unit_Price": {"type": ["number", "null"]},
		"Batch_No":       {"type": ["string", "null"]}
	},
	"required": ["Date", "Drug_Name"]
}`

const purchaseSchemaJSON = `{
	"type": "object",
	"properties": {
		"Date_Received":   {"type": ["string", "null"]},
		"Drug_Name":       {"type": ["string", "null"]},
		"Qty_Received":    {"type": ["number", "null"]},
		"Unit_Cost_Price": {"type": ["number", "null"]},
		"Expiry_Date":     {"type": ["string", "null"]},
		"Batch_No":        {"type": ["string", "null"]}
	},
	"required": ["Drug_Name"]
}`

var (
	saleSchema     = gojsonschema.NewStringLoader(saleSchemaJSON)
	purchaseSchema = gojsonschema.NewStringLoader(purchaseSchemaJSON)
)

func validateRecord(schema gojsonschema.JSONLoader, record map[string]interface{}) bool {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(record))
	if err != nil {
		return false
	}
	return result.Valid()
}
