package chatbot

import "strings"

// knownMedicines is the extraction gazetteer. Order matters: the first name
// found in the query wins, so overlapping mentions resolve by list position.
var knownMedicines = []string{
	"dolo 650",
	"paracetamol",
	"pan 40",
	"azithral 500",
	"telma 40",
	"glycomet 500",
	"allegra 120",
}

// ExtractMedicine scans the query for a known medicine name and returns it in
// canonical lowercase form. The empty string means no medicine was mentioned.
func ExtractMedicine(query string) string {
	q := strings.ToLower(query)
	for _, med := range knownMedicines {
		if strings.Contains(q, med) {
			return med
		}
	}
	return ""
}
