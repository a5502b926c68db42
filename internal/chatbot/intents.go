// Package chatbot classifies pharmacy queries and builds responses.
package chatbot

// Intent is a supported query category.
type Intent string

const (
	IntentStock        Intent = "STOCK"
	IntentExpiry       Intent = "EXPIRY"
	IntentWastage      Intent = "WASTAGE"
	IntentReorder      Intent = "REORDER"
	IntentAlternatives Intent = "ALTERNATIVES"
)

// AllowedIntents is the closed set the router dispatches on.
var AllowedIntents = map[Intent]bool{
	IntentStock:        true,
	IntentExpiry:       true,
	IntentWastage:      true,
	IntentReorder:      true,
	IntentAlternatives: true,
}

// TrainingExample pairs an utterance with its labeled intent.
type TrainingExample struct {
	Utterance string
	Intent    Intent
}

// TrainingData is the fixed labeled corpus the classifier is trained on at
// startup. Hand-curated; never mutated.
var TrainingData = []TrainingExample{
	{"how many units are left", IntentStock},
	{"check stock of dolo 650", IntentStock},
	{"available quantity of pan 40", IntentStock},
	{"inventory status", IntentStock},

	{"which medicines expire soon", IntentExpiry},
	{"expiry alert", IntentExpiry},
	{"medicines nearing expiry", IntentExpiry},

	{"show wastage summary", IntentWastage},
	{"expired medicine cost", IntentWastage},
	{"how much wastage happened", IntentWastage},

	{"generate reorder report", IntentReorder},
	{"which medicines need reorder", IntentReorder},
	{"low stock reorder list", IntentReorder},
}

// Result is the classifier's verdict for one query.
type Result struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}
