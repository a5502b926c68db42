package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInDomain(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"direct keyword", "show me the stock", true},
		{"uppercase keyword", "EXPIRY report", true},
		{"keyword inside a word", "which medicines expire soon", true},
		{"substitute", "any substitute for telma 40", true},
		{"small talk", "hello there", false},
		{"off topic", "what is the weather today", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InDomain(tt.query))
		})
	}
}

func TestExtractMedicine(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"exact match", "check stock of dolo 650", "dolo 650"},
		{"case insensitive", "reorder PAN 40 now", "pan 40"},
		{"no medicine", "check stock levels", ""},
		{"list order breaks overlap ties", "is paracetamol better than dolo 650", "dolo 650"},
		{"empty query", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMedicine(tt.query))
		})
	}
}
