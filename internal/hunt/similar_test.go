package hunt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarNames(t *testing.T) {
	tests := []struct {
		name      string
		names     []string
		threshold float64
		wantPairs int
	}{
		{"empty", nil, 0.9, 0},
		{"single", []string{"Rat"}, 0.9, 0},
		{"exact duplicates ignored", []string{"Rat", "Rat"}, 0.5, 0},
		{"typo", []string{"Dragon Lord", "Dragon Lrod"}, 0.9, 1},
		{"unrelated", []string{"Dragon", "Rat", "Cyclops"}, 0.9, 0},
		{"threshold one", []string{"Dragon Lord", "Dragon Lrod"}, 1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, SimilarNames(tt.names, tt.threshold), tt.wantPairs)
		})
	}
}
