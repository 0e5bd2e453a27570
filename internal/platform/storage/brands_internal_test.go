package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitDedupBrands(t *testing.T) {
	tests := map[string]struct {
		brands   []string
		expected []string
	}{
		"case variants merged, first spelling wins": {
			brands:   []string{"Acme", "acme", "Zeta"},
			expected: []string{"Acme", "Zeta"},
		},
		"sorted ignoring case": {
			brands:   []string{"zeta", "Beta", "alpha"},
			expected: []string{"alpha", "Beta", "zeta"},
		},
		"empty brands skipped": {
			brands:   []string{"", "  ", "Acme"},
			expected: []string{"Acme"},
		},
		"no brands": {
			brands:   nil,
			expected: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, dedupBrands(tt.brands))
		})
	}
}

func TestUnitEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% \_natural\\`, escapeLike(`100% _natural\`))
	assert.Equal(t, "acme", escapeLike("acme"))
}
