package vulnerability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		index    float64
		expected string
	}{
		{"critical: well above threshold", 95.0, RiskCritical},
		{"critical: at boundary", 80.0, RiskCritical},
		{"high: just below critical", 79.999, RiskHigh},
		{"high: at boundary", 60.0, RiskHigh},
		{"moderate: just below high", 59.999, RiskModerate},
		{"moderate: at boundary", 40.0, RiskModerate},
		{"low: just below moderate", 39.999, RiskLow},
		{"low: zero", 0.0, RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.index))
		})
	}
}

// Every value in [0, 100] maps to exactly one tier.
func TestClassifyExhaustive(t *testing.T) {
	valid := map[string]bool{
		RiskCritical: true,
		RiskHigh:     true,
		RiskModerate: true,
		RiskLow:      true,
	}
	for v := 0.0; v <= 100.0; v += 0.25 {
		tier := Classify(v)
		assert.True(t, valid[tier], "index %.2f produced unknown tier %q", v, tier)
	}
}
