package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/symptom-diagnosis-server/internal/domain"
)

func TestClassifySeverity(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		overall  float64
		patterns map[string]float64
		want     domain.Severity
	}{
		{"zero everything", 0.0, map[string]float64{}, domain.NOT_SICK},
		{"nil patterns", 0.0, nil, domain.NOT_SICK},
		{"full score", 1.0, map[string]float64{"x": 1.0}, domain.CHRONIC},
		{"high overall alone only blends to mild", 1.0, map[string]float64{}, domain.MILD},
		{"lower bound of mild", 0.6, map[string]float64{}, domain.MILD},
		{"lower bound of acute", 0.6, map[string]float64{"x": 0.6}, domain.ACUTE},
		{"lower bound of chronic", 0.8, map[string]float64{"x": 0.8}, domain.CHRONIC},
		{"just below mild", 0.59, map[string]float64{}, domain.NOT_SICK},
		{"best pattern dominates max", 0.2, map[string]float64{"a": 0.1, "b": 0.9, "c": 0.4}, domain.MILD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.ClassifySeverity(tt.overall, tt.patterns))
		})
	}
}

func TestClassifySeverity_AtOrAboveOne(t *testing.T) {
	engine := newTestEngine(t)

	// 1.0 falls outside every half-open interval; the explicit policy is
	// CHRONIC for anything at or above the open end.
	assert.Equal(t, domain.CHRONIC, engine.ClassifySeverity(1.0, map[string]float64{"x": 1.0}))
	assert.Equal(t, domain.CHRONIC, engine.ClassifySeverity(1.2, map[string]float64{"x": 1.2}))
}

func TestSeverityThresholds_PartitionUnitInterval(t *testing.T) {
	engine := newTestEngine(t)
	thresholds := engine.Base().SeverityThresholds

	// Sample [0,1) densely: every point must fall in exactly one interval.
	for i := 0; i < 10000; i++ {
		v := float64(i) / 10000.0

		matches := 0
		for _, r := range thresholds {
			if v >= r.Low && v < r.High {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "value %f", v)
	}
}
