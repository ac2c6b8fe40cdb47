package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-diagnosis-server/internal/domain"
)

func TestRecommendations_FixedListsPerSeverity(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		severity domain.Severity
		count    int
	}{
		{domain.NOT_SICK, 3},
		{domain.MILD, 4},
		{domain.ACUTE, 5},
		{domain.CHRONIC, 5},
	}

	for _, tt := range tests {
		t.Run(tt.severity.String(), func(t *testing.T) {
			recs := engine.Recommendations(tt.severity, "migrana")
			assert.Len(t, recs, tt.count)
		})
	}
}

func TestRecommendations_ConditionDoesNotChangeOutput(t *testing.T) {
	engine := newTestEngine(t)

	assert.Equal(t,
		engine.Recommendations(domain.ACUTE, "migrana"),
		engine.Recommendations(domain.ACUTE, "cancer"),
	)
}

func TestRecommendations_UnknownSeverity(t *testing.T) {
	engine := newTestEngine(t)

	recs := engine.Recommendations(domain.Severity("UNKNOWN"), "migrana")
	assert.Empty(t, recs)
	assert.NotNil(t, recs)
}

func TestRecommendations_ReturnsIndependentCopy(t *testing.T) {
	engine := newTestEngine(t)

	first := engine.Recommendations(domain.MILD, "")
	require.NotEmpty(t, first)
	first[0] = "mutated"

	second := engine.Recommendations(domain.MILD, "")
	assert.NotEqual(t, "mutated", second[0])
}
