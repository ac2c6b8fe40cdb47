package diagnosis

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-diagnosis-server/internal/domain"
	"github.com/symptom-diagnosis-server/internal/knowledge"
)

func TestMatchPatterns_AlwaysFullyPopulated(t *testing.T) {
	engine := newTestEngine(t)

	inputs := []domain.SymptomInput{
		nil,
		{},
		{"hipo": 5},
		{"fiebre": 8, "tos": 6},
		{"fiebre": 10, "dolor_pecho": 10, "convulsiones": 10, "sangrado": 10},
	}

	for _, input := range inputs {
		scores := engine.MatchPatterns(input)
		assert.Len(t, scores, 13)
		for _, condition := range engine.Base().Conditions() {
			assert.Contains(t, scores, condition)
		}
	}
}

func TestMatchPatterns_ScoresInUnitRange(t *testing.T) {
	engine := newTestEngine(t)

	scores := engine.MatchPatterns(domain.SymptomInput{
		"fiebre": 10, "tos": 10, "congestion_nasal": 10, "dolor_garganta": 10,
		"nausea": 10, "dolor_abdominal": 10, "fatiga": 10,
	})

	for condition, score := range scores {
		assert.GreaterOrEqual(t, score, 0.0, condition)
		assert.LessOrEqual(t, score, 1.0, condition)
	}
}

func TestMatchPatterns_DividesByFullPatternSize(t *testing.T) {
	engine := newTestEngine(t)

	// Only fiebre (weight 0.8) out of infeccion_respiratoria's four pattern
	// symptoms is reported: (0.8*0.8) / 4.
	scores := engine.MatchPatterns(domain.SymptomInput{"fiebre": 8})

	assert.InDelta(t, 0.16, scores["infeccion_respiratoria"], 1e-12)
}

func TestMatchPatterns_IgnoresZeroIntensity(t *testing.T) {
	engine := newTestEngine(t)

	with := engine.MatchPatterns(domain.SymptomInput{"dolor_cabeza": 7, "nausea": 5})
	without := engine.MatchPatterns(domain.SymptomInput{"dolor_cabeza": 7, "nausea": 0})

	assert.Greater(t, with["migrana"], without["migrana"])

	// Zero intensity behaves exactly like an absent symptom.
	absent := engine.MatchPatterns(domain.SymptomInput{"dolor_cabeza": 7})
	assert.Equal(t, absent["migrana"], without["migrana"])
}

func TestMatchPatterns_NegativeIntensityDoesNotContribute(t *testing.T) {
	engine := newTestEngine(t)

	scores := engine.MatchPatterns(domain.SymptomInput{"dolor_cabeza": -4})

	assert.Equal(t, 0.0, scores["migrana"])
	assert.Equal(t, 0.0, scores["hipertension"])
}

func TestMatchPatterns_DefaultWeightForUnweightedPatternSymptom(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	base := &knowledge.Base{
		SymptomWeights: map[string]float64{"escalofrios": 1.0},
		ConditionPatterns: map[string][]string{
			"resfriado": {"escalofrios", "temblor"},
		},
		SeverityThresholds: knowledge.Default().SeverityThresholds,
	}
	engine := NewEngine(logger, base)

	// temblor carries no weight; the matcher falls back to 0.5 instead of
	// failing: (1.0*1.0 + 1.0*0.5) / 2.
	scores := engine.MatchPatterns(domain.SymptomInput{"escalofrios": 10, "temblor": 10})

	require.Contains(t, scores, "resfriado")
	assert.InDelta(t, 0.75, scores["resfriado"], 1e-12)
}
