package diagnosis

import (
	"github.com/symptom-diagnosis-server/internal/domain"
	"github.com/symptom-diagnosis-server/internal/knowledge"
)

// MatchPatterns scores the input against every known condition pattern. The
// result always carries exactly one entry per condition, even when the score
// is zero.
//
// A pattern symptom contributes intensity*weight when it is reported with an
// intensity strictly greater than zero; symptoms absent from the weight
// table fall back to knowledge.DefaultPatternWeight so a missing weight can
// never fail the match. The sum is divided by the full pattern size, not the
// matched count, so conditions with many pattern symptoms but few matches
// score proportionally lower.
func (e *Engine) MatchPatterns(symptoms domain.SymptomInput) map[string]float64 {
	patternScores := make(map[string]float64, len(e.kb.ConditionPatterns))

	for condition, pattern := range e.kb.ConditionPatterns {
		var score float64

		for _, symptom := range pattern {
			intensity, reported := symptoms[symptom]
			if !reported || intensity <= 0 {
				continue
			}

			weight, ok := e.kb.Weight(symptom)
			if !ok {
				weight = knowledge.DefaultPatternWeight
			}
			score += normalizeIntensity(intensity) * weight
		}

		if len(pattern) > 0 {
			patternScores[condition] = score / float64(len(pattern))
		} else {
			// Defensive: empty patterns are rejected by Base.Validate.
			patternScores[condition] = 0.0
		}
	}

	return patternScores
}
