package diagnosis

import "github.com/symptom-diagnosis-server/internal/domain"

// normalizeIntensity maps a reported 0-10 intensity onto the unit scale,
// clamping out-of-range values rather than rejecting them.
func normalizeIntensity(intensity float64) float64 {
	normalized := intensity / 10.0
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

// SymptomScore computes the overall severity signal as a weighted average of
// the normalized intensities of every recognized symptom. Symptoms carrying
// more diagnostic weight dominate the score. Inputs with no recognized
// symptoms score 0.0 by definition, not as an error.
func (e *Engine) SymptomScore(symptoms domain.SymptomInput) float64 {
	var totalScore, totalWeight float64

	for symptom, intensity := range symptoms {
		weight, ok := e.kb.Weight(symptom)
		if !ok {
			continue
		}
		totalScore += normalizeIntensity(intensity) * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0.0
	}
	return totalScore / totalWeight
}
