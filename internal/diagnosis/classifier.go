package diagnosis

import "github.com/symptom-diagnosis-server/internal/domain"

// ClassifySeverity blends the overall symptom score with the strongest
// condition signal, each weighted equally, and looks the blended score up
// against the severity intervals.
func (e *Engine) ClassifySeverity(overall float64, patternScores map[string]float64) domain.Severity {
	var best float64
	for _, score := range patternScores {
		if score > best {
			best = score
		}
	}

	adjusted := (overall + best) / 2.0

	for _, r := range e.kb.SeverityThresholds {
		if adjusted >= r.Low && adjusted < r.High {
			return r.Label
		}
	}

	// The top interval is open at 1.0; anything at or above it is chronic.
	if adjusted >= 1.0 {
		return domain.CHRONIC
	}

	// Unreachable with a valid threshold partition.
	return domain.NOT_SICK
}
