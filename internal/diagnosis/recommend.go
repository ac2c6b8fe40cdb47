package diagnosis

import "github.com/symptom-diagnosis-server/internal/domain"

// recommendationsBySeverity maps each severity label to its fixed advisory
// list. The lists are informational only.
var recommendationsBySeverity = map[domain.Severity][]string{
	domain.NOT_SICK: {
		"Continue regular health monitoring",
		"Maintain healthy lifestyle habits",
		"Consult a doctor if new symptoms appear",
	},
	domain.MILD: {
		"Monitor symptoms closely",
		"Consider a medical consultation if symptoms persist",
		"Maintain rest and adequate hydration",
		"Avoid strenuous activity",
	},
	domain.ACUTE: {
		"IMMEDIATE MEDICAL CONSULTATION RECOMMENDED",
		"Seek medical attention within the next 24 hours",
		"Monitor vital signs regularly",
		"Avoid self-medication",
		"Consider an emergency room visit if symptoms worsen",
	},
	domain.CHRONIC: {
		"URGENT MEDICAL CONSULTATION REQUIRED",
		"Seek specialized care immediately",
		"Hospitalization may be required",
		"Continuous medical monitoring needed",
		"Follow-up with a specialist recommended",
	},
}

// Recommendations returns the advisory list for a severity label. The
// condition is accepted but currently unused; it is kept in the signature
// for interface stability. Unknown labels yield an empty list.
func (e *Engine) Recommendations(severity domain.Severity, condition string) []string {
	_ = condition

	fixed, ok := recommendationsBySeverity[severity]
	if !ok {
		return []string{}
	}

	// Copy so callers cannot mutate the shared table.
	out := make([]string, len(fixed))
	copy(out, fixed)
	return out
}
