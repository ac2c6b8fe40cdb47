// Package knowledge holds the static tables the diagnosis pipeline scores
// against: symptom importance weights, per-condition symptom patterns, and
// the severity thresholds. The tables are built once and never mutated, so
// a single Base may be shared by concurrent callers.
package knowledge

import (
	"fmt"
	"sort"

	"github.com/symptom-diagnosis-server/internal/domain"
)

// DefaultPatternWeight is the weight applied during pattern matching for
// symptoms that a condition references but the weight table does not carry.
// Pattern matching must never fail on a missing weight.
const DefaultPatternWeight = 0.5

// SeverityRange maps a severity label to a half-open score interval
// [Low, High) on the unit scale.
type SeverityRange struct {
	Label domain.Severity
	Low   float64
	High  float64
}

// Base is the immutable knowledge base. Fields are exported for read access;
// callers must not mutate them.
type Base struct {
	// SymptomWeights maps symptom identifiers to importance weights in (0,1].
	SymptomWeights map[string]float64

	// ConditionPatterns maps condition identifiers to the symptom sets that
	// characterize them.
	ConditionPatterns map[string][]string

	// SeverityThresholds partitions [0,1) into ascending half-open intervals,
	// one per severity label.
	SeverityThresholds []SeverityRange
}

// Default returns the built-in knowledge base: 20 weighted symptoms,
// 13 condition patterns, and the four severity intervals.
func Default() *Base {
	return &Base{
		SymptomWeights: map[string]float64{
			"fiebre":              0.8,
			"dolor_cabeza":        0.6,
			"nausea":              0.5,
			"fatiga":              0.4,
			"dolor_pecho":         0.9,
			"dificultad_respirar": 0.95,
			"dolor_abdominal":     0.7,
			"mareos":              0.5,
			"perdida_peso":        0.6,
			"tos":                 0.6,
			"congestion_nasal":    0.3,
			"dolor_garganta":      0.4,
			"dolor_muscular":      0.4,
			"dolor_articular":     0.5,
			"erupcion_cutanea":    0.6,
			"sangrado":            0.8,
			"cambios_vision":      0.7,
			"confusion":           0.9,
			"convulsiones":        0.95,
			"dolor_espalda":       0.5,
		},
		ConditionPatterns: map[string][]string{
			"infeccion_respiratoria": {"fiebre", "tos", "congestion_nasal", "dolor_garganta"},
			"gastroenteritis":        {"nausea", "dolor_abdominal", "fatiga"},
			"migrana":                {"dolor_cabeza", "nausea", "mareos"},
			"ansiedad":               {"dolor_pecho", "dificultad_respirar", "mareos", "fatiga"},
			"diabetes":               {"perdida_peso", "fatiga", "cambios_vision"},
			"hipertension":           {"dolor_cabeza", "mareos", "dolor_pecho"},
			"artritis":               {"dolor_articular", "dolor_muscular", "fatiga"},
			"enfermedad_cardiaca":    {"dolor_pecho", "dificultad_respirar", "fatiga"},
			"enfermedad_renal":       {"fatiga", "nausea", "dolor_espalda"},
			"enfermedad_hepatica":    {"fatiga", "nausea", "dolor_abdominal", "erupcion_cutanea"},
			"enfermedad_autoimmune":  {"fatiga", "dolor_articular", "erupcion_cutanea", "fiebre"},
			"cancer":                 {"perdida_peso", "fatiga", "dolor_abdominal", "sangrado"},
			"enfermedad_neurologica": {"confusion", "convulsiones", "cambios_vision", "mareos"},
		},
		SeverityThresholds: []SeverityRange{
			{Label: domain.NOT_SICK, Low: 0.0, High: 0.3},
			{Label: domain.MILD, Low: 0.3, High: 0.6},
			{Label: domain.ACUTE, Low: 0.6, High: 0.8},
			{Label: domain.CHRONIC, Low: 0.8, High: 1.0},
		},
	}
}

// Weight returns the importance weight for a symptom and whether the symptom
// is part of the weight table.
func (b *Base) Weight(symptom string) (float64, bool) {
	w, ok := b.SymptomWeights[symptom]
	return w, ok
}

// Symptoms returns the known symptom identifiers in lexicographic order.
func (b *Base) Symptoms() []string {
	names := make([]string, 0, len(b.SymptomWeights))
	for name := range b.SymptomWeights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Conditions returns the known condition identifiers in lexicographic order.
func (b *Base) Conditions() []string {
	names := make([]string, 0, len(b.ConditionPatterns))
	for name := range b.ConditionPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pattern returns the symptom set for a condition, or nil if the condition
// is unknown.
func (b *Base) Pattern(condition string) []string {
	return b.ConditionPatterns[condition]
}

// Validate checks the structural invariants of the knowledge base: non-empty
// tables, non-empty patterns, and severity intervals that partition [0,1)
// exactly, in ascending order, with no gaps or overlaps. Pattern symptoms
// missing from the weight table are allowed; the matcher falls back to
// DefaultPatternWeight for them.
func (b *Base) Validate() error {
	if len(b.SymptomWeights) == 0 {
		return fmt.Errorf("knowledge base validation: symptom weights table is empty")
	}
	if len(b.ConditionPatterns) == 0 {
		return fmt.Errorf("knowledge base validation: condition patterns table is empty")
	}

	for symptom, weight := range b.SymptomWeights {
		if weight <= 0 || weight > 1 {
			return fmt.Errorf("knowledge base validation: weight %f for symptom %s outside (0,1]", weight, symptom)
		}
	}

	for condition, pattern := range b.ConditionPatterns {
		if len(pattern) == 0 {
			return fmt.Errorf("knowledge base validation: condition %s has an empty pattern", condition)
		}
	}

	if len(b.SeverityThresholds) == 0 {
		return fmt.Errorf("knowledge base validation: severity thresholds table is empty")
	}

	prev := 0.0
	for i, r := range b.SeverityThresholds {
		if !r.Label.IsValid() {
			return fmt.Errorf("knowledge base validation: %w: %s", domain.ErrInvalidSeverity, r.Label)
		}
		if r.Low != prev {
			return fmt.Errorf("knowledge base validation: interval %d for %s starts at %f, want %f", i, r.Label, r.Low, prev)
		}
		if r.High <= r.Low {
			return fmt.Errorf("knowledge base validation: interval for %s is empty or inverted", r.Label)
		}
		prev = r.High
	}
	if prev != 1.0 {
		return fmt.Errorf("knowledge base validation: intervals end at %f, want 1.0", prev)
	}

	return nil
}
