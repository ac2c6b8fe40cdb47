// Package domain contains core business entities and types for rule-based
// symptom severity classification. The classifier is deterministic and is
// intended as a stand-in for a real predictive model inside a larger
// pipeline; it does not claim any real medical validity.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Severity represents the severity category assigned to a set of reported
// symptoms. The four clinical categories are ordinal; SEVERITY_ERROR marks
// the error-shaped result and is not a clinical category.
type Severity string

const (
	NOT_SICK Severity = "NOT_SICK"
	MILD     Severity = "MILD"
	ACUTE    Severity = "ACUTE"
	CHRONIC  Severity = "CHRONIC"

	SEVERITY_ERROR Severity = "ERROR"
)

// NoCondition is the sentinel most-likely condition when no pattern scores
// are available.
const NoCondition = "none"

// Validation errors for diagnosis data integrity
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidSeverity = errors.New("invalid severity label")
)

// IsValid reports whether the severity is one of the four clinical
// categories. The error sentinel is deliberately excluded.
func (s Severity) IsValid() bool {
	switch s {
	case NOT_SICK, MILD, ACUTE, CHRONIC:
		return true
	default:
		return false
	}
}

// String returns the string representation of the severity.
// Required for proper logging and audit trails.
func (s Severity) String() string {
	return string(s)
}

// Description returns a human-readable description of the severity for
// reporting.
func (s Severity) Description() string {
	switch s {
	case NOT_SICK:
		return "Not sick - No significant symptom load detected"
	case MILD:
		return "Mild illness - Symptoms present but not alarming"
	case ACUTE:
		return "Acute illness - Prompt medical attention advised"
	case CHRONIC:
		return "Chronic illness - Urgent specialized care required"
	default:
		return "Unknown severity"
	}
}

// RequiresAttention determines if the severity warrants medical follow-up.
func (s Severity) RequiresAttention() bool {
	switch s {
	case ACUTE, CHRONIC:
		return true
	case NOT_SICK, MILD:
		return false
	default:
		return true // conservative default for unknown labels
	}
}

// LogFields returns structured logging fields for audit trails.
func (s Severity) LogFields() map[string]any {
	return map[string]any{
		"severity":           string(s),
		"is_valid":           s.IsValid(),
		"requires_attention": s.RequiresAttention(),
	}
}

// SymptomInput maps symptom identifiers to reported intensities on the
// caller-declared 0-10 scale. Out-of-range intensities are clamped during
// normalization, not rejected. Unknown symptom keys are ignored by the
// scorer.
type SymptomInput map[string]float64

// Clone returns an independent copy of the input. Results echo the caller's
// symptoms verbatim, and the copy keeps them immune to later mutation.
func (si SymptomInput) Clone() SymptomInput {
	if si == nil {
		return nil
	}
	out := make(SymptomInput, len(si))
	for k, v := range si {
		out[k] = v
	}
	return out
}

// DiagnosisResult is the output record of a prediction. On success every
// field except Error is populated; on failure only Error, Diagnosis
// (SEVERITY_ERROR) and Confidence (0.0) carry meaning.
type DiagnosisResult struct {
	Diagnosis           Severity           `json:"diagnosis"`
	Confidence          float64            `json:"confidence"`
	MostLikelyCondition string             `json:"most_likely_condition"`
	ConditionConfidence float64            `json:"condition_confidence"`
	SymptomScore        float64            `json:"symptom_score"`
	PatternScores       map[string]float64 `json:"pattern_scores"`
	Recommendations     []string           `json:"recommendations"`
	InputSymptoms       SymptomInput       `json:"input_symptoms"`
	Error               string             `json:"error,omitempty"`
}

// IsError reports whether the result is the error-shaped record.
func (r *DiagnosisResult) IsError() bool {
	return r.Error != "" || r.Diagnosis == SEVERITY_ERROR
}

// MarshalJSON renders the error record in its reduced shape (diagnosis,
// confidence, error) and the success record with every field present,
// zero-valued scores included.
func (r DiagnosisResult) MarshalJSON() ([]byte, error) {
	if r.IsError() {
		return json.Marshal(struct {
			Diagnosis  Severity `json:"diagnosis"`
			Confidence float64  `json:"confidence"`
			Error      string   `json:"error"`
		}{r.Diagnosis, r.Confidence, r.Error})
	}

	type full DiagnosisResult
	return json.Marshal(full(r))
}

// Validate ensures a successful result is structurally sound before it is
// persisted or served.
func (r *DiagnosisResult) Validate() error {
	if r.IsError() {
		if r.Error == "" {
			return fmt.Errorf("diagnosis result validation: error record without message")
		}
		return nil
	}

	if !r.Diagnosis.IsValid() {
		return fmt.Errorf("diagnosis result validation: %w", ErrInvalidSeverity)
	}

	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("diagnosis result validation: confidence %f out of range", r.Confidence)
	}

	if r.MostLikelyCondition == "" {
		return fmt.Errorf("diagnosis result validation: most likely condition is required")
	}

	for condition, score := range r.PatternScores {
		if score < 0 || score > 1 {
			return fmt.Errorf("diagnosis result validation: pattern score %f out of range for %s", score, condition)
		}
	}

	return nil
}
