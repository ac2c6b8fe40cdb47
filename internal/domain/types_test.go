package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		want     bool
	}{
		{"not sick", NOT_SICK, true},
		{"mild", MILD, true},
		{"acute", ACUTE, true},
		{"chronic", CHRONIC, true},
		{"error sentinel is not clinical", SEVERITY_ERROR, false},
		{"empty", Severity(""), false},
		{"garbage", Severity("SEVERE"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.severity.IsValid())
		})
	}
}

func TestSeverity_RequiresAttention(t *testing.T) {
	assert.False(t, NOT_SICK.RequiresAttention())
	assert.False(t, MILD.RequiresAttention())
	assert.True(t, ACUTE.RequiresAttention())
	assert.True(t, CHRONIC.RequiresAttention())

	// Unknown labels take the conservative path.
	assert.True(t, Severity("UNKNOWN").RequiresAttention())
}

func TestSymptomInput_Clone(t *testing.T) {
	original := SymptomInput{"fiebre": 8, "tos": 4}

	clone := original.Clone()
	clone["fiebre"] = 1

	assert.Equal(t, 8.0, original["fiebre"])
	assert.Nil(t, SymptomInput(nil).Clone())
}

func TestDiagnosisResult_Validate(t *testing.T) {
	valid := &DiagnosisResult{
		Diagnosis:           MILD,
		Confidence:          0.569,
		MostLikelyCondition: "hipertension",
		ConditionConfidence: 0.23,
		SymptomScore:        0.569,
		PatternScores:       map[string]float64{"hipertension": 0.23},
	}
	assert.NoError(t, valid.Validate())

	errRecord := &DiagnosisResult{Diagnosis: SEVERITY_ERROR, Error: "boom"}
	assert.NoError(t, errRecord.Validate())
	assert.True(t, errRecord.IsError())

	badConfidence := &DiagnosisResult{
		Diagnosis:           ACUTE,
		Confidence:          1.5,
		MostLikelyCondition: "migrana",
	}
	assert.Error(t, badConfidence.Validate())

	missingCondition := &DiagnosisResult{Diagnosis: ACUTE, Confidence: 0.7}
	assert.Error(t, missingCondition.Validate())
}

func TestDiagnosisResult_ErrorRecordSerialization(t *testing.T) {
	record := &DiagnosisResult{
		Diagnosis:  SEVERITY_ERROR,
		Confidence: 0.0,
		Error:      "at least 3 symptoms are required",
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	// The error record is reduced: no pattern scores, recommendations or echo.
	assert.Equal(t, "ERROR", decoded["diagnosis"])
	assert.Equal(t, 0.0, decoded["confidence"])
	assert.Contains(t, decoded, "error")
	assert.NotContains(t, decoded, "pattern_scores")
	assert.NotContains(t, decoded, "recommendations")
	assert.NotContains(t, decoded, "input_symptoms")
}

func TestDiagnosisResult_SuccessRecordKeepsZeroScores(t *testing.T) {
	record := &DiagnosisResult{
		Diagnosis:           NOT_SICK,
		Confidence:          0.0,
		MostLikelyCondition: "ansiedad",
		ConditionConfidence: 0.0,
		SymptomScore:        0.0,
		PatternScores:       map[string]float64{"ansiedad": 0.0},
		Recommendations:     []string{"Continue regular health monitoring"},
		InputSymptoms:       SymptomInput{"hipo": 5},
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Zero-valued scores stay in the success record; only the error
	// record is reduced.
	assert.Contains(t, decoded, "symptom_score")
	assert.Contains(t, decoded, "condition_confidence")
	assert.Equal(t, 0.0, decoded["symptom_score"])
	assert.Equal(t, 0.0, decoded["condition_confidence"])
	assert.Contains(t, decoded, "pattern_scores")
	assert.Contains(t, decoded, "recommendations")
	assert.Contains(t, decoded, "input_symptoms")
	assert.NotContains(t, decoded, "error")
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("symptoms", "at least 3 symptoms are required", 1)
	assert.Equal(t, "validation error for field 'symptoms': at least 3 symptoms are required", err.Error())
}

func TestAPIError_Error(t *testing.T) {
	err := NewAPIError(ErrValidation, "invalid request", "", "req-1")
	assert.Equal(t, "VALIDATION_ERROR: invalid request", err.Error())
	assert.False(t, err.Timestamp.IsZero())
}
