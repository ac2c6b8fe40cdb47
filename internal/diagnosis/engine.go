// Package diagnosis implements the deterministic scoring pipeline that maps
// reported symptom intensities to a severity category, a most-likely
// condition, and a set of recommendations.
package diagnosis

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/symptom-diagnosis-server/internal/domain"
	"github.com/symptom-diagnosis-server/internal/knowledge"
)

// MinSymptoms is the minimum number of symptom entries required for a
// diagnosis. Counted over provided entries, not recognized ones.
const MinSymptoms = 3

// Engine runs the diagnosis pipeline against an immutable knowledge base.
// An Engine is safe for concurrent use: each prediction operates on local
// data only.
type Engine struct {
	logger *logrus.Logger
	kb     *knowledge.Base
}

// NewEngine creates a diagnosis engine. A nil base selects the built-in
// knowledge tables; a nil logger selects a default logrus logger so the
// error trap in Predict always has somewhere to write.
func NewEngine(logger *logrus.Logger, kb *knowledge.Base) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	if kb == nil {
		kb = knowledge.Default()
	}
	return &Engine{
		logger: logger,
		kb:     kb,
	}
}

// Base returns the knowledge base the engine scores against.
func (e *Engine) Base() *knowledge.Base {
	return e.kb
}

// Predict runs the full pipeline for one symptom input and always returns a
// structurally valid record. It is the sole error boundary: validation
// failures and any unexpected internal failure are trapped and converted
// into the error-shaped result instead of being surfaced to the caller.
func (e *Engine) Predict(symptoms domain.SymptomInput) (result *domain.DiagnosisResult) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("internal diagnosis failure: %v", r)
			e.logger.WithError(err).Error("Diagnosis failed")
			result = errorResult(err)
		}
	}()

	res, err := e.diagnose(symptoms)
	if err != nil {
		e.logger.WithError(err).Error("Diagnosis failed")
		return errorResult(err)
	}
	return res
}

// diagnose sequences the pipeline stages and assembles the success record.
func (e *Engine) diagnose(symptoms domain.SymptomInput) (*domain.DiagnosisResult, error) {
	if len(symptoms) < MinSymptoms {
		return nil, domain.NewValidationError(
			"symptoms",
			fmt.Sprintf("at least %d symptoms are required for a diagnosis", MinSymptoms),
			len(symptoms),
		)
	}

	overallScore := e.SymptomScore(symptoms)
	patternScores := e.MatchPatterns(symptoms)
	severity := e.ClassifySeverity(overallScore, patternScores)
	condition, conditionScore := bestCondition(patternScores)
	recommendations := e.Recommendations(severity, condition)

	rounded := make(map[string]float64, len(patternScores))
	for name, score := range patternScores {
		rounded[name] = round3(score)
	}

	result := &domain.DiagnosisResult{
		Diagnosis:           severity,
		Confidence:          round3(overallScore),
		MostLikelyCondition: condition,
		ConditionConfidence: round3(conditionScore),
		SymptomScore:        round3(overallScore),
		PatternScores:       rounded,
		Recommendations:     recommendations,
		InputSymptoms:       symptoms.Clone(),
	}

	e.logger.WithFields(logrus.Fields{
		"diagnosis":             severity.String(),
		"confidence":            result.Confidence,
		"most_likely_condition": condition,
		"condition_confidence":  result.ConditionConfidence,
		"symptom_count":         len(symptoms),
	}).Info("Diagnosis generated")

	return result, nil
}

// bestCondition selects the argmax of the pattern scores. Ties are broken
// lexicographically on the condition identifier, so the selection is
// deterministic regardless of map iteration order. Empty input yields the
// sentinel condition with zero confidence.
func bestCondition(patternScores map[string]float64) (string, float64) {
	if len(patternScores) == 0 {
		return domain.NoCondition, 0.0
	}

	names := make([]string, 0, len(patternScores))
	for name := range patternScores {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if patternScores[name] > patternScores[best] {
			best = name
		}
	}
	return best, patternScores[best]
}

// errorResult builds the reduced error-shaped record.
func errorResult(err error) *domain.DiagnosisResult {
	return &domain.DiagnosisResult{
		Diagnosis:  domain.SEVERITY_ERROR,
		Confidence: 0.0,
		Error:      err.Error(),
	}
}

// round3 rounds to three decimal places for the output record.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
