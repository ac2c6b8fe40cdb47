// Command diagnose runs the diagnosis pipeline from the command line.
//
// Symptoms are given as name=intensity pairs, intensity on a 0..10 scale:
//
//	diagnose fiebre=8 dolor_cabeza=7 nausea=5
//
// Without arguments a built-in example case is evaluated.
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/symptom-diagnosis-server/internal/config"
	"github.com/symptom-diagnosis-server/internal/diagnosis"
	"github.com/symptom-diagnosis-server/internal/domain"
	"github.com/symptom-diagnosis-server/internal/logging"
)

func main() {
	cfg := config.LoadLiteConfig()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	symptoms, err := parseSymptoms(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "diagnose: %v\n", err)
		os.Exit(2)
	}

	if len(symptoms) == 0 {
		symptoms = domain.SymptomInput{
			"fiebre":       8,
			"dolor_cabeza": 7,
			"nausea":       5,
			"fatiga":       6,
			"dolor_pecho":  3,
		}
		fmt.Println("No symptoms given, using example case.")
	}

	engine := diagnosis.NewEngine(logger, nil)
	result := engine.Predict(symptoms)

	if result.IsError() {
		fmt.Fprintf(os.Stderr, "diagnose: %s\n", result.Error)
		os.Exit(1)
	}

	printReport(symptoms, result)
}

// parseSymptoms converts name=intensity arguments into a symptom map.
func parseSymptoms(args []string) (domain.SymptomInput, error) {
	if len(args) == 0 {
		return nil, nil
	}

	symptoms := make(domain.SymptomInput, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid argument %q, expected name=intensity", arg)
		}

		intensity, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid intensity %q for %s", raw, name)
		}
		symptoms[name] = intensity
	}
	return symptoms, nil
}

func printReport(symptoms domain.SymptomInput, result *domain.DiagnosisResult) {
	fmt.Println("=== Diagnosis Report ===")

	names := make([]string, 0, len(symptoms))
	for name := range symptoms {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Symptoms:")
	for _, name := range names {
		fmt.Printf("  %-16s %.1f\n", name, symptoms[name])
	}

	fmt.Printf("\nDiagnosis:            %s\n", result.Diagnosis)
	fmt.Printf("Confidence:           %.3f\n", result.Confidence)
	fmt.Printf("Most likely condition: %s (%.3f)\n", result.MostLikelyCondition, result.ConditionConfidence)

	if len(result.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, recommendation := range result.Recommendations {
			fmt.Printf("  - %s\n", recommendation)
		}
	}
}
