// Package cache provides keyed storage for computed diagnosis results.
// The diagnosis pipeline is deterministic, so a result can be reused for
// any request carrying the same symptom map.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/symptom-diagnosis-server/internal/domain"
)

// Cache stores diagnosis results keyed by canonical symptom input.
type Cache interface {
	// Get retrieves a cached result. The second return value reports
	// whether the key was present.
	Get(ctx context.Context, key string) (*domain.DiagnosisResult, bool)

	// Set stores a result under the given key.
	Set(ctx context.Context, key string, result *domain.DiagnosisResult) error

	// Stats returns hit/miss counters.
	Stats() Stats

	// Close releases cache resources.
	Close() error
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Key derives a deterministic cache key from a symptom map. Entries are
// sorted by name so semantically equal inputs yield the same key
// regardless of map iteration order.
func Key(symptoms domain.SymptomInput) string {
	names := make([]string, 0, len(symptoms))
	for name := range symptoms {
		names = append(names, name)
	}
	sort.Strings(names)

	var builder strings.Builder
	for _, name := range names {
		fmt.Fprintf(&builder, "%s=%g;", name, symptoms[name])
	}

	hash := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(hash[:])
}
