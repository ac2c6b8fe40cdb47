// Package history provides persistent storage of diagnosis results served
// by the API. The core pipeline stays stateless; history is recorded
// strictly outside of it.
package history

import (
	"context"
	"io"
	"time"

	"github.com/symptom-diagnosis-server/internal/domain"
)

// Record is one persisted diagnosis.
type Record struct {
	ID                  int64               `json:"id,omitempty"`
	RequestID           string              `json:"request_id"`            // Correlation ID of the originating request
	Symptoms            domain.SymptomInput `json:"symptoms"`              // Input echo, stored as JSON
	Diagnosis           domain.Severity     `json:"diagnosis"`             // Severity label
	Confidence          float64             `json:"confidence"`            // Overall score, 3dp
	MostLikelyCondition string              `json:"most_likely_condition"` // Argmax condition
	ConditionConfidence float64             `json:"condition_confidence"`  // Its pattern score, 3dp
	CreatedAt           time.Time           `json:"created_at"`
}

// NewRecord builds a history record from a successful diagnosis result.
func NewRecord(requestID string, result *domain.DiagnosisResult) *Record {
	return &Record{
		RequestID:           requestID,
		Symptoms:            result.InputSymptoms,
		Diagnosis:           result.Diagnosis,
		Confidence:          result.Confidence,
		MostLikelyCondition: result.MostLikelyCondition,
		ConditionConfidence: result.ConditionConfidence,
	}
}

// Store defines the interface for history storage operations.
type Store interface {
	// Save stores a diagnosis record. Records are immutable once written;
	// saving the same request ID twice leaves the first record in place.
	Save(ctx context.Context, record *Record) error

	// Get retrieves a record by ID. Returns nil when no record exists.
	Get(ctx context.Context, id int64) (*Record, error)

	// GetByRequestID retrieves a record by its correlation ID.
	// Returns nil when no record exists.
	GetByRequestID(ctx context.Context, requestID string) (*Record, error)

	// List returns records in reverse chronological order with pagination.
	List(ctx context.Context, limit, offset int) ([]*Record, error)

	// Count returns the total number of records.
	Count(ctx context.Context) (int64, error)

	// Delete removes a record by ID.
	Delete(ctx context.Context, id int64) error

	// ExportJSON exports all records to a JSON writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON imports records from a JSON reader.
	// Returns the number of imported and skipped entries.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Close closes the store and releases resources.
	Close() error
}

// Export represents the JSON export format.
type Export struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Records    []*Record `json:"records"`
}
