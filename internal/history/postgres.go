package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"

	"github.com/symptom-diagnosis-server/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL history store.
// It expects the schema to already exist (see EnsureSchema).
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL history store from the
// storage configuration, applying its connection pool settings.
func NewPostgresStoreFromURL(cfg domain.StorageConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	configurePool(db, cfg)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// configurePool applies the configured pool limits, falling back to
// conservative defaults for unset values.
func configurePool(db *sql.DB, cfg domain.StorageConfig) {
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 5
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = 5 * time.Minute
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)
}

// EnsureSchema creates the history table and indexes if they don't exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id BIGSERIAL PRIMARY KEY,
		request_id TEXT NOT NULL UNIQUE,
		symptoms JSONB NOT NULL,
		diagnosis TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		most_likely_condition TEXT NOT NULL,
		condition_confidence DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_history_diagnosis ON history(diagnosis);
	CREATE INDEX IF NOT EXISTS idx_history_condition ON history(most_likely_condition);
	CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Save stores a diagnosis record.
func (s *PostgresStore) Save(ctx context.Context, record *Record) error {
	symptomsJSON, err := json.Marshal(record.Symptoms)
	if err != nil {
		return fmt.Errorf("failed to encode symptoms: %w", err)
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO history (
			request_id, symptoms, diagnosis, confidence,
			most_likely_condition, condition_confidence, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (request_id) DO NOTHING
		RETURNING id
	`,
		record.RequestID,
		string(symptomsJSON),
		string(record.Diagnosis),
		record.Confidence,
		record.MostLikelyCondition,
		record.ConditionConfidence,
		record.CreatedAt,
	).Scan(&id)

	if err == sql.ErrNoRows {
		// Duplicate request ID; the original record wins.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	record.ID = id
	return nil
}

// scanPostgresRecord scans a row into a Record struct.
func scanPostgresRecord(s scanner) (*Record, error) {
	record := &Record{}
	var symptomsJSON []byte
	var diagnosis string

	err := s.Scan(
		&record.ID, &record.RequestID, &symptomsJSON, &diagnosis,
		&record.Confidence, &record.MostLikelyCondition,
		&record.ConditionConfidence, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Diagnosis = domain.Severity(diagnosis)
	if err := json.Unmarshal(symptomsJSON, &record.Symptoms); err != nil {
		return nil, fmt.Errorf("failed to decode symptoms: %w", err)
	}
	return record, nil
}

// Get retrieves a record by ID.
func (s *PostgresStore) Get(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, request_id, symptoms, diagnosis, confidence,
			most_likely_condition, condition_confidence, created_at
		FROM history WHERE id = $1
	`, id)

	record, err := scanPostgresRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return record, nil
}

// GetByRequestID retrieves a record by its correlation ID.
func (s *PostgresStore) GetByRequestID(ctx context.Context, requestID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, request_id, symptoms, diagnosis, confidence,
			most_likely_condition, condition_confidence, created_at
		FROM history WHERE request_id = $1
	`, requestID)

	record, err := scanPostgresRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return record, nil
}

// List returns records in reverse chronological order with pagination.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, symptoms, diagnosis, confidence,
			most_likely_condition, condition_confidence, created_at
		FROM history
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*Record
	for rows.Next() {
		record, err := scanPostgresRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

// Count returns the total number of records.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM history").Scan(&count)
	return count, err
}

// Delete removes a record by ID.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE id = $1", id)
	return err
}

// ExportJSON exports all records to a JSON writer.
func (s *PostgresStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	all, err := s.List(ctx, maxExportLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	export := &Export{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Count:      len(all),
		Records:    all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// ImportJSON imports records from a JSON reader.
func (s *PostgresStore) ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error) {
	var export Export
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return 0, 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	for _, record := range export.Records {
		existing, err := s.GetByRequestID(ctx, record.RequestID)
		if err != nil {
			return imported, skipped, fmt.Errorf("failed to check existing: %w", err)
		}

		if existing != nil {
			skipped++
			continue
		}

		record.ID = 0
		if err := s.Save(ctx, record); err != nil {
			return imported, skipped, fmt.Errorf("failed to save: %w", err)
		}
		imported++
	}

	return imported, skipped, nil
}

// Close closes the store and releases resources.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
