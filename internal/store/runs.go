package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run is one recorded simulation run.
type Run struct {
	// Token is the time-sortable unique run identifier.
	Token string `json:"token"`

	// Name is an optional circuit name (from a circuit document).
	Name string `json:"name,omitempty"`

	// Qubits is the system size.
	Qubits int `json:"qubits"`

	// Shots is the number of measurements taken.
	Shots int `json:"shots"`

	// Seed is the sampler seed the run used. Stored so the run can be
	// re-simulated deterministically.
	Seed int64 `json:"seed"`

	// Workers is the sampling worker count the run used. Parallel tallies
	// depend on the fan-out, so replay must reuse it.
	Workers int `json:"workers"`

	// Circuit is the program in circuit-string form.
	Circuit string `json:"circuit"`

	// CountsJSON is the measurement tally in canonical JSON.
	CountsJSON string `json:"counts"`

	// CreatedAt is the record timestamp (UTC, RFC 3339 with nanoseconds).
	CreatedAt time.Time `json:"created_at"`
}

// ErrRunNotFound is returned when no run exists for a token.
var ErrRunNotFound = errors.New("run not found")

// WriteRun inserts a run record.
// Uses ON CONFLICT(token) DO NOTHING for idempotency - duplicate tokens are
// silently ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(token, name, qubits, shots, seed, workers, circuit, counts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		run.Token,
		run.Name,
		run.Qubits,
		run.Shots,
		run.Seed,
		max(run.Workers, 1),
		run.Circuit,
		run.CountsJSON,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// GetRun returns the run with the given token, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, token string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT token, name, qubits, shots, seed, workers, circuit, counts, created_at
		FROM runs
		WHERE token = ?
	`, token)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, token)
	}
	return run, err
}

// ListRuns returns all runs ordered deterministically: created_at ascending,
// token as tiebreaker. Returns an empty slice (not nil) when the log is
// empty.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, name, qubits, shots, seed, workers, circuit, counts, created_at
		FROM runs
		ORDER BY created_at ASC, token COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var createdAt string
	err := sc.Scan(
		&run.Token,
		&run.Name,
		&run.Qubits,
		&run.Shots,
		&run.Seed,
		&run.Workers,
		&run.Circuit,
		&run.CountsJSON,
		&createdAt,
	)
	if err != nil {
		return Run{}, err
	}

	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return run, nil
}
