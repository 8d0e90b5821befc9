package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	RunRunning = "running"
	RunSuccess = "success"
	RunFailed  = "failed"
)

// ErrNoRuns is returned when the ledger has no matching run.
var ErrNoRuns = errors.New("no runs recorded")

// Run represents one extract invocation
type Run struct {
	RunID          int64
	StartedAt      time.Time
	FinishedAt     *time.Time
	Root           string
	Preset         string
	FileCount      int
	ProcessedCount int
	FailedCount    int
	Status         string
	ErrorMessage   string
}

const runColumns = `run_id, started_at, finished_at, root, preset, file_count,
	processed_count, failed_count, status, error_message`

// CreateRun records the start of a run and returns its ID.
func (db *DB) CreateRun(root, preset string, fileCount int) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (root, preset, file_count)
		VALUES (?, ?, ?)
	`, root, preset, fileCount)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// FinishRun stores the final counts. A non-empty errMsg marks the run failed.
func (db *DB) FinishRun(runID int64, processed, failed int, errMsg string) error {
	status := RunSuccess
	if errMsg != "" {
		status = RunFailed
	}
	res, err := db.Exec(`
		UPDATE runs
		SET finished_at = CURRENT_TIMESTAMP, processed_count = ?, failed_count = ?,
		    status = ?, error_message = ?
		WHERE run_id = ?
	`, processed, failed, status, NewNullString(errMsg), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %d not found", runID)
	}
	return nil
}

// GetRun retrieves a run by its ID
func (db *DB) GetRun(runID int64) (*Run, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return r, nil
}

// LatestRun returns the most recent run over root with the given status.
// An empty status or root matches any.
func (db *DB) LatestRun(status, root string) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE 1 = 1`
	var args []any
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	if root != "" {
		query += ` AND root = ?`
		args = append(args, root)
	}
	query += ` ORDER BY run_id DESC LIMIT 1`

	r, err := scanRun(db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return r, nil
}

// ListRuns retrieves runs ordered by most recent first
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY run_id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *r)
	}

	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var finishedAt sql.NullTime
	var preset, errMsg sql.NullString
	if err := row.Scan(&r.RunID, &r.StartedAt, &finishedAt, &r.Root, &preset, &r.FileCount,
		&r.ProcessedCount, &r.FailedCount, &r.Status, &errMsg); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		r.FinishedAt = &t
	}
	r.Preset = preset.String
	r.ErrorMessage = errMsg.String
	return &r, nil
}

// NewNullString returns a NULL for empty strings.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
