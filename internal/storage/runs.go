package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/Divas-Gupta30/marco-agent/internal/model"
)

// RunLog persists one row per workflow run so progress survives restarts.
type RunLog struct {
	db *sql.DB
}

func OpenRunLog(url string) (*RunLog, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping run log: %w", err)
	}
	return &RunLog{db: db}, nil
}

func (r *RunLog) Close() error { return r.db.Close() }

func (r *RunLog) EnsureSchema() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS workflow_runs (
		id SERIAL PRIMARY KEY,
		section TEXT NOT NULL,
		state TEXT NOT NULL,
		attempts INT NOT NULL,
		chars INT NOT NULL,
		approved BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	return err
}

func (r *RunLog) Record(rec model.RunRecord) error {
	_, err := r.db.Exec(
		"INSERT INTO workflow_runs (section, state, attempts, chars, approved) VALUES ($1, $2, $3, $4, $5)",
		rec.Section, rec.State, rec.Attempts, rec.Chars, rec.Approved)
	return err
}

func (r *RunLog) Recent(limit int) ([]model.RunRecord, error) {
	rows, err := r.db.Query(
		"SELECT id, section, state, attempts, chars, approved, created_at FROM workflow_runs ORDER BY id DESC LIMIT $1",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunRecord
	for rows.Next() {
		var rec model.RunRecord
		if err := rows.Scan(&rec.ID, &rec.Section, &rec.State, &rec.Attempts, &rec.Chars, &rec.Approved, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
