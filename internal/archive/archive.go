// Package archive persists decisions to SQLite for retention beyond the
// bounded in-process memory log. Strictly outside the decision core: a
// failed archive write never affects the returned decision.
package archive

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arkab-io/arkab/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	decision_id    TEXT PRIMARY KEY,
	ts             TEXT NOT NULL,
	entity_id      TEXT NOT NULL,
	action         TEXT NOT NULL,
	confidence     REAL NOT NULL,
	reasoning      TEXT NOT NULL,
	evidence_count INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_entity ON decisions(entity_id);
CREATE INDEX IF NOT EXISTS idx_decisions_ts ON decisions(ts);
`

// timeLayout is fixed-width so lexicographic order on the ts column matches
// chronological order. RFC3339Nano trims trailing zeros, which breaks that.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Archive is a SQLite-backed decision store.
type Archive struct {
	db *sql.DB
}

// Open opens (or creates) the archive database at path.
// Use ":memory:" for an ephemeral archive.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open %q: %w", path, err)
	}
	// Serialized access: the write path is single-writer by design.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: init schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Record inserts one decision.
func (a *Archive) Record(d model.Decision) error {
	_, err := a.db.Exec(
		`INSERT INTO decisions (decision_id, ts, entity_id, action, confidence, reasoning, evidence_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.DecisionID,
		d.Timestamp.UTC().Format(timeLayout),
		d.EntityID,
		string(d.Action),
		d.Confidence,
		d.Reasoning,
		d.EvidenceCount,
	)
	if err != nil {
		return fmt.Errorf("archive: insert decision %s: %w", d.DecisionID, err)
	}
	return nil
}

// Recent returns up to n decisions, newest first.
func (a *Archive) Recent(n int) ([]model.Decision, error) {
	rows, err := a.db.Query(
		`SELECT decision_id, ts, entity_id, action, confidence, reasoning, evidence_count
		 FROM decisions ORDER BY ts DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("archive: query recent: %w", err)
	}
	defer rows.Close()

	var out []model.Decision
	for rows.Next() {
		var (
			d  model.Decision
			ts string
		)
		var action string
		if err := rows.Scan(&d.DecisionID, &ts, &d.EntityID, &action, &d.Confidence, &d.Reasoning, &d.EvidenceCount); err != nil {
			return nil, fmt.Errorf("archive: scan row: %w", err)
		}
		d.Action = model.Action(action)
		if d.Timestamp, err = time.Parse(timeLayout, ts); err != nil {
			return nil, fmt.Errorf("archive: parse timestamp %q: %w", ts, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Count returns the number of archived decisions.
func (a *Archive) Count() (int, error) {
	var n int
	if err := a.db.QueryRow(`SELECT COUNT(*) FROM decisions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("archive: count: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}
