package storage

import (
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// AuditEvent is one recorded engine operation.
type AuditEvent struct {
	ID      string
	Op      string
	CaseID  string
	Profile string
	Outcome string
}

// AuditTrail appends engine operations to an append-only SQLite table at
// <dataDir>/audit.db. It degrades gracefully: if the database cannot be
// opened, recording becomes a no-op with a single warning, and no engine
// operation ever fails because of the trail.
type AuditTrail struct {
	db      *sql.DB
	enabled bool
}

// OpenAuditTrail opens or creates the audit database in dir.
func OpenAuditTrail(dir string) *AuditTrail {
	db, err := sql.Open("sqlite", filepath.Join(dir, "audit.db"))
	if err != nil {
		log.Printf("Warning: audit trail disabled, cannot open database: %v", err)
		return &AuditTrail{enabled: false}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_events (
			id TEXT PRIMARY KEY,
			op TEXT NOT NULL,
			case_id TEXT,
			profile TEXT NOT NULL,
			outcome TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`); err != nil {
		log.Printf("Warning: audit trail disabled, cannot create schema: %v", err)
		db.Close()
		return &AuditTrail{enabled: false}
	}

	return &AuditTrail{db: db, enabled: true}
}

// NopAuditTrail returns a disabled trail for profiles that do not audit.
func NopAuditTrail() *AuditTrail {
	return &AuditTrail{enabled: false}
}

// Record appends one event. Failures are logged, never returned.
func (a *AuditTrail) Record(event AuditEvent) {
	if !a.enabled {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	_, err := a.db.Exec(
		"INSERT INTO audit_events (id, op, case_id, profile, outcome, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.Op, event.CaseID, event.Profile, event.Outcome,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		log.Printf("Warning: failed to record audit event: %v", err)
	}
}

// Count returns the number of recorded events, for diagnostics and tests.
func (a *AuditTrail) Count() (int, error) {
	if !a.enabled {
		return 0, nil
	}
	row := a.db.QueryRow("SELECT COUNT(*) FROM audit_events")
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count audit events: %w", err)
	}
	return n, nil
}

func (a *AuditTrail) Close() error {
	if !a.enabled || a.db == nil {
		return nil
	}
	return a.db.Close()
}
