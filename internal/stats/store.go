// Package stats persists per-frame rendering statistics for a session and
// produces summary plots at shutdown.
package stats

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/scanview/internal/geom"
	"github.com/banshee-data/scanview/internal/pipeline"
)

// schema.sql defines the sessions and frames tables.
//
//go:embed schema.sql
var schemaSQL string

// FrameRow is one recorded frame's statistics.
type FrameRow struct {
	Seq           uint64
	FrameID       string
	UnixNanos     int64
	Samples       int
	Plotted       int
	RejectedNaN   int
	RejectedRange int
	Clipped       int
}

// Store records per-frame statistics to a SQLite database, one session row
// per process run. All writes happen from the single pipeline goroutine.
type Store struct {
	db        *sql.DB
	sessionID string
}

// NewStore opens (creating if needed) the statistics database and registers a
// new session keyed by a fresh UUID.
func NewStore(path string, view geom.ViewConfig) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise stats schema: %w", err)
	}

	sessionID := uuid.NewString()
	_, err = db.Exec(
		`INSERT INTO sessions (session_id, started_ns, image_size, meters_per_pixel) VALUES (?, ?, ?, ?)`,
		sessionID, time.Now().UnixNano(), view.ImageSize, view.MetersPerPixel,
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session row: %w", err)
	}

	log.Printf("Recording session statistics to %s (session %s)", path, sessionID)
	return &Store{db: db, sessionID: sessionID}, nil
}

// SessionID returns the identifier of the current session.
func (s *Store) SessionID() string { return s.sessionID }

// RecordFrame inserts one frame's statistics. Implements pipeline.FrameStore.
func (s *Store) RecordFrame(ev pipeline.FrameEvent) error {
	_, err := s.db.Exec(
		`INSERT INTO frames (session_id, seq, frame_id, unix_ns, samples, plotted, rejected_nan, rejected_range, clipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.sessionID, ev.Seq, ev.FrameID, ev.UnixNanos,
		ev.Stats.Samples, ev.Stats.Plotted, ev.Stats.RejectedNaN, ev.Stats.RejectedRange, ev.Stats.Clipped,
	)
	if err != nil {
		return fmt.Errorf("failed to insert frame row: %w", err)
	}
	return nil
}

// SessionFrames returns the statistics rows of the current session in
// sequence order.
func (s *Store) SessionFrames() ([]FrameRow, error) {
	rows, err := s.db.Query(
		`SELECT seq, frame_id, unix_ns, samples, plotted, rejected_nan, rejected_range, clipped
		 FROM frames WHERE session_id = ? ORDER BY seq`,
		s.sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query frame rows: %w", err)
	}
	defer rows.Close()

	var out []FrameRow
	for rows.Next() {
		var r FrameRow
		if err := rows.Scan(&r.Seq, &r.FrameID, &r.UnixNanos, &r.Samples, &r.Plotted, &r.RejectedNaN, &r.RejectedRange, &r.Clipped); err != nil {
			return nil, fmt.Errorf("failed to scan frame row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
