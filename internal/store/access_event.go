// Package store holds the SQLite-backed audit log. Rejection reasons
// are flattened to generic wording at the HTTP boundary; the full
// reasons live here for operators.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/precinctlabs/impact/internal/model"
)

type AccessEventStore struct {
	db *sql.DB
}

func NewAccessEventStore(db *sql.DB) *AccessEventStore {
	return &AccessEventStore{db: db}
}

func scanAccessEvent(scanner interface{ Scan(...any) error }) (*model.AccessEvent, error) {
	var ev model.AccessEvent
	err := scanner.Scan(&ev.ID, &ev.Flow, &ev.OrgSlug, &ev.ReportID, &ev.ClientIP, &ev.Outcome, &ev.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

const accessEventCols = `id, flow, org_slug, report_id, client_ip, outcome, created_at`

// Record inserts one audit row.
func (s *AccessEventStore) Record(ev *model.AccessEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	result, err := s.db.Exec(
		`INSERT INTO access_events (flow, org_slug, report_id, client_ip, outcome, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.Flow, ev.OrgSlug, ev.ReportID, ev.ClientIP, ev.Outcome, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert access event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	ev.ID = id
	return nil
}

// ListByReport returns the most recent events for one report, newest
// first.
func (s *AccessEventStore) ListByReport(orgSlug, reportID string, limit int) ([]*model.AccessEvent, error) {
	rows, err := s.db.Query(
		`SELECT `+accessEventCols+` FROM access_events WHERE org_slug = ? AND report_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		orgSlug, reportID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list access events: %w", err)
	}
	defer rows.Close()

	var events []*model.AccessEvent
	for rows.Next() {
		ev, err := scanAccessEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan access event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// CountByOutcome tallies events per outcome since the given time.
func (s *AccessEventStore) CountByOutcome(since time.Time) (map[string]int64, error) {
	rows, err := s.db.Query(
		`SELECT outcome, COUNT(*) FROM access_events WHERE created_at >= ? GROUP BY outcome`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("count access events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var outcome string
		var n int64
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}

// PurgeOlderThan deletes events created before the cutoff and returns
// the number removed.
func (s *AccessEventStore) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM access_events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge access events: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
