package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harshimysarla/LuxeAI/internal/lounge/eligibility"
	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
)

func (s *Store) AppendEntry(ctx context.Context, rec store.EntryLogRecord) error {
	tsMs := msOrNow(rec.Timestamp)

	status := eligibility.StatusDenied
	if rec.Granted {
		status = eligibility.StatusGranted
	}

	var distance any
	if rec.Distance != nil {
		distance = *rec.Distance
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO entry_logs(identity_id, lounge_id, timestamp_ms, status, reason, distance)
VALUES (?, ?, ?, ?, ?, ?);
`, rec.IdentityID, rec.LoungeID, tsMs, status, rec.Reason, distance); err != nil {
			return fmt.Errorf("AppendEntry insert: %w", err)
		}
		return nil
	})
}

// RecentEntries returns up to limit entries, newest first, with the
// username and lounge name joined in ("Unknown" when missing).
func (s *Store) RecentEntries(ctx context.Context, limit int) ([]store.EntryLogRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT e.id, e.identity_id, e.lounge_id, e.timestamp_ms, e.status, e.reason, e.distance,
       COALESCE(i.username, 'Unknown'), COALESCE(l.name, 'Unknown')
FROM entry_logs e
LEFT JOIN identities i ON i.id = e.identity_id
LEFT JOIN lounges l ON l.id = e.lounge_id
ORDER BY e.timestamp_ms DESC, e.id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("RecentEntries: %w", err)
	}
	defer rows.Close()

	var out []store.EntryLogRecord
	for rows.Next() {
		var (
			rec      store.EntryLogRecord
			tsMs     int64
			status   string
			distance sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.ID, &rec.IdentityID, &rec.LoungeID, &tsMs, &status, &rec.Reason, &distance,
			&rec.Username, &rec.LoungeName,
		); err != nil {
			return nil, fmt.Errorf("RecentEntries scan: %w", err)
		}
		rec.Timestamp = fromMs(tsMs)
		rec.Granted = status == eligibility.StatusGranted
		if distance.Valid {
			d := distance.Float64
			rec.Distance = &d
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) CountGranted(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entry_logs WHERE status = ?;`,
		eligibility.StatusGranted).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("CountGranted: %w", err)
	}
	return n, nil
}

// PruneOlderThan deletes audit rows recorded before cutoff and returns how
// many were removed.
func (s *Store) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()
	var deleted int64

	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM entry_logs WHERE timestamp_ms < ?;`, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, err = res.RowsAffected()
		return err
	})
	return deleted, err
}
