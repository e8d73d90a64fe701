package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type seedLounge struct {
	name    string
	airport string
	seats   int
}

var devLounges = []seedLounge{
	{name: "Luxe Elite Lounge", airport: "IGI Delhi (T3)", seats: 50},
	{name: "Platinum Adani Lounge", airport: "CSIA Mumbai (T2)", seats: 40},
}

// SeedDev inserts the demo lounges and an admin identity into an empty
// database. It does nothing once any lounge exists.
func SeedDev(ctx context.Context, w *Worker) error {
	now := time.Now().UTC().UnixMilli()

	return w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM lounges;`).Scan(&n); err != nil {
			return fmt.Errorf("seed count lounges: %w", err)
		}
		if n > 0 {
			return nil
		}

		for _, l := range devLounges {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO lounges(name, airport, total_seats, occupancy, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, 0, ?, ?);`, l.name, l.airport, l.seats, now, now); err != nil {
				return fmt.Errorf("seed lounge %q: %w", l.name, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO identities(username, role, active, created_at_ms)
VALUES ('admin', 'admin', 1, ?);`, now); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		return nil
	})
}
