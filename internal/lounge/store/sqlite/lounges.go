package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
)

func (s *Store) CreateLounge(ctx context.Context, rec store.LoungeRecord) (store.LoungeRecord, error) {
	now := time.Now().UTC().UnixMilli()
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO lounges(name, airport, total_seats, occupancy, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?, ?);
`, rec.Name, rec.Airport, rec.TotalSeats, rec.Occupancy, now, now)
		if err != nil {
			return fmt.Errorf("CreateLounge insert: %w", err)
		}
		rec.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return store.LoungeRecord{}, err
	}
	return rec, nil
}

func (s *Store) GetLounge(ctx context.Context, id int64) (store.LoungeRecord, error) {
	var rec store.LoungeRecord
	err := s.db.QueryRowContext(ctx, `
SELECT id, name, airport, total_seats, occupancy FROM lounges WHERE id = ?;
`, id).Scan(&rec.ID, &rec.Name, &rec.Airport, &rec.TotalSeats, &rec.Occupancy)
	if errors.Is(err, sql.ErrNoRows) {
		return store.LoungeRecord{}, store.ErrNotFound
	}
	if err != nil {
		return store.LoungeRecord{}, fmt.Errorf("GetLounge: %w", err)
	}
	return rec, nil
}

func (s *Store) ListLounges(ctx context.Context) ([]store.LoungeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, airport, total_seats, occupancy FROM lounges ORDER BY id;
`)
	if err != nil {
		return nil, fmt.Errorf("ListLounges: %w", err)
	}
	defer rows.Close()

	var out []store.LoungeRecord
	for rows.Next() {
		var rec store.LoungeRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Airport, &rec.TotalSeats, &rec.Occupancy); err != nil {
			return nil, fmt.Errorf("ListLounges scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CreateBooking takes a seat and inserts the booking in one transaction.
// The conditional UPDATE is what keeps concurrent bookings from
// overselling a lounge.
func (s *Store) CreateBooking(ctx context.Context, rec store.BookingRecord) (store.BookingRecord, error) {
	createdMs := msOrNow(rec.CreatedAt)
	dateMs := msOrNow(rec.Date)
	rec.CreatedAt = fromMs(createdMs)
	rec.Date = fromMs(dateMs)
	if rec.Status == "" {
		rec.Status = "confirmed"
	}

	var flight, qr any
	if rec.FlightNumber != "" {
		flight = rec.FlightNumber
	}
	if rec.QRCode != "" {
		qr = rec.QRCode
	}

	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM identities WHERE id = ?;`, rec.IdentityID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("CreateBooking lookup identity: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
UPDATE lounges
SET occupancy     = occupancy + 1,
    updated_at_ms = ?
WHERE id = ? AND occupancy < total_seats;
`, createdMs, rec.LoungeID)
		if err != nil {
			return fmt.Errorf("CreateBooking take seat: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("CreateBooking rows affected: %w", err)
		}
		if n == 0 {
			err := tx.QueryRowContext(ctx, `SELECT 1 FROM lounges WHERE id = ?;`, rec.LoungeID).Scan(&one)
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("CreateBooking lookup lounge: %w", err)
			}
			return store.ErrLoungeFull
		}

		res, err = tx.ExecContext(ctx, `
INSERT INTO bookings(
  identity_id, lounge_id, date_ms, slot, status, is_paid,
  flight_number, qr_code, created_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
			rec.IdentityID, rec.LoungeID, dateMs, rec.Slot, rec.Status, boolInt(rec.Paid),
			flight, qr, createdMs,
		)
		if err != nil {
			return fmt.Errorf("CreateBooking insert: %w", err)
		}
		rec.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return store.BookingRecord{}, err
	}
	return rec, nil
}

func (s *Store) CountBookings(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountBookings: %w", err)
	}
	return n, nil
}

func (s *Store) CountPaidBookings(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE is_paid = 1;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountPaidBookings: %w", err)
	}
	return n, nil
}
