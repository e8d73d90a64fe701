package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
)

// LoadFacts reads identity, signature and first booking inside one
// transaction so the decision never mixes rows from different moments.
func (s *Store) LoadFacts(ctx context.Context, identityID, loungeID int64) (store.Facts, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Facts{}, fmt.Errorf("LoadFacts begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var f store.Facts

	id, err := scanIdentity(tx.QueryRowContext(ctx, `
SELECT id, username, role, active, created_at_ms FROM identities WHERE id = ?;
`, identityID))
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return store.Facts{}, fmt.Errorf("LoadFacts identity: %w", err)
	default:
		f.Identity = &id
	}

	var (
		blob      []byte
		model     string
		updatedMs int64
	)
	err = tx.QueryRowContext(ctx, `
SELECT signature, model, updated_at_ms FROM face_signatures WHERE identity_id = ?;
`, identityID).Scan(&blob, &model, &updatedMs)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return store.Facts{}, fmt.Errorf("LoadFacts signature: %w", err)
	default:
		sig, err := decodeSignature(blob)
		if err != nil {
			return store.Facts{}, fmt.Errorf("LoadFacts: %w", err)
		}
		f.Signature = &store.SignatureRecord{
			IdentityID: identityID,
			Signature:  sig,
			Model:      model,
			UpdatedAt:  fromMs(updatedMs),
		}
	}

	var (
		b         store.BookingRecord
		dateMs    int64
		createdMs int64
		paid      int
		flight    sql.NullString
		qr        sql.NullString
	)
	err = tx.QueryRowContext(ctx, `
SELECT id, identity_id, lounge_id, date_ms, slot, status, is_paid, flight_number, qr_code, created_at_ms
FROM bookings
WHERE identity_id = ? AND lounge_id = ?
ORDER BY id
LIMIT 1;
`, identityID, loungeID).Scan(
		&b.ID, &b.IdentityID, &b.LoungeID, &dateMs, &b.Slot, &b.Status, &paid, &flight, &qr, &createdMs,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return store.Facts{}, fmt.Errorf("LoadFacts booking: %w", err)
	default:
		b.Date = fromMs(dateMs)
		b.CreatedAt = fromMs(createdMs)
		b.Paid = paid == 1
		b.FlightNumber = flight.String
		b.QRCode = qr.String
		f.Booking = &b
	}

	return f, nil
}
