package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
)

func (s *Store) CreateIdentity(ctx context.Context, rec store.IdentityRecord) (store.IdentityRecord, error) {
	rec.Username = strings.TrimSpace(rec.Username)
	if rec.Role == "" {
		rec.Role = "user"
	}
	createdMs := msOrNow(rec.CreatedAt)
	rec.CreatedAt = fromMs(createdMs)

	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO identities(username, role, active, created_at_ms)
VALUES (?, ?, ?, ?);
`, rec.Username, rec.Role, boolInt(rec.Active), createdMs)
		if err != nil {
			if isUniqueViolation(err) {
				return store.ErrDuplicate
			}
			return fmt.Errorf("CreateIdentity insert: %w", err)
		}
		rec.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return store.IdentityRecord{}, err
	}
	return rec, nil
}

func (s *Store) GetIdentity(ctx context.Context, id int64) (store.IdentityRecord, error) {
	rec, err := scanIdentity(s.db.QueryRowContext(ctx, `
SELECT id, username, role, active, created_at_ms FROM identities WHERE id = ?;
`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return store.IdentityRecord{}, store.ErrNotFound
	}
	if err != nil {
		return store.IdentityRecord{}, fmt.Errorf("GetIdentity: %w", err)
	}
	return rec, nil
}

func (s *Store) ListIdentities(ctx context.Context) ([]store.IdentityRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, username, role, active, created_at_ms FROM identities ORDER BY id;
`)
	if err != nil {
		return nil, fmt.Errorf("ListIdentities: %w", err)
	}
	defer rows.Close()

	var out []store.IdentityRecord
	for rows.Next() {
		rec, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("ListIdentities scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) CountIdentities(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM identities;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountIdentities: %w", err)
	}
	return n, nil
}

// UpsertSignature replaces the identity's signature wholesale.
func (s *Store) UpsertSignature(ctx context.Context, rec store.SignatureRecord) error {
	blob, err := encodeSignature(rec.Signature)
	if err != nil {
		return err
	}
	updatedMs := msOrNow(rec.UpdatedAt)

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM identities WHERE id = ?;`, rec.IdentityID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("UpsertSignature lookup identity: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO face_signatures(identity_id, signature, dim, model, updated_at_ms)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(identity_id) DO UPDATE SET
  signature     = excluded.signature,
  dim           = excluded.dim,
  model         = excluded.model,
  updated_at_ms = excluded.updated_at_ms;
`, rec.IdentityID, blob, rec.Signature.Dim(), rec.Model, updatedMs); err != nil {
			return fmt.Errorf("UpsertSignature: %w", err)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (store.IdentityRecord, error) {
	var (
		rec       store.IdentityRecord
		active    int
		createdMs int64
	)
	if err := row.Scan(&rec.ID, &rec.Username, &rec.Role, &active, &createdMs); err != nil {
		return store.IdentityRecord{}, err
	}
	rec.Active = active == 1
	rec.CreatedAt = fromMs(createdMs)
	return rec, nil
}
