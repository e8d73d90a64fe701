// Package sqlite implements store.Store on modernc.org/sqlite. Reads go
// straight to *sql.DB; every write is funnelled through the db.Worker.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	dbpkg "github.com/harshimysarla/LuxeAI/internal/db"
	"github.com/harshimysarla/LuxeAI/internal/lounge/face"
	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
)

type Store struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

var _ store.Store = (*Store)(nil)

func New(db *sql.DB, writer *dbpkg.Worker) *Store {
	return &Store{db: db, writer: writer}
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func msOrNow(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return t.UTC().UnixMilli()
}

func fromMs(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Signatures are stored as CBOR float arrays.
func encodeSignature(sig face.Signature) ([]byte, error) {
	b, err := cbor.Marshal([]float64(sig))
	if err != nil {
		return nil, fmt.Errorf("encode signature: %w", err)
	}
	return b, nil
}

func decodeSignature(b []byte) (face.Signature, error) {
	var v []float64
	if err := cbor.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode signature: %w", err)
	}
	return face.Signature(v), nil
}
