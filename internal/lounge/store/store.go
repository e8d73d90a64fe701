// Package store defines the persistence boundary of the lounge server.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/harshimysarla/LuxeAI/internal/lounge/face"
)

var (
	ErrNotFound   = errors.New("store: not found")
	ErrDuplicate  = errors.New("store: duplicate")
	ErrLoungeFull = errors.New("store: lounge is full")
)

type IdentityRecord struct {
	ID        int64
	Username  string
	Role      string // "user" | "premium" | "admin"
	Active    bool
	CreatedAt time.Time
}

// SignatureRecord is the single enrolled signature of an identity. It is
// replaced wholesale on re-enrollment; no history is kept.
type SignatureRecord struct {
	IdentityID int64
	Signature  face.Signature
	Model      string
	UpdatedAt  time.Time
}

type LoungeRecord struct {
	ID         int64
	Name       string
	Airport    string
	TotalSeats int
	Occupancy  int
}

type BookingRecord struct {
	ID           int64
	IdentityID   int64
	LoungeID     int64
	Date         time.Time
	Slot         string
	Status       string
	Paid         bool
	FlightNumber string
	QRCode       string
	CreatedAt    time.Time
}

// EntryLogRecord is one row of the gate audit log. Username and LoungeName
// are filled on reads only.
type EntryLogRecord struct {
	ID         int64
	IdentityID int64
	LoungeID   int64
	Timestamp  time.Time
	Granted    bool
	Reason     string
	Distance   *float64

	Username   string
	LoungeName string
}

// Facts is everything a gate decision reads, taken from one snapshot.
// Nil fields mean the row does not exist.
type Facts struct {
	Identity  *IdentityRecord
	Signature *SignatureRecord
	Booking   *BookingRecord
}

type IdentityStore interface {
	CreateIdentity(ctx context.Context, rec IdentityRecord) (IdentityRecord, error)
	GetIdentity(ctx context.Context, id int64) (IdentityRecord, error)
	ListIdentities(ctx context.Context) ([]IdentityRecord, error)
	CountIdentities(ctx context.Context) (int64, error)
}

type SignatureStore interface {
	UpsertSignature(ctx context.Context, rec SignatureRecord) error
}

type LoungeStore interface {
	CreateLounge(ctx context.Context, rec LoungeRecord) (LoungeRecord, error)
	GetLounge(ctx context.Context, id int64) (LoungeRecord, error)
	ListLounges(ctx context.Context) ([]LoungeRecord, error)
}

// BookingStore.CreateBooking must take a seat (occupancy+1) in the same
// atomic step as the insert, returning ErrLoungeFull when none is left.
type BookingStore interface {
	CreateBooking(ctx context.Context, rec BookingRecord) (BookingRecord, error)
	CountBookings(ctx context.Context) (int64, error)
	CountPaidBookings(ctx context.Context) (int64, error)
}

// EntryLogStore is the append-only gate audit log.
type EntryLogStore interface {
	AppendEntry(ctx context.Context, rec EntryLogRecord) error
	RecentEntries(ctx context.Context, limit int) ([]EntryLogRecord, error)
	CountGranted(ctx context.Context) (int64, error)
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// FactsReader loads the enrolled signature and the first booking for an
// identity and lounge in one consistent read.
type FactsReader interface {
	LoadFacts(ctx context.Context, identityID, loungeID int64) (Facts, error)
}

// Store is the full persistence surface the services need.
type Store interface {
	IdentityStore
	SignatureStore
	LoungeStore
	BookingStore
	EntryLogStore
	FactsReader
}
