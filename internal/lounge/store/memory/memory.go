// Package memory is an in-process Store for tests and dev runs. A single
// lock guards every table so LoadFacts sees one consistent snapshot.
package memory

import (
	"sync"

	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
)

type Store struct {
	mu sync.RWMutex

	identities map[int64]store.IdentityRecord
	usernames  map[string]int64
	signatures map[int64]store.SignatureRecord
	lounges    map[int64]store.LoungeRecord
	bookings   []store.BookingRecord
	entries    []store.EntryLogRecord

	nextIdentity int64
	nextLounge   int64
	nextBooking  int64
	nextEntry    int64
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		identities: make(map[int64]store.IdentityRecord),
		usernames:  make(map[string]int64),
		signatures: make(map[int64]store.SignatureRecord),
		lounges:    make(map[int64]store.LoungeRecord),
	}
}
