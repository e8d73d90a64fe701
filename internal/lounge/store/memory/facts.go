package memory

import (
	"context"

	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
)

func (s *Store) LoadFacts(_ context.Context, identityID, loungeID int64) (store.Facts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var f store.Facts
	if id, ok := s.identities[identityID]; ok {
		f.Identity = &id
	}
	if sig, ok := s.signatures[identityID]; ok {
		sig.Signature = sig.Signature.Clone()
		f.Signature = &sig
	}
	// bookings is in id order, so the first hit is the oldest booking.
	for _, b := range s.bookings {
		if b.IdentityID == identityID && b.LoungeID == loungeID {
			b := b
			f.Booking = &b
			break
		}
	}
	return f, nil
}
