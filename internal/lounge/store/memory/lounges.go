package memory

import (
	"context"
	"sort"
	"time"

	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
)

func (s *Store) CreateLounge(_ context.Context, rec store.LoungeRecord) (store.LoungeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextLounge++
	rec.ID = s.nextLounge
	s.lounges[rec.ID] = rec
	return rec, nil
}

func (s *Store) GetLounge(_ context.Context, id int64) (store.LoungeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.lounges[id]
	if !ok {
		return store.LoungeRecord{}, store.ErrNotFound
	}
	return rec, nil
}

func (s *Store) ListLounges(_ context.Context) ([]store.LoungeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.LoungeRecord, 0, len(s.lounges))
	for _, l := range s.lounges {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateBooking(_ context.Context, rec store.BookingRecord) (store.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.identities[rec.IdentityID]; !ok {
		return store.BookingRecord{}, store.ErrNotFound
	}
	l, ok := s.lounges[rec.LoungeID]
	if !ok {
		return store.BookingRecord{}, store.ErrNotFound
	}
	if l.Occupancy >= l.TotalSeats {
		return store.BookingRecord{}, store.ErrLoungeFull
	}
	l.Occupancy++
	s.lounges[l.ID] = l

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.Date.IsZero() {
		rec.Date = now
	}
	s.nextBooking++
	rec.ID = s.nextBooking
	s.bookings = append(s.bookings, rec)
	return rec, nil
}

func (s *Store) CountBookings(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.bookings)), nil
}

func (s *Store) CountPaidBookings(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, b := range s.bookings {
		if b.Paid {
			n++
		}
	}
	return n, nil
}

// SetBookingPaid flips the paid flag. Test-only helper.
func (s *Store) SetBookingPaid(id int64, paid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i].Paid = paid
		}
	}
}
