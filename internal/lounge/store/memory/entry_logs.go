package memory

import (
	"context"
	"sort"
	"time"

	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
)

func (s *Store) AppendEntry(_ context.Context, rec store.EntryLogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if rec.Distance != nil {
		d := *rec.Distance
		rec.Distance = &d
	}
	s.nextEntry++
	rec.ID = s.nextEntry
	s.entries = append(s.entries, rec)
	return nil
}

// RecentEntries returns up to limit entries, newest first.
func (s *Store) RecentEntries(_ context.Context, limit int) ([]store.EntryLogRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]store.EntryLogRecord, len(s.entries))
	copy(all, s.entries)
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Timestamp.After(all[j].Timestamp)
		}
		return all[i].ID > all[j].ID
	})
	if len(all) > limit {
		all = all[:limit]
	}

	for i := range all {
		all[i].Username, all[i].LoungeName = "Unknown", "Unknown"
		if id, ok := s.identities[all[i].IdentityID]; ok {
			all[i].Username = id.Username
		}
		if l, ok := s.lounges[all[i].LoungeID]; ok {
			all[i].LoungeName = l.Name
		}
	}
	return all, nil
}

func (s *Store) CountGranted(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, e := range s.entries {
		if e.Granted {
			n++
		}
	}
	return n, nil
}

func (s *Store) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	var deleted int64
	for _, e := range s.entries {
		if e.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return deleted, nil
}

// Entries returns a copy of all recorded entries.  Test-only helper.
func (s *Store) Entries() []store.EntryLogRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.EntryLogRecord, len(s.entries))
	copy(out, s.entries)
	return out
}
