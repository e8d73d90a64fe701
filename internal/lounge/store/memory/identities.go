package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
)

func (s *Store) CreateIdentity(_ context.Context, rec store.IdentityRecord) (store.IdentityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Username = strings.TrimSpace(rec.Username)
	if rec.Role == "" {
		rec.Role = "user"
	}
	key := strings.ToLower(rec.Username)
	if _, ok := s.usernames[key]; ok {
		return store.IdentityRecord{}, store.ErrDuplicate
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.nextIdentity++
	rec.ID = s.nextIdentity
	s.identities[rec.ID] = rec
	s.usernames[key] = rec.ID
	return rec, nil
}

func (s *Store) GetIdentity(_ context.Context, id int64) (store.IdentityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.identities[id]
	if !ok {
		return store.IdentityRecord{}, store.ErrNotFound
	}
	return rec, nil
}

func (s *Store) ListIdentities(_ context.Context) ([]store.IdentityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.IdentityRecord, 0, len(s.identities))
	for _, rec := range s.identities {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CountIdentities(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.identities)), nil
}

func (s *Store) UpsertSignature(_ context.Context, rec store.SignatureRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[rec.IdentityID]; !ok {
		return store.ErrNotFound
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	rec.Signature = rec.Signature.Clone()
	s.signatures[rec.IdentityID] = rec
	return nil
}
