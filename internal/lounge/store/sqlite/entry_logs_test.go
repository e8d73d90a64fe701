package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
)

func TestAppendEntry_ColumnsCorrect(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	d := 0.35
	ts := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
	err := s.AppendEntry(ctx, store.EntryLogRecord{
		IdentityID: 7,
		LoungeID:   3,
		Timestamp:  ts,
		Granted:    false,
		Reason:     "Face verification failed (Distance: 0.3500)",
		Distance:   &d,
	})
	if err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}

	var (
		status   string
		reason   string
		distance float64
		tsMs     int64
	)
	err = conn.QueryRowContext(ctx,
		`SELECT status, reason, distance, timestamp_ms FROM entry_logs WHERE identity_id = 7`,
	).Scan(&status, &reason, &distance, &tsMs)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if status != "Access Denied" {
		t.Errorf("status = %q", status)
	}
	if distance != 0.35 {
		t.Errorf("distance = %v", distance)
	}
	if tsMs != ts.UnixMilli() {
		t.Errorf("timestamp_ms = %d, want %d", tsMs, ts.UnixMilli())
	}
}

func TestAppendEntry_NilDistanceStoredAsNull(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	if err := s.AppendEntry(ctx, store.EntryLogRecord{IdentityID: 1, LoungeID: 1, Reason: "Face not registered"}); err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}

	var isNull int
	if err := conn.QueryRowContext(ctx, `SELECT distance IS NULL FROM entry_logs`).Scan(&isNull); err != nil {
		t.Fatalf("select: %v", err)
	}
	if isNull != 1 {
		t.Error("expected NULL distance")
	}
}

func TestRecentEntries_NewestFirstWithNames(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	id := seedIdentity(t, s, "kiran")
	l := seedLounge(t, s, "Sky Lounge", 10)

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := s.AppendEntry(ctx, store.EntryLogRecord{
			IdentityID: id.ID,
			LoungeID:   l.ID,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Granted:    i == 2,
			Reason:     "r",
		}); err != nil {
			t.Fatalf("AppendEntry %d: %v", i, err)
		}
	}
	// An attempt by an identity that was never created.
	if err := s.AppendEntry(ctx, store.EntryLogRecord{
		IdentityID: 404, LoungeID: 405, Timestamp: base.Add(-time.Hour), Reason: "Face not registered",
	}); err != nil {
		t.Fatalf("AppendEntry unknown: %v", err)
	}

	got, err := s.RecentEntries(ctx, 10)
	if err != nil {
		t.Fatalf("RecentEntries: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(got))
	}
	if !got[0].Granted || !got[0].Timestamp.Equal(base.Add(2*time.Minute)) {
		t.Errorf("newest entry wrong: %+v", got[0])
	}
	if got[0].Username != "kiran" || got[0].LoungeName != "Sky Lounge" {
		t.Errorf("names not joined: %+v", got[0])
	}
	if got[3].Username != "Unknown" || got[3].LoungeName != "Unknown" {
		t.Errorf("missing names should read Unknown: %+v", got[3])
	}

	limited, _ := s.RecentEntries(ctx, 2)
	if len(limited) != 2 {
		t.Errorf("limit ignored: got %d", len(limited))
	}
	none, _ := s.RecentEntries(ctx, 0)
	if len(none) != 0 {
		t.Errorf("limit 0 should return nothing, got %d", len(none))
	}
}

func TestCountGrantedAndPrune(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-100 * 24 * time.Hour)
	recent := time.Now().UTC().Add(-time.Hour)
	for _, e := range []store.EntryLogRecord{
		{IdentityID: 1, LoungeID: 1, Timestamp: old, Granted: true, Reason: "Access Granted"},
		{IdentityID: 1, LoungeID: 1, Timestamp: recent, Granted: true, Reason: "Access Granted"},
		{IdentityID: 1, LoungeID: 1, Timestamp: recent, Granted: false, Reason: "Payment pending"},
	} {
		if err := s.AppendEntry(ctx, e); err != nil {
			t.Fatalf("AppendEntry: %v", err)
		}
	}

	granted, err := s.CountGranted(ctx)
	if err != nil {
		t.Fatalf("CountGranted: %v", err)
	}
	if granted != 2 {
		t.Errorf("granted = %d, want 2", granted)
	}

	deleted, err := s.PruneOlderThan(ctx, time.Now().UTC().Add(-90*24*time.Hour))
	if err != nil {
		t.Fatalf("PruneOlderThan: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	left, _ := s.RecentEntries(ctx, 10)
	if len(left) != 2 {
		t.Errorf("remaining = %d, want 2", len(left))
	}
}
