package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/harshimysarla/LuxeAI/internal/lounge/eligibility"
	"github.com/harshimysarla/LuxeAI/internal/lounge/service"
	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
	"github.com/harshimysarla/LuxeAI/internal/lounge/types"
)

func TestAdminStats(t *testing.T) {
	f := newFixture(t)
	f.enrollTraveller(t)
	ctx := context.Background()

	for _, ref := range []string{"card-1", "", "card-2"} {
		if _, err := f.bookings.Book(ctx, types.BookingRequest{
			IdentityID: f.identity.ID, LoungeID: f.lounge.ID, PaymentReference: ref,
		}); err != nil {
			t.Fatalf("Book: %v", err)
		}
	}
	// First booking is paid, so this grants.
	if _, err := f.access.Verify(ctx, types.VerifyRequest{IdentityID: f.identity.ID, VenueID: f.lounge.ID, Image: []byte("near")}); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if _, err := f.access.Verify(ctx, types.VerifyRequest{IdentityID: f.identity.ID, VenueID: f.lounge.ID, Image: []byte("far")}); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	admin := service.NewAdminService(f.store, 50)
	stats, err := admin.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := types.StatsResponse{TotalUsers: 1, TotalBookings: 3, TotalEntries: 1, Revenue: 100}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestAdminUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.store.CreateIdentity(ctx, store.IdentityRecord{Username: "ops", Role: "admin", Active: true}); err != nil {
		t.Fatalf("CreateIdentity: %v", err)
	}

	users, err := service.NewAdminService(f.store, 50).Users(ctx)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Username != "traveller" || users[1].Username != "ops" || users[1].Role != "admin" {
		t.Errorf("unexpected users: %+v", users)
	}
	if _, err := time.Parse(time.RFC3339, users[0].CreatedAt); err != nil {
		t.Errorf("created_at %q: %v", users[0].CreatedAt, err)
	}
}

func TestAdminLogs_LimitAndShape(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 120; i++ {
		if err := f.store.AppendEntry(ctx, store.EntryLogRecord{
			IdentityID: f.identity.ID,
			LoungeID:   f.lounge.ID,
			Timestamp:  base.Add(time.Duration(i) * time.Second),
			Granted:    i%2 == 0,
			Reason:     "r",
		}); err != nil {
			t.Fatalf("AppendEntry: %v", err)
		}
	}

	admin := service.NewAdminService(f.store, 50)

	logs, err := admin.Logs(ctx, 0)
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if len(logs) != service.DefaultLogLimit {
		t.Errorf("default limit: got %d", len(logs))
	}
	if logs[0].Username != "traveller" || logs[0].LoungeName != "Luxe Elite Lounge" {
		t.Errorf("names missing: %+v", logs[0])
	}
	// Newest entry is i=119, a denial.
	if logs[0].Status != eligibility.StatusDenied || logs[1].Status != eligibility.StatusGranted {
		t.Errorf("statuses = %q, %q", logs[0].Status, logs[1].Status)
	}

	capped, _ := admin.Logs(ctx, 500)
	if len(capped) != service.MaxLogLimit {
		t.Errorf("cap: got %d", len(capped))
	}
	few, _ := admin.Logs(ctx, 5)
	if len(few) != 5 {
		t.Errorf("limit 5: got %d", len(few))
	}
}
