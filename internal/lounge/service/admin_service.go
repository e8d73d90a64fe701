package service

import (
	"context"
	"fmt"
	"time"

	"github.com/harshimysarla/LuxeAI/internal/lounge/eligibility"
	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
	"github.com/harshimysarla/LuxeAI/internal/lounge/types"
)

const (
	DefaultLogLimit = 100
	MaxLogLimit     = 100
)

// AdminStore is the read side AdminService needs.
type AdminStore interface {
	CountIdentities(ctx context.Context) (int64, error)
	ListIdentities(ctx context.Context) ([]store.IdentityRecord, error)
	CountBookings(ctx context.Context) (int64, error)
	CountPaidBookings(ctx context.Context) (int64, error)
	CountGranted(ctx context.Context) (int64, error)
	RecentEntries(ctx context.Context, limit int) ([]store.EntryLogRecord, error)
}

type AdminService struct {
	store      AdminStore
	bookingFee float64
}

func NewAdminService(st AdminStore, bookingFee float64) *AdminService {
	return &AdminService{store: st, bookingFee: bookingFee}
}

func (s *AdminService) Stats(ctx context.Context) (types.StatsResponse, error) {
	users, err := s.store.CountIdentities(ctx)
	if err != nil {
		return types.StatsResponse{}, fmt.Errorf("stats: %w", err)
	}
	bookings, err := s.store.CountBookings(ctx)
	if err != nil {
		return types.StatsResponse{}, fmt.Errorf("stats: %w", err)
	}
	paid, err := s.store.CountPaidBookings(ctx)
	if err != nil {
		return types.StatsResponse{}, fmt.Errorf("stats: %w", err)
	}
	granted, err := s.store.CountGranted(ctx)
	if err != nil {
		return types.StatsResponse{}, fmt.Errorf("stats: %w", err)
	}
	return types.StatsResponse{
		TotalUsers:    users,
		TotalBookings: bookings,
		TotalEntries:  granted,
		Revenue:       float64(paid) * s.bookingFee,
	}, nil
}

// Users lists every identity in id order.
func (s *AdminService) Users(ctx context.Context) ([]types.IdentityResponse, error) {
	recs, err := s.store.ListIdentities(ctx)
	if err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}
	out := make([]types.IdentityResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, identityResponse(r))
	}
	return out, nil
}

// Logs returns the newest audit entries. limit is clamped to
// [1, MaxLogLimit]; 0 means DefaultLogLimit.
func (s *AdminService) Logs(ctx context.Context, limit int) ([]types.EntryLogResponse, error) {
	switch {
	case limit <= 0:
		limit = DefaultLogLimit
	case limit > MaxLogLimit:
		limit = MaxLogLimit
	}

	recs, err := s.store.RecentEntries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("logs: %w", err)
	}
	out := make([]types.EntryLogResponse, 0, len(recs))
	for _, r := range recs {
		status := eligibility.StatusDenied
		if r.Granted {
			status = eligibility.StatusGranted
		}
		out = append(out, types.EntryLogResponse{
			ID:         r.ID,
			IdentityID: r.IdentityID,
			Username:   r.Username,
			LoungeID:   r.LoungeID,
			LoungeName: r.LoungeName,
			Timestamp:  r.Timestamp.UTC().Format(time.RFC3339),
			Status:     status,
			Reason:     r.Reason,
			Distance:   r.Distance,
		})
	}
	return out, nil
}
