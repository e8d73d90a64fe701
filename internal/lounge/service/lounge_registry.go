package service

import (
	"context"
	"errors"

	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
	"github.com/harshimysarla/LuxeAI/internal/lounge/types"
)

type LoungeRegistry struct {
	store store.LoungeStore
}

func NewLoungeRegistry(st store.LoungeStore) *LoungeRegistry {
	return &LoungeRegistry{store: st}
}

func (r *LoungeRegistry) IsKnown(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	_, err := r.store.GetLounge(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *LoungeRegistry) List(ctx context.Context) ([]types.LoungeResponse, error) {
	recs, err := r.store.ListLounges(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.LoungeResponse, 0, len(recs))
	for _, l := range recs {
		out = append(out, loungeResponse(l))
	}
	return out, nil
}

func (r *LoungeRegistry) Get(ctx context.Context, id int64) (types.LoungeResponse, error) {
	if id <= 0 {
		return types.LoungeResponse{}, ErrInvalidVenueID
	}
	l, err := r.store.GetLounge(ctx, id)
	if err != nil {
		return types.LoungeResponse{}, err
	}
	return loungeResponse(l), nil
}

func loungeResponse(l store.LoungeRecord) types.LoungeResponse {
	var pct float64
	if l.TotalSeats > 0 {
		pct = float64(l.Occupancy) / float64(l.TotalSeats) * 100
	}
	return types.LoungeResponse{
		ID:               l.ID,
		Name:             l.Name,
		Airport:          l.Airport,
		TotalSeats:       l.TotalSeats,
		Occupancy:        l.Occupancy,
		OccupancyPercent: pct,
	}
}
