package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
	"github.com/harshimysarla/LuxeAI/internal/lounge/types"
)

var ErrInvalidUsername = errors.New("username is required")

type IdentityService struct {
	store store.IdentityStore
}

func NewIdentityService(st store.IdentityStore) *IdentityService {
	return &IdentityService{store: st}
}

func (s *IdentityService) Create(ctx context.Context, req types.CreateIdentityRequest) (types.IdentityResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return types.IdentityResponse{}, ErrInvalidUsername
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = "user"
	}

	rec, err := s.store.CreateIdentity(ctx, store.IdentityRecord{
		Username: username,
		Role:     role,
		Active:   true,
	})
	if err != nil {
		return types.IdentityResponse{}, fmt.Errorf("create identity: %w", err)
	}
	return identityResponse(rec), nil
}

func (s *IdentityService) Get(ctx context.Context, id int64) (types.IdentityResponse, error) {
	if id <= 0 {
		return types.IdentityResponse{}, ErrInvalidIdentityID
	}
	rec, err := s.store.GetIdentity(ctx, id)
	if err != nil {
		return types.IdentityResponse{}, err
	}
	return identityResponse(rec), nil
}

func identityResponse(rec store.IdentityRecord) types.IdentityResponse {
	return types.IdentityResponse{
		ID:        rec.ID,
		Username:  rec.Username,
		Role:      rec.Role,
		Active:    rec.Active,
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}
