package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/harshimysarla/LuxeAI/internal/lounge/face"
	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
	"github.com/harshimysarla/LuxeAI/internal/lounge/types"
)

type EnrollmentDeps struct {
	Identities store.IdentityStore
	Signatures store.SignatureStore
	Extractor  face.Extractor
	Model      string
	Logger     *slog.Logger

	ExtractTimeout time.Duration
}

// EnrollmentService registers or replaces the face signature of an
// identity.
type EnrollmentService struct {
	identities store.IdentityStore
	signatures store.SignatureStore
	extractor  face.Extractor
	model      string
	logger     *slog.Logger
	timeout    time.Duration
}

func NewEnrollmentService(deps EnrollmentDeps) *EnrollmentService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrollmentService{
		identities: deps.Identities,
		signatures: deps.Signatures,
		extractor:  deps.Extractor,
		model:      deps.Model,
		logger:     logger,
		timeout:    deps.ExtractTimeout,
	}
}

// Enroll extracts a signature from img and stores it for the identity,
// replacing any earlier one. Per-image problems come back as
// *face.ExtractionError.
func (s *EnrollmentService) Enroll(ctx context.Context, identityID int64, img []byte) (types.EnrollResponse, error) {
	if identityID <= 0 {
		return types.EnrollResponse{}, ErrInvalidIdentityID
	}
	if len(img) == 0 {
		return types.EnrollResponse{}, ErrImageRequired
	}

	if _, err := s.identities.GetIdentity(ctx, identityID); err != nil {
		return types.EnrollResponse{}, err
	}

	var sig face.Signature
	err := extractWithin(ctx, s.timeout, func(ctx context.Context) error {
		var xerr error
		sig, xerr = s.extractor.Extract(ctx, img)
		return xerr
	})
	if err != nil {
		return types.EnrollResponse{}, fmt.Errorf("enroll: %w", err)
	}
	if sig.IsZero() {
		return types.EnrollResponse{}, &face.ExtractionError{Kind: face.NoFace, Err: errors.New("degenerate signature")}
	}

	now := time.Now().UTC()
	if err := s.signatures.UpsertSignature(ctx, store.SignatureRecord{
		IdentityID: identityID,
		Signature:  sig,
		Model:      s.model,
		UpdatedAt:  now,
	}); err != nil {
		return types.EnrollResponse{}, fmt.Errorf("enroll: %w", err)
	}

	s.logger.Info("face enrolled",
		slog.Int64("identity_id", identityID),
		slog.String("model", s.model),
		slog.Int("dim", sig.Dim()),
	)

	return types.EnrollResponse{
		IdentityID: identityID,
		Model:      s.model,
		Dim:        sig.Dim(),
		UpdatedAt:  now.Format(time.RFC3339),
	}, nil
}
