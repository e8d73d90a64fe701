package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/harshimysarla/LuxeAI/internal/lounge/eligibility"
	"github.com/harshimysarla/LuxeAI/internal/lounge/face"
	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
	"github.com/harshimysarla/LuxeAI/internal/lounge/types"
	"github.com/harshimysarla/LuxeAI/internal/metrics"
)

var (
	ErrInvalidIdentityID = errors.New("identity_id is required")
	ErrInvalidVenueID    = errors.New("lounge_id is required")
	ErrImageRequired     = errors.New("image is required")
)

type AccessDeps struct {
	Facts   store.FactsReader
	Entries store.EntryLogStore
	Decider *eligibility.Decider
	Metrics metrics.MetricsCollector
	Logger  *slog.Logger

	// Model names the extractor serving live captures. Enrolled signatures
	// from another model are a configuration fault. Empty skips the check.
	Model string

	// ExtractTimeout bounds the decision, which is dominated by extraction.
	ExtractTimeout time.Duration
}

type AccessService struct {
	facts   store.FactsReader
	entries store.EntryLogStore
	decider *eligibility.Decider
	metrics metrics.MetricsCollector
	logger  *slog.Logger
	model   string
	timeout time.Duration
}

func NewAccessService(deps AccessDeps) *AccessService {
	m := deps.Metrics
	if m == nil {
		m = metrics.Nop{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AccessService{
		facts:   deps.Facts,
		entries: deps.Entries,
		decider: deps.Decider,
		metrics: m,
		logger:  logger,
		model:   deps.Model,
		timeout: deps.ExtractTimeout,
	}
}

// Verify decides whether the person in req.Image may enter the lounge.
// Every per-user outcome, granted or denied, is a response; an error is a
// validation problem or a configuration fault such as the model being down.
// A missing image is a per-user denial, not a validation error.
func (s *AccessService) Verify(ctx context.Context, req types.VerifyRequest) (types.VerifyResponse, error) {
	now := time.Now().UTC()

	if req.IdentityID <= 0 {
		return types.VerifyResponse{}, ErrInvalidIdentityID
	}
	if req.VenueID <= 0 {
		return types.VerifyResponse{}, ErrInvalidVenueID
	}

	facts, err := s.facts.LoadFacts(ctx, req.IdentityID, req.VenueID)
	if err != nil {
		return types.VerifyResponse{}, fmt.Errorf("verify: %w", err)
	}

	in := eligibility.Input{Image: req.Image}
	if sig := facts.Signature; sig != nil {
		if err := s.checkModel(sig.Model); err != nil {
			s.logger.Error("enrolled signature unusable",
				slog.Int64("identity_id", req.IdentityID),
				slog.String("error", err.Error()),
			)
			return types.VerifyResponse{}, fmt.Errorf("verify: %w", err)
		}
		in.Enrolled = sig.Signature
	}
	if b := facts.Booking; b != nil {
		in.Reservation = &eligibility.Reservation{ID: b.ID, Paid: b.Paid, Slot: b.Slot}
	}

	var decision eligibility.Decision
	err = extractWithin(ctx, s.timeout, func(ctx context.Context) error {
		var derr error
		decision, derr = s.decider.Decide(ctx, in)
		return derr
	})
	if err != nil {
		s.logger.Error("gate decision failed",
			slog.Int64("identity_id", req.IdentityID),
			slog.Int64("lounge_id", req.VenueID),
			slog.String("error", err.Error()),
		)
		return types.VerifyResponse{}, fmt.Errorf("verify: %w", err)
	}

	s.metrics.RecordDecision(string(decision.Code), decision.Granted)
	if d, ok := decision.Distance(); ok {
		s.metrics.RecordDistance(d)
	}
	s.recordEntry(ctx, req, decision, now)

	s.logger.Info("gate decision",
		slog.Int64("identity_id", req.IdentityID),
		slog.Int64("lounge_id", req.VenueID),
		slog.Bool("granted", decision.Granted),
		slog.String("code", string(decision.Code)),
	)

	resp := types.VerifyResponse{
		AccessGranted: decision.Granted,
		Status:        decision.Status(),
		Code:          string(decision.Code),
		Reason:        decision.Reason,
		IdentityID:    req.IdentityID,
		VenueID:       req.VenueID,
		ServerTime:    now.Format(time.RFC3339Nano),
	}
	if d, ok := decision.Distance(); ok {
		resp.Distance = &d
	}
	if c, ok := decision.Confidence(); ok {
		resp.Confidence = &c
	}
	return resp, nil
}

func (s *AccessService) checkModel(enrolled string) error {
	if s.model == "" || enrolled == "" || strings.EqualFold(s.model, enrolled) {
		return nil
	}
	return fmt.Errorf("%w: enrolled with %s, serving %s", face.ErrModelMismatch, enrolled, s.model)
}

// recordEntry appends the decision to the audit log. A failed write is
// logged and counted but never changes the decision already made.
func (s *AccessService) recordEntry(
	ctx context.Context,
	req types.VerifyRequest,
	decision eligibility.Decision,
	decidedAt time.Time,
) {
	rec := store.EntryLogRecord{
		IdentityID: req.IdentityID,
		LoungeID:   req.VenueID,
		Timestamp:  decidedAt,
		Granted:    decision.Granted,
		Reason:     decision.Reason,
	}
	if d, ok := decision.Distance(); ok {
		rec.Distance = &d
	}

	// The gate has already decided; a client hanging up must not drop the row.
	if err := s.entries.AppendEntry(context.WithoutCancel(ctx), rec); err != nil {
		s.metrics.RecordAuditFailure()
		s.logger.Warn("entry log write failed",
			slog.Int64("identity_id", req.IdentityID),
			slog.Int64("lounge_id", req.VenueID),
			slog.String("error", err.Error()),
		)
	}
}
