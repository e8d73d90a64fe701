package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
	"github.com/harshimysarla/LuxeAI/internal/lounge/types"
	"github.com/harshimysarla/LuxeAI/internal/metrics"
)

const dateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

type BookingService struct {
	bookings store.BookingStore
	registry *LoungeRegistry
	metrics  metrics.MetricsCollector
	logger   *slog.Logger
}

func NewBookingService(bs store.BookingStore, reg *LoungeRegistry, m metrics.MetricsCollector, logger *slog.Logger) *BookingService {
	if m == nil {
		m = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{bookings: bs, registry: reg, metrics: m, logger: logger}
}

// Book reserves a seat. The booking is paid exactly when a payment
// reference is supplied.
func (s *BookingService) Book(ctx context.Context, req types.BookingRequest) (types.BookingResponse, error) {
	if req.IdentityID <= 0 {
		return types.BookingResponse{}, ErrInvalidIdentityID
	}
	if req.LoungeID <= 0 {
		return types.BookingResponse{}, ErrInvalidVenueID
	}

	now := time.Now().UTC()
	date := now.Truncate(24 * time.Hour)
	if d := strings.TrimSpace(req.Date); d != "" {
		parsed, err := time.Parse(dateLayout, d)
		if err != nil {
			return types.BookingResponse{}, ErrInvalidDate
		}
		date = parsed
	}

	known, err := s.registry.IsKnown(ctx, req.LoungeID)
	if err != nil {
		return types.BookingResponse{}, fmt.Errorf("book: %w", err)
	}
	if !known {
		return types.BookingResponse{}, store.ErrNotFound
	}

	rec, err := s.bookings.CreateBooking(ctx, store.BookingRecord{
		IdentityID:   req.IdentityID,
		LoungeID:     req.LoungeID,
		Date:         date,
		Slot:         strings.TrimSpace(req.Slot),
		Status:       "confirmed",
		Paid:         strings.TrimSpace(req.PaymentReference) != "",
		FlightNumber: strings.ToUpper(strings.TrimSpace(req.FlightNumber)),
		QRCode:       qrCode(req.LoungeID),
		CreatedAt:    now,
	})
	if err != nil {
		return types.BookingResponse{}, fmt.Errorf("book: %w", err)
	}

	s.metrics.RecordBooking(rec.Paid)
	s.logger.Info("booking created",
		slog.Int64("booking_id", rec.ID),
		slog.Int64("identity_id", rec.IdentityID),
		slog.Int64("lounge_id", rec.LoungeID),
		slog.Bool("paid", rec.Paid),
	)

	return types.BookingResponse{
		ID:           rec.ID,
		IdentityID:   rec.IdentityID,
		LoungeID:     rec.LoungeID,
		Date:         rec.Date.Format(dateLayout),
		Slot:         rec.Slot,
		Status:       rec.Status,
		Paid:         rec.Paid,
		FlightNumber: rec.FlightNumber,
		QRCode:       rec.QRCode,
	}, nil
}

// qrCode is the receipt string printed on the booking, e.g.
// "LOUNGE-2-9f86d081".
func qrCode(loungeID int64) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("LOUNGE-%d-%s", loungeID, hex[:8])
}
