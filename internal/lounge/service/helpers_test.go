package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/harshimysarla/LuxeAI/internal/lounge/eligibility"
	"github.com/harshimysarla/LuxeAI/internal/lounge/face"
	"github.com/harshimysarla/LuxeAI/internal/lounge/service"
	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
	"github.com/harshimysarla/LuxeAI/internal/lounge/store/memory"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeExtractor maps image bytes to a canned signature or error.
type fakeExtractor struct {
	mu    sync.Mutex
	sigs  map[string]face.Signature
	errs  map[string]error
	calls int
}

func (f *fakeExtractor) Extract(ctx context.Context, img []byte) (face.Signature, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if string(img) == "slow" {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err, ok := f.errs[string(img)]; ok {
		return nil, err
	}
	if sig, ok := f.sigs[string(img)]; ok {
		return sig.Clone(), nil
	}
	return nil, &face.ExtractionError{Kind: face.NoFace}
}

func (f *fakeExtractor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var enrolledSig = face.Signature{1, 0}

// atDistance returns a unit signature at cosine distance d from enrolledSig.
func atDistance(d float64) face.Signature {
	c := 1 - d
	return face.Signature{c, math.Sqrt(1 - c*c)}
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{
		sigs: map[string]face.Signature{
			"enroll": enrolledSig,
			"near":   atDistance(0.05),
			"far":    atDistance(0.35),
			"zero":   {0, 0},
		},
		errs: map[string]error{
			"crowd": &face.ExtractionError{Kind: face.MultipleFaces},
			"down":  fmt.Errorf("connection refused: %w", face.ErrModelUnavailable),
		},
	}
}

// failingEntries wraps a store and fails every audit write.
type failingEntries struct {
	*memory.Store
}

func (failingEntries) AppendEntry(context.Context, store.EntryLogRecord) error {
	return errors.New("disk full")
}

type fixture struct {
	store     *memory.Store
	extractor *fakeExtractor
	access    *service.AccessService
	enroll    *service.EnrollmentService
	bookings  *service.BookingService
	registry  *service.LoungeRegistry
	identity  store.IdentityRecord
	lounge    store.LoungeRecord
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	ms := memory.New()
	ex := newFakeExtractor()

	id, err := ms.CreateIdentity(ctx, store.IdentityRecord{Username: "traveller", Active: true})
	if err != nil {
		t.Fatalf("CreateIdentity: %v", err)
	}
	l, err := ms.CreateLounge(ctx, store.LoungeRecord{Name: "Luxe Elite Lounge", Airport: "DEL", TotalSeats: 3})
	if err != nil {
		t.Fatalf("CreateLounge: %v", err)
	}

	reg := service.NewLoungeRegistry(ms)
	return &fixture{
		store:     ms,
		extractor: ex,
		access: service.NewAccessService(service.AccessDeps{
			Facts:   ms,
			Entries: ms,
			Decider: eligibility.New(ex, eligibility.Config{}),
			Logger:  silentLogger(),
			Model:   "ArcFace",
		}),
		enroll: service.NewEnrollmentService(service.EnrollmentDeps{
			Identities: ms,
			Signatures: ms,
			Extractor:  ex,
			Model:      "ArcFace",
			Logger:     silentLogger(),
		}),
		bookings: service.NewBookingService(ms, reg, nil, silentLogger()),
		registry: reg,
		identity: id,
		lounge:   l,
	}
}

func (f *fixture) enrollTraveller(t *testing.T) {
	t.Helper()
	if _, err := f.enroll.Enroll(context.Background(), f.identity.ID, []byte("enroll")); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
}
