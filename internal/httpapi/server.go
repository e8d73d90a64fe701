package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/harshimysarla/LuxeAI/internal/lounge/service"
)

const defaultMaxImageBytes = 5 << 20

type Dependencies struct {
	Logger     *slog.Logger
	Addr       string
	Production bool

	// MaxImageBytes caps a single uploaded image. Larger uploads get 413.
	MaxImageBytes int64
	// VerifyRatePerMinute limits verify-entry attempts per identity. 0 disables.
	VerifyRatePerMinute int

	AccessService     *service.AccessService
	EnrollmentService *service.EnrollmentService
	IdentityService   *service.IdentityService
	BookingService    *service.BookingService
	LoungeRegistry    *service.LoungeRegistry
	AdminService      *service.AdminService

	// MetricsHandler is mounted on /metrics when set.
	MetricsHandler http.Handler
	// Ready backs /healthz; nil means always ready.
	Ready func(ctx context.Context) error
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	validate   *validator.Validate
	limiter    *rateLimiter
	maxImage   int64
	ready      func(ctx context.Context) error

	accessService     *service.AccessService
	enrollmentService *service.EnrollmentService
	identityService   *service.IdentityService
	bookingService    *service.BookingService
	loungeRegistry    *service.LoungeRegistry
	adminService      *service.AdminService
}

func NewServer(d Dependencies) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxImage := d.MaxImageBytes
	if maxImage <= 0 {
		maxImage = defaultMaxImageBytes
	}

	s := &Server{
		logger:            logger,
		validate:          validator.New(validator.WithRequiredStructEnabled()),
		limiter:           newRateLimiter(d.VerifyRatePerMinute),
		maxImage:          maxImage,
		ready:             d.Ready,
		accessService:     d.AccessService,
		enrollmentService: d.EnrollmentService,
		identityService:   d.IdentityService,
		bookingService:    d.BookingService,
		loungeRegistry:    d.LoungeRegistry,
		adminService:      d.AdminService,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders(d.Production))

	r.Get("/healthz", s.handleHealth)
	if d.MetricsHandler != nil {
		r.Handle("/metrics", d.MetricsHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/identities", s.handleCreateIdentity)
		r.Get("/identities/{identityID}", s.handleGetIdentity)
		r.Put("/identities/{identityID}/signature", s.handleEnroll)

		r.Get("/lounges", s.handleListLounges)
		r.Get("/lounges/{loungeID}", s.handleGetLounge)
		r.Post("/lounges/{loungeID}/verify-entry", s.handleVerifyEntry)

		r.Post("/bookings", s.handleCreateBooking)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/stats", s.handleAdminStats)
			r.Get("/users", s.handleAdminUsers)
			r.Get("/entry-logs", s.handleAdminLogs)
		})
	})

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the rate limiter sweep.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.Warn("health check failed", slog.String("error", err.Error()))
			writeError(w, http.StatusServiceUnavailable, "unavailable", "dependency check failed")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
