// Package chi exposes the marketplace API over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/odhiyaty/odhiyaty/internal/domain"
	healthuc "github.com/odhiyaty/odhiyaty/internal/usecase/health"
	registrationuc "github.com/odhiyaty/odhiyaty/internal/usecase/registration"
)

// RegistrationService runs sign-up and email verification.
type RegistrationService interface {
	Pending(ctx context.Context, req registrationuc.PendingRequest) error
	Complete(ctx context.Context, email, code string) (domain.User, error)
	ResendPending(ctx context.Context, email string) error
	CancelPending(ctx context.Context, email string) error
	SendVerification(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) (registrationuc.Outcome, error)
	VerifyEmail(ctx context.Context, email, code string) (registrationuc.Outcome, error)
	DeleteUnverified(ctx context.Context, email string) (registrationuc.Outcome, error)
}

// PasswordService runs password reset.
type PasswordService interface {
	RequestReset(ctx context.Context, email string) (bool, error)
	Reset(ctx context.Context, email, code, newPassword string) error
}

// ListingService reads listings.
type ListingService interface {
	List(ctx context.Context, approvedOnly bool) []domain.Listing
	Get(ctx context.Context, id string) (domain.Listing, error)
}

// OrderService sends order emails.
type OrderService interface {
	SendConfirmation(ctx context.Context, email string, order domain.Order) (domain.Delivery, error)
}

// MunicipalityService serves the communes data.
type MunicipalityService interface {
	Raw() ([]byte, error)
	Communes(wilaya string) ([]string, error)
	Wilayas() ([]string, error)
}

// HealthService aggregates backend checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Services groups the use cases behind the API.
type Services struct {
	Registration   RegistrationService
	Password       PasswordService
	Listings       ListingService
	Orders         OrderService
	Municipalities MunicipalityService
	Health         HealthService
}

// Server holds the HTTP handlers.
type Server struct {
	svc           Services
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, logger *zap.Logger) *Server {
	return &Server{
		svc:           svc,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Mount registers every route on r. /metrics requires one of apiKeys when
// any is set.
func (s *Server) Mount(r chi.Router, apiKeys []string) {
	r.Get("/health", s.HealthCheck)
	r.Get("/api/health", s.HealthCheck)
	r.With(BearerAuthMiddleware(apiKeys)).Get("/metrics", s.Metrics)

	r.Get("/api/sheep", s.ListSheep)
	r.Get("/api/sheep/approved", s.ListApprovedSheep)
	r.Get("/api/sheep/{id}", s.GetSheep)

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(NoCacheMiddleware)
		r.Post("/pending-registration", s.PendingRegistration)
		r.Post("/complete-registration", s.CompleteRegistration)
		r.Post("/resend-pending-verification", s.ResendPendingVerification)
		r.Post("/cancel-pending-registration", s.CancelPendingRegistration)
		r.Post("/send-verification", s.SendVerification)
		r.Post("/resend-verification", s.ResendVerification)
		r.Post("/verify-email", s.VerifyEmail)
		r.Post("/delete-unverified", s.DeleteUnverified)
		r.Post("/request-password-reset", s.RequestPasswordReset)
		r.Post("/resend-reset-code", s.ResendResetCode)
		r.Post("/reset-password", s.ResetPassword)
	})

	r.Post("/api/orders/send-confirmation", s.SendOrderConfirmation)

	r.Get("/api/municipalities", s.Municipalities)
	r.Get("/api/municipalities/{wilaya}", s.WilayaCommunes)
	r.Get("/api/wilayas", s.Wilayas)
}

type healthResponse struct {
	Status     string            `json:"status"`
	Checks     map[string]string `json:"checks"`
	Configured map[string]bool   `json:"configured"`
	Timestamp  string            `json:"timestamp"`
}

// HealthCheck handles GET /health and GET /api/health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:     string(report.Status),
		Checks:     checks,
		Configured: report.Configured,
		Timestamp:  report.Timestamp.Format(time.RFC3339),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// envelope is the response body of the account and order endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

func writeSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

// decode reads a JSON body into v, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, lang catalog) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, lang.messages[domain.ErrInvalidRequest])
		return false
	}
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error, lang catalog) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := lang.message(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, lang.unexpected)
}
