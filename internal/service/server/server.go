package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/port"
	"github.com/vertextoedge/academic-admin/internal/service/academy"
	"github.com/vertextoedge/academic-admin/internal/service/dashboard"
)

// Config contains HTTP server configuration
type Config struct {
	BindAddr     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		BindAddr:     "0.0.0.0:8080",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Services are the application services the API exposes.
// Reminders and Metrics are optional.
type Services struct {
	Academy   *academy.Service
	Dashboard *dashboard.Service
	Reminders ReminderRunner
	Metrics   MetricsSource
}

// Server represents the HTTP API server
type Server struct {
	config            *Config
	store             port.Store
	logger            *zap.Logger
	server            *http.Server
	courseHandler     *CourseHandler
	studentHandler    *StudentHandler
	enrollmentHandler *EnrollmentHandler
	paymentHandler    *PaymentHandler
	dashboardHandler  *DashboardHandler
	debugHandler      *DebugHandler
}

// New creates a new HTTP server
func New(cfg *Config, store port.Store, services Services, logger *zap.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config: cfg,
		store:  store,
		logger: logger,
	}

	s.courseHandler = NewCourseHandler(store, services.Academy, logger)
	s.studentHandler = NewStudentHandler(store, services.Academy, logger)
	s.enrollmentHandler = NewEnrollmentHandler(store, services.Academy, logger)
	s.paymentHandler = NewPaymentHandler(store, services.Academy, services.Reminders, logger)
	s.dashboardHandler = NewDashboardHandler(services.Dashboard, logger)
	s.debugHandler = NewDebugHandler(services.Metrics, logger)

	s.server = &http.Server{
		Addr:         cfg.BindAddr,
		Handler:      LoggingMiddleware(logger)(s.routes()),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", s.handleHealth)

	// Courses
	mux.HandleFunc("GET /api/courses", s.courseHandler.HandleList)
	mux.HandleFunc("POST /api/courses", s.courseHandler.HandleCreate)
	mux.HandleFunc("GET /api/courses/{id}", s.courseHandler.HandleGet)
	mux.HandleFunc("PATCH /api/courses/{id}", s.courseHandler.HandleUpdate)
	mux.HandleFunc("DELETE /api/courses/{id}", s.courseHandler.HandleDelete)
	mux.HandleFunc("GET /api/courses/{id}/enrollments", s.courseHandler.HandleEnrollments)

	// Students
	mux.HandleFunc("GET /api/students", s.studentHandler.HandleList)
	mux.HandleFunc("POST /api/students", s.studentHandler.HandleCreate)
	mux.HandleFunc("GET /api/students/{id}", s.studentHandler.HandleGet)
	mux.HandleFunc("PATCH /api/students/{id}", s.studentHandler.HandleUpdate)
	mux.HandleFunc("DELETE /api/students/{id}", s.studentHandler.HandleDelete)
	mux.HandleFunc("GET /api/students/{id}/enrollments", s.studentHandler.HandleEnrollments)

	// Enrollments
	mux.HandleFunc("GET /api/enrollments", s.enrollmentHandler.HandleList)
	mux.HandleFunc("POST /api/enrollments", s.enrollmentHandler.HandleCreate)
	mux.HandleFunc("GET /api/enrollments/{id}", s.enrollmentHandler.HandleGet)
	mux.HandleFunc("PATCH /api/enrollments/{id}", s.enrollmentHandler.HandleUpdate)
	mux.HandleFunc("GET /api/enrollments/{id}/payments", s.enrollmentHandler.HandlePayments)
	mux.HandleFunc("GET /api/enrollments/{id}/suggested-payment", s.enrollmentHandler.HandleSuggestedPayment)
	mux.HandleFunc("GET /api/enrollments/{id}/reminders", s.enrollmentHandler.HandleReminders)

	// Payments and reminders
	mux.HandleFunc("GET /api/payments", s.paymentHandler.HandleList)
	mux.HandleFunc("POST /api/payments", s.paymentHandler.HandleCreate)
	mux.HandleFunc("GET /api/reminders", s.paymentHandler.HandleReminders)
	mux.HandleFunc("POST /api/reminders/run", s.paymentHandler.HandleRunReminders)

	// Dashboard
	mux.HandleFunc("GET /api/dashboard/stats", s.dashboardHandler.HandleStats)
	mux.HandleFunc("GET /api/dashboard/activity", s.dashboardHandler.HandleActivity)
	mux.HandleFunc("GET /api/dashboard/debtors", s.dashboardHandler.HandleDebtors)
	mux.HandleFunc("GET /api/dashboard/occupancy", s.dashboardHandler.HandleOccupancy)

	// Debug endpoints
	mux.HandleFunc("GET /debug/metrics", s.debugHandler.HandleMetrics)

	return mux
}

// Handler returns the root handler, for use with httptest
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		http.Error(w, "Database connection failed", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"healthy","time":"` + time.Now().Format(time.RFC3339) + `"}`))
}
