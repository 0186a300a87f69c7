package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ballotworks/syncrun/internal/config"
	"github.com/ballotworks/syncrun/internal/interfaces/http/handlers"
)

// Server hosts the risk API. Local-only by default.
type Server struct {
	router   *mux.Router
	server   *http.Server
	handlers *handlers.Handlers
	hub      *EventHub
	metrics  http.Handler
	config   config.ServerConfig
	log      zerolog.Logger
}

// NewServer creates a new HTTP server instance.
func NewServer(cfg config.ServerConfig, h *handlers.Handlers, hub *EventHub, metricsHandler http.Handler, log zerolog.Logger) (*Server, error) {
	// Check if port is available before wiring anything.
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("port %d is busy or unavailable: %w", cfg.Port, err)
	}
	listener.Close()

	s := &Server{
		router:   mux.NewRouter(),
		handlers: h,
		hub:      hub,
		metrics:  metricsHandler,
		config:   cfg,
		log:      log,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSeconds) * time.Second,
	}
	return s, nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)
	s.router.Use(s.corsMiddleware)

	// The websocket stream holds its connection open past the request
	// timeout, so it and /metrics skip the JSON and timeout middleware.
	s.router.Handle("/coalition/events/stream", s.hub).Methods("GET")
	s.router.Handle("/metrics", s.metrics).Methods("GET")

	api := s.router.PathPrefix("/").Subrouter()
	api.Use(s.timeoutMiddleware)
	api.Use(s.jsonContentTypeMiddleware)

	api.HandleFunc("/health", s.handlers.Health).Methods("GET")

	api.HandleFunc("/topics", s.handlers.Topics).Methods("GET")
	api.HandleFunc("/topics/{id}", s.handlers.Topic).Methods("GET")
	api.HandleFunc("/topics/{id}/toggles", s.handlers.Toggles).Methods("GET")
	api.HandleFunc("/topics/{id}/toggles/{toggle_id}", s.handlers.ApplyToggle).Methods("POST")
	api.HandleFunc("/topics/{id}/simulation", s.handlers.Simulation).Methods("GET")

	api.HandleFunc("/ranking", s.handlers.Ranking).Methods("GET")
	api.HandleFunc("/dashboard", s.handlers.Dashboard).Methods("GET")

	api.HandleFunc("/coalition", s.handlers.Coalition).Methods("GET")
	api.HandleFunc("/coalition/defect", s.handlers.Defect).Methods("POST")
	api.HandleFunc("/coalition/realign", s.handlers.Realign).Methods("POST")
	api.HandleFunc("/coalition/scandal", s.handlers.Scandal).Methods("POST")
	api.HandleFunc("/coalition/events", s.handlers.CoalitionEvents).Methods("GET")

	s.router.NotFoundHandler = http.HandlerFunc(s.handlers.NotFound)
}

// requestIDMiddleware adds unique request ID to each request.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		ctx := context.WithValue(r.Context(), "request_id", requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLoggingMiddleware logs all requests with structured format.
func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID, _ := r.Context().Value("request_id").(string)

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(wrapper, r)

		s.log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

// timeoutMiddleware enforces request timeouts.
func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// corsMiddleware adds CORS headers for local development.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only allow localhost origins.
		origin := r.Header.Get("Origin")
		if strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1") {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// jsonContentTypeMiddleware sets JSON content type for API responses.
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.GetAddress()).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// GetAddress returns the server address.
func (s *Server) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// responseWrapper captures HTTP status codes for logging.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
