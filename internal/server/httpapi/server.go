// Package httpapi exposes the matchmaker services over HTTP and a websocket
// for approval notifications.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/matchmaker/internal/logging"
	"github.com/dmitrijs2005/matchmaker/internal/server/config"
	"github.com/dmitrijs2005/matchmaker/internal/server/metrics"
	"github.com/dmitrijs2005/matchmaker/internal/server/notify"
	"github.com/dmitrijs2005/matchmaker/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
)

const shutdownTimeout = 5 * time.Second

// Services groups what the handlers call into.
type Services struct {
	Users        *services.UserService
	Admins       *services.AdminService
	Applications *services.ApplicationService
	Search       *services.SearchService
	Registry     *notify.Registry
	Metrics      *metrics.Registry
}

type Server struct {
	address     string
	svc         Services
	logger      logging.Logger
	userSecret  []byte
	adminSecret []byte
	corsOrigins []string
	upgrader    websocket.Upgrader
}

func NewServer(cfg *config.Config, svc Services, l logging.Logger) *Server {
	s := &Server{
		address:     cfg.EndpointAddrHTTP,
		svc:         svc,
		logger:      l.With("module", "http_server"),
		userSecret:  []byte(cfg.UserSecretKey),
		adminSecret: []byte(cfg.AdminSecretKey),
		corsOrigins: cfg.CORSOrigins,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/user", func(r chi.Router) {
		r.Post("/sign_up", s.handleSignUp)
		r.Post("/sign_in", s.handleSignIn)
		r.Post("/google/sign_up", s.handleGoogleSignUp)
		r.Post("/google/sign_in", s.handleGoogleSignIn)
		r.Post("/reset_password", s.handleResetRequest)
		r.Put("/reset_password", s.handleResetUpdate)

		r.Route("/{userId}", func(r chi.Router) {
			r.Use(s.requireUser, s.requireOwner)
			r.Post("/createApplication", s.handleCreateApplication)
			r.Put("/amendApplication", s.handleAmendApplication)
			r.Get("/application", s.handleGetOwnApplication)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/createAdmin", s.handleCreateAdmin)
		r.Post("/loginAdmin", s.handleLoginAdmin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/applications", s.handleGetAllApplications)
			r.Get("/applications/{id}", s.handleGetApplication)
			r.Post("/applications/{id}/approve", s.handleApprove)
			r.Get("/users/{userId}", s.handleAdminGetUser)
		})
	})

	r.With(s.requireAny).Post("/search", s.handleSearch)
	r.Get("/ws", s.handleWebsocket)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	if s.svc.Metrics != nil {
		r.Method(http.MethodGet, "/debug/metrics", s.svc.Metrics.Handler())
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
