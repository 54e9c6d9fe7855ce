// Package mockapi is an in-memory backend speaking the venue booking API
// contract, for local development and integration tests. Business rules
// such as pricing and availability are deliberately trivial.
package mockapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/client/client"
	"github.com/dmitrijs2005/venuebook/internal/client/models"
	"github.com/dmitrijs2005/venuebook/internal/logging"
	"github.com/dmitrijs2005/venuebook/internal/mockapi/config"
	"github.com/dmitrijs2005/venuebook/internal/mockapi/store"
	"github.com/labstack/echo/v4"
)

// APIPrefix is where every route is mounted.
const APIPrefix = "/api/v1"

const shutdownTimeout = 5 * time.Second

// requestValidator applies the same field rules the client checks before
// sending, so a client that skips them gets the same messages back.
type requestValidator struct{}

func (requestValidator) Validate(i any) error { return client.Validate(i) }

type Server struct {
	config *config.Config
	store  *store.Store
	logger logging.Logger
	echo   *echo.Echo
	clock  func() time.Time
}

type Option func(*Server)

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.clock = now }
}

func NewServer(cfg *config.Config, st *store.Store, logger logging.Logger, opts ...Option) *Server {
	s := &Server{config: cfg, store: st, logger: logger}
	for _, o := range opts {
		o(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = requestValidator{}
	e.HTTPErrorHandler = s.errorHandler

	// Logger outermost so recovered panics are logged with their 500.
	e.Use(requestLogger(logger))
	e.Use(recovery(logger))

	s.echo = e
	s.routes(e.Group(APIPrefix))
	return s
}

func (s *Server) routes(g *echo.Group) {
	g.POST("/login", s.login)
	g.POST("/register", s.register)
	g.GET("/wedding-halls", s.weddingHalls)
	g.GET("/wedding-halls/:id", s.weddingHall)
	g.GET("/districts", s.districts)

	g.POST("/logout", s.logout, s.requireAuth)
	g.GET("/profile", s.profile, s.requireAuth)
	g.PUT("/profile", s.updateProfile, s.requireAuth)
	g.GET("/reservations", s.myReservations, s.requireAuth)
	g.POST("/reservations", s.createReservation, s.requireAuth)
	g.PATCH("/reservations/:id/cancel", s.cancelReservation, s.requireAuth)

	owner := g.Group("/owner", s.requireAuth, requireRole(models.RoleOwner))
	owner.GET("/dashboard", s.ownerDashboard)
	owner.GET("/wedding-halls", s.ownerHalls)
	owner.POST("/wedding-halls", s.createOwnerHall)
	owner.GET("/wedding-halls/:id", s.ownerHall)
	owner.PUT("/wedding-halls/:id", s.updateOwnerHall)
	owner.DELETE("/wedding-halls/:id", s.deleteOwnerHall)
	owner.GET("/reservations", s.ownerReservations)
	owner.PATCH("/reservations/:id/status", s.updateReservationStatus)

	admin := g.Group("/admin", s.requireAuth, requireRole(models.RoleAdmin))
	admin.GET("/dashboard", s.adminDashboard)
	admin.GET("/users", s.adminUsers)
	admin.GET("/users/:id", s.adminUser)
	admin.PUT("/users/:id", s.updateAdminUser)
	admin.DELETE("/users/:id", s.deleteAdminUser)
	admin.GET("/owners", s.adminOwners)
	admin.POST("/owners", s.createAdminOwner)
	admin.GET("/wedding-halls", s.adminHalls)
	admin.DELETE("/wedding-halls/:id", s.deleteAdminHall)
	admin.GET("/reservations", s.adminReservations)
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "mock API listening", "addr", s.config.Addr, "prefix", APIPrefix)
		errCh <- s.echo.Start(s.config.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "shutting down mock API")
	return s.echo.Shutdown(shutdownCtx)
}
