package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"bus-tracking/internal/admin-service/adapters/driven/db"
	"bus-tracking/internal/admin-service/adapters/driver/myhttp/handle"
	"bus-tracking/internal/admin-service/adapters/driver/myhttp/middleware"
	"bus-tracking/internal/admin-service/core/ports"
	"bus-tracking/internal/admin-service/core/service"
	"bus-tracking/internal/config"
	"bus-tracking/internal/mylogger"
)

var ErrServerClosed = errors.New("Server closed")

const WaitTime = 10

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     ports.IDB
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
	wg     sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	return &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	if err := s.initializeDatabase(); err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	mylog.Action("db_connected").Info("Successful database connection")

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.AdminServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.AdminServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	s.wg.Wait()

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Action("db_close_failed").Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Action("db_closed").Info("Database closed")
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure wires repositories, services and handlers, then registers routes.
func (s *Server) Configure() {
	// Repositories and services
	tripHistoryRepo := db.NewTripHistoryRepo(s.db)
	fleetOverviewRepo := db.NewFleetOverviewRepo(s.db)

	tripHistoryService := service.NewTripHistoryService(s.ctx, s.mylog, tripHistoryRepo)
	fleetOverviewService := service.NewFleetOverviewService(s.ctx, s.mylog, fleetOverviewRepo)

	tripHistoryHandler := handle.NewTripHistoryHandler(s.mylog, tripHistoryService)
	fleetOverviewHandler := handle.NewFleetOverviewHandler(s.mylog, fleetOverviewService)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.Track.JwtSecret)

	// Register routes
	s.mux.Handle("GET /admin/overview", authMiddleware.Wrap(fleetOverviewHandler.GetFleetOverview()))
	s.mux.Handle("GET /admin/trips", authMiddleware.Wrap(tripHistoryHandler.ListTrips()))
	s.mux.Handle("GET /admin/vehicles/{vehicle_id}/trips", authMiddleware.Wrap(tripHistoryHandler.ListVehicleTrips()))
	s.mux.Handle("DELETE /admin/trips/{trip_id}", authMiddleware.Wrap(tripHistoryHandler.DeleteTrip()))
}

func (s *Server) initializeDatabase() error {
	database, err := db.Start(s.ctx, s.cfg.DB, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = database
	return nil
}
