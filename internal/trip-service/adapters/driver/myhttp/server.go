package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"bus-tracking/internal/config"
	"bus-tracking/internal/metrics"
	"bus-tracking/internal/mylogger"
	"bus-tracking/internal/trip-service/adapters/driven/bm"
	"bus-tracking/internal/trip-service/adapters/driven/consumer"
	"bus-tracking/internal/trip-service/adapters/driven/db"
	"bus-tracking/internal/trip-service/adapters/driver/myhttp/handle"
	"bus-tracking/internal/trip-service/adapters/driver/myhttp/middleware"
	"bus-tracking/internal/trip-service/adapters/driver/myhttp/ws"
	"bus-tracking/internal/trip-service/core/services"
)

var ErrServerClosed = errors.New("Server closed")

const WaitTime = 10

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     *db.DB
	mb     *bm.RabbitMQ
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

	// Initialize database connection
	database, err := db.New(s.ctx, s.cfg.DB, s.mylog)
	if err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = database
	mylog.Action("db_connected").Info("Successful database connection")

	// Initialize RabbitMQ connection
	mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		mylog.Action("broker_connection_failed").Error("Failed to connect to rabbitmq", err)
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Action("broker_connected").Info("Successful message broker connection")

	// Configure routes and handlers
	if err := s.Configure(); err != nil {
		return err
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.TripServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.TripServicePort)

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

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Action("broker_close_failed").Error("Failed to close message broker", err)
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

// Configure wires repositories, services, handlers and the broker consumer,
// then registers the routes.
func (s *Server) Configure() error {
	// Repositories
	tripsRepo := db.NewTripsRepo(s.db)
	routesRepo := db.NewRoutesRepo(s.db)

	// Services
	tripsService := services.NewTripsService(s.appCtx, s.mylog, tripsRepo, routesRepo, s.mb, s.cfg.Track.FreshnessThreshold)

	// Metrics and websocket fan-out
	collector := metrics.NewCollector()
	dispatcher := ws.NewDispatcher(s.mylog, collector)

	// Handlers
	tripsHandler := handle.NewTripsHandler(tripsService, dispatcher, collector, s.mylog)

	actorMiddleware := middleware.NewActorMiddleware(s.cfg.Track.JwtSecret)
	mutate := actorMiddleware.Wrap("DRIVER", "DISPATCHER", "ADMIN")

	// Broker-delivered GPS reports share the HTTP report path.
	locationConsumer := consumer.New(s.appCtx, s.mylog, s.mb, tripsService, dispatcher, collector)
	if err := locationConsumer.Run(); err != nil {
		return fmt.Errorf("failed to start location consumer: %w", err)
	}

	// Register routes
	s.mux.Handle("POST /trips", mutate(tripsHandler.CreateTrip()))
	s.mux.Handle("POST /trips/{trip_id}/start", mutate(tripsHandler.StartTrip()))
	s.mux.Handle("POST /trips/{trip_id}/pause", mutate(tripsHandler.PauseTrip()))
	s.mux.Handle("POST /trips/{trip_id}/resume", mutate(tripsHandler.ResumeTrip()))
	s.mux.Handle("POST /trips/{trip_id}/end", mutate(tripsHandler.EndTrip()))
	s.mux.Handle("POST /trips/{trip_id}/location", mutate(tripsHandler.ReportLocation()))

	s.mux.Handle("GET /trips/{trip_id}/tracking", tripsHandler.Tracking())
	s.mux.Handle("GET /vehicles/{vehicle_id}/trip", tripsHandler.ActiveTrip())
	s.mux.Handle("GET /vehicles/{vehicle_id}/tracking", tripsHandler.VehicleTracking())

	s.mux.Handle("GET /metrics", collector.Handler())

	// websocket routes
	s.mux.Handle("/ws/trips/{trip_id}", dispatcher.TrackingHandler())

	return nil
}
