package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/mcp"
	"github.com/2beens/fittrack/internal/middleware"
	"github.com/2beens/fittrack/internal/nutrition"
	"github.com/2beens/fittrack/internal/openfoodfacts"
	"github.com/2beens/fittrack/internal/progression"
	"github.com/2beens/fittrack/internal/storage"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config       *config.Config
	stores       *storage.Stores
	advisor      *progression.Advisor
	ledger       *nutrition.Ledger
	foodDB       *openfoodfacts.Client
	tokenChecker auth.Checker

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	VersionInfo string
	// Now is the clock of both core modules, time.Now when nil
	Now func() time.Time
}

// NewServer opens the storage, migrates it and makes sure the food catalog is
// seeded. Nothing listens until Serve is called.
func NewServer(ctx context.Context, params NewServerParams) (*Server, error) {
	cfg := params.Config

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("fittrack", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(cfg.HoneycombEnabled, cfg.OtelServiceName)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	tokenChecker, err := auth.NewTokenChecker(cfg.APITokenHash)
	if err != nil {
		otelShutdown()
		return nil, err
	}
	if !tokenChecker.Enabled() {
		log.Warnln("api token hash not set, mutating routes are not protected")
	}

	stores, err := storage.Open(ctx, cfg)
	if err != nil {
		otelShutdown()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := stores.Migrate(ctx); err != nil {
		otelShutdown()
		return nil, multierr.Append(fmt.Errorf("migrate storage: %w", err), stores.Close())
	}

	foodDB := openfoodfacts.NewClient(cfg.OFFBaseURL, cfg.OFFTimeout, cfg.OFFCacheSizeMB)
	ledger := nutrition.NewLedger(stores.Foods, stores.Meals, foodDB, params.Now)
	if err := ledger.SeedCatalog(ctx); err != nil {
		otelShutdown()
		return nil, multierr.Append(err, stores.Close())
	}

	log.Debugf("storage backend: %s", stores.Backend())

	return &Server{
		versionInfo:    params.VersionInfo,
		config:         cfg,
		stores:         stores,
		advisor:        progression.NewAdvisor(stores.Sessions, params.Now),
		ledger:         ledger,
		foodDB:         foodDB,
		tokenChecker:   tokenChecker,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fittrack-router"))

	r.HandleFunc("/health", s.handleHealth).Methods("GET", "OPTIONS").Name("health")

	progression.NewHandler(s.advisor, s.metricsManager).SetupRoutes(r)
	nutrition.NewHandler(s.ledger, s.foodDB, s.metricsManager).SetupRoutes(r)
	mcp.NewServer(s.ledger).SetupRoutes(r)

	// all the rest - unhandled paths
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSONError(w, http.StatusNotFound, "not found", nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSONError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.tokenChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.versionInfo,
	})
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(host, strconv.Itoa(s.config.MetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}

	// handlers are done, safe to close the stores now
	if err := s.stores.Close(); err != nil {
		log.Errorf("failed to close storage: %s", err)
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
