package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/practicetrack/internal/auth"
	"github.com/2beens/practicetrack/internal/calsync"
	"github.com/2beens/practicetrack/internal/config"
	"github.com/2beens/practicetrack/internal/csvimport"
	"github.com/2beens/practicetrack/internal/db"
	"github.com/2beens/practicetrack/internal/middleware"
	"github.com/2beens/practicetrack/internal/misc"
	"github.com/2beens/practicetrack/internal/practice"
	"github.com/2beens/practicetrack/internal/practice/analytics"
	"github.com/2beens/practicetrack/internal/repertoire"
	"github.com/2beens/practicetrack/internal/telemetry/metrics"
	"github.com/2beens/practicetrack/internal/telemetry/tracing"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/coocood/freecache"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// statsCacheSizeBytes is plenty for the handful of cached stats responses.
const statsCacheSizeBytes = 10 * 1024 * 1024

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config     *config.Config
	dbPool     *pgxpool.Pool
	location   *time.Location
	filterCfg  analytics.FilterConfig
	statsCache *freecache.Cache
	calSync    *calsync.Service

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "practicetrack_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // set to 1 when all is set and running

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(&auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	}, auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "practicetrack-backend")
	if err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(params.Config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", params.Config.Timezone, err)
	}

	filterCfg, err := filterConfigFrom(params.Config, location)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,
		location:    location,
		filterCfg:   filterCfg,
		statsCache:  freecache.NewCache(statsCacheSizeBytes),

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if params.Config.CalendarSyncEnabled {
		calendarSource, err := calsync.NewGoogleCalendarSource(
			ctx,
			params.Config.CalendarCredentialsPath,
			params.Config.CalendarID,
		)
		if err != nil {
			return nil, fmt.Errorf("new google calendar source: %w", err)
		}
		s.calSync = calsync.NewService(
			calendarSource,
			practice.NewRepo(dbPool),
			metricsManager,
			time.Duration(params.Config.CalendarSyncIntervalMinutes)*time.Minute,
			time.Duration(params.Config.CalendarSyncLookbackHours)*time.Hour,
		)
	}

	return s, nil
}

func filterConfigFrom(cfg *config.Config, loc *time.Location) (analytics.FilterConfig, error) {
	filterCfg := analytics.FilterConfig{
		TargetPoints: cfg.ChartTargetPoints,
	}
	if cfg.ChartVisualStart == "" {
		return filterCfg, nil
	}
	visualStart, err := time.ParseInLocation("2006-01-02", cfg.ChartVisualStart, loc)
	if err != nil {
		return analytics.FilterConfig{}, fmt.Errorf("parse chart visual start %q: %w", cfg.ChartVisualStart, err)
	}
	filterCfg.VisualStart = analytics.DayOf(visualStart, loc)
	return filterCfg, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	practiceRepo := practice.NewRepo(s.dbPool)
	practiceHandler := practice.NewHandler(practiceRepo, s.statsCache, s.metricsManager)
	r.HandleFunc("/practice", practiceHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-session")
	r.HandleFunc("/practice", practiceHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-session")
	r.HandleFunc("/practice/session/{id}", practiceHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
	r.HandleFunc("/practice/{id}", practiceHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-session")
	r.HandleFunc("/practice/list/page/{page}/size/{size}", practiceHandler.HandleList).Methods("GET", "OPTIONS").Name("list-sessions")

	csvImportHandler := csvimport.NewHandler(csvimport.NewImporter(practiceRepo), s.statsCache)
	r.HandleFunc("/practice/import", csvImportHandler.HandleImport).Methods("POST", "OPTIONS").Name("import-sessions")

	statsHandler := practice.NewStatsHandler(practiceRepo, s.statsCache, s.filterCfg, s.location)
	r.HandleFunc("/practice/stats", statsHandler.HandleStats).Methods("GET", "OPTIONS").Name("stats")
	r.HandleFunc("/practice/stats/range/{range}", statsHandler.HandleRangeStats).Methods("GET", "OPTIONS").Name("stats-range")
	r.HandleFunc("/practice/stats/intraday", statsHandler.HandleIntraday).Methods("GET", "OPTIONS").Name("stats-intraday")
	r.HandleFunc("/practice/stats/live", statsHandler.HandleLiveAverage).Methods("GET", "OPTIONS").Name("stats-live")

	repertoireHandler := repertoire.NewHandler(repertoire.NewRepo(s.dbPool))
	r.HandleFunc("/repertoire", repertoireHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-piece")
	r.HandleFunc("/repertoire", repertoireHandler.HandleList).Methods("GET", "OPTIONS").Name("list-pieces")
	r.HandleFunc("/repertoire", repertoireHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-piece")
	r.HandleFunc("/repertoire/{id}", repertoireHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-piece")
	r.HandleFunc("/repertoire/{id}", repertoireHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-piece")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	miscHandler := misc.NewHandler(s.versionInfo, s.authService)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager, s.config.LoginRateLimitAllowedPerMin)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
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

	if s.calSync != nil {
		go s.calSync.Run(ctx)
	}

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
