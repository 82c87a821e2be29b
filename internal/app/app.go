package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/propdesk/prop-grading/external/gradeapi"
	"github.com/propdesk/prop-grading/external/statsfeed"
	"github.com/propdesk/prop-grading/internal/config"
	"github.com/propdesk/prop-grading/internal/domain/prop"
	"github.com/propdesk/prop-grading/internal/domain/readout"
	"github.com/propdesk/prop-grading/internal/infrastructure/repository/memory"
	"github.com/propdesk/prop-grading/internal/infrastructure/repository/postgres"
	"github.com/propdesk/prop-grading/internal/interfaces/httpapi"
	"github.com/propdesk/prop-grading/internal/platform/cache"
	idgen "github.com/propdesk/prop-grading/internal/platform/id"
	"github.com/propdesk/prop-grading/internal/platform/logging"
	"github.com/propdesk/prop-grading/internal/platform/resilience"
	"github.com/propdesk/prop-grading/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	propRepo, readoutRepo, err := newRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	feed := statsfeed.NewClient(statsfeed.ClientConfig{
		HTTPClient: &http.Client{Timeout: cfg.StatsFeedTimeout},
		BaseURL:    cfg.StatsFeedBaseURL,
		APIKey:     cfg.StatsFeedAPIKey,
		Timeout:    cfg.StatsFeedTimeout,
		MaxRetries: cfg.StatsFeedMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StatsFeedCircuitEnabled,
			FailureThreshold: cfg.StatsFeedCircuitFailureCount,
			OpenTimeout:      cfg.StatsFeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StatsFeedCircuitHalfOpenMaxReq,
		},
	})

	invoker := gradeapi.NewClient(gradeapi.ClientConfig{
		BaseURL: cfg.GradeAPIBaseURL,
		Token:   cfg.GradeAPIToken,
		Timeout: cfg.GradeAPITimeout,
		Logger:  logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.GradeAPICircuitEnabled,
			FailureThreshold: cfg.GradeAPICircuitFailureCount,
			OpenTimeout:      cfg.GradeAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.GradeAPICircuitHalfOpenMaxReq,
		},
	})

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	idGenerator := idgen.NewRandomGenerator()

	boxScoreSvc := usecase.NewBoxScoreService(feed, store, logger, cfg.StatsFeedSeason)
	readoutSvc := usecase.NewReadoutService(feed, readoutRepo, idGenerator, logger)
	preflightSvc := usecase.NewPreflightService(propRepo, readoutRepo)
	gradingSvc := usecase.NewGradingService(propRepo, invoker, preflightSvc, logger)
	packGradingSvc := usecase.NewPackGradingService(propRepo, gradingSvc, idGenerator, cfg.PackGradeMaxWorkers, logger)
	selectionCtrl := usecase.NewSelectionController(boxScoreSvc, logger)

	handler := httpapi.NewHandler(boxScoreSvc, readoutSvc, preflightSvc, gradingSvc, packGradingSvc, selectionCtrl, logger)
	verifier := httpapi.NewStaticTokenVerifier(cfg.AdminAPIToken, "admin")
	router := httpapi.NewRouter(handler, verifier, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	server.RegisterOnShutdown(selectionCtrl.Close)

	return server, nil
}

func newRepositories(cfg config.Config, logger *logging.Logger) (prop.Repository, readout.Repository, error) {
	if cfg.DBURL == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
		return memory.NewPropRepository(memory.SeedProps()), memory.NewReadoutRepository(), nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	logger.Info("using postgres repositories", "database", dbNameFromURL(cfg.DBURL))

	return postgres.NewPropRepository(db), postgres.NewReadoutRepository(db), nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
