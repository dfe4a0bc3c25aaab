package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nil-marketplace/internal/config"
	"github.com/riskibarqy/nil-marketplace/internal/domain/matching"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/account/gotrue"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/docai"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/jobqueue"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/mailer"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/nil-marketplace/internal/interfaces/httpapi"
	"github.com/riskibarqy/nil-marketplace/internal/platform/cache"
	idgen "github.com/riskibarqy/nil-marketplace/internal/platform/id"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
	"github.com/riskibarqy/nil-marketplace/internal/platform/resilience"
	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

const (
	authCacheMaxEntries = 50_000
	userSyncCacheTTL    = 5 * time.Minute
)

// App owns the HTTP server and the resources that must be released after it stops.
type App struct {
	Server     *http.Server
	db         *sqlx.DB
	dispatcher *usecase.JobDispatcher
	logger     *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	weights := matching.DefaultWeights()
	if cfg.MatchWeightsFile != "" {
		loaded, err := matching.LoadWeights(cfg.MatchWeightsFile)
		if err != nil {
			return nil, fmt.Errorf("load match weights: %w", err)
		}
		weights = loaded
	}

	a := &App{logger: logger}

	var repos repositories
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		repos = newMemoryRepositories()
	default:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.db = db
		if cfg.AppEnv == config.EnvDev {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				logger.Warn("bootstrap seed failed", "error", err)
			}
		}
		repos = newPostgresRepositories(db)
	}
	if cfg.CacheEnabled {
		repos = repos.withReadCache(cfg.CacheTTL)
	}

	queue, err := newJobQueue(cfg, logger)
	if err != nil {
		a.closeDB()
		return nil, err
	}
	var sender usecase.EmailSender
	if cfg.MailerEnabled {
		sender = mailer.NewClient(nil, mailer.Config{
			BaseURL:        cfg.MailerBaseURL,
			APIKey:         cfg.MailerAPIKey,
			From:           cfg.MailerFrom,
			Timeout:        cfg.MailerTimeout,
			Retry:          resilience.RetryPolicy{Attempts: cfg.MailerMaxRetries + 1, Backoff: 500 * time.Millisecond},
			CircuitBreaker: circuitConfig(cfg.MailerCircuit),
		}, logger.Named("mailer"))
	}

	var extractor usecase.DocumentExtractor
	if cfg.GenAIEnabled {
		gemini, err := docai.NewGeminiExtractor(ctx, cfg.GenAIAPIKey, cfg.GenAIModel, logger.Named("docai"))
		if err != nil {
			a.closeDB()
			return nil, fmt.Errorf("init gemini extractor: %w", err)
		}
		extractor = gemini
	}

	ids := idgen.NewUUIDGenerator()
	dispatcher := usecase.NewJobDispatcher(queue, sender, logger.Named("jobs"))
	a.dispatcher = dispatcher

	notifications := usecase.NewNotificationService(repos.notifications, ids, logger)
	matches := usecase.NewMatchService(repos.athletes, repos.campaigns, repos.matches, notifications, usecase.MatchConfig{
		Weights:         weights,
		NotifyThreshold: cfg.MatchNotifyThreshold,
		Workers:         cfg.MatchWorkers,
	}, logger)
	dispatcher.SetMatcher(matches)

	verifier := gotrue.NewClient(&http.Client{Timeout: cfg.AuthTimeout}, gotrue.Config{
		BaseURL:         cfg.AuthBaseURL,
		UserPath:        cfg.AuthUserPath,
		APIKey:          cfg.AuthAPIKey,
		CacheTTL:        cfg.AuthCacheTTL,
		CacheMaxEntries: authCacheMaxEntries,
		CircuitBreaker:  circuitConfig(cfg.AuthCircuit),
	}, logger.Named("gotrue"))
	identity := usecase.NewIdentityService(verifier, repos.users, cache.NewStore(userSyncCacheTTL), logger)

	handler := httpapi.NewHandler(
		identity,
		usecase.NewAthleteService(repos.athletes, repos.saved, dispatcher, ids, logger),
		usecase.NewCampaignService(repos.campaigns, dispatcher, ids, logger),
		matches,
		usecase.NewDealService(repos.deals, repos.athletes, repos.invites, notifications, ids),
		usecase.NewDealAnalysisService(extractor, cfg.GenAITimeout, logger),
		usecase.NewRosterService(repos.imports, repos.athletes, repos.users, ids),
		usecase.NewInviteService(repos.invites, repos.athletes, notifications, dispatcher, usecase.InviteConfig{
			TTL:       cfg.InviteTTL,
			PublicURL: cfg.PublicURL,
		}, ids, logger),
		usecase.NewParentDashboardService(repos.invites, repos.athletes, repos.deals, repos.notifications),
		notifications,
		usecase.NewMessagingService(repos.messaging, repos.users, repos.campaigns, notifications, ids),
		dispatcher,
		cfg.SSEPollInterval,
		logger,
	)
	router := httpapi.NewRouter(handler, identity, logger, httpapi.RouterOptions{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	a.Server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return a, nil
}

// Shutdown drains HTTP connections, waits for inline jobs, and closes the DB.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		a.dispatcher.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		a.logger.Warn("inline jobs still running at shutdown")
	}

	a.closeDB()
	return err
}

func (a *App) closeDB() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("close database", "error", err)
	}
}

func newJobQueue(cfg config.Config, logger *logging.Logger) (usecase.JobQueue, error) {
	if !cfg.QStashEnabled {
		return nil, nil
	}
	publisher, err := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker:   circuitConfig(cfg.QStashCircuit),
	}, logger.Named("qstash"))
	if err != nil {
		return nil, fmt.Errorf("init qstash publisher: %w", err)
	}
	return publisher, nil
}

func circuitConfig(c config.CircuitConfig) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          c.Enabled,
		FailureThreshold: c.FailureThreshold,
		OpenTimeout:      c.OpenTimeout,
		HalfOpenMaxReq:   c.HalfOpenMaxReq,
	}
}
