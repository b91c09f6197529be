package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eneagramas-site/internal/app"
	"eneagramas-site/internal/config"
	"eneagramas-site/internal/dataset"
	"eneagramas-site/internal/infra/memory"
	pgloader "eneagramas-site/internal/infra/postgres"
	redisinfra "eneagramas-site/internal/infra/redis"
	transport "eneagramas-site/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the site server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), st)
		},
	}
}

// backend is the storage wiring chosen from config.
type backend struct {
	datasets app.DatasetRepository
	sessions app.SessionRepository
	notifier app.ContactNotifier
	close    func()
}

func newRedisClient(cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func datasetTTL(cfg config.Config) time.Duration {
	return config.TTLDuration(cfg.Dataset.TTL, 10*time.Minute)
}

// newDatasetLoader reads from Postgres when configured, else from the YAML
// file or the embedded default.
func newDatasetLoader(ctx context.Context, cfg config.Config) (memory.DatasetLoader, func(), error) {
	if cfg.Postgres.URL == "" {
		return dataset.NewFileLoader(cfg.Dataset.Path), func() {}, nil
	}
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, nil, err
	}
	return pgloader.NewDatasetLoader(pool), pool.Close, nil
}

func newBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (backend, error) {
	loader, closeLoader, err := newDatasetLoader(ctx, cfg)
	if err != nil {
		return backend{}, err
	}

	client := newRedisClient(cfg)
	if client == nil {
		logger.Info("using in-memory dataset cache and sessions")
		return backend{
			datasets: memory.NewDatasetRepository(loader, datasetTTL(cfg)),
			sessions: memory.NewSessionStore(),
			notifier: app.NewLogNotifier(logger),
			close:    closeLoader,
		}, nil
	}

	logger.Info("using redis", zap.String("addr", cfg.Redis.Addr))
	return backend{
		datasets: redisinfra.NewDatasetRepository(client, loader, datasetTTL(cfg)),
		sessions: redisinfra.NewSessionStore(client, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)),
		notifier: redisinfra.NewContactPublisher(client, cfg.Redis.ContactChannel),
		close: func() {
			_ = client.Close()
			closeLoader()
		},
	}, nil
}

func runServer(ctx context.Context, st *rootState) error {
	cfg, logger := st.cfg, st.logger

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := st.port
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	be, err := newBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer be.close()

	// Fail fast on a broken dataset instead of on the first request.
	if _, err := be.datasets.GetDataset(ctx, cfg.Dataset.ID); err != nil {
		return err
	}

	quiz := app.NewQuizService(be.sessions, be.datasets, app.QuizConfig{
		DatasetID: cfg.Dataset.ID,
		TopK:      cfg.Scoring.TopK,
		Notifier:  be.notifier,
		Logger:    logger,
	})
	catalog := app.NewCatalogService(be.datasets, cfg.Dataset.ID, be.notifier, logger)

	handler := transport.NewHandler(transport.Deps{
		Quiz:                quiz,
		Catalog:             catalog,
		Logger:              logger,
		NewsletterRate:      cfg.Site.NewsletterRate,
		NewsletterBurst:     cfg.Site.NewsletterBurst,
		TestimonialInterval: config.TTLDuration(cfg.Site.TestimonialInterval, 5*time.Second),
	})

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     handler,
		ReadTimeout: config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		// Zero write timeout keeps websocket and SSE streams open.
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 0),
	}

	go func() {
		logger.Info("starting site", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
