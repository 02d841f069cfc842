// cmd/trendwatcher/main.go

package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/adapter/storage"
	"github.com/PhilipWesterink92/trendwatcher/internal/config"
	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
	"github.com/PhilipWesterink92/trendwatcher/internal/logging"
	"github.com/PhilipWesterink92/trendwatcher/internal/report"
	"github.com/PhilipWesterink92/trendwatcher/internal/server"
	"github.com/PhilipWesterink92/trendwatcher/internal/service/analyze"
	"github.com/PhilipWesterink92/trendwatcher/internal/service/extract"
	"github.com/PhilipWesterink92/trendwatcher/internal/service/ingest"
	"github.com/PhilipWesterink92/trendwatcher/internal/service/pipeline"
	"github.com/PhilipWesterink92/trendwatcher/internal/service/score"
)

func main() {
	once := flag.Bool("once", false, "run one pipeline cycle and exit")
	flag.Parse()

	// Load .env in development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New("development", "info")
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logging.New(cfg.Environment, os.Getenv("LOG_LEVEL"))

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Storage adapters
	recordLog, err := storage.NewRecordLog(cfg.Data.RawRecordsPath(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open record log")
	}

	trendsFile, err := storage.NewTrendsFile(cfg.Data.TrendsPath())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open trends file")
	}

	historyStore, db, err := initHistoryStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize history store")
	}
	if db != nil {
		defer db.Close()
	}

	// NATS is optional; without it events and the websocket are disabled.
	var natsConn *nats.Conn
	if cfg.NATS.URL != "" {
		natsConn, err = initNATS(cfg.NATS, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to NATS")
		}
		defer natsConn.Close()
	}

	// Ingest sources
	fetchers := buildFetchers(cfg, log)

	// Core services
	engine := extract.NewEngine(extract.EngineConfig{
		Threshold: cfg.Trends.ClusterThreshold,
		TopN:      cfg.Trends.TopN,
	}, log)
	scorer := score.NewTrendScorer(log)

	var analyzer trend.Analyzer
	if cfg.Analysis.Enabled {
		analyzer = analyze.NewAnthropicAnalyzer(analyze.Config{
			APIKey:    cfg.Analysis.APIKey,
			Model:     cfg.Analysis.Model,
			MaxTokens: cfg.Analysis.MaxTokens,
		}, log)
	}

	reporters := buildReporters(cfg, log)

	runner := pipeline.NewRunner(
		fetchers,
		recordLog,
		engine,
		scorer,
		trendsFile,
		historyStore,
		analyzer,
		reporters,
		natsConn,
		pipeline.RunnerConfig{
			Interval:      cfg.Pipeline.Interval,
			EventsSubject: cfg.NATS.EventsSubject,
			AnalysisTopN:  cfg.Analysis.TopN,
		},
		log,
	)

	if *once {
		trends, err := runner.RunOnce(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("pipeline run failed")
		}
		log.Info().Int("trends", len(trends)).Msg("run complete")
		return
	}

	if err := runner.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start pipeline")
	}

	httpServer := server.NewServer(
		cfg.Server,
		trendsFile,
		historyStore,
		runner,
		natsConn,
		cfg.NATS.EventsSubject,
		log,
	)

	go func() {
		log.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Info().Msg("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if err := runner.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("pipeline shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initHistoryStore picks the configured history backend. The pgx pool is
// returned so main can close it on exit.
func initHistoryStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (trend.HistoryStore, *pgxpool.Pool, error) {
	if cfg.Data.HistoryBackend == "postgres" {
		db, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		store, err := storage.NewPostgresHistoryStore(ctx, db, log)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db, nil
	}

	store, err := storage.NewJSONLHistoryStore(cfg.Data.HistoryDir(), log)
	if err != nil {
		return nil, nil, err
	}
	return store, nil, nil
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, log zerolog.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info().Msg("NATS connection closed")
		}),
	}

	return nats.Connect(cfg.URL, options...)
}

// buildFetchers assembles the enabled ingest sources.
func buildFetchers(cfg config.Config, log zerolog.Logger) []ingest.Fetcher {
	fetchers := []ingest.Fetcher{
		ingest.NewGoogleTrendsFetcher(ingest.GoogleTrendsConfig{
			Countries: cfg.Trends.GoogleTrendsCountries,
		}, log),
	}

	if cfg.Reddit.Enabled {
		fetchers = append(fetchers, ingest.NewRedditFetcher(ingest.RedditConfig{
			Subreddits: cfg.Reddit.Subreddits,
			Country:    cfg.Reddit.Country,
			Limit:      cfg.Reddit.Limit,
			TimeFilter: cfg.Reddit.TimeFilter,
			UserAgent:  cfg.Reddit.UserAgent,
		}, log))
	}

	if cfg.Blogs.Enabled && len(cfg.Blogs.Feeds) > 0 {
		fetchers = append(fetchers, ingest.NewBlogFetcher(ingest.BlogConfig{
			Feeds:        parseFeeds(cfg.Blogs.Feeds),
			Country:      cfg.Blogs.Country,
			MaxAge:       cfg.Blogs.MaxAge,
			DefaultScore: cfg.Blogs.DefaultScore,
		}, log))
	}

	return fetchers
}

// parseFeeds splits name=url pairs from config.
func parseFeeds(pairs []string) []ingest.Feed {
	feeds := make([]ingest.Feed, 0, len(pairs))
	for _, pair := range pairs {
		name, url := pair, pair
		for i := 0; i < len(pair); i++ {
			if pair[i] == '=' {
				name, url = pair[:i], pair[i+1:]
				break
			}
		}
		feeds = append(feeds, ingest.Feed{Name: name, URL: url})
	}
	return feeds
}

// buildReporters assembles the configured outbound channels. The markdown
// file report is always written.
func buildReporters(cfg config.Config, log zerolog.Logger) []pipeline.Reporter {
	reporters := []pipeline.Reporter{
		report.NewFileReporter(cfg.Data.Dir+"/processed/report.md", log),
	}

	slack := report.NewSlackReporter(cfg.Slack.WebhookURL, log)
	if slack.Enabled() {
		reporters = append(reporters, slack)
	}

	email := report.NewEmailReporter(report.EmailConfig{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		To:       cfg.Email.To,
	}, log)
	if email.Enabled() {
		reporters = append(reporters, email)
	}

	return reporters
}
