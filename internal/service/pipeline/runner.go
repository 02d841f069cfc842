package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/signal"
	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
	"github.com/PhilipWesterink92/trendwatcher/internal/service/extract"
	"github.com/PhilipWesterink92/trendwatcher/internal/service/ingest"
	"github.com/PhilipWesterink92/trendwatcher/internal/service/score"
)

// Reporter delivers a scored batch to one outbound channel.
type Reporter interface {
	Deliver(ctx context.Context, trends []trend.Trend, generatedAt time.Time) error
}

// RunnerConfig contains configuration for the pipeline runner.
type RunnerConfig struct {
	Interval      time.Duration
	EventsSubject string
	AnalysisTopN  int
}

// RecordStore is the raw signal log the runner reads and appends.
type RecordStore interface {
	Append(ctx context.Context, records []signal.Record) error
	Load(ctx context.Context) ([]signal.Record, error)
}

// TrendWriter persists the current scored batch.
type TrendWriter interface {
	Write(ctx context.Context, trends []trend.Trend) error
}

// Runner drives the full weekly cycle: fetch, extract, score, persist,
// publish, report.
type Runner struct {
	fetchers  []ingest.Fetcher
	records   RecordStore
	engine    *extract.Engine
	scorer    *score.TrendScorer
	trends    TrendWriter
	history   trend.HistoryStore
	analyzer  trend.Analyzer // nil disables analysis
	matcher   trend.Matcher  // nil disables catalog matching
	reporters []Reporter
	eventBus  *nats.Conn // nil disables events
	config    RunnerConfig
	log       zerolog.Logger

	handlers []func(trend.Trend) error
	mu       sync.RWMutex
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	// Now is replaceable for tests.
	Now func() time.Time
}

// NewRunner creates a pipeline runner.
func NewRunner(
	fetchers []ingest.Fetcher,
	records RecordStore,
	engine *extract.Engine,
	scorer *score.TrendScorer,
	trends TrendWriter,
	history trend.HistoryStore,
	analyzer trend.Analyzer,
	reporters []Reporter,
	eventBus *nats.Conn,
	config RunnerConfig,
	log zerolog.Logger,
) *Runner {
	if config.Interval <= 0 {
		config.Interval = 24 * time.Hour
	}
	if config.EventsSubject == "" {
		config.EventsSubject = "trend.detected"
	}
	if config.AnalysisTopN <= 0 {
		config.AnalysisTopN = 10
	}
	return &Runner{
		fetchers:  fetchers,
		records:   records,
		engine:    engine,
		scorer:    scorer,
		trends:    trends,
		history:   history,
		analyzer:  analyzer,
		reporters: reporters,
		eventBus:  eventBus,
		config:    config,
		log:       log,
		Now:       time.Now,
	}
}

// SetMatcher attaches a catalog matcher consulted for the top trends of
// each run. Concrete matchers live outside this module.
func (r *Runner) SetMatcher(m trend.Matcher) {
	r.matcher = m
}

// RegisterTrendHandler registers a callback invoked for each scored trend
// after a run completes.
func (r *Runner) RegisterTrendHandler(handler func(trend.Trend) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, handler)
}

// Start begins the periodic run loop. The first run fires immediately.
func (r *Runner) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		if _, err := r.RunOnce(runCtx); err != nil {
			r.log.Error().Err(err).Msg("pipeline run failed")
		}

		ticker := time.NewTicker(r.config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if _, err := r.RunOnce(runCtx); err != nil {
					r.log.Error().Err(err).Msg("pipeline run failed")
				}
			}
		}
	}()

	return nil
}

// Stop cancels the run loop and waits for the in-flight run, bounded by
// the context deadline.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("pipeline shutdown timed out: %w", ctx.Err())
	}
}

// RunOnce executes one full cycle and returns the scored trends.
func (r *Runner) RunOnce(ctx context.Context) ([]trend.Trend, error) {
	runID := uuid.New().String()
	now := r.Now().UTC()
	log := r.log.With().Str("run_id", runID).Logger()
	log.Info().Msg("pipeline run starting")

	if err := r.fetch(ctx, log); err != nil {
		return nil, err
	}

	records, err := r.records.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading raw records: %w", err)
	}
	log.Info().Int("records", len(records)).Msg("raw records loaded")

	clusters := r.engine.Cluster(records)
	trends := r.engine.Export(clusters)
	log.Info().Int("clusters", len(clusters)).Int("exported", len(trends)).Msg("extraction complete")

	histories, err := r.history.LoadAllHistories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading histories: %w", err)
	}

	trends = r.scorer.ScoreBatch(trends, histories)

	r.analyze(ctx, trends, log)
	r.match(ctx, trends, log)

	if err := r.trends.Write(ctx, trends); err != nil {
		return nil, fmt.Errorf("writing trends: %w", err)
	}

	week := trend.WeekID(now)
	if err := r.history.Snapshot(ctx, week, trends); err != nil {
		return nil, fmt.Errorf("snapshotting week %s: %w", week, err)
	}

	for _, t := range trends {
		if err := r.publishTrendEvent(runID, t); err != nil {
			log.Warn().Err(err).Str("trend", t.Label).Msg("event publish failed")
		}
		r.callTrendHandlers(t)
	}

	r.report(ctx, trends, now, log)

	log.Info().Str("week", week).Int("trends", len(trends)).Msg("pipeline run complete")
	return trends, nil
}

// fetch collects from all sources and appends to the raw log. A failing
// fetcher is logged and skipped.
func (r *Runner) fetch(ctx context.Context, log zerolog.Logger) error {
	for _, f := range r.fetchers {
		records, err := f.Fetch(ctx)
		if err != nil {
			log.Warn().Err(err).Str("fetcher", f.Name()).Msg("fetch failed")
			continue
		}
		if len(records) == 0 {
			continue
		}
		if err := r.records.Append(ctx, records); err != nil {
			return fmt.Errorf("appending %s records: %w", f.Name(), err)
		}
		log.Info().Str("fetcher", f.Name()).Int("records", len(records)).Msg("records ingested")
	}
	return nil
}

// analyze consults the oracle for the top trends. A per-trend failure is
// recorded on the trend, never propagated.
func (r *Runner) analyze(ctx context.Context, trends []trend.Trend, log zerolog.Logger) {
	if r.analyzer == nil {
		return
	}

	limit := r.config.AnalysisTopN
	if limit > len(trends) {
		limit = len(trends)
	}

	for i := 0; i < limit; i++ {
		analysis, err := r.analyzer.AnalyzeTrend(ctx, trends[i])
		if err != nil {
			log.Warn().Err(err).Str("trend", trends[i].Label).Msg("analysis failed")
			trends[i].Analysis = &trend.Analysis{Error: err.Error()}
			continue
		}
		trends[i].Analysis = analysis
	}
}

// match links the top trends to catalog products. Same failure contract
// as analyze: record the error on the trend and move on.
func (r *Runner) match(ctx context.Context, trends []trend.Trend, log zerolog.Logger) {
	if r.matcher == nil {
		return
	}

	limit := r.config.AnalysisTopN
	if limit > len(trends) {
		limit = len(trends)
	}

	for i := 0; i < limit; i++ {
		matches, err := r.matcher.MatchTrend(ctx, trends[i])
		if err != nil {
			log.Warn().Err(err).Str("trend", trends[i].Label).Msg("catalog matching failed")
			trends[i].MatchingError = err.Error()
			continue
		}
		trends[i].ProductMatches = matches
	}
}

func (r *Runner) report(ctx context.Context, trends []trend.Trend, generatedAt time.Time, log zerolog.Logger) {
	for _, rep := range r.reporters {
		if err := rep.Deliver(ctx, trends, generatedAt); err != nil {
			log.Warn().Err(err).Msg("report delivery failed")
		}
	}
}

type trendEvent struct {
	RunID string      `json:"run_id"`
	Trend trend.Trend `json:"trend"`
}

// publishTrendEvent publishes a trend detected event.
func (r *Runner) publishTrendEvent(runID string, t trend.Trend) error {
	if r.eventBus == nil {
		return nil
	}
	data, err := json.Marshal(trendEvent{RunID: runID, Trend: t})
	if err != nil {
		return fmt.Errorf("encoding trend event: %w", err)
	}
	return r.eventBus.Publish(r.config.EventsSubject, data)
}

// callTrendHandlers calls all registered trend handlers.
func (r *Runner) callTrendHandlers(t trend.Trend) {
	r.mu.RLock()
	handlers := make([]func(trend.Trend) error, len(r.handlers))
	copy(handlers, r.handlers)
	r.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(t); err != nil {
			r.log.Warn().Err(err).Str("trend", t.Label).Msg("trend handler failed")
		}
	}
}
