package report

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// SlackReporter posts a weekly digest to a Slack incoming webhook.
type SlackReporter struct {
	httpClient *http.Client
	webhookURL string
	maxTrends  int
	log        zerolog.Logger
}

// NewSlackReporter creates the reporter. An empty webhook URL disables it.
func NewSlackReporter(webhookURL string, log zerolog.Logger) *SlackReporter {
	return &SlackReporter{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
		maxTrends:  10,
		log:        log,
	}
}

// Enabled reports whether a webhook is configured.
func (r *SlackReporter) Enabled() bool { return r.webhookURL != "" }

// Deliver implements the pipeline reporter contract.
func (r *SlackReporter) Deliver(ctx context.Context, trends []trend.Trend, generatedAt time.Time) error {
	return r.Send(ctx, trends, generatedAt)
}

type slackMessage struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Send posts the top actionable trends. Trends below the watchlist
// threshold are excluded from the digest.
func (r *SlackReporter) Send(ctx context.Context, trends []trend.Trend, generatedAt time.Time) error {
	if !r.Enabled() {
		return nil
	}

	msg := buildSlackMessage(trends, generatedAt, r.maxTrends)

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}

	r.log.Info().Int("trends", len(trends)).Msg("slack digest sent")
	return nil
}

func buildSlackMessage(trends []trend.Trend, generatedAt time.Time, maxTrends int) slackMessage {
	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: fmt.Sprintf("Food Trend Report, week %s", trend.WeekID(generatedAt))},
		},
	}

	count := 0
	for _, t := range trends {
		tier := Tier(t.Score)
		if tier == "ignore" {
			continue
		}
		if count >= maxTrends {
			break
		}
		count++

		emoji := map[string]string{"act_now": "🔥", "near_term": "📈", "watchlist": "👀"}[tier]
		line := fmt.Sprintf("%s *%s* (%.1f)\nMarkets: %s | Sources: %d | Mentions: %d",
			emoji, t.Label, t.Score, strings.Join(t.Countries, ", "), t.SeedCount, t.RawCount)
		if t.LeadLag.HasLead && !t.LeadLag.HasTarget {
			line += "\n_Ahead of NL/DE/FR markets_"
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: line},
		})
	}

	if count == 0 {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "No actionable trends this week."},
		})
	}

	return slackMessage{Blocks: blocks}
}
