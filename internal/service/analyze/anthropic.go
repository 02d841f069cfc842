package analyze

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// Config configures the Anthropic-backed analyzer.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	BaseURL   string
}

// AnthropicAnalyzer asks a language model for a qualitative read on a
// trend: product fit, Dutch market potential, and a one-line verdict.
type AnthropicAnalyzer struct {
	httpClient *http.Client
	cfg        Config
	log        zerolog.Logger
}

// NewAnthropicAnalyzer creates the analyzer with sane defaults.
func NewAnthropicAnalyzer(cfg Config, log zerolog.Logger) *AnthropicAnalyzer {
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-20250514"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	return &AnthropicAnalyzer{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		cfg:        cfg,
		log:        log,
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

const promptTemplate = `You are a food industry analyst for a European online grocery retailer
serving the Netherlands, Germany, and France.

Assess this emerging food trend:

Trend: %s
Score: %.2f (recency, market breadth, velocity, specificity, source diversity)
Countries seen: %s
First seen: %s
Example queries: %s

Respond with a JSON object and nothing else:
{
  "product_fit": "strong, moderate, or weak",
  "product_fit_reasoning": "one sentence on how this translates into grocery products",
  "market_readiness": "ready, emerging, or premature for NL/DE/FR shelves",
  "adoption_timeline": "estimated weeks until mainstream demand",
  "sentiment": "positive, mixed, or negative consumer sentiment",
  "recommended_actions": ["up to three concrete next steps"],
  "risks": ["up to three reasons this trend could fizzle"]
}`

// AnalyzeTrend implements trend.Analyzer.
func (a *AnthropicAnalyzer) AnalyzeTrend(ctx context.Context, t trend.Trend) (*trend.Analysis, error) {
	if a.cfg.APIKey == "" {
		return nil, fmt.Errorf("analyzer has no api key configured")
	}

	countries := strings.Join(t.Countries, ", ")
	firstSeen := ""
	for _, ts := range t.FirstSeen {
		if firstSeen == "" || ts < firstSeen {
			firstSeen = ts
		}
	}
	examples := strings.Join(t.Examples, "; ")

	prompt := fmt.Sprintf(promptTemplate, t.Label, t.Score, countries, firstSeen, examples)

	text, err := a.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	analysis, err := parseAnalysis(text)
	if err != nil {
		return nil, fmt.Errorf("parsing analysis for %q: %w", t.Label, err)
	}
	return analysis, nil
}

func (a *AnthropicAnalyzer) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := messagesRequest{
		Model:     a.cfg.Model,
		MaxTokens: a.cfg.MaxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling messages endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("messages endpoint: %s: %s", parsed.Error.Type, parsed.Error.Message)
		}
		return "", fmt.Errorf("messages endpoint returned status %d", resp.StatusCode)
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("messages endpoint returned no text content")
	}
	return sb.String(), nil
}

// parseAnalysis extracts the JSON object from a model reply. Models
// sometimes wrap the object in prose or code fences.
func parseAnalysis(text string) (*trend.Analysis, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var analysis trend.Analysis
	if err := json.Unmarshal([]byte(text[start:end+1]), &analysis); err != nil {
		return nil, fmt.Errorf("decoding analysis object: %w", err)
	}
	return &analysis, nil
}
