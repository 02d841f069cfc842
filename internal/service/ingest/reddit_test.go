package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/signal"
)

func TestRedditFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "trendwatcher/1.0" {
			t.Errorf("user agent = %q", ua)
		}
		if !strings.HasPrefix(r.URL.Path, "/r/food/") {
			t.Errorf("path = %q, want /r/food/top.json", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"children":[` +
			`{"data":{"title":"I made gochujang ramen","score":512,"permalink":"/r/food/1","id":"abc","num_comments":40}},` +
			`{"data":{"title":"","score":100,"id":"def"}},` +
			`{"data":{"title":"nsfw thing","score":900,"id":"ghi","over_18":true}}]}}`))
	}))
	defer srv.Close()

	f := NewRedditFetcher(RedditConfig{Subreddits: []string{"food"}}, zerolog.Nop())
	f.baseURL = srv.URL

	records, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (empty title and nsfw skipped)", len(records))
	}

	r := records[0]
	if r.Type != signal.TypeRedditTrending || r.Query != "I made gochujang ramen" || r.Seed != "r/food" {
		t.Errorf("unexpected record: %+v", r)
	}
	if v, ok := r.Score.Value(); !ok || v != 512 {
		t.Errorf("score = %v (ok=%v), want 512", v, ok)
	}
}

func TestRedditFailingSubredditSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "broken") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"data":{"children":[{"data":{"title":"burrata toast","score":50,"id":"x"}}]}}`))
	}))
	defer srv.Close()

	f := NewRedditFetcher(RedditConfig{Subreddits: []string{"broken", "food"}}, zerolog.Nop())
	f.baseURL = srv.URL

	records, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 1 || records[0].Query != "burrata toast" {
		t.Errorf("got %+v, want single burrata toast record", records)
	}
}
