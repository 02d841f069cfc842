// internal/server/handlers/run.go

package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// RunTrigger starts one pipeline cycle on demand.
type RunTrigger interface {
	RunOnce(ctx context.Context) ([]trend.Trend, error)
}

// RunHandler handles pipeline run requests
type RunHandler struct {
	runner RunTrigger
	log    zerolog.Logger
}

// NewRunHandler creates a new run handler
func NewRunHandler(runner RunTrigger, log zerolog.Logger) *RunHandler {
	return &RunHandler{runner: runner, log: log}
}

// TriggerRun starts a pipeline run in the background and returns 202.
// Runs can take minutes when remote sources are slow, so the request
// never waits for completion.
func (h *RunHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	go func() {
		// Detach from the request context so the run survives the response.
		trends, err := h.runner.RunOnce(context.Background())
		if err != nil {
			h.log.Error().Err(err).Msg("triggered run failed")
			return
		}
		h.log.Info().Int("trends", len(trends)).Msg("triggered run complete")
	}()

	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "run started"})
}
