package tracing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Exporter posts run records to a LangSmith-style REST endpoint. Export
// failures are logged at debug level and otherwise ignored.
type Exporter struct {
	endpoint string
	apiKey   string
	project  string
	client   *http.Client
	log      *log.Logger
}

// Config configures the run exporter. The API key is read from the
// environment variable named by APIKeyEnv; an empty key disables exporting
// silently (runs still get IDs, nothing is sent).
type Config struct {
	Endpoint  string
	APIKeyEnv string
	Project   string
	Timeout   time.Duration
}

func NewExporter(cfg Config, logger *log.Logger) *Exporter {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Exporter{
		endpoint: cfg.Endpoint,
		apiKey:   os.Getenv(cfg.APIKeyEnv),
		project:  cfg.Project,
		client:   &http.Client{Timeout: timeout},
		log:      logger,
	}
}

func (e *Exporter) StartRun(name, input string) *Run {
	return &Run{
		ID:       uuid.NewString(),
		Name:     name,
		Input:    input,
		StartsAt: time.Now().UTC(),
	}
}

func (e *Exporter) EndRun(run *Run, output string, runErr error) {
	if e.apiKey == "" {
		return
	}
	record := map[string]any{
		"id":           run.ID,
		"name":         run.Name,
		"run_type":     "chain",
		"session_name": e.project,
		"inputs":       map[string]string{"question": run.Input},
		"start_time":   run.StartsAt.Format(time.RFC3339Nano),
		"end_time":     time.Now().UTC().Format(time.RFC3339Nano),
	}
	if runErr != nil {
		record["error"] = runErr.Error()
	} else {
		record["outputs"] = map[string]string{"answer": output}
	}
	data, _ := json.Marshal(record)
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/runs", e.endpoint), bytes.NewReader(data))
	if err != nil {
		e.log.Debug("tracing: build request failed", "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.apiKey)
	resp, err := e.client.Do(req)
	if err != nil {
		e.log.Debug("tracing: export failed", "err", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		e.log.Debug("tracing: export rejected", "status", resp.Status)
	}
}
