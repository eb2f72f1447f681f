// Package opensearch persists lifecycle events to OpenSearch (or
// Elasticsearch) over its HTTP document API.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Itexoft/procvd/internal/model"
)

// Sink sends events to OpenSearch via HTTP.
// It constructs URL as: baseURL + "/" + index + "/_doc" and POSTs JSON body.
type Sink struct {
	client  *http.Client
	baseURL string
	index   string
}

func New(baseURL, index string) *Sink {
	c := &http.Client{Timeout: 5 * time.Second}
	return &Sink{client: c, baseURL: strings.TrimRight(baseURL, "/"), index: index}
}

// document is the JSON shape indexed for each event; it flattens
// model.OutputEvent's key and exit code for easier querying/dashboards.
type document struct {
	Group     string    `json:"group"`
	Process   string    `json:"process"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	ExitCode  *int      `json:"exit_code,omitempty"`
	Message   string    `json:"message,omitempty"`
}

func (s *Sink) Send(ctx context.Context, e model.OutputEvent) error {
	u := fmt.Sprintf("%s/%s/_doc", s.baseURL, s.index)
	doc := document{
		Group:     e.Key.Group,
		Process:   e.Key.Process,
		Kind:      e.Kind.String(),
		Timestamp: e.Timestamp.UTC(),
		ExitCode:  e.ExitCode,
		Message:   e.Message,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("opensearch sink status %d", resp.StatusCode)
	}
	return nil
}

// Close releases the underlying HTTP client's idle connections.
func (s *Sink) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
