package opensearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Itexoft/procvd/internal/model"
)

func TestSink_Send(t *testing.T) {
	var receivedBody []byte
	var receivedURL string
	var receivedMethod string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedMethod = r.Method
		receivedURL = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		receivedBody = body

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"test","_index":"test-index","result":"created"}`))
	}))
	defer server.Close()

	sink := New(server.URL, "test-index")

	code := 0
	event := model.OutputEvent{
		Key:       model.ProcessKey{Group: "core", Process: "api"},
		Kind:      model.EventExited,
		Timestamp: time.Now(),
		ExitCode:  &code,
	}

	if err := sink.Send(context.Background(), event); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if receivedMethod != "POST" {
		t.Errorf("Expected POST method, got: %s", receivedMethod)
	}

	expectedPath := "/test-index/_doc"
	if receivedURL != expectedPath {
		t.Errorf("Expected URL path %s, got: %s", expectedPath, receivedURL)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(receivedBody, &doc); err != nil {
		t.Fatalf("Failed to parse received JSON: %v", err)
	}

	if doc["group"] != "core" {
		t.Errorf("Expected group core, got: %v", doc["group"])
	}
	if doc["process"] != "api" {
		t.Errorf("Expected process api, got: %v", doc["process"])
	}
	if doc["kind"] != model.EventExited.String() {
		t.Errorf("Expected kind %s, got: %v", model.EventExited.String(), doc["kind"])
	}
}

func TestSink_SendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad request"}`))
	}))
	defer server.Close()

	sink := New(server.URL, "test-index")

	event := model.OutputEvent{
		Key:       model.ProcessKey{Group: "core", Process: "api"},
		Kind:      model.EventStarting,
		Timestamp: time.Now(),
	}

	err := sink.Send(context.Background(), event)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	if !strings.Contains(err.Error(), "opensearch sink status 400") {
		t.Errorf("Expected status error message, got: %v", err)
	}
}

func TestSink_URLConstruction(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		index   string
	}{
		{name: "Basic URL", baseURL: "http://localhost:9200", index: "logs"},
		{name: "URL with trailing slash", baseURL: "http://localhost:9200/", index: "events"},
		{name: "HTTPS URL", baseURL: "https://opensearch.example.com", index: "process-history"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var receivedURL string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				receivedURL = r.URL.String()
				w.WriteHeader(http.StatusCreated)
			}))
			defer server.Close()

			sink := New(tt.baseURL, tt.index)
			expectedPath := "/" + tt.index + "/_doc"
			sink.baseURL = server.URL

			event := model.OutputEvent{
				Key:       model.ProcessKey{Group: "core", Process: "api"},
				Kind:      model.EventStarting,
				Timestamp: time.Now(),
			}

			_ = sink.Send(context.Background(), event)

			if receivedURL != expectedPath {
				t.Errorf("Expected URL path %s, got: %s", expectedPath, receivedURL)
			}
		})
	}
}
