package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/enixame/spring-challenge-2025/internal/config"
	"github.com/enixame/spring-challenge-2025/internal/solver"
)

func newTestApp() *application {
	cfg := config.Default()
	return &application{
		log:   zap.NewNop().Sugar(),
		store: config.NewStore(cfg),
		memo:  solver.NewMemoTable(1<<12, cfg.MemoBuckets),
		hub:   NewHub(cfg.WsSendBuffer),
	}
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestPing(t *testing.T) {
	app := newTestApp()
	recorder := doJSON(t, app.router(), http.MethodGet, "/api/ping", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestSolveEndpoint(t *testing.T) {
	app := newTestApp()
	router := app.router()

	recorder := doJSON(t, router, http.MethodPost, "/api/solve", solveRequest{
		Depth: 5,
		Board: [][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}},
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var response solveResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Checksum != 50441886 {
		t.Fatalf("checksum mismatch: got %d", response.Checksum)
	}
	if response.JobID == "" {
		t.Fatalf("expected a job id")
	}
	if response.Stats.Nodes == 0 {
		t.Fatalf("expected non-zero node count")
	}
}

func TestSolveEndpointRejectsBadInput(t *testing.T) {
	app := newTestApp()
	router := app.router()

	cases := []struct {
		name string
		body any
	}{
		{"negative depth", solveRequest{Depth: -1, Board: [][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}}},
		{"depth above maximum", solveRequest{Depth: 1000, Board: [][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}}},
		{"short row", solveRequest{Depth: 1, Board: [][]int{{0, 0}, {0, 0, 0}, {0, 0, 0}}}},
		{"out of domain", solveRequest{Depth: 1, Board: [][]int{{0, 0, 9}, {0, 0, 0}, {0, 0, 0}}}},
		{"missing board", solveRequest{Depth: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := doJSON(t, router, http.MethodPost, "/api/solve", tc.body)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", recorder.Code, recorder.Body.String())
			}
		})
	}
}

func TestCacheStatusAndClear(t *testing.T) {
	app := newTestApp()
	router := app.router()

	doJSON(t, router, http.MethodPost, "/api/solve", solveRequest{
		Depth: 5,
		Board: [][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}},
	})

	recorder := doJSON(t, router, http.MethodGet, "/api/cache/memo", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var status memoCacheStatusResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Count == 0 {
		t.Fatalf("expected cached entries after a solve")
	}
	if status.Capacity == 0 || status.EntryBytes == 0 {
		t.Fatalf("unexpected status: %+v", status)
	}

	recorder = doJSON(t, router, http.MethodDelete, "/api/cache/memo", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if app.memo.Count() != 0 {
		t.Fatalf("expected empty table after clear")
	}
}

func TestCacheEntriesEndpoint(t *testing.T) {
	app := newTestApp()
	router := app.router()

	doJSON(t, router, http.MethodPost, "/api/solve", solveRequest{
		Depth: 4,
		Board: [][]int{{0, 0, 0}, {0, 2, 0}, {0, 0, 0}},
	})
	// A second identical solve produces cache hits on every stored key.
	doJSON(t, router, http.MethodPost, "/api/solve", solveRequest{
		Depth: 4,
		Board: [][]int{{0, 0, 0}, {0, 2, 0}, {0, 0, 0}},
	})

	recorder := doJSON(t, router, http.MethodGet, "/api/cache/memo/entries?limit=5", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var entries memoCacheEntriesResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if entries.Total == 0 || len(entries.Items) == 0 {
		t.Fatalf("expected cached entries, got %+v", entries)
	}
	if entries.Items[0].Hits == 0 {
		t.Fatalf("expected top entry to have hits after repeated solve")
	}
}
