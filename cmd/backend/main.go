package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	"unsafe"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enixame/spring-challenge-2025/internal/board"
	"github.com/enixame/spring-challenge-2025/internal/config"
	"github.com/enixame/spring-challenge-2025/internal/solver"
)

type application struct {
	log   *zap.SugaredLogger
	store *config.Store
	memo  *solver.MemoTable
	hub   *Hub
}

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load(os.Getenv("SOLVER_CONFIG"))
	if err != nil {
		logger.Fatalw("failed to load configuration", "error", err)
	}

	app := &application{
		log:   logger,
		store: config.NewStore(cfg),
		memo:  solver.NewMemoTable(uint64(cfg.MemoSize), cfg.MemoBuckets),
		hub:   NewHub(cfg.WsSendBuffer),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go app.hub.Run(ctx.Done())

	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: app.router(),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	logger.Infow("backend listening", "addr", cfg.ServerAddr)
	var runErr error
	select {
	case <-sigCtx.Done():
		logger.Infow("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			logger.Errorw("server error", "error", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("graceful shutdown failed", "error", err)
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			logger.Errorw("forced close failed", "error", closeErr)
		}
	}
	if runErr != nil {
		logger.Errorw("exiting after server error", "error", runErr)
	}
}

func newLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (app *application) router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Post("/api/solve", app.handleSolve)

	r.Get("/api/cache/memo", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, app.memoCacheStatus())
	})
	r.Delete("/api/cache/memo", func(w http.ResponseWriter, r *http.Request) {
		app.memo.Clear()
		app.hub.PublishStatus(app.memoCacheStatus())
		writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
	})
	r.Get("/api/cache/memo/entries", func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 10
		}
		if limit > 100 {
			limit = 100
		}
		if offset < 0 {
			offset = 0
		}
		writeJSON(w, http.StatusOK, app.memoCacheEntries(offset, limit))
	})
	r.Delete("/api/cache/memo/entries/{key}", func(w http.ResponseWriter, r *http.Request) {
		keyRaw := chi.URLParam(r, "key")
		key, err := parseMemoKey(keyRaw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid key"})
			return
		}
		deleted := app.memo.DeleteByKey(key)
		writeJSON(w, http.StatusOK, map[string]any{
			"deleted": deleted,
			"key":     strconv.FormatUint(key, 10),
		})
	})

	r.Get("/ws/", app.serveWS)

	return r
}

func (app *application) handleSolve(w http.ResponseWriter, r *http.Request) {
	var payload solveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}
	cfg := app.store.Get()
	if payload.Depth > cfg.MaxDepth {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "depth above configured maximum"})
		return
	}
	b, err := board.FromRows(payload.Board)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	app.memo.NextGeneration()
	engine := solver.NewEngine(app.memo)
	checksum, err := engine.Explore(b, payload.Depth)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	response := solveResponse{
		JobID:    uuid.NewString(),
		Depth:    payload.Depth,
		Board:    b.String(),
		Checksum: checksum,
		Stats:    engine.Stats(),
	}
	if cfg.LogSolveStats {
		stats := engine.Stats()
		app.log.Infow("solve completed",
			"job_id", response.JobID,
			"depth", payload.Depth,
			"checksum", checksum,
			"nodes", stats.Nodes,
			"cache_hits", stats.CacheHits,
			"elapsed_ms", stats.ElapsedMs,
		)
	}
	app.hub.PublishSolve(response)
	writeJSON(w, http.StatusOK, response)
}

func (app *application) memoCacheStatus() memoCacheStatusResponse {
	count := app.memo.Count()
	capacity := app.memo.Capacity()
	entryBytes := uint64(unsafe.Sizeof(solver.MemoEntry{}))
	usage := 0.0
	full := false
	if capacity > 0 {
		usage = float64(count) / float64(capacity)
		full = count >= capacity
	}
	return memoCacheStatusResponse{
		Count:         count,
		Capacity:      capacity,
		Usage:         usage,
		Full:          full,
		EntryBytes:    entryBytes,
		UsedBytes:     uint64(count) * entryBytes,
		CapacityBytes: uint64(capacity) * entryBytes,
		Generation:    app.memo.Generation(),
	}
}

func (app *application) memoCacheEntries(offset int, limit int) memoCacheEntriesResponse {
	entries, total := app.memo.TopEntriesByHits(offset, limit)
	items := make([]memoCacheEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, memoEntryToDTO(entry))
	}
	return memoCacheEntriesResponse{
		Items:  items,
		Offset: offset,
		Limit:  limit,
		Total:  total,
	}
}

func parseMemoKey(raw string) (uint64, error) {
	if raw == "" {
		return 0, errors.New("empty")
	}
	return strconv.ParseUint(raw, 0, 64)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
