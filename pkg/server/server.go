package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/vctt94/holdemtabled/pkg/logging"
	"github.com/vctt94/holdemtabled/pkg/poker"
	"github.com/vctt94/holdemtabled/pkg/server/internal/db"
)

// Database defines the interface for database operations
type Database interface {
	// GetPlayerBankroll returns the current bankroll of a player
	GetPlayerBankroll(playerID string) (int64, error)
	// UpdatePlayerBankroll adjusts a player's bankroll and records the transaction
	UpdatePlayerBankroll(playerID string, amount int64, transactionType, description string) error

	// Hand history persistence
	AppendHandHistory(tableID, handID, line string) error
	GetHandHistory(tableID string, limit int) ([]string, error)

	// Close closes the database connection
	Close() error
}

// NewDatabase creates a new database connection
func NewDatabase(dbPath string) (Database, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}

	return db.NewDB(dbPath)
}

// tableRunner ties one engine to its connected sessions and timers.
type tableRunner struct {
	engine *poker.TableEngine
	cancel context.CancelFunc
	timer  *turnTimer
	log    slog.Logger

	sessionsMu sync.RWMutex
	sessions   map[string]*session
}

// Server hosts poker tables over HTTP and websockets.
type Server struct {
	log        slog.Logger
	logBackend *logging.Backend
	db         Database

	mu      sync.RWMutex
	tables  map[string]*tableRunner
	closed  bool
	runWg   sync.WaitGroup
	rootCtx context.Context
	stop    context.CancelFunc
}

// NewServer creates a new poker server
func NewServer(database Database, logBackend *logging.Backend) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		log:        logBackend.Logger("SERVER"),
		logBackend: logBackend,
		db:         database,
		tables:     make(map[string]*tableRunner),
		rootCtx:    ctx,
		stop:       cancel,
	}
}

// Stop cancels every table loop and waits for them to drain.
func (s *Server) Stop() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.stop()
	s.runWg.Wait()
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/tables", s.handleListTables)
	r.Post("/tables", s.handleCreateTable)
	r.Get("/tables/{tableID}/history", s.handleHistory)
	r.Get("/tables/{tableID}/ws", s.handleWS)

	return r
}

// createTableRequest is the JSON body of POST /tables.
type createTableRequest struct {
	MinPlayers    int   `json:"minPlayers"`
	MaxPlayers    int   `json:"maxPlayers"`
	SmallBlind    int64 `json:"smallBlind"`
	BigBlind      int64 `json:"bigBlind"`
	Ante          int64 `json:"ante"`
	StartingStack int64 `json:"startingStack"`
	TopOff        bool  `json:"topOff"`
	AllInPacingMs int64 `json:"allInPacingMs"`
	TimeBankSec   int64 `json:"timeBankSec"`
	Seed          int64 `json:"seed,omitempty"`
}

// tableInfo is the JSON description of a running table.
type tableInfo struct {
	TableID    string `json:"tableId"`
	MinPlayers int    `json:"minPlayers"`
	MaxPlayers int    `json:"maxPlayers"`
	SmallBlind int64  `json:"smallBlind"`
	BigBlind   int64  `json:"bigBlind"`
	Ante       int64  `json:"ante"`
	Seated     int    `json:"seated"`
}

func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}

	settings := poker.TableSettings{
		TableID:       uuid.New().String(),
		MinPlayers:    req.MinPlayers,
		MaxPlayers:    req.MaxPlayers,
		SmallBlind:    req.SmallBlind,
		BigBlind:      req.BigBlind,
		Ante:          req.Ante,
		StartingStack: req.StartingStack,
		TopOff:        req.TopOff,
		AllInPacing:   time.Duration(req.AllInPacingMs) * time.Millisecond,
		TimeBank:      time.Duration(req.TimeBankSec) * time.Second,
		Seed:          req.Seed,
	}
	applyDefaults(&settings)

	runner, err := s.startTable(settings)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.writeJSON(w, http.StatusCreated, s.infoFor(runner))
}

// applyDefaults fills in the optional table parameters.
func applyDefaults(settings *poker.TableSettings) {
	if settings.MinPlayers == 0 {
		settings.MinPlayers = 2
	}
	if settings.MaxPlayers == 0 {
		settings.MaxPlayers = 9
	}
	if settings.SmallBlind == 0 {
		settings.SmallBlind = 5
	}
	if settings.BigBlind == 0 {
		settings.BigBlind = settings.SmallBlind * 2
	}
	if settings.StartingStack == 0 {
		settings.StartingStack = settings.BigBlind * 100
	}
	if settings.AllInPacing == 0 {
		settings.AllInPacing = time.Second
	}
	if settings.TimeBank == 0 {
		settings.TimeBank = 30 * time.Second
	}
}

// startTable creates an engine and spins up its loop and event pump.
func (s *Server) startTable(settings poker.TableSettings) (*tableRunner, error) {
	engineLog := s.logBackend.Logger("TABLE")
	engine, err := poker.NewTableEngine(settings, engineLog, nil)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(s.rootCtx)
	runner := &tableRunner{
		engine:   engine,
		cancel:   cancel,
		log:      engineLog,
		sessions: make(map[string]*session),
	}
	runner.timer = newTurnTimer(engine, settings.TimeBank, s.logBackend.Logger("TIMER"))

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return nil, fmt.Errorf("server is shutting down")
	}
	s.tables[settings.TableID] = runner
	s.mu.Unlock()

	s.runWg.Add(2)
	go func() {
		defer s.runWg.Done()
		engine.Run(ctx)
	}()
	go func() {
		defer s.runWg.Done()
		s.pumpEvents(ctx, runner)
	}()

	s.log.Infof("created table %s (blinds %d/%d, max %d players)",
		settings.TableID, settings.SmallBlind, settings.BigBlind, settings.MaxPlayers)
	return runner, nil
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	infos := make([]tableInfo, 0, len(s.tables))
	for _, runner := range s.tables {
		infos = append(infos, s.infoFor(runner))
	}
	s.mu.RUnlock()

	s.writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	tableID := chi.URLParam(r, "tableID")
	if s.lookupTable(tableID) == nil {
		http.Error(w, "table not found", http.StatusNotFound)
		return
	}

	lines, err := s.db.GetHandHistory(tableID, 500)
	if err != nil {
		s.log.Errorf("failed to load history for table %s: %v", tableID, err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, lines)
}

func (s *Server) lookupTable(tableID string) *tableRunner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tables[tableID]
}

func (s *Server) infoFor(runner *tableRunner) tableInfo {
	settings := runner.engine.Settings()
	runner.sessionsMu.RLock()
	seated := len(runner.sessions)
	runner.sessionsMu.RUnlock()

	return tableInfo{
		TableID:    settings.TableID,
		MinPlayers: settings.MinPlayers,
		MaxPlayers: settings.MaxPlayers,
		SmallBlind: settings.SmallBlind,
		BigBlind:   settings.BigBlind,
		Ante:       settings.Ante,
		Seated:     seated,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorf("failed to encode response: %v", err)
	}
}
