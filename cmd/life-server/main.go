// Package main is the entry point for the Game of Life board server.
// It only handles dependency injection and server initialization.
// NO simulation logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/atreyapandit/gameoflife/server/internal/codec"
	"github.com/atreyapandit/gameoflife/server/internal/engine"
	"github.com/atreyapandit/gameoflife/server/internal/events"
	"github.com/atreyapandit/gameoflife/server/internal/infra/storage"
	"github.com/atreyapandit/gameoflife/server/internal/network"
	"github.com/atreyapandit/gameoflife/server/internal/platform/logger"
	"github.com/atreyapandit/gameoflife/server/internal/platform/metrics"
)

const (
	listenAddr     = ":8080"
	databasePath   = "life.db"
	savedGamesDir  = "SavedGames"
	presetsDir     = "presets"
	boardID        = "BOARD_1" // singleton board for this server
	backupInterval = 5 * time.Second
)

// SQLitePersisterAdapter translates engine events to journal rows and
// records write latency for the metrics collector.
type SQLitePersisterAdapter struct {
	repo *storage.SQLiteJournalRepository
}

func (a *SQLitePersisterAdapter) Append(event events.GameEvent) error {
	payloadMap := map[string]interface{}{}
	if event.Payload != nil {
		// Round-trip through JSON so arbitrary payload structs become maps.
		if b, err := json.Marshal(event.Payload); err == nil {
			_ = json.Unmarshal(b, &payloadMap)
		}
	}

	journalEvent := storage.JournalEvent{
		ID:         event.ID,
		Timestamp:  event.Timestamp,
		EventType:  string(event.Type),
		Actor:      event.Actor,
		Payload:    payloadMap,
		Generation: event.Generation,
	}

	start := time.Now()
	err := a.repo.Append(context.Background(), journalEvent)
	metrics.Get().RecordJournalWrite(time.Since(start), err)
	return err
}

// restoreBoard installs the last persisted board snapshot, if any.
func restoreBoard(ctx context.Context, repo *storage.SQLiteBoardRepository, sim *engine.Simulation, appLogger *logger.Logger) {
	snap, err := repo.Get(ctx, boardID)
	if err != nil {
		appLogger.Error("Failed to query DB for board snapshot: " + err.Error())
		return
	}
	if snap == nil {
		appLogger.Info("Database empty. Starting with a blank board.")
		return
	}

	g, err := codec.Decode(snap.Encoded)
	if err != nil {
		appLogger.Error("Persisted board snapshot is corrupt, ignoring: " + err.Error())
		return
	}
	sim.Restore(g, snap.Generation)
	appLogger.Info("Restored board from database.")
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Presenters are trusted local frontends.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, appLogger *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		appLogger.Error("WebSocket upgrade failed: " + err.Error())
		return
	}
	client := network.NewClient(hub, conn)
	client.Register()
	go client.WritePump()
	go client.ReadPump()
}

func main() {
	log.Println("[LIFE-SERVER] Initializing Game of Life board server...")

	appLogger := logger.NewLogger(os.Getenv("LIFE_DEBUG") != "")

	appLogger.Info("Initializing SQLite database '" + databasePath + "'...")
	db, err := storage.InitSQLite(databasePath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	journalRepo := storage.NewSQLiteJournalRepository(db)
	boardRepo := storage.NewSQLiteBoardRepository(db)
	persister := &SQLitePersisterAdapter{repo: journalRepo}

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(persister)

	appLogger.Info("Bootstrapping Simulation...")
	sim := engine.NewSimulation(eventLog, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	restoreBoard(ctx, boardRepo, sim, appLogger)

	ticker := engine.NewTicker(sim, appLogger)
	go ticker.Start(ctx)

	// Automated board backup routine
	go func() {
		backupTicker := time.NewTicker(backupInterval)
		defer backupTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-backupTicker.C:
				snap := storage.BoardSnapshot{
					BoardID:    boardID,
					Encoded:    codec.Encode(sim.Snapshot()),
					Generation: sim.Generation(),
				}
				if err := boardRepo.Upsert(ctx, snap); err != nil {
					appLogger.Error("Board backup failed: " + err.Error())
				}
			}
		}
	}()

	appLogger.Info("Bootstrapping file store and board loader...")
	store := storage.NewFileStore(savedGamesDir, presetsDir)
	loader := engine.NewBoardLoader(store, sim, appLogger)
	saver := engine.NewBoardSaver(store, sim, appLogger)

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(sim, loader, saver, store, appLogger)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})
	http.HandleFunc("/metrics", metrics.Handler())
	http.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	server := &http.Server{Addr: listenAddr}
	go func() {
		appLogger.Info("Listening on " + listenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed: " + err.Error())
			cancel()
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	appLogger.Info("Shutting down...")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)

	// Final board backup before exit.
	finalCtx, finalCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer finalCancel()
	_ = boardRepo.Upsert(finalCtx, storage.BoardSnapshot{
		BoardID:    boardID,
		Encoded:    codec.Encode(sim.Snapshot()),
		Generation: sim.Generation(),
	})
	_ = db.Close()
	appLogger.Info("Server stopped.")
}
