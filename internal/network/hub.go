// Package network exposes the simulation to external presenters over
// WebSocket. It is a thin adapter: clients send already-resolved cell
// coordinates and operation requests, and receive the operation journal
// plus board snapshots. The engine never imports this package.
package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/atreyapandit/gameoflife/server/internal/codec"
	"github.com/atreyapandit/gameoflife/server/internal/engine"
	"github.com/atreyapandit/gameoflife/server/internal/events"
	"github.com/atreyapandit/gameoflife/server/internal/infra/storage"
	"github.com/atreyapandit/gameoflife/server/internal/platform/logger"
	"github.com/atreyapandit/gameoflife/server/internal/platform/metrics"
)

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger

	sim    *engine.Simulation
	loader *engine.BoardLoader
	saver  *engine.BoardSaver
	store  *storage.FileStore
}

// NewHub initializes a new WebSocket Hub around the simulation and its
// file collaborators.
func NewHub(sim *engine.Simulation, loader *engine.BoardLoader, saver *engine.BoardSaver, store *storage.FileStore, log *logger.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
		sim:        sim,
		loader:     loader,
		saver:      saver,
		store:      store,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New board observer connected")
			// A fresh observer needs the board before any event arrives.
			client.sendBoard(h.sim)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("Board observer disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent serializes a GameEvent and sends it to all clients.
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	payload, err := json.Marshal(ServerMessage{Type: "EVENT", Event: &event})
	if err != nil {
		metrics.Get().RecordWSError()
		h.logger.Error("Failed to serialize GameEvent for broadcast: " + err.Error())
		return
	}
	h.broadcast <- payload
}

// BroadcastBoard sends the current board to all clients.
func (h *Hub) BroadcastBoard() {
	g := h.sim.Snapshot()
	msg := ServerMessage{
		Type: "BOARD",
		Board: &BoardMessage{
			Generation: h.sim.Generation(),
			Autoplay:   h.sim.Autoplay(),
			Population: g.Alive(),
			Encoded:    codec.Encode(g),
		},
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		metrics.Get().RecordWSError()
		h.logger.Error("Failed to serialize board for broadcast: " + err.Error())
		return
	}
	h.broadcast <- payload
}

// StartEventPoller spawns a goroutine that polls the EventLog and pushes
// new events to connected clients, followed by the refreshed board.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		pollInterval := time.NewTicker(200 * time.Millisecond)
		defer pollInterval.Stop()

		lastProcessedEvent := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				allEvents := eventLog.Replay()
				newEventsCount := len(allEvents) - lastProcessedEvent

				if newEventsCount > 0 {
					newEvents := allEvents[lastProcessedEvent:]
					for _, event := range newEvents {
						h.BroadcastEvent(event)
					}
					lastProcessedEvent = len(allEvents)
					h.BroadcastBoard()
				}
			}
		}
	}()
}
