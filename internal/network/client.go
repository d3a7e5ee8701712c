package network

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/atreyapandit/gameoflife/server/internal/codec"
	"github.com/atreyapandit/gameoflife/server/internal/domain/board"
	"github.com/atreyapandit/gameoflife/server/internal/engine"
	"github.com/atreyapandit/gameoflife/server/internal/events"
	"github.com/atreyapandit/gameoflife/server/internal/infra/storage"
	"github.com/atreyapandit/gameoflife/server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// BoardCommand represents an incoming request from a presenter.
type BoardCommand struct {
	Type       string `json:"type"` // PRESS, DRAG, RELEASE, ABORT, STEP, STEP_N, UNDO, RESET, AUTOPLAY, SAVE, LOAD, PRESET, SNAPSHOT
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Steps      string `json:"steps"` // raw user input, validated server-side
	Name       string `json:"name"`
	ReplaceAll bool   `json:"replace_all"`
	Enabled    bool   `json:"enabled"`
}

// BoardMessage carries a full board snapshot to the presenter.
type BoardMessage struct {
	Generation int64  `json:"generation"`
	Autoplay   bool   `json:"autoplay"`
	Population int    `json:"population"`
	Encoded    string `json:"encoded"`
}

// ServerMessage is the envelope for everything the server sends.
type ServerMessage struct {
	Type   string            `json:"type"` // EVENT, BOARD, REPORT
	Event  *events.GameEvent `json:"event,omitempty"`
	Board  *BoardMessage     `json:"board,omitempty"`
	Report string            `json:"report,omitempty"`
}

// Client holds one WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps messages from the websocket connection to the engine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var cmd BoardCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.hub.logger.Error("Failed to parse BoardCommand from WebSocket. err: " + err.Error())
			continue
		}

		c.handleCommand(cmd)
	}
}

// clampCell limits raw presenter coordinates to the board, the same way
// the original pointer handling clamped screen positions.
func clampCell(row, col int) (int, int) {
	if row < 0 {
		row = 0
	}
	if row >= board.Rows {
		row = board.Rows - 1
	}
	if col < 0 {
		col = 0
	}
	if col >= board.Cols {
		col = board.Cols - 1
	}
	return row, col
}

func (c *Client) handleCommand(cmd BoardCommand) {
	sim := c.hub.sim

	switch cmd.Type {
	case "PRESS":
		row, col := clampCell(cmd.Row, cmd.Col)
		sim.Press(row, col)
	case "DRAG":
		row, col := clampCell(cmd.Row, cmd.Col)
		sim.Drag(row, col)
	case "RELEASE":
		sim.Release()
	case "ABORT":
		sim.AbortGesture()
	case "STEP":
		if err := sim.Step(); err != nil {
			c.report(err.Error())
		}
	case "STEP_N":
		n, err := engine.ParseStepCount(cmd.Steps)
		if err != nil {
			c.report(err.Error())
			return
		}
		if err := sim.StepN(n); err != nil {
			c.report(err.Error())
		}
	case "UNDO":
		if err := sim.Undo(); err != nil {
			// Both undo refusals are informational, not failures.
			c.report(err.Error())
		}
	case "RESET":
		sim.Reset()
	case "AUTOPLAY":
		sim.SetAutoplay(cmd.Enabled)
	case "SAVE":
		if err := c.hub.saver.Save(cmd.Name); err != nil {
			c.report(err.Error())
		}
	case "LOAD":
		path, err := c.hub.store.SavePath(cmd.Name)
		if err != nil {
			c.report(err.Error())
			return
		}
		if err := c.hub.loader.Load(path, cmd.ReplaceAll); err != nil {
			c.report(err.Error())
		}
	case "PRESET":
		preset, ok := storage.FindPreset(cmd.Name)
		if !ok {
			c.report("unknown preset: " + cmd.Name)
			return
		}
		if err := c.hub.loader.Load(c.hub.store.PresetPath(preset), preset.ReplaceAll); err != nil {
			c.report(err.Error())
		}
	case "SNAPSHOT":
		c.sendBoard(sim)
	default:
		c.hub.logger.Warn("Unknown BoardCommand type: " + cmd.Type)
	}
}

// report sends a user-facing informational message to this client only.
func (c *Client) report(msg string) {
	payload, err := json.Marshal(ServerMessage{Type: "REPORT", Report: msg})
	if err != nil {
		metrics.Get().RecordWSError()
		return
	}
	select {
	case c.send <- payload:
		metrics.Get().RecordWSMessage(false)
	default:
	}
}

// sendBoard pushes the current board to this client only.
func (c *Client) sendBoard(sim *engine.Simulation) {
	g := sim.Snapshot()
	msg := ServerMessage{
		Type: "BOARD",
		Board: &BoardMessage{
			Generation: sim.Generation(),
			Autoplay:   sim.Autoplay(),
			Population: g.Alive(),
			Encoded:    codec.Encode(g),
		},
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		metrics.Get().RecordWSError()
		return
	}
	select {
	case c.send <- payload:
		metrics.Get().RecordWSMessage(false)
	default:
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
