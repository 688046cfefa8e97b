package feedback

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// ReportType identifies a browser-to-server message.
type ReportType string

const (
	ReportPermission   ReportType = "permission"
	ReportCapabilities ReportType = "capabilities"
)

// Report is a capability message sent by a browser over the websocket.
type Report struct {
	Type       ReportType `json:"type"`
	Permission Permission `json:"permission,omitempty"`
	Vibrate    bool       `json:"vibrate,omitempty"`
}

// Hub fans events out to every connected browser over websockets and feeds
// their reports back through onReport.
type Hub struct {
	upgrader websocket.Upgrader
	onReport func(Report)

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub creates a Hub. onReport may be nil.
func NewHub(onReport func(Report)) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		onReport: onReport,
		clients:  make(map[*websocket.Conn]struct{}),
	}
}

// SetReportHandler replaces the report callback.
func (h *Hub) SetReportHandler(fn func(Report)) {
	h.mu.Lock()
	h.onReport = fn
	h.mu.Unlock()
}

// ServeHTTP upgrades the request and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}
	h.add(conn)
	slog.Info("Feedback client connected", "remote_addr", r.RemoteAddr)
	go h.readPump(conn)
}

// Emit broadcasts e to every client, dropping clients that fail.
func (h *Hub) Emit(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("Failed to encode feedback event", "type", e.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Debug("Dropping feedback client", "error", err)
			c.Close()
			delete(h.clients, c)
		}
	}
}

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
}

func (h *Hub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *Hub) readPump(c *websocket.Conn) {
	defer func() {
		h.remove(c)
		_ = c.Close()
	}()
	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}

		var report Report
		if err := json.Unmarshal(data, &report); err != nil {
			slog.Debug("Ignoring malformed feedback report", "error", err)
			continue
		}

		h.mu.Lock()
		onReport := h.onReport
		h.mu.Unlock()
		if onReport != nil {
			onReport(report)
		}
	}
}
