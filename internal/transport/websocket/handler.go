package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/broadcast"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/events"
)

// writeWait bounds a single frame write to a slow client
const writeWait = 10 * time.Second

type Handler struct {
	Upgrader    websocket.Upgrader
	Log         hclog.Logger
	broadcaster *broadcast.Broadcaster
	source      broadcast.Source
}

// Message is the frame sent to clients
type Message struct {
	EventType string      `json:"event-type"`
	Data      interface{} `json:"data"`
}

// NewHandler creates the realtime endpoint. Browsers are only accepted from
// allowedOrigins; "*" accepts any origin.
func NewHandler(log hclog.Logger, b *broadcast.Broadcaster, src broadcast.Source, allowedOrigins []string) *Handler {
	return &Handler{
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		Log:         log,
		broadcaster: b,
		source:      src,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Error("Unable to upgrade to WebSocket", "error", err)
		return
	}
	defer conn.Close()

	// registers the session and queues the current catalog for it
	session, err := h.broadcaster.Connect(r.Context(), h.source)
	if err != nil {
		h.Log.Error("Unable to read the catalog for a new session", "error", err)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "catalog unavailable"),
			time.Now().Add(writeWait))
		return
	}
	defer h.broadcaster.Disconnect(session)

	done := make(chan struct{})
	go h.readPump(conn, done)

	for {
		select {
		case update, ok := <-session.Updates:
			if !ok {
				return
			}

			payload, err := json.Marshal(Message{EventType: events.EventName, Data: update.Products})
			if err != nil {
				h.Log.Error("Error marshalling message", "error", err)
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.Log.Error("Error writing message to WebSocket", "session", session.ID, "error", err)
				return
			}
		case <-done:
			h.Log.Debug("WebSocket connection closed by the client", "session", session.ID)
			return
		}
	}
}

// readPump drains client frames so control messages are processed and a
// closed connection is noticed
func (h *Handler) readPump(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				h.Log.Error("Error reading message", "error", err)
			}
			return
		}
	}
}
