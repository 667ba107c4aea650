package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"codeclash/internal/model"
	"codeclash/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Message is the WebSocket envelope format
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler streams duel record changes to connected clients. Each connection
// holds exactly one subscription on the duel's change feed; the cancel runs
// on every teardown path so no subscription outlives its socket.
type Handler struct {
	duelSvc *service.DuelService
	authSvc *service.AuthService
}

// NewHandler creates a new WebSocket handler
func NewHandler(duelSvc *service.DuelService, authSvc *service.AuthService) *Handler {
	return &Handler{
		duelSvc: duelSvc,
		authSvc: authSvc,
	}
}

// DuelWS handles GET /v1/ws/duels/{code}
func (h *Handler) DuelWS(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidatePlayerToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if claims.DuelCode != code {
		http.Error(w, "token not valid for this duel", http.StatusForbidden)
		return
	}

	send := make(chan []byte, sendBuffer)
	// The subscription must not hang off the request context: it has to
	// survive until the socket itself goes away.
	cancel, err := h.duelSvc.Subscribe(r.Context(), code, func(duel *model.Duel) {
		payload, err := json.Marshal(duel)
		if err != nil {
			return
		}
		data, _ := json.Marshal(&Message{Type: "duel_update", Payload: payload})
		select {
		case send <- data:
		default:
			// Drop update if buffer full; the next one carries newer state
		}
	})
	if err != nil {
		http.Error(w, "duel not found", http.StatusNotFound)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		cancel()
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("Player %s watching duel %s via WebSocket", claims.PlayerID, code)

	go h.writePump(wsConn, send, cancel)
	go h.readPump(wsConn, cancel)
}

func (h *Handler) readPump(wsConn *websocket.Conn, cancel func()) {
	defer func() {
		cancel()
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		// Clients only listen; mutations go through the REST endpoints
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, send chan []byte, cancel func()) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		wsConn.Close()
	}()

	for {
		select {
		case message := <-send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
