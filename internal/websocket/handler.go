package websocket

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/novaagent/nova/internal/logging"
	"github.com/novaagent/nova/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The server binds locally; any origin that can reach it may
		// subscribe.
		return true
	},
}

// Handler returns an HTTP handler function for WebSocket upgrades.
func Handler(hub *realtime.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := r.URL.Query().Get("clientId")
		if clientID == "" {
			clientID = "client-" + uuid.New().String()[:8]
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Errorf("websocket upgrade error: %v", err)
			return
		}

		realtime.ServeWS(hub, conn, clientID)
	}
}
