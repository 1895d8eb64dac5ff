package booking

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/craftingshard/tour-website-sub000/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins — adjust for production if needed
		return true
	},
}

var (
	watchers = make(map[string][]*websocket.Conn) // tourId -> connections
	wmu      sync.Mutex
)

// HandleWS streams booking status changes for one tour to the admin table,
// so a confirm or cancel shows up without a refresh.
func HandleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("tourId")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	wmu.Lock()
	watchers[tourID] = append(watchers[tourID], conn)
	wmu.Unlock()

	for {
		// This keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	wmu.Lock()
	conns := watchers[tourID]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	watchers[tourID] = newList
	wmu.Unlock()
	conn.Close()
}

// Broadcast pushes a booking snapshot to everyone watching its tour.
func Broadcast(tourID string, b models.Booking) {
	data, err := json.Marshal(map[string]any{"type": "booking", "booking": b})
	if err != nil {
		return
	}

	wmu.Lock()
	defer wmu.Unlock()

	conns := watchers[tourID]
	newList := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}
	watchers[tourID] = newList
}
