package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsMessage is the frame format on the solve websocket.
type wsMessage struct {
	Type     string         `json:"type"` // "solving", "solved", "error"
	ID       string         `json:"id,omitempty"`
	Error    string         `json:"error,omitempty"`
	Response *SolveResponse `json:"response,omitempty"`
}

// handleSolveWs serves one solve over a websocket: the client sends a
// SolveRequest frame, receives a "solving" acknowledgement, then either
// the solved response or an error frame. Long solves keep the socket as
// their progress channel instead of an open HTTP request.
func (s *Server) handleSolveWs(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	var req SolveRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(wsMessage{Type: "error", Error: "invalid request: " + err.Error()})
		return
	}
	if req.Template == "" {
		conn.WriteJSON(wsMessage{Type: "error", Error: "template is required"})
		return
	}

	if err := conn.WriteJSON(wsMessage{Type: "solving"}); err != nil {
		return
	}

	resp, _, err := s.solve(c.Request.Context(), &req)
	if err != nil {
		conn.WriteJSON(wsMessage{Type: "error", Error: err.Error()})
		return
	}
	conn.WriteJSON(wsMessage{Type: "solved", ID: resp.ID, Response: resp})
}
