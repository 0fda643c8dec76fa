package http

import (
	"log"
	"net/http"

	"verb-quiz-portal/internal/app"
	"github.com/gorilla/websocket"
)

// WSHandler streams dashboard snapshots to teacher clients: the current
// report on connect, then a fresh one after every graded submission.
type WSHandler struct {
	service         *app.PortalService
	upgrader        websocket.Upgrader
	teacherPassword string
}

func NewWSHandler(service *app.PortalService, teacherPassword string) *WSHandler {
	return &WSHandler{
		service:         service,
		teacherPassword: teacherPassword,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and pushes dashboard updates until the
// client disconnects. Browsers cannot set headers on websocket dials, so
// the teacher password travels as the "key" query parameter here.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	if h.teacherPassword == "" || r.URL.Query().Get("key") != h.teacherPassword {
		http.Error(w, "teacher access required", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.service.Subscribe(r.Context())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	// Reader goroutine exists only to notice the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case report, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[any]{Type: "dashboard", Payload: report}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
