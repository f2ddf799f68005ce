package httpserver

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"traderesult/internal/events"
)

// EventsWSHandler streams completed-trade events to connected clients.
// No auth: the payload carries only ids and settlement figures already
// visible to internal consumers.
type EventsWSHandler struct {
	bus      *events.Bus
	origin   string
	upgrader websocket.Upgrader
}

func NewEventsWSHandler(bus *events.Bus, origin string) *EventsWSHandler {
	return &EventsWSHandler{
		bus:    bus,
		origin: origin,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return allowOrigin(r, origin) },
		},
	}
}

func allowOrigin(r *http.Request, origin string) bool {
	if origin == "*" {
		return true
	}
	return strings.EqualFold(r.Header.Get("Origin"), origin)
}

func (h *EventsWSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	sub := h.bus.Subscribe()
	defer h.bus.Unsubscribe(sub)
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
		case evt := <-sub:
			if evt.Type == events.TypeTradeResult {
				if err := conn.WriteJSON(evt); err != nil {
					return
				}
			}
		case <-done:
			return
		}
	}
}
