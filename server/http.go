package server

import (
	"encoding/json"
	"net/http"

	"d-hub/domain"
	"d-hub/domain/event"
	"d-hub/runtime"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The hub serves local dashboards and development frontends; origin
	// policy is the reverse proxy's job in any real deployment.
	CheckOrigin: func(*http.Request) bool { return true },
}

func (h *Hub) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)
	mux.HandleFunc("/api/version", h.handleVersion)
	mux.HandleFunc("/", h.handleStatic)
	return mux
}

// handleWS upgrades the connection, registers the session, greets it with
// connect_ack and runs the two pumps until the peer goes away.
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("Upgrade failed", "addr", r.RemoteAddr, "err", err)
		return
	}

	client := newWSClient(h.log, conn, h.cfg.SendBuffer)
	sess := runtime.NewSession(client, r.RemoteAddr)
	h.sessions.Add(sess)
	h.log.Info("Session opened", "session", sess.ID, "addr", sess.Addr)

	h.sendEvent(sess, event.ConnectAck{
		Servers: lo.MapValues(h.hooks.ServerData()(), func(s domain.Server, _ string) event.WireServer {
			return event.ToWireServer(s)
		}),
	})

	h.connWG.Add(2)
	go func() {
		defer h.connWG.Done()
		client.writePump()
	}()
	go func() {
		defer h.connWG.Done()
		client.readPump(func(raw []byte) {
			if reply, ok := h.dispatcher.Dispatch(sess, raw); ok {
				h.sendEvent(sess, reply)
			}
		})
		if h.sessions.Remove(sess) {
			sess.Close()
			h.log.Info("Session closed", "session", sess.ID, "addr", sess.Addr)
		}
	}()
}

// sendEvent serializes one event for a single session. Broadcasts go
// through the router; this is the direct-reply path only.
func (h *Hub) sendEvent(sess *runtime.Session, e event.Event) {
	payload, err := json.Marshal(event.Envelope{Type: e.Type(), Data: e.Payload()})
	if err != nil {
		h.log.Error("Dropping unmarshalable reply", "type", e.Type(), "err", err)
		return
	}
	if err := sess.Deliver(payload); err != nil {
		h.log.Debug("Reply delivery failed", "session", sess.ID, "type", e.Type(), "err", err)
	}
}

// handleVersion reports the service identity and the advertised OAuth2
// client id.
func (h *Hub) handleVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"name":     "d-hub",
		"version":  Version,
		"clientId": h.hooks.ClientID()(),
	})
}

// handleStatic delegates every remaining path to the static_request hook.
// With no provider registered everything 404s; the hub never touches the
// filesystem.
func (h *Hub) handleStatic(w http.ResponseWriter, r *http.Request) {
	contentType, body, ok := h.hooks.StaticRequest()(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	_, _ = w.Write(body)
}
