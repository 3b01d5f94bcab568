package server

import (
	"encoding/json"
	"log/slog"

	"d-hub/auth"
	"d-hub/domain"
	"d-hub/domain/event"
	"d-hub/hooks"
	"d-hub/runtime"

	"github.com/samber/lo"
)

// Inbound message types accepted from clients.
const (
	msgGetUserData  = "get_user_data"
	msgAuthenticate = "authenticate"
)

// inboundMessage is the flat shape of every client→server message. Fields
// beyond the ones a given type needs are ignored.
type inboundMessage struct {
	Type     string `json:"type"`
	ServerID string `json:"serverId"`
	Token    string `json:"token"`
}

// Dispatcher routes one inbound frame to its handler and produces at most
// one direct reply for the originating session. It never writes to the
// socket itself and never terminates a connection: a malformed or unknown
// message is logged and dropped, nothing more.
type Dispatcher struct {
	log   *slog.Logger
	hooks *hooks.Registry
}

func NewDispatcher(log *slog.Logger, reg *hooks.Registry) *Dispatcher {
	return &Dispatcher{log: log, hooks: reg}
}

// Dispatch decodes raw and routes it by type. The returned event, when ok,
// is a reply for this session only, never a broadcast.
func (d *Dispatcher) Dispatch(sess *runtime.Session, raw []byte) (event.Event, bool) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		d.log.Debug("Dropping malformed message", "session", sess.ID, "err", err)
		return nil, false
	}
	if msg.Type == "" {
		d.log.Debug("Dropping message without type", "session", sess.ID)
		return nil, false
	}

	switch msg.Type {
	case msgGetUserData:
		return d.handleGetUserData(msg), true
	case msgAuthenticate:
		return d.handleAuthenticate(sess, msg), true
	default:
		d.log.Debug("Dropping message of unknown type", "session", sess.ID, "messageType", msg.Type)
		return nil, false
	}
}

// handleGetUserData answers with the queried server's roster. An unknown
// server id yields an empty users map, not an error: the provider decides
// what exists.
func (d *Dispatcher) handleGetUserData(msg inboundMessage) event.Event {
	members := d.hooks.UserData()(msg.ServerID)
	return event.UserData{
		Server: msg.ServerID,
		Users: lo.MapValues(members, func(m domain.Member, _ string) event.WireMember {
			return event.ToWireMember(m)
		}),
	}
}

// handleAuthenticate runs the validate_user hook over the presented token.
// A token that does not parse still reaches the hook with zero user info;
// denying it is the hook's call (the default hook denies everything).
func (d *Dispatcher) handleAuthenticate(sess *runtime.Session, msg inboundMessage) event.Event {
	if _, known := d.hooks.ServerData()()[msg.ServerID]; !known {
		d.log.Debug("Authenticate against unknown server", "session", sess.ID, "server", msg.ServerID)
		return event.ErrorNotice{Message: "unknown server"}
	}

	user, parsed := auth.ParseUserInfo(msg.Token)
	if !parsed {
		d.log.Debug("Authenticate token did not parse", "session", sess.ID, "server", msg.ServerID)
	}

	ok := d.hooks.ValidateUser()(msg.Token, user, msg.ServerID)
	if ok {
		sess.Authorize(msg.ServerID)
		d.log.Info("Session authenticated", "session", sess.ID, "server", msg.ServerID, "uid", user.UID)
	}
	return event.AuthResult{Server: msg.ServerID, OK: ok}
}
