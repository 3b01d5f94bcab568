// Package event defines the immutable value objects broadcast to clients.
// Events carry no back-references into the roster; they are built from
// copies at emission time and marshalled exactly once per broadcast pass.
package event

import "d-hub/domain"

// Event is the tagged union of everything the hub can put on the wire.
// Type returns the wire discriminator; Payload returns the body placed
// under the envelope's "data" key.
type Event interface {
	Type() string
	Payload() any
}

// Envelope is the outer wire shape of every server→client message.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// WireServer is the wire representation of one server entry.
type WireServer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Default    bool   `json:"default,omitempty"`
	Passworded bool   `json:"passworded"`
}

// WireMember is the wire representation of one roster entry.
type WireMember struct {
	UID       string `json:"uid"`
	Username  string `json:"username"`
	Status    string `json:"status"`
	RoleColor string `json:"roleColor"`
}

// ToWireServer converts a domain server to its wire shape.
func ToWireServer(s domain.Server) WireServer {
	return WireServer{ID: s.ID, Name: s.Name, Default: s.Default, Passworded: s.Passworded}
}

// ToWireMember converts a domain member to its wire shape.
func ToWireMember(m domain.Member) WireMember {
	return WireMember{UID: m.UID, Username: m.Username, Status: string(m.Status), RoleColor: m.RoleColor}
}

// PresenceChanged reports a member presence transition on one server.
// Removed is true exactly when Status is offline and the member left the
// roster; clients evict the member on sight.
type PresenceChanged struct {
	Server    string `json:"server"`
	UID       string `json:"uid"`
	Status    string `json:"status"`
	Username  string `json:"username,omitempty"`
	RoleColor string `json:"roleColor,omitempty"`
	Removed   bool   `json:"removed"`
}

func (e PresenceChanged) Type() string { return "presence_changed" }
func (e PresenceChanged) Payload() any { return e }

// MessagePosted is one simulated (or externally forwarded) chat line.
type MessagePosted struct {
	ID      string `json:"id"`
	Server  string `json:"server"`
	UID     string `json:"uid"`
	Message string `json:"message"`
	Channel string `json:"channel"`
}

func (e MessagePosted) Type() string { return "message_posted" }
func (e MessagePosted) Payload() any { return e }

// ClientIDUpdated tells clients which OAuth2 client id a server now uses.
type ClientIDUpdated struct {
	Server   string `json:"server"`
	ClientID string `json:"clientId"`
}

func (e ClientIDUpdated) Type() string { return "client_id_updated" }
func (e ClientIDUpdated) Payload() any { return e }

// ConnectAck is the first message on every new session: the full server
// list as resolved at that instant, keyed by Discord server id.
type ConnectAck struct {
	Servers map[string]WireServer `json:"servers"`
}

func (e ConnectAck) Type() string { return "connect_ack" }
func (e ConnectAck) Payload() any { return e }

// UserData is the direct reply to a get_user_data query.
type UserData struct {
	Server string                `json:"server"`
	Users  map[string]WireMember `json:"users"`
}

func (e UserData) Type() string { return "user_data" }
func (e UserData) Payload() any { return e }

// AuthResult is the direct reply to an authenticate attempt.
type AuthResult struct {
	Server string `json:"server"`
	OK     bool   `json:"ok"`
}

func (e AuthResult) Type() string { return "auth_result" }
func (e AuthResult) Payload() any { return e }

// ErrorNotice is a non-fatal diagnostic sent to a single session.
type ErrorNotice struct {
	Message string `json:"message"`
}

func (e ErrorNotice) Type() string { return "error" }
func (e ErrorNotice) Payload() any { return e }
