// Package hooks is the callback registry: every externally overridable
// behavior of the hub has a named hook point here. Registration is
// last-write-wins and takes effect on the very next resolve; resolve
// never returns nil because every kind has a built-in default.
//
// This is what lets an operator swap the mock dataset for a live
// Discord-backed provider at runtime without touching the dispatcher.
package hooks

import (
	"sync"

	"d-hub/auth"
	"d-hub/domain"
	"d-hub/roster"
)

// Kind names one hook point. The set is closed: adding a hook means
// adding a typed field, not a map entry, so a typo cannot create one.
type Kind string

const (
	KindServerData    Kind = "server_data"
	KindUserData      Kind = "user_data"
	KindStaticRequest Kind = "static_request"
	KindValidateUser  Kind = "validate_user"
	KindClientID      Kind = "client_id"
)

// Handler signatures, one per kind.
type (
	// ServerDataFunc supplies the full server map.
	ServerDataFunc func() map[string]domain.Server
	// UserDataFunc supplies one server's roster; unknown ids yield an
	// empty map.
	UserDataFunc func(discordServerID string) map[string]domain.Member
	// StaticFunc resolves a static asset; ok=false declines the path.
	StaticFunc func(path string) (contentType string, body []byte, ok bool)
	// ValidateFunc is a pure predicate deciding an authenticate attempt.
	ValidateFunc func(token string, user auth.UserInfo, discordServerID string) bool
	// ClientIDFunc supplies the OAuth2 client id advertised to clients.
	ClientIDFunc func() string
)

// Registry holds at most one handler per kind plus the defaults bound to
// the roster. Safe for concurrent use; a handler registered mid-run is
// picked up by the next resolve.
type Registry struct {
	mu sync.RWMutex

	serverData    ServerDataFunc
	userData      UserDataFunc
	staticRequest StaticFunc
	validateUser  ValidateFunc
	clientID      ClientIDFunc

	defaultServerData ServerDataFunc
	defaultUserData   UserDataFunc
}

// NewRegistry binds the query defaults to the given roster. The remaining
// defaults are trivial: deny every authenticate, decline every static
// path, advertise no client id.
func NewRegistry(r *roster.Registry) *Registry {
	return &Registry{
		defaultServerData: r.Servers,
		defaultUserData:   r.Members,
	}
}

// RegisterServerData replaces the server_data handler. A nil handler
// restores the default.
func (g *Registry) RegisterServerData(h ServerDataFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.serverData = h
}

// RegisterUserData replaces the user_data handler.
func (g *Registry) RegisterUserData(h UserDataFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.userData = h
}

// RegisterStaticRequest replaces the static_request handler.
func (g *Registry) RegisterStaticRequest(h StaticFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.staticRequest = h
}

// RegisterValidateUser replaces the validate_user handler.
func (g *Registry) RegisterValidateUser(h ValidateFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.validateUser = h
}

// RegisterClientID replaces the client_id handler.
func (g *Registry) RegisterClientID(h ClientIDFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clientID = h
}

// ServerData resolves the server_data hook, falling back to the roster.
func (g *Registry) ServerData() ServerDataFunc {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.serverData != nil {
		return g.serverData
	}
	return g.defaultServerData
}

// UserData resolves the user_data hook, falling back to the roster.
func (g *Registry) UserData() UserDataFunc {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.userData != nil {
		return g.userData
	}
	return g.defaultUserData
}

// StaticRequest resolves the static_request hook; the default declines
// every path (the core performs no file I/O).
func (g *Registry) StaticRequest() StaticFunc {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.staticRequest != nil {
		return g.staticRequest
	}
	return func(string) (string, []byte, bool) { return "", nil, false }
}

// ValidateUser resolves the validate_user hook; the default denies.
func (g *Registry) ValidateUser() ValidateFunc {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.validateUser != nil {
		return g.validateUser
	}
	return func(string, auth.UserInfo, string) bool { return false }
}

// ClientID resolves the client_id hook; the default is empty.
func (g *Registry) ClientID() ClientIDFunc {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.clientID != nil {
		return g.clientID
	}
	return func() string { return "" }
}
