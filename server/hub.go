package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"d-hub/domain"
	"d-hub/domain/event"
	"d-hub/hooks"
	"d-hub/roster"
	"d-hub/runtime"
	"d-hub/runtime/workers"
	"d-hub/timing"

	"github.com/google/uuid"
)

// Version is reported by /api/version.
const Version = "0.1.0"

// Config carries everything the hub needs at construction time. Zero
// durations fall back to the defaults below.
type Config struct {
	Host     string
	Port     int
	ClientID string

	// StaticDir is kept for the static provider to pick up; the hub does
	// no file I/O itself.
	StaticDir string

	PresenceMin time.Duration
	PresenceMax time.Duration
	ChatMin     time.Duration
	ChatMax     time.Duration

	ChatPhrases []string
	ChatChannel string

	SendBuffer        int
	RestartWait       time.Duration
	TelemetryInterval time.Duration
	ShutdownTimeout   time.Duration
}

func (c *Config) applyDefaults() {
	if c.PresenceMin <= 0 {
		c.PresenceMin = 3 * time.Second
	}
	if c.PresenceMax <= 0 {
		c.PresenceMax = 15 * time.Second
	}
	if c.ChatMin <= 0 {
		c.ChatMin = 5 * time.Second
	}
	if c.ChatMax <= 0 {
		c.ChatMax = 20 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

// Hub is the composition root of the broadcast service: it owns the
// roster, the hook registry, the session set, the broadcaster, the
// simulation workers and the HTTP listener, and it wires them together.
type Hub struct {
	log        *slog.Logger
	cfg        Config
	roster     *roster.Registry
	hooks      *hooks.Registry
	sessions   *runtime.SessionSet
	router     *runtime.Broadcaster
	dispatcher *Dispatcher
	sup        *workers.Supervisor

	listener net.Listener
	httpSrv  *http.Server

	mu      sync.Mutex
	cancel  context.CancelFunc
	supDone chan struct{}
	connWG  sync.WaitGroup
	started bool
}

// New assembles a hub around the given roster. Nothing runs until Start.
func New(log *slog.Logger, cfg Config, reg *roster.Registry) *Hub {
	cfg.applyDefaults()

	hookReg := hooks.NewRegistry(reg)
	if cfg.ClientID != "" {
		clientID := cfg.ClientID
		hookReg.RegisterClientID(func() string { return clientID })
	}

	sessions := runtime.NewSessionSet()
	router := runtime.NewBroadcaster(log, sessions)

	sup := workers.NewSupervisor(log, cfg.RestartWait)
	for id := range reg.Servers() {
		sup.Add(
			workers.NewPresenceWorker(log, id, reg, timing.NewJitter(cfg.PresenceMin, cfg.PresenceMax), router),
			workers.NewChatterWorker(log, id, reg, timing.NewJitter(cfg.ChatMin, cfg.ChatMax), router,
				cfg.ChatPhrases, cfg.ChatChannel),
		)
	}
	if cfg.TelemetryInterval > 0 {
		sup.Add(workers.NewTelemetryWorker(log, sessions, cfg.TelemetryInterval))
	}

	return &Hub{
		log:        log,
		cfg:        cfg,
		roster:     reg,
		hooks:      hookReg,
		sessions:   sessions,
		router:     router,
		dispatcher: NewDispatcher(log, hookReg),
		sup:        sup,
	}
}

// Hooks exposes the callback registry so callers can swap providers at
// any point, before or after Start.
func (h *Hub) Hooks() *hooks.Registry {
	return h.hooks
}

// Roster exposes the entity registry backing the default providers.
func (h *Hub) Roster() *roster.Registry {
	return h.roster
}

// Addr returns the bound listen address, useful when Port was 0.
func (h *Hub) Addr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

// Start binds the listener and launches the workers and the HTTP server,
// then returns. The hub keeps running until Stop or ctx cancellation.
func (h *Hub) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started {
		return fmt.Errorf("hub already started")
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(h.cfg.Host, strconv.Itoa(h.cfg.Port)))
	if err != nil {
		return fmt.Errorf("error binding listener: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.listener = listener
	h.supDone = make(chan struct{})
	h.httpSrv = &http.Server{
		Handler:           h.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	h.started = true

	go func() {
		defer close(h.supDone)
		h.sup.Run(runCtx)
	}()
	go func() {
		if err := h.httpSrv.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			h.log.Error("HTTP server stopped", "err", err)
		}
	}()

	h.log.Info("Hub listening", "addr", listener.Addr().String())
	return nil
}

// Stop shuts the hub down in two phases: first the producers (workers
// stop emitting and drain), then the transport (listener closed, every
// session closed, pumps awaited). Each phase is bounded by the configured
// shutdown timeout.
func (h *Hub) Stop() error {
	h.mu.Lock()
	if !h.started {
		h.mu.Unlock()
		return nil
	}
	h.started = false
	cancel, supDone, httpSrv := h.cancel, h.supDone, h.httpSrv
	h.mu.Unlock()

	cancel()
	select {
	case <-supDone:
	case <-time.After(h.cfg.ShutdownTimeout):
		h.log.Warn("Workers did not stop within timeout")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), h.cfg.ShutdownTimeout)
	defer cancelShutdown()
	err := httpSrv.Shutdown(shutdownCtx)

	for _, sess := range h.sessions.Snapshot() {
		if h.sessions.Remove(sess) {
			sess.Close()
		}
	}

	pumpsDone := make(chan struct{})
	go func() {
		h.connWG.Wait()
		close(pumpsDone)
	}()
	select {
	case <-pumpsDone:
	case <-time.After(h.cfg.ShutdownTimeout):
		h.log.Warn("Connection pumps did not drain within timeout")
	}

	h.log.Info("Hub stopped")
	return err
}

// Run starts the hub and blocks until ctx is done, then stops it.
func (h *Hub) Run(ctx context.Context) error {
	if err := h.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return h.Stop()
}

// BroadcastMessage fans a chat line out to every session. The entry point
// for external drivers forwarding real messages.
func (h *Hub) BroadcastMessage(discordServerID, uid, message, channel string) {
	h.router.Send(event.MessagePosted{
		ID:      uuid.NewString(),
		Server:  discordServerID,
		UID:     uid,
		Message: message,
		Channel: channel,
	})
}

// BroadcastPresence applies a presence transition to the roster and, on
// success, fans the resulting event out. Applying first keeps the
// delete-means-offline pairing intact: the broadcast event and the roster
// can never disagree about a member's existence.
func (h *Hub) BroadcastPresence(discordServerID, uid string, status domain.Presence, username, roleColor string, remove bool) error {
	ev, err := h.roster.ApplyPresence(discordServerID, uid, status, username, roleColor, remove)
	if err != nil {
		return err
	}
	h.router.Send(ev)
	return nil
}

// BroadcastClientIDUpdate announces a new OAuth2 client id for a server.
func (h *Hub) BroadcastClientIDUpdate(discordServerID, clientID string) {
	h.router.Send(event.ClientIDUpdated{Server: discordServerID, ClientID: clientID})
}
