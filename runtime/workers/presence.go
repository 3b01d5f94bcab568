package workers

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"d-hub/contract"
	"d-hub/domain"
	"d-hub/roster"
	"d-hub/timing"
)

var presenceStates = []domain.Presence{
	domain.PresenceOnline,
	domain.PresenceIdle,
	domain.PresenceDND,
	domain.PresenceOffline,
}

// PresenceWorker simulates presence churn on one server: every tick it
// picks a member and moves it to a random state. Offline picks evict the
// member (the roster pairs offline with removed=true); the worker keeps
// the seed profiles so an evicted member can rejoin on a later tick.
//
// The loop has no fatal path: a tick that cannot apply is skipped and the
// loop keeps going until the context ends.
type PresenceWorker struct {
	log      *slog.Logger
	server   string
	roster   *roster.Registry
	clock    timing.Clock
	out      contract.Broadcaster
	profiles map[string]domain.Member
	uids     []string
	rng      *rand.Rand
}

func NewPresenceWorker(log *slog.Logger, server string, reg *roster.Registry, clock timing.Clock, out contract.Broadcaster) *PresenceWorker {
	profiles := reg.Members(server)
	uids := make([]string, 0, len(profiles))
	for uid := range profiles {
		uids = append(uids, uid)
	}
	return &PresenceWorker{
		log:      log.With("worker", "presence", "server", server),
		server:   server,
		roster:   reg,
		clock:    clock,
		out:      out,
		profiles: profiles,
		uids:     uids,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (w *PresenceWorker) Run(ctx context.Context) error {
	if len(w.uids) == 0 {
		// Nothing to simulate; parking beats hot-looping on an empty roster.
		w.log.Debug("Empty seed roster, presence simulation idle")
		<-ctx.Done()
		return ctx.Err()
	}
	for w.clock.Wait(ctx) {
		w.tick()
	}
	return ctx.Err()
}

func (w *PresenceWorker) tick() {
	uid := w.uids[w.rng.Intn(len(w.uids))]
	status := presenceStates[w.rng.Intn(len(presenceStates))]

	var username, roleColor string
	if _, present := w.roster.Members(w.server)[uid]; !present {
		// Rejoin: supply the seed profile so clients can re-add the member.
		profile := w.profiles[uid]
		username, roleColor = profile.Username, profile.RoleColor
	}

	ev, err := w.roster.ApplyPresence(w.server, uid, status, username, roleColor, false)
	if err != nil {
		// Absent member drawn offline, or a lost race with another writer.
		w.log.Debug("Skipping presence tick", "uid", uid, "status", status, "err", err)
		return
	}
	w.out.Send(ev)
}
