package workers

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"d-hub/contract"
	"d-hub/domain/event"
	"d-hub/roster"
	"d-hub/timing"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ChatterWorker posts simulated chat lines on one server. Only members
// currently on the roster speak, so a message can never reference an
// evicted uid. An empty roster tick is skipped silently.
type ChatterWorker struct {
	log     *slog.Logger
	server  string
	roster  *roster.Registry
	clock   timing.Clock
	out     contract.Broadcaster
	phrases []string
	channel string
	rng     *rand.Rand
}

func NewChatterWorker(log *slog.Logger, server string, reg *roster.Registry, clock timing.Clock, out contract.Broadcaster, phrases []string, channel string) *ChatterWorker {
	return &ChatterWorker{
		log:     log.With("worker", "chatter", "server", server),
		server:  server,
		roster:  reg,
		clock:   clock,
		out:     out,
		phrases: phrases,
		channel: channel,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (w *ChatterWorker) Run(ctx context.Context) error {
	if len(w.phrases) == 0 {
		w.log.Debug("No phrase pool, chat simulation idle")
		<-ctx.Done()
		return ctx.Err()
	}
	for w.clock.Wait(ctx) {
		w.tick()
	}
	return ctx.Err()
}

func (w *ChatterWorker) tick() {
	uids := w.roster.MemberUIDs(w.server)
	if len(uids) == 0 {
		w.log.Debug("Empty roster, skipping chat tick")
		return
	}
	w.out.Send(event.MessagePosted{
		ID:      uuid.NewString(),
		Server:  w.server,
		UID:     lo.Sample(uids),
		Message: w.phrases[w.rng.Intn(len(w.phrases))],
		Channel: w.channel,
	})
}
