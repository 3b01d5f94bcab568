package workers

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"d-hub/domain"
	"d-hub/domain/event"
	"d-hub/mock"
	"d-hub/roster"
	"d-hub/timing"

	"github.com/stretchr/testify/require"
)

const dworld = "232769614004748288"

// captureRouter records every event it is asked to broadcast.
type captureRouter struct {
	mu     sync.Mutex
	events []event.Event
}

func (c *captureRouter) Send(e event.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureRouter) snapshot() []event.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]event.Event(nil), c.events...)
}

func fastClock() timing.Clock {
	return timing.NewJitter(time.Millisecond, 3*time.Millisecond)
}

func seeded() *roster.Registry {
	return roster.New(roster.Seed{Servers: mock.Servers, Members: mock.Members})
}

func TestPresenceWorker_ProducesValidTransitions(t *testing.T) {
	req := require.New(t)
	reg := seeded()
	out := &captureRouter{}
	w := NewPresenceWorker(slog.Default(), dworld, reg, fastClock(), out)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = w.Run(ctx)

	events := out.snapshot()
	req.NotEmpty(events)

	for _, e := range events {
		pc, ok := e.(event.PresenceChanged)
		req.True(ok)
		req.Equal(dworld, pc.Server)
		req.True(domain.Presence(pc.Status).Valid())
		// offline and removed imply each other
		req.Equal(pc.Status == "offline", pc.Removed)
	}
}

func TestPresenceWorker_EmptyRosterNeverCrashes(t *testing.T) {
	req := require.New(t)
	reg := roster.New(roster.Seed{
		Servers: func() map[string]domain.Server {
			return map[string]domain.Server{"555555555555555555": {DiscordID: "555555555555555555", ID: "empty", Name: "Empty"}}
		},
	})
	out := &captureRouter{}
	w := NewPresenceWorker(slog.Default(), "555555555555555555", reg, fastClock(), out)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req.ErrorIs(w.Run(ctx), context.DeadlineExceeded)
	req.Empty(out.snapshot())
}

func TestChatterWorker_MessagesReferenceLiveMembers(t *testing.T) {
	req := require.New(t)
	reg := seeded()
	out := &captureRouter{}
	w := NewChatterWorker(slog.Default(), dworld, reg, fastClock(), out, mock.Phrases, mock.DefaultChannel)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = w.Run(ctx)

	events := out.snapshot()
	req.NotEmpty(events)

	members := reg.Members(dworld)
	for _, e := range events {
		mp, ok := e.(event.MessagePosted)
		req.True(ok)
		req.Equal(dworld, mp.Server)
		req.Contains(members, mp.UID)
		req.Contains(mock.Phrases, mp.Message)
		req.Equal(mock.DefaultChannel, mp.Channel)
		req.NotEmpty(mp.ID)
	}
}

func TestChatterWorker_SkipsEmptyRosterTicks(t *testing.T) {
	req := require.New(t)
	reg := seeded()
	// Drain the docs server roster first
	_, err := reg.ApplyPresence("482241773318701056", "223456789012345001", domain.PresenceOffline, "", "", false)
	req.NoError(err)

	out := &captureRouter{}
	w := NewChatterWorker(slog.Default(), "482241773318701056", reg, fastClock(), out, mock.Phrases, mock.DefaultChannel)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req.ErrorIs(w.Run(ctx), context.DeadlineExceeded)
	req.Empty(out.snapshot())
}

// Running one presence and one chatter loop per server must feed events
// for every populated server (no starvation) and must never emit an event
// whose server id the roster does not know.
func TestEngine_NoStarvationAcrossServers(t *testing.T) {
	req := require.New(t)
	reg := seeded()
	out := &captureRouter{}
	sup := NewSupervisor(slog.Default(), 10*time.Millisecond)

	known := reg.Servers()
	for id := range known {
		sup.Add(
			NewPresenceWorker(slog.Default(), id, reg, fastClock(), out),
			NewChatterWorker(slog.Default(), id, reg, fastClock(), out, mock.Phrases, mock.DefaultChannel),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()
	sup.Run(ctx)

	seen := map[string]int{}
	for _, e := range out.snapshot() {
		var server string
		switch ev := e.(type) {
		case event.PresenceChanged:
			server = ev.Server
		case event.MessagePosted:
			server = ev.Server
		default:
			req.Fail("unexpected event type on the router")
		}
		req.Contains(known, server)
		seen[server]++
	}

	for id := range known {
		if len(mock.Members(id)) > 0 {
			req.Positive(seen[id], "server %s starved", id)
		}
	}
}

func TestEngine_StopsWithinOneSleepBound(t *testing.T) {
	req := require.New(t)
	reg := seeded()
	out := &captureRouter{}
	sup := NewSupervisor(slog.Default(), 10*time.Millisecond)
	for id := range reg.Servers() {
		sup.Add(NewPresenceWorker(slog.Default(), id, reg, timing.NewJitter(time.Millisecond, 20*time.Millisecond), out))
	}

	done := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	sup.Stop()

	select {
	case <-done:
		// All loops observed the shutdown signal at a sleep boundary
	case <-time.After(time.Second):
		req.Fail("workers should exit within one sleep bound of Stop")
	}
}
