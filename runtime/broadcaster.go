package runtime

import (
	"encoding/json"
	"log/slog"

	"d-hub/domain/event"
)

// Broadcaster fans outbound events to every session in the set.
//
// Best-effort with no guarantees regarding delivery, ordering across
// producers, durability, or retries. A session that fails to accept a
// payload is evicted after the pass completes; one bad session never
// aborts delivery to the rest.
type Broadcaster struct {
	log      *slog.Logger
	sessions *SessionSet
}

func NewBroadcaster(log *slog.Logger, sessions *SessionSet) *Broadcaster {
	return &Broadcaster{log: log, sessions: sessions}
}

// Send serializes the event once and writes it to a snapshot of the
// current sessions. At-most-once per session per event.
func (b *Broadcaster) Send(e event.Event) {
	payload, err := json.Marshal(event.Envelope{Type: e.Type(), Data: e.Payload()})
	if err != nil {
		// Event structs are plain values; a marshal failure is a
		// programming error, not a runtime condition to retry.
		b.log.Error("Dropping unmarshalable event", "type", e.Type(), "err", err)
		return
	}

	var failed []*Session
	for _, sess := range b.sessions.Snapshot() {
		if err := sess.Deliver(payload); err != nil {
			b.log.Debug("Session delivery failed", "session", sess.ID, "type", e.Type(), "err", err)
			failed = append(failed, sess)
		}
	}

	for _, sess := range failed {
		if b.sessions.Remove(sess) {
			sess.Close()
			b.log.Info("Evicted session after failed delivery", "session", sess.ID, "addr", sess.Addr)
		}
	}
}
