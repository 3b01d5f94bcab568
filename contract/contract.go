//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"strings"

	"d-hub/domain/event"
)

// Worker doesn't protect itself.
// Can be silly, focused. Supervision (panic recovery, restarts) lives
// one level up.
type Worker interface {
	Run(ctx context.Context) error
}

// Supervisor runs workers and keeps them alive until the context ends.
type Supervisor interface {
	Add(worker ...Worker) Supervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// EventSink receives pre-serialized events. Implementations must be safe
// for concurrent use and must never block the caller beyond a buffered
// enqueue; a full buffer is reported as an error so the router can evict.
type EventSink interface {
	Deliver(payload []byte) error
	Close()
}

// Broadcaster fans an event out to every live session, best effort.
type Broadcaster interface {
	Send(e event.Event)
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for supervision logs, avoiding a manual naming method on Worker.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	return strings.TrimPrefix(name, "*")
}
