// Package workers contains the supervised background loops of the hub:
// per-server presence and chatter simulation plus process telemetry.
package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"d-hub/contract"
	"d-hub/errors"
)

// Supervisor owns a context and a cancel function, runs each worker in a
// goroutine, recovers panics, restarts crashed workers, shuts down when
// the parent context is cancelled, and waits for every goroutine to end.
type Supervisor struct {
	cancel      context.CancelFunc
	wg          *sync.WaitGroup
	log         *slog.Logger
	restartWait time.Duration
	workers     []contract.Worker
}

func NewSupervisor(log *slog.Logger, restartWait time.Duration) *Supervisor {
	if restartWait <= 0 {
		restartWait = 200 * time.Millisecond
	}
	return &Supervisor{wg: &sync.WaitGroup{}, log: log, restartWait: restartWait}
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.Supervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Run starts every added worker under a cancellation trigger tied to the
// parent ctx and blocks until all of them have stopped. If the parent
// cancels, the children cancel; if Stop is called, only the children do.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	defer s.cancel()

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

// Start runs one worker under supervision. If its Run method panics, the
// supervisor recovers and restarts it after a delay; a failure in one
// worker never stops the supervisor itself. A worker returning nil is
// finished and never restarted.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	name := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Info("Stopping worker", "name", name)
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						s.log.Error("Worker panicked", "name", name, "panic", r)
						err = errors.ErrWorkerPanic
					}
				}()
				return worker.Run(ctx)
			}()

			if err == nil {
				s.log.Info("Worker finished", "name", name)
				return
			}

			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", name)
				return
			}

			s.log.Warn("Worker crashed, restarting", "name", name, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.restartWait):
			}
		}
	}()
}

// Stop cancels every supervised goroutine; Run returns once they finish.
func (s *Supervisor) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}
