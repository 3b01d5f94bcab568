package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"d-hub/runtime"

	"github.com/shirou/gopsutil/process"
)

// TelemetryWorker logs process health (RSS, CPU, live session count) at a
// fixed interval. Log-only: the hub has no external monitoring plane.
type TelemetryWorker struct {
	log      *slog.Logger
	sessions *runtime.SessionSet
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, sessions *runtime.SessionSet, interval time.Duration) *TelemetryWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &TelemetryWorker{log: log, sessions: sessions, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			w.log.Info("Hub telemetry",
				"sessions", w.sessions.Len(),
				"rss_bytes", rss,
				"cpu_percent", cpu,
			)
		}
	}
}

func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
