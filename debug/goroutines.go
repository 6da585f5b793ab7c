package debug

// Runtime diagnostics started only when debug is enabled. Emits goroutine
// count, stack and heap usage, plus any caller-supplied attributes such as
// capture latency or session counters.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// AttrSource returns extra attributes to append to each runtime record.
type AttrSource func() []slog.Attr

// StartGoroutineLogger logs goroutine and stack metrics every interval until
// ctx is done.
func StartGoroutineLogger(ctx context.Context, interval time.Duration, logger *slog.Logger, extra AttrSource) {
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			metrics.Read(samples)
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			attrs := []slog.Attr{
				slog.Uint64("goroutines", samples[0].Value.Uint64()),
				slog.Uint64("stack_inuse", ms.StackInuse),
				slog.Uint64("stack_sys", ms.StackSys),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
			}
			if extra != nil {
				attrs = append(attrs, extra()...)
			}
			logger.LogAttrs(ctx, slog.LevelInfo, "goroutine-stacks", attrs...)
		}
	}()
}
