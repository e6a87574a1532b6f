package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"nsedash/internal/dashboard"
	"nsedash/internal/market"
)

// Snapshot is the latest completed cycle for the selected symbol. Either
// Bundle is set or Err is; a failed cycle never leaves a partial pair behind.
type Snapshot struct {
	Symbol    string            `json:"symbol"`
	Bundle    *dashboard.Bundle `json:"bundle,omitempty"`
	Err       string            `json:"error,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Refresher re-fetches and re-normalizes the selected symbol on a fixed
// interval. The job runs in singleton mode, so a slow cycle skips ticks
// instead of overlapping with itself.
type Refresher struct {
	fetcher market.Fetcher
	sched   gocron.Scheduler

	mu     sync.RWMutex
	symbol string
	latest Snapshot
}

func New(fetcher market.Fetcher, symbol string, interval time.Duration) (*Refresher, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	r := &Refresher{fetcher: fetcher, sched: sched, symbol: symbol}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.runCycle),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Refresher) Start() { r.sched.Start() }

func (r *Refresher) Stop() { _ = r.sched.Shutdown() }

// Latest returns the most recently completed snapshot.
func (r *Refresher) Latest() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// SetSymbol switches the displayed symbol and refreshes immediately rather
// than waiting for the next tick.
func (r *Refresher) SetSymbol(ctx context.Context, symbol string) Snapshot {
	r.mu.Lock()
	r.symbol = symbol
	r.mu.Unlock()
	return r.Refresh(ctx)
}

// Refresh runs one fetch-then-normalize cycle and publishes the result.
func (r *Refresher) Refresh(ctx context.Context) Snapshot {
	r.mu.RLock()
	symbol := r.symbol
	r.mu.RUnlock()

	snap := Snapshot{Symbol: symbol, UpdatedAt: time.Now().UTC()}
	quote, trade, err := r.fetcher.Fetch(ctx, symbol)
	if err != nil {
		slog.Error("refresh cycle failed", slog.String("symbol", symbol), slog.Any("error", err))
		snap.Err = fmt.Sprintf("no data available for %s, verify the symbol is correct", symbol)
	} else {
		b := dashboard.Normalize(quote, trade)
		snap.Bundle = &b
	}

	r.mu.Lock()
	// a cycle finishing for a stale symbol must not clobber the selection
	if r.symbol == symbol {
		r.latest = snap
	}
	r.mu.Unlock()
	return snap
}

func (r *Refresher) runCycle(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error(
				"panic recovered in refresh cycle",
				slog.Any("panic", rec),
				slog.String("stacktrace", string(debug.Stack())),
			)
		}
	}()
	r.Refresh(ctx)
}
