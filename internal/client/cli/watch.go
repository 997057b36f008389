package cli

import (
	"context"
	"time"

	"serenity/internal/client/syncer"
	"serenity/internal/core/model/response"
)

type HealthChecker interface {
	Health(ctx context.Context) (response.HealthResponse, error)
}

type OnlineSetter interface {
	SetOnline(ctx context.Context, online bool) syncer.Result
}

// Watcher polls the backend health endpoint and reports connectivity
// changes to the orchestrator.
type Watcher struct {
	checker  HealthChecker
	target   OnlineSetter
	interval time.Duration
	timeout  time.Duration
	notify   func(string)
}

func NewWatcher(checker HealthChecker, target OnlineSetter, interval, timeout time.Duration, notify func(string)) *Watcher {
	if notify == nil {
		notify = func(string) {}
	}

	return &Watcher{
		checker:  checker,
		target:   target,
		interval: interval,
		timeout:  timeout,
		notify:   notify,
	}
}

// Run checks once immediately and then on every tick until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

func (w *Watcher) Check(ctx context.Context) bool {
	checkCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	_, err := w.checker.Health(checkCtx)
	online := err == nil

	res := w.target.SetOnline(ctx, online)
	w.notify(res.Notice)

	return online
}
