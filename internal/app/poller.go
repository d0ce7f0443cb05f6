package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/grocy-tui/internal/grocy"
)

const (
	defaultPollInterval = 10 * time.Second
	maxBackoff          = 30 * time.Second
)

type changeSource interface {
	DBChangedTime(ctx context.Context) (time.Time, error)
}

type refresher interface {
	NoteChanged(changed time.Time)
	NotePollFailure(err error)
	LoadedKinds() []grocy.ObjectKind
	RequestRefresh(kinds []grocy.ObjectKind, ignoreCache bool)
}

// StartPoller launches a background goroutine that asks Grocy for its last
// database change and refreshes stale kinds. Failed polls back off
// exponentially up to maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, store refresher, src changeSource, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	go func() {
		failures := 0
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			if err := pollOnce(ctx, store, src); err != nil {
				failures++
				logger.Warn("grocy poll failed", "error", err, "failures", failures)
			} else {
				if failures > 0 {
					logger.Info("grocy reachable again", "after_failures", failures)
				}
				failures = 0
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

func pollOnce(ctx context.Context, store refresher, src changeSource) error {
	changed, err := src.DBChangedTime(ctx)
	if err != nil {
		store.NotePollFailure(err)
		return err
	}
	store.NoteChanged(changed)
	if kinds := store.LoadedKinds(); len(kinds) > 0 {
		store.RequestRefresh(kinds, false)
	}
	return nil
}

func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	if failures > 8 {
		return maxBackoff
	}
	backoff := base << failures
	if backoff > maxBackoff {
		return maxBackoff
	}
	return backoff
}
