package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpiringLicenseNotifier publishes license_expiring events for licenses lapsing within a window.
type ExpiringLicenseNotifier interface {
	NotifyExpiringLicenses(ctx context.Context, within time.Duration) (int, error)
}

// LicenseWatcher periodically scans for licenses about to expire.
type LicenseWatcher struct {
	notifier ExpiringLicenseNotifier
	interval time.Duration
	window   time.Duration
	logger   *zap.Logger
}

// NewLicenseWatcher builds a watcher that ticks every interval.
func NewLicenseWatcher(notifier ExpiringLicenseNotifier, interval, window time.Duration, logger *zap.Logger) *LicenseWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LicenseWatcher{notifier: notifier, interval: interval, window: window, logger: logger}
}

// Run scans once immediately, then on every tick, until ctx is cancelled.
func (w *LicenseWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("license watcher stopped")
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

// Start runs the watcher in a goroutine and returns a channel closed once it exits.
func (w *LicenseWatcher) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	return done
}

func (w *LicenseWatcher) scan(ctx context.Context) {
	count, err := w.notifier.NotifyExpiringLicenses(ctx, w.window)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("license scan failed", zap.Error(err))
		}
		return
	}
	if count > 0 {
		w.logger.Info("licenses expiring soon", zap.Int("count", count), zap.Duration("window", w.window))
	}
}
