package worker

import (
	"context"

	"github.com/spec-kit/it-manager/internal/service"
)

// StartNotificationWorker registers notification handlers and then launches the
// license watcher, so expiry events from its first scan already reach the handlers.
// The returned channel closes once the watcher exits; it is closed immediately
// when there is no watcher.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, watcher *LicenseWatcher) <-chan struct{} {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if watcher == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return watcher.Start(ctx)
}
