package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/it-manager/internal/events"
	"github.com/spec-kit/it-manager/internal/repository"
	apperrors "github.com/spec-kit/it-manager/pkg/util/errorutil"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// publisher wraps an optional dispatcher; handler failures are logged, never surfaced to callers.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func (p publisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil && p.logger != nil {
		p.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func clockOrSystem(clock Clock) Clock {
	if clock == nil {
		return systemClock
	}
	return clock
}

// notFound translates repository absence into a NOT_FOUND domain error for resource.
func notFound(err error, resource, idKey, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, map[string]any{idKey: id})
	}
	return apperrors.MapError(err)
}
