package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/it-manager/internal/config"
	"github.com/spec-kit/it-manager/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     loggerOrNop(logger),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventDepartmentCreated, n.handleDepartmentCreated)
	n.dispatcher.Subscribe(events.EventUserDepartmentChanged, n.handleUserDepartmentChanged)
	n.dispatcher.Subscribe(events.EventLicenseExpirationChanged, n.handleLicenseExpirationChanged)
	n.dispatcher.Subscribe(events.EventLicenseExpiring, n.handleLicenseExpiring)
	n.dispatcher.Subscribe(events.EventInkStockChanged, n.handleInkStockChanged)
	n.dispatcher.Subscribe(events.EventInkStockDepleted, n.handleInkStockDepleted)
}

func (n *NotificationService) handleDepartmentCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("DepartmentCreated", zap.String("department_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleUserDepartmentChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("UserDepartmentChanged", zap.String("user_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLicenseExpirationChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("LicenseExpirationChanged", zap.String("license_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLicenseExpiring(ctx context.Context, event events.Event) error {
	n.logger.Warn("LicenseExpiring", zap.String("license_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleInkStockChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("InkStockChanged", zap.String("printer_id", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleInkStockDepleted(ctx context.Context, event events.Event) error {
	n.logger.Warn("InkStockDepleted", zap.String("printer_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
