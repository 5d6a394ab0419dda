package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"ftth-viability-be/internal/model"
	"ftth-viability-be/internal/pkg/logger"
	"ftth-viability-be/internal/pkg/mailer"
	"ftth-viability-be/internal/repository"
	"ftth-viability-be/pkg/events"
	pktNats "ftth-viability-be/pkg/nats"
)

// NotificationDelivery pushes real-time updates. Implemented by the
// WebSocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

// NotificationService is the event bus worker: it turns lifecycle events
// into inbox rows and pushes them over the configured channels.
type NotificationService struct {
	repo         repository.NotificationRepository
	subscriber   *pktNats.Subscriber
	delivery     NotificationDelivery
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	sub *pktNats.Subscriber,
	delivery NotificationDelivery,
	emailService mailer.IEmailService,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		repo:         repo,
		subscriber:   sub,
		delivery:     delivery,
		emailService: emailService,
		logger:       log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", typeCode), map[string]interface{}{"type": typeCode})

	config, err := s.repo.GetNotificationTypeByCode(ctx, typeCode)
	if err != nil {
		// Events without a registry entry (e.g. USER_LOGIN) are not an error,
		// they are simply not notified.
		s.logger.Warn("NotificationService", fmt.Sprintf("Config not found for code: '%s'", typeCode), map[string]interface{}{"error": err.Error()})
		return nil
	}
	if !config.IsActive {
		s.logger.Info("NotificationService", fmt.Sprintf("Notification type '%s' is inactive", typeCode), nil)
		return nil
	}

	recipients, err := s.resolveRecipients(ctx, config, event)
	if err != nil {
		s.logger.Error("NotificationService", fmt.Sprintf("Error resolving recipients for %s", typeCode), map[string]interface{}{"error": err})
		return err // NATS will redeliver
	}
	s.logger.Info("NotificationService", "Recipients resolved", map[string]interface{}{"count": len(recipients), "type": config.TargetType})

	channels := s.channels(config)

	for _, userID := range recipients {
		notif := s.buildNotification(userID, config, event)

		if err := s.repo.CreateNotification(ctx, &notif); err != nil {
			s.logger.Error("NotificationService", fmt.Sprintf("Error saving notification for user %s", userID), map[string]interface{}{"error": err})
			continue
		}

		if channels["web"] && s.delivery != nil {
			s.delivery.Send(userID, notif)
		}

		if channels["email"] && s.emailService != nil {
			s.sendEmail(ctx, userID, config, event, notif.Message)
		}
	}

	return nil
}

func (s *NotificationService) resolveRecipients(ctx context.Context, config *model.NotificationType, event events.Event) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID

	switch config.TargetType {
	case "SELF":
		// The event payload names its target by convention.
		if uidStr, ok := event.Payload()["user_id"].(string); ok {
			uid, err := uuid.Parse(uidStr)
			if err == nil {
				userIDs = append(userIDs, uid)
			}
		} else {
			s.logger.Warn("NotificationService", fmt.Sprintf("TargetType SELF but no user_id found in payload for event %s", event.EventType()), nil)
		}

	case "ROLE":
		users, err := s.repo.GetUsersByRole(ctx, config.TargetRole)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			userIDs = append(userIDs, u.Id)
		}
	}

	return userIDs, nil
}

func (s *NotificationService) channels(config *model.NotificationType) map[string]bool {
	out := map[string]bool{"web": true}
	if len(config.Channels) == 0 {
		return out
	}
	var list []string
	if err := json.Unmarshal(config.Channels, &list); err != nil {
		return out
	}
	out = map[string]bool{}
	for _, c := range list {
		out[c] = true
	}
	return out
}

func (s *NotificationService) buildNotification(userID uuid.UUID, config *model.NotificationType, event events.Event) model.Notification {
	// Simple template engine: {key} placeholders fill from the payload.
	msg := config.Template
	payload := event.Payload()

	for k, v := range payload {
		placeholder := fmt.Sprintf("{%s}", k)
		valStr := fmt.Sprintf("%v", v)
		msg = strings.ReplaceAll(msg, placeholder, valStr)
	}

	var actorID *uuid.UUID
	if actorStr, ok := payload["actor_id"].(string); ok {
		if aid, err := uuid.Parse(actorStr); err == nil {
			actorID = &aid
		}
	}

	var requestID *uuid.UUID
	if ridStr, ok := payload["request_id"].(string); ok {
		if rid, err := uuid.Parse(ridStr); err == nil {
			requestID = &rid
		}
	}

	metaMap := make(map[string]interface{})
	for k, v := range payload {
		metaMap[k] = v
	}
	if requestID != nil {
		metaMap["action_url"] = fmt.Sprintf("/requests/%s", requestID.String())
	}
	metaJSON, _ := json.Marshal(metaMap)

	return model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		ActorID:   actorID,
		TypeCode:  config.Code,
		RequestID: requestID,
		Title:     config.DisplayName,
		Message:   msg,
		Metadata:  datatypes.JSON(metaJSON),
		CreatedAt: time.Now(),
		IsRead:    false,
	}
}

func (s *NotificationService) sendEmail(ctx context.Context, userID uuid.UUID, config *model.NotificationType, event events.Event, message string) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		s.logger.Warn("NotificationService", fmt.Sprintf("Cannot email user %s", userID), map[string]interface{}{"error": err})
		return
	}

	code, _ := event.Payload()["code"].(string)
	outcome := strings.ToLower(strings.TrimPrefix(config.Code, "VIABILITY_"))

	go func() {
		if emailErr := s.emailService.SendAuditOutcome(user.Email, code, outcome, message); emailErr != nil {
			s.logger.Error("NotificationService", fmt.Sprintf("Error sending outcome email to %s", user.Email), map[string]interface{}{"error": emailErr})
		}
	}()
}

// GetNotifications fetches a page of a user's inbox.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

// GetUnreadCount fetches unread count.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// MarkAsRead marks a notification as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
