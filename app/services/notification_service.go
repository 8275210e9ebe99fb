package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bookhive/bookhive/app/models"
	"github.com/bookhive/bookhive/app/repositories"
	"github.com/bookhive/bookhive/pkg/ws"
)

// ErrNotificationNotFound is returned when the notification does not exist.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService stores customer notifications and pushes them to open
// WebSocket connections.
type NotificationService struct {
	notifications *repositories.NotificationRepository
	hub           *ws.Hub
}

// NewNotificationService creates the service. hub may be nil in tests; the
// live push is then skipped.
func NewNotificationService(notifications *repositories.NotificationRepository, hub *ws.Hub) *NotificationService {
	return &NotificationService{notifications: notifications, hub: hub}
}

// Create inserts the notification and pushes it to the customer's open
// connections.
func (s *NotificationService) Create(ctx context.Context, customerID uint, content string) (*models.Notification, error) {
	n := models.Notification{CustomerID: customerID, Content: content}
	if err := s.notifications.Create(ctx, &n); err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.Push(customerID, n)
	}
	return &n, nil
}

// ByCustomer returns the customer's notifications, newest first.
func (s *NotificationService) ByCustomer(ctx context.Context, customerID uint) ([]models.Notification, error) {
	return s.notifications.ByCustomer(ctx, customerID)
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id uint) error {
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// MarkAllRead flags every unread notification of the customer as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, customerID uint) error {
	return s.notifications.MarkAllRead(ctx, customerID)
}
