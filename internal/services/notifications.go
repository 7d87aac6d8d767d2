package services

import (
	"time"

	"gorm.io/gorm"

	"coinfolio/internal/models"
)

// Notification list limits.
const (
	DefaultNotificationLimit = 25
	MaxNotificationLimit     = 100
)

// NotificationService owns the notification collection.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// List returns notifications newest first. A non-positive limit falls back
// to the default; anything above the cap is clamped.
func (s *NotificationService) List(limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	if limit > MaxNotificationLimit {
		limit = MaxNotificationLimit
	}

	var notifications []models.Notification
	err := s.db.Order("created_at DESC, id DESC").Limit(limit).Find(&notifications).Error
	return notifications, err
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

// MarkAllRead flips every unread notification to read and returns the
// number of rows affected. A single UPDATE keeps the count exact under
// concurrent calls.
func (s *NotificationService) MarkAllRead() (int64, error) {
	res := s.db.Model(&models.Notification{}).Where("is_read = ?", false).Update("is_read", true)
	return res.RowsAffected, res.Error
}

// Create validates and persists a manual notification. Severity defaults
// to info when omitted.
func (s *NotificationService) Create(title, message, severity, assetSymbol string, priceTarget *float64) (*models.Notification, error) {
	if title == "" {
		return nil, ErrMissingTitle
	}
	if message == "" {
		return nil, ErrMissingMessage
	}
	if severity == "" {
		severity = models.SeverityInfo
	}
	if !models.ValidSeverity(severity) {
		return nil, ErrInvalidSeverity
	}

	notification := &models.Notification{
		Title:       title,
		Message:     message,
		Severity:    severity,
		AssetSymbol: assetSymbol,
		PriceTarget: priceTarget,
		IsRead:      false,
		CreatedAt:   time.Now(),
	}
	if err := s.db.Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

// Insert persists a pipeline-generated notification as-is. Trusted path;
// the pipeline sets every field including the observation timestamp.
func (s *NotificationService) Insert(notification *models.Notification) error {
	return s.db.Create(notification).Error
}
