package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

// notificationRepository implements the NotificationRepository interface
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository instance
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create stores a notification
func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Omit("User").Create(notification).Error
}

// ListAll returns notifications newest first with their user
func (r *notificationRepository) ListAll(ctx context.Context, offset, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// ListByUser returns the user's notifications newest first
func (r *notificationRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// MarkRead flags a notification as read. It reports false when the id is unknown.
func (r *notificationRepository) MarkRead(ctx context.Context, id uint) (bool, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, r.db.WithContext(ctx).Model(&notification).Update("is_read", true).Error
}
