package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

// eventRepository implements the EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository instance
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// GetByID retrieves an event by its ID
func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListUnfinished returns unfinished events newest first
func (r *eventRepository) ListUnfinished(ctx context.Context, offset, limit int) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("is_finished = ?", false).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&events).Error
	return events, err
}

// CountUnfinished counts unfinished events
func (r *eventRepository) CountUnfinished(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Event{}).Where("is_finished = ?", false).Count(&count).Error
	return count, err
}

// Latest returns the most recently created events
func (r *eventRepository) Latest(ctx context.Context, limit int) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

// Suggested returns upcoming unfinished events other than excludeID
func (r *eventRepository) Suggested(ctx context.Context, excludeID uint, limit int) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("is_finished = ? AND id <> ?", false, excludeID).
		Order("event_date ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

type eventCountRow struct {
	EventID uint
	Total   int64
}

// RegistrationCounts returns the number of registrations per event
func (r *eventRepository) RegistrationCounts(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}
	var rows []eventCountRow
	err := r.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Select("event_id, COUNT(*) AS total").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.EventID] = row.Total
	}
	return counts, nil
}

// RegistrantAvatars returns up to perEvent registrant profile images per event,
// earliest registrations first. Registrants without an image yield nil entries.
func (r *eventRepository) RegistrantAvatars(ctx context.Context, eventIDs []uint, perEvent int) (map[uint][][]byte, error) {
	avatars := make(map[uint][][]byte, len(eventIDs))
	db := r.db.WithContext(ctx)
	for _, id := range eventIDs {
		var images [][]byte
		err := db.Model(&models.EventRegistration{}).
			Joins("JOIN users ON users.id = event_registrations.user_id").
			Where("event_registrations.event_id = ?", id).
			Order("event_registrations.id ASC").
			Limit(perEvent).
			Pluck("users.profile_image", &images).Error
		if err != nil {
			return nil, err
		}
		avatars[id] = images
	}
	return avatars, nil
}

// IsRegistered reports whether the user registered for the event
func (r *eventRepository) IsRegistered(ctx context.Context, eventID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

// Register inserts a registration. A second registration of the same user
// violates the (event_id, user_id) unique index.
func (r *eventRepository) Register(ctx context.Context, registration *models.EventRegistration) error {
	return r.db.WithContext(ctx).Omit("Event", "User").Create(registration).Error
}

// AttendedByUser returns the user's attended registrations with their events,
// most recent event first
func (r *eventRepository) AttendedByUser(ctx context.Context, userID uint) ([]models.EventRegistration, error) {
	var regs []models.EventRegistration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Joins("JOIN events ON events.id = event_registrations.event_id").
		Where("event_registrations.user_id = ? AND event_registrations.is_attended = ?", userID, true).
		Order("events.event_date DESC").
		Find(&regs).Error
	return regs, err
}

// RegistrationsByUser returns all of the user's registrations with their events,
// most recent event first
func (r *eventRepository) RegistrationsByUser(ctx context.Context, userID uint) ([]models.EventRegistration, error) {
	var regs []models.EventRegistration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Joins("JOIN events ON events.id = event_registrations.event_id").
		Where("event_registrations.user_id = ?", userID).
		Order("events.event_date DESC").
		Order("event_registrations.id ASC").
		Find(&regs).Error
	return regs, err
}
