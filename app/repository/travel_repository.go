package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

// travelRepository implements the TravelRepository interface
type travelRepository struct {
	db *gorm.DB
}

// NewTravelRepository creates a new travel repository instance
func NewTravelRepository(db *gorm.DB) TravelRepository {
	return &travelRepository{db: db}
}

func (r *travelRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("User").Preload("FromAirport").Preload("ToAirport")
}

// Create inserts the travel and loads its relations
func (r *travelRepository) Create(ctx context.Context, travel *models.Travel) error {
	if err := r.db.WithContext(ctx).Omit("User", "FromAirport", "ToAirport").Create(travel).Error; err != nil {
		return err
	}
	return r.withRelations(ctx).First(travel, travel.ID).Error
}

// GetByID retrieves a travel with user and airports
func (r *travelRepository) GetByID(ctx context.Context, id uint) (*models.Travel, error) {
	var travel models.Travel
	if err := r.withRelations(ctx).First(&travel, id).Error; err != nil {
		return nil, err
	}
	return &travel, nil
}

// List returns all travels, latest travel date first
func (r *travelRepository) List(ctx context.Context) ([]models.Travel, error) {
	var travels []models.Travel
	err := r.withRelations(ctx).Order("travel_date DESC").Find(&travels).Error
	return travels, err
}

// Upcoming returns travels on or after from, soonest first
func (r *travelRepository) Upcoming(ctx context.Context, from time.Time, offset, limit int) ([]models.Travel, error) {
	var travels []models.Travel
	err := r.withRelations(ctx).
		Where("travel_date >= ?", from).
		Order("travel_date ASC").
		Offset(offset).Limit(limit).
		Find(&travels).Error
	return travels, err
}

// CountUpcoming counts travels on or after from
func (r *travelRepository) CountUpcoming(ctx context.Context, from time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Travel{}).Where("travel_date >= ?", from).Count(&count).Error
	return count, err
}

// NextAvailable returns AVAILABLE travels that have not departed yet: any day
// after today, or today with a travel time not earlier than now.
func (r *travelRepository) NextAvailable(ctx context.Context, now time.Time, limit int) ([]models.Travel, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfTomorrow := startOfDay.AddDate(0, 0, 1)

	var travels []models.Travel
	err := r.withRelations(ctx).
		Where("status = ?", models.TRAVEL_STATUS_AVAILABLE).
		Where("travel_date >= ?", startOfDay).
		Where("travel_date >= ? OR travel_time >= ?", startOfTomorrow, now.Format("15:04")).
		Order("travel_date ASC").
		Order("travel_time ASC").
		Limit(limit).
		Find(&travels).Error
	return travels, err
}

// Update writes the editable travel columns and reloads relations
func (r *travelRepository) Update(ctx context.Context, travel *models.Travel) error {
	err := r.db.WithContext(ctx).Model(travel).
		Select("from_airport_id", "to_airport_id", "travel_date", "travel_time", "status").
		Updates(travel).Error
	if err != nil {
		return err
	}
	return r.withRelations(ctx).First(travel, travel.ID).Error
}

// Delete removes a travel
func (r *travelRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Travel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AirportsExist reports whether every id is a known airport
func (r *travelRepository) AirportsExist(ctx context.Context, ids ...uint) (bool, error) {
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Airport{}).Where("id IN ?", ids).Count(&count).Error
	return count == int64(len(unique)), err
}

// ListAirports returns all airports by name
func (r *travelRepository) ListAirports(ctx context.Context) ([]models.Airport, error) {
	var airports []models.Airport
	err := r.db.WithContext(ctx).Order("name ASC").Find(&airports).Error
	return airports, err
}
