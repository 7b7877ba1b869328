package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

// contentRepository implements the ContentRepository interface
type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new content repository instance
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

// LatestServices returns the most recently created services
func (r *contentRepository) LatestServices(ctx context.Context, limit int) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&services).Error
	return services, err
}

// LatestJobs returns the most recently created job postings
func (r *contentRepository) LatestJobs(ctx context.Context, limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

// FirstBanner returns the first banner, or nil when there is none
func (r *contentRepository) FirstBanner(ctx context.Context) (*models.Banner, error) {
	var banner models.Banner
	err := r.db.WithContext(ctx).Order("id ASC").First(&banner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &banner, nil
}

// LatestNews returns the most recent news articles
func (r *contentRepository) LatestNews(ctx context.Context, limit int) ([]models.News, error) {
	var news []models.News
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&news).Error
	return news, err
}

// CountActiveInvestments counts active long term investments
func (r *contentRepository) CountActiveInvestments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LongTermInvestment{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// InvestmentsByUser returns the user's investments with deposits, latest deposit first
func (r *contentRepository) InvestmentsByUser(ctx context.Context, userID uint) ([]models.LongTermInvestment, error) {
	var investments []models.LongTermInvestment
	err := r.db.WithContext(ctx).
		Preload("Deposits", func(db *gorm.DB) *gorm.DB {
			return db.Order("deposit_date DESC")
		}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&investments).Error
	return investments, err
}
