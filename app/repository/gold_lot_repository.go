package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

// goldLotRepository implements the GoldLotRepository interface
type goldLotRepository struct {
	db *gorm.DB
}

// NewGoldLotRepository creates a new gold lot repository instance
func NewGoldLotRepository(db *gorm.DB) GoldLotRepository {
	return &goldLotRepository{db: db}
}

// Create inserts the lot and loads its user
func (r *goldLotRepository) Create(ctx context.Context, lot *models.GoldLot) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(lot).Error; err != nil {
		return err
	}
	return db.Preload("User").First(lot, lot.ID).Error
}

// GetByID retrieves a lot without relations
func (r *goldLotRepository) GetByID(ctx context.Context, id uint) (*models.GoldLot, error) {
	var lot models.GoldLot
	if err := r.db.WithContext(ctx).First(&lot, id).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

// GetDetails retrieves a lot with user, program, payments by month and wins
func (r *goldLotRepository) GetDetails(ctx context.Context, id uint) (*models.GoldLot, error) {
	var lot models.GoldLot
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Program").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("month ASC").Order("year ASC") }).
		Preload("Winners").
		First(&lot, id).Error
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

// ListByProgram returns every lot of a program with user, payments and wins
func (r *goldLotRepository) ListByProgram(ctx context.Context, programID uint) ([]models.GoldLot, error) {
	var lots []models.GoldLot
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Payments").
		Preload("Winners").
		Where("program_id = ?", programID).
		Order("id ASC").
		Find(&lots).Error
	return lots, err
}

// ListForExport returns the lots of a program with their paid payments in
// chronological order
func (r *goldLotRepository) ListForExport(ctx context.Context, programID uint) ([]models.GoldLot, error) {
	var lots []models.GoldLot
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_paid = ?", true).Order("year ASC").Order("month ASC")
		}).
		Where("program_id = ?", programID).
		Order("id ASC").
		Find(&lots).Error
	return lots, err
}

// ListActiveByUser returns the user's lots in the active program with payments
// and wins newest first
func (r *goldLotRepository) ListActiveByUser(ctx context.Context, userID uint) ([]models.GoldLot, error) {
	newestFirst := func(db *gorm.DB) *gorm.DB {
		return db.Order("year DESC").Order("month DESC")
	}
	var lots []models.GoldLot
	err := r.db.WithContext(ctx).
		Preload("Program").
		Preload("Payments", newestFirst).
		Preload("Winners", newestFirst).
		Joins("JOIN gold_programs ON gold_programs.id = gold_lots.program_id").
		Where("gold_lots.user_id = ? AND gold_programs.is_active = ?", userID, true).
		Order("gold_lots.id ASC").
		Find(&lots).Error
	return lots, err
}

// ListByUser returns the user's lots across all programs with program and
// payments, newest payment first
func (r *goldLotRepository) ListByUser(ctx context.Context, userID uint) ([]models.GoldLot, error) {
	var lots []models.GoldLot
	err := r.db.WithContext(ctx).
		Preload("Program").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("year DESC").Order("month DESC")
		}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&lots).Error
	return lots, err
}

// FindIDsInProgram returns which of ids are lots of the program
func (r *goldLotRepository) FindIDsInProgram(ctx context.Context, programID uint, ids []uint) ([]uint, error) {
	var found []uint
	if len(ids) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.GoldLot{}).
		Where("program_id = ? AND id IN ?", programID, ids).
		Pluck("id", &found).Error
	return found, err
}

// CountHistory counts the payments and wins recorded against a lot
func (r *goldLotRepository) CountHistory(ctx context.Context, id uint) (int64, int64, error) {
	db := r.db.WithContext(ctx)
	var payments, winners int64
	if err := db.Model(&models.GoldPayment{}).Where("lot_id = ?", id).Count(&payments).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&models.GoldWinner{}).Where("lot_id = ?", id).Count(&winners).Error; err != nil {
		return 0, 0, err
	}
	return payments, winners, nil
}

// CountInActivePrograms counts the lots held in the active program
func (r *goldLotRepository) CountInActivePrograms(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GoldLot{}).
		Joins("JOIN gold_programs ON gold_programs.id = gold_lots.program_id").
		Where("gold_programs.is_active = ?", true).
		Count(&count).Error
	return count, err
}

// Delete removes a lot
func (r *goldLotRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.GoldLot{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
