package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

// goldWinnerRepository implements the GoldWinnerRepository interface
type goldWinnerRepository struct {
	db *gorm.DB
}

// NewGoldWinnerRepository creates a new gold winner repository instance
func NewGoldWinnerRepository(db *gorm.DB) GoldWinnerRepository {
	return &goldWinnerRepository{db: db}
}

// CreateBatch inserts all winners in one transaction. Either every row is
// written or none is. The created rows are returned with lot and user.
func (r *goldWinnerRepository) CreateBatch(ctx context.Context, winners []models.GoldWinner) ([]models.GoldWinner, error) {
	created := make([]models.GoldWinner, 0, len(winners))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uint, 0, len(winners))
		for i := range winners {
			w := winners[i]
			if err := tx.Omit("Lot").Create(&w).Error; err != nil {
				return err
			}
			ids = append(ids, w.ID)
		}
		return tx.Preload("Lot.User").Where("id IN ?", ids).Order("id ASC").Find(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a winner by its ID
func (r *goldWinnerRepository) GetByID(ctx context.Context, id uint) (*models.GoldWinner, error) {
	var winner models.GoldWinner
	if err := r.db.WithContext(ctx).First(&winner, id).Error; err != nil {
		return nil, err
	}
	return &winner, nil
}

// WonLotIDs returns which of lotIDs already won in the program, in any month
func (r *goldWinnerRepository) WonLotIDs(ctx context.Context, programID uint, lotIDs []uint) ([]uint, error) {
	var won []uint
	if len(lotIDs) == 0 {
		return won, nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.GoldWinner{}).
		Distinct("lot_id").
		Where("program_id = ? AND lot_id IN ?", programID, lotIDs).
		Order("lot_id ASC").
		Pluck("lot_id", &won).Error
	return won, err
}

// ListByProgram returns a program's winners, newest year first, months ascending
func (r *goldWinnerRepository) ListByProgram(ctx context.Context, programID uint) ([]models.GoldWinner, error) {
	var winners []models.GoldWinner
	err := r.db.WithContext(ctx).
		Preload("Lot.User").
		Where("program_id = ?", programID).
		Order("year DESC").
		Order("month ASC").
		Find(&winners).Error
	return winners, err
}

// ListByPeriod returns the winners of a calendar month across programs in
// creation order. A limit <= 0 returns all of them.
func (r *goldWinnerRepository) ListByPeriod(ctx context.Context, year, month, limit int) ([]models.GoldWinner, error) {
	var winners []models.GoldWinner
	q := r.db.WithContext(ctx).
		Preload("Lot.User").
		Where("year = ? AND month = ?", year, month).
		Order("created_at ASC").
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&winners).Error
	return winners, err
}

// SlotTakenByOther reports whether another winner holds (program, month, year)
func (r *goldWinnerRepository) SlotTakenByOther(ctx context.Context, exceptID, programID uint, year, month int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GoldWinner{}).
		Where("id <> ? AND program_id = ? AND year = ? AND month = ?", exceptID, programID, year, month).
		Count(&count).Error
	return count > 0, err
}

// Update writes all editable columns and returns the row with lot and user
func (r *goldWinnerRepository) Update(ctx context.Context, winner *models.GoldWinner) (*models.GoldWinner, error) {
	db := r.db.WithContext(ctx)
	err := db.Model(winner).
		Select("program_id", "lot_id", "month", "year", "prize_amount").
		Updates(winner).Error
	if err != nil {
		return nil, err
	}
	var stored models.GoldWinner
	if err := db.Preload("Lot.User").First(&stored, winner.ID).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// Delete removes a winner
func (r *goldWinnerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.GoldWinner{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
