package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

// goldProgramRepository implements the GoldProgramRepository interface
type goldProgramRepository struct {
	db *gorm.DB
}

// NewGoldProgramRepository creates a new gold program repository instance
func NewGoldProgramRepository(db *gorm.DB) GoldProgramRepository {
	return &goldProgramRepository{db: db}
}

// Create inserts an active program. A second active program violates the
// unique active_lock index.
func (r *goldProgramRepository) Create(ctx context.Context, program *models.GoldProgram) error {
	program.IsActive = true
	program.ActiveLock = models.ActiveLockValue()
	return r.db.WithContext(ctx).Create(program).Error
}

// FindActive returns the active program without relations
func (r *goldProgramRepository) FindActive(ctx context.Context) (*models.GoldProgram, error) {
	var program models.GoldProgram
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&program).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

// FindActiveWithDetails returns the active program with lots and winners
func (r *goldProgramRepository) FindActiveWithDetails(ctx context.Context) (*models.GoldProgram, error) {
	var program models.GoldProgram
	err := r.db.WithContext(ctx).
		Preload("Lots.User").
		Preload("Winners.Lot.User").
		Where("is_active = ?", true).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

// FindActiveByID returns the program only if it is active
func (r *goldProgramRepository) FindActiveByID(ctx context.Context, id uint) (*models.GoldProgram, error) {
	var program models.GoldProgram
	if err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&program).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

// GetByID retrieves a program by its ID
func (r *goldProgramRepository) GetByID(ctx context.Context, id uint) (*models.GoldProgram, error) {
	var program models.GoldProgram
	if err := r.db.WithContext(ctx).First(&program, id).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

// GetDetails loads a program with lots (user, payments, wins in chronological
// order) and its winners, newest year first and months ascending within a year.
func (r *goldProgramRepository) GetDetails(ctx context.Context, id uint) (*models.GoldProgram, error) {
	chronological := func(db *gorm.DB) *gorm.DB {
		return db.Order("year ASC").Order("month ASC")
	}
	var program models.GoldProgram
	err := r.db.WithContext(ctx).
		Preload("Lots", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Lots.User").
		Preload("Lots.Payments", chronological).
		Preload("Lots.Winners", chronological).
		Preload("Winners", func(db *gorm.DB) *gorm.DB {
			return db.Order("year DESC").Order("month ASC")
		}).
		Preload("Winners.Lot.User").
		First(&program, id).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

type programCountRow struct {
	ProgramID uint
	Total     int64
}

// ListWithCounts returns all programs newest first with lot and winner counts
func (r *goldProgramRepository) ListWithCounts(ctx context.Context) ([]ProgramWithCounts, error) {
	db := r.db.WithContext(ctx)

	var programs []models.GoldProgram
	if err := db.Order("created_at DESC").Order("id DESC").Find(&programs).Error; err != nil {
		return nil, err
	}

	var lotRows, winnerRows []programCountRow
	if err := db.Model(&models.GoldLot{}).
		Select("program_id, COUNT(*) AS total").
		Group("program_id").
		Scan(&lotRows).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.GoldWinner{}).
		Select("program_id, COUNT(*) AS total").
		Group("program_id").
		Scan(&winnerRows).Error; err != nil {
		return nil, err
	}

	lots := make(map[uint]int64, len(lotRows))
	for _, row := range lotRows {
		lots[row.ProgramID] = row.Total
	}
	winners := make(map[uint]int64, len(winnerRows))
	for _, row := range winnerRows {
		winners[row.ProgramID] = row.Total
	}

	result := make([]ProgramWithCounts, 0, len(programs))
	for _, p := range programs {
		result = append(result, ProgramWithCounts{
			GoldProgram: p,
			Count:       ProgramCounts{Lots: lots[p.ID], Winners: winners[p.ID]},
		})
	}
	return result, nil
}

// End deactivates the program if it is currently active. It reports false when
// no active program has that id.
func (r *goldProgramRepository) End(ctx context.Context, id uint, endedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.GoldProgram{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active":   false,
			"active_lock": nil,
			"end_date":    endedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
