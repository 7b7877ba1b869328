package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

// goldPaymentRepository implements the GoldPaymentRepository interface
type goldPaymentRepository struct {
	db *gorm.DB
}

// NewGoldPaymentRepository creates a new gold payment repository instance
func NewGoldPaymentRepository(db *gorm.DB) GoldPaymentRepository {
	return &goldPaymentRepository{db: db}
}

// Upsert inserts the payment or, when the (lot, year, month) slot exists,
// overwrites its paid flag and timestamp. The stored row is returned with its lot.
func (r *goldPaymentRepository) Upsert(ctx context.Context, payment *models.GoldPayment) (*models.GoldPayment, error) {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "lot_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_paid", "paid_at", "updated_at"}),
	}).Create(payment).Error
	if err != nil {
		return nil, err
	}

	var stored models.GoldPayment
	err = db.Preload("Lot").
		Where("lot_id = ? AND year = ? AND month = ?", payment.LotID, payment.Year, payment.Month).
		First(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetByID retrieves a payment by its ID
func (r *goldPaymentRepository) GetByID(ctx context.Context, id uint) (*models.GoldPayment, error) {
	var payment models.GoldPayment
	if err := r.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// SlotTakenByOther reports whether another payment row already holds the slot
func (r *goldPaymentRepository) SlotTakenByOther(ctx context.Context, exceptID, lotID uint, year, month int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GoldPayment{}).
		Where("id <> ? AND lot_id = ? AND year = ? AND month = ?", exceptID, lotID, year, month).
		Count(&count).Error
	return count > 0, err
}

// UpdatePeriod moves a payment to another month and stamps paid_at. The lot is
// left unchanged.
func (r *goldPaymentRepository) UpdatePeriod(ctx context.Context, id uint, year, month int, paidAt time.Time) (*models.GoldPayment, error) {
	payment, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Model(payment).Updates(map[string]interface{}{
		"year":    year,
		"month":   month,
		"paid_at": paidAt,
	}).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a payment
func (r *goldPaymentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.GoldPayment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountPaidInActivePrograms counts the user's paid months in the active program
func (r *goldPaymentRepository) CountPaidInActivePrograms(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GoldPayment{}).
		Joins("JOIN gold_lots ON gold_lots.id = gold_payments.lot_id").
		Joins("JOIN gold_programs ON gold_programs.id = gold_lots.program_id").
		Where("gold_lots.user_id = ? AND gold_programs.is_active = ? AND gold_payments.is_paid = ?", userID, true, true).
		Count(&count).Error
	return count, err
}
