package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

// subWingRepository implements the SubWingRepository interface
type subWingRepository struct {
	db *gorm.DB
}

// NewSubWingRepository creates a new sub-wing repository instance
func NewSubWingRepository(db *gorm.DB) SubWingRepository {
	return &subWingRepository{db: db}
}

// Create inserts a sub-wing
func (r *subWingRepository) Create(ctx context.Context, subWing *models.SubWing) error {
	return r.db.WithContext(ctx).Omit("Members").Create(subWing).Error
}

// GetByID retrieves a sub-wing without its members
func (r *subWingRepository) GetByID(ctx context.Context, id uint) (*models.SubWing, error) {
	var subWing models.SubWing
	if err := r.db.WithContext(ctx).First(&subWing, id).Error; err != nil {
		return nil, err
	}
	return &subWing, nil
}

// GetWithMembers retrieves a sub-wing with its members ordered by position
func (r *subWingRepository) GetWithMembers(ctx context.Context, id uint) (*models.SubWing, error) {
	var subWing models.SubWing
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Order("id ASC")
		}).
		First(&subWing, id).Error
	if err != nil {
		return nil, err
	}
	return &subWing, nil
}

// ListWithCounts returns every sub-wing with its member count
func (r *subWingRepository) ListWithCounts(ctx context.Context) ([]SubWingWithCount, error) {
	var subWings []models.SubWing
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&subWings).Error; err != nil {
		return nil, err
	}

	type row struct {
		SubWingID uint
		Members   int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.SubWingMember{}).
		Select("sub_wing_id, COUNT(*) AS members").
		Group("sub_wing_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, c := range rows {
		counts[c.SubWingID] = c.Members
	}

	out := make([]SubWingWithCount, len(subWings))
	for i, s := range subWings {
		out[i] = SubWingWithCount{SubWing: s, MemberCount: counts[s.ID]}
	}
	return out, nil
}

// Update writes the given columns and returns the reloaded sub-wing
func (r *subWingRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.SubWing, error) {
	subWing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(subWing).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// AddMember inserts a member
func (r *subWingRepository) AddMember(ctx context.Context, member *models.SubWingMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// ListMembers returns a sub-wing's members, oldest first
func (r *subWingRepository) ListMembers(ctx context.Context, subWingID uint) ([]models.SubWingMember, error) {
	var members []models.SubWingMember
	err := r.db.WithContext(ctx).
		Where("sub_wing_id = ?", subWingID).
		Order("id ASC").Order("position ASC").
		Find(&members).Error
	return members, err
}

// UpdateMember writes the given columns and returns the reloaded member
func (r *subWingRepository) UpdateMember(ctx context.Context, id uint, fields map[string]interface{}) (*models.SubWingMember, error) {
	var member models.SubWingMember
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&member).Updates(fields).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// DeleteMember removes a member
func (r *subWingRepository) DeleteMember(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.SubWingMember{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
