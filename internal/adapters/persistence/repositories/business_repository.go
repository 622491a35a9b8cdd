package repositories

import (
	"context"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// businessRepository implements BusinessRepository interface
type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business directory repository
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

// Create creates a new business listing
func (r *businessRepository) Create(ctx context.Context, business *models.Business) error {
	return r.db.WithContext(ctx).Create(business).Error
}

// GetByID gets a business listing by ID
func (r *businessRepository) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	var business models.Business
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&business).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// Update updates a business listing
func (r *businessRepository) Update(ctx context.Context, business *models.Business) error {
	return r.db.WithContext(ctx).Save(business).Error
}

// Delete soft deletes a business listing
func (r *businessRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Business{}, id).Error
}

// ListActive lists active listings with optional category filter
func (r *businessRepository) ListActive(ctx context.Context, category string, offset, limit int) ([]*models.Business, int64, error) {
	var businesses []*models.Business
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Business{}).Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&businesses).Error; err != nil {
		return nil, 0, err
	}

	return businesses, total, nil
}

// ListByMember lists a member's business listings
func (r *businessRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.Business, error) {
	var businesses []*models.Business
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&businesses).Error
	if err != nil {
		return nil, err
	}
	return businesses, nil
}
