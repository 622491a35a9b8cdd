package repositories

import (
	"context"
	"time"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// withdrawalRepository implements WithdrawalRepository interface
type withdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

// Create creates a new withdrawal request
func (r *withdrawalRepository) Create(ctx context.Context, withdrawal *models.WithdrawalRequest) error {
	return r.db.WithContext(ctx).Create(withdrawal).Error
}

// GetByID gets a withdrawal request by ID
func (r *withdrawalRepository) GetByID(ctx context.Context, id uint) (*models.WithdrawalRequest, error) {
	var withdrawal models.WithdrawalRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&withdrawal).Error
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// ListByMember lists a member's withdrawal requests, newest first
func (r *withdrawalRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.WithdrawalRequest, error) {
	var withdrawals []*models.WithdrawalRequest
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&withdrawals).Error
	if err != nil {
		return nil, err
	}
	return withdrawals, nil
}

// List lists withdrawal requests with optional status filter and pagination
func (r *withdrawalRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.WithdrawalRequest, int64, error) {
	var withdrawals []*models.WithdrawalRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&models.WithdrawalRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&withdrawals).Error; err != nil {
		return nil, 0, err
	}

	return withdrawals, total, nil
}

// UpdateStatusIf transitions a withdrawal's status with a precondition
// on the current status
func (r *withdrawalRepository) UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus, notes string, processedAt *time.Time) (bool, error) {
	updates := map[string]interface{}{"status": toStatus}
	if notes != "" {
		updates["admin_notes"] = notes
	}
	if processedAt != nil {
		updates["processed_at"] = processedAt
	}

	result := r.db.WithContext(ctx).
		Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
