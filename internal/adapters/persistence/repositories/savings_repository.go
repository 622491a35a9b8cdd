package repositories

import (
	"context"
	"time"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"
	"github.com/emureccima/corporate-sub000/internal/core/domain"

	"gorm.io/gorm"
)

// savingsRepository implements SavingsRepository interface
type savingsRepository struct {
	db *gorm.DB
}

// NewSavingsRepository creates a new savings repository
func NewSavingsRepository(db *gorm.DB) SavingsRepository {
	return &savingsRepository{db: db}
}

// Create appends a new ledger entry
func (r *savingsRepository) Create(ctx context.Context, entry *models.SavingsEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByID gets a ledger entry by ID
func (r *savingsRepository) GetByID(ctx context.Context, id uint) (*models.SavingsEntry, error) {
	var entry models.SavingsEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByMember lists a member's ledger entries, newest first
func (r *savingsRepository) ListByMember(ctx context.Context, memberID uint, offset, limit int) ([]*models.SavingsEntry, int64, error) {
	var entries []*models.SavingsEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&models.SavingsEntry{}).Where("member_id = ?", memberID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// ListConfirmedByMember returns all CONFIRMED entries for a member
func (r *savingsRepository) ListConfirmedByMember(ctx context.Context, memberID uint) ([]*models.SavingsEntry, error) {
	var entries []*models.SavingsEntry
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND status = ?", memberID, string(domain.EntryConfirmed)).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetConfirmedByWithdrawal finds the confirmed debit entry tied to a
// withdrawal request
func (r *savingsRepository) GetConfirmedByWithdrawal(ctx context.Context, withdrawalID uint) (*models.SavingsEntry, error) {
	var entry models.SavingsEntry
	err := r.db.WithContext(ctx).
		Where("withdrawal_request_id = ? AND status = ?", withdrawalID, string(domain.EntryConfirmed)).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListPending lists PENDING entries across all members, oldest first
// so admins work the queue in submission order
func (r *savingsRepository) ListPending(ctx context.Context, offset, limit int) ([]*models.SavingsEntry, int64, error) {
	var entries []*models.SavingsEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&models.SavingsEntry{}).Where("status = ?", string(domain.EntryPending))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at ASC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// UpdateStatusIf transitions an entry's status with a precondition on
// the current status. The amount is never touched after creation.
func (r *savingsRepository) UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus string, confirmedAt *time.Time) (bool, error) {
	updates := map[string]interface{}{"status": toStatus}
	if confirmedAt != nil {
		updates["confirmed_at"] = confirmedAt
	}

	result := r.db.WithContext(ctx).
		Model(&models.SavingsEntry{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
