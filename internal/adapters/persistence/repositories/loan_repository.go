package repositories

import (
	"context"
	"time"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"
	"github.com/emureccima/corporate-sub000/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan request
func (r *loanRepository) Create(ctx context.Context, loan *models.LoanRequest) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan request by ID
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.LoanRequest, error) {
	var loan models.LoanRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListByMember lists a member's loan requests, newest first
func (r *loanRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.LoanRequest, error) {
	var loans []*models.LoanRequest
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

// List lists loan requests with optional status filter and pagination
func (r *loanRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.LoanRequest, int64, error) {
	var loans []*models.LoanRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&models.LoanRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&loans).Error; err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

// ApproveIf approves a loan still in PENDING_REVIEW, setting the
// approved amount and the opening balance in one write
func (r *loanRepository) ApproveIf(ctx context.Context, id uint, approvedAmount decimal.Decimal, notes string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.LoanRequest{}).
		Where("id = ? AND status = ?", id, string(domain.LoanPendingReview)).
		Updates(map[string]interface{}{
			"status":          string(domain.LoanApproved),
			"approved_amount": approvedAmount,
			"current_balance": approvedAmount,
			"admin_notes":     notes,
			"approved_at":     at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RejectIf rejects a loan still in PENDING_REVIEW
func (r *loanRepository) RejectIf(ctx context.Context, id uint, notes string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.LoanRequest{}).
		Where("id = ? AND status = ?", id, string(domain.LoanPendingReview)).
		Updates(map[string]interface{}{
			"status":      string(domain.LoanRejected),
			"admin_notes": notes,
			"rejected_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ApplyRepaymentIf writes the decremented balance. The WHERE clause
// pins both the APPROVED status and the balance the caller computed
// from, so a concurrent confirmation that already moved the balance
// makes this a no-op instead of a double decrement.
func (r *loanRepository) ApplyRepaymentIf(ctx context.Context, id uint, prevBalance, newBalance decimal.Decimal, newStatus string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.LoanRequest{}).
		Where("id = ? AND status = ? AND current_balance = ?", id, string(domain.LoanApproved), prevBalance).
		Updates(map[string]interface{}{
			"current_balance":   newBalance,
			"status":            newStatus,
			"last_repayment_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
