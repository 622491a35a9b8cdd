package repositories

import (
	"context"
	"time"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"
	"github.com/emureccima/corporate-sub000/internal/core/domain"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment record
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID gets a payment by ID
func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// List lists payments with optional type/status filters and pagination
func (r *paymentRepository) List(ctx context.Context, paymentType, status string, offset, limit int) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Payment{})
	if paymentType != "" {
		query = query.Where("payment_type = ?", paymentType)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// ListByMember lists a member's payments, newest first
func (r *paymentRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// UpdateStatusIf transitions a payment's status with a precondition on
// the current status
func (r *paymentRepository) UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus, rejectionReason string, confirmedAt *time.Time) (bool, error) {
	updates := map[string]interface{}{"status": toStatus}
	if rejectionReason != "" {
		updates["rejection_reason"] = rejectionReason
	}
	if confirmedAt != nil {
		updates["confirmed_at"] = confirmedAt
	}

	result := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListConfirmedRegistrationsPendingActivation finds CONFIRMED
// registration payments whose member never made it to ACTIVE. This is
// the one partial state the registration flow can leave behind; the
// repair sweep re-runs activation for each hit.
func (r *paymentRepository) ListConfirmedRegistrationsPendingActivation(ctx context.Context) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Joins("JOIN members ON members.id = payments.member_id").
		Where("payments.payment_type = ? AND payments.status = ? AND members.status = ?",
			string(domain.PaymentRegistration), string(domain.PaymentConfirmed), string(domain.MemberPending)).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
