package repositories

import (
	"context"
	"time"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"
	"github.com/shopspring/decimal"
)

// The repositories are the narrow store boundary: create/read/update/
// list-with-filter, nothing else. Every state transition goes through a
// compare-and-set method (Update...If) that writes only when the record
// is still in the expected status and reports whether it did, because
// the store offers no cross-record transactions the services can lean on.

// MemberRepository defines member persistence
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	GetByMemberNo(ctx context.Context, memberNo string) (*models.Member, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, status string, offset, limit int) ([]*models.Member, int64, error)
	// UpdateStatusIf flips status only while the member is still in
	// fromStatus. Returns (false, nil) when the precondition no longer
	// holds.
	UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus string, activatedAt *time.Time) (bool, error)
}

// RefreshTokenRepository defines refresh token persistence
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByMemberID(ctx context.Context, memberID uint) error
	DeleteExpired(ctx context.Context) error
}

// SavingsRepository defines savings ledger persistence
type SavingsRepository interface {
	Create(ctx context.Context, entry *models.SavingsEntry) error
	GetByID(ctx context.Context, id uint) (*models.SavingsEntry, error)
	ListByMember(ctx context.Context, memberID uint, offset, limit int) ([]*models.SavingsEntry, int64, error)
	// ListConfirmedByMember returns every CONFIRMED entry for the
	// member, newest first. The balance is always recomputed from this
	// set; there is no stored balance column to drift.
	ListConfirmedByMember(ctx context.Context, memberID uint) ([]*models.SavingsEntry, error)
	// GetConfirmedByWithdrawal finds the CONFIRMED debit entry a
	// withdrawal approval wrote, if one exists.
	GetConfirmedByWithdrawal(ctx context.Context, withdrawalID uint) (*models.SavingsEntry, error)
	ListPending(ctx context.Context, offset, limit int) ([]*models.SavingsEntry, int64, error)
	UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus string, confirmedAt *time.Time) (bool, error)
}

// LoanRepository defines loan request persistence
type LoanRepository interface {
	Create(ctx context.Context, loan *models.LoanRequest) error
	GetByID(ctx context.Context, id uint) (*models.LoanRequest, error)
	ListByMember(ctx context.Context, memberID uint) ([]*models.LoanRequest, error)
	List(ctx context.Context, status string, offset, limit int) ([]*models.LoanRequest, int64, error)
	// ApproveIf moves the loan out of PENDING_REVIEW, setting approved
	// amount and opening balance in the same write.
	ApproveIf(ctx context.Context, id uint, approvedAmount decimal.Decimal, notes string, at time.Time) (bool, error)
	RejectIf(ctx context.Context, id uint, notes string, at time.Time) (bool, error)
	// ApplyRepaymentIf decrements the running balance with a
	// compare-and-set on both status and the previous balance, so two
	// concurrent confirmations cannot both apply.
	ApplyRepaymentIf(ctx context.Context, id uint, prevBalance, newBalance decimal.Decimal, newStatus string, at time.Time) (bool, error)
}

// PaymentRepository defines payment persistence
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	List(ctx context.Context, paymentType, status string, offset, limit int) ([]*models.Payment, int64, error)
	ListByMember(ctx context.Context, memberID uint) ([]*models.Payment, error)
	UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus, rejectionReason string, confirmedAt *time.Time) (bool, error)
	// ListConfirmedRegistrationsPendingActivation finds the recoverable
	// inconsistent state: registration payment CONFIRMED but member
	// still PENDING.
	ListConfirmedRegistrationsPendingActivation(ctx context.Context) ([]*models.Payment, error)
}

// WithdrawalRepository defines withdrawal request persistence
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *models.WithdrawalRequest) error
	GetByID(ctx context.Context, id uint) (*models.WithdrawalRequest, error)
	ListByMember(ctx context.Context, memberID uint) ([]*models.WithdrawalRequest, error)
	List(ctx context.Context, status string, offset, limit int) ([]*models.WithdrawalRequest, int64, error)
	UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus, notes string, processedAt *time.Time) (bool, error)
}

// BusinessRepository defines business directory persistence
type BusinessRepository interface {
	Create(ctx context.Context, business *models.Business) error
	GetByID(ctx context.Context, id uint) (*models.Business, error)
	Update(ctx context.Context, business *models.Business) error
	Delete(ctx context.Context, id uint) error
	ListActive(ctx context.Context, category string, offset, limit int) ([]*models.Business, int64, error)
	ListByMember(ctx context.Context, memberID uint) ([]*models.Business, error)
}
