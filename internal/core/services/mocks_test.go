package services

import (
	"context"
	"time"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Create(ctx context.Context, member *models.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) GetByMemberNo(ctx context.Context, memberNo string) (*models.Member, error) {
	args := m.Called(ctx, memberNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.Member, int64, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Member), args.Get(1).(int64), args.Error(2)
}

func (m *MockMemberRepository) UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus string, activatedAt *time.Time) (bool, error) {
	args := m.Called(ctx, id, fromStatus, toStatus, activatedAt)
	return args.Bool(0), args.Error(1)
}

type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) RevokeAllByMemberID(ctx context.Context, memberID uint) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockSavingsRepository struct {
	mock.Mock
}

func (m *MockSavingsRepository) Create(ctx context.Context, entry *models.SavingsEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockSavingsRepository) GetByID(ctx context.Context, id uint) (*models.SavingsEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavingsEntry), args.Error(1)
}

func (m *MockSavingsRepository) ListByMember(ctx context.Context, memberID uint, offset, limit int) ([]*models.SavingsEntry, int64, error) {
	args := m.Called(ctx, memberID, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.SavingsEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockSavingsRepository) ListConfirmedByMember(ctx context.Context, memberID uint) ([]*models.SavingsEntry, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SavingsEntry), args.Error(1)
}

func (m *MockSavingsRepository) GetConfirmedByWithdrawal(ctx context.Context, withdrawalID uint) (*models.SavingsEntry, error) {
	args := m.Called(ctx, withdrawalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavingsEntry), args.Error(1)
}

func (m *MockSavingsRepository) ListPending(ctx context.Context, offset, limit int) ([]*models.SavingsEntry, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.SavingsEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockSavingsRepository) UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus string, confirmedAt *time.Time) (bool, error) {
	args := m.Called(ctx, id, fromStatus, toStatus, confirmedAt)
	return args.Bool(0), args.Error(1)
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *models.LoanRequest) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id uint) (*models.LoanRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoanRequest), args.Error(1)
}

func (m *MockLoanRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.LoanRequest, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LoanRequest), args.Error(1)
}

func (m *MockLoanRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.LoanRequest, int64, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.LoanRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockLoanRepository) ApproveIf(ctx context.Context, id uint, approvedAmount decimal.Decimal, notes string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, approvedAmount, notes, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoanRepository) RejectIf(ctx context.Context, id uint, notes string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, notes, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoanRepository) ApplyRepaymentIf(ctx context.Context, id uint, prevBalance, newBalance decimal.Decimal, newStatus string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, prevBalance, newBalance, newStatus, at)
	return args.Bool(0), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, paymentType, status string, offset, limit int) ([]*models.Payment, int64, error) {
	args := m.Called(ctx, paymentType, status, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.Payment, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus, rejectionReason string, confirmedAt *time.Time) (bool, error) {
	args := m.Called(ctx, id, fromStatus, toStatus, rejectionReason, confirmedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) ListConfirmedRegistrationsPendingActivation(ctx context.Context) ([]*models.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, withdrawal *models.WithdrawalRequest) error {
	args := m.Called(ctx, withdrawal)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetByID(ctx context.Context, id uint) (*models.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.WithdrawalRequest, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.WithdrawalRequest, int64, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.WithdrawalRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockWithdrawalRepository) UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus, notes string, processedAt *time.Time) (bool, error) {
	args := m.Called(ctx, id, fromStatus, toStatus, notes, processedAt)
	return args.Bool(0), args.Error(1)
}

type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) Create(ctx context.Context, business *models.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *MockBusinessRepository) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Business), args.Error(1)
}

func (m *MockBusinessRepository) Update(ctx context.Context, business *models.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *MockBusinessRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBusinessRepository) ListActive(ctx context.Context, category string, offset, limit int) ([]*models.Business, int64, error) {
	args := m.Called(ctx, category, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Business), args.Get(1).(int64), args.Error(2)
}

func (m *MockBusinessRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.Business, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Business), args.Error(1)
}
