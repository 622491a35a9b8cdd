package services

import (
	"context"
	"errors"
	"testing"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"
	"github.com/emureccima/corporate-sub000/internal/config"
	"github.com/emureccima/corporate-sub000/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func memberServiceFixture() (*MockMemberRepository, *MockPaymentRepository, *MemberService) {
	memberRepo := new(MockMemberRepository)
	paymentRepo := new(MockPaymentRepository)
	cfg := &config.Config{
		Coop: config.CoopConfig{RegistrationFee: decimal.NewFromInt(1000)},
	}
	return memberRepo, paymentRepo, NewMemberService(memberRepo, paymentRepo, cfg)
}

func registrationPayment(id, memberID uint, status string) *models.Payment {
	return &models.Payment{
		ID:          id,
		MemberID:    memberID,
		PaymentType: string(domain.PaymentRegistration),
		Amount:      decimal.NewFromInt(1000),
		Status:      status,
	}
}

func TestSubmitRegistrationPayment(t *testing.T) {
	t.Run("records a pending registration payment", func(t *testing.T) {
		memberRepo, paymentRepo, svc := memberServiceFixture()

		memberRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Member{
			ID:     1,
			Status: string(domain.MemberPending),
		}, nil)
		paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
			return p.PaymentType == string(domain.PaymentRegistration) &&
				p.Status == string(domain.PaymentPending) &&
				p.ProofFileID == "proof-1"
		})).Return(nil)

		payment, err := svc.SubmitRegistrationPayment(context.Background(), 1, decimal.NewFromInt(1000), "proof-1")

		assert.NoError(t, err)
		assert.Equal(t, string(domain.PaymentPending), payment.Status)
	})

	t.Run("amount must match the fee exactly", func(t *testing.T) {
		_, paymentRepo, svc := memberServiceFixture()

		_, err := svc.SubmitRegistrationPayment(context.Background(), 1, decimal.NewFromInt(999), "")
		assert.ErrorIs(t, err, ErrWrongRegistrationFee)

		_, err = svc.SubmitRegistrationPayment(context.Background(), 1, decimal.NewFromInt(1001), "")
		assert.ErrorIs(t, err, ErrWrongRegistrationFee)

		paymentRepo.AssertNotCalled(t, "Create")
	})

	t.Run("already active member has nothing to pay", func(t *testing.T) {
		memberRepo, paymentRepo, svc := memberServiceFixture()

		memberRepo.On("GetByID", mock.Anything, uint(1)).Return(activeMember(1), nil)

		_, err := svc.SubmitRegistrationPayment(context.Background(), 1, decimal.NewFromInt(1000), "")

		assert.ErrorIs(t, err, domain.ErrInvalidState)
		paymentRepo.AssertNotCalled(t, "Create")
	})
}

func TestConfirmRegistrationPayment(t *testing.T) {
	t.Run("confirms the payment then activates the member", func(t *testing.T) {
		memberRepo, paymentRepo, svc := memberServiceFixture()

		paymentRepo.On("GetByID", mock.Anything, uint(50)).Return(registrationPayment(50, 1, string(domain.PaymentPending)), nil).Once()
		paymentRepo.On("UpdateStatusIf", mock.Anything, uint(50),
			string(domain.PaymentPending), string(domain.PaymentConfirmed), "", mock.Anything).Return(true, nil)
		memberRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Member{
			ID:     1,
			Status: string(domain.MemberPending),
		}, nil)
		memberRepo.On("UpdateStatusIf", mock.Anything, uint(1),
			string(domain.MemberPending), string(domain.MemberActive), mock.Anything).Return(true, nil)
		paymentRepo.On("GetByID", mock.Anything, uint(50)).Return(registrationPayment(50, 1, string(domain.PaymentConfirmed)), nil).Once()

		payment, err := svc.ConfirmRegistrationPayment(context.Background(), 50)

		assert.NoError(t, err)
		assert.Equal(t, string(domain.PaymentConfirmed), payment.Status)
		memberRepo.AssertExpectations(t)
	})

	t.Run("double confirmation conflicts", func(t *testing.T) {
		memberRepo, paymentRepo, svc := memberServiceFixture()

		paymentRepo.On("GetByID", mock.Anything, uint(50)).Return(registrationPayment(50, 1, string(domain.PaymentConfirmed)), nil)

		_, err := svc.ConfirmRegistrationPayment(context.Background(), 50)

		assert.ErrorIs(t, err, domain.ErrInvalidState)
		memberRepo.AssertNotCalled(t, "UpdateStatusIf")
	})

	t.Run("loan repayments are not registration payments", func(t *testing.T) {
		_, paymentRepo, svc := memberServiceFixture()

		loanID := uint(7)
		paymentRepo.On("GetByID", mock.Anything, uint(51)).Return(&models.Payment{
			ID:            51,
			LoanRequestID: &loanID,
			PaymentType:   string(domain.PaymentLoanRepayment),
			Status:        string(domain.PaymentPending),
		}, nil)

		_, err := svc.ConfirmRegistrationPayment(context.Background(), 51)

		assert.ErrorIs(t, err, ErrNotRegistrationPayment)
	})
}

func TestActivateMember(t *testing.T) {
	t.Run("already active is success, not a conflict", func(t *testing.T) {
		memberRepo, _, svc := memberServiceFixture()

		memberRepo.On("GetByID", mock.Anything, uint(1)).Return(activeMember(1), nil)

		err := svc.ActivateMember(context.Background(), 1)

		assert.NoError(t, err)
		memberRepo.AssertNotCalled(t, "UpdateStatusIf")
	})

	t.Run("concurrent activation converges on success", func(t *testing.T) {
		memberRepo, _, svc := memberServiceFixture()

		// First read sees PENDING, the compare-and-set loses the race,
		// the re-read sees ACTIVE.
		memberRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Member{
			ID:     1,
			Status: string(domain.MemberPending),
		}, nil).Once()
		memberRepo.On("UpdateStatusIf", mock.Anything, uint(1),
			string(domain.MemberPending), string(domain.MemberActive), mock.Anything).Return(false, nil)
		memberRepo.On("GetByID", mock.Anything, uint(1)).Return(activeMember(1), nil).Once()

		err := svc.ActivateMember(context.Background(), 1)

		assert.NoError(t, err)
	})

	t.Run("inactive member is a real conflict", func(t *testing.T) {
		memberRepo, _, svc := memberServiceFixture()

		inactive := &models.Member{ID: 1, Status: string(domain.MemberInactive)}
		memberRepo.On("GetByID", mock.Anything, uint(1)).Return(inactive, nil)
		memberRepo.On("UpdateStatusIf", mock.Anything, uint(1),
			string(domain.MemberPending), string(domain.MemberActive), mock.Anything).Return(false, nil)

		err := svc.ActivateMember(context.Background(), 1)

		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestRepairPendingActivations(t *testing.T) {
	t.Run("re-runs activation for every confirmed-but-pending member", func(t *testing.T) {
		memberRepo, paymentRepo, svc := memberServiceFixture()

		paymentRepo.On("ListConfirmedRegistrationsPendingActivation", mock.Anything).Return([]*models.Payment{
			registrationPayment(60, 1, string(domain.PaymentConfirmed)),
			registrationPayment(61, 2, string(domain.PaymentConfirmed)),
		}, nil)

		memberRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Member{
			ID:     1,
			Status: string(domain.MemberPending),
		}, nil)
		memberRepo.On("UpdateStatusIf", mock.Anything, uint(1),
			string(domain.MemberPending), string(domain.MemberActive), mock.Anything).Return(true, nil)

		// Second member's store read fails; the sweep skips and continues.
		memberRepo.On("GetByID", mock.Anything, uint(2)).Return(nil, errors.New("connection reset"))

		repaired, err := svc.RepairPendingActivations(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, repaired)
	})

	t.Run("nothing to repair", func(t *testing.T) {
		_, paymentRepo, svc := memberServiceFixture()

		paymentRepo.On("ListConfirmedRegistrationsPendingActivation", mock.Anything).Return([]*models.Payment{}, nil)

		repaired, err := svc.RepairPendingActivations(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 0, repaired)
	})
}

func TestSetStatus(t *testing.T) {
	t.Run("suspends an active member", func(t *testing.T) {
		memberRepo, _, svc := memberServiceFixture()

		memberRepo.On("GetByID", mock.Anything, uint(1)).Return(activeMember(1), nil).Once()
		memberRepo.On("UpdateStatusIf", mock.Anything, uint(1),
			string(domain.MemberActive), string(domain.MemberInactive), mock.Anything).Return(true, nil)
		memberRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Member{
			ID:     1,
			Status: string(domain.MemberInactive),
		}, nil).Once()

		member, err := svc.SetStatus(context.Background(), 1, string(domain.MemberInactive))

		assert.NoError(t, err)
		assert.Equal(t, string(domain.MemberInactive), member.Status)
	})

	t.Run("pending members are payment-gated, not admin-toggled", func(t *testing.T) {
		memberRepo, _, svc := memberServiceFixture()

		memberRepo.On("GetByID", mock.Anything, uint(2)).Return(&models.Member{
			ID:     2,
			Status: string(domain.MemberPending),
		}, nil)

		_, err := svc.SetStatus(context.Background(), 2, string(domain.MemberActive))

		assert.ErrorIs(t, err, domain.ErrInvalidState)
		memberRepo.AssertNotCalled(t, "UpdateStatusIf")
	})

	t.Run("setting the current status is a no-op", func(t *testing.T) {
		memberRepo, _, svc := memberServiceFixture()

		memberRepo.On("GetByID", mock.Anything, uint(1)).Return(activeMember(1), nil)

		member, err := svc.SetStatus(context.Background(), 1, string(domain.MemberActive))

		assert.NoError(t, err)
		assert.Equal(t, string(domain.MemberActive), member.Status)
		memberRepo.AssertNotCalled(t, "UpdateStatusIf")
	})
}
