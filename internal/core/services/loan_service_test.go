package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"
	"github.com/emureccima/corporate-sub000/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func approvedLoan(id, memberID uint, balance decimal.Decimal) *models.LoanRequest {
	return &models.LoanRequest{
		ID:             id,
		MemberID:       memberID,
		ApprovedAmount: balance,
		CurrentBalance: balance,
		Status:         string(domain.LoanApproved),
	}
}

func pendingRepayment(id, memberID, loanID uint, amount decimal.Decimal) *models.Payment {
	return &models.Payment{
		ID:            id,
		MemberID:      memberID,
		LoanRequestID: &loanID,
		PaymentType:   string(domain.PaymentLoanRepayment),
		Amount:        amount,
		Status:        string(domain.PaymentPending),
	}
}

func TestSubmitLoan(t *testing.T) {
	validInput := func() *SubmitLoanInput {
		return &SubmitLoanInput{
			RequestedAmount: decimal.NewFromInt(50000),
			Purpose:         "shop expansion",
			RepaymentMonths: 12,
			MonthlyIncome:   decimal.NewFromInt(80000),
			BankName:        "First Bank",
			AccountName:     "Ada Obi",
			AccountNumber:   "0123456789",
		}
	}

	t.Run("creates a pending review loan with zero balances", func(t *testing.T) {
		loanRepo := new(MockLoanRepository)
		memberRepo := new(MockMemberRepository)

		memberRepo.On("GetByID", mock.Anything, uint(1)).Return(activeMember(1), nil)
		loanRepo.On("Create", mock.Anything, mock.MatchedBy(func(l *models.LoanRequest) bool {
			return l.Status == string(domain.LoanPendingReview) &&
				l.ApprovedAmount.IsZero() &&
				l.CurrentBalance.IsZero()
		})).Return(nil)

		svc := NewLoanService(loanRepo, new(MockPaymentRepository), memberRepo)
		loan, err := svc.Submit(context.Background(), 1, validInput())

		assert.NoError(t, err)
		assert.Equal(t, string(domain.LoanPendingReview), loan.Status)
		loanRepo.AssertExpectations(t)
	})

	t.Run("input validation", func(t *testing.T) {
		svc := NewLoanService(new(MockLoanRepository), new(MockPaymentRepository), new(MockMemberRepository))

		in := validInput()
		in.RequestedAmount = decimal.Zero
		_, err := svc.Submit(context.Background(), 1, in)
		assert.ErrorIs(t, err, ErrInvalidLoanAmount)

		in = validInput()
		in.RepaymentMonths = 0
		_, err = svc.Submit(context.Background(), 1, in)
		assert.ErrorIs(t, err, ErrInvalidRepaymentTerm)

		in = validInput()
		in.MonthlyIncome = decimal.NewFromInt(-1)
		_, err = svc.Submit(context.Background(), 1, in)
		assert.ErrorIs(t, err, ErrNegativeIncome)
	})

	t.Run("pending member cannot apply", func(t *testing.T) {
		loanRepo := new(MockLoanRepository)
		memberRepo := new(MockMemberRepository)

		memberRepo.On("GetByID", mock.Anything, uint(2)).Return(&models.Member{
			ID:     2,
			Status: string(domain.MemberPending),
		}, nil)

		svc := NewLoanService(loanRepo, new(MockPaymentRepository), memberRepo)
		_, err := svc.Submit(context.Background(), 2, validInput())

		assert.ErrorIs(t, err, domain.ErrMemberNotActive)
		loanRepo.AssertNotCalled(t, "Create")
	})
}

func TestApproveLoan(t *testing.T) {
	t.Run("approved amount becomes the opening balance", func(t *testing.T) {
		loanRepo := new(MockLoanRepository)

		pending := &models.LoanRequest{ID: 5, Status: string(domain.LoanPendingReview)}
		approved := approvedLoan(5, 1, decimal.NewFromInt(40000))

		loanRepo.On("GetByID", mock.Anything, uint(5)).Return(pending, nil).Once()
		loanRepo.On("ApproveIf", mock.Anything, uint(5), decimal.NewFromInt(40000), "ok", mock.Anything).Return(true, nil)
		loanRepo.On("GetByID", mock.Anything, uint(5)).Return(approved, nil).Once()

		svc := NewLoanService(loanRepo, new(MockPaymentRepository), new(MockMemberRepository))
		loan, err := svc.Approve(context.Background(), 5, decimal.NewFromInt(40000), "ok")

		assert.NoError(t, err)
		assert.Equal(t, string(domain.LoanApproved), loan.Status)
		assert.True(t, loan.CurrentBalance.Equal(decimal.NewFromInt(40000)))
	})

	t.Run("zero approved amount is invalid", func(t *testing.T) {
		svc := NewLoanService(new(MockLoanRepository), new(MockPaymentRepository), new(MockMemberRepository))
		_, err := svc.Approve(context.Background(), 5, decimal.Zero, "")
		assert.ErrorIs(t, err, ErrInvalidLoanAmount)
	})

	t.Run("already processed loan conflicts", func(t *testing.T) {
		loanRepo := new(MockLoanRepository)

		loanRepo.On("GetByID", mock.Anything, uint(5)).Return(&models.LoanRequest{
			ID:     5,
			Status: string(domain.LoanRejected),
		}, nil)
		loanRepo.On("ApproveIf", mock.Anything, uint(5), mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

		svc := NewLoanService(loanRepo, new(MockPaymentRepository), new(MockMemberRepository))
		_, err := svc.Approve(context.Background(), 5, decimal.NewFromInt(100), "")

		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestApplyRepayment(t *testing.T) {
	tests := []struct {
		name        string
		loan        *models.LoanRequest
		amount      decimal.Decimal
		wantBalance decimal.Decimal
		wantStatus  string
		wantErr     error
	}{
		{
			name:        "partial repayment decrements the balance",
			loan:        approvedLoan(1, 1, decimal.NewFromInt(10000)),
			amount:      decimal.NewFromInt(4000),
			wantBalance: decimal.NewFromInt(6000),
			wantStatus:  string(domain.LoanApproved),
		},
		{
			name:        "exact payoff flips to fully repaid",
			loan:        approvedLoan(1, 1, decimal.NewFromInt(10000)),
			amount:      decimal.NewFromInt(10000),
			wantBalance: decimal.Zero,
			wantStatus:  string(domain.LoanFullyRepaid),
		},
		{
			name:    "overpayment is rejected, not clamped",
			loan:    approvedLoan(1, 1, decimal.NewFromInt(10000)),
			amount:  decimal.NewFromInt(10001),
			wantErr: domain.ErrInsufficientBalance,
		},
		{
			name: "fully repaid loan accepts nothing",
			loan: &models.LoanRequest{
				ID:             1,
				Status:         string(domain.LoanFullyRepaid),
				CurrentBalance: decimal.Zero,
			},
			amount:  decimal.NewFromInt(1),
			wantErr: domain.ErrInvalidState,
		},
		{
			name: "pending review loan accepts nothing",
			loan: &models.LoanRequest{
				ID:     1,
				Status: string(domain.LoanPendingReview),
			},
			amount:  decimal.NewFromInt(1),
			wantErr: domain.ErrInvalidState,
		},
		{
			name:    "zero amount is invalid",
			loan:    approvedLoan(1, 1, decimal.NewFromInt(10000)),
			amount:  decimal.Zero,
			wantErr: ErrNonPositiveAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance, status, err := applyRepayment(tt.loan, tt.amount)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.True(t, balance.Equal(tt.wantBalance), "expected %s, got %s", tt.wantBalance, balance)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestSubmitRepayment(t *testing.T) {
	t.Run("records a pending repayment against an approved loan", func(t *testing.T) {
		loanRepo := new(MockLoanRepository)
		paymentRepo := new(MockPaymentRepository)

		loanRepo.On("GetByID", mock.Anything, uint(7)).Return(approvedLoan(7, 1, decimal.NewFromInt(20000)), nil)
		paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
			return p.PaymentType == string(domain.PaymentLoanRepayment) &&
				p.Status == string(domain.PaymentPending) &&
				p.LoanRequestID != nil && *p.LoanRequestID == 7
		})).Return(nil)

		svc := NewLoanService(loanRepo, paymentRepo, new(MockMemberRepository))
		payment, err := svc.SubmitRepayment(context.Background(), 1, 7, decimal.NewFromInt(5000), "proof-1")

		assert.NoError(t, err)
		assert.Equal(t, string(domain.PaymentPending), payment.Status)
	})

	t.Run("cannot repay another member's loan", func(t *testing.T) {
		loanRepo := new(MockLoanRepository)

		loanRepo.On("GetByID", mock.Anything, uint(7)).Return(approvedLoan(7, 1, decimal.NewFromInt(20000)), nil)

		svc := NewLoanService(loanRepo, new(MockPaymentRepository), new(MockMemberRepository))
		_, err := svc.SubmitRepayment(context.Background(), 2, 7, decimal.NewFromInt(5000), "")

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("loan must be approved", func(t *testing.T) {
		loanRepo := new(MockLoanRepository)

		loanRepo.On("GetByID", mock.Anything, uint(7)).Return(&models.LoanRequest{
			ID:       7,
			MemberID: 1,
			Status:   string(domain.LoanPendingReview),
		}, nil)

		svc := NewLoanService(loanRepo, new(MockPaymentRepository), new(MockMemberRepository))
		_, err := svc.SubmitRepayment(context.Background(), 1, 7, decimal.NewFromInt(5000), "")

		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestConfirmRepayment(t *testing.T) {
	t.Run("loan balance is written before the repayment flips", func(t *testing.T) {
		loanRepo := new(MockLoanRepository)
		paymentRepo := new(MockPaymentRepository)

		loan := approvedLoan(7, 1, decimal.NewFromInt(20000))
		payment := pendingRepayment(30, 1, 7, decimal.NewFromInt(5000))
		confirmed := pendingRepayment(30, 1, 7, decimal.NewFromInt(5000))
		confirmed.Status = string(domain.PaymentConfirmed)

		paymentRepo.On("GetByID", mock.Anything, uint(30)).Return(payment, nil).Once()
		loanRepo.On("GetByID", mock.Anything, uint(7)).Return(loan, nil)
		loanRepo.On("ApplyRepaymentIf", mock.Anything, uint(7),
			decimal.NewFromInt(20000), decimal.NewFromInt(15000),
			string(domain.LoanApproved), mock.Anything).Return(true, nil)
		paymentRepo.On("UpdateStatusIf", mock.Anything, uint(30),
			string(domain.PaymentPending), string(domain.PaymentConfirmed), "", mock.Anything).Return(true, nil)
		paymentRepo.On("GetByID", mock.Anything, uint(30)).Return(confirmed, nil).Once()

		svc := NewLoanService(loanRepo, paymentRepo, new(MockMemberRepository))
		result, err := svc.ConfirmRepayment(context.Background(), 30)

		assert.NoError(t, err)
		assert.Equal(t, string(domain.PaymentConfirmed), result.Status)
		loanRepo.AssertExpectations(t)
		paymentRepo.AssertExpectations(t)
	})

	t.Run("payoff confirmation marks the loan fully repaid", func(t *testing.T) {
		loanRepo := new(MockLoanRepository)
		paymentRepo := new(MockPaymentRepository)

		loan := approvedLoan(7, 1, decimal.NewFromInt(5000))
		payment := pendingRepayment(31, 1, 7, decimal.NewFromInt(5000))
		confirmed := pendingRepayment(31, 1, 7, decimal.NewFromInt(5000))
		confirmed.Status = string(domain.PaymentConfirmed)

		paymentRepo.On("GetByID", mock.Anything, uint(31)).Return(payment, nil).Once()
		loanRepo.On("GetByID", mock.Anything, uint(7)).Return(loan, nil)
		loanRepo.On("ApplyRepaymentIf", mock.Anything, uint(7),
			decimal.NewFromInt(5000), mock.MatchedBy(func(d decimal.Decimal) bool { return d.IsZero() }),
			string(domain.LoanFullyRepaid), mock.Anything).Return(true, nil)
		paymentRepo.On("UpdateStatusIf", mock.Anything, uint(31),
			string(domain.PaymentPending), string(domain.PaymentConfirmed), "", mock.Anything).Return(true, nil)
		paymentRepo.On("GetByID", mock.Anything, uint(31)).Return(confirmed, nil).Once()

		svc := NewLoanService(loanRepo, paymentRepo, new(MockMemberRepository))
		_, err := svc.ConfirmRepayment(context.Background(), 31)

		assert.NoError(t, err)
		loanRepo.AssertExpectations(t)
	})

	t.Run("overpayment leaves both records untouched", func(t *testing.T) {
		loanRepo := new(MockLoanRepository)
		paymentRepo := new(MockPaymentRepository)

		loan := approvedLoan(7, 1, decimal.NewFromInt(3000))
		payment := pendingRepayment(32, 1, 7, decimal.NewFromInt(5000))

		paymentRepo.On("GetByID", mock.Anything, uint(32)).Return(payment, nil)
		loanRepo.On("GetByID", mock.Anything, uint(7)).Return(loan, nil)

		svc := NewLoanService(loanRepo, paymentRepo, new(MockMemberRepository))
		_, err := svc.ConfirmRepayment(context.Background(), 32)

		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
		loanRepo.AssertNotCalled(t, "ApplyRepaymentIf")
		paymentRepo.AssertNotCalled(t, "UpdateStatusIf")
	})

	t.Run("already confirmed repayment conflicts", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)

		payment := pendingRepayment(33, 1, 7, decimal.NewFromInt(5000))
		payment.Status = string(domain.PaymentConfirmed)
		paymentRepo.On("GetByID", mock.Anything, uint(33)).Return(payment, nil)

		svc := NewLoanService(new(MockLoanRepository), paymentRepo, new(MockMemberRepository))
		_, err := svc.ConfirmRepayment(context.Background(), 33)

		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("lost balance race surfaces as conflict with payment untouched", func(t *testing.T) {
		loanRepo := new(MockLoanRepository)
		paymentRepo := new(MockPaymentRepository)

		loan := approvedLoan(7, 1, decimal.NewFromInt(20000))
		payment := pendingRepayment(34, 1, 7, decimal.NewFromInt(5000))

		paymentRepo.On("GetByID", mock.Anything, uint(34)).Return(payment, nil)
		loanRepo.On("GetByID", mock.Anything, uint(7)).Return(loan, nil)
		loanRepo.On("ApplyRepaymentIf", mock.Anything, uint(7),
			mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

		svc := NewLoanService(loanRepo, paymentRepo, new(MockMemberRepository))
		_, err := svc.ConfirmRepayment(context.Background(), 34)

		assert.ErrorIs(t, err, domain.ErrInvalidState)
		paymentRepo.AssertNotCalled(t, "UpdateStatusIf")
	})

	t.Run("store failure during balance write never flips the payment", func(t *testing.T) {
		loanRepo := new(MockLoanRepository)
		paymentRepo := new(MockPaymentRepository)

		loan := approvedLoan(7, 1, decimal.NewFromInt(20000))
		payment := pendingRepayment(35, 1, 7, decimal.NewFromInt(5000))

		paymentRepo.On("GetByID", mock.Anything, uint(35)).Return(payment, nil)
		loanRepo.On("GetByID", mock.Anything, uint(7)).Return(loan, nil)
		loanRepo.On("ApplyRepaymentIf", mock.Anything, uint(7),
			mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("write timeout"))

		svc := NewLoanService(loanRepo, paymentRepo, new(MockMemberRepository))
		_, err := svc.ConfirmRepayment(context.Background(), 35)

		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		paymentRepo.AssertNotCalled(t, "UpdateStatusIf")
	})

	t.Run("registration payments are not repayments", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)

		paymentRepo.On("GetByID", mock.Anything, uint(36)).Return(&models.Payment{
			ID:          36,
			PaymentType: string(domain.PaymentRegistration),
			Status:      string(domain.PaymentPending),
		}, nil)

		svc := NewLoanService(new(MockLoanRepository), paymentRepo, new(MockMemberRepository))
		_, err := svc.ConfirmRepayment(context.Background(), 36)

		assert.ErrorIs(t, err, ErrRepaymentNotFound)
	})

	t.Run("unknown repayment", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)
		paymentRepo.On("GetByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewLoanService(new(MockLoanRepository), paymentRepo, new(MockMemberRepository))
		_, err := svc.ConfirmRepayment(context.Background(), 404)

		assert.ErrorIs(t, err, ErrRepaymentNotFound)
	})
}

func TestRejectRepayment(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	paymentRepo := new(MockPaymentRepository)

	payment := pendingRepayment(40, 1, 7, decimal.NewFromInt(5000))
	rejected := pendingRepayment(40, 1, 7, decimal.NewFromInt(5000))
	rejected.Status = string(domain.PaymentRejected)

	paymentRepo.On("GetByID", mock.Anything, uint(40)).Return(payment, nil).Once()
	paymentRepo.On("UpdateStatusIf", mock.Anything, uint(40),
		string(domain.PaymentPending), string(domain.PaymentRejected), "blurry proof", (*time.Time)(nil)).Return(true, nil)
	paymentRepo.On("GetByID", mock.Anything, uint(40)).Return(rejected, nil).Once()

	svc := NewLoanService(loanRepo, paymentRepo, new(MockMemberRepository))
	result, err := svc.RejectRepayment(context.Background(), 40, "blurry proof")

	assert.NoError(t, err)
	assert.Equal(t, string(domain.PaymentRejected), result.Status)
	loanRepo.AssertNotCalled(t, "ApplyRepaymentIf")
}
