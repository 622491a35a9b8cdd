package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"
	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/repositories"
	"github.com/emureccima/corporate-sub000/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Loan errors
var (
	ErrInvalidLoanAmount    = fmt.Errorf("%w: loan amount must be greater than zero", domain.ErrInvalidInput)
	ErrInvalidRepaymentTerm = fmt.Errorf("%w: repayment period must be greater than zero", domain.ErrInvalidInput)
	ErrNegativeIncome       = fmt.Errorf("%w: monthly income cannot be negative", domain.ErrInvalidInput)
	ErrRepaymentNotFound    = fmt.Errorf("%w: repayment record", domain.ErrNotFound)
)

// LoanService enforces the loan lifecycle:
// PENDING_REVIEW -> APPROVED -> FULLY_REPAID, with REJECTED as the
// alternate terminal. Repayment confirmation is the one multi-record
// flow here and follows a fixed write order so a crash can only leave
// the safely retryable half-state (loan decremented, repayment still
// PENDING) and never lost money (repayment CONFIRMED, loan untouched).
type LoanService struct {
	loanRepo    repositories.LoanRepository
	paymentRepo repositories.PaymentRepository
	memberRepo  repositories.MemberRepository
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	paymentRepo repositories.PaymentRepository,
	memberRepo repositories.MemberRepository,
) *LoanService {
	return &LoanService{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		memberRepo:  memberRepo,
	}
}

// SubmitLoanInput represents a loan application
type SubmitLoanInput struct {
	RequestedAmount decimal.Decimal `json:"requested_amount" validate:"required,decimal_gt_zero"`
	Purpose         string          `json:"purpose" validate:"required,max=255"`
	RepaymentMonths int             `json:"repayment_months" validate:"required,gt=0"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income" validate:"decimal_gte_zero"`
	BankName        string          `json:"bank_name" validate:"required,max=100"`
	AccountName     string          `json:"account_name" validate:"required,max=100"`
	AccountNumber   string          `json:"account_number" validate:"required,max=50"`
}

// Submit creates a loan request in PENDING_REVIEW with zero approved
// amount and zero balance
func (s *LoanService) Submit(ctx context.Context, memberID uint, input *SubmitLoanInput) (*models.LoanRequest, error) {
	if !input.RequestedAmount.IsPositive() {
		return nil, ErrInvalidLoanAmount
	}
	if input.RepaymentMonths <= 0 {
		return nil, ErrInvalidRepaymentTerm
	}
	if input.MonthlyIncome.IsNegative() {
		return nil, ErrNegativeIncome
	}

	if err := s.requireActiveMember(ctx, memberID); err != nil {
		return nil, err
	}

	loan := &models.LoanRequest{
		MemberID:        memberID,
		RequestedAmount: input.RequestedAmount,
		ApprovedAmount:  decimal.Zero,
		CurrentBalance:  decimal.Zero,
		Status:          string(domain.LoanPendingReview),
		Purpose:         input.Purpose,
		RepaymentMonths: input.RepaymentMonths,
		MonthlyIncome:   input.MonthlyIncome,
		BankName:        input.BankName,
		AccountName:     input.AccountName,
		AccountNumber:   input.AccountNumber,
	}

	if err := retryStore(ctx, func() error { return s.loanRepo.Create(ctx, loan) }); err != nil {
		return nil, infraErr(err)
	}

	log.Printf("Loan submitted: member=%d loan=%d requested=%s", memberID, loan.ID, input.RequestedAmount)
	return loan, nil
}

// Approve moves a loan from PENDING_REVIEW to APPROVED. The approved
// amount is set at admin discretion and may differ from the requested
// amount; it becomes the opening balance.
func (s *LoanService) Approve(ctx context.Context, loanID uint, approvedAmount decimal.Decimal, notes string) (*models.LoanRequest, error) {
	if !approvedAmount.IsPositive() {
		return nil, ErrInvalidLoanAmount
	}

	if _, err := s.getLoan(ctx, loanID); err != nil {
		return nil, err
	}

	ok, err := s.loanRepo.ApproveIf(ctx, loanID, approvedAmount, notes, time.Now())
	if err != nil {
		return nil, infraErr(err)
	}
	if !ok {
		return nil, domain.ErrInvalidState
	}

	log.Printf("Loan approved: loan=%d amount=%s", loanID, approvedAmount)
	return s.getLoan(ctx, loanID)
}

// Reject moves a loan from PENDING_REVIEW to REJECTED. Terminal.
func (s *LoanService) Reject(ctx context.Context, loanID uint, notes string) (*models.LoanRequest, error) {
	if _, err := s.getLoan(ctx, loanID); err != nil {
		return nil, err
	}

	ok, err := s.loanRepo.RejectIf(ctx, loanID, notes, time.Now())
	if err != nil {
		return nil, infraErr(err)
	}
	if !ok {
		return nil, domain.ErrInvalidState
	}

	return s.getLoan(ctx, loanID)
}

// SubmitRepayment records a member's claim of having paid an amount
// against their loan, as a PENDING payment with an optional proof file.
// Nothing moves on the loan until an admin confirms it.
func (s *LoanService) SubmitRepayment(ctx context.Context, memberID, loanID uint, amount decimal.Decimal, proofFileID string) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.MemberID != memberID {
		return nil, domain.ErrForbidden
	}
	if loan.Status != string(domain.LoanApproved) {
		return nil, domain.ErrInvalidState
	}

	payment := &models.Payment{
		MemberID:      memberID,
		LoanRequestID: &loanID,
		PaymentType:   string(domain.PaymentLoanRepayment),
		Amount:        amount,
		Status:        string(domain.PaymentPending),
		ProofFileID:   proofFileID,
	}

	if err := retryStore(ctx, func() error { return s.paymentRepo.Create(ctx, payment) }); err != nil {
		return nil, infraErr(err)
	}

	log.Printf("Repayment submitted: member=%d loan=%d amount=%s payment=%d", memberID, loanID, amount, payment.ID)
	return payment, nil
}

// ConfirmRepayment applies a pending repayment to its loan. Write
// order is load-bearing:
//
//  1. re-read the loan and validate state and amount
//  2. write the decremented loan balance (compare-and-set on status
//     and previous balance)
//  3. only then flip the repayment to CONFIRMED
//
// If step 2 fails nothing is written; if the process dies between 2
// and 3 the repayment stays PENDING and re-running the confirmation
// re-validates against the already-decremented balance instead of
// re-applying blindly.
func (s *LoanService) ConfirmRepayment(ctx context.Context, paymentID uint) (*models.Payment, error) {
	payment, err := s.getRepayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != string(domain.PaymentPending) {
		return nil, domain.ErrInvalidState
	}
	if payment.LoanRequestID == nil {
		return nil, domain.ErrInvalidInput
	}

	loan, err := s.getLoan(ctx, *payment.LoanRequestID)
	if err != nil {
		return nil, err
	}

	newBalance, newStatus, err := applyRepayment(loan, payment.Amount)
	if err != nil {
		return nil, err
	}

	ok, err := s.loanRepo.ApplyRepaymentIf(ctx, loan.ID, loan.CurrentBalance, newBalance, newStatus, time.Now())
	if err != nil {
		return nil, infraErr(err)
	}
	if !ok {
		// Someone else moved the loan between our read and write.
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	ok, err = s.paymentRepo.UpdateStatusIf(ctx, paymentID,
		string(domain.PaymentPending), string(domain.PaymentConfirmed), "", &now)
	if err != nil {
		// Balance is decremented but the repayment is still PENDING:
		// the documented, retryable partial state. Surface which step
		// failed so operators can inspect.
		log.Printf("Repayment %d: loan %d balance written but status flip failed: %v", paymentID, loan.ID, err)
		return nil, infraErr(err)
	}
	if !ok {
		return nil, domain.ErrInvalidState
	}

	log.Printf("Repayment confirmed: payment=%d loan=%d amount=%s balance=%s status=%s",
		paymentID, loan.ID, payment.Amount, newBalance, newStatus)
	return s.getRepayment(ctx, paymentID)
}

// RejectRepayment rejects a pending repayment without touching the loan
func (s *LoanService) RejectRepayment(ctx context.Context, paymentID uint, reason string) (*models.Payment, error) {
	payment, err := s.getRepayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != string(domain.PaymentPending) {
		return nil, domain.ErrInvalidState
	}

	ok, err := s.paymentRepo.UpdateStatusIf(ctx, paymentID,
		string(domain.PaymentPending), string(domain.PaymentRejected), reason, nil)
	if err != nil {
		return nil, infraErr(err)
	}
	if !ok {
		return nil, domain.ErrInvalidState
	}

	return s.getRepayment(ctx, paymentID)
}

// GetLoan returns a loan by ID
func (s *LoanService) GetLoan(ctx context.Context, loanID uint) (*models.LoanRequest, error) {
	return s.getLoan(ctx, loanID)
}

// ListByMember lists a member's loans
func (s *LoanService) ListByMember(ctx context.Context, memberID uint) ([]*models.LoanRequest, error) {
	var loans []*models.LoanRequest
	err := retryStore(ctx, func() (err error) {
		loans, err = s.loanRepo.ListByMember(ctx, memberID)
		return err
	})
	if err != nil {
		return nil, infraErr(err)
	}
	return loans, nil
}

// List lists loans with optional status filter
func (s *LoanService) List(ctx context.Context, status string, offset, limit int) ([]*models.LoanRequest, int64, error) {
	var (
		loans []*models.LoanRequest
		total int64
	)
	err := retryStore(ctx, func() (err error) {
		loans, total, err = s.loanRepo.List(ctx, status, offset, limit)
		return err
	})
	if err != nil {
		return nil, 0, infraErr(err)
	}
	return loans, total, nil
}

// applyRepayment is the pure state-transition rule: only APPROVED
// loans accept repayments, over-payment is rejected rather than
// clamped (clamping would hide reconciliation bugs), and reaching zero
// flips the loan to FULLY_REPAID.
func applyRepayment(loan *models.LoanRequest, amount decimal.Decimal) (decimal.Decimal, string, error) {
	if loan.Status != string(domain.LoanApproved) {
		return decimal.Zero, "", domain.ErrInvalidState
	}
	if !amount.IsPositive() {
		return decimal.Zero, "", ErrNonPositiveAmount
	}
	if amount.GreaterThan(loan.CurrentBalance) {
		return decimal.Zero, "", domain.ErrInsufficientBalance
	}

	newBalance := loan.CurrentBalance.Sub(amount)
	newStatus := string(domain.LoanApproved)
	if newBalance.IsZero() {
		newStatus = string(domain.LoanFullyRepaid)
	}
	return newBalance, newStatus, nil
}

func (s *LoanService) getLoan(ctx context.Context, loanID uint) (*models.LoanRequest, error) {
	var loan *models.LoanRequest
	err := retryStore(ctx, func() (err error) {
		loan, err = s.loanRepo.GetByID(ctx, loanID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, domain.ErrLoanNotFound)
	}
	return loan, nil
}

func (s *LoanService) getRepayment(ctx context.Context, paymentID uint) (*models.Payment, error) {
	var payment *models.Payment
	err := retryStore(ctx, func() (err error) {
		payment, err = s.paymentRepo.GetByID(ctx, paymentID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, ErrRepaymentNotFound)
	}
	if payment.PaymentType != string(domain.PaymentLoanRepayment) {
		return nil, ErrRepaymentNotFound
	}
	return payment, nil
}

// requireActiveMember gates loan submission on ACTIVE membership
func (s *LoanService) requireActiveMember(ctx context.Context, memberID uint) error {
	var member *models.Member
	err := retryStore(ctx, func() (err error) {
		member, err = s.memberRepo.GetByID(ctx, memberID)
		return err
	})
	if err != nil {
		return storeErr(err, domain.ErrMemberNotFound)
	}
	if member.Status != string(domain.MemberActive) {
		return domain.ErrMemberNotActive
	}
	return nil
}
