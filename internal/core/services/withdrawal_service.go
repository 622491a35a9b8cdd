package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"
	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/repositories"
	"github.com/emureccima/corporate-sub000/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WithdrawalService guards withdrawals against the live savings
// balance twice: once at request time, again at approval time. The
// double check exists because the balance is a derived aggregate that
// can move between the member's request and the admin's click;
// approving on the stale snapshot could overdraw.
type WithdrawalService struct {
	withdrawalRepo repositories.WithdrawalRepository
	savingsRepo    repositories.SavingsRepository
	savings        *SavingsService
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(
	withdrawalRepo repositories.WithdrawalRepository,
	savingsRepo repositories.SavingsRepository,
	savings *SavingsService,
) *WithdrawalService {
	return &WithdrawalService{
		withdrawalRepo: withdrawalRepo,
		savingsRepo:    savingsRepo,
		savings:        savings,
	}
}

// RequestWithdrawalInput represents a withdrawal request
type RequestWithdrawalInput struct {
	Amount        decimal.Decimal `json:"amount" validate:"required,decimal_gt_zero"`
	BankName      string          `json:"bank_name" validate:"required,max=100"`
	AccountName   string          `json:"account_name" validate:"required,max=100"`
	AccountNumber string          `json:"account_number" validate:"required,max=50"`
}

// Request validates the amount against the live balance and persists a
// PENDING request with a balance snapshot for audit. An over-balance
// request is rejected before anything is persisted.
func (s *WithdrawalService) Request(ctx context.Context, memberID uint, input *RequestWithdrawalInput) (*models.WithdrawalRequest, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	if err := s.savings.requireActiveMember(ctx, memberID); err != nil {
		return nil, err
	}

	balance, err := s.savings.ComputeBalance(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if input.Amount.GreaterThan(balance.Amount) {
		return nil, fmt.Errorf("%w: requested %s, available %s",
			domain.ErrInsufficientFunds, input.Amount, balance.Amount)
	}

	withdrawal := &models.WithdrawalRequest{
		MemberID:        memberID,
		RequestedAmount: input.Amount,
		BalanceSnapshot: balance.Amount,
		BankName:        input.BankName,
		AccountName:     input.AccountName,
		AccountNumber:   input.AccountNumber,
		Status:          string(domain.WithdrawalPending),
	}

	if err := retryStore(ctx, func() error { return s.withdrawalRepo.Create(ctx, withdrawal) }); err != nil {
		return nil, infraErr(err)
	}

	log.Printf("Withdrawal requested: member=%d amount=%s snapshot=%s withdrawal=%d",
		memberID, input.Amount, balance.Amount, withdrawal.ID)
	return withdrawal, nil
}

// Approve re-checks the live balance and, when it still covers the
// request, debits the member by writing a CONFIRMED negative ledger
// entry and then flipping the request to APPROVED. The entry write
// comes first: an APPROVED withdrawal always has its debit committed.
// A crash after the entry leaves the request PENDING with the debit
// already applied; re-running the approval finds the committed entry
// through its withdrawal reference and completes the status flip
// without writing a second debit.
//
// If the re-check fails the request stays PENDING for the admin to
// retry later or reject; the snapshot taken at request time is audit
// data only and plays no part in the decision.
func (s *WithdrawalService) Approve(ctx context.Context, withdrawalID uint, notes string) (*models.WithdrawalRequest, error) {
	withdrawal, err := s.getWithdrawal(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status != string(domain.WithdrawalPending) {
		return nil, domain.ErrInvalidState
	}

	entry, err := s.findDebitEntry(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if entry != nil {
		log.Printf("Withdrawal %d: debit entry %d already committed, completing approval", withdrawalID, entry.ID)
	} else {
		balance, err := s.savings.ComputeBalance(ctx, withdrawal.MemberID)
		if err != nil {
			return nil, err
		}

		if withdrawal.RequestedAmount.GreaterThan(balance.Amount) {
			return nil, fmt.Errorf("%w: requested %s, available %s at approval time",
				domain.ErrInsufficientFunds, withdrawal.RequestedAmount, balance.Amount)
		}

		entry = &models.SavingsEntry{
			MemberID:            withdrawal.MemberID,
			Amount:              withdrawal.RequestedAmount.Neg(),
			Status:              string(domain.EntryConfirmed),
			Description:         fmt.Sprintf("Withdrawal #%d", withdrawal.ID),
			WithdrawalRequestID: &withdrawal.ID,
			ConfirmedAt:         &now,
		}
		if err := s.savingsRepo.Create(ctx, entry); err != nil {
			return nil, infraErr(err)
		}
	}

	ok, err := s.withdrawalRepo.UpdateStatusIf(ctx, withdrawalID,
		string(domain.WithdrawalPending), string(domain.WithdrawalApproved), notes, &now)
	if err != nil {
		log.Printf("Withdrawal %d: debit entry %d written but status flip failed: %v", withdrawalID, entry.ID, err)
		return nil, infraErr(err)
	}
	if !ok {
		// Lost the race after the debit landed. Leave the trail for
		// operators; the debit entry names the withdrawal it belongs to.
		log.Printf("Withdrawal %d: status changed concurrently after debit entry %d", withdrawalID, entry.ID)
		return nil, domain.ErrInvalidState
	}

	log.Printf("Withdrawal approved: withdrawal=%d member=%d amount=%s entry=%d",
		withdrawalID, withdrawal.MemberID, withdrawal.RequestedAmount, entry.ID)
	return s.getWithdrawal(ctx, withdrawalID)
}

// Reject moves a PENDING request to REJECTED. Terminal; no ledger
// entry is created.
func (s *WithdrawalService) Reject(ctx context.Context, withdrawalID uint, reason string) (*models.WithdrawalRequest, error) {
	withdrawal, err := s.getWithdrawal(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status != string(domain.WithdrawalPending) {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	ok, err := s.withdrawalRepo.UpdateStatusIf(ctx, withdrawalID,
		string(domain.WithdrawalPending), string(domain.WithdrawalRejected), reason, &now)
	if err != nil {
		return nil, infraErr(err)
	}
	if !ok {
		return nil, domain.ErrInvalidState
	}

	return s.getWithdrawal(ctx, withdrawalID)
}

// ListByMember lists a member's withdrawal requests
func (s *WithdrawalService) ListByMember(ctx context.Context, memberID uint) ([]*models.WithdrawalRequest, error) {
	var withdrawals []*models.WithdrawalRequest
	err := retryStore(ctx, func() (err error) {
		withdrawals, err = s.withdrawalRepo.ListByMember(ctx, memberID)
		return err
	})
	if err != nil {
		return nil, infraErr(err)
	}
	return withdrawals, nil
}

// List lists withdrawal requests with optional status filter
func (s *WithdrawalService) List(ctx context.Context, status string, offset, limit int) ([]*models.WithdrawalRequest, int64, error) {
	var (
		withdrawals []*models.WithdrawalRequest
		total       int64
	)
	err := retryStore(ctx, func() (err error) {
		withdrawals, total, err = s.withdrawalRepo.List(ctx, status, offset, limit)
		return err
	})
	if err != nil {
		return nil, 0, infraErr(err)
	}
	return withdrawals, total, nil
}

func (s *WithdrawalService) getWithdrawal(ctx context.Context, withdrawalID uint) (*models.WithdrawalRequest, error) {
	var withdrawal *models.WithdrawalRequest
	err := retryStore(ctx, func() (err error) {
		withdrawal, err = s.withdrawalRepo.GetByID(ctx, withdrawalID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, domain.ErrWithdrawalNotFound)
	}
	return withdrawal, nil
}

// findDebitEntry looks up the confirmed debit a previous approval
// attempt may already have written. No entry is not an error.
func (s *WithdrawalService) findDebitEntry(ctx context.Context, withdrawalID uint) (*models.SavingsEntry, error) {
	var entry *models.SavingsEntry
	err := retryStore(ctx, func() (err error) {
		entry, err = s.savingsRepo.GetConfirmedByWithdrawal(ctx, withdrawalID)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, infraErr(err)
	}
	return entry, nil
}
