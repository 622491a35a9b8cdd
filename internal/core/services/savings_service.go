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

// Savings errors
var (
	ErrEntryNotFound     = fmt.Errorf("%w: savings entry", domain.ErrNotFound)
	ErrNonPositiveAmount = fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidInput)
)

// SavingsService owns the savings ledger: deposit submission, admin
// confirmation, and the balance computation every other money flow
// depends on.
type SavingsService struct {
	savingsRepo repositories.SavingsRepository
	memberRepo  repositories.MemberRepository
}

// NewSavingsService creates a new savings service
func NewSavingsService(savingsRepo repositories.SavingsRepository, memberRepo repositories.MemberRepository) *SavingsService {
	return &SavingsService{
		savingsRepo: savingsRepo,
		memberRepo:  memberRepo,
	}
}

// ComputeBalance derives the member's available balance from the
// confirmed ledger entries: deposits positive, approved withdrawals
// negative, pending and rejected entries excluded. The result is
// clamped at zero so inconsistent data can never surface as a negative
// balance. Always reads the store; nothing here is cached.
func (s *SavingsService) ComputeBalance(ctx context.Context, memberID uint) (*domain.Balance, error) {
	var entries []*models.SavingsEntry
	err := retryStore(ctx, func() (err error) {
		entries, err = s.savingsRepo.ListConfirmedByMember(ctx, memberID)
		return err
	})
	if err != nil {
		return nil, infraErr(err)
	}

	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Amount)
	}

	if total.IsNegative() {
		log.Printf("Warning: member %d has negative confirmed ledger sum %s, clamping to zero", memberID, total)
		total = decimal.Zero
	}

	return &domain.Balance{
		MemberID:   memberID,
		Amount:     total,
		ComputedAt: time.Now(),
	}, nil
}

// DepositInput represents a member deposit submission
type DepositInput struct {
	Amount      decimal.Decimal `json:"amount" validate:"required,decimal_gt_zero"`
	Description string          `json:"description" validate:"max=255"`
}

// SubmitDeposit records a PENDING deposit entry. The amount only
// counts toward the balance once an admin confirms it.
func (s *SavingsService) SubmitDeposit(ctx context.Context, memberID uint, input *DepositInput) (*models.SavingsEntry, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	if err := s.requireActiveMember(ctx, memberID); err != nil {
		return nil, err
	}

	entry := &models.SavingsEntry{
		MemberID:    memberID,
		Amount:      input.Amount,
		Status:      string(domain.EntryPending),
		Description: input.Description,
	}

	if err := retryStore(ctx, func() error { return s.savingsRepo.Create(ctx, entry) }); err != nil {
		return nil, infraErr(err)
	}

	log.Printf("Deposit submitted: member=%d amount=%s entry=%d", memberID, input.Amount, entry.ID)
	return entry, nil
}

// ConfirmEntry confirms a PENDING entry so it starts counting toward
// the balance. The compare-and-set aborts with a conflict if another
// admin already processed the entry.
func (s *SavingsService) ConfirmEntry(ctx context.Context, entryID uint) (*models.SavingsEntry, error) {
	if _, err := s.getEntry(ctx, entryID); err != nil {
		return nil, err
	}

	now := time.Now()
	ok, err := s.savingsRepo.UpdateStatusIf(ctx, entryID,
		string(domain.EntryPending), string(domain.EntryConfirmed), &now)
	if err != nil {
		return nil, infraErr(err)
	}
	if !ok {
		return nil, domain.ErrInvalidState
	}

	return s.getEntry(ctx, entryID)
}

// RejectEntry rejects a PENDING entry. Terminal; the amount never
// counts.
func (s *SavingsService) RejectEntry(ctx context.Context, entryID uint) (*models.SavingsEntry, error) {
	if _, err := s.getEntry(ctx, entryID); err != nil {
		return nil, err
	}

	ok, err := s.savingsRepo.UpdateStatusIf(ctx, entryID,
		string(domain.EntryPending), string(domain.EntryRejected), nil)
	if err != nil {
		return nil, infraErr(err)
	}
	if !ok {
		return nil, domain.ErrInvalidState
	}

	return s.getEntry(ctx, entryID)
}

// ListEntries lists a member's ledger entries with pagination
func (s *SavingsService) ListEntries(ctx context.Context, memberID uint, offset, limit int) ([]*models.SavingsEntry, int64, error) {
	var (
		entries []*models.SavingsEntry
		total   int64
	)
	err := retryStore(ctx, func() (err error) {
		entries, total, err = s.savingsRepo.ListByMember(ctx, memberID, offset, limit)
		return err
	})
	if err != nil {
		return nil, 0, infraErr(err)
	}
	return entries, total, nil
}

// ListPendingEntries lists deposits awaiting admin confirmation
func (s *SavingsService) ListPendingEntries(ctx context.Context, offset, limit int) ([]*models.SavingsEntry, int64, error) {
	var (
		entries []*models.SavingsEntry
		total   int64
	)
	err := retryStore(ctx, func() (err error) {
		entries, total, err = s.savingsRepo.ListPending(ctx, offset, limit)
		return err
	})
	if err != nil {
		return nil, 0, infraErr(err)
	}
	return entries, total, nil
}

func (s *SavingsService) getEntry(ctx context.Context, entryID uint) (*models.SavingsEntry, error) {
	var entry *models.SavingsEntry
	err := retryStore(ctx, func() (err error) {
		entry, err = s.savingsRepo.GetByID(ctx, entryID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, ErrEntryNotFound)
	}
	return entry, nil
}

// requireActiveMember gates money operations on ACTIVE membership
func (s *SavingsService) requireActiveMember(ctx context.Context, memberID uint) error {
	var member *models.Member
	err := retryStore(ctx, func() (err error) {
		member, err = s.memberRepo.GetByID(ctx, memberID)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrMemberNotFound
		}
		return infraErr(err)
	}
	if member.Status != string(domain.MemberActive) {
		return domain.ErrMemberNotActive
	}
	return nil
}
