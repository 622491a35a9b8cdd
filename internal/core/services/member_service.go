package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"
	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/repositories"
	"github.com/emureccima/corporate-sub000/internal/config"
	"github.com/emureccima/corporate-sub000/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Member errors
var (
	ErrNotRegistrationPayment = fmt.Errorf("%w: payment is not a registration payment", domain.ErrInvalidInput)
	ErrWrongRegistrationFee   = fmt.Errorf("%w: amount does not match the registration fee", domain.ErrInvalidInput)
)

// MemberService owns the membership lifecycle: registration payment
// submission, admin confirmation, and the activation that the
// confirmation triggers. Activation is idempotent so the repair sweep
// and manual retries converge on the same state.
type MemberService struct {
	memberRepo  repositories.MemberRepository
	paymentRepo repositories.PaymentRepository
	cfg         *config.Config
}

// NewMemberService creates a new member service
func NewMemberService(
	memberRepo repositories.MemberRepository,
	paymentRepo repositories.PaymentRepository,
	cfg *config.Config,
) *MemberService {
	return &MemberService{
		memberRepo:  memberRepo,
		paymentRepo: paymentRepo,
		cfg:         cfg,
	}
}

// SubmitRegistrationPayment records a member's claim of having paid
// the one-time registration fee, with an optional proof file. The
// amount must match the configured fee exactly.
func (s *MemberService) SubmitRegistrationPayment(ctx context.Context, memberID uint, amount decimal.Decimal, proofFileID string) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if !amount.Equal(s.cfg.Coop.RegistrationFee) {
		return nil, ErrWrongRegistrationFee
	}

	member, err := s.getMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.Status == string(domain.MemberActive) {
		return nil, domain.ErrInvalidState
	}

	payment := &models.Payment{
		MemberID:    memberID,
		PaymentType: string(domain.PaymentRegistration),
		Amount:      amount,
		Status:      string(domain.PaymentPending),
		ProofFileID: proofFileID,
	}

	if err := retryStore(ctx, func() error { return s.paymentRepo.Create(ctx, payment) }); err != nil {
		return nil, infraErr(err)
	}

	log.Printf("Registration payment submitted: member=%d payment=%d", memberID, payment.ID)
	return payment, nil
}

// ConfirmRegistrationPayment confirms the payment and then activates
// the member. Two writes against two records; the payment flips first
// so a crash in between leaves the detectable half-state (payment
// CONFIRMED, member PENDING) that ActivateMember and the repair sweep
// can close idempotently.
func (s *MemberService) ConfirmRegistrationPayment(ctx context.Context, paymentID uint) (*models.Payment, error) {
	payment, err := s.getRegistrationPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != string(domain.PaymentPending) {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	ok, err := s.paymentRepo.UpdateStatusIf(ctx, paymentID,
		string(domain.PaymentPending), string(domain.PaymentConfirmed), "", &now)
	if err != nil {
		return nil, infraErr(err)
	}
	if !ok {
		return nil, domain.ErrInvalidState
	}

	if err := s.ActivateMember(ctx, payment.MemberID); err != nil {
		// Payment is confirmed, activation pending: the repair sweep
		// picks this up on its next run.
		log.Printf("Payment %d confirmed but activation of member %d failed: %v", paymentID, payment.MemberID, err)
		return nil, err
	}

	log.Printf("Registration confirmed: payment=%d member=%d activated", paymentID, payment.MemberID)
	return s.getRegistrationPayment(ctx, paymentID)
}

// RejectRegistrationPayment rejects a pending registration payment
func (s *MemberService) RejectRegistrationPayment(ctx context.Context, paymentID uint, reason string) (*models.Payment, error) {
	payment, err := s.getRegistrationPayment(ctx, paymentID)
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

	return s.getRegistrationPayment(ctx, paymentID)
}

// ActivateMember flips a PENDING member to ACTIVE. Already-ACTIVE is
// success, not a conflict: that is what makes crash repair a simple
// re-run.
func (s *MemberService) ActivateMember(ctx context.Context, memberID uint) error {
	member, err := s.getMember(ctx, memberID)
	if err != nil {
		return err
	}
	if member.Status == string(domain.MemberActive) {
		return nil
	}

	now := time.Now()
	ok, err := s.memberRepo.UpdateStatusIf(ctx, memberID,
		string(domain.MemberPending), string(domain.MemberActive), &now)
	if err != nil {
		return infraErr(err)
	}
	if !ok {
		// Re-read: a concurrent activation is fine, anything else
		// (e.g. INACTIVE) is a real conflict.
		member, err := s.getMember(ctx, memberID)
		if err != nil {
			return err
		}
		if member.Status == string(domain.MemberActive) {
			return nil
		}
		return domain.ErrInvalidState
	}
	return nil
}

// RepairPendingActivations finds members whose registration payment is
// CONFIRMED but who are still PENDING and re-runs activation for each.
// Safe to run any number of times.
func (s *MemberService) RepairPendingActivations(ctx context.Context) (int, error) {
	var payments []*models.Payment
	err := retryStore(ctx, func() (err error) {
		payments, err = s.paymentRepo.ListConfirmedRegistrationsPendingActivation(ctx)
		return err
	})
	if err != nil {
		return 0, infraErr(err)
	}

	repaired := 0
	for _, payment := range payments {
		if err := s.ActivateMember(ctx, payment.MemberID); err != nil {
			log.Printf("Repair: activation of member %d (payment %d) failed: %v", payment.MemberID, payment.ID, err)
			continue
		}
		repaired++
	}

	if repaired > 0 {
		log.Printf("Repair: activated %d member(s) with confirmed registration payments", repaired)
	}
	return repaired, nil
}

// UpdateStatusInput is the admin status override
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

// SetStatus lets an admin suspend or restore a member account.
// Activation of PENDING members goes through the registration flow,
// not here.
func (s *MemberService) SetStatus(ctx context.Context, memberID uint, status string) (*models.Member, error) {
	member, err := s.getMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.Status == string(domain.MemberPending) {
		return nil, domain.ErrInvalidState
	}
	if member.Status == status {
		return member, nil
	}

	ok, err := s.memberRepo.UpdateStatusIf(ctx, memberID, member.Status, status, nil)
	if err != nil {
		return nil, infraErr(err)
	}
	if !ok {
		return nil, domain.ErrInvalidState
	}

	return s.getMember(ctx, memberID)
}

// GetMember returns one member
func (s *MemberService) GetMember(ctx context.Context, memberID uint) (*models.Member, error) {
	return s.getMember(ctx, memberID)
}

// ListMembers lists members with optional status filter
func (s *MemberService) ListMembers(ctx context.Context, status string, offset, limit int) ([]*models.Member, int64, error) {
	var (
		members []*models.Member
		total   int64
	)
	err := retryStore(ctx, func() (err error) {
		members, total, err = s.memberRepo.List(ctx, status, offset, limit)
		return err
	})
	if err != nil {
		return nil, 0, infraErr(err)
	}
	return members, total, nil
}

// ListPayments lists payments filtered by type and status (admin)
func (s *MemberService) ListPayments(ctx context.Context, paymentType, status string, offset, limit int) ([]*models.Payment, int64, error) {
	var (
		payments []*models.Payment
		total    int64
	)
	err := retryStore(ctx, func() (err error) {
		payments, total, err = s.paymentRepo.List(ctx, paymentType, status, offset, limit)
		return err
	})
	if err != nil {
		return nil, 0, infraErr(err)
	}
	return payments, total, nil
}

// ListMemberPayments lists the member's own payments
func (s *MemberService) ListMemberPayments(ctx context.Context, memberID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := retryStore(ctx, func() (err error) {
		payments, err = s.paymentRepo.ListByMember(ctx, memberID)
		return err
	})
	if err != nil {
		return nil, infraErr(err)
	}
	return payments, nil
}

func (s *MemberService) getMember(ctx context.Context, memberID uint) (*models.Member, error) {
	var member *models.Member
	err := retryStore(ctx, func() (err error) {
		member, err = s.memberRepo.GetByID(ctx, memberID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, domain.ErrMemberNotFound)
	}
	return member, nil
}

func (s *MemberService) getRegistrationPayment(ctx context.Context, paymentID uint) (*models.Payment, error) {
	var payment *models.Payment
	err := retryStore(ctx, func() (err error) {
		payment, err = s.paymentRepo.GetByID(ctx, paymentID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, domain.ErrPaymentNotFound)
	}
	if payment.PaymentType != string(domain.PaymentRegistration) {
		return nil, ErrNotRegistrationPayment
	}
	return payment, nil
}
