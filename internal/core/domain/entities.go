package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role represents user role in the system
type Role string

const (
	RoleMember Role = "MEMBER"
	RoleAdmin  Role = "ADMIN"
)

// MemberStatus represents the membership lifecycle state.
// A member can only transact (savings/loans/withdrawals) while ACTIVE,
// and ACTIVE is only reachable through admin confirmation of the
// registration payment. Members never auto-activate.
type MemberStatus string

const (
	MemberPending  MemberStatus = "PENDING"
	MemberActive   MemberStatus = "ACTIVE"
	MemberInactive MemberStatus = "INACTIVE"
)

// EntryStatus is the lifecycle of a savings ledger entry.
// Only CONFIRMED entries count toward a member's balance.
type EntryStatus string

const (
	EntryPending   EntryStatus = "PENDING"
	EntryConfirmed EntryStatus = "CONFIRMED"
	EntryRejected  EntryStatus = "REJECTED"
)

// LoanStatus is the loan request lifecycle.
// PENDING_REVIEW -> APPROVED -> FULLY_REPAID, with REJECTED as the
// alternate terminal from PENDING_REVIEW.
type LoanStatus string

const (
	LoanPendingReview LoanStatus = "PENDING_REVIEW"
	LoanApproved      LoanStatus = "APPROVED"
	LoanRejected      LoanStatus = "REJECTED"
	LoanFullyRepaid   LoanStatus = "FULLY_REPAID"
)

// PaymentStatus is shared by registration payments and loan repayments.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentConfirmed PaymentStatus = "CONFIRMED"
	PaymentRejected  PaymentStatus = "REJECTED"
)

// PaymentType distinguishes the two payment flavors stored in one table.
type PaymentType string

const (
	PaymentRegistration  PaymentType = "REGISTRATION"
	PaymentLoanRepayment PaymentType = "LOAN_REPAYMENT"
)

// WithdrawalStatus is the withdrawal request lifecycle.
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "PENDING"
	WithdrawalApproved WithdrawalStatus = "APPROVED"
	WithdrawalRejected WithdrawalStatus = "REJECTED"
)

// Balance is a point-in-time derived savings balance. It carries the
// instant it was computed so callers can reason about staleness; the
// services themselves never cache it.
type Balance struct {
	MemberID   uint
	Amount     decimal.Decimal
	ComputedAt time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
