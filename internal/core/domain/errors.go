package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Store errors. ErrStoreUnavailable marks transient infrastructure
// faults: safe for the caller to retry once, never to be confused with
// a business-rule rejection.
var (
	ErrStoreUnavailable = errors.New("store unavailable")
)

// State-transition errors. ErrInvalidState means the record is no
// longer in the status the operation requires (stale UI or a lost
// race); it is surfaced as a conflict and never retried.
var (
	ErrInvalidState = errors.New("record not in a valid state for this operation")
)

// Balance errors. Both are business-rule rejections, not system
// faults: never retried, never clamped.
var (
	ErrInsufficientBalance = errors.New("repayment exceeds outstanding loan balance")
	ErrInsufficientFunds   = errors.New("requested amount exceeds available savings balance")
)

// MemberErrors
var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("member already exists")
	ErrMemberNotActive     = errors.New("member is not active")
	ErrInvalidPassword     = errors.New("invalid password")
)

// LoanErrors
var (
	ErrLoanNotFound = errors.New("loan not found")
)

// WithdrawalErrors
var (
	ErrWithdrawalNotFound = errors.New("withdrawal request not found")
)

// PaymentErrors
var (
	ErrPaymentNotFound = errors.New("payment not found")
)
