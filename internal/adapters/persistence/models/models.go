package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Membership & Auth Tables
// ============================================================

// Member represents the members table. It is both the auth identity
// and the membership record: status gates every money operation.
type Member struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	MemberNo    string         `gorm:"uniqueIndex;size:20;not null" json:"member_no"`
	FullName    string         `gorm:"size:100;not null" json:"full_name"`
	Email       string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	Phone       string         `gorm:"size:30" json:"phone"`
	Role        string         `gorm:"size:20;default:'MEMBER'" json:"role"`
	Status      string         `gorm:"size:20;default:'PENDING';index" json:"status"`
	ActivatedAt *time.Time     `json:"activated_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Member) TableName() string {
	return "members"
}

// MemberResponse DTO
type MemberResponse struct {
	ID          uint       `json:"id"`
	MemberNo    string     `json:"member_no"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	ActivatedAt *time.Time `json:"activated_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:          m.ID,
		MemberNo:    m.MemberNo,
		FullName:    m.FullName,
		Email:       m.Email,
		Phone:       m.Phone,
		Role:        m.Role,
		Status:      m.Status,
		ActivatedAt: m.ActivatedAt,
		CreatedAt:   m.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	MemberID  uint       `gorm:"index;not null" json:"member_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	Member    Member     `gorm:"foreignKey:MemberID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Savings Ledger
// ============================================================

// SavingsEntry is one immutable ledger line. Deposits carry a positive
// amount, approved withdrawals a system-generated negative amount.
// After confirmation nothing is mutated besides the one status
// transition PENDING -> CONFIRMED/REJECTED.
type SavingsEntry struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	MemberID    uint            `gorm:"index;not null" json:"member_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status      string          `gorm:"size:20;default:'PENDING';index" json:"status"`
	Description string          `gorm:"size:255" json:"description"`
	// Set only on the debit entry an approved withdrawal spawns, so a
	// re-run of the approval can find an already-committed debit
	// instead of writing a second one.
	WithdrawalRequestID *uint      `gorm:"index" json:"withdrawal_request_id,omitempty"`
	ConfirmedAt         *time.Time `json:"confirmed_at"`
	CreatedAt           time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	Member              Member     `gorm:"foreignKey:MemberID" json:"-"`
}

func (SavingsEntry) TableName() string {
	return "savings_entries"
}

// ============================================================
// Loans
// ============================================================

// LoanRequest holds a loan application and its running balance.
// CurrentBalance stays within [0, ApprovedAmount]; the status flips to
// FULLY_REPAID exactly when it reaches zero.
type LoanRequest struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	MemberID        uint            `gorm:"index;not null" json:"member_id"`
	RequestedAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"requested_amount"`
	ApprovedAmount  decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"approved_amount"`
	CurrentBalance  decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"current_balance"`
	Status          string          `gorm:"size:20;default:'PENDING_REVIEW';index" json:"status"`
	Purpose         string          `gorm:"size:255" json:"purpose"`
	RepaymentMonths int             `gorm:"not null" json:"repayment_months"`
	MonthlyIncome   decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"monthly_income"`
	BankName        string          `gorm:"size:100" json:"bank_name"`
	AccountName     string          `gorm:"size:100" json:"account_name"`
	AccountNumber   string          `gorm:"size:50" json:"account_number"`
	AdminNotes      string          `gorm:"size:255" json:"admin_notes"`
	ApprovedAt      *time.Time      `json:"approved_at"`
	RejectedAt      *time.Time      `json:"rejected_at"`
	LastRepaymentAt *time.Time      `json:"last_repayment_at"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Member          Member          `gorm:"foreignKey:MemberID" json:"-"`
}

func (LoanRequest) TableName() string {
	return "loan_requests"
}

// ============================================================
// Payments (registration fees and loan repayments)
// ============================================================

// Payment is the generic payment record. Registration payments gate
// member activation; loan repayments decrement the referenced loan on
// confirmation. ProofFileID is an opaque file reference.
type Payment struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	MemberID        uint            `gorm:"index;not null" json:"member_id"`
	LoanRequestID   *uint           `gorm:"index" json:"loan_request_id,omitempty"`
	PaymentType     string          `gorm:"size:30;not null;index" json:"payment_type"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status          string          `gorm:"size:20;default:'PENDING';index" json:"status"`
	ProofFileID     string          `gorm:"size:64" json:"proof_file_id,omitempty"`
	RejectionReason string          `gorm:"size:255" json:"rejection_reason,omitempty"`
	ConfirmedAt     *time.Time      `json:"confirmed_at"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Member          Member          `gorm:"foreignKey:MemberID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

// ============================================================
// Withdrawals
// ============================================================

// WithdrawalRequest records a member's intent to withdraw savings.
// BalanceSnapshot is the live balance at request time, kept for audit
// only: approval always re-checks the live balance. The request itself
// never enters the balance computation; the CONFIRMED negative
// SavingsEntry created on approval is what debits the member.
type WithdrawalRequest struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	MemberID        uint            `gorm:"index;not null" json:"member_id"`
	RequestedAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"requested_amount"`
	BalanceSnapshot decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance_snapshot"`
	BankName        string          `gorm:"size:100" json:"bank_name"`
	AccountName     string          `gorm:"size:100" json:"account_name"`
	AccountNumber   string          `gorm:"size:50" json:"account_number"`
	Status          string          `gorm:"size:20;default:'PENDING';index" json:"status"`
	AdminNotes      string          `gorm:"size:255" json:"admin_notes,omitempty"`
	ProcessedAt     *time.Time      `json:"processed_at"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Member          Member          `gorm:"foreignKey:MemberID" json:"-"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}

// ============================================================
// Business Directory
// ============================================================

// Business is a member-owned business listing in the directory.
type Business struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	MemberID    uint           `gorm:"index;not null" json:"member_id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Category    string         `gorm:"size:50;index" json:"category"`
	Description string         `gorm:"type:text" json:"description"`
	Phone       string         `gorm:"size:30" json:"phone"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Member      Member         `gorm:"foreignKey:MemberID" json:"-"`
}

func (Business) TableName() string {
	return "businesses"
}

// AutoMigrate creates/updates all application tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Member{},
		&RefreshToken{},
		&SavingsEntry{},
		&LoanRequest{},
		&Payment{},
		&WithdrawalRequest{},
		&Business{},
	)
}
