package handlers

import (
	"github.com/emureccima/corporate-sub000/internal/adapters/http/middleware"
	"github.com/emureccima/corporate-sub000/internal/core/services"
	"github.com/emureccima/corporate-sub000/internal/pkg/filestore"
	"github.com/emureccima/corporate-sub000/internal/pkg/pagination"
	"github.com/emureccima/corporate-sub000/internal/pkg/response"
	"github.com/emureccima/corporate-sub000/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan lifecycle endpoints
type LoanHandler struct {
	loanService *services.LoanService
	files       *filestore.Store
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService, files *filestore.Store) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		files:       files,
	}
}

// Submit creates a loan request
// @Summary Submit loan request
// @Description Submit a loan request for admin review. Only ACTIVE members may apply
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitLoanInput true "Loan request data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Submit(c *fiber.Ctx) error {
	var req services.SubmitLoanInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validator.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	loan, err := h.loanService.Submit(c.Context(), middleware.MemberID(c), &req)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Loan request submitted for review", fiber.Map{
		"loan": loan,
	})
}

// MyLoans returns the member's loan requests
// @Summary List my loans
// @Description List the authenticated member's loan requests, newest first
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/me [get]
func (h *LoanHandler) MyLoans(c *fiber.Ctx) error {
	loans, err := h.loanService.ListByMember(c.Context(), middleware.MemberID(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Loans retrieved successfully", fiber.Map{
		"loans": loans,
	})
}

// Get returns a single loan
// @Summary Get loan
// @Description Get a loan by ID. Members may only view their own loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	loanID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetLoan(c.Context(), loanID)
	if err != nil {
		return response.DomainError(c, err)
	}

	if !middleware.IsAdmin(c) && loan.MemberID != middleware.MemberID(c) {
		return response.NotFound(c, "Loan not found")
	}

	return response.Success(c, "Loan retrieved successfully", fiber.Map{
		"loan": loan,
	})
}

// List returns all loans for admin review
// @Summary List loans
// @Description List loan requests filtered by status (admin only)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (PENDING_REVIEW, APPROVED, REJECTED, FULLY_REPAID)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	loans, total, err := h.loanService.List(c.Context(), c.Query("status"), params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Loans retrieved successfully", pagination.NewResponse(loans, params, total))
}

// ApproveLoanRequest represents a loan approval body
type ApproveLoanRequest struct {
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	Notes          string          `json:"notes"`
}

// Approve approves a pending loan
// @Summary Approve loan
// @Description Approve a PENDING_REVIEW loan with the granted amount; the outstanding balance is set to it (admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body ApproveLoanRequest true "Approval data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/loans/{id}/approve [post]
func (h *LoanHandler) Approve(c *fiber.Ctx) error {
	loanID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req ApproveLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.Approve(c.Context(), loanID, req.ApprovedAmount, req.Notes)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Loan approved successfully", fiber.Map{
		"loan": loan,
	})
}

// Reject rejects a pending loan
// @Summary Reject loan
// @Description Reject a PENDING_REVIEW loan (admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body RejectRequest false "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/loans/{id}/reject [post]
func (h *LoanHandler) Reject(c *fiber.Ctx) error {
	loanID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req RejectRequest
	_ = c.BodyParser(&req)

	loan, err := h.loanService.Reject(c.Context(), loanID, req.Reason)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Loan rejected", fiber.Map{
		"loan": loan,
	})
}

// SubmitRepayment records a repayment against an approved loan
// @Summary Submit loan repayment
// @Description Submit proof of a repayment transfer against an APPROVED loan. It stays PENDING until an admin confirms it
// @Tags Loans
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param amount formData string true "Amount repaid"
// @Param proof formData file true "Proof of payment (jpg, png or pdf)"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/repayments [post]
func (h *LoanHandler) SubmitRepayment(c *fiber.Ctx) error {
	loanID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	amount, err := decimal.NewFromString(c.FormValue("amount"))
	if err != nil {
		return response.BadRequest(c, "Invalid amount")
	}

	file, err := c.FormFile("proof")
	if err != nil {
		return response.BadRequest(c, "Proof of payment file is required")
	}

	proofID, err := h.files.Save(c, file)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	payment, err := h.loanService.SubmitRepayment(c.Context(), middleware.MemberID(c), loanID, amount, proofID)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Repayment submitted, awaiting confirmation", fiber.Map{
		"payment": payment,
	})
}

// ConfirmRepayment confirms a pending repayment
// @Summary Confirm loan repayment
// @Description Confirm a PENDING repayment: the loan balance is decremented first, then the payment flips to CONFIRMED (admin only)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /admin/repayments/{id}/confirm [post]
func (h *LoanHandler) ConfirmRepayment(c *fiber.Ctx) error {
	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid payment ID")
	}

	payment, err := h.loanService.ConfirmRepayment(c.Context(), paymentID)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Repayment confirmed successfully", fiber.Map{
		"payment": payment,
	})
}

// RejectRepayment rejects a pending repayment
// @Summary Reject loan repayment
// @Description Reject a PENDING repayment; the loan balance is untouched (admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param body body RejectRequest false "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/repayments/{id}/reject [post]
func (h *LoanHandler) RejectRepayment(c *fiber.Ctx) error {
	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid payment ID")
	}

	var req RejectRequest
	_ = c.BodyParser(&req)

	payment, err := h.loanService.RejectRepayment(c.Context(), paymentID, req.Reason)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Repayment rejected", fiber.Map{
		"payment": payment,
	})
}
