package handlers

import (
	"github.com/emureccima/corporate-sub000/internal/adapters/http/middleware"
	"github.com/emureccima/corporate-sub000/internal/config"
	"github.com/emureccima/corporate-sub000/internal/core/services"
	"github.com/emureccima/corporate-sub000/internal/pkg/filestore"
	"github.com/emureccima/corporate-sub000/internal/pkg/pagination"
	"github.com/emureccima/corporate-sub000/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles registration payment endpoints
type PaymentHandler struct {
	memberService *services.MemberService
	files         *filestore.Store
	cfg           *config.Config
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(memberService *services.MemberService, files *filestore.Store, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		memberService: memberService,
		files:         files,
		cfg:           cfg,
	}
}

// Details returns the registration fee and the cooperative's bank account
// @Summary Registration payment details
// @Description Get the registration fee amount and the bank account to transfer it to
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /payments/registration/details [get]
func (h *PaymentHandler) Details(c *fiber.Ctx) error {
	return response.Success(c, "Registration payment details", fiber.Map{
		"amount":         h.cfg.Coop.RegistrationFee,
		"bank_name":      h.cfg.Coop.BankName,
		"account_name":   h.cfg.Coop.AccountName,
		"account_number": h.cfg.Coop.AccountNumber,
	})
}

// SubmitRegistration records a registration fee payment with proof
// @Summary Submit registration payment
// @Description Submit proof of the registration fee transfer. The payment stays PENDING until an admin confirms it
// @Tags Payments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param amount formData string true "Amount paid"
// @Param proof formData file true "Proof of payment (jpg, png or pdf)"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /payments/registration [post]
func (h *PaymentHandler) SubmitRegistration(c *fiber.Ctx) error {
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

	payment, err := h.memberService.SubmitRegistrationPayment(c.Context(), middleware.MemberID(c), amount, proofID)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Registration payment submitted, awaiting confirmation", fiber.Map{
		"payment": payment,
	})
}

// MyPayments returns the authenticated member's payments
// @Summary List my payments
// @Description List all payments submitted by the authenticated member
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /payments/me [get]
func (h *PaymentHandler) MyPayments(c *fiber.Ctx) error {
	payments, err := h.memberService.ListMemberPayments(c.Context(), middleware.MemberID(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Payments retrieved successfully", fiber.Map{
		"payments": payments,
	})
}

// List returns all payments for admin review
// @Summary List payments
// @Description List payments filtered by type and status (admin only)
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by type (REGISTRATION, LOAN_REPAYMENT)"
// @Param status query string false "Filter by status (PENDING, CONFIRMED, REJECTED)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	payments, total, err := h.memberService.ListPayments(c.Context(), c.Query("type"), c.Query("status"), params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Payments retrieved successfully", pagination.NewResponse(payments, params, total))
}

// ConfirmRegistration confirms a registration payment and activates the member
// @Summary Confirm registration payment
// @Description Confirm a PENDING registration payment and activate the paying member (admin only)
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/payments/{id}/confirm [post]
func (h *PaymentHandler) ConfirmRegistration(c *fiber.Ctx) error {
	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid payment ID")
	}

	payment, err := h.memberService.ConfirmRegistrationPayment(c.Context(), paymentID)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Registration payment confirmed, member activated", fiber.Map{
		"payment": payment,
	})
}

// RejectRequest carries an optional rejection reason
type RejectRequest struct {
	Reason string `json:"reason"`
}

// RejectRegistration rejects a registration payment
// @Summary Reject registration payment
// @Description Reject a PENDING registration payment with a reason (admin only)
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param body body RejectRequest false "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/payments/{id}/reject [post]
func (h *PaymentHandler) RejectRegistration(c *fiber.Ctx) error {
	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid payment ID")
	}

	var req RejectRequest
	_ = c.BodyParser(&req)

	payment, err := h.memberService.RejectRegistrationPayment(c.Context(), paymentID, req.Reason)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Registration payment rejected", fiber.Map{
		"payment": payment,
	})
}

// Proof streams a stored proof-of-payment file
// @Summary Download proof of payment
// @Description Download the proof file attached to a payment (admin only)
// @Tags Payments
// @Produce octet-stream
// @Security BearerAuth
// @Param fileID path string true "Proof file ID"
// @Success 200 {file} file
// @Failure 404 {object} response.Response
// @Router /admin/payments/proof/{fileID} [get]
func (h *PaymentHandler) Proof(c *fiber.Ctx) error {
	path, err := h.files.Path(c.Params("fileID"))
	if err != nil {
		return response.NotFound(c, "Proof file not found")
	}
	return c.SendFile(path)
}
