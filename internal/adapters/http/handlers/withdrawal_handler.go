package handlers

import (
	"github.com/emureccima/corporate-sub000/internal/adapters/http/middleware"
	"github.com/emureccima/corporate-sub000/internal/core/services"
	"github.com/emureccima/corporate-sub000/internal/pkg/pagination"
	"github.com/emureccima/corporate-sub000/internal/pkg/response"
	"github.com/emureccima/corporate-sub000/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// WithdrawalHandler handles savings withdrawal endpoints
type WithdrawalHandler struct {
	withdrawalService *services.WithdrawalService
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(withdrawalService *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

// Request submits a withdrawal request
// @Summary Request withdrawal
// @Description Request a savings withdrawal. A request over the available balance is rejected outright and nothing is recorded
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RequestWithdrawalInput true "Withdrawal data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /withdrawals [post]
func (h *WithdrawalHandler) Request(c *fiber.Ctx) error {
	var req services.RequestWithdrawalInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validator.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	withdrawal, err := h.withdrawalService.Request(c.Context(), middleware.MemberID(c), &req)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Withdrawal requested, awaiting approval", fiber.Map{
		"withdrawal": withdrawal,
	})
}

// MyWithdrawals returns the member's withdrawal requests
// @Summary List my withdrawals
// @Description List the authenticated member's withdrawal requests, newest first
// @Tags Withdrawals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /withdrawals/me [get]
func (h *WithdrawalHandler) MyWithdrawals(c *fiber.Ctx) error {
	withdrawals, err := h.withdrawalService.ListByMember(c.Context(), middleware.MemberID(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Withdrawals retrieved successfully", fiber.Map{
		"withdrawals": withdrawals,
	})
}

// List returns all withdrawal requests for admin review
// @Summary List withdrawals
// @Description List withdrawal requests filtered by status (admin only)
// @Tags Withdrawals
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (PENDING, APPROVED, REJECTED)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/withdrawals [get]
func (h *WithdrawalHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	withdrawals, total, err := h.withdrawalService.List(c.Context(), c.Query("status"), params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Withdrawals retrieved successfully", pagination.NewResponse(withdrawals, params, total))
}

// ApproveWithdrawalRequest represents a withdrawal approval body
type ApproveWithdrawalRequest struct {
	Notes string `json:"notes"`
}

// Approve approves a pending withdrawal
// @Summary Approve withdrawal
// @Description Approve a PENDING withdrawal: the balance is re-checked against the live ledger before any money moves (admin only)
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Withdrawal ID"
// @Param body body ApproveWithdrawalRequest false "Approval notes"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /admin/withdrawals/{id}/approve [post]
func (h *WithdrawalHandler) Approve(c *fiber.Ctx) error {
	withdrawalID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid withdrawal ID")
	}

	var req ApproveWithdrawalRequest
	_ = c.BodyParser(&req)

	withdrawal, err := h.withdrawalService.Approve(c.Context(), withdrawalID, req.Notes)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Withdrawal approved successfully", fiber.Map{
		"withdrawal": withdrawal,
	})
}

// Reject rejects a pending withdrawal
// @Summary Reject withdrawal
// @Description Reject a PENDING withdrawal; the savings ledger is untouched (admin only)
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Withdrawal ID"
// @Param body body RejectRequest false "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/withdrawals/{id}/reject [post]
func (h *WithdrawalHandler) Reject(c *fiber.Ctx) error {
	withdrawalID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid withdrawal ID")
	}

	var req RejectRequest
	_ = c.BodyParser(&req)

	withdrawal, err := h.withdrawalService.Reject(c.Context(), withdrawalID, req.Reason)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Withdrawal rejected", fiber.Map{
		"withdrawal": withdrawal,
	})
}
