package handlers

import (
	"github.com/emureccima/corporate-sub000/internal/adapters/http/middleware"
	"github.com/emureccima/corporate-sub000/internal/core/services"
	"github.com/emureccima/corporate-sub000/internal/pkg/pagination"
	"github.com/emureccima/corporate-sub000/internal/pkg/response"
	"github.com/emureccima/corporate-sub000/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// SavingsHandler handles savings ledger endpoints
type SavingsHandler struct {
	savingsService *services.SavingsService
}

// NewSavingsHandler creates a new savings handler
func NewSavingsHandler(savingsService *services.SavingsService) *SavingsHandler {
	return &SavingsHandler{savingsService: savingsService}
}

// Deposit submits a savings deposit
// @Summary Submit deposit
// @Description Record a PENDING savings deposit; it counts toward the balance once an admin confirms it
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.DepositInput true "Deposit data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /savings/deposits [post]
func (h *SavingsHandler) Deposit(c *fiber.Ctx) error {
	var req services.DepositInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validator.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	entry, err := h.savingsService.SubmitDeposit(c.Context(), middleware.MemberID(c), &req)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Deposit submitted, awaiting confirmation", fiber.Map{
		"entry": entry,
	})
}

// Balance returns the member's confirmed savings balance
// @Summary Get savings balance
// @Description Compute the authenticated member's balance from confirmed ledger entries
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /savings/balance [get]
func (h *SavingsHandler) Balance(c *fiber.Ctx) error {
	balance, err := h.savingsService.ComputeBalance(c.Context(), middleware.MemberID(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Balance computed successfully", fiber.Map{
		"balance": balance,
	})
}

// Entries returns the member's savings ledger
// @Summary List my savings entries
// @Description List the authenticated member's savings entries, newest first
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /savings/entries [get]
func (h *SavingsHandler) Entries(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	entries, total, err := h.savingsService.ListEntries(c.Context(), middleware.MemberID(c), params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Entries retrieved successfully", pagination.NewResponse(entries, params, total))
}

// PendingEntries returns deposits awaiting confirmation
// @Summary List pending deposits
// @Description List PENDING savings entries across all members (admin only)
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/savings/pending [get]
func (h *SavingsHandler) PendingEntries(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	entries, total, err := h.savingsService.ListPendingEntries(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Pending entries retrieved successfully", pagination.NewResponse(entries, params, total))
}

// ConfirmEntry confirms a pending deposit
// @Summary Confirm deposit
// @Description Confirm a PENDING savings entry so it counts toward the member's balance (admin only)
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/savings/{id}/confirm [post]
func (h *SavingsHandler) ConfirmEntry(c *fiber.Ctx) error {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID")
	}

	entry, err := h.savingsService.ConfirmEntry(c.Context(), entryID)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Entry confirmed successfully", fiber.Map{
		"entry": entry,
	})
}

// RejectEntry rejects a pending deposit
// @Summary Reject deposit
// @Description Reject a PENDING savings entry; it never counts toward the balance (admin only)
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/savings/{id}/reject [post]
func (h *SavingsHandler) RejectEntry(c *fiber.Ctx) error {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID")
	}

	entry, err := h.savingsService.RejectEntry(c.Context(), entryID)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Entry rejected", fiber.Map{
		"entry": entry,
	})
}
