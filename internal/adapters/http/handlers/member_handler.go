package handlers

import (
	"strconv"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"
	"github.com/emureccima/corporate-sub000/internal/core/domain"
	"github.com/emureccima/corporate-sub000/internal/core/services"
	"github.com/emureccima/corporate-sub000/internal/pkg/pagination"
	"github.com/emureccima/corporate-sub000/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member administration endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// List returns a paginated list of members
// @Summary List members
// @Description List members, optionally filtered by status (admin only)
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (PENDING, ACTIVE, INACTIVE)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := c.Query("status")

	members, total, err := h.memberService.ListMembers(c.Context(), status, params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	out := make([]*models.MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, m.ToResponse())
	}

	return response.Success(c, "Members retrieved successfully", pagination.NewResponse(out, params, total))
}

// Get returns a single member
// @Summary Get member
// @Description Get a member by ID (admin only)
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/members/{id} [get]
func (h *MemberHandler) Get(c *fiber.Ctx) error {
	memberID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.GetMember(c.Context(), memberID)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Member retrieved successfully", fiber.Map{
		"member": member.ToResponse(),
	})
}

// UpdateStatusRequest represents a member status change body
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus activates or deactivates a member
// @Summary Update member status
// @Description Set a member's status to ACTIVE or INACTIVE (admin only). PENDING is payment-gated and cannot be set here
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/members/{id}/status [patch]
func (h *MemberHandler) UpdateStatus(c *fiber.Ctx) error {
	memberID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Status != string(domain.MemberActive) && req.Status != string(domain.MemberInactive) {
		return response.BadRequest(c, "Status must be ACTIVE or INACTIVE")
	}

	member, err := h.memberService.SetStatus(c.Context(), memberID, req.Status)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Member status updated successfully", fiber.Map{
		"member": member.ToResponse(),
	})
}

// parseIDParam parses a positive uint path parameter
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}
