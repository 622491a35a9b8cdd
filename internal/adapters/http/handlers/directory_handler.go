package handlers

import (
	"github.com/emureccima/corporate-sub000/internal/adapters/http/middleware"
	"github.com/emureccima/corporate-sub000/internal/core/services"
	"github.com/emureccima/corporate-sub000/internal/pkg/pagination"
	"github.com/emureccima/corporate-sub000/internal/pkg/response"
	"github.com/emureccima/corporate-sub000/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// DirectoryHandler handles business directory endpoints
type DirectoryHandler struct {
	directoryService *services.DirectoryService
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directoryService *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService}
}

// List returns the business directory
// @Summary List businesses
// @Description Browse member business listings, optionally filtered by category
// @Tags Directory
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /directory [get]
func (h *DirectoryHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	businesses, total, err := h.directoryService.List(c.Context(), c.Query("category"), params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Businesses retrieved successfully", pagination.NewResponse(businesses, params, total))
}

// MyListings returns the member's own listings
// @Summary List my businesses
// @Description List the authenticated member's business listings
// @Tags Directory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /directory/me [get]
func (h *DirectoryHandler) MyListings(c *fiber.Ctx) error {
	businesses, err := h.directoryService.ListByMember(c.Context(), middleware.MemberID(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Businesses retrieved successfully", fiber.Map{
		"businesses": businesses,
	})
}

// Create adds a business listing
// @Summary Create business listing
// @Description Add a business listing to the member directory
// @Tags Directory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.BusinessInput true "Business data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /directory [post]
func (h *DirectoryHandler) Create(c *fiber.Ctx) error {
	var req services.BusinessInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validator.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	business, err := h.directoryService.Create(c.Context(), middleware.MemberID(c), &req)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Business listing created successfully", fiber.Map{
		"business": business,
	})
}

// Update edits a business listing
// @Summary Update business listing
// @Description Update a listing. Members may only edit their own listings; admins may edit any
// @Tags Directory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Business ID"
// @Param body body services.BusinessInput true "Business data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /directory/{id} [put]
func (h *DirectoryHandler) Update(c *fiber.Ctx) error {
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid business ID")
	}

	var req services.BusinessInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validator.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	business, err := h.directoryService.Update(c.Context(), businessID, middleware.MemberID(c), middleware.IsAdmin(c), &req)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Business listing updated successfully", fiber.Map{
		"business": business,
	})
}

// Delete removes a business listing
// @Summary Delete business listing
// @Description Delete a listing. Members may only delete their own listings; admins may delete any
// @Tags Directory
// @Produce json
// @Security BearerAuth
// @Param id path int true "Business ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /directory/{id} [delete]
func (h *DirectoryHandler) Delete(c *fiber.Ctx) error {
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid business ID")
	}

	if err := h.directoryService.Delete(c.Context(), businessID, middleware.MemberID(c), middleware.IsAdmin(c)); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Business listing deleted successfully", nil)
}
