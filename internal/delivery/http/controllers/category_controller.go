package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// CategoryRequest is the request body for POST /categories and PUT /categories/{categoryID}.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate implements Validator.
func (c CategoryRequest) Validate() []string {
	if strings.TrimSpace(c.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// CategorySuccessResponse is the success response envelope for single-category endpoints.
type CategorySuccessResponse struct {
	Data  *domain.Category  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type CategoryController struct {
	Logger  *slog.Logger
	Service domain.CategoryService
}

func NewCategoryController(logger *slog.Logger, svc domain.CategoryService) *CategoryController {
	return &CategoryController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *CategoryController) writeCategoryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "category not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// CreateCategory godoc
// @Summary Create a category
// @Description Creates an event category. Requires the organizer or admin role.
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CategoryRequest true "Category data"
// @Success 201 {object} controllers.CategorySuccessResponse "data contains the created category"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate name)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [post]
func (c *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	category := &domain.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := c.Service.CreateCategory(r.Context(), category, userID); err != nil {
		c.writeCategoryError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, category)
}

// GetCategoryByID godoc
// @Summary Get a category by ID
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param categoryID path string true "Category ID (UUID)"
// @Success 200 {object} controllers.CategorySuccessResponse "data contains the category"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{categoryID} [get]
func (c *CategoryController) GetCategoryByID(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := helpers.PathUUID(w, r, "categoryID")
	if !ok {
		return
	}
	category, err := c.Service.GetCategoryByID(r.Context(), categoryID)
	if err != nil {
		c.writeCategoryError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of categories"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *CategoryController) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Service.ListCategories(r.Context())
	if err != nil {
		c.writeCategoryError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, categories)
}

// UpdateCategory godoc
// @Summary Update a category
// @Description Updates the category name and description. Requires the organizer or admin role.
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param categoryID path string true "Category ID (UUID)"
// @Param body body CategoryRequest true "Category data"
// @Success 200 {object} controllers.CategorySuccessResponse "data contains the updated category"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{categoryID} [put]
func (c *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := helpers.PathUUID(w, r, "categoryID")
	if !ok {
		return
	}
	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	category := &domain.Category{
		ID:          categoryID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	updated, err := c.Service.UpdateCategory(r.Context(), category, userID)
	if err != nil {
		c.writeCategoryError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Deletes the category. Fails when events still reference it. Requires the organizer or admin role.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param categoryID path string true "Category ID (UUID)"
// @Success 204 "category deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (category in use)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{categoryID} [delete]
func (c *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := helpers.PathUUID(w, r, "categoryID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteCategory(r.Context(), categoryID, userID); err != nil {
		c.writeCategoryError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
