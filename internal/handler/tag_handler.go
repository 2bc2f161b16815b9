package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogapi/internal/service"
)

// TagHandler handles tag endpoints.
type TagHandler struct {
	tagService service.TagService
}

// NewTagHandler creates a new tag handler.
func NewTagHandler(tagService service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// CreateTagRequest represents a tag creation request.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

// UpdateTagRequest represents a partial tag update.
type UpdateTagRequest struct {
	Name *string `json:"name" validate:"omitempty,max=80"`
}

// CreateTag godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTagRequest true "Tag data"
// @Success 201 {object} model.Tag
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /tags [post]
func (h *TagHandler) CreateTag(c echo.Context) error {
	var req CreateTagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tag, err := h.tagService.Create(c.Request().Context(), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, tag)
}

// GetTag godoc
// @Summary Get a tag by id
// @Tags tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} model.Tag
// @Failure 404 {object} errors.ErrorResponse
// @Router /tags/{id} [get]
func (h *TagHandler) GetTag(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	tag, err := h.tagService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tag)
}

// ListTags godoc
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} model.Tag
// @Router /tags [get]
func (h *TagHandler) ListTags(c echo.Context) error {
	tags, err := h.tagService.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tags)
}

// UpdateTag godoc
// @Summary Update a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Param request body UpdateTagRequest true "Fields to update"
// @Success 200 {object} model.Tag
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /tags/{id} [put]
func (h *TagHandler) UpdateTag(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req UpdateTagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tag, err := h.tagService.Update(c.Request().Context(), id, service.TagUpdateInput{
		Name: req.Name,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tag)
}

// DeleteTag godoc
// @Summary Delete a tag
// @Tags tags
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /tags/{id} [delete]
func (h *TagHandler) DeleteTag(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.tagService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
