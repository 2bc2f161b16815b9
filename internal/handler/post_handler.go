package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/service"
)

// PostHandler handles post endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePostRequest represents a post creation request. The author is the
// authenticated caller, never part of the body.
type CreatePostRequest struct {
	Name        string `json:"name" validate:"required,max=80"`
	Description string `json:"description" validate:"required"`
	CategoryID  uint   `json:"category_id" validate:"required"`
	TagIDs      []uint `json:"tag_ids"`
}

// UpdatePostRequest represents a partial post update; absent fields are left
// untouched.
type UpdatePostRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=80"`
	Description *string `json:"description"`
	CategoryID  *uint   `json:"category_id"`
	TagIDs      *[]uint `json:"tag_ids"`
}

// CreatePost godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePostRequest true "Post data"
// @Success 201 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return respondError(c, apperrors.ErrUnauthenticated)
	}

	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postService.Create(c.Request().Context(), user.ID, service.PostCreateInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary Get a post by id
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	post, err := h.postService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// ListPosts godoc
// @Summary List posts
// @Tags posts
// @Produce json
// @Success 200 {array} model.Post
// @Router /posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.postService.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// UpdatePost godoc
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body UpdatePostRequest true "Fields to update"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /posts/{id} [put]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postService.Update(c.Request().Context(), id, service.PostUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete a post
// @Tags posts
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.postService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
