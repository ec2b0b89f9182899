package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "lifeweeks/internal/errors"
	"lifeweeks/internal/services"
)

// TagHandler handles tag-related requests
type TagHandler struct {
	tagService services.TagServicer
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService services.TagServicer) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// CreateTagRequest represents the request payload for creating a tag
type CreateTagRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// CreateTag resolves a tag by name, creating it on first use
// @Summary     Create a tag
// @Description Get or create a tag by name; names are unique system-wide
// @Tags        tags
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTagRequest true "Tag name"
// @Success     201 {object} models.Tag "Tag"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /tags [post]
func (h *TagHandler) CreateTag(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tag, err := h.tagService.GetOrCreateTag(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// GetUserTags lists the tags reachable through the caller's events
// @Summary     List tags
// @Description List the distinct tags referenced by the caller's events
// @Tags        tags
// @Produce     json
// @Security    BearerAuth
// @Param       search query string false "Name substring filter"
// @Success     200 {array} models.Tag "Tags"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /tags [get]
func (h *TagHandler) GetUserTags(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tags, err := h.tagService.ListUserTags(userID, c.Query("search"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

// GetTagByID retrieves one of the caller's tags
// @Summary     Get a tag
// @Description Get a tag by ID if it is referenced by the caller's events
// @Tags        tags
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Tag ID"
// @Success     200 {object} models.Tag "Tag"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /tags/{id} [get]
func (h *TagHandler) GetTagByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tagID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tag, err := h.tagService.GetTagByID(userID, tagID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tag)
}

// DetachTag removes a tag from all of the caller's events
// @Summary     Detach a tag
// @Description Remove the tag from the caller's events; the shared tag row remains
// @Tags        tags
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Tag ID"
// @Success     204 "Tag detached"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /tags/{id} [delete]
func (h *TagHandler) DetachTag(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tagID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.tagService.DetachTag(userID, tagID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
