package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "lifeweeks/internal/errors"
	"lifeweeks/internal/services"
)

// EventHandler handles event-related requests
type EventHandler struct {
	eventService services.EventServicer
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService services.EventServicer) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// TagRequest names a tag on an event payload.
type TagRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// CreateEventRequest represents the request payload for creating an event
type CreateEventRequest struct {
	WeekIndex   *int         `json:"week_index" binding:"required,min=0,max=4160"`
	DayOfWeek   *int         `json:"day_of_week" binding:"required,min=0,max=6"`
	Title       string       `json:"title" binding:"required,max=200"`
	Description string       `json:"description"`
	Icon        string       `json:"icon" binding:"required,max=50"`
	Color       *string      `json:"color" binding:"omitempty,hex_color"`
	Tags        []TagRequest `json:"tags" binding:"omitempty,dive"`
}

// UpdateEventRequest represents a partial update of an event. Omitted fields
// are left untouched; a present tags field replaces the whole tag set.
type UpdateEventRequest struct {
	WeekIndex   *int          `json:"week_index" binding:"omitempty,min=0,max=4160"`
	DayOfWeek   *int          `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	Title       *string       `json:"title" binding:"omitempty,max=200"`
	Description *string       `json:"description"`
	Icon        *string       `json:"icon" binding:"omitempty,max=50"`
	Color       *string       `json:"color" binding:"omitempty,hex_color"`
	Tags        *[]TagRequest `json:"tags" binding:"omitempty,dive"`
}

// ListEventsQuery holds the query parameters for listing events.
type ListEventsQuery struct {
	WeekIndex *int   `form:"week_index" binding:"omitempty,min=0,max=4160"`
	DayOfWeek *int   `form:"day_of_week" binding:"omitempty,min=0,max=6"`
	Search    string `form:"search"`
	Ordering  string `form:"ordering"`
}

func toTagInputs(tags []TagRequest) []services.TagInput {
	inputs := make([]services.TagInput, 0, len(tags))
	for _, tag := range tags {
		inputs = append(inputs, services.TagInput{Name: tag.Name})
	}
	return inputs
}

// CreateEvent handles the creation of a new event
// @Summary     Create an event
// @Description Create a new event on the caller's life calendar
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateEventRequest true "Event details"
// @Success     201 {object} models.Event "Event created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	event, err := h.eventService.CreateEvent(userID, services.EventInput{
		WeekIndex:   *req.WeekIndex,
		DayOfWeek:   *req.DayOfWeek,
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		Tags:        toTagInputs(req.Tags),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetUserEvents lists the caller's events
// @Summary     List events
// @Description List the caller's events with optional filters, search, and ordering
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Param       week_index query int false "Exact week index"
// @Param       day_of_week query int false "Exact day of week"
// @Param       search query string false "Free-text search across title, description, tag name"
// @Param       ordering query string false "Order by week_index, day_of_week, or created_at (prefix with - for descending)"
// @Success     200 {array} models.Event "Events"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /events [get]
func (h *EventHandler) GetUserEvents(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListEventsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	events, err := h.eventService.ListEvents(userID, services.EventFilter{
		WeekIndex: query.WeekIndex,
		DayOfWeek: query.DayOfWeek,
		Search:    query.Search,
		Ordering:  query.Ordering,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEventByID retrieves a single owned event
// @Summary     Get an event
// @Description Get one of the caller's events by ID
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Event ID"
// @Success     200 {object} models.Event "Event"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /events/{id} [get]
func (h *EventHandler) GetEventByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.GetEventByID(userID, eventID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// UpdateEvent partially updates an owned event
// @Summary     Update an event
// @Description Partially update an event; a supplied tags field replaces the tag set
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Event ID"
// @Param       request body UpdateEventRequest true "Fields to update"
// @Success     200 {object} models.Event "Updated event"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.EventPatch{
		WeekIndex:   req.WeekIndex,
		DayOfWeek:   req.DayOfWeek,
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	}
	if req.Tags != nil {
		inputs := toTagInputs(*req.Tags)
		patch.Tags = &inputs
	}

	event, err := h.eventService.UpdateEvent(userID, eventID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent deletes an owned event
// @Summary     Delete an event
// @Description Delete one of the caller's events; shared tags are untouched
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Event ID"
// @Success     204 "Event deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.eventService.DeleteEvent(userID, eventID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// WeekRange lists events within an inclusive week range
// @Summary     List events in a week range
// @Description List owned events with week_index between start_week and end_week inclusive
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Param       start_week query int true "First week index"
// @Param       end_week query int true "Last week index"
// @Success     200 {array} models.Event "Events"
// @Failure     400 {object} ErrorResponse "Missing bounds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /events/week_range [get]
func (h *EventHandler) WeekRange(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	startWeek, err := parseWeekParam(c, "start_week")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endWeek, err := parseWeekParam(c, "end_week")
	if err != nil {
		respondWithError(c, err)
		return
	}

	events, err := h.eventService.WeekRange(userID, startWeek, endWeek)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// parseWeekParam parses an optional integer query parameter. A missing
// parameter returns nil; the service decides whether it was required.
func parseWeekParam(c *gin.Context, param string) (*int, error) {
	value := c.Query(param)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return &n, nil
}
