package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juntape/junta/internal/catalog"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/dto"
	"github.com/juntape/junta/internal/service"
	"github.com/juntape/junta/internal/wizard"
	"github.com/juntape/junta/pkg/logger"
	"github.com/juntape/junta/pkg/middleware"
	"github.com/juntape/junta/pkg/response"
	"go.uber.org/zap"
)

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventService service.EventService
	validator    *wizard.Validator
	log          *logger.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService, log *logger.Logger) *EventHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &EventHandler{
		eventService: eventService,
		validator:    wizard.NewValidator(),
		log:          log,
	}
}

// List handles GET /events - published events filtered by category and q
func (h *EventHandler) List(c *gin.Context) {
	var criteria catalog.Criteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid query parameters"))
		return
	}

	events, err := h.eventService.ListPublished(c.Request.Context(), criteria)
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("Failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.InternalError("Failed to list events"))
		return
	}

	c.JSON(http.StatusOK, response.List(dto.PublicEventResponses(events), len(events)))
}

// GetBySlug handles GET /events/:slug - retrieves a published event
func (h *EventHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Slug is required"))
		return
	}

	event, err := h.eventService.GetPublishedBySlug(c.Request.Context(), slug)
	if err != nil {
		h.writeError(c, err, "Failed to get event")
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.PublicEventResponse(event)))
}

// Mine handles GET /events/mine - the promoter's events in any status
func (h *EventHandler) Mine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User not authenticated"))
		return
	}

	events, err := h.eventService.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err, "Failed to list events")
		return
	}

	c.JSON(http.StatusOK, response.List(dto.ToEventResponses(events), len(events)))
}

// GetByID handles GET /events/id/:id - owners may read their drafts
func (h *EventHandler) GetByID(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User not authenticated"))
		return
	}

	event, err := h.eventService.GetForOwner(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.writeError(c, err, "Failed to get event")
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToEventResponse(event)))
}

// Create handles POST /events - submits the draft from the review step
func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User not authenticated"))
		return
	}

	var draft wizard.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	event, err := h.submit(c, wizard.ModeCreate, userID, "", draft)
	if err != nil {
		h.writeError(c, err, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, response.Success(dto.ToEventResponse(event)))
}

// Update handles PUT /events/:id - submits the edit draft from the review step
func (h *EventHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User not authenticated"))
		return
	}

	var draft wizard.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	event, err := h.submit(c, wizard.ModeEdit, userID, c.Param("id"), draft)
	if err != nil {
		h.writeError(c, err, "Failed to update event")
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToEventResponse(event)))
}

// Delete handles DELETE /events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User not authenticated"))
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.writeError(c, err, "Failed to delete event")
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Event deleted successfully"}))
}

// Publish handles POST /events/:id/publish
func (h *EventHandler) Publish(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User not authenticated"))
		return
	}

	event, err := h.eventService.Publish(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.writeError(c, err, "Failed to publish event")
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToEventResponse(event)))
}

// Archive handles POST /events/:id/archive
func (h *EventHandler) Archive(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User not authenticated"))
		return
	}

	event, err := h.eventService.Archive(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.writeError(c, err, "Failed to archive event")
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToEventResponse(event)))
}

// submit runs the wizard's final step. Invalid fields come back as a
// ValidationError so both flows answer like the service does.
func (h *EventHandler) submit(c *gin.Context, mode wizard.Mode, userID, eventID string, draft wizard.Draft) (*domain.Event, error) {
	w := wizard.At(mode, wizard.StepReview, draft, h.validator)
	event, err := w.Submit(c.Request.Context(), h.eventService.Submitter(mode, userID, eventID))
	if errors.Is(err, wizard.ErrInvalidDraft) {
		return nil, &service.ValidationError{Fields: w.Errors()}
	}
	return event, err
}

// writeError maps event service errors to responses
func (h *EventHandler) writeError(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, response.ValidationError("Revisa los campos del evento", verr.Fields))
	case errors.Is(err, service.ErrEventNotFound):
		c.JSON(http.StatusNotFound, response.NotFound("Event not found"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, response.Forbidden("You do not own this event"))
	case errors.Is(err, service.ErrInvalidEventStatus):
		c.JSON(http.StatusConflict, response.Error(response.ErrCodeConflict, err.Error()))
	default:
		h.log.WithContext(c.Request.Context()).Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.InternalError(fallback))
	}
}
