package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/dto"
	"github.com/juntape/junta/internal/service"
	"github.com/juntape/junta/internal/wizard"
	"github.com/juntape/junta/pkg/middleware"
	"github.com/juntape/junta/pkg/response"
)

const (
	modeCreate = "create"
	modeEdit   = "edit"
	actionBack = "back"
)

// WizardHandler drives the event authoring wizard for a stateless client
type WizardHandler struct {
	eventService service.EventService
	validator    *wizard.Validator
}

// NewWizardHandler creates a new WizardHandler
func NewWizardHandler(eventService service.EventService) *WizardHandler {
	return &WizardHandler{
		eventService: eventService,
		validator:    wizard.NewValidator(),
	}
}

// Get handles GET /wizard?id= - an empty draft, or an owned event for editing
func (h *WizardHandler) Get(c *gin.Context) {
	resp := dto.WizardResponse{
		Mode:       modeCreate,
		Steps:      wizard.Describe(),
		Categories: domain.Categories,
	}

	if id := c.Query("id"); id != "" {
		userID, _ := middleware.GetUserID(c)
		event, err := h.eventService.GetForOwner(c.Request.Context(), id, userID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrEventNotFound):
				c.JSON(http.StatusNotFound, response.NotFound("Event not found"))
			case errors.Is(err, service.ErrForbidden):
				c.JSON(http.StatusForbidden, response.Forbidden("You do not own this event"))
			default:
				c.JSON(http.StatusInternalServerError, response.InternalError("Failed to load event"))
			}
			return
		}
		resp.Mode = modeEdit
		resp.Draft = wizard.FromEvent(event)
		resp.EventID = event.ID
	}

	c.JSON(http.StatusOK, response.Success(resp))
}

// Validate handles POST /wizard/validate - one next or back move
func (h *WizardHandler) Validate(c *gin.Context) {
	var req dto.ValidateStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	step, err := wizard.ParseStep(req.Step)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	mode := wizard.ModeCreate
	if req.Mode == modeEdit {
		mode = wizard.ModeEdit
	}

	w := wizard.At(mode, step, req.Draft, h.validator)
	valid := true
	if req.Action == actionBack {
		w.Back()
	} else {
		valid = w.Next()
	}

	resp := dto.ValidateStepResponse{
		Valid:  valid,
		Step:   w.Step(),
		Errors: w.Errors(),
	}
	if w.Draft().Title != "" {
		resp.Slug = w.Draft().Slug()
	}
	c.JSON(http.StatusOK, response.Success(resp))
}
