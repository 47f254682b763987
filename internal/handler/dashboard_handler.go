package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/juntape/junta/internal/service"
	"github.com/juntape/junta/pkg/logger"
	"github.com/juntape/junta/pkg/middleware"
	"github.com/juntape/junta/pkg/response"
	"go.uber.org/zap"
)

// DashboardHandler serves the creator and donor dashboards
type DashboardHandler struct {
	dashboardService service.DashboardService
	log              *logger.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService service.DashboardService, log *logger.Logger) *DashboardHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardHandler{dashboardService: dashboardService, log: log}
}

// Creator handles GET /dashboard/creator?top=
func (h *DashboardHandler) Creator(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User not authenticated"))
		return
	}

	top, _ := strconv.Atoi(c.Query("top"))
	result, err := h.dashboardService.Creator(c.Request.Context(), userID, top)
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("Failed to build creator dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.InternalError("Failed to load dashboard"))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// EventAnalytics handles GET /dashboard/creator/events/:id
func (h *DashboardHandler) EventAnalytics(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User not authenticated"))
		return
	}

	result, err := h.dashboardService.EventAnalytics(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Event not found"))
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, response.Forbidden("You do not own this event"))
		default:
			h.log.WithContext(c.Request.Context()).Error("Failed to build event analytics", zap.Error(err))
			c.JSON(http.StatusInternalServerError, response.InternalError("Failed to load analytics"))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Donor handles GET /dashboard/donor?recent=
func (h *DashboardHandler) Donor(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User not authenticated"))
		return
	}

	recent, _ := strconv.Atoi(c.Query("recent"))
	result, err := h.dashboardService.Donor(c.Request.Context(), userID, recent)
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("Failed to build donor dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.InternalError("Failed to load dashboard"))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}
