package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juntape/junta/internal/authstate"
	"github.com/juntape/junta/internal/catalog"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/donation"
	"github.com/juntape/junta/internal/dto"
	"github.com/juntape/junta/internal/guard"
	"github.com/juntape/junta/internal/service"
	"github.com/juntape/junta/internal/wizard"
	"github.com/juntape/junta/pkg/logger"
	"github.com/juntape/junta/pkg/response"
	"go.uber.org/zap"
)

// HomeFeaturedCount is how many featured events the home page shows
const HomeFeaturedCount = 3

// Page is the JSON model a browser renders for a route
type Page struct {
	Name    string          `json:"name"`
	Title   string          `json:"title"`
	Session authstate.State `json:"session"`
	Data    any             `json:"data,omitempty"`
}

// RoleOption is one card on the role selection page
type RoleOption struct {
	Role  domain.Role `json:"role"`
	Label string      `json:"label"`
	Login string      `json:"login"`
}

// PageHandler serves the browser routes as page models
type PageHandler struct {
	events     service.EventService
	dashboards service.DashboardService
	log        *logger.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(events service.EventService, dashboards service.DashboardService, log *logger.Logger) *PageHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PageHandler{events: events, dashboards: dashboards, log: log}
}

// RegisterRoutes mounts every page route behind the session resolver
func (h *PageHandler) RegisterRoutes(r *gin.Engine, pages *guard.Pages) {
	g := r.Group("/", pages.Session())

	g.GET("/", h.Home)
	g.GET("/eventos", h.Events)
	g.GET("/evento/:slug", h.EventDetail)
	g.GET("/user-select", h.UserSelect)
	g.GET("/donor-login", h.Login(domain.RoleDonor))
	g.GET("/promoter-login", h.Login(domain.RolePromoter))
	g.GET("/sobre-nosotros", h.Static("about", "Sobre nosotros"))
	g.GET("/preguntas", h.Static("faq", "Preguntas frecuentes"))
	g.GET("/politicas", h.Static("policies", "Políticas"))

	donor := g.Group("", pages.Require(domain.RoleDonor))
	donor.GET("/donor-dashboard", h.DonorDashboard)

	promoter := g.Group("", pages.Require(domain.RolePromoter))
	promoter.GET("/promoter-dashboard", h.CreatorDashboard("promoter-dashboard"))
	promoter.GET("/studio", h.MyEvents("studio"))
	promoter.GET("/studio/new", h.NewEvent)
	promoter.GET("/studio/edit/:id", h.EditEvent)
	promoter.GET("/creator", h.CreatorDashboard("creator"))
	promoter.GET("/creator/events", h.MyEvents("creator-events"))
	promoter.GET("/creator/events/new", h.NewEvent)
	promoter.GET("/creator/events/:id/edit", h.EditEvent)
	promoter.GET("/creator/events/:id/analytics", h.EventAnalytics)

	r.NoRoute(pages.Session(), h.NotFound)
}

// Home shows featured published events and the category strip
func (h *PageHandler) Home(c *gin.Context) {
	featured, err := h.events.Featured(c.Request.Context(), HomeFeaturedCount)
	if err != nil {
		h.fail(c, err, "Failed to load featured events")
		return
	}
	h.render(c, "home", "Junta.pe", gin.H{
		"featured":   dto.PublicEventResponses(featured),
		"categories": domain.Categories,
	})
}

// Events is the browse and search page
func (h *PageHandler) Events(c *gin.Context) {
	var criteria catalog.Criteria
	_ = c.ShouldBindQuery(&criteria)

	events, err := h.events.ListPublished(c.Request.Context(), criteria)
	if err != nil {
		h.fail(c, err, "Failed to load events")
		return
	}
	h.render(c, "events", "Eventos", gin.H{
		"criteria":   criteria,
		"events":     dto.PublicEventResponses(events),
		"categories": domain.Categories,
	})
}

// EventDetail shows a published event with the donation modal options
func (h *PageHandler) EventDetail(c *gin.Context) {
	event, err := h.events.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			h.NotFound(c)
			return
		}
		h.fail(c, err, "Failed to load event")
		return
	}
	h.render(c, "event", event.Title, gin.H{
		"event":    dto.PublicEventResponse(event),
		"donation": donation.DefaultOptions(),
	})
}

// UserSelect lets a visitor pick donor or promoter
func (h *PageHandler) UserSelect(c *gin.Context) {
	h.render(c, "user-select", "¿Cómo quieres participar?", gin.H{
		"roles": []RoleOption{
			{Role: domain.RoleDonor, Label: "Quiero donar", Login: "/donor-login"},
			{Role: domain.RolePromoter, Label: "Quiero crear eventos", Login: "/promoter-login"},
		},
	})
}

// Login renders a role-specific sign-in page. A visitor already signed in
// with that role goes straight to their home.
func (h *PageHandler) Login(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := guard.StateFrom(c)
		if st.HasUser() && st.Role == role {
			c.Redirect(http.StatusFound, guard.HomeFor(role))
			return
		}
		h.render(c, string(role)+"-login", "Iniciar sesión", gin.H{"role": role})
	}
}

// DonorDashboard summarizes the signed-in donor's giving
func (h *PageHandler) DonorDashboard(c *gin.Context) {
	st := guard.StateFrom(c)
	result, err := h.dashboards.Donor(c.Request.Context(), st.UserID, 0)
	if err != nil {
		h.fail(c, err, "Failed to load dashboard")
		return
	}
	h.render(c, "donor-dashboard", "Mis donaciones", result)
}

// CreatorDashboard summarizes the signed-in promoter's events
func (h *PageHandler) CreatorDashboard(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := guard.StateFrom(c)
		result, err := h.dashboards.Creator(c.Request.Context(), st.UserID, 0)
		if err != nil {
			h.fail(c, err, "Failed to load dashboard")
			return
		}
		h.render(c, name, "Panel de creador", result)
	}
}

// MyEvents lists the promoter's events in any status
func (h *PageHandler) MyEvents(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := guard.StateFrom(c)
		events, err := h.events.ListMine(c.Request.Context(), st.UserID)
		if err != nil {
			h.fail(c, err, "Failed to load events")
			return
		}
		h.render(c, name, "Mis eventos", gin.H{"events": dto.ToEventResponses(events)})
	}
}

// NewEvent opens the wizard in create mode
func (h *PageHandler) NewEvent(c *gin.Context) {
	h.render(c, "event-wizard", "Nuevo evento", dto.WizardResponse{
		Mode:       modeCreate,
		Steps:      wizard.Describe(),
		Categories: domain.Categories,
	})
}

// EditEvent opens the wizard on an owned event
func (h *PageHandler) EditEvent(c *gin.Context) {
	st := guard.StateFrom(c)
	event, err := h.events.GetForOwner(c.Request.Context(), c.Param("id"), st.UserID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) || errors.Is(err, service.ErrForbidden) {
			h.NotFound(c)
			return
		}
		h.fail(c, err, "Failed to load event")
		return
	}
	h.render(c, "event-wizard", "Editar evento", dto.WizardResponse{
		Mode:       modeEdit,
		Steps:      wizard.Describe(),
		Categories: domain.Categories,
		Draft:      wizard.FromEvent(event),
		EventID:    event.ID,
	})
}

// EventAnalytics shows one owned event's figures
func (h *PageHandler) EventAnalytics(c *gin.Context) {
	st := guard.StateFrom(c)
	result, err := h.dashboards.EventAnalytics(c.Request.Context(), c.Param("id"), st.UserID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) || errors.Is(err, service.ErrForbidden) {
			h.NotFound(c)
			return
		}
		h.fail(c, err, "Failed to load analytics")
		return
	}
	h.render(c, "event-analytics", result.Event.Title, result)
}

// Static serves an informational page
func (h *PageHandler) Static(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.render(c, name, title, nil)
	}
}

// NotFound is the catch-all page
func (h *PageHandler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, response.Response{
		Success: false,
		Data:    Page{Name: "not-found", Title: "Página no encontrada", Session: guard.StateFrom(c)},
		Error:   &response.ErrorData{Code: response.ErrCodeNotFound, Message: "Page not found"},
	})
}

func (h *PageHandler) render(c *gin.Context, name, title string, data any) {
	c.JSON(http.StatusOK, response.Success(Page{
		Name:    name,
		Title:   title,
		Session: guard.StateFrom(c),
		Data:    data,
	}))
}

// fail keeps the visitor on the page with an error message
func (h *PageHandler) fail(c *gin.Context, err error, message string) {
	h.log.WithContext(c.Request.Context()).Error(message, zap.Error(err))
	c.JSON(http.StatusInternalServerError, response.Response{
		Success: false,
		Data:    Page{Name: "error", Title: "Junta.pe", Session: guard.StateFrom(c)},
		Error:   &response.ErrorData{Code: response.ErrCodeInternalServer, Message: message},
	})
}
