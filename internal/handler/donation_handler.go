package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juntape/junta/internal/donation"
	"github.com/juntape/junta/internal/dto"
	"github.com/juntape/junta/internal/service"
	"github.com/juntape/junta/pkg/logger"
	"github.com/juntape/junta/pkg/middleware"
	"github.com/juntape/junta/pkg/response"
	"go.uber.org/zap"
)

// DonationHandler handles the donation modal endpoints
type DonationHandler struct {
	donationService service.DonationService
	log             *logger.Logger
}

// NewDonationHandler creates a new DonationHandler
func NewDonationHandler(donationService service.DonationService, log *logger.Logger) *DonationHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DonationHandler{donationService: donationService, log: log}
}

// Options handles GET /donations/options
func (h *DonationHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(donation.DefaultOptions()))
}

// Create handles POST /donations - confirms a donation
func (h *DonationHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User not authenticated"))
		return
	}

	var req dto.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	d, err := h.donationService.Donate(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Event not found"))
		case errors.Is(err, donation.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, response.ValidationError("Monto inválido", map[string]string{"amount": "Debe estar entre 5 y 50000"}))
		case errors.Is(err, donation.ErrInvalidMethod):
			c.JSON(http.StatusBadRequest, response.ValidationError("Método de pago inválido", map[string]string{"method": "Selecciona un método de pago"}))
		case errors.Is(err, donation.ErrPaymentFailed):
			resp := response.Error(response.ErrCodePaymentFailed, err.Error())
			if d != nil {
				resp.Data = dto.ToDonationResponse(d)
			}
			c.JSON(http.StatusPaymentRequired, resp)
		default:
			h.log.WithContext(c.Request.Context()).Error("Donation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, response.InternalError("Failed to process donation"))
		}
		return
	}

	c.JSON(http.StatusCreated, response.Success(dto.ToDonationResponse(d)))
}

// Mine handles GET /donations/mine
func (h *DonationHandler) Mine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("User not authenticated"))
		return
	}

	donations, err := h.donationService.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("Failed to list donations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.InternalError("Failed to list donations"))
		return
	}

	c.JSON(http.StatusOK, response.List(dto.ToDonationResponses(donations), len(donations)))
}
