package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/dto"
	"github.com/juntape/junta/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWizardRouter(svc *MockEventService, userID string) *gin.Engine {
	h := NewWizardHandler(svc)
	r := gin.New()
	r.Use(asUser(userID, "promoter"))
	r.GET("/wizard", h.Get)
	r.POST("/wizard/validate", h.Validate)
	return r
}

func validateStep(t *testing.T, r *gin.Engine, req dto.ValidateStepRequest) (int, dto.ValidateStepResponse) {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/wizard/validate", req)
	var resp dto.ValidateStepResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(decode(w).Data, &resp))
	}
	return w.Code, resp
}

func TestWizardHandler_Validate(t *testing.T) {
	r := newWizardRouter(NewMockEventService(), "p-1")
	basics := wizard.Draft{Title: "Festival de Jazz", Subtitle: "Noche", Category: "musica"}

	t.Run("valid step advances", func(t *testing.T) {
		code, resp := validateStep(t, r, dto.ValidateStepRequest{Step: "basics", Draft: basics})
		require.Equal(t, http.StatusOK, code)
		assert.True(t, resp.Valid)
		assert.Equal(t, wizard.StepSchedule, resp.Step)
		assert.Equal(t, "festival-de-jazz", resp.Slug)
	})

	t.Run("invalid step stays", func(t *testing.T) {
		code, resp := validateStep(t, r, dto.ValidateStepRequest{Step: "schedule", Draft: basics})
		require.Equal(t, http.StatusOK, code)
		assert.False(t, resp.Valid)
		assert.Equal(t, wizard.StepSchedule, resp.Step)
		assert.Contains(t, resp.Errors, "location")
	})

	t.Run("back skips validation", func(t *testing.T) {
		code, resp := validateStep(t, r, dto.ValidateStepRequest{Step: "schedule", Action: "back"})
		require.Equal(t, http.StatusOK, code)
		assert.True(t, resp.Valid)
		assert.Equal(t, wizard.StepBasics, resp.Step)
		assert.Empty(t, resp.Errors)
	})

	t.Run("unknown step", func(t *testing.T) {
		code, _ := validateStep(t, r, dto.ValidateStepRequest{Step: "payment"})
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestWizardHandler_Get(t *testing.T) {
	svc := NewMockEventService()
	svc.add(sampleEvent("jazz", "p-1", domain.EventStatusPublished))

	w := doJSON(newWizardRouter(svc, "p-1"), http.MethodGet, "/wizard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fresh struct {
		Mode  string            `json:"mode"`
		Steps []wizard.StepInfo `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(decode(w).Data, &fresh))
	assert.Equal(t, "create", fresh.Mode)
	assert.Len(t, fresh.Steps, len(wizard.Steps))

	w = doJSON(newWizardRouter(svc, "p-1"), http.MethodGet, "/wizard?id=jazz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var edit struct {
		Mode    string       `json:"mode"`
		EventID string       `json:"event_id"`
		Draft   wizard.Draft `json:"draft"`
	}
	require.NoError(t, json.Unmarshal(decode(w).Data, &edit))
	assert.Equal(t, "edit", edit.Mode)
	assert.Equal(t, "jazz", edit.EventID)
	assert.Equal(t, "Evento jazz", edit.Draft.Title)
	assert.Equal(t, "published", edit.Draft.Status)

	assert.Equal(t, http.StatusForbidden, doJSON(newWizardRouter(svc, "p-2"), http.MethodGet, "/wizard?id=jazz", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(newWizardRouter(svc, "p-1"), http.MethodGet, "/wizard?id=nope", nil).Code)
}
