package dto

import "github.com/juntape/junta/internal/wizard"

// ValidateStepRequest carries the client-held wizard state
type ValidateStepRequest struct {
	Step   string       `json:"step" binding:"required"`
	Action string       `json:"action"` // next (default) or back
	Mode   string       `json:"mode"`   // create (default) or edit
	Draft  wizard.Draft `json:"draft"`
}

// ValidateStepResponse tells the client where the wizard is now
type ValidateStepResponse struct {
	Valid  bool               `json:"valid"`
	Step   wizard.Step        `json:"step"`
	Errors wizard.FieldErrors `json:"errors,omitempty"`
	Slug   string             `json:"slug,omitempty"`
}

// WizardResponse describes the wizard for a fresh or edit session
type WizardResponse struct {
	Mode       string            `json:"mode"`
	Steps      []wizard.StepInfo `json:"steps"`
	Categories any               `json:"categories"`
	Draft      wizard.Draft      `json:"draft"`
	EventID    string            `json:"event_id,omitempty"`
}
