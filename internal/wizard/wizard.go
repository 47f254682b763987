// Package wizard implements the multi-step event authoring flow.
package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/juntape/junta/internal/domain"
)

var (
	ErrUnknownStep  = errors.New("unknown wizard step")
	ErrNotOnReview  = errors.New("submit is only allowed from the review step")
	ErrInvalidDraft = errors.New("draft has invalid fields")
)

// Step is one screen of the wizard
type Step string

const (
	StepBasics      Step = "basics"
	StepSchedule    Step = "schedule"
	StepFunding     Step = "funding"
	StepMedia       Step = "media"
	StepDescription Step = "description"
	StepReview      Step = "review"
)

// Steps in navigation order
var Steps = []Step{StepBasics, StepSchedule, StepFunding, StepMedia, StepDescription, StepReview}

// stepFields is the dispatch table from step to the Draft fields it owns.
// Review has no entry: it validates everything.
var stepFields = map[Step][]string{
	StepBasics:      {"Title", "Subtitle", "Category"},
	StepSchedule:    {"Date", "Time", "Location"},
	StepFunding:     {"Goal", "DaysLeft"},
	StepMedia:       {"Image", "VideoURL"},
	StepDescription: {"Description", "FullDescription"},
}

// ParseStep validates a step name
func ParseStep(s string) (Step, error) {
	for _, st := range Steps {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStep, s)
}

// Fields returns the Draft field names owned by the step; nil means all
func (s Step) Fields() []string {
	return stepFields[s]
}

// Index returns the position of s in Steps, or -1
func (s Step) Index() int {
	for i, st := range Steps {
		if st == s {
			return i
		}
	}
	return -1
}

// StepInfo describes a step for the client
type StepInfo struct {
	Step   Step     `json:"step"`
	Index  int      `json:"index"`
	Fields []string `json:"fields"`
}

// Describe lists the steps with their JSON field names
func Describe() []StepInfo {
	jsonNames := map[string]string{
		"Title": "title", "Subtitle": "subtitle", "Category": "category",
		"Date": "date", "Time": "time", "Location": "location",
		"Goal": "goal", "DaysLeft": "days_left",
		"Image": "image", "VideoURL": "video_url",
		"Description": "description", "FullDescription": "full_description",
	}
	out := make([]StepInfo, 0, len(Steps))
	for i, st := range Steps {
		fields := []string{}
		for _, f := range st.Fields() {
			fields = append(fields, jsonNames[f])
		}
		out = append(out, StepInfo{Step: st, Index: i, Fields: fields})
	}
	return out
}

// Mode distinguishes the create and edit flows
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Submitter persists the final draft in a single create-or-update call
type Submitter interface {
	Submit(ctx context.Context, d *Draft) (*domain.Event, error)
}

// Wizard is the state of one authoring session
type Wizard struct {
	mode      Mode
	step      Step
	draft     Draft
	errors    FieldErrors
	lastError error
	validator *Validator
}

// New starts a wizard at the first step
func New(mode Mode, draft Draft, v *Validator) *Wizard {
	return At(mode, StepBasics, draft, v)
}

// At resumes a wizard at a given step, as sent back by a stateless client
func At(mode Mode, step Step, draft Draft, v *Validator) *Wizard {
	if v == nil {
		v = NewValidator()
	}
	draft.Normalize()
	return &Wizard{mode: mode, step: step, draft: draft, validator: v}
}

func (w *Wizard) Step() Step          { return w.step }
func (w *Wizard) Draft() *Draft       { return &w.draft }
func (w *Wizard) Errors() FieldErrors { return w.errors }

// LastError is the failure of the most recent Submit, if any
func (w *Wizard) LastError() error { return w.lastError }

// Update replaces the accumulated draft
func (w *Wizard) Update(d Draft) {
	d.Normalize()
	w.draft = d
}

// Next validates the current step only and advances when it is valid
func (w *Wizard) Next() bool {
	w.errors = w.validator.Step(w.step, &w.draft)
	if len(w.errors) > 0 {
		return false
	}
	if i := w.step.Index(); i >= 0 && i < len(Steps)-1 {
		w.step = Steps[i+1]
	}
	return true
}

// Back moves to the previous step without validating
func (w *Wizard) Back() {
	w.errors = nil
	if i := w.step.Index(); i > 0 {
		w.step = Steps[i-1]
	}
}

// Submit validates the whole draft and hands it to s. On any failure the
// wizard stays on review with the error recorded.
func (w *Wizard) Submit(ctx context.Context, s Submitter) (*domain.Event, error) {
	if w.step != StepReview {
		return nil, ErrNotOnReview
	}

	w.lastError = nil
	w.errors = w.validator.All(&w.draft)
	if len(w.errors) > 0 {
		w.lastError = ErrInvalidDraft
		return nil, ErrInvalidDraft
	}

	event, err := s.Submit(ctx, &w.draft)
	if err != nil {
		w.lastError = err
		return nil, err
	}
	return event, nil
}

// Mode returns the flow the wizard runs in
func (w *Wizard) Mode() Mode { return w.mode }
