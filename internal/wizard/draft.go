package wizard

import (
	"strings"

	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/slug"
)

// Draft accumulates event fields across wizard steps
type Draft struct {
	Title           string  `json:"title" validate:"required,min=3,max=120"`
	Subtitle        string  `json:"subtitle" validate:"required,max=200"`
	Category        string  `json:"category" validate:"required,category"`
	Date            string  `json:"date" validate:"required"`
	Time            string  `json:"time" validate:"required"`
	Location        string  `json:"location" validate:"required,max=200"`
	Goal            float64 `json:"goal" validate:"required,gt=0,lte=10000000"`
	DaysLeft        *int    `json:"days_left,omitempty" validate:"omitempty,gte=1,lte=365"`
	Image           string  `json:"image,omitempty" validate:"omitempty,url"`
	VideoURL        string  `json:"video_url,omitempty" validate:"omitempty,url"`
	Description     string  `json:"description" validate:"required,min=20,max=500"`
	FullDescription string  `json:"full_description" validate:"required,min=50"`
	IsFeatured      bool    `json:"is_featured"`

	// PublishNow is the create-flow flag
	PublishNow bool `json:"publish_now"`
	// Status is the edit-flow selector; empty keeps the current status
	Status string `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
}

// Normalize trims free-text fields
func (d *Draft) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Subtitle = strings.TrimSpace(d.Subtitle)
	d.Category = strings.ToLower(strings.TrimSpace(d.Category))
	d.Date = strings.TrimSpace(d.Date)
	d.Time = strings.TrimSpace(d.Time)
	d.Location = strings.TrimSpace(d.Location)
	d.Image = strings.TrimSpace(d.Image)
	d.VideoURL = strings.TrimSpace(d.VideoURL)
	d.Description = strings.TrimSpace(d.Description)
	d.FullDescription = strings.TrimSpace(d.FullDescription)
	d.Status = strings.ToLower(strings.TrimSpace(d.Status))
}

// Slug derives the base slug from the title
func (d *Draft) Slug() string {
	return slug.Make(d.Title)
}

// StatusFor resolves the status to store. Create uses PublishNow; edit uses
// the selector and falls back to current.
func (d *Draft) StatusFor(mode Mode, current domain.EventStatus) domain.EventStatus {
	if mode == ModeCreate {
		if d.PublishNow {
			return domain.EventStatusPublished
		}
		return domain.EventStatusDraft
	}
	if st, err := domain.ParseEventStatus(d.Status); err == nil {
		return st
	}
	return current
}

// Apply copies the draft's fields onto e, leaving identity, counters and status alone
func (d *Draft) Apply(e *domain.Event) {
	e.Title = d.Title
	e.Subtitle = d.Subtitle
	e.Category = domain.Category(d.Category)
	e.Date = d.Date
	e.Time = d.Time
	e.Location = d.Location
	e.Goal = d.Goal
	e.DaysLeft = d.DaysLeft
	e.Image = d.Image
	e.VideoURL = d.VideoURL
	e.Description = d.Description
	e.FullDescription = d.FullDescription
	e.IsFeatured = d.IsFeatured
}

// FromEvent loads an existing event into a draft for the edit flow
func FromEvent(e *domain.Event) Draft {
	return Draft{
		Title:           e.Title,
		Subtitle:        e.Subtitle,
		Category:        string(e.Category),
		Date:            e.Date,
		Time:            e.Time,
		Location:        e.Location,
		Goal:            e.Goal,
		DaysLeft:        e.DaysLeft,
		Image:           e.Image,
		VideoURL:        e.VideoURL,
		Description:     e.Description,
		FullDescription: e.FullDescription,
		IsFeatured:      e.IsFeatured,
		Status:          string(e.Status),
	}
}
