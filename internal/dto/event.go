package dto

import (
	"time"

	"github.com/juntape/junta/internal/domain"
)

// EventResponse is an event with its derived display fields
type EventResponse struct {
	ID              string  `json:"id"`
	Slug            string  `json:"slug"`
	Title           string  `json:"title"`
	Subtitle        string  `json:"subtitle"`
	Description     string  `json:"description"`
	FullDescription string  `json:"full_description"`
	Category        string  `json:"category"`
	CategoryLabel   string  `json:"category_label"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Location        string  `json:"location"`
	Image           string  `json:"image,omitempty"`
	VideoURL        string  `json:"video_url,omitempty"`
	Goal            float64 `json:"goal"`
	Raised          float64 `json:"raised"`
	Remaining       float64 `json:"remaining"`
	Progress        int     `json:"progress"`
	Donors          int     `json:"donors"`
	DaysLeft        *int    `json:"days_left,omitempty"`
	Status          string  `json:"status"`
	IsFeatured      bool    `json:"is_featured"`
	CreatedBy       string  `json:"created_by,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// ToEventResponse converts an Event to its response shape
func ToEventResponse(e *domain.Event) *EventResponse {
	return &EventResponse{
		ID:              e.ID,
		Slug:            e.Slug,
		Title:           e.Title,
		Subtitle:        e.Subtitle,
		Description:     e.Description,
		FullDescription: e.FullDescription,
		Category:        string(e.Category),
		CategoryLabel:   e.Category.Label(),
		Date:            e.Date,
		Time:            e.Time,
		Location:        e.Location,
		Image:           e.Image,
		VideoURL:        e.VideoURL,
		Goal:            e.Goal,
		Raised:          e.Raised,
		Remaining:       e.Remaining(),
		Progress:        e.Progress(),
		Donors:          e.Donors,
		DaysLeft:        e.DaysLeft,
		Status:          string(e.Status),
		IsFeatured:      e.IsFeatured,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.Format(time.RFC3339),
	}
}

// ToEventResponses converts a slice, never returning nil
func ToEventResponses(events []*domain.Event) []*EventResponse {
	out := make([]*EventResponse, len(events))
	for i, e := range events {
		out[i] = ToEventResponse(e)
	}
	return out
}

// PublicEventResponse hides the owner from anonymous visitors
func PublicEventResponse(e *domain.Event) *EventResponse {
	r := ToEventResponse(e)
	r.CreatedBy = ""
	return r
}

// PublicEventResponses converts a slice for public listings
func PublicEventResponses(events []*domain.Event) []*EventResponse {
	out := make([]*EventResponse, len(events))
	for i, e := range events {
		out[i] = PublicEventResponse(e)
	}
	return out
}
