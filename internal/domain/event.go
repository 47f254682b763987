package domain

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrInvalidStatus   = errors.New("invalid event status")
	ErrInvalidCategory = errors.New("invalid event category")
)

// EventStatus controls visibility in public listings (matches DB CHECK)
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusArchived  EventStatus = "archived"
)

// ParseEventStatus validates a status string
func ParseEventStatus(s string) (EventStatus, error) {
	switch st := EventStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case EventStatusDraft, EventStatusPublished, EventStatusArchived:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Category is one of the fixed categories offered to promoters
type Category string

const (
	CategoryMusica      Category = "musica"
	CategoryTeatro      Category = "teatro"
	CategoryDanza       Category = "danza"
	CategoryArte        Category = "arte"
	CategoryCine        Category = "cine"
	CategoryFestival    Category = "festival"
	CategoryGastronomia Category = "gastronomia"
	CategoryComunidad   Category = "comunidad"
)

// CategoryInfo pairs a category with its display label
type CategoryInfo struct {
	ID    Category `json:"id"`
	Label string   `json:"label"`
}

// Categories lists every category in display order
var Categories = []CategoryInfo{
	{CategoryMusica, "Música"},
	{CategoryTeatro, "Teatro"},
	{CategoryDanza, "Danza"},
	{CategoryArte, "Arte"},
	{CategoryCine, "Cine"},
	{CategoryFestival, "Festival"},
	{CategoryGastronomia, "Gastronomía"},
	{CategoryComunidad, "Comunidad"},
}

// ParseCategory validates a category string
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, info := range Categories {
		if info.ID == c {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// Label returns the display label, or the raw value for unknown categories
func (c Category) Label() string {
	for _, info := range Categories {
		if info.ID == c {
			return info.Label
		}
	}
	return string(c)
}

// Event is a crowdfunding campaign for a cultural or social event
type Event struct {
	ID              string      `json:"id"`
	Slug            string      `json:"slug"`
	Title           string      `json:"title"`
	Subtitle        string      `json:"subtitle"`
	Description     string      `json:"description"`
	FullDescription string      `json:"full_description"`
	Category        Category    `json:"category"`
	Date            string      `json:"date"`
	Time            string      `json:"time"`
	Location        string      `json:"location"`
	Image           string      `json:"image,omitempty"`
	VideoURL        string      `json:"video_url,omitempty"`
	Goal            float64     `json:"goal"`
	Raised          float64     `json:"raised"`
	Donors          int         `json:"donors"`
	DaysLeft        *int        `json:"days_left,omitempty"`
	Status          EventStatus `json:"status"`
	IsFeatured      bool        `json:"is_featured"`
	CreatedBy       string      `json:"created_by"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// IsPublic reports whether the event may appear in public listings
func (e *Event) IsPublic() bool {
	return e.Status == EventStatusPublished
}

// IsOwnedBy reports whether userID created the event
func (e *Event) IsOwnedBy(userID string) bool {
	return userID != "" && e.CreatedBy == userID
}

// Progress returns the funded percentage rounded to an integer within [0,100]
func (e *Event) Progress() int {
	return Progress(e.Goal, e.Raised)
}

// Remaining returns how much is left to reach the goal, never negative
func (e *Event) Remaining() float64 {
	return math.Max(0, e.Goal-e.Raised)
}

// Progress computes raised/goal as a whole percentage capped to [0,100]
func Progress(goal, raised float64) int {
	if goal <= 0 || raised <= 0 {
		return 0
	}
	p := math.Round(raised / goal * 100)
	if p > 100 {
		return 100
	}
	return int(p)
}

// Publish moves a draft or archived event to published
func (e *Event) Publish() error {
	if e.Status == EventStatusPublished {
		return errors.New("event is already published")
	}
	e.Status = EventStatusPublished
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// Archive hides the event from public listings
func (e *Event) Archive() error {
	if e.Status == EventStatusArchived {
		return errors.New("event is already archived")
	}
	e.Status = EventStatusArchived
	e.UpdatedAt = time.Now().UTC()
	return nil
}
