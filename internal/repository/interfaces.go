package repository

import (
	"context"

	"github.com/juntape/junta/internal/domain"
)

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *domain.Event) error
	// GetByID retrieves an event by ID regardless of status
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// GetBySlug retrieves an event by slug regardless of status
	GetBySlug(ctx context.Context, slug string) (*domain.Event, error)
	// Update updates an event
	Update(ctx context.Context, event *domain.Event) error
	// Delete soft deletes an event by ID
	Delete(ctx context.Context, id string) error
	// ListPublished lists every published event, newest first
	ListPublished(ctx context.Context) ([]*domain.Event, error)
	// ListByCreator lists the events a promoter created, any status
	ListByCreator(ctx context.Context, userID string) ([]*domain.Event, error)
	// SlugExists checks if a slug is taken by an event other than excludeID
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	// ImageInUse checks if a live event other than excludeID shows the image
	ImageInUse(ctx context.Context, imageURL, excludeID string) (bool, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// SessionRepository defines the interface for refresh-token sessions
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	// GetByRefreshToken returns only unexpired sessions
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// DonationRepository defines the interface for the donations ledger
type DonationRepository interface {
	Create(ctx context.Context, donation *domain.Donation) error
	// ListByDonor returns the donor's donations newest first, joined with
	// the event title and slug
	ListByDonor(ctx context.Context, donorID string) ([]*domain.Donation, error)
	ListByEvent(ctx context.Context, eventID string) ([]*domain.Donation, error)
}
