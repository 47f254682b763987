package service

import (
	"context"

	"github.com/juntape/junta/internal/authstate"
	"github.com/juntape/junta/internal/catalog"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/dto"
	"github.com/juntape/junta/internal/wizard"
)

// EventService defines the interface for event business logic
type EventService interface {
	// ListPublished filters the published events by criteria
	ListPublished(ctx context.Context, criteria catalog.Criteria) ([]*domain.Event, error)
	// Featured returns up to n published events for the home page
	Featured(ctx context.Context, n int) ([]*domain.Event, error)
	// GetPublishedBySlug hides drafts and archived events
	GetPublishedBySlug(ctx context.Context, slug string) (*domain.Event, error)
	// GetForOwner returns any event the user created
	GetForOwner(ctx context.Context, id, userID string) (*domain.Event, error)
	// ListMine lists the promoter's events, any status
	ListMine(ctx context.Context, userID string) ([]*domain.Event, error)
	// Create stores a new event from a complete draft
	Create(ctx context.Context, userID string, d *wizard.Draft) (*domain.Event, error)
	// Update replaces an owned event's fields from a complete draft
	Update(ctx context.Context, id, userID string, d *wizard.Draft) (*domain.Event, error)
	// Delete soft deletes an owned event
	Delete(ctx context.Context, id, userID string) error
	// Publish makes an owned event public
	Publish(ctx context.Context, id, userID string) (*domain.Event, error)
	// Archive hides an owned event
	Archive(ctx context.Context, id, userID string) (*domain.Event, error)
	// Submitter adapts Create/Update to the wizard's final step
	Submitter(mode wizard.Mode, userID, eventID string) wizard.Submitter
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Signup registers a new user and signs them in
	Signup(ctx context.Context, req *dto.SignupRequest, userAgent, ip string) (*dto.AuthResponse, error)
	// Login authenticates a user
	Login(ctx context.Context, req *dto.LoginRequest, userAgent, ip string) (*dto.AuthResponse, error)
	// Refresh rotates the refresh token and issues a new access token
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	// Logout invalidates the session behind refreshToken
	Logout(ctx context.Context, userID, refreshToken string) error
	// Session resolves the current auth state from an access token
	Session(ctx context.Context, accessToken string) (authstate.State, error)
	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// DonationService defines the interface for the donation flow
type DonationService interface {
	// Donate runs the donation flow for a published event
	Donate(ctx context.Context, donorID string, req *dto.CreateDonationRequest) (*domain.Donation, error)
	// ListMine lists the donor's donations, newest first
	ListMine(ctx context.Context, donorID string) ([]*domain.Donation, error)
}

// DashboardService defines the interface for dashboard aggregations
type DashboardService interface {
	// Creator summarizes a promoter's events
	Creator(ctx context.Context, userID string, topN int) (*CreatorDashboard, error)
	// EventAnalytics summarizes one owned event
	EventAnalytics(ctx context.Context, eventID, userID string) (*EventAnalytics, error)
	// Donor summarizes a donor's giving
	Donor(ctx context.Context, donorID string, recent int) (*DonorDashboard, error)
}
