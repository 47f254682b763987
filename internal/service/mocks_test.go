package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/gateway"
	"github.com/juntape/junta/internal/repository"
)

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	events    map[string]*domain.Event
	slugToID  map[string]string
	deleted   map[string]bool
	createErr error
	updateErr error
}

func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{
		events:   make(map[string]*domain.Event),
		slugToID: make(map[string]string),
		deleted:  make(map[string]bool),
	}
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.events[event.ID] = event
	m.slugToID[event.Slug] = event.ID
	return nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	event, ok := m.events[id]
	if !ok || m.deleted[id] {
		return nil, nil
	}
	cp := *event
	return &cp, nil
}

func (m *MockEventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	id, ok := m.slugToID[slug]
	if !ok {
		return nil, nil
	}
	return m.GetByID(ctx, id)
}

func (m *MockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	old, ok := m.events[event.ID]
	if !ok || m.deleted[event.ID] {
		return repository.ErrNotFound
	}
	delete(m.slugToID, old.Slug)
	m.events[event.ID] = event
	m.slugToID[event.Slug] = event.ID
	return nil
}

func (m *MockEventRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.events[id]; !ok || m.deleted[id] {
		return repository.ErrNotFound
	}
	m.deleted[id] = true
	return nil
}

func (m *MockEventRepository) ListPublished(ctx context.Context) ([]*domain.Event, error) {
	var events []*domain.Event
	for id, e := range m.events {
		if e.Status == domain.EventStatusPublished && !m.deleted[id] {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	return events, nil
}

func (m *MockEventRepository) ListByCreator(ctx context.Context, userID string) ([]*domain.Event, error) {
	var events []*domain.Event
	for id, e := range m.events {
		if e.CreatedBy == userID && !m.deleted[id] {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	return events, nil
}

func (m *MockEventRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	id, ok := m.slugToID[slug]
	return ok && id != excludeID, nil
}

func (m *MockEventRepository) ImageInUse(ctx context.Context, imageURL, excludeID string) (bool, error) {
	for id, e := range m.events {
		if id != excludeID && !m.deleted[id] && e.Image == imageURL {
			return true, nil
		}
	}
	return false, nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	users   map[string]*domain.User
	byEmail map[string]string
	getErr  error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.users[user.ID] = user
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.users[id], nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	return m.users[id], nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	sessions map[string]*domain.Session
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{sessions: make(map[string]*domain.Session)}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *MockSessionRepository) GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error) {
	for _, s := range m.sessions {
		if s.RefreshToken == token {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

// MockDonationRepository is a mock implementation of DonationRepository
type MockDonationRepository struct {
	donations []*domain.Donation
	createErr error
}

func NewMockDonationRepository() *MockDonationRepository {
	return &MockDonationRepository{}
}

func (m *MockDonationRepository) Create(ctx context.Context, d *domain.Donation) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.donations = append(m.donations, d)
	return nil
}

func (m *MockDonationRepository) ListByDonor(ctx context.Context, donorID string) ([]*domain.Donation, error) {
	var out []*domain.Donation
	for i := len(m.donations) - 1; i >= 0; i-- {
		if m.donations[i].DonorID == donorID {
			out = append(out, m.donations[i])
		}
	}
	return out, nil
}

func (m *MockDonationRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Donation, error) {
	var out []*domain.Donation
	for _, d := range m.donations {
		if d.EventID == eventID {
			out = append(out, d)
		}
	}
	return out, nil
}

// MockEventPublisher records published changes
type MockEventPublisher struct {
	mu      sync.Mutex
	changes []domain.ChangeType
	err     error
}

func (m *MockEventPublisher) Publish(ctx context.Context, t domain.ChangeType, e *domain.Event, actorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes = append(m.changes, t)
	return m.err
}

func (m *MockEventPublisher) Close() error { return nil }

func (m *MockEventPublisher) Changes() []domain.ChangeType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ChangeType(nil), m.changes...)
}

// MockImageRemover records deleted image URLs
type MockImageRemover struct {
	removed []string
}

func (m *MockImageRemover) Delete(ctx context.Context, imageURL string) error {
	m.removed = append(m.removed, imageURL)
	return nil
}

// MockGateway answers every charge with a fixed outcome
type MockGateway struct {
	success bool
	reason  string
	err     error
	charges int
}

func (m *MockGateway) Charge(ctx context.Context, req *gateway.ChargeRequest) (*gateway.ChargeResponse, error) {
	m.charges++
	if m.err != nil {
		return nil, m.err
	}
	if !m.success {
		return &gateway.ChargeResponse{Status: "failed", FailureReason: m.reason}, nil
	}
	return &gateway.ChargeResponse{Success: true, TransactionID: "txn_" + req.DonationID[:8], Status: "succeeded"}, nil
}

func (m *MockGateway) Name() string { return "test" }

var errBoom = errors.New("boom")

func publishedEvent(id, owner string, goal, raised float64) *domain.Event {
	return &domain.Event{
		ID:        id,
		Slug:      id,
		Title:     "Evento " + id,
		Category:  domain.CategoryMusica,
		Goal:      goal,
		Raised:    raised,
		Status:    domain.EventStatusPublished,
		CreatedBy: owner,
		CreatedAt: time.Now(),
	}
}
