package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juntape/junta/internal/authstate"
	"github.com/juntape/junta/internal/catalog"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/dto"
	"github.com/juntape/junta/internal/service"
	"github.com/juntape/junta/internal/wizard"
	"github.com/juntape/junta/pkg/middleware"
	"github.com/juntape/junta/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockEventService is a mock implementation of EventService
type MockEventService struct {
	events    map[string]*domain.Event
	createErr error
	submits   int
}

func NewMockEventService() *MockEventService {
	return &MockEventService{events: make(map[string]*domain.Event)}
}

func (m *MockEventService) add(e *domain.Event) *domain.Event {
	m.events[e.ID] = e
	return e
}

func (m *MockEventService) ListPublished(ctx context.Context, c catalog.Criteria) ([]*domain.Event, error) {
	var all []*domain.Event
	for _, e := range m.events {
		all = append(all, e)
	}
	return catalog.Filter(all, c), nil
}

func (m *MockEventService) Featured(ctx context.Context, n int) ([]*domain.Event, error) {
	var all []*domain.Event
	for _, e := range m.events {
		all = append(all, e)
	}
	return catalog.Featured(all, n), nil
}

func (m *MockEventService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	for _, e := range m.events {
		if e.Slug == slug && e.IsPublic() {
			return e, nil
		}
	}
	return nil, service.ErrEventNotFound
}

func (m *MockEventService) GetForOwner(ctx context.Context, id, userID string) (*domain.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, service.ErrEventNotFound
	}
	if !e.IsOwnedBy(userID) {
		return nil, service.ErrForbidden
	}
	return e, nil
}

func (m *MockEventService) ListMine(ctx context.Context, userID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range m.events {
		if e.CreatedBy == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEventService) Create(ctx context.Context, userID string, d *wizard.Draft) (*domain.Event, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	e := &domain.Event{ID: "new-event", Slug: d.Slug(), CreatedBy: userID, Status: d.StatusFor(wizard.ModeCreate, "")}
	d.Apply(e)
	return m.add(e), nil
}

func (m *MockEventService) Update(ctx context.Context, id, userID string, d *wizard.Draft) (*domain.Event, error) {
	e, err := m.GetForOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	d.Apply(e)
	return e, nil
}

func (m *MockEventService) Delete(ctx context.Context, id, userID string) error {
	if _, err := m.GetForOwner(ctx, id, userID); err != nil {
		return err
	}
	delete(m.events, id)
	return nil
}

func (m *MockEventService) Publish(ctx context.Context, id, userID string) (*domain.Event, error) {
	e, err := m.GetForOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := e.Publish(); err != nil {
		return nil, service.ErrInvalidEventStatus
	}
	return e, nil
}

func (m *MockEventService) Archive(ctx context.Context, id, userID string) (*domain.Event, error) {
	e, err := m.GetForOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := e.Archive(); err != nil {
		return nil, service.ErrInvalidEventStatus
	}
	return e, nil
}

func (m *MockEventService) Submitter(mode wizard.Mode, userID, eventID string) wizard.Submitter {
	return &mockSubmitter{svc: m, mode: mode, userID: userID, eventID: eventID}
}

type mockSubmitter struct {
	svc     *MockEventService
	mode    wizard.Mode
	userID  string
	eventID string
}

func (s *mockSubmitter) Submit(ctx context.Context, d *wizard.Draft) (*domain.Event, error) {
	s.svc.submits++
	if s.mode == wizard.ModeEdit {
		return s.svc.Update(ctx, s.eventID, s.userID, d)
	}
	return s.svc.Create(ctx, s.userID, d)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	loginErr     error
	lastRefresh  string
	lastLogout   string
	sessionState authstate.State
}

func (m *MockAuthService) authResponse(email, role string) *dto.AuthResponse {
	return &dto.AuthResponse{
		AccessToken:  "access-" + email,
		RefreshToken: "refresh-" + email,
		ExpiresAt:    time.Now().Add(15 * time.Minute),
		User:         dto.UserResponse{ID: "u-1", Email: email, Role: role},
		Redirect:     "/donor-dashboard",
	}
}

func (m *MockAuthService) Signup(ctx context.Context, req *dto.SignupRequest, ua, ip string) (*dto.AuthResponse, error) {
	if req.Email == "taken@example.com" {
		return nil, service.ErrUserAlreadyExists
	}
	return m.authResponse(req.Email, req.Role), nil
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest, ua, ip string) (*dto.AuthResponse, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.authResponse(req.Email, "donor"), nil
}

func (m *MockAuthService) Refresh(ctx context.Context, rt string) (*dto.AuthResponse, error) {
	m.lastRefresh = rt
	if rt == "" {
		return nil, service.ErrSessionNotFound
	}
	return m.authResponse("rosa@example.com", "donor"), nil
}

func (m *MockAuthService) Logout(ctx context.Context, userID, rt string) error {
	m.lastRefresh = rt
	m.lastLogout = userID
	return nil
}

func (m *MockAuthService) Session(ctx context.Context, accessToken string) (authstate.State, error) {
	if accessToken == "" {
		return authstate.Anonymous(), nil
	}
	return m.sessionState, nil
}

func (m *MockAuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return nil, service.ErrUserNotFound
}

// MockDonationService is a mock implementation of DonationService
type MockDonationService struct {
	err      error
	declined *domain.Donation
	mine     []*domain.Donation
}

func (m *MockDonationService) Donate(ctx context.Context, donorID string, req *dto.CreateDonationRequest) (*domain.Donation, error) {
	if m.err != nil {
		return m.declined, m.err
	}
	d, err := domain.NewDonation(req.EventID, donorID, req.Amount, "PEN", domain.PaymentMethod(req.Method))
	if err != nil {
		return nil, err
	}
	_ = d.Succeed("txn_1")
	return d, nil
}

func (m *MockDonationService) ListMine(ctx context.Context, donorID string) ([]*domain.Donation, error) {
	return m.mine, nil
}

// MockDashboardService builds dashboards from fixed rows
type MockDashboardService struct {
	events    []*domain.Event
	donations []*domain.Donation
}

func (m *MockDashboardService) Creator(ctx context.Context, userID string, topN int) (*service.CreatorDashboard, error) {
	return service.SummarizeCreator(m.events, topN), nil
}

func (m *MockDashboardService) EventAnalytics(ctx context.Context, eventID, userID string) (*service.EventAnalytics, error) {
	for _, e := range m.events {
		if e.ID == eventID {
			if !e.IsOwnedBy(userID) {
				return nil, service.ErrForbidden
			}
			return service.AnalyzeEvent(e, m.donations), nil
		}
	}
	return nil, service.ErrEventNotFound
}

func (m *MockDashboardService) Donor(ctx context.Context, donorID string, recent int) (*service.DonorDashboard, error) {
	return service.SummarizeDonor(m.donations, recent), nil
}

// asUser stands in for JWTMiddleware
func asUser(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextKeyUserID, userID)
			c.Set(middleware.ContextKeyRole, role)
		}
		c.Next()
	}
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decoded is the envelope with data left raw
type decoded struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorData `json:"error"`
	Meta    *response.ListMeta  `json:"meta"`
}

func decode(w *httptest.ResponseRecorder) decoded {
	var d decoded
	_ = json.Unmarshal(w.Body.Bytes(), &d)
	return d
}

func sampleEvent(id, owner string, status domain.EventStatus) *domain.Event {
	return &domain.Event{
		ID:        id,
		Slug:      id,
		Title:     "Evento " + id,
		Category:  domain.CategoryMusica,
		Goal:      5000,
		Raised:    2500,
		Donors:    10,
		Status:    status,
		CreatedBy: owner,
		CreatedAt: time.Now(),
	}
}

// completeDraft passes every wizard step
func completeDraft(title string) wizard.Draft {
	return wizard.Draft{
		Title:           title,
		Subtitle:        "Una noche de improvisación",
		Category:        "musica",
		Date:            "2026-11-20",
		Time:            "20:00",
		Location:        "Barranco, Lima",
		Goal:            5000,
		Description:     "Reunimos a músicos de jazz de todo el Perú.",
		FullDescription: "Durante una noche, los mejores músicos de jazz del país compartirán escenario en Barranco.",
	}
}

var errBackend = errors.New("backend unavailable")
