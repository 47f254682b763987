package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juntape/junta/internal/catalog"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/metrics"
	"github.com/juntape/junta/internal/repository"
	"github.com/juntape/junta/internal/wizard"
	"github.com/juntape/junta/pkg/logger"
	"github.com/juntape/junta/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const maxSlugAttempts = 10

// Common errors
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrForbidden          = errors.New("not allowed to modify this event")
	ErrInvalidEvent       = errors.New("invalid event fields")
	ErrInvalidEventStatus = errors.New("invalid event status transition")
)

// ValidationError carries per-field messages for an invalid draft
type ValidationError struct {
	Fields wizard.FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidEvent, strings.Join(keys, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidEvent }

// ImageRemover deletes stored images of deleted events
type ImageRemover interface {
	Delete(ctx context.Context, imageURL string) error
}

// eventService implements EventService
type eventService struct {
	eventRepo repository.EventRepository
	publisher EventPublisher
	images    ImageRemover
	validator *wizard.Validator
	log       *logger.Logger
}

// NewEventService creates a new EventService. publisher and images may be nil.
func NewEventService(
	eventRepo repository.EventRepository,
	publisher EventPublisher,
	images ImageRemover,
	log *logger.Logger,
) EventService {
	if publisher == nil {
		publisher = NewNoOpEventPublisher()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &eventService{
		eventRepo: eventRepo,
		publisher: publisher,
		images:    images,
		validator: wizard.NewValidator(),
		log:       log,
	}
}

// ListPublished filters the published events by criteria
func (s *eventService) ListPublished(ctx context.Context, criteria catalog.Criteria) ([]*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.list_published")
	defer span.End()

	events, err := s.eventRepo.ListPublished(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// the repository already filters, but a stale cache must never leak drafts
	result := catalog.Filter(catalog.Published(events), criteria)
	span.SetAttributes(attribute.Int("events.count", len(result)))
	return result, nil
}

// Featured returns up to n published events for the home page
func (s *eventService) Featured(ctx context.Context, n int) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Featured(catalog.Published(events), n), nil
}

// GetPublishedBySlug retrieves a public event by slug
func (s *eventService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if event == nil || !event.IsPublic() {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// GetForOwner retrieves an event the user created
func (s *eventService) GetForOwner(ctx context.Context, id, userID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if !event.IsOwnedBy(userID) {
		return nil, ErrForbidden
	}
	return event, nil
}

// ListMine lists a promoter's events
func (s *eventService) ListMine(ctx context.Context, userID string) ([]*domain.Event, error) {
	return s.eventRepo.ListByCreator(ctx, userID)
}

// Create creates a new event from a complete draft
func (s *eventService) Create(ctx context.Context, userID string, d *wizard.Draft) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.create")
	defer span.End()

	d.Normalize()
	if fields := s.validator.All(d); len(fields) > 0 {
		span.SetStatus(codes.Error, "invalid draft")
		return nil, &ValidationError{Fields: fields}
	}

	slug, err := s.uniqueSlug(ctx, d.Slug(), "")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now().UTC()
	event := &domain.Event{
		ID:        uuid.New().String(),
		Slug:      slug,
		Status:    d.StatusFor(wizard.ModeCreate, ""),
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.Apply(event)

	if err := s.eventRepo.Create(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("event.id", event.ID), attribute.String("event.slug", event.Slug))
	s.publish(ctx, domain.ChangeCreated, event, userID)
	if event.Status == domain.EventStatusPublished {
		s.publish(ctx, domain.ChangePublished, event, userID)
	}
	return event, nil
}

// Update replaces an owned event's fields from a complete draft
func (s *eventService) Update(ctx context.Context, id, userID string, d *wizard.Draft) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.update")
	defer span.End()
	span.SetAttributes(attribute.String("event.id", id))

	event, err := s.GetForOwner(ctx, id, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	d.Normalize()
	if fields := s.validator.All(d); len(fields) > 0 {
		span.SetStatus(codes.Error, "invalid draft")
		return nil, &ValidationError{Fields: fields}
	}

	if base := d.Slug(); event.Slug != base {
		slug, err := s.uniqueSlug(ctx, base, event.ID)
		if err != nil {
			return nil, err
		}
		// a second random suffix for the same title would only break links
		if !hasRandomSuffix(slug, base) || !hasRandomSuffix(event.Slug, base) {
			event.Slug = slug
		}
	}

	previous := event.Status
	d.Apply(event)
	event.Status = d.StatusFor(wizard.ModeEdit, previous)

	if err := s.eventRepo.Update(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	s.publish(ctx, domain.ChangeUpdated, event, userID)
	if event.Status != previous {
		switch event.Status {
		case domain.EventStatusPublished:
			s.publish(ctx, domain.ChangePublished, event, userID)
		case domain.EventStatusArchived:
			s.publish(ctx, domain.ChangeArchived, event, userID)
		}
	}
	return event, nil
}

// Delete soft deletes an owned event
func (s *eventService) Delete(ctx context.Context, id, userID string) error {
	event, err := s.GetForOwner(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	s.publish(ctx, domain.ChangeDeleted, event, userID)
	s.removeImage(ctx, event)
	return nil
}

// Publish makes an owned event public
func (s *eventService) Publish(ctx context.Context, id, userID string) (*domain.Event, error) {
	return s.transition(ctx, id, userID, domain.ChangePublished, (*domain.Event).Publish)
}

// Archive hides an owned event
func (s *eventService) Archive(ctx context.Context, id, userID string) (*domain.Event, error) {
	return s.transition(ctx, id, userID, domain.ChangeArchived, (*domain.Event).Archive)
}

func (s *eventService) transition(ctx context.Context, id, userID string, t domain.ChangeType, apply func(*domain.Event) error) (*domain.Event, error) {
	event, err := s.GetForOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := apply(event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEventStatus, err)
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	s.publish(ctx, t, event, userID)
	return event, nil
}

// Submitter adapts the service to the wizard's final submit
func (s *eventService) Submitter(mode wizard.Mode, userID, eventID string) wizard.Submitter {
	return &eventSubmitter{svc: s, mode: mode, userID: userID, eventID: eventID}
}

type eventSubmitter struct {
	svc     *eventService
	mode    wizard.Mode
	userID  string
	eventID string
}

func (es *eventSubmitter) Submit(ctx context.Context, d *wizard.Draft) (*domain.Event, error) {
	if es.mode == wizard.ModeEdit {
		return es.svc.Update(ctx, es.eventID, es.userID, d)
	}
	return es.svc.Create(ctx, es.userID, d)
}

// uniqueSlug tries base, base-2 ... base-10, then a random suffix
func (s *eventService) uniqueSlug(ctx context.Context, base, excludeID string) (string, error) {
	candidate := base
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		exists, err := s.eventRepo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt+1)
	}
	return base + "-" + uuid.New().String()[:8], nil
}

// hasRandomSuffix reports whether slug is base plus the 8 hex characters
// uniqueSlug falls back to
func hasRandomSuffix(slug, base string) bool {
	suffix, ok := strings.CutPrefix(slug, base+"-")
	if !ok || len(suffix) != 8 {
		return false
	}
	for _, r := range suffix {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

func (s *eventService) publish(ctx context.Context, t domain.ChangeType, e *domain.Event, actorID string) {
	metrics.RecordEventChange(ctx, string(t))
	if err := s.publisher.Publish(ctx, t, e, actorID); err != nil {
		s.log.WithContext(ctx).Warn("failed to publish event change",
			zap.String("type", string(t)),
			zap.String("event_id", e.ID),
			zap.Error(err),
		)
	}
}

func (s *eventService) removeImage(ctx context.Context, e *domain.Event) {
	if s.images == nil || e.Image == "" {
		return
	}
	shared, err := s.eventRepo.ImageInUse(ctx, e.Image, e.ID)
	if err != nil || shared {
		s.log.WithContext(ctx).Debug("event image kept",
			zap.String("event_id", e.ID),
			zap.Bool("shared", shared),
			zap.Error(err),
		)
		return
	}
	if err := s.images.Delete(ctx, e.Image); err != nil {
		s.log.WithContext(ctx).Debug("event image not removed",
			zap.String("event_id", e.ID),
			zap.Error(err),
		)
	}
}
