package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/juntape/junta/internal/catalog"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft(title string) *wizard.Draft {
	days := 30
	return &wizard.Draft{
		Title:           title,
		Subtitle:        "Una noche de improvisación",
		Category:        "musica",
		Date:            "2026-11-20",
		Time:            "20:00",
		Location:        "Barranco, Lima",
		Goal:            5000,
		DaysLeft:        &days,
		Image:           "https://res.cloudinary.com/junta/image/upload/jazz.jpg",
		Description:     "Reunimos a músicos de jazz de todo el Perú.",
		FullDescription: "Durante una noche, los mejores músicos de jazz del país compartirán escenario en Barranco.",
	}
}

func newTestEventService() (EventService, *MockEventRepository, *MockEventPublisher, *MockImageRemover) {
	repo := NewMockEventRepository()
	pub := &MockEventPublisher{}
	images := &MockImageRemover{}
	return NewEventService(repo, pub, images, nil), repo, pub, images
}

func TestEventService_Create(t *testing.T) {
	svc, _, pub, _ := newTestEventService()
	ctx := context.Background()

	event, err := svc.Create(ctx, "promoter-1", validDraft("Festival de Jazz!"))
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "festival-de-jazz", event.Slug)
	assert.Equal(t, domain.EventStatusDraft, event.Status)
	assert.Equal(t, "promoter-1", event.CreatedBy)
	assert.Zero(t, event.Raised)
	assert.Zero(t, event.Donors)
	assert.Equal(t, []domain.ChangeType{domain.ChangeCreated}, pub.Changes())
}

func TestEventService_CreatePublishNow(t *testing.T) {
	svc, _, pub, _ := newTestEventService()

	d := validDraft("Teatro en la Calle")
	d.PublishNow = true
	event, err := svc.Create(context.Background(), "promoter-1", d)
	require.NoError(t, err)

	assert.Equal(t, domain.EventStatusPublished, event.Status)
	assert.Equal(t, []domain.ChangeType{domain.ChangeCreated, domain.ChangePublished}, pub.Changes())
}

func TestEventService_CreateInvalid(t *testing.T) {
	svc, repo, pub, _ := newTestEventService()

	d := validDraft("ab")
	d.Goal = 0
	_, err := svc.Create(context.Background(), "promoter-1", d)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidEvent))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "goal")
	assert.Empty(t, repo.events)
	assert.Empty(t, pub.Changes())
}

func TestEventService_UniqueSlugs(t *testing.T) {
	svc, _, _, _ := newTestEventService()
	ctx := context.Background()

	want := []string{"festival-de-jazz", "festival-de-jazz-2", "festival-de-jazz-3"}
	for _, w := range want {
		event, err := svc.Create(ctx, "promoter-1", validDraft("Festival de Jazz"))
		require.NoError(t, err)
		assert.Equal(t, w, event.Slug)
	}
}

func TestEventService_UniqueSlugsRandomSuffix(t *testing.T) {
	svc, repo, _, _ := newTestEventService()
	ctx := context.Background()

	repo.slugToID["cine"] = "x"
	for i := 2; i <= maxSlugAttempts; i++ {
		repo.slugToID[fmt.Sprintf("cine-%d", i)] = "x"
	}

	event, err := svc.Create(ctx, "promoter-1", validDraft("Cine"))
	require.NoError(t, err)
	assert.Len(t, event.Slug, len("cine-")+8)
	assert.True(t, hasRandomSuffix(event.Slug, "cine"))

	t.Run("same title keeps the random suffix", func(t *testing.T) {
		updated, err := svc.Update(ctx, event.ID, "promoter-1", validDraft("Cine"))
		require.NoError(t, err)
		assert.Equal(t, event.Slug, updated.Slug)
	})
}

func TestEventService_Update(t *testing.T) {
	svc, repo, pub, _ := newTestEventService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "promoter-1", validDraft("Festival de Jazz"))
	require.NoError(t, err)
	repo.events[created.ID].Raised = 1200
	repo.events[created.ID].Donors = 7

	t.Run("other user is forbidden", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, "promoter-2", validDraft("Festival de Jazz"))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", "promoter-1", validDraft("Festival de Jazz"))
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("same title keeps slug and counters", func(t *testing.T) {
		d := validDraft("Festival de Jazz")
		d.Location = "Miraflores, Lima"
		updated, err := svc.Update(ctx, created.ID, "promoter-1", d)
		require.NoError(t, err)
		assert.Equal(t, "festival-de-jazz", updated.Slug)
		assert.Equal(t, "Miraflores, Lima", updated.Location)
		assert.Equal(t, 1200.0, updated.Raised)
		assert.Equal(t, 7, updated.Donors)
		assert.Equal(t, domain.EventStatusDraft, updated.Status)
	})

	t.Run("new title regenerates slug", func(t *testing.T) {
		updated, err := svc.Update(ctx, created.ID, "promoter-1", validDraft("Noche de Jazz"))
		require.NoError(t, err)
		assert.Equal(t, "noche-de-jazz", updated.Slug)
	})

	t.Run("status selector publishes", func(t *testing.T) {
		d := validDraft("Noche de Jazz")
		d.Status = "published"
		updated, err := svc.Update(ctx, created.ID, "promoter-1", d)
		require.NoError(t, err)
		assert.Equal(t, domain.EventStatusPublished, updated.Status)
		assert.Contains(t, pub.Changes(), domain.ChangePublished)
	})
}

func TestEventService_UpdateKeepsSuffixedSlug(t *testing.T) {
	svc, _, _, _ := newTestEventService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "promoter-1", validDraft("Festival de Jazz"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, "promoter-1", validDraft("Festival de Jazz"))
	require.NoError(t, err)
	require.Equal(t, "festival-de-jazz-2", second.Slug)

	updated, err := svc.Update(ctx, second.ID, "promoter-1", validDraft("Festival de Jazz"))
	require.NoError(t, err)
	assert.Equal(t, "festival-de-jazz-2", updated.Slug)
}

func TestEventService_UpdateRetitleToShorterPrefix(t *testing.T) {
	svc, _, _, _ := newTestEventService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "promoter-1", validDraft("Jazz 2024"))
	require.NoError(t, err)
	require.Equal(t, "jazz-2024", created.Slug)

	updated, err := svc.Update(ctx, created.ID, "promoter-1", validDraft("Jazz"))
	require.NoError(t, err)
	assert.Equal(t, "jazz", updated.Slug)

	t.Run("taken base gets the next counter", func(t *testing.T) {
		other, err := svc.Create(ctx, "promoter-2", validDraft("Jazz 10"))
		require.NoError(t, err)
		require.Equal(t, "jazz-10", other.Slug)

		renamed, err := svc.Update(ctx, other.ID, "promoter-2", validDraft("Jazz"))
		require.NoError(t, err)
		assert.Equal(t, "jazz-2", renamed.Slug)
	})
}

func TestEventService_PublicVisibility(t *testing.T) {
	svc, repo, _, _ := newTestEventService()
	ctx := context.Background()

	repo.events["e1"] = publishedEvent("e1", "p", 1000, 100)
	repo.slugToID["e1"] = "e1"
	draft := publishedEvent("e2", "p", 1000, 0)
	draft.Status = domain.EventStatusDraft
	repo.events["e2"] = draft
	repo.slugToID["e2"] = "e2"

	events, err := svc.ListPublished(ctx, catalog.Criteria{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)

	_, err = svc.GetPublishedBySlug(ctx, "e2")
	assert.ErrorIs(t, err, ErrEventNotFound)

	got, err := svc.GetPublishedBySlug(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", got.ID)

	mine, err := svc.ListMine(ctx, "p")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestEventService_Transitions(t *testing.T) {
	svc, _, pub, _ := newTestEventService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "promoter-1", validDraft("Danza Andina"))
	require.NoError(t, err)

	published, err := svc.Publish(ctx, created.ID, "promoter-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusPublished, published.Status)

	_, err = svc.Publish(ctx, created.ID, "promoter-1")
	assert.ErrorIs(t, err, ErrInvalidEventStatus)

	_, err = svc.Archive(ctx, created.ID, "someone-else")
	assert.ErrorIs(t, err, ErrForbidden)

	archived, err := svc.Archive(ctx, created.ID, "promoter-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusArchived, archived.Status)

	assert.Equal(t, []domain.ChangeType{domain.ChangeCreated, domain.ChangePublished, domain.ChangeArchived}, pub.Changes())
}

func TestEventService_Delete(t *testing.T) {
	svc, _, pub, images := newTestEventService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "promoter-1", validDraft("Arte Urbano"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID, "promoter-2"), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, created.ID, "promoter-1"))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID, "promoter-1"), ErrEventNotFound)

	assert.Equal(t, []string{created.Image}, images.removed)
	assert.Contains(t, pub.Changes(), domain.ChangeDeleted)
}

func TestEventService_DeleteKeepsSharedImage(t *testing.T) {
	svc, _, _, images := newTestEventService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "promoter-1", validDraft("Arte Urbano"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, "promoter-2", validDraft("Arte Urbano"))
	require.NoError(t, err)
	require.Equal(t, first.Image, second.Image)

	require.NoError(t, svc.Delete(ctx, second.ID, "promoter-2"))
	assert.Empty(t, images.removed)

	require.NoError(t, svc.Delete(ctx, first.ID, "promoter-1"))
	assert.Equal(t, []string{first.Image}, images.removed)
}

func TestEventService_PublishFailureDoesNotFailWrite(t *testing.T) {
	svc, repo, pub, _ := newTestEventService()
	pub.err = errBoom

	event, err := svc.Create(context.Background(), "promoter-1", validDraft("Cine Club"))
	require.NoError(t, err)
	assert.Contains(t, repo.events, event.ID)
}

func TestEventService_Submitter(t *testing.T) {
	svc, _, _, _ := newTestEventService()
	ctx := context.Background()

	w := wizard.At(wizard.ModeCreate, wizard.StepReview, *validDraft("Gastronomía Criolla"), nil)
	event, err := w.Submit(ctx, svc.Submitter(wizard.ModeCreate, "promoter-1", ""))
	require.NoError(t, err)
	assert.Equal(t, "gastronomia-criolla", event.Slug)

	edit := wizard.At(wizard.ModeEdit, wizard.StepReview, *validDraft("Gastronomía Criolla"), nil)
	_, err = edit.Submit(ctx, svc.Submitter(wizard.ModeEdit, "promoter-2", event.ID))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, wizard.StepReview, edit.Step())
}

func TestHasRandomSuffix(t *testing.T) {
	tests := []struct {
		slug string
		base string
		want bool
	}{
		{"festival-1a2b3c4d", "festival", true},
		{"festival", "festival", false},
		{"festival-2", "festival", false},
		{"festival-20242025", "festival", true},
		{"festival-1A2B3C4D", "festival", false},
		{"festival-de-jazz", "festival", false},
		{"otro-1a2b3c4d", "festival", false},
	}
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.want, hasRandomSuffix(tt.slug, tt.base))
		})
	}
}
