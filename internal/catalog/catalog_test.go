package catalog

import (
	"testing"

	"github.com/juntape/junta/internal/domain"
	"github.com/stretchr/testify/assert"
)

func fixture() []*domain.Event {
	return []*domain.Event{
		{ID: "1", Title: "Festival de Jazz", Subtitle: "Noche de improvisación", Location: "Barranco, Lima", Category: domain.CategoryMusica, Status: domain.EventStatusPublished, IsFeatured: true},
		{ID: "2", Title: "Día de la Canción Criolla", Subtitle: "Peñas y jaranas", Location: "Rímac, Lima", Category: domain.CategoryMusica, Status: domain.EventStatusPublished},
		{ID: "3", Title: "Teatro en la Calle", Subtitle: "Funciones gratuitas", Location: "Cusco", Category: domain.CategoryTeatro, Status: domain.EventStatusPublished, IsFeatured: true},
		{ID: "4", Title: "Borrador de Jazz", Location: "Lima", Category: domain.CategoryMusica, Status: domain.EventStatusDraft, IsFeatured: true},
		{ID: "5", Title: "Jazz archivado", Location: "Lima", Category: domain.CategoryMusica, Status: domain.EventStatusArchived},
	}
}

func ids(events []*domain.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"empty keeps published only", Criteria{}, []string{"1", "2", "3"}},
		{"all category", Criteria{Category: "all"}, []string{"1", "2", "3"}},
		{"category", Criteria{Category: "teatro"}, []string{"3"}},
		{"category case-insensitive", Criteria{Category: "MUSICA"}, []string{"1", "2"}},
		{"title substring", Criteria{Query: "jazz"}, []string{"1"}},
		{"location substring", Criteria{Query: "LIMA"}, []string{"1", "2"}},
		{"subtitle substring", Criteria{Query: "gratuitas"}, []string{"3"}},
		{"diacritic-insensitive", Criteria{Query: "cancion"}, []string{"2"}},
		{"accented query", Criteria{Query: "Rímac"}, []string{"2"}},
		{"category and query", Criteria{Category: "musica", Query: "cusco"}, []string{}},
		{"no match", Criteria{Query: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(fixture(), tt.criteria)))
		})
	}
}

func TestFilter_NeverReturnsNonPublished(t *testing.T) {
	criteria := []Criteria{{}, {Query: "jazz"}, {Category: "musica"}, {Category: "all", Query: "lima"}}
	for _, c := range criteria {
		for _, e := range Filter(fixture(), c) {
			assert.Equal(t, domain.EventStatusPublished, e.Status, "criteria %+v", c)
		}
	}
}

func TestFilter_Idempotent(t *testing.T) {
	criteria := []Criteria{{}, {Query: "lima"}, {Category: "musica", Query: "a"}}
	for _, c := range criteria {
		once := Filter(fixture(), c)
		twice := Filter(once, c)
		assert.Equal(t, ids(once), ids(twice))
	}
}

func TestFeatured(t *testing.T) {
	assert.Equal(t, []string{"1", "3"}, ids(Featured(fixture(), 5)))
	assert.Equal(t, []string{"1"}, ids(Featured(fixture(), 1)))
	assert.Empty(t, Featured(fixture(), 0))
	assert.NotPanics(t, func() {
		assert.Empty(t, Featured(fixture(), -1))
	})
}

func TestCriteria_IsEmpty(t *testing.T) {
	assert.True(t, Criteria{}.IsEmpty())
	assert.True(t, Criteria{Category: "All", Query: "  "}.IsEmpty())
	assert.False(t, Criteria{Query: "x"}.IsEmpty())
	assert.False(t, Criteria{Category: "cine"}.IsEmpty())
}
