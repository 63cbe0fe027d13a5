package team

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verrloren/hackathon-evrz/internal/team/domain"
)

func TestStore_SeedAndTitle(t *testing.T) {
	s := NewStore()
	assert.True(t, s.NeedsTeam())
	assert.Equal(t, "", s.Title())
	_, ok := s.CurrentTeam()
	assert.False(t, ok)

	s.Seed([]domain.Team{
		{ID: "t1", Name: "Alpha", Members: []domain.Member{{ID: "m1", Name: "Ann"}}},
		{ID: "t2", Name: "Beta"},
	})
	assert.False(t, s.NeedsTeam())
	assert.Equal(t, "Alpha & Beta", s.Title())
	assert.Equal(t, []domain.Member{{ID: "m1", Name: "Ann"}}, s.Roster())
	cur, ok := s.CurrentTeam()
	assert.True(t, ok)
	assert.Equal(t, "t1", cur.ID)
}

func TestStore_ReplaceRosterIsFullReplace(t *testing.T) {
	s := NewStore()
	s.Seed([]domain.Team{{ID: "t1", Members: []domain.Member{{ID: "m1"}, {ID: "m2"}}}})

	r := []domain.Member{{ID: "m3", Name: "Cy"}}
	s.replaceRoster(r)
	assert.Equal(t, r, s.Roster())

	s.replaceRoster([]domain.Member{})
	assert.Empty(t, s.Roster())
}

func TestStore_ReadersGetCopies(t *testing.T) {
	s := NewStore()
	s.Seed([]domain.Team{{ID: "t1", Name: "Alpha", Members: []domain.Member{{ID: "m1", Cards: []domain.Card{{ID: "c1"}}}}}})

	roster := s.Roster()
	roster[0].ID = "changed"
	roster[0].Cards[0].ID = "changed"
	teams := s.Teams()
	teams[0].Name = "changed"

	assert.Equal(t, "m1", s.Roster()[0].ID)
	assert.Equal(t, "c1", s.Roster()[0].Cards[0].ID)
	assert.Equal(t, "Alpha", s.Title())
}
