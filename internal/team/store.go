// Package team coordinates team creation, member management, and the locally held team state.
package team

import (
	"strings"
	"sync"

	"github.com/verrloren/hackathon-evrz/internal/team/domain"
)

// Store holds the teams and roster currently shown to the viewer. It is never authoritative:
// it is replaced wholesale by seeds and member fetches. Readers always get copies.
type Store struct {
	mu     sync.RWMutex
	teams  []domain.Team
	roster []domain.Member
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Seed replaces the teams with server data. The roster becomes the first team's embedded members.
func (s *Store) Seed(teams []domain.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = cloneTeams(teams)
	s.roster = nil
	if len(teams) > 0 {
		s.roster = cloneMembers(teams[0].Members)
	}
}

// replaceRoster swaps in a freshly fetched roster. The last call wins.
func (s *Store) replaceRoster(members []domain.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = cloneMembers(members)
}

// Title joins every team name with " & ".
func (s *Store) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.teams))
	for _, t := range s.teams {
		names = append(names, t.Name)
	}
	return strings.Join(names, " & ")
}

// Teams returns a copy of the current teams.
func (s *Store) Teams() []domain.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTeams(s.teams)
}

// Roster returns a copy of the current roster in display order.
func (s *Store) Roster() []domain.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMembers(s.roster)
}

// CurrentTeam returns the first team, which is the one every action operates on.
func (s *Store) CurrentTeam() (domain.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.teams) == 0 {
		return domain.Team{}, false
	}
	t := s.teams[0]
	t.Members = cloneMembers(t.Members)
	return t, true
}

// NeedsTeam reports whether the viewer has no team yet and should be offered creation.
func (s *Store) NeedsTeam() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teams) == 0
}

func cloneTeams(in []domain.Team) []domain.Team {
	if in == nil {
		return nil
	}
	out := make([]domain.Team, len(in))
	for i, t := range in {
		t.Members = cloneMembers(t.Members)
		out[i] = t
	}
	return out
}

func cloneMembers(in []domain.Member) []domain.Member {
	if in == nil {
		return nil
	}
	out := make([]domain.Member, len(in))
	for i, m := range in {
		if m.Cards != nil {
			m.Cards = append([]domain.Card(nil), m.Cards...)
		}
		out[i] = m
	}
	return out
}
