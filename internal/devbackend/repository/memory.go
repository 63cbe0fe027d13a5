package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	teamdomain "github.com/verrloren/hackathon-evrz/internal/team/domain"
)

// MemoryRepository keeps everything in process memory. It is safe for concurrent use.
type MemoryRepository struct {
	mu       sync.RWMutex
	users    map[string]*User // by ID
	byEmail  map[string]string
	sessions map[string]*Session
	teams    map[string]*teamdomain.Team
	owners   map[string]string // team ID -> owner ID
	order    []string          // team IDs in creation order
	members  map[string][]teamdomain.Member
}

// NewMemoryRepository returns an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:    make(map[string]*User),
		byEmail:  make(map[string]string),
		sessions: make(map[string]*Session),
		teams:    make(map[string]*teamdomain.Team),
		owners:   make(map[string]string),
		members:  make(map[string][]teamdomain.Member),
	}
}

func (r *MemoryRepository) CreateUser(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(u.Email)
	if _, ok := r.byEmail[email]; ok {
		return ErrEmailTaken
	}
	cp := *u
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	r.users[cp.ID] = &cp
	r.byEmail[email] = cp.ID
	return nil
}

func (r *MemoryRepository) GetUserByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r.users[id]
	return &cp, nil
}

func (r *MemoryRepository) CreateSession(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[s.UserID]; !ok {
		return ErrNotFound
	}
	cp := *s
	r.sessions[cp.ID] = &cp
	return nil
}

func (r *MemoryRepository) RevokeSession(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if s.RevokedAt == nil {
		s.RevokedAt = &at
	}
	return nil
}

func (r *MemoryRepository) GetSession(_ context.Context, id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *MemoryRepository) CreateTeam(_ context.Context, t *teamdomain.Team, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[ownerID]; !ok {
		return ErrNotFound
	}
	cp := teamdomain.Team{ID: t.ID, Name: t.Name}
	r.teams[t.ID] = &cp
	r.owners[t.ID] = ownerID
	r.order = append(r.order, t.ID)
	return nil
}

func (r *MemoryRepository) ListTeamsByOwner(_ context.Context, ownerID string) ([]teamdomain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []teamdomain.Team{}
	for _, id := range r.order {
		if r.owners[id] != ownerID {
			continue
		}
		t := *r.teams[id]
		t.Members = copyMembers(r.members[id])
		out = append(out, t)
	}
	return out, nil
}

func (r *MemoryRepository) ListMembers(_ context.Context, teamID string) ([]teamdomain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.teams[teamID]; !ok {
		return nil, ErrNotFound
	}
	return copyMembers(r.members[teamID]), nil
}

func (r *MemoryRepository) AddMember(_ context.Context, m *teamdomain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[m.TeamID]; !ok {
		return ErrNotFound
	}
	cp := *m
	cp.Cards = append([]teamdomain.Card{}, m.Cards...)
	r.members[m.TeamID] = append(r.members[m.TeamID], cp)
	return nil
}

func copyMembers(in []teamdomain.Member) []teamdomain.Member {
	out := make([]teamdomain.Member, len(in))
	for i, m := range in {
		m.Cards = append([]teamdomain.Card{}, m.Cards...)
		out[i] = m
	}
	return out
}
