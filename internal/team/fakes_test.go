package team

import (
	"context"
	"sync"

	"github.com/verrloren/hackathon-evrz/internal/team/domain"
	"github.com/verrloren/hackathon-evrz/internal/ui"
)

type fakeRepo struct {
	mu         sync.Mutex
	createErr  error
	members    []domain.Member
	membersErr error
	addErr     error
	teams      []domain.Team

	creates     []string
	memberCalls int
	added       []domain.NewMember
}

func (f *fakeRepo) Create(_ context.Context, name, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, name+"|"+ownerID)
	return f.createErr
}

func (f *fakeRepo) ListForUser(_ context.Context, _ string) ([]domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.teams, nil
}

func (f *fakeRepo) Members(_ context.Context, _ string) ([]domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memberCalls++
	return f.members, f.membersErr
}

func (f *fakeRepo) AddMember(_ context.Context, teamID string, m domain.NewMember) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, m)
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &domain.Member{ID: "new", Name: m.Name, TeamID: teamID}, nil
}

type countingRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.err
}

type note struct {
	Kind    ui.Kind
	Message string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (n *recordingNotifier) Notify(kind ui.Kind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{kind, message})
}
