package repository

import (
	"context"

	"github.com/verrloren/hackathon-evrz/internal/team/domain"
)

// Repository is the backend surface for teams and their members.
type Repository interface {
	Create(ctx context.Context, name, ownerID string) error
	ListForUser(ctx context.Context, userID string) ([]domain.Team, error)
	Members(ctx context.Context, teamID string) ([]domain.Member, error)
	AddMember(ctx context.Context, teamID string, m domain.NewMember) (*domain.Member, error)
}
