// Package repository persists users, sessions, teams, and members for the dev backend.
package repository

import (
	"context"
	"errors"
	"time"

	teamdomain "github.com/verrloren/hackathon-evrz/internal/team/domain"
)

var (
	// ErrNotFound is returned when a user, team, or session does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering an email that already has a user.
	ErrEmailTaken = errors.New("email already registered")
)

// User is a registered account. PasswordHash is a bcrypt hash.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is a login session backing an issued token.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Repository is the dev backend's storage.
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	RevokeSession(ctx context.Context, id string, at time.Time) error

	CreateTeam(ctx context.Context, t *teamdomain.Team, ownerID string) error
	ListTeamsByOwner(ctx context.Context, ownerID string) ([]teamdomain.Team, error)
	ListMembers(ctx context.Context, teamID string) ([]teamdomain.Member, error)
	AddMember(ctx context.Context, m *teamdomain.Member) error
}
