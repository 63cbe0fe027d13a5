package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	teamdomain "github.com/verrloren/hackathon-evrz/internal/team/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresRepository stores dev backend data in Postgres. The schema comes from internal/db/migrations.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a repository using db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, u *User) error {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, strings.ToLower(u.Email), u.PasswordHash, createdAt)
	if pgCode(err) == pgUniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`,
		strings.ToLower(email)).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) CreateSession(ctx context.Context, s *Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`,
		s.ID, s.UserID, s.ExpiresAt)
	if pgCode(err) == pgForeignKeyViolation {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepository) GetSession(ctx context.Context, id string) (*Session, error) {
	var (
		s       Session
		revoked sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, expires_at, revoked_at FROM sessions WHERE id = $1`, id).
		Scan(&s.ID, &s.UserID, &s.ExpiresAt, &revoked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if revoked.Valid {
		t := revoked.Time
		s.RevokedAt = &t
	}
	return &s, nil
}

func (r *PostgresRepository) RevokeSession(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = COALESCE(revoked_at, $2) WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateTeam(ctx context.Context, t *teamdomain.Team, ownerID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (id, name, owner_id) VALUES ($1, $2, $3)`, t.ID, t.Name, ownerID)
	if pgCode(err) == pgForeignKeyViolation {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepository) ListTeamsByOwner(ctx context.Context, ownerID string) ([]teamdomain.Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM teams WHERE owner_id = $1 ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, err
	}
	teams := []teamdomain.Team{}
	for rows.Next() {
		var t teamdomain.Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			rows.Close()
			return nil, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range teams {
		members, err := r.members(ctx, teams[i].ID)
		if err != nil {
			return nil, err
		}
		teams[i].Members = members
	}
	return teams, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, teamID string) ([]teamdomain.Member, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM teams WHERE id = $1)`, teamID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return r.members(ctx, teamID)
}

func (r *PostgresRepository) members(ctx context.Context, teamID string) ([]teamdomain.Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.name, c.card_id, c.name
		FROM members m
		LEFT JOIN member_cards c ON c.member_id = m.id
		WHERE m.team_id = $1
		ORDER BY m.position, c.card_id`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []teamdomain.Member{}
	index := map[string]int{}
	for rows.Next() {
		var (
			id, name         string
			cardID, cardName sql.NullString
		)
		if err := rows.Scan(&id, &name, &cardID, &cardName); err != nil {
			return nil, err
		}
		i, ok := index[id]
		if !ok {
			members = append(members, teamdomain.Member{ID: id, Name: name, TeamID: teamID, Cards: []teamdomain.Card{}})
			i = len(members) - 1
			index[id] = i
		}
		if cardID.Valid {
			members[i].Cards = append(members[i].Cards, teamdomain.Card{ID: cardID.String, Name: cardName.String})
		}
	}
	return members, rows.Err()
}

func (r *PostgresRepository) AddMember(ctx context.Context, m *teamdomain.Member) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO members (id, team_id, name) VALUES ($1, $2, $3)`, m.ID, m.TeamID, m.Name); err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return ErrNotFound
		}
		return err
	}
	for _, c := range m.Cards {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO member_cards (member_id, card_id, name) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			m.ID, c.ID, c.Name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
