package repository

import (
	"context"
	"net/url"

	"github.com/verrloren/hackathon-evrz/internal/team/domain"
)

// Fallback messages used when a rejection carries no {error} body.
const (
	MsgCreateFailed       = "Failed to create team"
	MsgListFailed         = "Failed to fetch teams"
	MsgFetchMembersFailed = "Failed to fetch members"
	MsgAddMemberFailed    = "Failed to add member"
)

// JSONClient is the part of *backend.Client the repository uses.
type JSONClient interface {
	GetJSON(ctx context.Context, path, fallback string, out any) error
	PostJSON(ctx context.Context, path string, body any, fallback string, out any) error
}

// HTTPRepository implements Repository against the backend REST API.
type HTTPRepository struct {
	client JSONClient
}

// NewHTTPRepository returns a Repository backed by client.
func NewHTTPRepository(client JSONClient) *HTTPRepository {
	return &HTTPRepository{client: client}
}

type createTeamBody struct {
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// Create posts a new team. The response body is not used.
func (r *HTTPRepository) Create(ctx context.Context, name, ownerID string) error {
	return r.client.PostJSON(ctx, "/api/team", createTeamBody{Name: name, UserID: ownerID}, MsgCreateFailed, nil)
}

// ListForUser returns the teams the user belongs to.
func (r *HTTPRepository) ListForUser(ctx context.Context, userID string) ([]domain.Team, error) {
	var teams []domain.Team
	if err := r.client.GetJSON(ctx, "/api/team?userId="+url.QueryEscape(userID), MsgListFailed, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Members returns the roster of teamID in display order.
func (r *HTTPRepository) Members(ctx context.Context, teamID string) ([]domain.Member, error) {
	var members []domain.Member
	if err := r.client.GetJSON(ctx, membersPath(teamID), MsgFetchMembersFailed, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// AddMember posts a member to teamID and returns the created member.
func (r *HTTPRepository) AddMember(ctx context.Context, teamID string, m domain.NewMember) (*domain.Member, error) {
	if m.CardIDs == nil {
		m.CardIDs = []string{}
	}
	var created domain.Member
	if err := r.client.PostJSON(ctx, membersPath(teamID), m, MsgAddMemberFailed, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func membersPath(teamID string) string {
	return "/api/team/" + url.PathEscape(teamID) + "/members"
}
