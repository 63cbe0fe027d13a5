package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/verrloren/hackathon-evrz/internal/identity/domain"
	"github.com/verrloren/hackathon-evrz/internal/logging"
	"github.com/verrloren/hackathon-evrz/internal/result"
	"github.com/verrloren/hackathon-evrz/internal/validation"
)

// Backend paths for the auth actions.
const (
	PathRegister = "/api/users/create"
	PathLogin    = "/api/users/login"
	PathLogout   = "/api/users/logout"
)

// EnvelopePoster is the minimal backend surface the gateway needs. *backend.Client implements it.
type EnvelopePoster interface {
	PostEnvelope(ctx context.Context, path string, body any, token string) (*result.Envelope, error)
}

// Gateway issues register, login, and logout against the remote identity service and normalizes
// every answer into a result.Envelope. It holds no locks; duplicate submissions are the backend's concern.
type Gateway struct {
	client EnvelopePoster
	log    logrus.FieldLogger
}

// NewGateway returns a Gateway. A nil logger discards diagnostics.
func NewGateway(client EnvelopePoster, log logrus.FieldLogger) *Gateway {
	if log == nil {
		log = logging.Discard()
	}
	return &Gateway{client: client, log: log}
}

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register validates the candidate and creates the user.
// Invalid input yields Outcome{Error: "Invalid fields"} without a request; a transport or decode failure
// yields Outcome{Error: "Failed to create user"}. Any decoded envelope is returned verbatim, including
// success=false or an empty response.
func (g *Gateway) Register(ctx context.Context, c domain.RegisterCandidate) result.Outcome {
	data, fields := validation.Register(validation.RegisterData{Name: c.Name, Email: c.Email, Password: c.Password})
	if fields != nil {
		return result.Outcome{Error: domain.MsgInvalidFields, Fields: fields, Err: fields.Err()}
	}
	env, err := g.client.PostEnvelope(ctx, PathRegister, registerBody{
		Name:     data.Name,
		Email:    data.Email,
		Password: data.Password,
	}, "")
	if err != nil {
		g.log.WithError(err).Error("identity: register failed")
		return result.Outcome{Error: domain.MsgRegisterFailed, Err: err}
	}
	return result.Outcome{Envelope: env}
}

// Login follows the Register contract against the login endpoint. On success the envelope's Token
// carries the session token issued by the backend.
func (g *Gateway) Login(ctx context.Context, c domain.LoginCandidate) result.Outcome {
	data, fields := validation.Login(validation.LoginData{Email: c.Email, Password: c.Password})
	if fields != nil {
		return result.Outcome{Error: domain.MsgInvalidFields, Fields: fields, Err: fields.Err()}
	}
	env, err := g.client.PostEnvelope(ctx, PathLogin, loginBody{Email: data.Email, Password: data.Password}, "")
	if err != nil {
		g.log.WithError(err).Error("identity: login failed")
		return result.Outcome{Error: domain.MsgLoginFailed, Err: err}
	}
	return result.Outcome{Envelope: env}
}

// Logout ends the session identified by token (may be empty). On failure it only logs and returns nil;
// callers must treat nil as a failure distinct from an envelope with Success=false.
func (g *Gateway) Logout(ctx context.Context, token string) *result.Envelope {
	env, err := g.client.PostEnvelope(ctx, PathLogout, nil, token)
	if err != nil {
		g.log.WithError(err).Error("identity: logout failed")
		return nil
	}
	return env
}
