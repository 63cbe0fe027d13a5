package session

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/verrloren/hackathon-evrz/internal/logging"
	"github.com/verrloren/hackathon-evrz/internal/security"
	"github.com/verrloren/hackathon-evrz/internal/session/domain"
)

// Observer decodes session tokens into sessions.
type Observer struct {
	verifier *security.SessionVerifier
	log      logrus.FieldLogger
}

// NewObserver returns an Observer. With a nil verifier tokens are decoded without signature checks;
// the backend still authorizes every request.
func NewObserver(verifier *security.SessionVerifier, log logrus.FieldLogger) *Observer {
	if log == nil {
		log = logging.Discard()
	}
	return &Observer{verifier: verifier, log: log}
}

// Observe returns the session carried by token, or nil when the token is empty, invalid, expired,
// or has no subject. It never fails.
func (o *Observer) Observe(token string) *domain.Session {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	var (
		claims *security.SessionClaims
		err    error
	)
	if o.verifier != nil {
		claims, err = o.verifier.Verify(token)
	} else {
		claims, err = security.ParseUnverified(token)
	}
	if err != nil {
		o.log.WithError(err).Debug("session: token rejected")
		return nil
	}
	if claims.Subject == "" {
		o.log.Debug("session: token has no subject")
		return nil
	}
	sess := &domain.Session{
		UserID:    claims.Subject,
		SessionID: claims.SessionID,
		Name:      claims.Name,
		Token:     token,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess
}
