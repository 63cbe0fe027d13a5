package team

import (
	"context"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/verrloren/hackathon-evrz/internal/apperr"
	"github.com/verrloren/hackathon-evrz/internal/logging"
	"github.com/verrloren/hackathon-evrz/internal/result"
	"github.com/verrloren/hackathon-evrz/internal/team/repository"
	"github.com/verrloren/hackathon-evrz/internal/ui"
	"github.com/verrloren/hackathon-evrz/internal/validation"
)

// MsgTeamCreated is shown after a creation attempt under the optimistic policy.
const MsgTeamCreated = "Team created!"

// Refresher reloads the whole view from the server.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// CreationPolicy controls what the viewer is told after a creation attempt.
type CreationPolicy struct {
	// AlwaysReportSuccess notifies "Team created!" and returns Ok even when the backend call failed.
	// The refresh that follows shows the real state either way.
	AlwaysReportSuccess bool
}

// Created is the outcome of a creation attempt.
type Created struct {
	Name string
	// Confirmed is true only when the backend accepted the team.
	Confirmed bool
}

// CreationFlow validates, normalizes, and submits a new team, then refreshes the view.
type CreationFlow struct {
	repo      repository.Repository
	refresher Refresher
	notifier  ui.Notifier
	policy    CreationPolicy
	log       logrus.FieldLogger
}

// NewCreationFlow returns a CreationFlow.
func NewCreationFlow(repo repository.Repository, refresher Refresher, notifier ui.Notifier, policy CreationPolicy, log logrus.FieldLogger) *CreationFlow {
	if log == nil {
		log = logging.Discard()
	}
	return &CreationFlow{repo: repo, refresher: refresher, notifier: notifier, policy: policy, log: log}
}

// CreateTeam submits rawName for ownerID. Blank names fail validation without a request. Otherwise the
// view is refreshed exactly once and the viewer notified, whatever the backend said.
func (f *CreationFlow) CreateTeam(ctx context.Context, rawName, ownerID string) result.Result[Created] {
	valid, fields := validation.Team(rawName)
	if fields != nil {
		return result.Err[Created](fields.Err())
	}
	name := CapitalizeFirst(valid)
	l := f.log.WithFields(logrus.Fields{"team_name": name, "user_id": ownerID})

	err := f.repo.Create(ctx, name, ownerID)
	switch {
	case err == nil:
		l.Info("team: created")
	case apperr.KindOf(err) == apperr.KindBackendRejection:
		l.WithError(err).Warn("team: create rejected")
	default:
		l.WithError(err).Error("team: create failed")
	}

	if rerr := f.refresher.Refresh(ctx); rerr != nil {
		l.WithError(rerr).Error("team: refresh after create failed")
	}

	if err == nil || f.policy.AlwaysReportSuccess {
		f.notifier.Notify(ui.Success, MsgTeamCreated)
		return result.Ok(Created{Name: name, Confirmed: err == nil})
	}
	f.notifier.Notify(ui.Error, UserMessage(err, repository.MsgCreateFailed))
	return result.Err[Created](err)
}

// CapitalizeFirst upper-cases the first rune and leaves the rest untouched.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// UserMessage picks the text to show for err: the server's message for rejections, fallback otherwise.
func UserMessage(err error, fallback string) string {
	if apperr.KindOf(err) == apperr.KindBackendRejection {
		if msg := apperr.MessageOf(err); msg != "" {
			return msg
		}
	}
	return fallback
}
