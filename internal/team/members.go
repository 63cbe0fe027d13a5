package team

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/verrloren/hackathon-evrz/internal/apperr"
	"github.com/verrloren/hackathon-evrz/internal/logging"
	"github.com/verrloren/hackathon-evrz/internal/result"
	"github.com/verrloren/hackathon-evrz/internal/team/domain"
	"github.com/verrloren/hackathon-evrz/internal/team/repository"
	"github.com/verrloren/hackathon-evrz/internal/ui"
	"github.com/verrloren/hackathon-evrz/internal/validation"
)

// MsgMemberAdded is shown after the backend accepts a member.
const MsgMemberAdded = "Member added!"

// MemberInput is what the viewer typed to add a member.
type MemberInput struct {
	Name    string
	CardIDs []string
}

// MemberFlow adds members and resyncs the roster from the server.
type MemberFlow struct {
	repo     repository.Repository
	sync     *MemberSync
	notifier ui.Notifier
	log      logrus.FieldLogger
}

// NewMemberFlow returns a MemberFlow.
func NewMemberFlow(repo repository.Repository, sync *MemberSync, notifier ui.Notifier, log logrus.FieldLogger) *MemberFlow {
	if log == nil {
		log = logging.Discard()
	}
	return &MemberFlow{repo: repo, sync: sync, notifier: notifier, log: log}
}

// AddMember posts the member and, on success, refetches the roster. On failure the viewer is notified
// and the roster is not touched.
func (f *MemberFlow) AddMember(ctx context.Context, teamID string, in MemberInput) result.Result[domain.Member] {
	if teamID == "" {
		return result.Err[domain.Member](apperr.Validation("Invalid fields", map[string]string{"teamId": "Team is required"}))
	}
	name, fields := validation.Member(in.Name)
	if fields != nil {
		return result.Err[domain.Member](fields.Err())
	}
	l := f.log.WithFields(logrus.Fields{"team_id": teamID, "member_name": name})

	created, err := f.repo.AddMember(ctx, teamID, domain.NewMember{Name: name, CardIDs: in.CardIDs})
	if err != nil {
		l.WithError(err).Error("team: add member failed")
		f.notifier.Notify(ui.Error, UserMessage(err, repository.MsgAddMemberFailed))
		return result.Err[domain.Member](err)
	}
	l.WithField("member_id", created.ID).Info("team: member added")

	f.sync.FetchMembers(ctx, teamID)
	f.notifier.Notify(ui.Success, MsgMemberAdded)
	return result.Ok(*created)
}
