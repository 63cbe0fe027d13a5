package team

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/verrloren/hackathon-evrz/internal/logging"
	"github.com/verrloren/hackathon-evrz/internal/result"
	"github.com/verrloren/hackathon-evrz/internal/team/domain"
	"github.com/verrloren/hackathon-evrz/internal/team/repository"
)

// MemberSync refetches a team's roster and replaces the store's copy.
type MemberSync struct {
	repo  repository.Repository
	store *Store
	log   logrus.FieldLogger
}

// NewMemberSync returns a MemberSync writing into store.
func NewMemberSync(repo repository.Repository, store *Store, log logrus.FieldLogger) *MemberSync {
	if log == nil {
		log = logging.Discard()
	}
	return &MemberSync{repo: repo, store: store, log: log}
}

// FetchMembers loads the roster of teamID. On success the store roster is replaced by the full list.
// Failures are logged only: the store is left as it was and nobody is notified.
func (s *MemberSync) FetchMembers(ctx context.Context, teamID string) result.Result[[]domain.Member] {
	members, err := s.repo.Members(ctx, teamID)
	if err != nil {
		s.log.WithError(err).WithField("team_id", teamID).Error("team: fetch members failed")
		return result.Err[[]domain.Member](err)
	}
	s.store.replaceRoster(members)
	s.log.WithFields(logrus.Fields{"team_id": teamID, "count": len(members)}).Debug("team: roster replaced")
	return result.Ok(members)
}
