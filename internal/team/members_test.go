package team

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verrloren/hackathon-evrz/internal/apperr"
	"github.com/verrloren/hackathon-evrz/internal/team/domain"
	"github.com/verrloren/hackathon-evrz/internal/ui"
)

func TestAddMember_ResyncsAfterSuccess(t *testing.T) {
	fresh := []domain.Member{{ID: "m1", Name: "Ann"}, {ID: "new", Name: "Bob"}}
	repo := &fakeRepo{members: fresh}
	store := NewStore()
	store.Seed([]domain.Team{{ID: "t1", Members: []domain.Member{{ID: "m1", Name: "Ann"}}}})
	notifier := &recordingNotifier{}
	flow := NewMemberFlow(repo, NewMemberSync(repo, store, nil), notifier, nil)

	res := flow.AddMember(context.Background(), "t1", MemberInput{Name: "  Bob ", CardIDs: []string{"c1"}})

	require.True(t, res.IsOk())
	assert.Equal(t, "Bob", res.Value().Name)
	assert.Equal(t, []domain.NewMember{{Name: "Bob", CardIDs: []string{"c1"}}}, repo.added)
	assert.Equal(t, 1, repo.memberCalls)
	assert.Equal(t, fresh, store.Roster())
	assert.Equal(t, []note{{ui.Success, MsgMemberAdded}}, notifier.notes)
}

func TestAddMember_FailureNotifiesWithoutResync(t *testing.T) {
	repo := &fakeRepo{addErr: apperr.Rejection("team not found")}
	store := NewStore()
	notifier := &recordingNotifier{}
	flow := NewMemberFlow(repo, NewMemberSync(repo, store, nil), notifier, nil)

	res := flow.AddMember(context.Background(), "t1", MemberInput{Name: "Bob"})

	assert.Equal(t, apperr.KindBackendRejection, res.Kind())
	assert.Zero(t, repo.memberCalls)
	assert.Equal(t, []note{{ui.Error, "team not found"}}, notifier.notes)
}

func TestAddMember_ValidationMakesNoCall(t *testing.T) {
	repo := &fakeRepo{}
	notifier := &recordingNotifier{}
	flow := NewMemberFlow(repo, NewMemberSync(repo, NewStore(), nil), notifier, nil)

	res := flow.AddMember(context.Background(), "t1", MemberInput{Name: "   "})
	assert.Equal(t, apperr.KindValidation, res.Kind())
	assert.Equal(t, map[string]string{"name": "Member name is required"}, apperr.FieldsOf(res.Error()))

	res = flow.AddMember(context.Background(), "", MemberInput{Name: "Bob"})
	assert.Equal(t, apperr.KindValidation, res.Kind())

	assert.Empty(t, repo.added)
	assert.Empty(t, notifier.notes)
}
