// Package view coordinates the team page: it gates activation on the session, seeds the store from the
// server, and runs the user actions, reporting each through the navigator, the notifier, and telemetry.
package view

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/verrloren/hackathon-evrz/internal/apperr"
	identitydomain "github.com/verrloren/hackathon-evrz/internal/identity/domain"
	"github.com/verrloren/hackathon-evrz/internal/logging"
	"github.com/verrloren/hackathon-evrz/internal/result"
	"github.com/verrloren/hackathon-evrz/internal/session"
	sessiondomain "github.com/verrloren/hackathon-evrz/internal/session/domain"
	"github.com/verrloren/hackathon-evrz/internal/team"
	teamdomain "github.com/verrloren/hackathon-evrz/internal/team/domain"
	"github.com/verrloren/hackathon-evrz/internal/team/repository"
	"github.com/verrloren/hackathon-evrz/internal/telemetry"
	"github.com/verrloren/hackathon-evrz/internal/ui"
)

// MsgSignOutFailed is shown when logout produced no usable message.
const MsgSignOutFailed = "Failed to sign out"

// AuthGateway is the identity surface the view uses. *service.Gateway implements it.
type AuthGateway interface {
	Register(ctx context.Context, c identitydomain.RegisterCandidate) result.Outcome
	Login(ctx context.Context, c identitydomain.LoginCandidate) result.Outcome
	Logout(ctx context.Context, token string) *result.Envelope
}

// AccessPolicy decides whether a path needs a session. *access.Evaluator implements it.
type AccessPolicy interface {
	RequiresSession(ctx context.Context, path string) bool
}

// Deps are the collaborators of a TeamView.
type Deps struct {
	Gateway   AuthGateway
	Teams     repository.Repository
	Access    AccessPolicy
	Navigator ui.Navigator
	Notifier  ui.Notifier
	// Emitter receives action events; nil discards them.
	Emitter telemetry.Emitter
	// Async runs the emits; pass the one shutdown waits on. Nil uses a private one.
	Async   *telemetry.Async
	Policy  team.CreationPolicy
	Log     logrus.FieldLogger
}

// TeamView is the coordinator behind the team page.
type TeamView struct {
	gateway  AuthGateway
	teams    repository.Repository
	access   AccessPolicy
	nav      ui.Navigator
	notifier ui.Notifier
	emitter  telemetry.Emitter
	async    *telemetry.Async
	log      logrus.FieldLogger

	store    *team.Store
	sync     *team.MemberSync
	creation *team.CreationFlow
	members  *team.MemberFlow

	mu   sync.RWMutex
	sess *sessiondomain.Session
}

// New wires a TeamView with an empty store.
func New(d Deps) *TeamView {
	log := d.Log
	if log == nil {
		log = logging.Discard()
	}
	emitter := d.Emitter
	if emitter == nil {
		emitter = telemetry.Nop{}
	}
	async := d.Async
	if async == nil {
		async = telemetry.NewAsync(log)
	}
	v := &TeamView{
		gateway:  d.Gateway,
		teams:    d.Teams,
		access:   d.Access,
		nav:      d.Navigator,
		notifier: d.Notifier,
		emitter:  emitter,
		async:    async,
		log:      log,
		store:    team.NewStore(),
	}
	v.sync = team.NewMemberSync(d.Teams, v.store, log)
	v.creation = team.NewCreationFlow(d.Teams, v, d.Notifier, d.Policy, log)
	v.members = team.NewMemberFlow(d.Teams, v.sync, d.Notifier, log)
	return v
}

// Activate enters path with sess. When the policy requires a session the guard runs exactly once; if it
// redirects, nothing else happens and false is returned. Otherwise the store is seeded for the user.
// Public paths (the auth surfaces) only record the session.
func (v *TeamView) Activate(ctx context.Context, path string, sess *sessiondomain.Session) bool {
	v.setSession(sess)
	if v.access != nil && !v.access.RequiresSession(ctx, path) {
		return true
	}
	if !session.EnsureAuthenticated(sess, v.nav) {
		v.emit(ctx, telemetry.ActionActivate, telemetry.OutcomeDenied, "", nil)
		return false
	}
	err := v.Refresh(ctx)
	v.emit(ctx, telemetry.ActionActivate, outcomeOf(err), "", err)
	return true
}

// Refresh reloads the viewer's teams from the server and reseeds the store. On error the store is kept.
func (v *TeamView) Refresh(ctx context.Context) error {
	userID := v.Session().UserIDOrEmpty()
	if userID == "" {
		err := apperr.Validation("user ID is undefined", nil)
		v.log.Error("view: user ID is undefined")
		return err
	}
	teams, err := v.teams.ListForUser(ctx, userID)
	if err != nil {
		v.log.WithError(err).WithField("user_id", userID).Error("view: refresh failed")
		return err
	}
	v.store.Seed(teams)
	return nil
}

// CreateTeam runs the creation flow for the session user.
func (v *TeamView) CreateTeam(ctx context.Context, rawName string) result.Result[team.Created] {
	userID := v.Session().UserIDOrEmpty()
	if userID == "" {
		v.log.Error("view: user ID is undefined")
		res := result.Err[team.Created](apperr.Validation("user ID is undefined", nil))
		v.emit(ctx, telemetry.ActionCreateTeam, telemetry.OutcomeFailed, "", res.Error())
		return res
	}
	res := v.creation.CreateTeam(ctx, rawName, userID)
	teamID := ""
	if cur, ok := v.store.CurrentTeam(); ok {
		teamID = cur.ID
	}
	v.emit(ctx, telemetry.ActionCreateTeam, outcomeOf(res.Error()), teamID, res.Error())
	return res
}

// AddMember adds a member to the current team and resyncs the roster.
func (v *TeamView) AddMember(ctx context.Context, in team.MemberInput) result.Result[teamdomain.Member] {
	cur, _ := v.store.CurrentTeam()
	res := v.members.AddMember(ctx, cur.ID, in)
	v.emit(ctx, telemetry.ActionAddMember, outcomeOf(res.Error()), cur.ID, res.Error())
	return res
}

// FetchMembers resyncs the roster of the current team.
func (v *TeamView) FetchMembers(ctx context.Context) result.Result[[]teamdomain.Member] {
	cur, ok := v.store.CurrentTeam()
	if !ok {
		return result.Err[[]teamdomain.Member](apperr.Validation("Invalid fields", map[string]string{"teamId": "Team is required"}))
	}
	return v.sync.FetchMembers(ctx, cur.ID)
}

// Register submits a registration and notifies the outcome.
func (v *TeamView) Register(ctx context.Context, c identitydomain.RegisterCandidate) result.Outcome {
	out := v.gateway.Register(ctx, c)
	v.notifyOutcome(out)
	v.emit(ctx, telemetry.ActionRegister, outcomeOfOutcome(out), "", out.Err)
	return out
}

// Login submits credentials and notifies the outcome. The caller keeps the returned token.
func (v *TeamView) Login(ctx context.Context, c identitydomain.LoginCandidate) result.Outcome {
	out := v.gateway.Login(ctx, c)
	v.notifyOutcome(out)
	v.emit(ctx, telemetry.ActionLogin, outcomeOfOutcome(out), "", out.Err)
	return out
}

// SignOut ends the session. On a confirmed logout the viewer is told so and sent to the login surface;
// otherwise an error is shown and the view stays.
func (v *TeamView) SignOut(ctx context.Context) bool {
	sess := v.Session()
	env := v.gateway.Logout(ctx, sess.TokenOrEmpty())
	if env.OK() {
		v.notifier.Notify(ui.Success, env.Response)
		v.setSession(nil)
		v.store.Seed(nil)
		v.nav.Navigate(ui.LoginPath)
		v.emitFor(ctx, sess, telemetry.ActionSignOut, telemetry.OutcomeOK, "", nil)
		return true
	}
	msg := MsgSignOutFailed
	if env != nil && env.Response != "" {
		msg = env.Response
	}
	v.notifier.Notify(ui.Error, msg)
	v.emitFor(ctx, sess, telemetry.ActionSignOut, telemetry.OutcomeFailed, "", nil)
	return false
}

// Title is the page heading: every team name joined with " & ".
func (v *TeamView) Title() string { return v.store.Title() }

// Roster is the current member list.
func (v *TeamView) Roster() []teamdomain.Member { return v.store.Roster() }

// NeedsTeam reports whether the viewer should be offered team creation.
func (v *TeamView) NeedsTeam() bool { return v.store.NeedsTeam() }

// CurrentTeam returns the team every action operates on.
func (v *TeamView) CurrentTeam() (teamdomain.Team, bool) { return v.store.CurrentTeam() }

// Session returns the session the view was activated with; nil when absent.
func (v *TeamView) Session() *sessiondomain.Session {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.sess
}

func (v *TeamView) setSession(sess *sessiondomain.Session) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sess = sess
}

func (v *TeamView) notifyOutcome(out result.Outcome) {
	if out.Succeeded() {
		v.notifier.Notify(ui.Success, out.Message())
		return
	}
	if msg := out.Message(); msg != "" {
		v.notifier.Notify(ui.Error, msg)
	}
}

func (v *TeamView) emit(ctx context.Context, action, outcome, teamID string, err error) {
	v.emitFor(ctx, v.Session(), action, outcome, teamID, err)
}

func (v *TeamView) emitFor(ctx context.Context, sess *sessiondomain.Session, action, outcome, teamID string, err error) {
	ev := &telemetry.ActionEvent{
		Action:  action,
		Outcome: outcome,
		UserID:  sess.UserIDOrEmpty(),
		TeamID:  teamID,
	}
	if sess != nil {
		ev.SessionID = sess.SessionID
	}
	if err != nil {
		ev.ErrorKind = apperr.KindOf(err).String()
	}
	v.async.Emit(ctx, v.emitter, ev)
}

func outcomeOf(err error) string {
	if err != nil {
		return telemetry.OutcomeFailed
	}
	return telemetry.OutcomeOK
}

func outcomeOfOutcome(out result.Outcome) string {
	if out.Succeeded() {
		return telemetry.OutcomeOK
	}
	return telemetry.OutcomeFailed
}
