package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/verrloren/hackathon-evrz/internal/apperr"
	"github.com/verrloren/hackathon-evrz/internal/config"
	identitydomain "github.com/verrloren/hackathon-evrz/internal/identity/domain"
	"github.com/verrloren/hackathon-evrz/internal/logging"
	"github.com/verrloren/hackathon-evrz/internal/team"
	"github.com/verrloren/hackathon-evrz/internal/ui"
)

// TeamPath is the view every team command activates.
const TeamPath = "/team"

// ErrActionFailed is returned by a command whose action was reported as failed. The message has
// already been printed.
var ErrActionFailed = errors.New("action failed")

// ConfigLoader loads the client configuration.
type ConfigLoader func() (*config.Config, error)

type runner struct {
	load   ConfigLoader
	out    io.Writer
	errOut io.Writer
	app    *App
}

// Run executes teamctl with args and returns the process exit code. Output goes to out; logs and
// command errors go to errOut.
func Run(ctx context.Context, load ConfigLoader, args []string, out, errOut io.Writer) int {
	r := &runner{load: load, out: out, errOut: errOut}
	root := r.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	r.teardown(ctx)
	if err == nil {
		return 0
	}
	if !errors.Is(err, ErrActionFailed) {
		fmt.Fprintln(errOut, "teamctl:", err)
	}
	return 1
}

func (r *runner) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "teamctl",
		Short: "Manage your team from the terminal",
		Long: `teamctl signs you in to the team service, shows your team and its members,
and lets you create a team or add members to it.

Configuration comes from the environment or a .env file (BACKEND_API_URL,
BACKEND_API_KEY, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return r.setup(cmd.Context())
		},
	}
	root.AddCommand(r.registerCmd(), r.loginCmd(), r.logoutCmd(), r.teamCmd())
	return root
}

func (r *runner) setup(ctx context.Context) error {
	cfg, err := r.load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.Env, cfg.LogLevel)
	log.SetOutput(r.errOut)
	app, err := Build(ctx, cfg, r.out, log)
	if err != nil {
		return err
	}
	r.app = app
	return nil
}

func (r *runner) teardown(ctx context.Context) {
	if r.app == nil {
		return
	}
	if err := r.app.Close(ctx); err != nil {
		r.app.Log.WithError(err).Warn("cli: shutdown")
	}
}

// finish turns the printer's state into the command's exit status.
func (r *runner) finish(err error) error {
	if err != nil {
		if fields := apperr.FieldsOf(err); fields != nil {
			r.app.Printer.Notify(ui.Error, apperr.MessageOf(err))
			r.app.Printer.FieldErrors(fields)
		}
		return ErrActionFailed
	}
	if r.app.Printer.Failed() || r.app.Printer.Redirected() == ui.LoginPath {
		return ErrActionFailed
	}
	return nil
}

func (r *runner) registerCmd() *cobra.Command {
	var c identitydomain.RegisterCandidate
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := r.app.View.Register(cmd.Context(), c)
			r.app.Printer.FieldErrors(out.Fields)
			if !out.Succeeded() {
				return ErrActionFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&c.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&c.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&c.Password, "password", "", "Password (at least 6 characters)")
	return cmd
}

func (r *runner) loginCmd() *cobra.Command {
	var c identitydomain.LoginCandidate
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := r.app.View.Login(cmd.Context(), c)
			r.app.Printer.FieldErrors(out.Fields)
			if !out.Succeeded() {
				return ErrActionFailed
			}
			if out.Envelope.Token == "" {
				r.app.Log.Warn("cli: login succeeded without a session token")
				return nil
			}
			return r.app.Tokens.Save(out.Envelope.Token)
		},
	}
	cmd.Flags().StringVar(&c.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&c.Password, "password", "", "Password")
	return cmd
}

func (r *runner) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r.app.View.Activate(cmd.Context(), ui.LoginPath, r.app.Session())
			if !r.app.View.SignOut(cmd.Context()) {
				return ErrActionFailed
			}
			return r.app.Tokens.Clear()
		},
	}
}

func (r *runner) teamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Show and manage your team",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show your team and its members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !r.activate(cmd.Context()) {
				return ErrActionFailed
			}
			r.printTeam()
			return nil
		},
	}

	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !r.activate(cmd.Context()) {
				return ErrActionFailed
			}
			res := r.app.View.CreateTeam(cmd.Context(), args[0])
			if err := r.finish(res.Error()); err != nil {
				return err
			}
			r.printTeam()
			return nil
		},
	}

	members := &cobra.Command{
		Use:   "members",
		Short: "Fetch the current roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !r.activate(cmd.Context()) {
				return ErrActionFailed
			}
			if res := r.app.View.FetchMembers(cmd.Context()); !res.IsOk() {
				r.app.Printer.Notify(ui.Error, team.UserMessage(res.Error(), "Failed to fetch members"))
				return ErrActionFailed
			}
			r.printTeam()
			return nil
		},
	}

	var cards []string
	addMember := &cobra.Command{
		Use:   "add-member NAME",
		Short: "Add a member to your team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !r.activate(cmd.Context()) {
				return ErrActionFailed
			}
			res := r.app.View.AddMember(cmd.Context(), team.MemberInput{Name: args[0], CardIDs: cards})
			if err := r.finish(res.Error()); err != nil {
				return err
			}
			r.printTeam()
			return nil
		},
	}
	addMember.Flags().StringArrayVar(&cards, "card", nil, "Card ID to associate (repeatable)")

	cmd.AddCommand(show, create, members, addMember)
	return cmd
}

func (r *runner) activate(ctx context.Context) bool {
	return r.app.View.Activate(ctx, TeamPath, r.app.Session())
}

func (r *runner) printTeam() {
	if r.app.View.NeedsTeam() {
		r.app.Printer.Line("You have no team yet. Create one with: teamctl team create NAME")
		return
	}
	r.app.Printer.Team(r.app.View.Title(), r.app.View.Roster())
}
