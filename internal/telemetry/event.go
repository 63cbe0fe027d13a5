// Package telemetry records user actions (create team, add member, sign out, ...) as best-effort events.
package telemetry

import (
	"context"
	"time"
)

// Action names.
const (
	ActionActivate   = "view.activate"
	ActionRefresh    = "view.refresh"
	ActionCreateTeam = "team.create"
	ActionAddMember  = "team.add_member"
	ActionRegister   = "user.register"
	ActionLogin      = "user.login"
	ActionSignOut    = "user.sign_out"
)

// Outcome values.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
	OutcomeDenied = "denied"
)

// ActionEvent describes one user action and how it ended.
type ActionEvent struct {
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"`
	UserID    string    `json:"user_id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	TeamID    string    `json:"team_id,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	At        time.Time `json:"at"`
}

// Emitter sends action events to a sink. Best-effort; callers log and ignore errors.
type Emitter interface {
	Emit(ctx context.Context, event *ActionEvent) error
}

// Nop discards events.
type Nop struct{}

func (Nop) Emit(context.Context, *ActionEvent) error { return nil }
