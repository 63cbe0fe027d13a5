package otel

import (
	"context"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/verrloren/hackathon-evrz/internal/telemetry"
)

type recordCapture struct {
	recs []otellog.Record
}

func (r *recordCapture) Emit(_ context.Context, rec otellog.Record) { r.recs = append(r.recs, rec) }

func TestNewActionEmitter_NilProvider(t *testing.T) {
	em := NewActionEmitter(nil)
	if err := em.Emit(context.Background(), &telemetry.ActionEvent{Action: "x"}); err != nil {
		t.Errorf("noop Emit: %v", err)
	}
}

func TestNewActionEmitter_Provider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	em := NewActionEmitter(provider)
	if err := em.Emit(context.Background(), nil); err != nil {
		t.Errorf("Emit(nil): %v", err)
	}
	if err := em.Emit(context.Background(), &telemetry.ActionEvent{Action: telemetry.ActionLogin}); err != nil {
		t.Errorf("Emit: %v", err)
	}
}

func TestActionEmitter_Mapping(t *testing.T) {
	capture := &recordCapture{}
	em := NewActionEmitterWithLogger(capture)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	err := em.Emit(context.Background(), &telemetry.ActionEvent{
		Action:    telemetry.ActionCreateTeam,
		Outcome:   telemetry.OutcomeFailed,
		UserID:    "u1",
		TeamID:    "t1",
		ErrorKind: "network",
		At:        at,
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(capture.recs) != 1 {
		t.Fatalf("records = %d, want 1", len(capture.recs))
	}
	rec := capture.recs[0]
	if !rec.Timestamp().Equal(at) {
		t.Errorf("timestamp = %v", rec.Timestamp())
	}
	if rec.Severity() != otellog.SeverityWarn {
		t.Errorf("severity = %v", rec.Severity())
	}
	if got := rec.Body().AsString(); got != telemetry.ActionCreateTeam {
		t.Errorf("body = %q", got)
	}
	attrs := map[string]string{}
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	want := map[string]string{
		"action": telemetry.ActionCreateTeam, "outcome": telemetry.OutcomeFailed,
		"user_id": "u1", "team_id": "t1", "error_kind": "network",
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attr %s = %q, want %q", k, attrs[k], v)
		}
	}
	if _, ok := attrs["session_id"]; ok {
		t.Error("empty session_id should not be set")
	}
}
