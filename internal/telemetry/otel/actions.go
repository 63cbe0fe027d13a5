package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/verrloren/hackathon-evrz/internal/telemetry"
)

const loggerName = "hackathon-evrz.actions"

// NewActionEmitter returns an Emitter writing action events as OTel log records. A nil provider
// yields a no-op emitter.
func NewActionEmitter(provider *sdklog.LoggerProvider) telemetry.Emitter {
	if provider == nil {
		return telemetry.Nop{}
	}
	return NewActionEmitterWithLogger(provider.Logger(loggerName))
}

// RecordEmitter is the part of otellog.Logger the action emitter needs.
type RecordEmitter interface {
	Emit(ctx context.Context, record otellog.Record)
}

// NewActionEmitterWithLogger wraps an arbitrary record sink.
func NewActionEmitterWithLogger(logger RecordEmitter) telemetry.Emitter {
	return &actionEmitter{logger: logger}
}

type actionEmitter struct {
	logger RecordEmitter
}

func (e *actionEmitter) Emit(ctx context.Context, event *telemetry.ActionEvent) error {
	if event == nil {
		return nil
	}
	rec := otellog.Record{}
	ts := event.At
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	rec.SetTimestamp(ts)
	rec.SetBody(otellog.StringValue(event.Action))
	if event.Outcome == telemetry.OutcomeOK {
		rec.SetSeverity(otellog.SeverityInfo)
	} else {
		rec.SetSeverity(otellog.SeverityWarn)
	}
	rec.AddAttributes(
		otellog.String("action", event.Action),
		otellog.String("outcome", event.Outcome),
	)
	if event.UserID != "" {
		rec.AddAttributes(otellog.String("user_id", event.UserID))
	}
	if event.SessionID != "" {
		rec.AddAttributes(otellog.String("session_id", event.SessionID))
	}
	if event.TeamID != "" {
		rec.AddAttributes(otellog.String("team_id", event.TeamID))
	}
	if event.ErrorKind != "" {
		rec.AddAttributes(otellog.String("error_kind", event.ErrorKind))
	}
	e.logger.Emit(ctx, rec)
	return nil
}
