package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/verrloren/hackathon-evrz/internal/logging"
)

// emitTimeout is the max time allowed for a single async emit.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration bounds how long shutdown waits for in-flight emits before closing the sinks.
const ShutdownDrainDuration = emitTimeout

// Async runs emits in the background and lets shutdown wait for the ones still in flight.
type Async struct {
	log logrus.FieldLogger
	wg  sync.WaitGroup
}

// NewAsync returns an Async logging emit failures to log.
func NewAsync(log logrus.FieldLogger) *Async {
	if log == nil {
		log = logging.Discard()
	}
	return &Async{log: log}
}

// Emit runs emitter.Emit in a goroutine bounded by emitTimeout. Errors are logged.
//
// emitter and event may be nil; Emit then returns without starting a goroutine. Cancelling ctx does
// not abort an in-flight emit, but its values (trace context) are kept.
func (a *Async) Emit(ctx context.Context, emitter Emitter, event *ActionEvent) {
	if emitter == nil || event == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	base := context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		emitCtx, cancel := context.WithTimeout(base, emitTimeout)
		defer cancel()
		if err := emitter.Emit(emitCtx, event); err != nil {
			a.log.WithError(err).WithField("action", event.Action).Warn("telemetry: async emit failed")
		}
	}()
}

// Wait blocks until every emit started so far has returned, or ctx is done.
func (a *Async) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EmitAsync is Emit on a one-off Async, for callers that never wait.
func EmitAsync(ctx context.Context, emitter Emitter, event *ActionEvent, log logrus.FieldLogger) {
	NewAsync(log).Emit(ctx, emitter, event)
}
