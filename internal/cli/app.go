package cli

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/verrloren/hackathon-evrz/internal/access"
	"github.com/verrloren/hackathon-evrz/internal/backend"
	"github.com/verrloren/hackathon-evrz/internal/config"
	"github.com/verrloren/hackathon-evrz/internal/identity/service"
	"github.com/verrloren/hackathon-evrz/internal/security"
	"github.com/verrloren/hackathon-evrz/internal/session"
	sessiondomain "github.com/verrloren/hackathon-evrz/internal/session/domain"
	"github.com/verrloren/hackathon-evrz/internal/team"
	"github.com/verrloren/hackathon-evrz/internal/team/repository"
	"github.com/verrloren/hackathon-evrz/internal/telemetry"
	telemetryotel "github.com/verrloren/hackathon-evrz/internal/telemetry/otel"
	"github.com/verrloren/hackathon-evrz/internal/telemetry/producer"
	"github.com/verrloren/hackathon-evrz/internal/view"
)

const serviceName = "teamctl"

// App is everything a teamctl command needs, built from configuration.
type App struct {
	View    *view.TeamView
	Printer *Printer
	Tokens  TokenFile
	Log     logrus.FieldLogger

	cfg      *config.Config
	observer *session.Observer
	async    *telemetry.Async
	closers  []func(context.Context) error
}

// Build wires the client stack from cfg. Close must be called when done.
func Build(ctx context.Context, cfg *config.Config, out io.Writer, log *logrus.Logger) (*App, error) {
	app := &App{
		Printer: NewPrinter(out),
		Tokens:  TokenFile{Path: cfg.SessionFile},
		Log:     log,
		cfg:     cfg,
		async:   telemetry.NewAsync(log),
	}

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure, log)
	if err != nil {
		return nil, err
	}
	providers.SetGlobal()
	app.closers = append(app.closers, providers.Shutdown)

	var emitter telemetry.Emitter = telemetryotel.NewActionEmitter(providers.LoggerProvider)
	if kp := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.ActionsKafkaTopic); kp != nil {
		emitter = kp
		app.closers = append(app.closers, func(context.Context) error { return kp.Close() })
	}

	client, err := backend.NewClient(cfg.BackendURL, cfg.BackendAPIKey,
		backend.WithTimeout(cfg.Timeout()),
		backend.WithLogger(log),
	)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}

	evaluator, err := access.LoadEvaluator(ctx, cfg.AccessPolicyFile, log)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	if err := evaluator.HealthCheck(ctx); err != nil {
		_ = app.Close(ctx)
		return nil, err
	}

	var verifier *security.SessionVerifier
	if cfg.SessionPublicKey != "" {
		pub, err := security.ParsePublicKey(cfg.SessionPublicKey)
		if err != nil {
			_ = app.Close(ctx)
			return nil, err
		}
		verifier = security.NewSessionVerifier(pub, cfg.SessionIssuer, cfg.SessionAudience)
	}
	app.observer = session.NewObserver(verifier, log)

	app.View = view.New(view.Deps{
		Gateway:   service.NewGateway(client, log),
		Teams:     repository.NewHTTPRepository(client),
		Access:    evaluator,
		Navigator: app.Printer,
		Notifier:  app.Printer,
		Emitter:   emitter,
		Async:     app.async,
		Policy:    team.CreationPolicy{AlwaysReportSuccess: cfg.AlwaysReportTeamCreated},
		Log:       log,
	})
	return app, nil
}

// Session observes the session token from SESSION_TOKEN, falling back to the session file.
func (a *App) Session() *sessiondomain.Session {
	token := a.cfg.SessionToken
	if token == "" {
		stored, err := a.Tokens.Load()
		if err != nil {
			a.Log.WithError(err).Warn("cli: read session file")
		}
		token = stored
	}
	return a.observer.Observe(token)
}

// Close waits up to telemetry.ShutdownDrainDuration for in-flight action events, then shuts the
// sinks down.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.async != nil {
		drainCtx, cancel := context.WithTimeout(ctx, telemetry.ShutdownDrainDuration)
		if err := a.async.Wait(drainCtx); err != nil {
			a.Log.WithError(err).Warn("cli: action events still in flight at shutdown")
		}
		cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
