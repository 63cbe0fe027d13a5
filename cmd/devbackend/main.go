// devbackend serves the team API locally so teamctl can be exercised without the production backend.
package main

import (
	"context"
	"crypto"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/verrloren/hackathon-evrz/internal/config"
	"github.com/verrloren/hackathon-evrz/internal/db"
	"github.com/verrloren/hackathon-evrz/internal/db/migrate"
	"github.com/verrloren/hackathon-evrz/internal/devbackend"
	"github.com/verrloren/hackathon-evrz/internal/devbackend/repository"
	"github.com/verrloren/hackathon-evrz/internal/logging"
	"github.com/verrloren/hackathon-evrz/internal/security"
	telemetryotel "github.com/verrloren/hackathon-evrz/internal/telemetry/otel"
)

const serviceName = "hackathon-evrz-devbackend"

func main() {
	cfg, err := config.LoadDevBackend()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logging.New(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure, log)
	if err != nil {
		log.WithError(err).Fatal("otel")
	}
	providers.SetGlobal()

	signer, err := signingKey(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("session key")
	}

	repo, sqlDB, err := openRepository(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("storage")
	}

	opts := devbackend.Options{Issuer: cfg.SessionIssuer, Audience: cfg.SessionAudience, TTL: cfg.TTL()}
	srv := devbackend.NewServer(repo, security.NewHasher(cfg.BcryptCost),
		security.NewTokenIssuer(signer, opts.Issuer, opts.Audience, opts.TTL), opts, cfg.APIKey, log)

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr).Info("dev backend listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("serve")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down dev backend...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	if sqlDB != nil {
		_ = sqlDB.Close()
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("otel shutdown")
	}
	log.Info("dev backend stopped")
}

// signingKey loads the configured key, or generates one that lives only as long as the process.
func signingKey(cfg *config.DevBackendConfig, log logrus.FieldLogger) (crypto.Signer, error) {
	if cfg.SessionPrivateKey != "" {
		return security.ParsePrivateKey(cfg.SessionPrivateKey)
	}
	signer, err := security.GenerateSigningKey()
	if err != nil {
		return nil, err
	}
	pub, err := security.EncodePublicKey(signer.Public())
	if err != nil {
		return nil, err
	}
	log.Warn("SESSION_PRIVATE_KEY not set; generated an ephemeral key. Sessions end when the process exits.")
	log.Infof("set SESSION_PUBLIC_KEY for teamctl to verify tokens:\n%s", pub)
	return signer, nil
}

func openRepository(ctx context.Context, cfg *config.DevBackendConfig, log logrus.FieldLogger) (repository.Repository, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL not set; using in-memory storage")
		return repository.NewMemoryRepository(), nil, nil
	}
	if err := migrate.Run(cfg.DatabaseURL, migrate.Up); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, nil, err
	}
	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewPostgresRepository(sqlDB), sqlDB, nil
}
