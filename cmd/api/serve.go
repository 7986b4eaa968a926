package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/procodeli/portal/internal/application/audit"
	"github.com/procodeli/portal/internal/application/recovery"
	"github.com/procodeli/portal/internal/application/session"
	"github.com/procodeli/portal/internal/infrastructure/dynamo"
	"github.com/procodeli/portal/internal/infrastructure/gotrue"
	jwtinfra "github.com/procodeli/portal/internal/infrastructure/jwt"
	s3infra "github.com/procodeli/portal/internal/infrastructure/s3"
	"github.com/procodeli/portal/internal/infrastructure/smtp"
	"github.com/procodeli/portal/internal/infrastructure/sns"
	"github.com/procodeli/portal/internal/pubsub"
	transporthttp "github.com/procodeli/portal/internal/transport/http"
	"github.com/spf13/cobra"
)

var bootstrapOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&bootstrapOnStart, "bootstrap", false, "create missing DynamoDB tables before serving")
}

func serve(ctx context.Context) error {
	if cfg.AuthURL == "" {
		return errors.New("AUTH_URL not set")
	}

	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("dynamodb client: %w", err)
	}
	if bootstrapOnStart {
		dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)
	}

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("jwt provider: %w", err)
	}

	authClient := gotrue.NewClient(cfg)
	bus := pubsub.NewSessionBus()
	defer func() {
		if err := bus.Close(); err != nil {
			slog.Warn("failed to close session bus", "err", err)
		}
	}()

	sessions := session.NewManager(session.ManagerDeps{
		SessionRepo: dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		Refresher:   authClient,
		Bus:         bus,
	})

	recoverySvc := recovery.NewService(recovery.ServiceDeps{
		Backend:            authClient,
		Verifications:      dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.Verifications),
		Auditor:            newAuditRecorder(ctx),
		SiteURL:            cfg.SiteURL,
		LoginRoute:         cfg.LoginRoute,
		PasswordMinLength:  cfg.PasswordMinLength,
		PropagationTimeout: cfg.SessionPropagationTimeout,
		ResetCooldown:      cfg.ResetRequestCooldown,
		ResetLinkTTL:       cfg.ResetLinkTTL,
	})

	router, stopRouter := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Recovery:    recoverySvc,
		Sessions:    sessions,
		JWTProvider: jwtProvider,
	})
	defer stopRouter()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AuthHTTPTimeout*2 + cfg.SessionPropagationTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// newAuditRecorder wires whichever audit sinks are configured.
func newAuditRecorder(ctx context.Context) *audit.Recorder {
	deps := audit.RecorderDeps{}

	if cfg.S3BucketName != "" {
		if client, err := s3infra.NewClient(ctx, cfg); err == nil {
			deps.Store = s3infra.NewStore(client, cfg.S3BucketName)
		} else {
			slog.Warn("audit store not available", "err", err)
		}
	}
	if pub, err := sns.NewPublisher(ctx, cfg); err == nil {
		deps.Publisher = pub
	} else {
		slog.Warn("security event publisher not available", "err", err)
	}
	if m, err := smtp.NewMailer(cfg); err == nil {
		deps.Mailer = m
	} else {
		slog.Warn("mailer not available", "err", err)
	}
	return audit.NewRecorder(deps)
}
