// Command api serves the study chain HTTP API.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ntquang22298/study-chain/internal/academy"
	academyhandlers "github.com/ntquang22298/study-chain/internal/academy/handlers"
	"github.com/ntquang22298/study-chain/internal/auth"
	"github.com/ntquang22298/study-chain/internal/config"
	"github.com/ntquang22298/study-chain/internal/jwt"
	"github.com/ntquang22298/study-chain/internal/ledger"
	"github.com/ntquang22298/study-chain/internal/logging"
	"github.com/ntquang22298/study-chain/internal/server"
	"github.com/ntquang22298/study-chain/internal/users"
	userhandlers "github.com/ntquang22298/study-chain/internal/users/handlers"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Serve the study chain API.",
		Long:  `Serves the self-service API of students, teachers and administrators on top of the academy ledger.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("trailing args detected")
			}
			cmd.SilenceUsage = true
			return serve(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "configs/config.yaml", "path to the configuration file, empty for environment only")
	return cmd
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return errors.Wrap(err, "failed to reach database")
	}
	logger.Info("connected to database", zap.String("host", cfg.Database.Host), zap.String("dbname", cfg.Database.DBName))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	httpGateway, err := ledger.NewHTTPGateway(ledger.HTTPOptions{
		URL:        cfg.Ledger.GatewayURL,
		Channel:    cfg.Ledger.Channel,
		Contract:   cfg.Ledger.Contract,
		CACertPath: cfg.Ledger.CACertPath,
		Timeout:    cfg.Ledger.Timeout,
	}, ledger.NewFileWallet(cfg.Ledger.WalletPath), logger.Named("ledger"))
	if err != nil {
		return err
	}
	gateway := ledger.Instrument(httpGateway, registry)

	userRepo := users.NewRepository(db)
	hasher := users.NewBcryptHasher()
	userService := users.NewService(userRepo, hasher)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	academyService := academy.NewService(gateway, userRepo, hasher, logger.Named("academy"))

	handler := server.NewRouter(server.Handlers{
		Auth:    userhandlers.NewAuthHandler(userService, jwtManager, logger.Named("auth")),
		Academy: academyhandlers.NewHandler(academyService, logger.Named("academy")),
	}, auth.NewMiddleware(jwtManager, userRepo, logger.Named("auth")), registry, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr),
			zap.String("gateway", cfg.Ledger.GatewayURL), zap.String("channel", cfg.Ledger.Channel))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	logger.Info("server stopped")
	return nil
}
