// Package main runs the SecureVault development backend: an in-memory
// implementation of the vault API, served over HTTP or, when a certificate
// is configured, HTTPS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/SecureVault/internal/config"
	"github.com/atinyakov/SecureVault/internal/logger"
	"github.com/atinyakov/SecureVault/internal/repository"
	"github.com/atinyakov/SecureVault/internal/server/handler/http"
	"github.com/atinyakov/SecureVault/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse command-line, config file and environment configuration.
	options, err := config.ParseServer(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))
	if options.ShowVersion {
		return
	}

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// One in-memory store backs accounts, tokens and vault records.
	repo := repository.NewMemoryStore()

	// Initialize business-logic services.
	authService := service.NewAuthService(repo)
	vaultService := service.NewVaultService(repo)
	advisorService := service.NewAdvisorService()

	// Build the router with middleware and routes.
	router := http.NewRouter(
		&http.AuthHandler{AuthService: authService, Log: zapLogger},
		&http.VaultHandler{VaultService: vaultService, Log: zapLogger},
		&http.AdvisorHandler{AdvisorService: advisorService},
		authService,
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	useTLS := options.TLSCert != ""
	if useTLS {
		server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLogger.Info("starting server", zap.String("addr", options.Port), zap.Bool("tls", useTLS))
		var err error
		if useTLS {
			err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		zapLogger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
