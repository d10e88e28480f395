// Package main runs the SecureVault interactive client.
package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/SecureVault/internal/client/api"
	"github.com/atinyakov/SecureVault/internal/client/shell"
	"github.com/atinyakov/SecureVault/internal/client/transport"
	"github.com/atinyakov/SecureVault/internal/config"
	"github.com/atinyakov/SecureVault/internal/logger"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options, err := config.ParseClient(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if options.ShowVersion {
		fmt.Printf("SecureVault Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	// Logs go to stderr and default to warn so they stay out of the shell.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(2)
	}
	defer func() { _ = log.Log.Sync() }()

	httpClient, err := transport.NewHTTPClient(options.CAFile, time.Duration(options.Timeout))
	if err != nil {
		log.Log.Fatal("failed to build http client", zap.Error(err))
	}
	client := api.New(options.BackendURL, httpClient, log.Log)

	sh := shell.New(client, os.Stdin, os.Stdout, log.Log)
	if err := sh.Run(context.Background()); err != nil {
		log.Log.Error("shell stopped", zap.Error(err))
		os.Exit(1)
	}
}
