// Package config provides functionality for managing configuration options
// for the client and the development backend using command-line flags, a JSON
// config file and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Duration is a time.Duration that decodes from a JSON string such as "15s".
type Duration time.Duration

// UnmarshalJSON parses a Go duration string.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// ClientOptions holds the configuration of the vault shell.
type ClientOptions struct {
	// BackendURL is the base URL of the vault API.
	BackendURL string `json:"backend_url"`

	// CAFile is an optional PEM CA certificate used to verify the backend's
	// HTTPS certificate instead of the system pool.
	CAFile string `json:"ca_file"`

	// Timeout bounds every request issued by the client.
	Timeout Duration `json:"timeout"`

	// LogLevel is passed to the zap logger.
	LogLevel string `json:"log_level"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// ShowVersion prints build metadata and exits.
	ShowVersion bool `json:"-"`
}

// ServerOptions holds the configuration of the development backend.
type ServerOptions struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"port"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// LogLevel is passed to the zap logger.
	LogLevel string `json:"log_level"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// ShowVersion prints build metadata and exits.
	ShowVersion bool `json:"-"`
}

// ParseClient parses the client's flags, config file and environment, in
// that order of increasing precedence for the file and environment.
func ParseClient(args []string) (*ClientOptions, error) {
	loadDotEnv()

	opts := &ClientOptions{}
	var timeout time.Duration

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.StringVar(&opts.BackendURL, "url", "http://localhost:8080", "vault backend base URL")
	fs.StringVar(&opts.CAFile, "ca", "", "path to a CA certificate to trust")
	fs.DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	fs.StringVar(&opts.LogLevel, "log-level", "warn", "log level")
	fs.StringVar(&opts.Config, "config", "client.json", "path to config file")
	fs.StringVar(&opts.Config, "c", "client.json", "path to config file (shorthand)")
	fs.BoolVar(&opts.ShowVersion, "version", false, "show build version and date")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.Timeout = Duration(timeout)

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		opts.Config = configPath
	}
	if err := readConfigFile(opts.Config, opts); err != nil {
		return nil, err
	}

	if v := os.Getenv("VAULT_BACKEND_URL"); v != "" {
		opts.BackendURL = v
	}
	if v := os.Getenv("VAULT_CA_FILE"); v != "" {
		opts.CAFile = v
	}
	if v := os.Getenv("VAULT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid VAULT_TIMEOUT: %w", err)
		}
		opts.Timeout = Duration(d)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		opts.LogLevel = v
	}

	if opts.BackendURL == "" {
		return nil, errors.New("backend url must not be empty")
	}
	if opts.Timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}
	return opts, nil
}

// ParseServer parses the development backend's flags, config file and
// environment.
func ParseServer(args []string) (*ServerOptions, error) {
	loadDotEnv()

	opts := &ServerOptions{}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&opts.TLSCert, "tls-cert", "", "path to server certificate")
	fs.StringVar(&opts.TLSKey, "tls-key", "", "path to server key")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "log level")
	fs.StringVar(&opts.Config, "config", "config.json", "path to config file")
	fs.StringVar(&opts.Config, "c", "config.json", "path to config file (shorthand)")
	fs.BoolVar(&opts.ShowVersion, "version", false, "show build version and date")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		opts.Config = configPath
	}
	if err := readConfigFile(opts.Config, opts); err != nil {
		return nil, err
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		opts.Port = serverAddress
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		opts.LogLevel = v
	}

	if (opts.TLSCert == "") != (opts.TLSKey == "") {
		return nil, errors.New("tls-cert and tls-key must be set together")
	}
	return opts, nil
}

// readConfigFile decodes path into dst. A missing file is not an error.
func readConfigFile(path string, dst any) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

// loadDotEnv populates the environment from ./.env when present.
func loadDotEnv() {
	_ = godotenv.Load()
}
