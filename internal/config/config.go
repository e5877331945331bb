package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	IdentityAddress   string
	NotifyAddress     string
	AuthSecret        string
	AcceptanceWindow  time.Duration
	SweepInterval     time.Duration
	SweepBatchSize    int
	SweepWorkers      int
	TransitionRetries int
	ShutdownTimeout   time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultAuthSecret        = "change-me-in-production"
	defaultAcceptanceWindow  = 48 * time.Hour
	defaultSweepInterval     = 5 * time.Minute
	defaultSweepBatchSize    = 64
	defaultSweepWorkers      = 4
	defaultTransitionRetries = 3
	defaultShutdownTimeout   = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		IdentityAddress:   getString(lookup, "IDENTITY_ADDRESS", ""),
		NotifyAddress:     getString(lookup, "NOTIFY_ADDRESS", ""),
		AuthSecret:        getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		AcceptanceWindow:  getDuration(lookup, "ACCEPTANCE_WINDOW", defaultAcceptanceWindow),
		SweepInterval:     getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		SweepBatchSize:    getInt(lookup, "SWEEP_BATCH_SIZE", defaultSweepBatchSize),
		SweepWorkers:      getInt(lookup, "SWEEP_WORKERS", defaultSweepWorkers),
		TransitionRetries: getInt(lookup, "TRANSITION_RETRIES", defaultTransitionRetries),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("atelier", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		acceptanceWindowStr = cfg.AcceptanceWindow.String()
		sweepIntervalStr    = cfg.SweepInterval.String()
		shutdownTimeoutStr  = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.IdentityAddress, "identity", cfg.IdentityAddress, "Identity service base URL")
	fs.StringVar(&cfg.NotifyAddress, "notify", cfg.NotifyAddress, "Notification sink base URL (optional)")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Shared secret for verifying actor tokens")
	fs.StringVar(&acceptanceWindowStr, "acceptance-window", acceptanceWindowStr, "Window for producer to accept or reject an order")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between deadline sweep passes")
	fs.IntVar(&cfg.SweepBatchSize, "sweep-batch", cfg.SweepBatchSize, "Maximum orders per sweep pass")
	fs.IntVar(&cfg.SweepWorkers, "sweep-workers", cfg.SweepWorkers, "Number of concurrent sweep workers")
	fs.IntVar(&cfg.TransitionRetries, "transition-retries", cfg.TransitionRetries, "Retry budget for interactive transitions on version conflicts")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.AcceptanceWindow, err = time.ParseDuration(acceptanceWindowStr); err != nil {
		return nil, fmt.Errorf("invalid acceptance window: %w", err)
	}

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.AcceptanceWindow <= 0 {
		cfg.AcceptanceWindow = defaultAcceptanceWindow
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = defaultSweepBatchSize
	}

	if cfg.SweepWorkers <= 0 {
		cfg.SweepWorkers = defaultSweepWorkers
	}

	if cfg.TransitionRetries <= 0 {
		cfg.TransitionRetries = defaultTransitionRetries
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.IdentityAddress == "" {
		return nil, fmt.Errorf("identity service address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
