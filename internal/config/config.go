package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"payments_engine/internal/processor"
	"payments_engine/internal/repository"
)

var (
	ErrNotEnoughArguments = errors.New("not enough arguments")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

type Config struct {
	InputPath       string
	Processor       processor.Options
	DuplicatePolicy repository.DuplicatePolicy
	LogLevel        slog.Level
	LogFormat       string
	MetricsTextfile string
}

// Load builds the configuration from the command line (the input path is
// the first positional argument) and the environment.
func Load(args []string) (*Config, error) {
	if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
		return nil, fmt.Errorf("%w: usage: %s <transactions.csv>", ErrNotEnoughArguments, programName(args))
	}

	cfg := &Config{
		InputPath: args[1],
		Processor: processor.Options{
			LockPolicy:        processor.LockPolicy(getEnv("PAYMENTS_LOCK_POLICY", string(processor.LockIgnore))),
			WithdrawalDispute: processor.WithdrawalDisputeMode(getEnv("PAYMENTS_WITHDRAWAL_DISPUTE", string(processor.WithdrawalDisputeObserved))),
		},
		DuplicatePolicy: repository.DuplicatePolicy(getEnv("PAYMENTS_DUPLICATE_POLICY", string(repository.DuplicateAccept))),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		MetricsTextfile: os.Getenv("PAYMENTS_METRICS_TEXTFILE"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("%w: LOG_LEVEL: %v", ErrInvalidConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Processor.LockPolicy {
	case processor.LockIgnore, processor.LockEnforce:
	default:
		return fmt.Errorf("%w: PAYMENTS_LOCK_POLICY %q", ErrInvalidConfig, c.Processor.LockPolicy)
	}

	switch c.Processor.WithdrawalDispute {
	case processor.WithdrawalDisputeObserved, processor.WithdrawalDisputeSymmetric:
	default:
		return fmt.Errorf("%w: PAYMENTS_WITHDRAWAL_DISPUTE %q", ErrInvalidConfig, c.Processor.WithdrawalDispute)
	}

	switch c.DuplicatePolicy {
	case repository.DuplicateAccept, repository.DuplicateReject:
	default:
		return fmt.Errorf("%w: PAYMENTS_DUPLICATE_POLICY %q", ErrInvalidConfig, c.DuplicatePolicy)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: LOG_FORMAT %q", ErrInvalidConfig, c.LogFormat)
	}

	return nil
}

func programName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "processor"
}

// getEnv retrieves an environment variable or returns a default value if not set
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(strings.TrimSpace(value))
	}
	return defaultValue
}
