// Package config loads env-tagged configuration structs. A .env file is read
// once per process before the environment is parsed, so local development and
// twelve-factor deployments share the same structs.
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be
	// parsed into the config struct
	ErrParsingConfig = errors.New("config: failed to parse environment")

	// ErrNilPointer is returned when a nil pointer is provided to Load
	ErrNilPointer = errors.New("config: nil pointer provided")
)

var defaultEnvOnce sync.Once

// LoadEnv loads the given .env files into the process environment. Existing
// variables win, so real environment always overrides file contents.
func LoadEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// Load parses environment variables into the provided struct based on its
// `env` tags. The default .env file is loaded first if present; its absence
// is not an error.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	defaultEnvOnce.Do(func() {
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad is Load for configuration the application cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}
