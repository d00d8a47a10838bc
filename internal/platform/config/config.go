// Package config resolves the server's runtime settings.
//
// The bind address is fixed at 0.0.0.0:3000 and only the command line can move
// it. Logging behaviour is read from the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultHost = "0.0.0.0"
	DefaultPort = "3000"
)

// Config holds the settings needed to start the server.
type Config struct {
	Host      string
	Port      string
	LogLevel  zapcore.Level
	AccessLog bool
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Host:     DefaultHost,
		Port:     DefaultPort,
		LogLevel: zapcore.InfoLevel,
	}
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment take precedence
// over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, applying defaults for unset or empty keys.
// Generic variables such as HOST and PORT are not consulted.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := nonEmpty(lookup, "LOG_LEVEL"); ok {
		lvl, err := ParseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = lvl
	}
	if v, ok := nonEmpty(lookup, "ACCESS_LOG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ACCESS_LOG %q: %w", v, err)
		}
		cfg.AccessLog = b
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseLevel parses a zap level name such as "debug" or "warn".
func ParseLevel(s string) (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// Validate reports whether the port is a usable TCP port number.
func (c Config) Validate() error {
	p, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Port, err)
	}
	if p < 0 || p > 65535 {
		return fmt.Errorf("invalid port %q: out of range", c.Port)
	}
	return nil
}

// Addr returns the host:port pair to listen on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func nonEmpty(lookup func(string) (string, bool), key string) (string, bool) {
	v, ok := lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
