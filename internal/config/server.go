package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Server defaults.
const (
	DefaultServerAddress  = ":8080"
	DefaultAladhanBaseURL = "https://api.aladhan.com/v1"
	DefaultLogLevel       = "info"
)

// Server is the proxy server's environment.
type Server struct {
	Environment    string
	ServerAddress  string
	AladhanBaseURL string
	LogLevel       zerolog.Level
}

// Production reports whether APP_ENV is "production".
func (s Server) Production() bool {
	return strings.EqualFold(s.Environment, "production")
}

// LoadServer reads the server environment. Variables from the given .env
// files (".env" when none are named) fill in anything not already set in
// the process environment; missing files are ignored.
func LoadServer(files ...string) (Server, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Server{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(envOr("LOG_LEVEL", DefaultLogLevel)))
	if err != nil {
		return Server{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	s := Server{
		Environment:    os.Getenv("APP_ENV"),
		ServerAddress:  envOr("SERVER_ADDRESS", DefaultServerAddress),
		AladhanBaseURL: strings.TrimRight(envOr("ALADHAN_BASE_URL", DefaultAladhanBaseURL), "/"),
		LogLevel:       level,
	}
	if err := validateURL("ALADHAN_BASE_URL", s.AladhanBaseURL, "http", "https"); err != nil {
		return Server{}, err
	}
	return s, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
