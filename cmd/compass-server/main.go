// Command compass-server serves the prayer proxy endpoint over HTTP.
package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ramadan-compass/internal/api"
	"github.com/smokyabdulrahman/ramadan-compass/internal/config"
	"github.com/smokyabdulrahman/ramadan-compass/internal/proxy"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	log.Logger = setupLogging(cfg, os.Stderr)
	router := newRouter(cfg, log.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("env", cfg.Environment).
		Str("upstream", cfg.AladhanBaseURL).
		Msg("starting compass-server")

	if err := proxy.Serve(ctx, cfg.ServerAddress, router, log.Logger); err != nil {
		stop()
		log.Fatal().Err(err).Msg("server error")
	}
}

// setupLogging applies the level and gin mode for cfg and returns the
// process logger. Production logs JSON lines; other environments log
// human-readable console output.
func setupLogging(cfg config.Server, w io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
		return zerolog.New(w).With().Timestamp().Logger()
	}
	gin.SetMode(gin.DebugMode)
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
}

func newRouter(cfg config.Server, logger zerolog.Logger) http.Handler {
	upstream := api.NewClient()
	upstream.BaseURL = cfg.AladhanBaseURL

	svc := proxy.NewService(upstream)
	svc.Logger = logger
	return proxy.NewRouter(svc, logger)
}
