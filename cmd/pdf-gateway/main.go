package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"pdf-gateway/internal/config"
	"pdf-gateway/internal/http/server"
	"pdf-gateway/internal/infra/chrome"
	"pdf-gateway/internal/infra/logging"
	"pdf-gateway/internal/render"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := loadConfig(os.Args[1:])
	logging.InitLogger(
		cfg.Logger.File,
		cfg.Logger.MaxSizeMB,
		cfg.Logger.MaxBackups,
		cfg.Logger.MaxAgeDays,
		cfg.Logger.Compress,
		cfg.Logger.Level,
	)
	logging.SetLogLevel(cfg.Logger.Level)

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logging.Debug("automaxprocs", "detail", format, "args", args)
	})); err != nil {
		logging.Warn("Failed to set GOMAXPROCS", "error", err)
	}

	sessions := chrome.NewTracker()
	app := server.New(server.Deps{
		Config:   cfg,
		Renderer: render.New(cfg, sessions),
		Sessions: sessions,
	})

	logging.Info("Starting PDF gateway",
		"addr", cfg.Server.Host+cfg.Server.Port,
		"chrome_path", cfg.PDF.ChromePath,
		"show_html_report", cfg.PDF.ShowHTMLReport,
	)

	idleConnsClosed := make(chan struct{})
	startServer(app, cfg, idleConnsClosed)
	<-idleConnsClosed
}

// parseFlags returns the --config value. Unknown flags are ignored so the
// binary also runs under go test.
func parseFlags(args []string) string {
	fs := pflag.NewFlagSet("pdf-gateway", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	path := fs.StringP("config", "c", "", "path to the YAML config file (overrides CONFIG_PATH)")
	_ = fs.Parse(args)
	return *path
}

func loadConfig(args []string) config.Config {
	if path := parseFlags(args); path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// startServer starts the Fiber app and listens for shutdown signals
func startServer(app *fiber.App, cfg config.Config, idleConnsClosed chan struct{}) {
	go func() {
		if err := app.Listen(cfg.Server.Host + cfg.Server.Port); err != nil {
			logging.Error("Server error", "error", err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	<-sigint
	signal.Stop(sigint)

	logging.Warn("Shutdown signal received, closing server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
	}

	close(idleConnsClosed)
	logging.Info("Server stopped cleanly")
}
