package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"d-hub/auth"
	"d-hub/mock"
	"d-hub/roster"
	"d-hub/server"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hub terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	color.New(color.FgCyan).Printf("d-hub %s\n", server.Version)

	// 2. Roster seeded with the built-in dataset
	reg := roster.New(roster.Seed{Servers: mock.Servers, Members: mock.Members})

	// 3. Hub assembly
	hub := server.New(logger, server.Config{
		Host:              config.Host,
		Port:              config.Port,
		ClientID:          config.ClientID,
		StaticDir:         config.StaticDir,
		PresenceMin:       config.PresenceMinInterval,
		PresenceMax:       config.PresenceMaxInterval,
		ChatMin:           config.ChatMinInterval,
		ChatMax:           config.ChatMaxInterval,
		ChatPhrases:       mock.Phrases,
		ChatChannel:       mock.DefaultChannel,
		SendBuffer:        config.SendBuffer,
		RestartWait:       config.RestartInterval,
		TelemetryInterval: config.TelemetryInterval,
		ShutdownTimeout:   config.ShutdownTimeout,
	}, reg)

	switch {
	case config.PasswordHash != "":
		hub.Hooks().RegisterValidateUser(auth.NewPasswordValidator(config.PasswordHash))
		logger.Info("Password validator enabled")
	case config.AuthSecret != "":
		hub.Hooks().RegisterValidateUser(auth.NewTokenValidator([]byte(config.AuthSecret)))
		logger.Info("JWT validator enabled")
	}
	if config.StaticDir != "" {
		hub.Hooks().RegisterStaticRequest(staticProvider(config.StaticDir))
		logger.Info("Serving static assets", "dir", config.StaticDir)
	}

	// 4. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start the hub and block until a signal arrives
	if err := hub.Start(ctx); err != nil {
		return exitRuntime, fmt.Errorf("hub error: %w", err)
	}
	<-ctx.Done()
	logger.Info("Shutdown signal received")

	// 6. Final Cleanup (Graceful Shutdown)
	if err := hub.Stop(); err != nil {
		logger.Warn("Shutdown finished with error", "err", err)
	}
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

// staticProvider serves files below dir through the static hook. Paths are
// cleaned and re-rooted so a request cannot escape the directory.
func staticProvider(dir string) func(path string) (string, []byte, bool) {
	return func(path string) (string, []byte, bool) {
		if path == "/" {
			path = "/index.html"
		}
		clean := filepath.Clean("/" + path)
		full := filepath.Join(dir, clean)
		if !strings.HasPrefix(full, filepath.Clean(dir)+string(os.PathSeparator)) {
			return "", nil, false
		}
		body, err := os.ReadFile(full)
		if err != nil {
			return "", nil, false
		}
		contentType := mime.TypeByExtension(filepath.Ext(full))
		return contentType, body, true
	}
}
