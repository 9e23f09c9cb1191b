package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"weather-cli/config"
	"weather-cli/internal/controllers/cli"
	"weather-cli/internal/repositories"
	"weather-cli/internal/services/weather"
	"weather-cli/pkg/logger"
	"weather-cli/pkg/observe"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	cnf, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	var writers []io.Writer
	if cnf.LogFile != "" {
		f, err := os.OpenFile(cnf.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		writers = append(writers, f)
	} else {
		writers = append(writers, os.Stderr)
	}

	var hook *observe.SentryHook
	if cnf.SentryDSN != "" {
		hook, err = observe.NewSentryHook(cnf.AppEnv, cnf.AppName, cnf.SentryDSN, cnf.LogLevel == "debug")
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		} else {
			writers = append(writers, hook)
		}
	}

	l := logger.NewZapLogger(cnf.AppName, cnf.AppEnv, cnf.LogLevel, writers...)
	defer func() {
		_ = l.Stop()
	}()
	if hook != nil {
		hook.SetLogger(l)
		defer hook.Flush()
	}

	// Timeout 0 keeps the net/http default of no deadline.
	httpClient := &http.Client{Timeout: cnf.HTTPTimeout}

	repo := repositories.NewRateLimitedRepository(
		repositories.NewOpenWeatherMapRepository(cnf.BaseURL, l, httpClient),
		cnf.RateLimitRPS,
		cnf.RateLimitBurst,
	)

	var history repositories.HistoryRepository
	if cnf.HistoryEnabled() {
		h, err := repositories.NewSQLiteHistoryRepository(cnf.HistoryDB)
		if err != nil {
			l.Warning("lookup history disabled", map[string]any{"err": err.Error(), "path": cnf.HistoryDB})
		} else {
			defer h.Close()
			history = h
		}
	}

	service := weather.NewWeatherService(repo, repositories.NewSnapshotRepository(cnf.SaveDir), history, l)

	l.Info("application started successfully", map[string]any{
		"session_id": service.SessionID(),
		"history":    history != nil,
	})

	session := cli.NewSession(os.Stdin, os.Stdout, service, cli.Options{
		DefaultAPIKey: cnf.APIKey,
		SaveEnabled:   cnf.SaveEnabled,
	}, l)

	if _, err := session.Run(ctx); err != nil {
		l.Error(err, map[string]any{"stage": "session"})
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}
