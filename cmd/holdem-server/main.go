package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem/internal/history"
	"github.com/lox/holdem/internal/hub"
	"github.com/lox/holdem/internal/server"
	"github.com/lox/holdem/internal/table"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"holdem-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Server address to bind to (overrides config)"`
	Port     int    `short:"p" long:"port" help:"Server port to bind to (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
}

func main() {
	ctx := kong.Parse(&CLI)

	cfg, err := server.LoadServerConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.Port != 0 {
		cfg.Server.Port = CLI.Port
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	logger.Info("starting holdem server",
		"addr", cfg.GetServerAddress(),
		"tables", len(cfg.Tables))

	hubOpts := []hub.Option{hub.WithLogger(logger)}
	if cfg.Server.HandHistoryDir != "" {
		recorder, err := history.NewRecorder(cfg.Server.HandHistoryDir, logger)
		if err != nil {
			logger.Error("failed to set up hand history", "error", err)
			ctx.Exit(1)
		}
		hubOpts = append(hubOpts, hub.WithTableOptions(table.WithRecorder(recorder)))
	}
	h := hub.New(hubOpts...)
	srv, err := server.NewServer(cfg, h, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		ctx.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(runCtx); err != nil {
		logger.Error("server error", "error", err)
		ctx.Exit(1)
	}
	logger.Info("server stopped")
}
