package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lllllllleong/slidesmcp/internal/gcp"
	"github.com/Lllllllleong/slidesmcp/internal/services"
	"github.com/Lllllllleong/slidesmcp/internal/tools"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "google-slides-mcp"
	serverVersion = "1.0.0"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	// stdout carries the protocol, so logs go to stderr.
	closeLog, err := gcp.ConfigureLogging(os.Stderr)
	if err != nil {
		log.Fatalf("CRITICAL: logging setup failed: %v", err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := services.NewSlidesFunction(ctx, services.SlogRecorder{})
	if err != nil {
		slog.Error("Slides service initialization failed", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	tools.Register(server, svc)

	slog.Info("Serving MCP over stdio.", "server", serverName, "version", serverVersion)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		slog.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
