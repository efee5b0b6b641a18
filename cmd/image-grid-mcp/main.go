package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ironsheep/image-grid-mcp/internal/config"
	"github.com/ironsheep/image-grid-mcp/internal/logging"
	"github.com/ironsheep/image-grid-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-grid-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "image-grid-mcp: %v\n", err)
		os.Exit(1)
	}

	// stdout is reserved for the MCP protocol
	logger := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer logger.Sync()

	logger.Info("starting image-grid-mcp",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit),
		zap.Int("workers", cfg.Workers),
		zap.Int("cache_entries", cfg.CacheEntries))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger, server.WithVersion(Version))
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("image-grid-mcp - MCP server for grid brightness analysis")
	fmt.Println()
	fmt.Println("Usage: image-grid-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Println("  IMAGE_GRID_CONFIG=path.yaml       YAML file with the settings below")
	fmt.Println("  IMAGE_GRID_LOG_LEVEL=info         debug, info, warn or error")
	fmt.Println("  IMAGE_GRID_LOG_FILE=path          Also write JSON logs to a rotating file")
	fmt.Println("  IMAGE_GRID_OVERVIEW_BINS=16       Histogram bins for grid_analyze and grid_overlay")
	fmt.Println("  IMAGE_GRID_DETAIL_BINS=32         Histogram bins for grid_cell and region_stats")
	fmt.Println("  IMAGE_GRID_THUMBNAIL_SIZE=64      Cell thumbnail edge length in pixels")
	fmt.Println("  IMAGE_GRID_WORKERS=<cpus>         Cells analyzed in parallel")
	fmt.Println("  IMAGE_GRID_CACHE_ENTRIES=64       Grid analyses kept in memory")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
