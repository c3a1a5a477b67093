package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"DocShelf/internal/cli/commands"
	"DocShelf/internal/config"
)

// Заполняются при сборке через -ldflags "-X main.version=...".
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion(commands.Out, cfg)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(commands.Dispatch(ctx, cfg, flag.Args()))
}

func printVersion(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "DocShelf CLI\nVersion: %s\nBuild date: %s\nServer: %s\n", version, buildDate, cfg.ServerURL)
}
