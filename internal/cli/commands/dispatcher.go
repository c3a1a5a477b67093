package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"DocShelf/internal/cli/api"
	"DocShelf/internal/config"
)

// Коды выхода CLI.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
	// exitDenied: сервер отклонил сессию (401) или роль (403).
	exitDenied = 3
)

func isHelp(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}

// Dispatch is the single entry point to execute CLI commands.
// It prints help and usage messages and returns a process exit code.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitUsage
	}

	if isHelp(args[0]) { // docshelf help [command]
		if len(args) == 1 {
			fmt.Fprint(Out, FormatGlobalUsage())
			return exitOK
		}
		if c, ok := Get(args[1]); ok {
			fmt.Fprint(Out, FormatCommandUsage(c))
			return exitOK
		}
		fmt.Fprintf(Out, "Unknown command: %s\n\n", args[1])
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitUsage
	}

	c, ok := Get(args[0])
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", args[0])
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitUsage
	}
	// docshelf <command> --help
	for _, a := range args[1:] {
		if a == "-h" || a == "--help" {
			fmt.Fprint(Out, FormatCommandUsage(c))
			return exitOK
		}
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprint(Out, FormatCommandUsage(c))
		return exitUsage
	}
	fmt.Fprintf(Out, "%s error: %v\n", c.Name(), err)
	switch api.StatusOf(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return exitDenied
	default:
		return exitFailed
	}
}
