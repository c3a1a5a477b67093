package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"DocShelf/internal/config"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "upload".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "mkdir <name> [--parent <id>]".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// Section группирует команды в справке.
type Section string

const (
	SectionSession  Section = "Session"
	SectionFolders  Section = "Folders"
	SectionKeywords Section = "Keywords"
	SectionFiles    Section = "Files"
	SectionAdmin    Section = "Admin"
	SectionOther    Section = "Other"
)

// sectionOrder: порядок разделов в справке.
var sectionOrder = []Section{SectionSession, SectionFolders, SectionKeywords, SectionFiles, SectionAdmin, SectionOther}

type entry struct {
	cmd     Command
	section Section
}

var registry = map[string]entry{}

// Out: общий writer для вывода CLI. В тестах переназначается.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry under a help section.
// Should be called from init() of each command file.
func RegisterCmd(section Section, cmd Command) {
	if section == "" {
		section = SectionOther
	}
	registry[cmd.Name()] = entry{cmd: cmd, section: section}
}

// Get returns a command by name, case-insensitively.
func Get(name string) (Command, bool) {
	e, ok := registry[strings.ToLower(name)]
	return e.cmd, ok
}

// List returns the commands of one section sorted by name.
func List(section Section) []Command {
	var list []Command
	for _, e := range registry {
		if e.section == section {
			list = append(list, e.cmd)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatCommandUsage builds the help text of a single command.
func FormatCommandUsage(c Command) string {
	s := fmt.Sprintf("Usage: docshelf %s\n", c.Usage())
	if d := c.Description(); d != "" {
		s += "\n  " + d + "\n"
	}
	return s
}

// FormatGlobalUsage builds a help text for all commands, grouped by section.
func FormatGlobalUsage() string {
	lines := []string{
		"DocShelf CLI",
		"",
		"Usage:",
		"  docshelf [--base-url <host:port>] [--https] [--token-file <path>] <command> [args]",
		"  docshelf help <command>",
	}
	for _, sec := range sectionOrder {
		cmds := List(sec)
		if len(cmds) == 0 {
			continue
		}
		lines = append(lines, "", string(sec)+":")
		for _, c := range cmds {
			lines = append(lines, fmt.Sprintf("  %-44s %s", c.Usage(), c.Description()))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
