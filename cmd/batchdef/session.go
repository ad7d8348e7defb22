package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/batchdef/internal/config"
	"github.com/alexisbeaulieu97/batchdef/internal/definition"
	"github.com/alexisbeaulieu97/batchdef/internal/inherit"
	"github.com/alexisbeaulieu97/batchdef/internal/logger"
)

const (
	logFormatAuto    = "auto"
	logFormatConsole = "console"
	logFormatJSON    = "json"
)

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

// session bundles what a single command invocation needs once the definition file is loaded.
type session struct {
	log      *logger.Logger
	doc      *config.Document
	tree     *definition.Tree
	resolver *inherit.Resolver
}

func newCommandLogger(cmd *cobra.Command, flags *rootFlags) (*logger.Logger, error) {
	level := "info"
	if flags.verbose {
		level = "debug"
	}

	human, err := humanReadable(flags.logFormat, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: human,
		Writer:        cmd.ErrOrStderr(),
		Component:     "cli",
	})
	if err != nil {
		return nil, err
	}

	return log.WithFields(map[string]any{
		"run_id":  uuid.NewString(),
		"command": cmd.Name(),
	}), nil
}

func humanReadable(format string, w io.Writer) (bool, error) {
	switch format {
	case "", logFormatAuto:
		return isTerminal(w), nil
	case logFormatConsole:
		return true, nil
	case logFormatJSON:
		return false, nil
	default:
		return false, fmt.Errorf("unknown log format %q", format)
	}
}

// openSession loads and validates the file at path and prepares a resolver for it.
func openSession(cmd *cobra.Command, flags *rootFlags, path string) (*session, error) {
	log, err := newCommandLogger(cmd, flags)
	if err != nil {
		return nil, newCommandError(cmd.Name(), "configuring logger", err, "Use --log-format auto, console or json.")
	}

	log = log.With("file", path)
	log.Debug("loading definitions")

	doc, err := config.Load(path)
	if err != nil {
		return nil, newCommandError(cmd.Name(), fmt.Sprintf("loading %s", path), err, suggestionFor(err))
	}

	tree, err := doc.Tree()
	if err != nil {
		return nil, newCommandError(cmd.Name(), fmt.Sprintf("building definitions from %s", path), err, suggestionFor(err))
	}

	resolver := inherit.NewResolver(tree,
		inherit.WithLogger(log),
		inherit.WithBaseline(doc.Baseline()),
	)

	return &session{log: log, doc: doc, tree: tree, resolver: resolver}, nil
}

func isTerminal(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

func heading(w io.Writer, text string) string {
	if isTerminal(w) {
		return headingStyle.Render(text)
	}
	return text
}
