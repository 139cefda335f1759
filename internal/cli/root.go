// Package cli implements the swprops command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/swprops/internal/ctxlog"
	"github.com/mesh-intelligence/swprops/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// ExitError carries the process exit code for an error returned by a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

func userError(err error) error { return &ExitError{Code: exitUserError, Err: err} }
func sysError(err error) error  { return &ExitError{Code: exitSysError, Err: err} }

// rootOptions holds global flag values and settings loaded before any
// subcommand runs.
type rootOptions struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
	noColor   bool
	verbose   bool

	settings settings
}

// NewRootCmd creates the top-level "swprops" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "swprops",
		Short: "Read assembly structure and custom properties of CAD documents",
		Long: `swprops flattens assembly component trees and resolves custom properties,
generic or configuration specific, from a library of CAD documents.

Documents are read either through a live session (--backend session) or
directly from the library without a session (--backend document).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&opts.dataDir, "data-dir", "", "document library directory (default: $(CWD)/.swprops-db)")
	pf.StringVar(&opts.backend, "backend", "", "document access: session or document (default from config)")
	pf.BoolVar(&opts.jsonMode, "json", false, "output as JSON")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newAboutCmd())
	root.AddCommand(newImportCmd(opts))
	root.AddCommand(newComponentsCmd(opts))
	root.AddCommand(newPropertyCmd(opts))
	root.AddCommand(newConfigurationsCmd(opts))

	return root
}

// load resolves directories, reads config.yaml and installs the logger in
// the command context.
func (o *rootOptions) load(cmd *cobra.Command) error {
	if o.noColor {
		pterm.DisableStyling()
	}

	configDir, err := paths.ResolveConfigDir(o.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	s, err := loadSettings(configDir)
	if err != nil {
		return sysError(err)
	}
	if o.backend != "" {
		s.Backend = o.backend
	}
	if o.verbose {
		s.LogLevel = "debug"
	}
	o.settings = s

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: ctxlog.ParseLevel(s.LogLevel),
	}))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(ctxlog.WithLogger(ctx, logger))
	logger.Debug("configuration loaded", "config_dir", configDir, "backend", s.Backend)
	return nil
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.ExecuteContext(context.Background())
	if err == nil {
		os.Exit(exitSuccess)
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	os.Exit(exitUserError)
}
