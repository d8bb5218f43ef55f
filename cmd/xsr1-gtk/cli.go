package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xsr1/xsr1-gtk/internal/config"
	"github.com/xsr1/xsr1-gtk/internal/content"
	"github.com/xsr1/xsr1-gtk/internal/shell"
	"github.com/xsr1/xsr1-gtk/internal/webkitgtk"
)

const (
	usageLine  = "Usage: xsr1-gtk [--help|--version]"
	bugsLine   = "Report bugs to: <almkglor@gmail.com>"
	noticeText = "Copyright (C) 2014,2015,2022 Alan Manuel K. Gloria\n" +
		"This is free software; see the source for copying conditions.  There is NO\n" +
		"warranty; not even for MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.\n\n"
)

type action int

const (
	actionLaunch action = iota
	actionVersion
	actionHelp
	actionReject
)

// classify decides what the program arguments (toolkit options already
// removed) ask for. For actionReject it also returns the offending argument.
func classify(args []string) (action, string) {
	switch {
	case len(args) == 0:
		return actionLaunch, ""
	case len(args) > 1:
		if a, _ := classify(args[:1]); a == actionReject {
			return actionReject, args[0]
		}
		return actionReject, args[1]
	}
	switch args[0] {
	case "--version", "-V":
		return actionVersion, ""
	case "--help", "-H":
		return actionHelp, ""
	default:
		return actionReject, args[0]
	}
}

// exitError carries the process exit code out of the command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// launcher runs the GUI for a located index.html.
type launcher func(ctx context.Context, opts shell.Options, logger *zap.Logger) error

func launchShell(ctx context.Context, opts shell.Options, logger *zap.Logger) error {
	webkitgtk.Logger = logger
	return shell.New(opts, logger).Run(ctx)
}

func newRootCmd(argv0 string, launch launcher) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xsr1-gtk",
		Short: "XSR1, a clone of 1979 Atari Star Raiders",
		Long: `xsr1-gtk shows the XSR1 game in a native window.

index.html is looked up in the current directory first, then in the
installation data directory.`,
		// Arguments are classified by hand so every unknown one gets the
		// same diagnostic.
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			toolkit, rest := webkitgtk.SplitToolkitArgs(args)
			stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

			switch act, arg := classify(rest); act {
			case actionVersion:
				fmt.Fprintf(stdout, "XSR1 %s\n", config.VersionString())
				fmt.Fprint(stdout, noticeText)
				return nil
			case actionHelp:
				fmt.Fprintln(stdout, usageLine)
				fmt.Fprintln(stdout, bugsLine)
				return nil
			case actionReject:
				fmt.Fprintf(stderr, "%s: Unrecognized option: %s\n", argv0, arg)
				return &exitError{code: 1}
			}

			return launchGame(cmd.Context(), argv0, toolkit, stderr, launch)
		},
	}
	return cmd
}

func launchGame(ctx context.Context, argv0 string, toolkit []string, stderr io.Writer, launch launcher) error {
	cfgPath := config.Path()
	cfg, cfgErr := config.Load(cfgPath)
	logger := newLogger(cfg, stderr)
	defer func() { _ = logger.Sync() }()
	if cfgErr != nil {
		logger.Warn("config ignored", zap.String("path", cfgPath), zap.Error(cfgErr))
	}

	path, ok := content.NewLocator(cfg.DataDir, logger).Locate()
	if !ok {
		fmt.Fprintf(stderr, "%s: Cannot find index.html for XSR1\n", argv0)
		return &exitError{code: 1}
	}

	err := launch(ctx, shell.Options{
		Argv0:       argv0,
		ToolkitArgs: toolkit,
		ContentPath: path,
		Config:      cfg,
	}, logger)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", argv0, err)
		return &exitError{code: 1}
	}
	return nil
}

func newLogger(cfg config.Config, w io.Writer) *zap.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = zapcore.WarnLevel
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)
	return zap.New(core).Named("xsr1")
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, launch launcher) int {
	argv0 := "xsr1-gtk"
	if len(args) > 0 {
		argv0 = args[0]
		args = args[1:]
	}

	// cobra answers its hidden completion requests before RunE; those are
	// not options of this program.
	if len(args) > 0 && (args[0] == cobra.ShellCompRequestCmd || args[0] == cobra.ShellCompNoDescRequestCmd) {
		fmt.Fprintf(stderr, "%s: Unrecognized option: %s\n", argv0, args[0])
		return 1
	}

	cmd := newRootCmd(argv0, launch)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	var exit *exitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exit):
		return exit.code
	default:
		fmt.Fprintf(stderr, "%s: %v\n", argv0, err)
		return 1
	}
}
