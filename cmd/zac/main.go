package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"zac/internal/comment"
	"zac/internal/interp"
	"zac/internal/repl"
	"zac/internal/util"
)

var (
	// Version is stamped at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
)

type runCmd struct {
	File     string `arg:"" help:"Path to the program file." type:"existingfile"`
	DryRun   bool   `help:"Print the rewritten source to stdout instead of writing it back."`
	DebugAST bool   `help:"Print the parsed program and exit without evaluating."`
}

type replCmd struct{}

type versionCmd struct{}

var cli struct {
	LogLevel string `help:"Log level: debug, info, warn, error, none." default:""`
	LogFile  string `help:"Log file path (stderr if unset)."`
	Config   string `help:"Path to the config file." default:"${config_file}"`

	Run     runCmd     `cmd:"" default:"withargs" help:"Run a program and write mutated comment blocks back into it."`
	Repl    replCmd    `cmd:"" help:"Start an interactive session (no writeback)."`
	Version versionCmd `cmd:"" help:"Print version information."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("zac"),
		kong.Description("An interpreter whose comment blocks are mutable program state."),
		kong.UsageOnError(),
		kong.Vars{"config_file": util.DefaultConfigFile},
	)

	cfg, err := util.LoadConfiguration(cli.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(3)
	}
	cfg.Version = Version
	cfg.BuildDate = BuildDate
	cfg.Commit = Commit
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	if cli.LogFile != "" {
		cfg.LogFile = cli.LogFile
	}

	if err := configureLogging(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "log:", err)
		os.Exit(3)
	}

	switch ctx.Command() {
	case "run <file>":
		os.Exit(runFile(cli.Run, cfg))
	case "repl":
		if err := repl.Start(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(3)
		}
	case "version":
		fmt.Printf("zac %s (%s, built %s)\n", Version, Commit, BuildDate)
	default:
		ctx.PrintUsage(false)
		os.Exit(1)
	}
}

// runFile is the whole lifecycle: one read, load, run, render, one write.
func runFile(cmd runCmd, cfg util.Configuration) int {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}
	src := string(data)

	program, store, err := interp.Load(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if cmd.DebugAST {
		fmt.Print(program.String())
		return 0
	}

	policy, err := comment.PolicyFromString(cfg.WritebackPolicy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}

	if _, err := interp.Run(program, store, interp.Options{Out: os.Stdout}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var runtimeErr *interp.RuntimeError
		if errors.As(err, &runtimeErr) {
			return 2
		}
		return 1
	}

	rendered, err := interp.Render(src, store, policy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if cmd.DryRun {
		fmt.Print(rendered)
		return 0
	}
	if rendered == src {
		slog.Debug("no comment blocks changed, skipping write", slog.String("file", cmd.File))
		return 0
	}
	if err := os.WriteFile(cmd.File, []byte(rendered), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}
	return 0
}

func configureLogging(cfg util.Configuration) error {
	level, discard := logLevelFromString(cfg.LogLevel)

	var w io.Writer = os.Stderr
	if discard {
		w = io.Discard
	} else if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		w = f
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

func logLevelFromString(s string) (slog.Level, bool) {
	switch s {
	case "debug":
		return slog.LevelDebug, false
	case "info":
		return slog.LevelInfo, false
	case "warn":
		return slog.LevelWarn, false
	case "error":
		return slog.LevelError, false
	default:
		return slog.LevelError, true
	}
}
