package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mmcdole/avalon/internal/adapter"
	"github.com/mmcdole/avalon/internal/domain"
	"github.com/mmcdole/avalon/internal/library"
	"github.com/mmcdole/avalon/internal/scan"
	"github.com/mmcdole/avalon/internal/store"
	flag "github.com/spf13/pflag"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearProgressLine clears the scan progress line from the terminal
const clearProgressLine = "\r                                        \r"

// command is one avalon subcommand
type command struct {
	name  string
	short string
	flags *flag.FlagSet
	exec  func(ctx context.Context, env *environment, args []string) error
}

// environment is what every subcommand needs after config is loaded
type environment struct {
	cfg    *adapter.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	commands := []*command{serveCommand(), scanCommand(), queryCommand(), versionCommand()}

	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stderr, commands)
		if len(args) == 0 {
			return 1
		}
		return 0
	}
	if args[0] == "-v" || args[0] == "--version" {
		args[0] = "version"
	}

	var cmd *command
	for _, c := range commands {
		if c.name == args[0] {
			cmd = c
			break
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", args[0])
		printUsage(stderr, commands)
		return 1
	}

	configFile := cmd.flags.String("config", "", "path to config file")
	cmd.flags.SetOutput(io.Discard)
	if err := cmd.flags.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printCommandHelp(stderr, cmd)
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		printCommandHelp(stderr, cmd)
		return 1
	}

	env, err := setup(*configFile, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := cmd.exec(ctx, env, cmd.flags.Args()); err != nil {
		env.logger.Error("command failed", "command", cmd.name, "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func setup(configFile string, stdout, stderr io.Writer) (*environment, error) {
	cfg, err := adapter.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	return &environment{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}, nil
}

func printUsage(w io.Writer, commands []*command) {
	fmt.Fprintln(w, "Usage: avalon <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.short)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'avalon <command> --help' for command flags.")
}

func printCommandHelp(w io.Writer, cmd *command) {
	fmt.Fprintf(w, "Usage: avalon %s [flags]\n\n%s\n", cmd.name, cmd.short)
	if !cmd.flags.HasFlags() {
		return
	}
	var buf strings.Builder
	cmd.flags.SetOutput(&buf)
	cmd.flags.PrintDefaults()
	fmt.Fprintf(w, "\nFlags:\n%s", buf.String())
}

func versionCommand() *command {
	return &command{
		name:  "version",
		short: "Print the avalon version",
		flags: flag.NewFlagSet("version", flag.ContinueOnError),
		exec: func(_ context.Context, env *environment, _ []string) error {
			fmt.Fprintf(env.stdout, "avalon %s\n", Version)
			return nil
		},
	}
}

func scanCommand() *command {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	root := fs.String("root", "", "collection root (overrides config)")

	return &command{
		name:  "scan",
		short: "Crawl the collection and replace the stored records",
		flags: fs,
		exec: func(ctx context.Context, env *environment, _ []string) error {
			if *root != "" {
				env.cfg.Collection.Root = adapter.ExpandPath(*root)
			}

			st, err := openStore(ctx, env)
			if err != nil {
				return err
			}
			defer st.Close()

			crawler := newCrawler(env)
			if isTerminal(env.stderr) {
				crawler.OnProgress(func(read, skipped int) {
					fmt.Fprintf(env.stderr, "\rread %d files, skipped %d", read, skipped)
				})
			}

			svc := library.NewService(st, env.logger)
			recs, err := svc.Ingest(ctx, crawler, env.cfg.Collection.Root, st)
			if isTerminal(env.stderr) {
				fmt.Fprint(env.stderr, clearProgressLine)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(env.stdout, "stored %d tracks, %d albums, %d artists, %d genres\n",
				len(recs.Tracks), len(recs.Albums), len(recs.Artists), len(recs.Genres))
			return nil
		},
	}
}

func openStore(ctx context.Context, env *environment) (domain.Store, error) {
	st, err := store.Open(ctx, env.cfg.Store.Backend, env.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", env.cfg.Store.Backend, err)
	}
	env.logger.Info("opened store", "backend", env.cfg.Store.Backend, "path", env.cfg.Store.Path)
	return st, nil
}

func newCrawler(env *environment) *scan.Crawler {
	return scan.NewCrawler(env.cfg.Collection.Workers, env.logger)
}
