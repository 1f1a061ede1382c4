// solarsail copies pages, templates, HubDB tables and blog content from one
// HubSpot portal to another through the legacy content API.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/johnwards/solarsail/internal/config"
	"github.com/johnwards/solarsail/internal/console"
	"github.com/johnwards/solarsail/internal/guard"
	"github.com/johnwards/solarsail/internal/hubapi"
	"github.com/johnwards/solarsail/internal/migrate"
	"github.com/johnwards/solarsail/internal/resolve"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type options struct {
	sel      migrate.Selection
	envFile  string
	logLevel string
	match    string
	noColor  bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "solarsail",
		Short: "Migrate HubSpot content between portals",
		Long: `solarsail reads content from the source portal (HAPI_KEY_SOURCE) and
recreates it on the destination portal (HAPI_KEY_DESTINATION), rewriting
translation links, blog and author references on the way.

Keys are read from a .env file in the working directory or the environment.

Examples:
  solarsail --pages sync
  solarsail --blogs sync
  solarsail --blogs delete
  solarsail --all sync`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.sel.Pages, "pages", "", "sync pages (sync)")
	f.StringVar(&opts.sel.HubDB, "hubdb", "", "sync HubDB tables and rows (sync)")
	f.StringVar(&opts.sel.Blogs, "blogs", "", "blogs with authors and posts (sync), blogs only (only) or delete destination blogs (delete)")
	f.StringVar(&opts.sel.Templates, "templates", "", "sync templates (sync)")
	f.StringVar(&opts.sel.Authors, "authors", "", "sync blog authors (sync)")
	f.StringVar(&opts.sel.All, "all", "", "run every sync procedure (sync)")
	f.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with API keys")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default SOLARSAIL_LOG_LEVEL or warn)")
	f.StringVar(&opts.match, "match", "", "translation parent matching: fuzzy or exact (default SOLARSAIL_MATCH or fuzzy)")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	return cmd
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := console.New(stdout, opts.noColor)

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		out.Failure("%s", err)
		return err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.match != "" {
		cfg.Match = opts.match
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	plan, err := opts.sel.Plan()
	if err != nil {
		return err
	}

	client := hubapi.New(cfg.BaseURL,
		hubapi.Credentials{Source: cfg.SourceKey, Destination: cfg.DestinationKey},
		hubapi.WithLimiter(hubapi.NewIntervalLimiter(cfg.RequestInterval)),
		hubapi.WithTimeout(cfg.HTTPTimeout),
		hubapi.WithLogger(logger),
	)

	strategy, err := resolve.StrategyByName(cfg.Match, client)
	if err != nil {
		return err
	}

	syncer := migrate.NewSyncer(client, migrate.Options{
		PageLimit:     cfg.PageLimit,
		PostLimit:     cfg.PostLimit,
		DefaultAuthor: cfg.DefaultAuthor,
		Strategy:      strategy,
	}, out, logger)
	runner := migrate.NewRunner(syncer, guard.New(client, logger, cfg.ForbiddenPortals...), out, logger)

	reports, err := runner.Run(ctx, plan)
	if err != nil {
		out.Failure("%s", err)
		return err
	}

	clean := 0
	for _, rep := range reports {
		if rep.Clean() {
			clean++
		}
	}
	if clean == len(reports) {
		out.Success("%d of %d procedures completed cleanly", clean, len(reports))
	} else {
		out.Warn("%d of %d procedures completed cleanly", clean, len(reports))
	}
	return nil
}
