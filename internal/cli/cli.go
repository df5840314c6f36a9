package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"loctext/internal/color"
	"loctext/internal/config"
	"loctext/internal/filewalker"
	"loctext/internal/language"
	"loctext/internal/parser"
	"loctext/internal/resolve"
	"loctext/internal/store"
	"loctext/internal/tablestore"
	"loctext/internal/textutil"
	"loctext/internal/validate"
	"loctext/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ErrLintFailed is returned by the lint command when any problem was found.
var ErrLintFailed = errors.New("lint found problems")

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:          "loctext",
		Short:        "Resolve and check localized text templates",
		Long:         "Loads per-language template tables, fills [N] and {N}...{/N} placeholders, and lints tables for authoring mistakes.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			zerolog.SetGlobalLevel(cfg.Level())
			return nil
		},
	}

	getCfg := func() *config.Config { return cfg }

	rootCmd.AddCommand(resolveCmd(getCfg))
	rootCmd.AddCommand(lintCmd(getCfg))
	rootCmd.AddCommand(importCmd(getCfg))
	rootCmd.AddCommand(exportCmd(getCfg))
	rootCmd.AddCommand(languagesCmd())

	return rootCmd
}

func resolveCmd(cfg func() *config.Config) *cobra.Command {
	var opts resolveOptions

	cmd := &cobra.Command{
		Use:   "resolve <identifier>",
		Short: "Resolve one template and print the display text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			opts.identifier = args[0]
			return runResolve(ctx, cfg(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.lang, "lang", "", "Display language (name or BCP-47 tag); defaults to LOC_LANGUAGE")
	cmd.Flags().StringArrayVar(&opts.substrings, "sub", nil, "Substring for [N], in order; repeatable")
	cmd.Flags().StringArrayVar(&opts.colors, "color", nil, "Color for {N}, name or hex; repeatable")
	cmd.Flags().StringVar(&opts.contextPath, "context", "", "UI element path reported in diagnostics")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Table directory; defaults to LOC_TABLE_DIR")
	cmd.Flags().BoolVar(&opts.db, "db", false, "Load tables from PostgreSQL instead of files")

	return cmd
}

func lintCmd(cfg func() *config.Config) *cobra.Command {
	var reference string

	cmd := &cobra.Command{
		Use:   "lint <directory>",
		Short: "Check table files for invalid characters and placeholder mismatches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			ref, err := language.Parse(reference)
			if err != nil {
				return fmt.Errorf("parse --reference: %w", err)
			}
			return runLint(ctx, args[0], ref, cfg().WorkerCount, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&reference, "reference", language.English.String(), "Language the others are compared against")
	return cmd
}

func importCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "import <directory>",
		Short: "Load table files into PostgreSQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			return runImport(ctx, cfg(), args[0])
		},
	}
}

func exportCmd(cfg func() *config.Config) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export templates stored in PostgreSQL to a table file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			return runExport(ctx, cfg(), args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "tsv", "Export format: tsv or json")
	return cmd
}

func languagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeLanguages(cmd.OutOrStdout())
		},
	}
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// connect opens and pings the PostgreSQL pool.
func connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")
	return pool, nil
}

// loadTables walks dir and parses every table file in the worker pool.
// Files that fail to parse are logged and skipped.
func loadTables(ctx context.Context, dir string, workers int) (map[language.Language][]store.Entry, error) {
	w := filewalker.NewWalker()
	files, err := w.Walk(dir)
	if err != nil {
		return nil, fmt.Errorf("walk table directory: %w", err)
	}

	parsePool := worker.NewPool(workers,
		func(ctx context.Context, entry filewalker.FileEntry) (*parser.Table, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return w.ParseFile(entry)
		},
	)

	results := parsePool.Execute(ctx, files)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tables := make([]*parser.Table, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			log.Error().Err(r.Err).Str("file", r.Input.Path).Msg("Parse failed")
			continue
		}
		tables = append(tables, r.Result)
	}

	merged := parser.Merge(tables)
	log.Info().Int("files", len(files)).Int("languages", len(merged)).Msg("Loaded table files")
	return merged, nil
}

// buildStore loads every language table into a fresh store.
func buildStore(tables map[language.Language][]store.Entry) *store.Store {
	st := store.New()
	for lang, entries := range tables {
		report := st.Load(lang, entries)
		log.Debug().Str("language", lang.String()).Int("entries", report.Entries).Msg("Language table loaded")
	}
	return st
}

type resolveOptions struct {
	identifier  string
	lang        string
	substrings  []string
	colors      []string
	contextPath string
	dir         string
	db          bool
}

func runResolve(ctx context.Context, cfg *config.Config, opts resolveOptions, out io.Writer) error {
	var (
		lang language.Language
		err  error
	)
	if opts.lang != "" {
		lang, err = language.Parse(opts.lang)
		if err != nil {
			return fmt.Errorf("parse --lang: %w", err)
		}
	} else if lang, err = cfg.DisplayLanguage(); err != nil {
		return err
	}
	fallback, err := cfg.FallbackLanguage()
	if err != nil {
		return err
	}
	colors, err := parseColors(opts.colors)
	if err != nil {
		return err
	}

	var tables map[language.Language][]store.Entry
	if opts.db {
		pool, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()
		tables, err = tablestore.NewTableStore(pool).LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("load templates: %w", err)
		}
	} else {
		dir := opts.dir
		if dir == "" {
			dir = cfg.TableDir
		}
		tables, err = loadTables(ctx, dir, cfg.WorkerCount)
		if err != nil {
			return err
		}
	}

	session, err := resolve.NewSession(buildStore(tables),
		resolve.WithLanguage(lang),
		resolve.WithDefaultLanguage(fallback),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	key := store.Key(textutil.KeyOf(opts.identifier))
	res := session.ResolveCurrent(key, resolve.Request{
		Substrings:  opts.substrings,
		Colors:      colors,
		ContextPath: opts.contextPath,
	})

	log.Info().
		Str("identifier", opts.identifier).
		Uint64("key", uint64(key)).
		Str("language", res.Language.String()).
		Bool("fallback", res.Fallback).
		Bool("rtl", res.RightToLeft).
		Str("status", res.Status.String()).
		Str("text", textutil.Truncate(res.Text, 60)).
		Msg("Resolved")

	if _, err := fmt.Fprintln(out, res.Text); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func runLint(ctx context.Context, dir string, reference language.Language, workers int, out io.Writer) error {
	tables, err := loadTables(ctx, dir, workers)
	if err != nil {
		return err
	}

	linter := validate.NewLinter(tables, reference)
	if !linter.HasReference() {
		log.Warn().Str("reference", reference.String()).Msg("Reference language has no table, skipping placeholder checks")
	}

	langs := linter.Languages()
	lintPool := worker.NewPool(workers,
		func(ctx context.Context, lang language.Language) ([]validate.Problem, error) {
			return linter.Check(lang), nil
		},
	)

	total := 0
	for _, res := range lintPool.Execute(ctx, langs) {
		if res.Err != nil {
			return fmt.Errorf("lint %s: %w", res.Input, res.Err)
		}
		for _, p := range res.Result {
			if _, err := fmt.Fprintln(out, p.String()); err != nil {
				return fmt.Errorf("write lint problem: %w", err)
			}
		}
		total += len(res.Result)
	}

	log.Info().Int("languages", len(langs)).Int("problems", total).Msg("Lint complete")
	if total > 0 {
		return fmt.Errorf("%w: %d", ErrLintFailed, total)
	}
	return nil
}

func runImport(ctx context.Context, cfg *config.Config, dir string) error {
	tables, err := loadTables(ctx, dir, cfg.WorkerCount)
	if err != nil {
		return err
	}

	pool, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	ts := tablestore.NewTableStore(pool)
	if err := ts.EnsureSchema(ctx); err != nil {
		return err
	}

	total := 0
	for _, lang := range language.All() {
		entries, ok := tables[lang]
		if !ok {
			continue
		}
		n, err := ts.Upsert(ctx, lang, entries)
		if err != nil {
			return fmt.Errorf("import %s: %w", lang, err)
		}
		total += n
	}

	log.Info().Int("languages", len(tables)).Int("templates", total).Msg("Import complete")
	return nil
}

func runExport(ctx context.Context, cfg *config.Config, path, format string) error {
	pool, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	ts := tablestore.NewTableStore(pool)
	switch strings.ToLower(format) {
	case "json":
		return ts.ExportJSON(ctx, path)
	case "tsv":
		return ts.ExportTSV(ctx, path)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func writeLanguages(out io.Writer) error {
	for _, l := range language.All() {
		if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", l, l.Tag(), l.Direction()); err != nil {
			return fmt.Errorf("write languages: %w", err)
		}
	}
	return nil
}

func parseColors(values []string) ([]color.Color, error) {
	if len(values) == 0 {
		return nil, nil
	}
	colors := make([]color.Color, 0, len(values))
	for i, v := range values {
		c, err := color.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("parse --color %d: %w", i, err)
		}
		colors = append(colors, c)
	}
	return colors, nil
}
