// Package main provides the CLI entrypoint for wxr-parse.
//
// wxr-parse reads WordPress eXtended RSS exports and:
//   - Assembles each file into authors, posts, terms and site metadata
//   - Prints the result as JSON, YAML or a Go value dump
//   - Optionally stores the result in SQLite for a later import run
package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"wxr-importer/internal/config"
	"wxr-importer/internal/diagnostic"
	"wxr-importer/internal/logger"
	"wxr-importer/internal/store"
	"wxr-importer/internal/wxr"
	"wxr-importer/internal/wxrxml"
)

func main() {
	os.Exit(runWithArgs(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// Codes for per-file failures in the run report.
const (
	codeParseFailed = "parse_failed"
	codeStoreFailed = "store_failed"
)

// result is the outcome of parsing one file.
type result struct {
	path  string
	agg   *wxr.Aggregate
	diags diagnostic.Diagnostics
	err   error
}

func runWithArgs(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wxr-parse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to YAML configuration file")
	format := fs.String("format", "", "output format: json, yaml or dump")
	dbPath := fs.String("db", "", "SQLite database to import into")
	logMode := fs.String("log", "", "log mode: dev or prod")
	jobs := fs.Int("j", 0, "number of files parsed in parallel")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: wxr-parse [options] <export.xml>...\n\n")
		_, _ = fmt.Fprintln(stderr, "Parses WordPress eXtended RSS export files.")
		_, _ = fmt.Fprintln(stderr)
		_, _ = fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	paths := fs.Args()
	if len(paths) == 0 {
		_, _ = fmt.Fprintln(stderr, "error: at least one export file is required")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Output = *format
		case "db":
			cfg.Database.Path = *dbPath
		case "log":
			cfg.LogMode = *logMode
		case "j":
			cfg.Concurrency = *jobs
		}
	})
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: build logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	results := parseAll(ctx, log, paths, cfg.Concurrency)

	var db *sql.DB
	if cfg.Database.Path != "" {
		db, err = store.Open(store.Config{Path: cfg.Database.Path})
		if err == nil {
			err = store.Migrate(db)
		}
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		defer db.Close()
	}

	out := newRenderer(cfg.Output, stdout)
	var report diagnostic.Diagnostics
	for _, r := range results {
		report.Merge(r.diags)
		if r.err != nil {
			report.AddError(codeParseFailed, r.path+": "+describe(r.err), "", -1)
			continue
		}

		if err := out.render(r.agg); err != nil {
			_, _ = fmt.Fprintf(stderr, "%s: write output: %v\n", r.path, err)
			return 1
		}

		if db != nil {
			if err := storeResult(ctx, log, db, r); err != nil {
				report.AddError(codeStoreFailed, r.path+": "+err.Error(), "", -1)
			}
		}
	}
	if err := out.close(); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: write output: %v\n", err)
		return 1
	}

	log.Info("run finished",
		"files", len(results),
		"failed", len(report.Errors),
		"ignored", len(report.Warnings)+len(report.Infos),
	)

	if err := report.Error(); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func storeResult(ctx context.Context, log *logger.Logger, db *sql.DB, r result) error {
	id, err := store.Save(ctx, db, r.path, r.agg)
	if err != nil {
		return err
	}

	rows, err := store.Counts(ctx, db, id)
	if err != nil {
		return err
	}

	log.Info("import stored", "file", r.path, "import_id", id, "rows", rows)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

// parseAll parses every file with its own Builder. Results keep the order of paths.
func parseAll(ctx context.Context, log *logger.Logger, paths []string, limit int) []result {
	results := make([]result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = result{path: path, err: err}
				return nil
			}
			agg, diags, err := parseFile(log.With("file", path), path)
			results[i] = result{path: path, agg: agg, diags: diags, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func parseFile(log *logger.Logger, path string) (*wxr.Aggregate, diagnostic.Diagnostics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, diagnostic.Diagnostics{}, fmt.Errorf("cannot read export file: %w", err)
	}
	defer f.Close()

	b := wxr.NewBuilder(wxr.Config{Logger: log})
	agg, err := b.Build(wxrxml.NewReader(bufio.NewReader(f)))

	diags := b.Diagnostics()
	for _, d := range diags.Warnings {
		log.Warn("entity ignored", "detail", d.String())
	}

	return agg, diags, err
}

func describe(err error) string {
	var perr *wxr.ParseError
	if errors.As(err, &perr) {
		return fmt.Sprintf("%s (%s): %s", perr.Code(), perr.Kind, perr.Message)
	}
	return err.Error()
}

type renderer struct {
	format string
	w      io.Writer
	yaml   *yaml.Encoder
	dumper *spew.ConfigState
}

func newRenderer(format string, w io.Writer) *renderer {
	r := &renderer{format: format, w: w}
	switch format {
	case config.OutputYAML:
		r.yaml = yaml.NewEncoder(w)
		r.yaml.SetIndent(2)
	case config.OutputDump:
		r.dumper = &spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	}
	return r
}

func (r *renderer) render(agg *wxr.Aggregate) error {
	switch r.format {
	case config.OutputYAML:
		return r.yaml.Encode(agg)
	case config.OutputDump:
		r.dumper.Fdump(r.w, agg)
		return nil
	default:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(agg)
	}
}

func (r *renderer) close() error {
	if r.yaml != nil {
		return r.yaml.Close()
	}
	return nil
}
