package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"styleguide/internal/config"
	"styleguide/internal/db"
	"styleguide/internal/ingest"
	"styleguide/internal/logging"
	"styleguide/internal/report"
	"styleguide/internal/scan"
	"styleguide/internal/workspace"
)

// errChecksFailed marks a run where a document scored below min_score or
// could not be read. The report has already been printed.
var errChecksFailed = errors.New("one or more documents failed the check")

const stdinName = "<stdin>"

type checkFlags struct {
	stdin       bool
	format      string
	verbose     bool
	noTechnical bool
	noColor     bool
	minScore    int
	workers     int
	configPath  string
	markersPath string
	dbPath      string
	save        bool
	watch       bool
}

func newCheckCmd() *cobra.Command {
	var flags checkFlags
	cmd := &cobra.Command{
		Use:   "check [files or directories...]",
		Short: "Score documents against the marker set",
		Long: "Scans each document for markers and structural patterns, prints a report\n" +
			"and exits with status 1 when any document scores below min_score.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&flags.stdin, "stdin", false, "Read the document from standard input")
	f.StringVarP(&flags.format, "format", "f", string(report.FormatText), "Output format (text, json, markdown, html)")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Show context, medium findings and categories")
	f.BoolVar(&flags.noTechnical, "no-technical", false, "Do not exclude technical vocabulary")
	f.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	f.IntVar(&flags.minScore, "min-score", config.DefaultMinScore, "Minimum passing score")
	f.IntVar(&flags.workers, "workers", 0, "Concurrent documents (default: number of CPUs)")
	f.StringVar(&flags.configPath, "config", "", "Config file (default: .prose-check.yaml in the working directory, then ~/.prose-check/config.yaml)")
	f.StringVar(&flags.markersPath, "markers", "", "Marker set path")
	f.StringVar(&flags.dbPath, "db", "", "Record scans in this history database (default with --save: ~/.prose-check/history.db)")
	f.BoolVar(&flags.save, "save", false, "Archive each report in the workspace and record it in the history")
	f.BoolVar(&flags.watch, "watch", false, "Re-check files when they change")
	return cmd
}

type checker struct {
	scanner *scan.Scanner
	cfg     *config.Config
	format  report.Format
	opts    report.Options
	dbPath  string
	save    bool
	out     io.Writer
	errOut  io.Writer
	log     *slog.Logger
}

func runCheck(cmd *cobra.Command, args []string, flags checkFlags) error {
	if len(args) == 0 && !flags.stdin {
		return errors.New("no input: pass files or --stdin")
	}
	if flags.watch && flags.stdin {
		return errors.New("--watch needs file arguments, not --stdin")
	}

	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	pf := cmd.Flags()
	if pf.Changed("min-score") {
		cfg.MinScore = flags.minScore
	}
	if pf.Changed("workers") {
		cfg.Workers = flags.workers
	}
	if flags.noTechnical {
		cfg.Technical = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := report.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}
	_, set, err := loadMarkers(flags.markersPath)
	if err != nil {
		return err
	}
	scanner, err := scan.NewScanner(set, cat, scan.Options{
		Technical: cfg.Technical,
		Verbose:   flags.verbose,
		Logger:    logging.New("scan"),
	})
	if err != nil {
		return err
	}

	dbPath := flags.dbPath
	if dbPath == "" && flags.save {
		if dbPath, err = workspace.DefaultDBPath(); err != nil {
			return err
		}
	}

	c := &checker{
		scanner: scanner,
		cfg:     cfg,
		format:  format,
		opts: report.Options{
			Verbose:   flags.verbose,
			Technical: cfg.Technical,
			Color:     format == report.FormatText && !flags.noColor && isTerminal(cmd.OutOrStdout()),
			MinScore:  cfg.MinScore,
			Catalog:   cat,
		},
		dbPath: dbPath,
		save:   flags.save,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		log:    logging.New("check"),
	}

	var docs []scan.Document
	if flags.stdin {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		docs = append(docs, scan.Text(stdinName, string(raw)))
	}
	fileDocs, err := collectDocuments(args, cfg)
	if err != nil {
		return err
	}
	docs = append(docs, fileDocs...)
	if len(docs) == 0 {
		return errors.New("no documents to check after applying exclude patterns")
	}

	ctx := cmd.Context()
	if flags.watch {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	failed, err := c.run(ctx, docs)
	if err != nil {
		return err
	}
	if flags.watch {
		fmt.Fprintf(c.errOut, "Watching %d path(s) for changes. Press Ctrl-C to stop.\n", len(args))
		return watch(ctx, args, 300*time.Millisecond, func(paths []string) {
			var changed []scan.Document
			for _, p := range paths {
				if !cfg.ShouldExclude(p) {
					changed = append(changed, fileDocument(p))
				}
			}
			if len(changed) == 0 {
				return
			}
			if _, err := c.run(ctx, changed); err != nil && ctx.Err() == nil {
				c.log.Error("re-check failed", "error", err)
			}
		}, c.log)
	}
	if failed {
		return errChecksFailed
	}
	return nil
}

// run scans docs, applies the ignore list, records the results and
// prints the report. It reports whether any document failed.
func (c *checker) run(ctx context.Context, docs []scan.Document) (bool, error) {
	results, err := scan.Batch(ctx, c.scanner, docs, c.cfg.Workers)
	if err != nil {
		return false, err
	}

	failed := false
	now := time.Now()
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			fmt.Fprintf(c.errOut, "%s: %v\n", r.Name, r.Err)
			failed = true
			continue
		}
		r.Findings.Ignore(c.cfg.IgnorePatterns)
		r.Score = scan.Score(r.Findings)
		if r.Score < c.cfg.MinScore {
			failed = true
		}
		if err := c.record(*r, now); err != nil {
			return failed, err
		}
	}

	if err := report.Write(c.out, c.format, results, c.opts); err != nil {
		return failed, fmt.Errorf("write report: %w", err)
	}
	return failed, nil
}

func (c *checker) record(r scan.Result, now time.Time) error {
	if c.dbPath != "" {
		id, err := db.PersistScan(c.dbPath, r.Name, r.Findings, c.cfg.Technical, now)
		if err != nil {
			return fmt.Errorf("record scan: %w", err)
		}
		c.log.Debug("scan recorded", "id", id, "source", r.Name)
	}
	if c.save && r.Name != stdinName {
		root, err := workspace.EnsureDefault()
		if err != nil {
			return err
		}
		info, err := workspace.SaveArchive(root, workspace.Archive{
			Source:    r.Name,
			Score:     r.Score,
			Grade:     scan.Grade(r.Score),
			CheckedAt: now,
			Report:    r.Findings,
		})
		if err != nil {
			return err
		}
		c.log.Debug("report archived", "path", info.ReportPath)
	}
	return nil
}

func fileDocument(path string) scan.Document {
	return scan.Document{
		Name: path,
		Load: func() (string, error) {
			p, err := ingest.ParseFile(path)
			if err != nil {
				return "", err
			}
			return p.Text, nil
		},
	}
}

// collectDocuments expands directories into the supported files below
// them and drops excluded paths. Explicit file arguments are kept even
// when their type is unsupported so the error is reported.
func collectDocuments(args []string, cfg *config.Config) ([]scan.Document, error) {
	var docs []scan.Document
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			if !cfg.ShouldExclude(arg) {
				docs = append(docs, fileDocument(arg))
			}
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && cfg.ShouldExclude(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if ingest.Supported(path) && !cfg.ShouldExclude(path) {
				docs = append(docs, fileDocument(path))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	return docs, nil
}
