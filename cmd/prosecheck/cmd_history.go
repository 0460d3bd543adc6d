package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"styleguide/internal/db"
	"styleguide/internal/report"
	"styleguide/internal/workspace"
)

type historyFlags struct {
	dbPath string
	source string
	id     string
	limit  int
}

func newHistoryCmd() *cobra.Command {
	var flags historyFlags
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scans, newest first",
		Long: "Lists recorded scans. --id shows the findings stored for one scan;\n" +
			"--source also shows the report archived by check --save.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.dbPath, "db", "", "History database (default: ~/.prose-check/history.db)")
	f.StringVar(&flags.source, "source", "", "Only show scans of this document")
	f.StringVar(&flags.id, "id", "", "Show the findings of this scan")
	f.IntVar(&flags.limit, "limit", 20, "Maximum rows (0 for all)")
	return cmd
}

func historyDB(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	return workspace.DefaultDBPath()
}

// dbExists reports whether the history database at path has been created.
func dbExists(path string) (bool, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return true, nil
}

func runHistory(cmd *cobra.Command, flags historyFlags) error {
	out := cmd.OutOrStdout()
	now := time.Now()
	path, err := historyDB(flags.dbPath)
	if err != nil {
		return err
	}
	exists, err := dbExists(path)
	if err != nil {
		return err
	}

	if flags.id != "" {
		if !exists {
			return fmt.Errorf("no history database at %s", path)
		}
		rows, err := db.ScanFindings(path, flags.id)
		if err != nil {
			return err
		}
		return report.ScanDetail(out, flags.id, rows)
	}

	var scans []db.Scan
	if exists {
		scans, err = db.ListScans(path, flags.source, flags.limit)
		if err != nil {
			return err
		}
	}
	if err := report.History(out, scans, now); err != nil {
		return err
	}
	if flags.source == "" {
		return nil
	}
	return showArchive(out, flags.source, now)
}

func showArchive(w io.Writer, source string, now time.Time) error {
	root, err := workspace.DefaultRoot()
	if err != nil {
		return err
	}
	path := workspace.ArchivePath(root, source)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	a, err := workspace.LoadArchive(path)
	if err != nil {
		return err
	}
	return report.Archived(w, path, a, now)
}
