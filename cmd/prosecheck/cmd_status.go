package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"styleguide/internal/db"
	"styleguide/internal/report"
)

type statusFlags struct {
	markersPath string
	catalog     string
	dbPath      string
	top         int
}

func newStatusCmd() *cobra.Command {
	var flags statusFlags
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Summarize the marker set in use and the scan history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := loadCatalog(flags.catalog)
			if err != nil {
				return err
			}
			path, set, err := loadMarkers(flags.markersPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := report.Status(out, path, set, cat, flags.top); err != nil {
				return err
			}

			dbPath, err := historyDB(flags.dbPath)
			if err != nil {
				return err
			}
			exists, err := dbExists(dbPath)
			if err != nil || !exists {
				return err
			}
			scans, err := db.CountRows(dbPath, "scans")
			if err != nil {
				return err
			}
			findings, err := db.CountRows(dbPath, "findings")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "\nHistory: %d scan(s), %d finding(s) in %s\n", scans, findings, dbPath)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.markersPath, "markers", "", "Marker set path")
	f.StringVar(&flags.catalog, "catalog", "", "Replacement catalog YAML")
	f.StringVar(&flags.dbPath, "db", "", "History database (default: ~/.prose-check/history.db)")
	f.IntVar(&flags.top, "top", 15, "Number of top markers to list")
	return cmd
}
