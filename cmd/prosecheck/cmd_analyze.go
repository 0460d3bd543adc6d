package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"styleguide/internal/corpus"
	"styleguide/internal/logging"
	"styleguide/internal/markers"
	"styleguide/internal/report"
)

type analyzeFlags struct {
	candidate      string
	reference      string
	candidateField string
	referenceField string
	output         string
	styleguide     string
	catalog        string
	workers        int
}

func newAnalyzeCmd() *cobra.Command {
	var flags analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Extract markers from a candidate and a reference corpus",
		Long: "Reads two JSONL corpora, keeps the patterns that are significantly more\n" +
			"frequent in the candidate corpus and writes them as a marker set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.candidate, "candidate", "", "Candidate (AI) corpus, JSONL (required)")
	f.StringVar(&flags.reference, "reference", "", "Reference (human) corpus, JSONL (required)")
	f.StringVar(&flags.candidateField, "candidate-field", "response", "JSON field holding the candidate text")
	f.StringVar(&flags.referenceField, "reference-field", "text", "JSON field holding the reference text")
	f.StringVarP(&flags.output, "output", "o", filepath.Join("results", "markers.json"), "Marker set output path")
	f.StringVar(&flags.styleguide, "styleguide", "", "Also write a markdown styleguide to this path")
	f.StringVar(&flags.catalog, "catalog", "", "Replacement catalog YAML")
	f.IntVar(&flags.workers, "workers", 0, "Scoring workers (default: number of CPUs)")

	_ = cmd.MarkFlagRequired("candidate")
	_ = cmd.MarkFlagRequired("reference")
	return cmd
}

func runAnalyze(cmd *cobra.Command, flags analyzeFlags) error {
	log := logging.New("analyze")
	cat, err := loadCatalog(flags.catalog)
	if err != nil {
		return err
	}

	cand, err := corpus.Load(flags.candidate, flags.candidateField)
	if err != nil {
		return err
	}
	ref, err := corpus.Load(flags.reference, flags.referenceField)
	if err != nil {
		return err
	}
	for _, c := range []*corpus.Corpus{cand, ref} {
		if c.Skipped > 0 || c.Malformed > 0 {
			log.Warn("corpus lines skipped", "path", c.Path, "field", c.Field, "skipped", c.Skipped, "malformed", c.Malformed)
		}
	}

	ex := markers.NewExtractor(cat, markers.WithWorkers(flags.workers), markers.WithLogger(logging.New("markers")))
	start := time.Now()
	set, err := ex.Extract(cmd.Context(), cand.Texts, ref.Texts)
	if err != nil {
		return fmt.Errorf("extract markers: %w", err)
	}
	log.Info("extraction done", "markers", len(set.Markers), "elapsed", time.Since(start).Round(time.Millisecond))

	if err := markers.Save(flags.output, set); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Candidate: %d texts (%s)\n", cand.Len(), flags.candidate)
	fmt.Fprintf(out, "Reference: %d texts (%s)\n", ref.Len(), flags.reference)
	fmt.Fprintf(out, "Markers:   %d written to %s\n", len(set.Markers), flags.output)

	if flags.styleguide != "" {
		err := writeFile(flags.styleguide, func(w io.Writer) error {
			return report.Styleguide(w, set, cat, time.Now())
		})
		if err != nil {
			return fmt.Errorf("write styleguide: %w", err)
		}
		fmt.Fprintf(out, "Styleguide: %s\n", flags.styleguide)
	}
	return nil
}
