package scan

import (
	"context"
	"errors"
	"log/slog"

	"styleguide/internal/pipeline"
)

// Document is one input to Batch. Load is called on a worker so that
// reading and converting files runs in parallel with scanning.
type Document struct {
	Name string
	Load func() (string, error)
}

// Text wraps an in-memory document.
func Text(name, text string) Document {
	return Document{Name: name, Load: func() (string, error) { return text, nil }}
}

type Result struct {
	Name     string
	Findings *Findings
	Score    int
	Err      error
}

// Batch scans docs on a worker pool and returns one result per
// document in input order. A document that fails to load carries its
// error in Result.Err and the rest of the batch continues. Only
// cancellation of ctx is returned as an error.
func Batch(ctx context.Context, s *Scanner, docs []Document, workers int) ([]Result, error) {
	results := make([]Result, len(docs))
	for i, d := range docs {
		results[i].Name = d.Name
	}

	errs := pipeline.Run(ctx, docs, workers, func(ctx context.Context, job pipeline.Job[Document]) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := &results[job.Index]
		if job.Item.Load == nil {
			res.Err = errors.New("document has no loader")
			return nil
		}
		text, err := job.Item.Load()
		if err != nil {
			s.log.Warn("skipping document", slog.String("name", job.Item.Name), slog.Any("error", err))
			res.Err = err
			return nil
		}
		res.Findings = s.Scan(text)
		res.Score = Score(res.Findings)
		return nil
	})
	for _, err := range errs {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return results, err
		}
	}
	return results, nil
}
