// Package pipeline runs batches of listings through annotation, persistence
// and notification.
package pipeline

import (
	"context"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/poi-cli/internal/annotate"
	"github.com/sells-group/poi-cli/internal/geo"
	"github.com/sells-group/poi-cli/internal/listing"
	"github.com/sells-group/poi-cli/internal/store"
)

// Annotator produces a record for one location.
type Annotator interface {
	Annotate(ctx context.Context, c geo.Coordinate, location string) *annotate.Record
}

// Notifier publishes an annotated listing.
type Notifier interface {
	Enabled() bool
	Notify(ctx context.Context, l listing.Listing, rec *annotate.Record) error
}

// Status is the outcome of one listing in a batch.
type Status string

const (
	StatusAnnotated Status = "annotated"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Result is the per-listing outcome of a run.
type Result struct {
	Listing listing.Listing  `json:"listing"`
	Record  *annotate.Record `json:"record,omitempty"`
	Status  Status           `json:"status"`
	Reason  string           `json:"reason,omitempty"`
}

// Summary aggregates a run. Results are in input order.
type Summary struct {
	Total     int      `json:"total"`
	Annotated int      `json:"annotated"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Results   []Result `json:"results"`
}

// Options tune a Runner.
type Options struct {
	Concurrency int
	// DryRun annotates without saving or posting.
	DryRun bool
}

// Runner processes listings. The store and notifier are optional.
type Runner struct {
	annotator Annotator
	store     store.Store
	notifier  Notifier
	opts      Options
}

// NewRunner creates a Runner.
func NewRunner(a Annotator, st store.Store, n Notifier, opts Options) *Runner {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Runner{annotator: a, store: st, notifier: n, opts: opts}
}

// Run processes every listing: already-seen, un-geotagged and repeated
// listings are skipped, the rest are annotated, saved and posted. Individual failures are
// counted and logged without aborting the batch; only context cancellation
// stops it early.
func (r *Runner) Run(ctx context.Context, listings []listing.Listing) (*Summary, error) {
	summary := &Summary{
		Total:   len(listings),
		Results: make([]Result, len(listings)),
	}
	if len(listings) == 0 {
		zap.L().Info("pipeline: no listings to process")
		return summary, nil
	}

	zap.L().Info("pipeline: processing batch",
		zap.Int("listings", len(listings)),
		zap.Int("concurrency", r.opts.Concurrency),
		zap.Bool("dry_run", r.opts.DryRun),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	var annotated, skipped, failed atomic.Int64

	queued := make(map[string]bool, len(listings))
	for i, l := range listings {
		if queued[l.ID] {
			summary.Results[i] = Result{Listing: l, Status: StatusSkipped, Reason: "duplicate in batch"}
			skipped.Add(1)
			continue
		}
		queued[l.ID] = true

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res := r.process(gctx, l)
			summary.Results[i] = res

			switch res.Status {
			case StatusAnnotated:
				annotated.Add(1)
			case StatusSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: run")
	}

	summary.Annotated = int(annotated.Load())
	summary.Skipped = int(skipped.Load())
	summary.Failed = int(failed.Load())

	zap.L().Info("pipeline: batch complete",
		zap.Int("annotated", summary.Annotated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (r *Runner) process(ctx context.Context, l listing.Listing) Result {
	log := zap.L().With(zap.String("listing_id", l.ID), zap.String("url", l.URL))
	res := Result{Listing: l}

	if !l.HasGeotag() {
		res.Status, res.Reason = StatusSkipped, "no geotag"
		return res
	}

	if r.store != nil {
		seen, err := r.store.Seen(ctx, l.ID)
		if err != nil {
			log.Error("pipeline: seen check failed", zap.Error(err))
			res.Status, res.Reason = StatusFailed, err.Error()
			return res
		}
		if seen {
			res.Status, res.Reason = StatusSkipped, "already seen"
			return res
		}
	}

	res.Record = r.annotator.Annotate(ctx, *l.Geotag, l.Where)

	if r.opts.DryRun {
		res.Status = StatusAnnotated
		return res
	}

	if r.store != nil {
		if _, err := r.store.Save(ctx, l, res.Record); err != nil {
			log.Error("pipeline: save failed", zap.Error(err))
			res.Status, res.Reason = StatusFailed, err.Error()
			return res
		}
	}

	if r.notifier != nil && r.notifier.Enabled() {
		if err := r.notifier.Notify(ctx, l, res.Record); err != nil {
			log.Error("pipeline: notify failed", zap.Error(err))
			res.Status, res.Reason = StatusFailed, err.Error()
			return res
		}
		if r.store != nil {
			if err := r.store.MarkPosted(ctx, l.ID); err != nil {
				log.Warn("pipeline: mark posted failed", zap.Error(err))
			}
		}
	}

	log.Info("pipeline: listing annotated",
		zap.Bool("area_found", res.Record.AreaFound),
		zap.String("area", res.Record.Area),
	)
	res.Status = StatusAnnotated
	return res
}
