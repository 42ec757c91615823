// Package search orchestrates one price comparison: fan out one extraction
// per registry target under bounded concurrency, join, aggregate.
package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"medcompare/aggregate"
	"medcompare/config"
	"medcompare/extractor"
	"medcompare/fetcher"
	"medcompare/models"
	"medcompare/registry"
)

// Searcher drives the registry through the extractor and aggregates the
// outcome. Safe for concurrent use; each call is an independent query.
type Searcher struct {
	reg     *registry.Registry
	fetcher fetcher.Fetcher
	cfg     config.SearchConfig
}

// NewSearcher creates a Searcher.
func NewSearcher(reg *registry.Registry, f fetcher.Fetcher, cfg config.SearchConfig) *Searcher {
	return &Searcher{reg: reg, fetcher: f, cfg: cfg}
}

// Search compares prices for the given medicine across all registry
// targets. It returns an error only for query-level failures (blank input);
// per-pharmacy failures surface as nil-price quotes in the result.
//
// Results always come back in registry order: each goroutine writes its
// quote into an index-addressed slot, so completion timing never reorders
// the output. Cancelling ctx cancels every in-flight extraction.
func (s *Searcher) Search(ctx context.Context, medicine string) (*models.SearchResult, error) {
	medicine = strings.TrimSpace(medicine)
	if medicine == "" {
		return nil, models.NewSearchError(
			models.ErrCodeInvalidQuery,
			"medicine name must not be empty",
			nil,
		)
	}

	if s.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.QueryTimeout)
		defer cancel()
	}

	targets := s.reg.Targets()
	quotes := make([]models.Quote, len(targets))

	start := time.Now()
	slog.Info("price comparison started",
		"medicine", medicine,
		"targets", len(targets),
		"engine", s.fetcher.Name(),
	)

	// Extraction failures are absorbed into quotes, so the group only
	// serves as a bounded-fanout join: Wait always returns nil.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency())

	for i, target := range targets {
		g.Go(func() error {
			quotes[i] = s.extractOne(gctx, target, medicine)
			return nil
		})
	}
	_ = g.Wait()

	result := aggregate.Result(strings.ToUpper(medicine), quotes)

	slog.Info("price comparison finished",
		"medicine", result.Medicine,
		"cheapest", priceOrNil(result.CheapestPrice),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

// extractOne runs a single target under its own deadline with its own
// exclusively-held session. Session acquisition failures become quotes like
// any other per-target failure.
func (s *Searcher) extractOne(ctx context.Context, target registry.Target, medicine string) models.Quote {
	tctx := ctx
	if s.cfg.TargetTimeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, s.cfg.TargetTimeout)
		defer cancel()
	}

	sess, err := s.fetcher.Acquire(tctx)
	if err != nil {
		slog.Warn("session acquire failed", "pharmacy", target.ID, "error", err)
		return models.Quote{
			Pharmacy: target.ID,
			Link:     target.URL(medicine),
			Error:    models.CodeOf(err),
		}
	}
	defer sess.Release()

	return extractor.Extract(tctx, sess, target, medicine)
}

func (s *Searcher) maxConcurrency() int {
	if s.cfg.MaxConcurrency > 0 {
		return s.cfg.MaxConcurrency
	}
	return 1
}

// priceOrNil renders an optional price for logging.
func priceOrNil(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
