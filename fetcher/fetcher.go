// Package fetcher provides the page-fetching engines the price comparison
// core consumes. The core only ever sees the narrow Fetcher/Session pair;
// whether a page is rendered by headless Chrome or fetched over plain HTTP
// is an engine concern.
package fetcher

import (
	"context"
	"errors"
	"fmt"

	"medcompare/config"
	"medcompare/models"
)

// Fetcher hands out sessions against a shared engine. Implementations must
// guarantee that a session is used by at most one extraction at a time.
type Fetcher interface {
	// Name returns the engine identifier ("browser" or "http").
	Name() string

	// Acquire checks out a session. The caller must call Release on every
	// exit path, including cancellation.
	Acquire(ctx context.Context) (Session, error)

	// Stats returns a snapshot of the session pool's state.
	Stats() models.PoolStats

	// Close releases all engine resources.
	Close()
}

// Session is one exclusive unit of page access.
type Session interface {
	// Navigate loads the given URL.
	Navigate(ctx context.Context, url string) error

	// AwaitRender waits until content matching selector is present, polling
	// until the context deadline expires. It never sleeps unconditionally.
	AwaitRender(ctx context.Context, selector string) error

	// Text returns the raw text of the first element matching selector.
	Text(ctx context.Context, selector string) (string, error)

	// Release returns the session to its pool. Safe to call exactly once.
	Release()
}

// New builds the fetch engine selected by cfg.Search.Engine.
func New(cfg *config.Config) (Fetcher, error) {
	switch cfg.Search.Engine {
	case "browser":
		return NewBrowser(cfg.Browser)
	case "http":
		return NewHTTPFetcher(cfg.Browser.Proxy, cfg.Browser.MaxSessions), nil
	default:
		return nil, models.NewSearchError(
			models.ErrCodeBrowserUnavailable,
			fmt.Sprintf("unknown fetch engine %q", cfg.Search.Engine),
			nil,
		)
	}
}

// categorize wraps raw engine errors into typed SearchErrors so the
// extractor can record the failure kind on the quote. Context expiry always
// wins over the step-specific code: a deadline hit mid-navigation is a
// target timeout, not a navigation failure.
func categorize(err error, code, msg string) *models.SearchError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewSearchError(models.ErrCodeTargetTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewSearchError(models.ErrCodeTargetTimeout, "target canceled", err)
	default:
		return models.NewSearchError(code, msg, err)
	}
}
