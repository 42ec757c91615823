// Package extractor turns one pharmacy target into one quote. It is the
// bulkhead of the comparison: every failure along the navigate → render →
// extract → normalize chain is converted into data on the quote, so a
// broken vendor can never take down its siblings.
package extractor

import (
	"context"
	"log/slog"

	"medcompare/fetcher"
	"medcompare/models"
	"medcompare/normalize"
	"medcompare/registry"
)

// Extract queries one pharmacy for the given medicine and always returns a
// quote. On any failure the quote carries a nil price and the failure kind;
// no error ever propagates to the caller.
func Extract(ctx context.Context, sess fetcher.Session, target registry.Target, medicine string) models.Quote {
	link := target.URL(medicine)
	quote := models.Quote{Pharmacy: target.ID, Link: link}

	if err := sess.Navigate(ctx, link); err != nil {
		return failed(quote, target.ID, err)
	}

	if err := sess.AwaitRender(ctx, target.Selector); err != nil {
		return failed(quote, target.ID, err)
	}

	raw, err := sess.Text(ctx, target.Selector)
	if err != nil {
		return failed(quote, target.ID, err)
	}

	price, ok := normalize.Price(raw)
	if !ok {
		slog.Debug("price text not parseable", "pharmacy", target.ID, "raw", raw)
		quote.Error = models.ErrCodeParse
		return quote
	}

	quote.Price = &price
	return quote
}

// failed records the error kind on the quote and logs the cause. The cause
// stays visible in logs; only the kind travels in the result.
func failed(quote models.Quote, pharmacy string, err error) models.Quote {
	quote.Error = models.CodeOf(err)
	slog.Warn("pharmacy extraction failed",
		"pharmacy", pharmacy,
		"kind", quote.Error,
		"error", err,
	)
	return quote
}
