package fetcher

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"medcompare/models"
)

// renderPoll is the interval between element-presence checks in AwaitRender.
// The deadline itself always comes from the caller's context.
const renderPoll = 250 * time.Millisecond

// browserSession wraps one exclusively-held rod tab.
type browserSession struct {
	owner  *Browser
	page   *rod.Page
	router *rod.HijackRouter
}

// Navigate loads the target URL. A Google-search Referer is attached first;
// pharmacy sites treat referred traffic more kindly than bare requests.
func (s *browserSession) Navigate(ctx context.Context, target string) error {
	if u, parseErr := url.Parse(target); parseErr == nil {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{
				"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
			},
		}.Call(s.page)
	}

	if err := s.page.Context(ctx).Navigate(target); err != nil {
		return categorize(err, models.ErrCodeNavigation, "navigation to target URL failed")
	}
	return nil
}

// AwaitRender polls for the selector until it matches or the context
// expires. Prices on these sites load via client-side JS, so presence of
// the selector is the readiness signal — not a fixed delay.
func (s *browserSession) AwaitRender(ctx context.Context, selector string) error {
	p := s.page.Context(ctx)
	for {
		has, _, err := p.Has(selector)
		if err != nil {
			return categorize(err, models.ErrCodeRenderTimeout, "waiting for price element failed")
		}
		if has {
			return nil
		}
		select {
		case <-ctx.Done():
			return categorize(ctx.Err(), models.ErrCodeRenderTimeout, "price element did not appear")
		case <-time.After(renderPoll):
		}
	}
}

// Text returns the text content of the first element matching selector.
func (s *browserSession) Text(ctx context.Context, selector string) (string, error) {
	el, err := s.page.Context(ctx).Element(selector)
	if err != nil {
		return "", categorize(err, models.ErrCodeExtraction, "price element not found")
	}
	text, err := el.Text()
	if err != nil {
		return "", categorize(err, models.ErrCodeExtraction, "failed to read price element text")
	}
	return text, nil
}

// Release parks the tab on about:blank and returns it to the pool. The
// original page reference is used (no request context) so cleanup succeeds
// even after the per-target deadline has expired.
func (s *browserSession) Release() {
	if s.router != nil {
		_ = s.router.Stop()
	}
	if err := s.page.Navigate("about:blank"); err != nil {
		slog.Warn("cleanup: failed to navigate to about:blank", "error", err)
	}
	s.owner.pagePool.Put(s.page)
	s.owner.activeSessions.Add(-1)
}
