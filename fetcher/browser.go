package fetcher

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"medcompare/config"
	"medcompare/models"
)

// Browser is the rod-backed fetch engine. It owns one headless Chrome
// process and a pool of tabs; each extraction checks out a tab exclusively
// and returns it when done. Safe for concurrent use.
type Browser struct {
	browser        *rod.Browser
	pagePool       rod.Pool[rod.Page]
	cfg            config.BrowserConfig
	activeSessions atomic.Int32
}

// NewBrowser launches a headless browser and initialises the tab pool.
// A launch or connect failure is query-level infrastructure unavailability.
func NewBrowser(cfg config.BrowserConfig) (*Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewSearchError(
			models.ErrCodeBrowserUnavailable,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewSearchError(
			models.ErrCodeBrowserUnavailable,
			"failed to connect to browser",
			err,
		)
	}

	pool := rod.NewPagePool(cfg.MaxSessions)
	slog.Info("tab pool created", "maxSessions", cfg.MaxSessions)

	return &Browser{
		browser:  browser,
		pagePool: pool,
		cfg:      cfg,
	}, nil
}

func (b *Browser) Name() string { return "browser" }

// Acquire checks a tab out of the pool and prepares it for one extraction:
// stealth JS and the resource blocker are installed here, before any
// navigation, because neither takes effect for loads that started earlier.
func (b *Browser) Acquire(ctx context.Context) (Session, error) {
	page, err := b.pagePool.Get(func() (*rod.Page, error) {
		return b.browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		return nil, categorize(err, models.ErrCodeBrowserUnavailable, "failed to acquire tab from pool")
	}
	b.activeSessions.Add(1)

	if b.cfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
	}

	router := mountResourceBlocker(page, b.cfg.BlockedResourceTypes)

	return &browserSession{owner: b, page: page, router: router}, nil
}

// Stats returns a snapshot of the pool's current state.
func (b *Browser) Stats() models.PoolStats {
	return models.PoolStats{
		MaxSessions:    b.cfg.MaxSessions,
		ActiveSessions: int(b.activeSessions.Load()),
	}
}

// Close drains the tab pool and kills the browser process.
// Call this on graceful shutdown to prevent zombie Chrome processes.
func (b *Browser) Close() {
	slog.Info("browser shutting down: draining tab pool")
	b.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	b.browser.MustClose()
	slog.Info("browser shutdown complete")
}
