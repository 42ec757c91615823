package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	tls "github.com/refraction-networking/utls"

	"medcompare/models"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxBodyBytes caps response bodies to prevent unbounded memory use.
const maxBodyBytes = 10 << 20

// HTTPFetcher is the lightweight fetch engine: plain HTTP with a Chrome TLS
// fingerprint (utls) and goquery-based selector extraction. It works for
// server-rendered pharmacy pages and is the engine of choice in tests; it
// cannot see content produced by client-side JS.
type HTTPFetcher struct {
	client         *http.Client
	maxSessions    int
	activeSessions atomic.Int32
}

// NewHTTPFetcher creates an HTTPFetcher. proxy, when non-empty, is applied
// to all requests.
func NewHTTPFetcher(proxy string, maxSessions int) *HTTPFetcher {
	transport := &http.Transport{
		DialTLSContext: dialTLSChrome,
		// utls negotiates http/1.1 only; h2 framing would mismatch.
		ForceAttemptHTTP2: false,
	}
	if proxy != "" {
		if proxyURL, err := url.Parse(proxy); err == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		maxSessions: maxSessions,
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// Acquire hands out a fresh session. Sessions carry no shared state beyond
// the HTTP client, so exclusivity is structural.
func (f *HTTPFetcher) Acquire(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, categorize(err, models.ErrCodeBrowserUnavailable, "session acquire canceled")
	}
	f.activeSessions.Add(1)
	return &httpSession{owner: f}, nil
}

// Stats returns a snapshot of session usage.
func (f *HTTPFetcher) Stats() models.PoolStats {
	return models.PoolStats{
		MaxSessions:    f.maxSessions,
		ActiveSessions: int(f.activeSessions.Load()),
	}
}

// Close releases idle connections.
func (f *HTTPFetcher) Close() {
	f.client.CloseIdleConnections()
}

// httpSession fetches one page per Navigate and answers selector queries
// against the parsed document.
type httpSession struct {
	owner *HTTPFetcher
	doc   *goquery.Document
}

func (s *httpSession) Navigate(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return categorize(err, models.ErrCodeNavigation, "build request failed")
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := s.owner.client.Do(req)
	if err != nil {
		return categorize(err, models.ErrCodeNavigation, "navigation to target URL failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return models.NewSearchError(
			models.ErrCodeNavigation,
			fmt.Sprintf("HTTP %d for %s", resp.StatusCode, target),
			nil,
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return categorize(err, models.ErrCodeNavigation, "read body failed")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return categorize(err, models.ErrCodeNavigation, "parse HTML failed")
	}
	s.doc = doc
	return nil
}

// AwaitRender checks selector presence once: a static document is fully
// rendered on arrival, so there is nothing to wait for. Absence means the
// page needs the browser engine (or the selector rotted).
func (s *httpSession) AwaitRender(ctx context.Context, selector string) error {
	if s.doc == nil {
		return models.NewSearchError(models.ErrCodeRenderTimeout, "await render before navigate", nil)
	}
	if s.doc.Find(selector).Length() == 0 {
		return models.NewSearchError(models.ErrCodeRenderTimeout, "price element not present in static HTML", nil)
	}
	return nil
}

func (s *httpSession) Text(ctx context.Context, selector string) (string, error) {
	if s.doc == nil {
		return "", models.NewSearchError(models.ErrCodeExtraction, "extract before navigate", nil)
	}
	sel := s.doc.Find(selector)
	if sel.Length() == 0 {
		return "", models.NewSearchError(models.ErrCodeExtraction, "price element not found", nil)
	}
	return strings.TrimSpace(sel.First().Text()), nil
}

func (s *httpSession) Release() {
	s.doc = nil
	s.owner.activeSessions.Add(-1)
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to
// http/1.1 only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// Strip h2 from the ALPN extension so the server never negotiates
	// HTTP/2, which Go's http.Transport cannot handle over a utls conn.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// dialTLSChrome establishes a TLS connection using a Chrome fingerprint via
// utls, so the price pages see browser-shaped traffic even on the HTTP path.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls.UClient(rawConn, &tls.Config{ServerName: host}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
		rawConn.Close()
		return nil, fmt.Errorf("httpfetch: apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}
