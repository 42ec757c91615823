package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"medcompare/extractor"
	"medcompare/fetcher"
	"medcompare/models"
	"medcompare/registry"
)

const searchPage = `<!DOCTYPE html>
<html><body>
<div class="listing">
  <span class="name">Dolo 650 Tablet</span>
  <div class="ourPrice">MRP ₹1,234.00</div>
</div>
</body></html>`

func TestHTTPFetcher_ExtractsSelectorText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	f := fetcher.NewHTTPFetcher("", 2)
	defer f.Close()

	sess, err := f.Acquire(context.Background())
	require.NoError(t, err)
	defer sess.Release()

	require.NoError(t, sess.Navigate(context.Background(), srv.URL))
	require.NoError(t, sess.AwaitRender(context.Background(), "div.ourPrice"))

	text, err := sess.Text(context.Background(), "div.ourPrice")
	require.NoError(t, err)
	require.Equal(t, "MRP ₹1,234.00", text)
}

func TestHTTPFetcher_MissingSelectorIsRenderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>no prices here</p></body></html>`))
	}))
	defer srv.Close()

	f := fetcher.NewHTTPFetcher("", 2)
	defer f.Close()

	sess, err := f.Acquire(context.Background())
	require.NoError(t, err)
	defer sess.Release()

	require.NoError(t, sess.Navigate(context.Background(), srv.URL))

	err = sess.AwaitRender(context.Background(), "div.ourPrice")
	require.Error(t, err)
	require.Equal(t, models.ErrCodeRenderTimeout, models.CodeOf(err))
}

func TestHTTPFetcher_ErrorStatusIsNavigationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := fetcher.NewHTTPFetcher("", 2)
	defer f.Close()

	sess, err := f.Acquire(context.Background())
	require.NoError(t, err)
	defer sess.Release()

	err = sess.Navigate(context.Background(), srv.URL)
	require.Error(t, err)
	require.Equal(t, models.ErrCodeNavigation, models.CodeOf(err))
}

func TestHTTPFetcher_SessionAccounting(t *testing.T) {
	f := fetcher.NewHTTPFetcher("", 4)
	defer f.Close()

	s1, err := f.Acquire(context.Background())
	require.NoError(t, err)
	s2, err := f.Acquire(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, f.Stats().ActiveSessions)
	require.Equal(t, 4, f.Stats().MaxSessions)

	s1.Release()
	s2.Release()
	require.Zero(t, f.Stats().ActiveSessions)
}

func TestHTTPFetcher_EndToEndExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "dolo 650", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	target := registry.Target{
		ID:          "TestChem",
		URLTemplate: srv.URL + "/products?q={query}",
		Selector:    "div.ourPrice",
	}

	f := fetcher.NewHTTPFetcher("", 1)
	defer f.Close()

	sess, err := f.Acquire(context.Background())
	require.NoError(t, err)
	defer sess.Release()

	quote := extractor.Extract(context.Background(), sess, target, "dolo 650")

	require.Equal(t, "TestChem", quote.Pharmacy)
	require.NotNil(t, quote.Price)
	require.Equal(t, 1234, *quote.Price)
	require.Empty(t, quote.Error)
}
