package extractor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"medcompare/extractor"
	"medcompare/models"
	"medcompare/registry"
)

// fakeSession fails at a configurable stage, standing in for the fetch
// engines.
type fakeSession struct {
	navErr    error
	renderErr error
	text      string
	textErr   error

	visited string
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	s.visited = url
	return s.navErr
}

func (s *fakeSession) AwaitRender(ctx context.Context, selector string) error {
	return s.renderErr
}

func (s *fakeSession) Text(ctx context.Context, selector string) (string, error) {
	return s.text, s.textErr
}

func (s *fakeSession) Release() {}

var target = registry.Target{
	ID:          "Apollo",
	URLTemplate: "https://apollo.example/search/{query}",
	Selector:    ".price",
}

func TestExtract_Success(t *testing.T) {
	sess := &fakeSession{text: "₹1,50.00"}

	quote := extractor.Extract(context.Background(), sess, target, "dolo 650")

	require.Equal(t, "Apollo", quote.Pharmacy)
	require.Equal(t, "https://apollo.example/search/dolo+650", quote.Link)
	require.Equal(t, quote.Link, sess.visited)
	require.NotNil(t, quote.Price)
	require.Equal(t, 150, *quote.Price)
	require.Empty(t, quote.Error)
}

func TestExtract_NavigationFailure(t *testing.T) {
	sess := &fakeSession{
		navErr: models.NewSearchError(models.ErrCodeNavigation, "dns lookup failed", nil),
	}

	quote := extractor.Extract(context.Background(), sess, target, "dolo")

	require.Nil(t, quote.Price)
	require.Equal(t, models.ErrCodeNavigation, quote.Error)
	require.NotEmpty(t, quote.Link)
}

func TestExtract_RenderTimeout(t *testing.T) {
	sess := &fakeSession{
		renderErr: models.NewSearchError(models.ErrCodeRenderTimeout, "no price element", nil),
	}

	quote := extractor.Extract(context.Background(), sess, target, "dolo")

	require.Nil(t, quote.Price)
	require.Equal(t, models.ErrCodeRenderTimeout, quote.Error)
}

func TestExtract_ExtractionFailure(t *testing.T) {
	sess := &fakeSession{
		textErr: models.NewSearchError(models.ErrCodeExtraction, "element vanished", nil),
	}

	quote := extractor.Extract(context.Background(), sess, target, "dolo")

	require.Nil(t, quote.Price)
	require.Equal(t, models.ErrCodeExtraction, quote.Error)
}

func TestExtract_ParseFailure(t *testing.T) {
	sess := &fakeSession{text: "call for price"}

	quote := extractor.Extract(context.Background(), sess, target, "dolo")

	require.Nil(t, quote.Price)
	require.Equal(t, models.ErrCodeParse, quote.Error)
}

func TestExtract_UntypedErrorBecomesInternal(t *testing.T) {
	sess := &fakeSession{navErr: context.DeadlineExceeded}

	quote := extractor.Extract(context.Background(), sess, target, "dolo")

	require.Nil(t, quote.Price)
	require.Equal(t, models.ErrCodeInternal, quote.Error)
}
