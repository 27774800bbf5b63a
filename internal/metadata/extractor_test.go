package metadata

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePageFetcher struct {
	mu    sync.Mutex
	pages map[string]Page
	err   error
	calls []string
}

func (f *fakePageFetcher) FetchPage(_ context.Context, url string) (Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if f.err != nil {
		return Page{}, f.err
	}
	page, ok := f.pages[url]
	if !ok {
		return Page{}, errors.New("404 Not Found")
	}
	return page, nil
}

func TestExtractor_NormalizesAndResolves(t *testing.T) {
	t.Parallel()

	fetcher := &fakePageFetcher{pages: map[string]Page{
		"https://site.test/page": {
			URL:        "https://site.test/page",
			StatusCode: 200,
			Body:       []byte(`<html><head><title>Hi</title><meta property="og:image" content="/img.png"></head></html>`),
		},
	}}
	extractor := NewExtractor(fetcher, zap.NewNop())

	meta, err := extractor.Extract(context.Background(), "site.test/page")
	require.NoError(t, err)
	require.Equal(t, []string{"https://site.test/page"}, fetcher.calls)
	require.Equal(t, "Hi", *meta.Title)
	require.Equal(t, "https://site.test/img.png", *meta.OGTags.Image)
}

func TestExtractor_FetchFailureIsNetworkError(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(&fakePageFetcher{err: errors.New("dial tcp: no such host")}, nil)

	_, err := extractor.Extract(context.Background(), "https://missing.test")
	require.Error(t, err)
	require.True(t, IsNetwork(err))
	require.Contains(t, err.Error(), "no such host")
	require.Contains(t, err.Error(), "Request error: ")

	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	require.Equal(t, KindNetwork, extractErr.Kind)
	require.Equal(t, "dial tcp: no such host", extractErr.Message())
}

func TestExtractor_KeepsClassifiedFetchError(t *testing.T) {
	t.Parallel()

	classified := ParseError(errors.New("decode charset"))
	extractor := NewExtractor(&fakePageFetcher{err: classified}, nil)

	_, err := extractor.Extract(context.Background(), "https://site.test")
	require.Same(t, classified, err)
	require.True(t, IsParse(err))
}

func TestExtractor_Idempotent(t *testing.T) {
	t.Parallel()

	fetcher := &fakePageFetcher{pages: map[string]Page{
		"https://site.test/": {
			StatusCode: 200,
			Body: []byte(`<title>Same</title><meta property="og:description" content="d">` +
				`<meta itemprop="image" content="i.png"><link rel="icon" href="/f.ico">`),
		},
	}}
	extractor := NewExtractor(fetcher, nil)

	first, err := extractor.Extract(context.Background(), "https://site.test/")
	require.NoError(t, err)
	second, err := extractor.Extract(context.Background(), "https://site.test/")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, "https://site.test/i.png", *second.OGTags.Image)
	require.Equal(t, "https://site.test/f.ico", *second.Favicon)
}

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	netErr := NetworkError(errors.New("timeout"))
	require.ErrorIs(t, netErr, ErrNetwork)
	require.NotErrorIs(t, netErr, ErrParse)
	require.Equal(t, "Request error: timeout", netErr.Error())
	require.Equal(t, "network", netErr.Kind.String())

	parseErr := ParseError(errors.New("bad markup"))
	require.ErrorIs(t, parseErr, ErrParse)
	require.Equal(t, "An error occurred: bad markup", parseErr.Error())
	require.Equal(t, "parse", parseErr.Kind.String())

	require.Equal(t, "unknown", ErrorKind(0).String())
	require.False(t, IsNetwork(errors.New("plain")))
}
