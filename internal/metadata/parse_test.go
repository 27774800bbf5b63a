package metadata

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, base, html string) PageMetadata {
	t.Helper()
	u, err := url.Parse(base)
	require.NoError(t, err)
	meta, err := Parse(u, strings.NewReader(html))
	require.NoError(t, err)
	return meta
}

func TestParse_TitleAndRelativeOGImage(t *testing.T) {
	t.Parallel()

	meta := parseHTML(t, "https://site.test/page",
		`<html><head><title>Hi</title><meta property="og:image" content="/img.png"></head></html>`)

	require.NotNil(t, meta.Title)
	require.Equal(t, "Hi", *meta.Title)
	require.NotNil(t, meta.OGTags.Image)
	require.Equal(t, "https://site.test/img.png", *meta.OGTags.Image)
	require.Nil(t, meta.OGTags.Title)
	require.Nil(t, meta.OGTags.Description)
	require.Nil(t, meta.OGTags.URL)
	require.Nil(t, meta.Favicon)
}

func TestParse_AllOGTags(t *testing.T) {
	t.Parallel()

	meta := parseHTML(t, "https://site.test/a/b", `<head>
		<meta property="og:title" content="OG Title">
		<meta property="og:description" content="A description">
		<meta property="og:image" content="https://cdn.test/x.jpg">
		<meta property="og:url" content="https://site.test/canonical">
		<meta property="og:title" content="Second title">
	</head>`)

	require.Equal(t, "OG Title", *meta.OGTags.Title)
	require.Equal(t, "A description", *meta.OGTags.Description)
	require.Equal(t, "https://cdn.test/x.jpg", *meta.OGTags.Image)
	require.Equal(t, "https://site.test/canonical", *meta.OGTags.URL)
}

func TestParse_ItempropImageFallback(t *testing.T) {
	t.Parallel()

	meta := parseHTML(t, "https://site.test/dir/page",
		`<html><head><meta itemprop="image" content="pic.jpg"></head></html>`)

	require.NotNil(t, meta.OGTags.Image)
	require.Equal(t, "https://site.test/dir/pic.jpg", *meta.OGTags.Image)
}

func TestParse_OGImageBeatsItemprop(t *testing.T) {
	t.Parallel()

	meta := parseHTML(t, "https://site.test/page", `<head>
		<meta itemprop="image" content="/itemprop.jpg">
		<meta property="og:image" content="/og.jpg">
	</head>`)

	require.Equal(t, "https://site.test/og.jpg", *meta.OGTags.Image)
}

func TestParse_BlankOGImageFallsBackToItemprop(t *testing.T) {
	t.Parallel()

	meta := parseHTML(t, "https://site.test/page", `<head>
		<meta property="og:image" content="  ">
		<meta itemprop="image" content="/itemprop.jpg">
	</head>`)

	require.Equal(t, "https://site.test/itemprop.jpg", *meta.OGTags.Image)
}

func TestParse_NoImageAnywhere(t *testing.T) {
	t.Parallel()

	meta := parseHTML(t, "https://site.test/page", `<head><title>x</title></head>`)
	require.Nil(t, meta.OGTags.Image)
}

func TestParse_Favicon(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "shortcut icon",
			html: `<link rel="shortcut icon" href="/f.ico">`,
			want: "https://site.test/f.ico",
		},
		{
			name: "upper case rel",
			html: `<link rel="ICON" href="f.ico">`,
			want: "https://site.test/blog/f.ico",
		},
		{
			name: "first match wins",
			html: `<link rel="stylesheet" href="/s.css"><link rel="apple-touch-icon" href="/touch.png"><link rel="icon" href="/f.ico">`,
			want: "https://site.test/touch.png",
		},
		{
			name: "absolute href",
			html: `<link rel="icon" href="https://static.test/f.png">`,
			want: "https://static.test/f.png",
		},
		{
			name: "protocol relative href",
			html: `<link rel="icon" href="//static.test/f.png">`,
			want: "https://static.test/f.png",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			meta := parseHTML(t, "https://site.test/blog/post", "<head>"+tc.html+"</head>")
			require.NotNil(t, meta.Favicon)
			require.Equal(t, tc.want, *meta.Favicon)
		})
	}
}

func TestParse_FaviconWithoutHref(t *testing.T) {
	t.Parallel()

	meta := parseHTML(t, "https://site.test/", `<link rel="icon"><link rel="icon" href="/late.ico">`)
	require.Nil(t, meta.Favicon)
}

func TestParse_MissingTitleIsAbsent(t *testing.T) {
	t.Parallel()

	missing := parseHTML(t, "https://site.test/", `<html><head></head><body>hello</body></html>`)
	require.Nil(t, missing.Title)

	empty := parseHTML(t, "https://site.test/", `<html><head><title></title></head></html>`)
	require.NotNil(t, empty.Title)
	require.Equal(t, "", *empty.Title)
}

func TestParse_MetaWithoutContentIsAbsent(t *testing.T) {
	t.Parallel()

	meta := parseHTML(t, "https://site.test/", `<meta property="og:title"><meta property="og:title" content="later">`)
	require.Nil(t, meta.OGTags.Title)
}

func TestParse_PropertyMatchIsExact(t *testing.T) {
	t.Parallel()

	meta := parseHTML(t, "https://site.test/", `<meta property="OG:TITLE" content="upper"><meta property="og:image:width" content="600">`)
	require.Nil(t, meta.OGTags.Title)
	require.Nil(t, meta.OGTags.Image)
}

func TestParse_MalformedMarkup(t *testing.T) {
	t.Parallel()

	meta := parseHTML(t, "https://site.test/x", `<html><head><title>Broken<meta property="og:title" content="still">
		<div><p><span>unclosed <link rel=icon href=/i.png>`)

	require.NotNil(t, meta.Title)
	require.Contains(t, *meta.Title, "Broken")
}

func TestParse_MalformedMarkupInBody(t *testing.T) {
	t.Parallel()

	meta := parseHTML(t, "https://site.test/x", `<title>T</title><table><tr><td><meta property="og:title" content="inside"></b></i><link rel=icon href=/i.png>`)

	require.Equal(t, "T", *meta.Title)
	require.Equal(t, "inside", *meta.OGTags.Title)
	require.Equal(t, "https://site.test/i.png", *meta.Favicon)
}

func TestParse_StrayPercentInReferences(t *testing.T) {
	t.Parallel()

	meta := parseHTML(t, "https://shop.test/sale", `<head>
		<title>Ok</title>
		<meta property="og:image" content="/banners/50%off.png">
		<link rel="icon" href="/icons/100%.ico">
	</head>`)

	require.Equal(t, "Ok", *meta.Title)
	require.Equal(t, "https://shop.test/banners/50%off.png", *meta.OGTags.Image)
	require.Equal(t, "https://shop.test/icons/100%.ico", *meta.Favicon)
}

func TestParse_StrayPercentInItempropFallback(t *testing.T) {
	t.Parallel()

	meta := parseHTML(t, "https://shop.test/", `<meta itemprop="image" content="img/5%.jpg">`)

	require.Equal(t, "https://shop.test/img/5%.jpg", *meta.OGTags.Image)
}

func TestParse_UnparsableReferenceIsParseError(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("https://site.test/")
	require.NoError(t, err)
	_, err = Parse(u, strings.NewReader(`<meta property="og:image" content="http://[::1">`))
	require.Error(t, err)
	require.True(t, IsParse(err))
	require.False(t, IsNetwork(err))
}
