package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"research-agent/internal/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<!DOCTYPE html>
<html>
<head><title> Grid Storage  Explained </title><style>.x{}</style></head>
<body>
  <nav><a href="/">Home</a> <a href="/about">About</a></nav>
  <div class="cookie-banner">We use cookies. Accept all cookies</div>
  <article>
    <h1>How grid storage works</h1>
    <!-- tracking comment -->
    <p>Batteries store surplus renewable energy for later use.</p>
    <script>track()</script>
    <div class="share-buttons">Share on X</div>
    <p>Pumped hydro remains the largest form of storage.</p>
    <p>Privacy Policy</p>
  </article>
  <footer>Copyright 2024. All rights reserved.</footer>
</body>
</html>`

func TestExtractText_PrefersArticleAndDropsChrome(t *testing.T) {
	title, text, err := ExtractText(articlePage, nil)
	require.NoError(t, err)

	assert.Equal(t, "Grid Storage Explained", title)
	assert.Contains(t, text, "Batteries store surplus renewable energy")
	assert.Contains(t, text, "Pumped hydro remains")
	assert.NotContains(t, text, "Home")
	assert.NotContains(t, text, "track()")
	assert.NotContains(t, text, "tracking comment")
	assert.NotContains(t, text, "Share on X")
	assert.NotContains(t, text, "cookies")
	assert.NotContains(t, text, "All rights reserved")
}

func TestExtractText_FallsBackToBody(t *testing.T) {
	_, text, err := ExtractText(`<html><body><header>Site</header><p>Plain body text.</p></body></html>`, nil)
	require.NoError(t, err)
	assert.Equal(t, "Plain body text.", CleanText(text))
}

func TestCleanText_RemovesBoilerplate(t *testing.T) {
	in := "Intro paragraph about storage.\n\nCookie Policy\nFollow us on social media\n  Body   text continues here.  \nSee our privacy policy for details."
	assert.Equal(t, "Intro paragraph about storage. Body text continues here.", CleanText(in))
}

func TestCleanText_StripsPhrasesFromLongLines(t *testing.T) {
	long := strings.Repeat("word ", 50)
	assert.Equal(t, long+"apply.", CleanText(long+"Terms of Service apply."))
}

func TestCleanText_CopyrightNotices(t *testing.T) {
	footers := []string{
		"© 2024 Example Corp",
		"Copyright 2023 Example Media",
		"Copyright (c) 2021 Example Inc",
		"Site content © Example News, all rights reserved",
	}
	for _, f := range footers {
		assert.Equal(t, "Body.", CleanText("Body.\n"+f), f)
	}

	prose := "Copyright law in the United States grants authors exclusive rights to their works.\nThe 1976 Act extended the term of protection."
	assert.Equal(t,
		"Copyright law in the United States grants authors exclusive rights to their works. The 1976 Act extended the term of protection.",
		CleanText(prose),
	)
}

func TestCleanText_IsDeterministic(t *testing.T) {
	in := "a\n\nSubscribe to our newsletter\nb"
	assert.Equal(t, CleanText(in), CleanText(in))
	assert.Equal(t, "a b", CleanText(in))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abc", Truncate("abc", 0))
}

func TestFetcher_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.UserAgent = "test-agent"
	cfg.MaxContentChars = 40
	f := NewFetcher(cfg)

	page, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, srv.URL, page.URL)
	assert.Equal(t, "Grid Storage Explained", page.Title)
	assert.Len(t, []rune(page.Text), 40)
	assert.True(t, strings.HasPrefix(page.Text, "How grid storage works"))
}

func TestFetcher_PlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("line one\nline two"))
	}))
	defer srv.Close()

	page, err := NewFetcher(DefaultConfig()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "line one line two", page.Text)
}

func TestFetcher_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/binary":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF"))
		case "/slow":
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}
	}))
	defer srv.Close()

	f := NewFetcher(DefaultConfig())

	_, err := f.Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, errs.ErrProviderUnavailable)

	_, err = f.Fetch(context.Background(), srv.URL+"/binary")
	assert.ErrorIs(t, err, errs.ErrMalformedResponse)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = f.Fetch(ctx, srv.URL+"/slow")
	assert.ErrorIs(t, err, errs.ErrProviderUnavailable)
}
