package boardcrawl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pevans/boardcrawl/browser"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: a walker with no delays
func newTestWalker(t *testing.T, pages int) *Walker {
	w, err := NewWalker(WalkerConfig{BoardURL: testBoard + "index.html", Pages: pages}, nil)
	require.NoError(t, err)
	return w
}

// Test helper: a chain of listing pages index.html, index<n-1>.html, ...
// each holding one article. The oldest page has no previous-page link.
func chainEngine(length int) *fakeEngine {
	engine := newFakeEngine()
	newest := 100

	for i := 0; i < length; i++ {
		n := newest - i
		url := fmt.Sprintf("%sindex%d.html", testBoard, n)
		if i == 0 {
			url = testBoard + "index.html"
		}

		prev := ""
		if i < length-1 {
			prev = fmt.Sprintf("/bbs/Test/index%d.html", n-1)
		}

		article := fmt.Sprintf("M.%d.A.html", n)
		engine.pages[url] = listingHTML(prev, entryHTML(fmt.Sprintf("Post %d", n), "/bbs/Test/"+article, "1"))
		engine.pages[testBoard+article] = articleHTML("author", "t", fmt.Sprintf("body %d", n))
	}

	return engine
}

// TestNewWalker_InvalidPages verifies the page bound must be positive
func TestNewWalker_InvalidPages(t *testing.T) {
	_, err := NewWalker(WalkerConfig{Pages: 0}, nil)
	assert.ErrorIs(t, err, ErrInvalidPages)

	_, err = NewWalker(WalkerConfig{Pages: -3}, nil)
	assert.ErrorIs(t, err, ErrInvalidPages)
}

// TestNewWalker_Defaults verifies an empty board URL falls back
func TestNewWalker_Defaults(t *testing.T) {
	w, err := NewWalker(WalkerConfig{Pages: 1}, nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultBoardURL, w.config.BoardURL)
	assert.Equal(t, "div.r-ent", w.config.Board.ListConfig.EntrySelector)
	assert.Equal(t, DefaultBoardURL, w.Log.Data["board"])
}

// TestDefaultWalkerConfig verifies the CFantasy defaults
func TestDefaultWalkerConfig(t *testing.T) {
	cfg := DefaultWalkerConfig()

	assert.Equal(t, DefaultBoardURL, cfg.BoardURL)
	assert.Equal(t, 2, cfg.Pages)
	assert.Equal(t, DefaultSettleDelay, cfg.SettleDelay)
}

// TestCrawl_PageLimit verifies exactly N pages are read from a longer chain
func TestCrawl_PageLimit(t *testing.T) {
	engine := chainEngine(10)

	result, err := newTestWalker(t, 3).Crawl(context.Background(), engine)

	require.NoError(t, err)
	assert.Equal(t, 3, result.PagesVisited)
	assert.Equal(t, StopPageLimit, result.Stop)
	assert.Len(t, engine.navigations, 3, "one load per page, no advance past the bound")
	require.Len(t, result.Articles, 3)
	assert.Equal(t, "Post 100", result.Articles[0].Title)
	assert.Equal(t, "Post 99", result.Articles[1].Title)
	assert.Equal(t, "Post 98", result.Articles[2].Title)
}

// TestCrawl_Exhausted verifies a short chain stops at its oldest page
func TestCrawl_Exhausted(t *testing.T) {
	engine := chainEngine(2)

	result, err := newTestWalker(t, 5).Crawl(context.Background(), engine)

	require.NoError(t, err)
	assert.Equal(t, 2, result.PagesVisited)
	assert.Equal(t, StopExhausted, result.Stop)
	assert.Len(t, result.Articles, 2)
}

// TestCrawl_SinglePageBound verifies pages=1 never advances
func TestCrawl_SinglePageBound(t *testing.T) {
	engine := chainEngine(3)

	result, err := newTestWalker(t, 1).Crawl(context.Background(), engine)

	require.NoError(t, err)
	assert.Equal(t, 1, result.PagesVisited)
	assert.Equal(t, []string{testBoard + "index.html"}, engine.navigations)
}

// TestCrawl_OneSuccessOneFailure verifies failed entries are dropped and reported
func TestCrawl_OneSuccessOneFailure(t *testing.T) {
	engine := newFakeEngine()
	engine.pages[testBoard+"index.html"] = listingHTML("",
		entryHTML("Good", "/bbs/Test/M.1.A.html", "10"),
		entryHTML("Bad", "/bbs/Test/M.2.A.html", "20"),
	)
	engine.pages[testBoard+"M.1.A.html"] = articleHTML("alice", "Good", "content")

	logger, hook := test.NewNullLogger()
	w, err := NewWalker(WalkerConfig{BoardURL: testBoard + "index.html", Pages: 1}, logrus.NewEntry(logger))
	require.NoError(t, err)

	result, err := w.Crawl(context.Background(), engine)

	require.NoError(t, err)
	require.Len(t, result.Articles, 1)
	assert.Equal(t, Article{
		Title:      "Good",
		URL:        testBoard + "M.1.A.html",
		Author:     "alice",
		Popularity: 10,
		Content:    "content",
	}, result.Articles[0])

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "Bad", result.Failures[0].Title)
	assert.Equal(t, testBoard+"M.2.A.html", result.Failures[0].Link)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["title"] == "Bad" {
			warned = true
		}
	}
	assert.True(t, warned, "failure should be logged")
	assert.Equal(t, 1, engine.maxOpen, "at most one secondary context at a time")
	assert.Equal(t, 0, engine.open)
}

// TestCrawl_PreservesOrder verifies output follows listing order
func TestCrawl_PreservesOrder(t *testing.T) {
	engine := newFakeEngine()
	engine.pages[testBoard+"index.html"] = listingHTML("",
		entryHTML("E1", "/bbs/Test/M.1.A.html", "爆"),
		entryHTML("E2", "/bbs/Test/M.2.A.html", "X1"),
		entryHTML("E3", "/bbs/Test/M.3.A.html", ""),
	)
	for i := 1; i <= 3; i++ {
		engine.pages[fmt.Sprintf("%sM.%d.A.html", testBoard, i)] = articleHTML("a", "t", "b")
	}

	result, err := newTestWalker(t, 1).Crawl(context.Background(), engine)

	require.NoError(t, err)
	require.Len(t, result.Articles, 3)
	assert.Equal(t, "E1", result.Articles[0].Title)
	assert.Equal(t, 100, result.Articles[0].Popularity)
	assert.Equal(t, "E2", result.Articles[1].Title)
	assert.Equal(t, -1, result.Articles[1].Popularity)
	assert.Equal(t, "E3", result.Articles[2].Title)
	assert.Equal(t, 0, result.Articles[2].Popularity)
}

// TestCrawl_EmptyListing verifies a page with no entries still advances
func TestCrawl_EmptyListing(t *testing.T) {
	engine := newFakeEngine()
	engine.pages[testBoard+"index.html"] = listingHTML("/bbs/Test/index9.html", deletedEntryHTML())
	engine.pages[testBoard+"index9.html"] = listingHTML("", entryHTML("Old", "/bbs/Test/M.9.A.html", "1"))
	engine.pages[testBoard+"M.9.A.html"] = articleHTML("a", "Old", "b")

	result, err := newTestWalker(t, 5).Crawl(context.Background(), engine)

	require.NoError(t, err)
	assert.Equal(t, 2, result.PagesVisited)
	require.Len(t, result.Articles, 1)
	assert.Equal(t, "Old", result.Articles[0].Title)
}

// TestCrawl_StartupFailure verifies an unreachable board is fatal
func TestCrawl_StartupFailure(t *testing.T) {
	engine := newFakeEngine()

	result, err := newTestWalker(t, 2).Crawl(context.Background(), engine)

	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrStartup)
	assert.Nil(t, result)
}

// TestCrawl_AdvanceFailure verifies a broken previous page ends the crawl cleanly
func TestCrawl_AdvanceFailure(t *testing.T) {
	engine := newFakeEngine()
	engine.pages[testBoard+"index.html"] = listingHTML("/bbs/Test/missing.html", entryHTML("Only", "/bbs/Test/M.1.A.html", "1"))
	engine.pages[testBoard+"M.1.A.html"] = articleHTML("a", "Only", "b")

	result, err := newTestWalker(t, 3).Crawl(context.Background(), engine)

	require.NoError(t, err)
	assert.Equal(t, StopNavigation, result.Stop)
	assert.Equal(t, 1, result.PagesVisited)
	assert.Len(t, result.Articles, 1)
}

// TestCrawl_Cancelled verifies a cancelled crawl returns what it has
func TestCrawl_Cancelled(t *testing.T) {
	engine := chainEngine(3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestWalker(t, 3).Crawl(ctx, engine)

	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, StopCancelled, result.Stop)
	assert.Empty(t, result.Articles)
}

// TestCrawl_CancelledDuringStartup verifies an interrupted first load is a
// cancellation, not a startup failure
func TestCrawl_CancelledDuringStartup(t *testing.T) {
	engine := newFakeEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestWalker(t, 2).Crawl(ctx, engine)

	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, browser.ErrStartup)
	require.NotNil(t, result)
	assert.Equal(t, StopCancelled, result.Stop)
	assert.Equal(t, 0, result.PagesVisited)
}

// TestCrawl_HTTPEngine runs a crawl against a fake board over HTTP
func TestCrawl_HTTPEngine(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bbs/Test/index.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingHTML("/bbs/Test/index1.html",
			entryHTML("[創作] 新的", "/bbs/Test/M.2.A.html", "爆"),
			deletedEntryHTML(),
			entryHTML("[公告] 壞掉", "/bbs/Test/M.404.A.html", "X1"),
		))
	})
	mux.HandleFunc("/bbs/Test/index1.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingHTML("", entryHTML("[創作] 舊的", "/bbs/Test/M.1.A.html", "3")))
	})
	mux.HandleFunc("/bbs/Test/M.2.A.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articleHTML("writer (Writer)", "[創作] 新的", "新文章"))
	})
	mux.HandleFunc("/bbs/Test/M.1.A.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articleHTML("older (Older)", "[創作] 舊的", "舊文章\n第二行"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	engine, err := browser.NewHTTPEngine(browser.HTTPOptions{})
	require.NoError(t, err)
	defer engine.Close()

	w, err := NewWalker(WalkerConfig{BoardURL: server.URL + "/bbs/Test/index.html", Pages: 5}, nil)
	require.NoError(t, err)

	result, err := w.Crawl(context.Background(), engine)

	require.NoError(t, err)
	assert.Equal(t, StopExhausted, result.Stop)
	assert.Equal(t, 2, result.PagesVisited)
	require.Len(t, result.Articles, 2)
	assert.Equal(t, Article{
		Title:      "[創作] 新的",
		URL:        server.URL + "/bbs/Test/M.2.A.html",
		Author:     "writer (Writer)",
		Popularity: 100,
		Content:    "新文章",
	}, result.Articles[0])
	assert.Equal(t, "舊文章\n第二行", result.Articles[1].Content)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "[公告] 壞掉", result.Failures[0].Title)
	assert.Equal(t, 0, engine.OpenContexts())
}
