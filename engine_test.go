package boardcrawl

import (
	"context"
	"fmt"
	"strings"

	"github.com/pevans/boardcrawl/browser"
)

const testBoard = "https://board.test/bbs/Test/"

// Test helper: an in-memory engine serving fixed pages
type fakeEngine struct {
	pages       map[string]string
	navigations []string
	opened      []string
	open        int
	maxOpen     int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{pages: map[string]string{}}
}

func (e *fakeEngine) Navigate(_ context.Context, rawURL string) (*browser.Page, error) {
	e.navigations = append(e.navigations, rawURL)
	html, ok := e.pages[rawURL]
	if !ok {
		return nil, fmt.Errorf("failed to fetch %s: HTTP 404 Not Found", rawURL)
	}
	return browser.NewPageFromString(rawURL, html)
}

func (e *fakeEngine) OpenSecondary(_ context.Context, rawURL string) (browser.Context, error) {
	if e.open > 0 {
		return nil, browser.ErrContextBusy
	}
	e.opened = append(e.opened, rawURL)
	html, ok := e.pages[rawURL]
	if !ok {
		return nil, fmt.Errorf("failed to fetch %s: HTTP 404 Not Found", rawURL)
	}
	page, err := browser.NewPageFromString(rawURL, html)
	if err != nil {
		return nil, err
	}

	e.open++
	if e.open > e.maxOpen {
		e.maxOpen = e.open
	}
	return &fakeContext{engine: e, page: page}, nil
}

func (e *fakeEngine) Close() error {
	return nil
}

type fakeContext struct {
	engine *fakeEngine
	page   *browser.Page
	closed bool
}

func (c *fakeContext) Page() *browser.Page {
	return c.page
}

func (c *fakeContext) Close() error {
	if !c.closed {
		c.closed = true
		c.engine.open--
	}
	return nil
}

// Test helper: a listing page; prev is the previous-page href or "" for a
// disabled control
func listingHTML(prev string, entries ...string) string {
	prevLink := `<a class="btn wide disabled">‹ 上頁</a>`
	if prev != "" {
		prevLink = fmt.Sprintf(`<a class="btn wide" href="%s">‹ 上頁</a>`, prev)
	}

	return `<html><body>
<div class="btn-group btn-group-paging">
<a class="btn wide" href="/bbs/Test/index1.html">最舊</a>
` + prevLink + `
<a class="btn wide disabled">下頁 ›</a>
<a class="btn wide" href="/bbs/Test/index.html">最新</a>
</div>
<div class="r-list-container action-bar-margin bbs-screen">
` + strings.Join(entries, "\n") + `
</div>
</body></html>`
}

// Test helper: one listing row; nrec "" renders an empty popularity cell
func entryHTML(title, href, nrec string) string {
	pop := `<div class="nrec"></div>`
	if nrec != "" {
		pop = fmt.Sprintf(`<div class="nrec"><span class="hl f3">%s</span></div>`, nrec)
	}
	return fmt.Sprintf(`<div class="r-ent">%s<div class="title">
<a href="%s">%s</a>
</div><div class="meta"><div class="author">someone</div></div></div>`, pop, href, title)
}

// Test helper: a deleted post, which has no link
func deletedEntryHTML() string {
	return `<div class="r-ent"><div class="nrec"></div><div class="title">
(本文已被刪除) [someone]
</div></div>`
}

// Test helper: an article page with the standard four metadata lines
func articleHTML(author, title, body string) string {
	return `<html><body><div id="main-container"><div id="main-content" class="bbs-screen bbs-content">` +
		`<div class="article-metaline"><span class="article-meta-tag">作者</span><span class="article-meta-value">` + author + `</span></div>` +
		`<div class="article-metaline-right"><span class="article-meta-tag">看板</span><span class="article-meta-value">Test</span></div>` +
		`<div class="article-metaline"><span class="article-meta-tag">標題</span><span class="article-meta-value">` + title + `</span></div>` +
		`<div class="article-metaline"><span class="article-meta-tag">時間</span><span class="article-meta-value">Mon Jan  1 00:00:00 2024</span></div>` +
		"\n" + body + "\n\n--\n" +
		`<span class="f2">※ 發信站: 批踢踢實業坊(ptt.cc)</span>` + "\n" +
		`</div></div></body></html>`
}
