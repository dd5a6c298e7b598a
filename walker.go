package boardcrawl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pevans/boardcrawl/browser"
	"github.com/pevans/boardcrawl/scraper"
	"github.com/sirupsen/logrus"
)

// DefaultBoardURL is the CFantasy board's newest listing page.
const DefaultBoardURL = "https://www.ptt.cc/bbs/CFantasy/index.html"

// DefaultPages is how many listing pages a crawl reads by default.
const DefaultPages = 2

// ErrInvalidPages is returned for a page count below 1.
var ErrInvalidPages = errors.New("pages must be at least 1")

// StopReason records why a crawl ended.
type StopReason string

const (
	// StopPageLimit: the requested number of pages was read.
	StopPageLimit StopReason = "page_limit"
	// StopExhausted: the last page read had no previous-page control.
	StopExhausted StopReason = "exhausted"
	// StopNavigation: loading the previous page failed.
	StopNavigation StopReason = "navigation_failed"
	// StopCancelled: the context was cancelled mid-crawl.
	StopCancelled StopReason = "cancelled"
)

// WalkerConfig holds the inputs of a crawl.
type WalkerConfig struct {
	BoardURL string
	Pages    int
	Board    scraper.BoardConfig

	// StartDelay is waited after the first listing loads, PageDelay after
	// each later one, SettleDelay after each article opens.
	StartDelay  time.Duration
	PageDelay   time.Duration
	SettleDelay time.Duration
}

// DefaultWalkerConfig returns settings for crawling the CFantasy board.
func DefaultWalkerConfig() WalkerConfig {
	return WalkerConfig{
		BoardURL:    DefaultBoardURL,
		Pages:       DefaultPages,
		Board:       scraper.DefaultBoardConfig(),
		StartDelay:  1 * time.Second,
		PageDelay:   100 * time.Millisecond,
		SettleDelay: DefaultSettleDelay,
	}
}

// CrawlResult is what a crawl collected.
type CrawlResult struct {
	// Articles are in fetch order: listing order within a page, pages
	// newest first.
	Articles     []Article
	Failures     []FetchError
	PagesVisited int
	Stop         StopReason
}

// Walker drives a crawl backward through a board's listing pages.
type Walker struct {
	Log *logrus.Entry

	config    WalkerConfig
	extractor *Extractor
	fetcher   *Fetcher
}

// NewWalker creates a walker. Empty selectors fall back to PTT's layout.
func NewWalker(config WalkerConfig, log *logrus.Entry) (*Walker, error) {
	if config.Pages < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPages, config.Pages)
	}
	if config.BoardURL == "" {
		config.BoardURL = DefaultBoardURL
	}
	config.Board = config.Board.WithDefaults()

	if log == nil {
		log = discardLog()
	}
	log = log.WithField("board", config.BoardURL)

	fetcher := NewFetcher(config.Board.ArticleConfig)
	fetcher.SettleDelay = config.SettleDelay

	return &Walker{
		Log:       log,
		config:    config,
		extractor: NewExtractor(config.Board.ListConfig, log),
		fetcher:   fetcher,
	}, nil
}

// Crawl reads up to config.Pages listing pages starting at the board URL,
// fetching every entry's article. The walker has the engine to itself for
// the whole crawl.
//
// Per-entry and per-page failures are logged and recovered. The only error
// returned for an otherwise healthy run is a failure to load the first
// listing, which wraps browser.ErrStartup. A cancelled ctx returns what was
// collected so far along with ctx.Err().
func (w *Walker) Crawl(ctx context.Context, engine browser.Engine) (*CrawlResult, error) {
	result := &CrawlResult{}

	page, err := engine.Navigate(ctx, w.config.BoardURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			result.Stop = StopCancelled
			return result, ctxErr
		}
		return nil, fmt.Errorf("%w: failed to load board: %v", browser.ErrStartup, err)
	}
	if err := sleep(ctx, w.config.StartDelay); err != nil {
		result.Stop = StopCancelled
		return result, err
	}

	for {
		result.PagesVisited++
		w.Log.WithField("page", result.PagesVisited).Infof("crawling %s", page.URL)

		if err := w.crawlPage(ctx, engine, page, result); err != nil {
			result.Stop = StopCancelled
			return result, err
		}

		if result.PagesVisited >= w.config.Pages {
			result.Stop = StopPageLimit
			break
		}

		prev, ok := w.extractor.PreviousPage(page)
		if !ok {
			w.Log.Info("no more pages, stopping crawl")
			result.Stop = StopExhausted
			break
		}

		if err := ctx.Err(); err != nil {
			result.Stop = StopCancelled
			return result, err
		}

		page, err = engine.Navigate(ctx, prev)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				result.Stop = StopCancelled
				return result, ctxErr
			}
			w.Log.WithError(err).Warnf("failed to load previous page %s, stopping crawl", prev)
			result.Stop = StopNavigation
			break
		}
		if err := sleep(ctx, w.config.PageDelay); err != nil {
			result.Stop = StopCancelled
			return result, err
		}
	}

	w.Log.WithFields(logrus.Fields{
		"pages":    result.PagesVisited,
		"articles": len(result.Articles),
		"failures": len(result.Failures),
		"stop":     result.Stop,
	}).Info("crawl finished")

	return result, nil
}

// crawlPage fetches every entry of one listing page. It only returns an
// error when ctx is done.
func (w *Walker) crawlPage(ctx context.Context, engine browser.Engine, page *browser.Page, result *CrawlResult) error {
	for entry := range w.extractor.Entries(page) {
		if err := ctx.Err(); err != nil {
			return err
		}

		article, err := w.fetcher.Fetch(ctx, engine, entry)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				fetchErr = &FetchError{Title: entry.Title, Link: entry.Link, Err: err}
			}
			w.Log.WithFields(logrus.Fields{
				"title": fetchErr.Title,
				"url":   fetchErr.Link,
			}).WithError(fetchErr.Err).Warn("failed to read article")
			result.Failures = append(result.Failures, *fetchErr)
			continue
		}

		result.Articles = append(result.Articles, article)
	}

	return nil
}
