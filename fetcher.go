package boardcrawl

import (
	"context"
	"fmt"
	"time"

	"github.com/pevans/boardcrawl/browser"
	"github.com/pevans/boardcrawl/scraper"
)

// DefaultSettleDelay is how long Fetch waits after opening an article
// before reading it.
const DefaultSettleDelay = 100 * time.Millisecond

// Fetcher turns listing entries into Articles.
type Fetcher struct {
	config scraper.ArticleConfig
	// SettleDelay gives asynchronously rendered pages time to fill in. It
	// is not relied on: a missing content element is still an error.
	SettleDelay time.Duration
}

// NewFetcher creates a fetcher with DefaultSettleDelay.
func NewFetcher(config scraper.ArticleConfig) *Fetcher {
	return &Fetcher{
		config:      config,
		SettleDelay: DefaultSettleDelay,
	}
}

// Fetch opens the entry's article in a secondary context of engine, splits
// its text and builds the Article. Any error is a *FetchError. The
// secondary context is always closed before Fetch returns, so the engine's
// primary context is left as it was.
func (f *Fetcher) Fetch(ctx context.Context, engine browser.Engine, entry ListingEntry) (Article, error) {
	fail := func(err error) (Article, error) {
		return Article{}, &FetchError{Title: entry.Title, Link: entry.Link, Err: err}
	}

	tab, err := engine.OpenSecondary(ctx, entry.Link)
	if err != nil {
		return fail(fmt.Errorf("failed to open article: %w", err))
	}
	defer tab.Close()

	if err := sleep(ctx, f.SettleDelay); err != nil {
		return fail(err)
	}

	text, err := tab.Page().Text(f.config.ContentSelector)
	if err != nil {
		return fail(fmt.Errorf("failed to read article content: %w", err))
	}

	author, body := SplitContent(text)

	return Article{
		Title:      entry.Title,
		URL:        entry.Link,
		Author:     author,
		Popularity: EncodePopularity(entry.RawPopularity),
		Content:    body,
	}, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
