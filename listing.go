package boardcrawl

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/boardcrawl/browser"
	"github.com/pevans/boardcrawl/scraper"
	"github.com/sirupsen/logrus"
)

// Listing extraction errors.
var (
	ErrNoTitleLink = errors.New("entry has no title link")
	ErrEmptyTitle  = errors.New("entry title is empty")
)

// Extractor reads listing entries and paging controls from listing pages.
type Extractor struct {
	config scraper.ListConfig
	log    *logrus.Entry
}

// NewExtractor creates an extractor. A nil log discards skip messages.
func NewExtractor(config scraper.ListConfig, log *logrus.Entry) *Extractor {
	if log == nil {
		log = discardLog()
	}
	return &Extractor{config: config, log: log}
}

// Entries yields the page's entries top to bottom. Entries without a
// usable title link, such as deleted posts, are skipped; the rest of the
// page is still read.
func (x *Extractor) Entries(page *browser.Page) iter.Seq[ListingEntry] {
	return func(yield func(ListingEntry) bool) {
		nodes := page.Find(x.config.EntrySelector)
		for i := range nodes.Length() {
			entry, err := x.entry(page, nodes.Eq(i))
			if err != nil {
				x.log.WithField("position", i).Debugf("skipping listing entry: %v", err)
				continue
			}
			if !yield(entry) {
				return
			}
		}
	}
}

func (x *Extractor) entry(page *browser.Page, s *goquery.Selection) (ListingEntry, error) {
	link := s.Find(x.config.TitleSelector).First()
	if link.Length() == 0 {
		return ListingEntry{}, ErrNoTitleLink
	}

	title := strings.TrimSpace(link.Text())
	if title == "" {
		return ListingEntry{}, ErrEmptyTitle
	}

	href, ok := link.Attr("href")
	if !ok {
		return ListingEntry{}, fmt.Errorf("%w: %q has no href", ErrNoTitleLink, title)
	}
	absolute, err := page.Resolve(href)
	if err != nil {
		return ListingEntry{}, fmt.Errorf("%q: %w", title, err)
	}

	// Posts with no pushes render an empty popularity cell, which is a
	// score of 0 rather than a broken entry.
	popularity := strings.TrimSpace(s.Find(x.config.PopularitySelector).First().Text())

	return ListingEntry{
		Title:         title,
		Link:          absolute,
		RawPopularity: popularity,
	}, nil
}

// PreviousPage returns the absolute URL behind the "previous page" control,
// which leads to older entries. ok is false when the control is missing or
// disabled, meaning the oldest page has been reached.
func (x *Extractor) PreviousPage(page *browser.Page) (link string, ok bool) {
	page.Find(x.config.PagingSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != x.config.PreviousPageText {
			return true
		}

		href, exists := s.Attr("href")
		if !exists {
			return false
		}
		resolved, err := page.Resolve(href)
		if err != nil {
			return false
		}

		link, ok = resolved, true
		return false
	})

	return link, ok
}
