// Package browser loads board pages and exposes them as queryable
// documents. An Engine owns one primary browsing context and can lend out a
// single secondary context at a time for opening articles.
package browser

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrElementNotFound is returned when a selector matches nothing on a page.
var ErrElementNotFound = errors.New("element not found")

// Page is a loaded document together with the URL it was loaded from.
type Page struct {
	URL *url.URL
	Doc *goquery.Document
}

// NewPage parses an HTML document served from rawURL.
func NewPage(rawURL string, r io.Reader) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Url = u

	return &Page{URL: u, Doc: doc}, nil
}

// NewPageFromString is NewPage for an in-memory document.
func NewPageFromString(rawURL, html string) (*Page, error) {
	return NewPage(rawURL, strings.NewReader(html))
}

// Find runs a CSS selector against the whole document.
func (p *Page) Find(selector string) *goquery.Selection {
	return p.Doc.Find(selector)
}

// Resolve turns a possibly relative href into an absolute URL using the
// page's own URL as the base.
func (p *Page) Resolve(href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("empty href")
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}

	return p.URL.ResolveReference(ref).String(), nil
}

// Text returns the rendered text of the first element matching selector,
// laid out the way a browser would show it (see RenderText).
func (p *Page) Text(selector string) (string, error) {
	sel := p.Doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return RenderText(sel), nil
}
