package boardcrawl

import (
	"fmt"
)

// ListingEntry is one row of a listing page, before its article has been
// fetched.
type ListingEntry struct {
	Title         string
	Link          string // Absolute URL of the article page
	RawPopularity string // Popularity token exactly as the listing shows it
}

// Article is a fully extracted board post. An Article is only ever built
// with every field populated; entries that fail to fetch produce a
// FetchError instead.
type Article struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Author     string `json:"author"`
	Popularity int    `json:"popularity"`
	Content    string `json:"content"`
}

// FetchError describes why a single listing entry could not be turned into
// an Article.
type FetchError struct {
	Title string
	Link  string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Title, e.Link, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
