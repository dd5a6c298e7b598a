// Package sink persists crawled articles.
package sink

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/pevans/boardcrawl"
)

// Output formats accepted by New.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatDir    = "dir"
	FormatSQLite = "sqlite"
)

// Sink errors.
var (
	// ErrUnknownFormat is returned by New and Read for an unrecognized format.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrNotReadable is returned by Read for formats meant only for people.
	ErrNotReadable = errors.New("output format can't be read back")
)

// Sink accepts a finished crawl's articles, in crawl order.
type Sink interface {
	Write(articles []boardcrawl.Article) error
}

// Formats lists every format New accepts.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatDir, FormatSQLite}
}

// ValidFormat reports whether New accepts format.
func ValidFormat(format string) bool {
	return slices.Contains(Formats(), format)
}

// New returns the sink for format writing to path. For FormatDir path is a
// directory; for the others it is a file. The caller closes sinks that
// implement io.Closer.
func New(format, path string) (Sink, error) {
	switch format {
	case FormatText:
		return NewTextFile(path), nil
	case FormatJSON:
		return NewJSONFile(path), nil
	case FormatDir:
		return NewArchive(path)
	case FormatSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Read loads the articles a sink of format wrote to path, in crawl order.
// Text output is not readable. For FormatDir, files that fail to parse are
// skipped and returned as ReadErrors.
func Read(format, path string) ([]boardcrawl.Article, []ReadError, error) {
	if ValidFormat(format) {
		if _, err := os.Stat(path); err != nil {
			return nil, nil, fmt.Errorf("failed to open output: %w", err)
		}
	}

	switch format {
	case FormatJSON:
		articles, err := ReadJSONFile(path)
		return articles, nil, err
	case FormatDir:
		archive := &Archive{storageDir: path}
		result, err := archive.List()
		if err != nil {
			return nil, nil, err
		}
		articles := make([]boardcrawl.Article, 0, len(result.Articles))
		for _, item := range result.Articles {
			articles = append(articles, item.Article)
		}
		return articles, result.Errors, nil
	case FormatSQLite:
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		defer store.Close()
		articles, err := store.List()
		return articles, nil, err
	case FormatText:
		return nil, nil, fmt.Errorf("%w: %q", ErrNotReadable, format)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
