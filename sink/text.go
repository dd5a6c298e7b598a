package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pevans/boardcrawl"
)

const (
	separatorRune  = "—"
	separatorWidth = 50
)

// TextFile writes articles as human-readable blocks.
type TextFile struct {
	path string
}

// NewTextFile returns a sink that (over)writes path.
func NewTextFile(path string) *TextFile {
	return &TextFile{path: path}
}

// Write replaces the file's contents with articles.
func (t *TextFile) Write(articles []boardcrawl.Article) error {
	// 0600: owner-only read/write
	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create text output: %w", err)
	}

	if err := WriteText(f, articles); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close text output: %w", err)
	}
	return nil
}

// WriteText renders each article as a block: title, author, popularity and
// URL lines, a blank line, "Content:" and the body, then a separator line.
func WriteText(w io.Writer, articles []boardcrawl.Article) error {
	bw := bufio.NewWriter(w)
	sep := separator()

	for _, a := range articles {
		bw.WriteString("📌 Title: " + a.Title + "\n")
		bw.WriteString("Author: " + a.Author + "\n")
		bw.WriteString("Popularity: " + strconv.Itoa(a.Popularity) + "\n")
		bw.WriteString("URL: " + a.URL + "\n\n")
		bw.WriteString("Content:\n" + strings.TrimSpace(a.Content) + "\n")
		bw.WriteString("\n" + sep + "\n\n")
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write text output: %w", err)
	}
	return nil
}

func separator() string {
	return strings.Repeat(separatorRune, separatorWidth)
}
