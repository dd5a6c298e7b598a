package sink

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pevans/boardcrawl"
)

// JSONFile writes all articles as one indented JSON array.
type JSONFile struct {
	path string
}

// NewJSONFile returns a sink that (over)writes path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Write replaces the file's contents with articles. Non-ASCII text and
// HTML characters are written as-is rather than escaped.
func (j *JSONFile) Write(articles []boardcrawl.Article) error {
	if articles == nil {
		articles = []boardcrawl.Article{}
	}

	// 0600: owner-only read/write
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode articles: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close JSON output: %w", err)
	}
	return nil
}

// ReadJSONFile loads articles written by JSONFile.
func ReadJSONFile(path string) ([]boardcrawl.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON output: %w", err)
	}

	var articles []boardcrawl.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("failed to parse JSON output: %w", err)
	}
	return articles, nil
}
