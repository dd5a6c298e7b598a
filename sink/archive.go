package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/pevans/boardcrawl"
)

// Archive stores each article as its own JSON file in a directory.
type Archive struct {
	storageDir string
}

// StoredArticle is an Article as kept in an Archive.
type StoredArticle struct {
	ID       uuid.UUID `json:"id"`
	Position int       `json:"position"` // Index within the crawl that wrote it
	boardcrawl.Article
}

// ReadError describes a failure to read a single archived file.
type ReadError struct {
	Filename string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

// ListResult contains the articles read back from an Archive, along with
// any per-file errors.
type ListResult struct {
	Articles []StoredArticle
	Errors   []ReadError
}

// NewArchive creates an archive in storageDir, creating the directory if
// needed.
func NewArchive(storageDir string) (*Archive, error) {
	// 0700: owner-only access
	if err := os.MkdirAll(storageDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &Archive{storageDir: storageDir}, nil
}

// Write stores every article under a fresh ID.
func (a *Archive) Write(articles []boardcrawl.Article) error {
	for i, article := range articles {
		if err := a.Add(StoredArticle{ID: uuid.New(), Position: i, Article: article}); err != nil {
			return err
		}
	}
	return nil
}

// Add saves one article, named after its ID.
func (a *Archive) Add(item StoredArticle) error {
	filename := filepath.Join(a.storageDir, item.ID.String()+".json")

	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal article: %w", err)
	}

	// 0600: owner-only read/write
	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("failed to write article: %w", err)
	}

	return nil
}

// List returns all archived articles ordered by position. Unreadable or
// corrupt files end up in the result's Errors; a non-nil error means the
// directory itself could not be read.
func (a *Archive) List() (*ListResult, error) {
	entries, err := os.ReadDir(a.storageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	result := &ListResult{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(a.storageDir, entry.Name()))
		if err != nil {
			result.Errors = append(result.Errors, ReadError{Filename: entry.Name(), Err: err})
			continue
		}

		var item StoredArticle
		if err := json.Unmarshal(data, &item); err != nil {
			result.Errors = append(result.Errors, ReadError{Filename: entry.Name(), Err: err})
			continue
		}

		result.Articles = append(result.Articles, item)
	}

	sort.SliceStable(result.Articles, func(i, j int) bool {
		return result.Articles[i].Position < result.Articles[j].Position
	})

	return result, nil
}
