package sink

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/boardcrawl"
)

// SQLiteStore writes articles into an SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the articles table if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		author TEXT NOT NULL,
		popularity INTEGER NOT NULL,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Write inserts all articles in one transaction, tagged with a new run ID.
func (s *SQLiteStore) Write(articles []boardcrawl.Article) error {
	runID := uuid.New()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO articles (id, run_id, position, title, url, author, popularity, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range articles {
		_, err := stmt.Exec(uuid.New().String(), runID.String(), i, a.Title, a.URL, a.Author, a.Popularity, a.Content, createdAt)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert article %q: %w", a.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit articles: %w", err)
	}
	return nil
}

// List returns every stored article, oldest run first and in crawl order
// within a run. Rows are never deleted and each run is inserted in position
// order inside one transaction, so insertion order (rowid) is that order
// even for runs written within the same second.
func (s *SQLiteStore) List() ([]boardcrawl.Article, error) {
	rows, err := s.db.Query(`
		SELECT title, url, author, popularity, content
		FROM articles
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []boardcrawl.Article
	for rows.Next() {
		var a boardcrawl.Article
		if err := rows.Scan(&a.Title, &a.URL, &a.Author, &a.Popularity, &a.Content); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read articles: %w", err)
	}

	return articles, nil
}
