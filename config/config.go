// Package config assembles crawl settings from defaults, a YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pevans/boardcrawl"
	"github.com/pevans/boardcrawl/browser"
	"github.com/pevans/boardcrawl/scraper"
	"github.com/pevans/boardcrawl/sink"
)

// DefaultConfigPath is read when no --config flag is given.
const DefaultConfigPath = "boardcrawl.yaml"

// Environment variables that override the config file.
const (
	EnvBoardURL     = "BOARDCRAWL_BOARD_URL"
	EnvPages        = "BOARDCRAWL_PAGES"
	EnvOutputFormat = "BOARDCRAWL_OUTPUT_FORMAT"
	EnvOutputPath   = "BOARDCRAWL_OUTPUT_PATH"
	EnvUserAgent    = "BOARDCRAWL_USER_AGENT"
)

// Validation errors.
var (
	ErrInvalidBoardURL = errors.New("board url must be an absolute http(s) URL")
	ErrInvalidPages    = errors.New("pages must be at least 1")
	ErrInvalidFormat   = errors.New("unknown output format")
	ErrEmptyOutputPath = errors.New("output path is empty")
)

// Defaults returns settings for crawling the CFantasy board.
func Defaults() *FileConfig {
	return &FileConfig{
		Board: BoardSection{
			URL:       boardcrawl.DefaultBoardURL,
			Pages:     boardcrawl.DefaultPages,
			Selectors: scraper.DefaultBoardConfig(),
		},
		Fetch: FetchSection{
			UserAgent:   browser.DefaultUserAgent,
			Timeout:     30 * time.Second,
			StartDelay:  1 * time.Second,
			PageDelay:   100 * time.Millisecond,
			SettleDelay: boardcrawl.DefaultSettleDelay,
		},
		Output: OutputSection{
			Format: sink.FormatText,
			Path:   "CFantasy_articles.txt",
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (a missing file is skipped), then environment variables. A .env file
// in the working directory is loaded into the environment first.
func Load(path string) (*FileConfig, error) {
	// A missing .env is fine
	_ = godotenv.Load()

	cfg := Defaults()

	file, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	if file != nil {
		cfg.merge(file)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// merge overlays every non-zero field of other onto c.
func (c *FileConfig) merge(other *FileConfig) {
	if other.Board.URL != "" {
		c.Board.URL = other.Board.URL
	}
	if other.Board.Pages != 0 {
		c.Board.Pages = other.Board.Pages
	}
	c.Board.Selectors = other.Board.Selectors.WithDefaults()

	if other.Fetch.UserAgent != "" {
		c.Fetch.UserAgent = other.Fetch.UserAgent
	}
	if other.Fetch.Timeout != 0 {
		c.Fetch.Timeout = other.Fetch.Timeout
	}
	if other.Fetch.StartDelay != 0 {
		c.Fetch.StartDelay = other.Fetch.StartDelay
	}
	if other.Fetch.PageDelay != 0 {
		c.Fetch.PageDelay = other.Fetch.PageDelay
	}
	if other.Fetch.SettleDelay != 0 {
		c.Fetch.SettleDelay = other.Fetch.SettleDelay
	}
	if len(other.Fetch.Cookies) > 0 {
		c.Fetch.Cookies = other.Fetch.Cookies
	}

	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Path != "" {
		c.Output.Path = other.Output.Path
	}
}

func (c *FileConfig) applyEnv() error {
	if v := os.Getenv(EnvBoardURL); v != "" {
		c.Board.URL = v
	}
	if v := os.Getenv(EnvPages); v != "" {
		pages, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPages, v, err)
		}
		c.Board.Pages = pages
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv(EnvOutputPath); v != "" {
		c.Output.Path = v
	}
	if v := os.Getenv(EnvUserAgent); v != "" {
		c.Fetch.UserAgent = v
	}
	return nil
}

// Validate checks the settings a crawl can't start without.
func (c *FileConfig) Validate() error {
	u, err := url.Parse(c.Board.URL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBoardURL, c.Board.URL)
	}
	if c.Board.Pages < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPages, c.Board.Pages)
	}
	if !sink.ValidFormat(c.Output.Format) {
		return fmt.Errorf("%w: %q (want one of %v)", ErrInvalidFormat, c.Output.Format, sink.Formats())
	}
	if c.Output.Path == "" {
		return ErrEmptyOutputPath
	}
	return nil
}

// WalkerConfig converts the settings into the crawl's inputs.
func (c *FileConfig) WalkerConfig() boardcrawl.WalkerConfig {
	return boardcrawl.WalkerConfig{
		BoardURL:    c.Board.URL,
		Pages:       c.Board.Pages,
		Board:       c.Board.Selectors,
		StartDelay:  c.Fetch.StartDelay,
		PageDelay:   c.Fetch.PageDelay,
		SettleDelay: c.Fetch.SettleDelay,
	}
}

// HTTPOptions converts the fetch settings into engine options.
func (c *FileConfig) HTTPOptions() browser.HTTPOptions {
	return browser.HTTPOptions{
		UserAgent: c.Fetch.UserAgent,
		Timeout:   c.Fetch.Timeout,
		Cookies:   c.Fetch.Cookies,
	}
}
