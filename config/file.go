package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pevans/boardcrawl/scraper"
	"gopkg.in/yaml.v3"
)

// BoardSection selects the board and how far back to read.
type BoardSection struct {
	URL       string              `yaml:"url"`
	Pages     int                 `yaml:"pages"`
	Selectors scraper.BoardConfig `yaml:"selectors"`
}

// FetchSection controls how pages are loaded.
type FetchSection struct {
	UserAgent   string            `yaml:"user_agent"`
	Timeout     time.Duration     `yaml:"timeout"`
	StartDelay  time.Duration     `yaml:"start_delay"`
	PageDelay   time.Duration     `yaml:"page_delay"`
	SettleDelay time.Duration     `yaml:"settle_delay"`
	Cookies     map[string]string `yaml:"cookies"`
}

// OutputSection chooses the sink.
type OutputSection struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// FileConfig represents the structure of a boardcrawl YAML config file.
type FileConfig struct {
	Board  BoardSection  `yaml:"board"`
	Fetch  FetchSection  `yaml:"fetch"`
	Output OutputSection `yaml:"output"`
}

// LoadConfigFile loads configuration from path. Returns nil if the file
// doesn't exist (not an error). Returns error if the file exists but cannot
// be parsed.
func LoadConfigFile(path string) (*FileConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
