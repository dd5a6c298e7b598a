package browser

import (
	"context"
	"errors"
)

// Engine errors.
var (
	// ErrStartup wraps any failure to bring an engine up.
	ErrStartup = errors.New("browsing engine failed to start")

	// ErrContextBusy is returned by OpenSecondary while another secondary
	// context is still open.
	ErrContextBusy = errors.New("a secondary context is already open")

	// ErrEngineClosed is returned by any call made after Close.
	ErrEngineClosed = errors.New("engine is closed")
)

// Engine loads pages. Navigate replaces what the primary context shows;
// OpenSecondary opens an auxiliary context that leaves the primary context
// untouched and must be closed before another can be opened.
type Engine interface {
	Navigate(ctx context.Context, rawURL string) (*Page, error)
	OpenSecondary(ctx context.Context, rawURL string) (Context, error)
	Close() error
}

// Context is a secondary browsing context holding one loaded page.
type Context interface {
	Page() *Page
	// Close releases the context. Closing twice is a no-op.
	Close() error
}
