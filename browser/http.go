package browser

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultUserAgent is a desktop Chrome user agent; some boards serve a
// reduced page to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"

// HTTPOptions configures an HTTPEngine.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
	// Cookies are sent with every request, e.g. {"over18": "1"} for boards
	// behind an age gate.
	Cookies map[string]string
}

// HTTPEngine is an Engine that loads server-rendered pages over HTTP.
type HTTPEngine struct {
	client *resty.Client

	mu        sync.Mutex
	secondary int
	closed    bool
}

// NewHTTPEngine creates an engine. Errors wrap ErrStartup.
func NewHTTPEngine(opts HTTPOptions) (*HTTPEngine, error) {
	if opts.Timeout < 0 {
		return nil, fmt.Errorf("%w: negative timeout %v", ErrStartup, opts.Timeout)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	client := resty.New()
	client.SetHeader("User-Agent", userAgent)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	for name, value := range opts.Cookies {
		client.SetCookie(&http.Cookie{Name: name, Value: value})
	}

	return &HTTPEngine{client: client}, nil
}

// Navigate loads rawURL into the primary context.
func (e *HTTPEngine) Navigate(ctx context.Context, rawURL string) (*Page, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	return e.load(ctx, rawURL)
}

// OpenSecondary loads rawURL into a new secondary context.
func (e *HTTPEngine) OpenSecondary(ctx context.Context, rawURL string) (Context, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrEngineClosed
	}
	if e.secondary > 0 {
		e.mu.Unlock()
		return nil, ErrContextBusy
	}
	e.secondary++
	e.mu.Unlock()

	page, err := e.load(ctx, rawURL)
	if err != nil {
		e.release()
		return nil, err
	}

	return &httpContext{engine: e, page: page}, nil
}

// OpenContexts reports how many secondary contexts are open.
func (e *HTTPEngine) OpenContexts() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.secondary
}

// Close shuts the engine down. Further calls fail with ErrEngineClosed.
func (e *HTTPEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func (e *HTTPEngine) checkOpen() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	return nil
}

func (e *HTTPEngine) release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.secondary > 0 {
		e.secondary--
	}
}

func (e *HTTPEngine) load(ctx context.Context, rawURL string) (*Page, error) {
	res, err := e.client.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: HTTP %s", rawURL, res.Status())
	}

	// Pages are resolved against where redirects ended up.
	finalURL := rawURL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		finalURL = res.RawResponse.Request.URL.String()
	}

	return NewPage(finalURL, bytes.NewReader(res.Body()))
}

type httpContext struct {
	engine *HTTPEngine
	page   *Page
	once   sync.Once
}

func (c *httpContext) Page() *Page {
	return c.page
}

func (c *httpContext) Close() error {
	c.once.Do(c.engine.release)
	return nil
}
