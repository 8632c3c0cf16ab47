package template

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"deckgen/style"
)

// Logo images larger than this are rejected; a slide cell does not need
// more, and an unbounded read would let a slow logo host hold generation
// memory hostage.
const maxLogoBytes = 1 << 20

// errLogoNotFound marks the negative cache entry for a domain.
var errLogoNotFound = fmt.Errorf("logo not found")

// LogoClient fetches company logos by bare domain from a logo service and
// caches results, hits and misses both. It implements style.LogoResolver;
// every failure is returned to the resolver, which degrades to literal text.
type LogoClient struct {
	baseURL string
	client  *http.Client
	cache   *gocache.Cache
	logger  func(string)
}

// NewLogoClient creates a client against a logo service base URL of the
// form "https://host/path" to which "/<domain>" is appended.
func NewLogoClient(baseURL string, logger func(string)) *LogoClient {
	return &LogoClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		cache:   gocache.New(1*time.Hour, 2*time.Hour),
		logger:  logger,
	}
}

func (c *LogoClient) log(msg string) {
	if c.logger != nil {
		c.logger(msg)
	}
}

// ResolveLogo implements style.LogoResolver.
func (c *LogoClient) ResolveLogo(ctx context.Context, domain string) (*style.Logo, error) {
	if cached, ok := c.cache.Get(domain); ok {
		if logo, ok := cached.(*style.Logo); ok {
			return logo, nil
		}
		return nil, errLogoNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+domain, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build logo request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("logo fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Negative result is cached too: a domain without a logo stays
		// without one for the lifetime of a deck job.
		c.cache.Set(domain, errLogoNotFound, gocache.DefaultExpiration)
		return nil, fmt.Errorf("logo service returned %d for %s", resp.StatusCode, domain)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read logo body: %w", err)
	}
	if len(data) > maxLogoBytes {
		return nil, fmt.Errorf("logo for %s exceeds %d bytes", domain, maxLogoBytes)
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/png"
	}
	logo := &style.Logo{Data: data, MIME: mime}
	c.cache.Set(domain, logo, gocache.DefaultExpiration)
	c.log(fmt.Sprintf("cached logo for %s (%d bytes, %s)", domain, len(data), mime))
	return logo, nil
}
