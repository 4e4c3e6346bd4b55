package extractor

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
	"github.com/samvad-hq/samvad-post-curator/pkg/httpclient"
)

const (
	defaultMaxHTMLBodyBytes = 2 << 20 // 2 MiB
	defaultFetchTimeout     = 15 * time.Second
	snippetLen              = 256
)

// Fetcher acquires raw HTML for a page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// FetchOptions configures HTTPFetcher.
type FetchOptions struct {
	Timeout time.Duration
	// ProxyPrefix, when set, is prepended to the query-escaped page URL.
	ProxyPrefix  string
	MaxBodyBytes int
	Headers      map[string]string
}

// HTTPFetcher fetches pages through an httpclient.Client.
type HTTPFetcher struct {
	client httpclient.Client
	opts   FetchOptions
}

// NewHTTPFetcher wires a fetcher; a nil client gets a resty client.
func NewHTTPFetcher(client httpclient.Client, opts FetchOptions) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultFetchTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxHTMLBodyBytes
	}
	if client == nil {
		client = httpclient.NewRestyClient(httpclient.Options{Timeout: opts.Timeout})
	}
	return &HTTPFetcher{client: client, opts: opts}
}

// Fetch returns the page HTML. Every failure, including timeouts and
// cancellation, is reported as EUNAVAILABLE.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	resp, err := f.client.Get(ctx, f.requestURL(pageURL), f.opts.Headers)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", domain.WrapError(domain.EUNAVAILABLE, err, "fetch "+pageURL)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return "", domain.Errorf(domain.EUNAVAILABLE, "fetch %s returned status %d: %s", pageURL, resp.StatusCode(), snippet(body))
	}
	if len(body) > f.opts.MaxBodyBytes {
		body = body[:f.opts.MaxBodyBytes]
	}
	if strings.TrimSpace(string(body)) == "" {
		return "", domain.Errorf(domain.EUNAVAILABLE, "fetch %s returned an empty document", pageURL)
	}
	return string(body), nil
}

func (f *HTTPFetcher) requestURL(pageURL string) string {
	if f.opts.ProxyPrefix == "" {
		return pageURL
	}
	return f.opts.ProxyPrefix + url.QueryEscape(pageURL)
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > snippetLen {
		return s[:snippetLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
