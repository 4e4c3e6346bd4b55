package extractor

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
	"github.com/samvad-hq/samvad-post-curator/internal/logger"
)

// Scraper acquires a page and extracts it. The fetch is the only blocking
// step; extraction runs only once HTML is fully in hand.
type Scraper struct {
	fetcher Fetcher
	policy  Policy
	log     logger.Logger
}

// NewScraper wires a scraper around fetcher using the given policy.
func NewScraper(fetcher Fetcher, policy Policy, log logger.Logger) *Scraper {
	return &Scraper{
		fetcher: fetcher,
		policy:  policy.withDefaults(),
		log:     logger.Ensure(log),
	}
}

// Scrape fetches pageURL and extracts it. Fetch failures come back as
// EUNAVAILABLE and never as an empty record.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (domain.ExtractionRecord, error) {
	pageURL = strings.TrimSpace(pageURL)
	if err := validatePageURL(pageURL); err != nil {
		return domain.ExtractionRecord{}, err
	}

	start := time.Now()
	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		s.log.WarnObj("page fetch failed", "fetch_error", map[string]any{
			"url":   pageURL,
			"error": err.Error(),
		})
		if domain.ErrorCode(err) != domain.EUNAVAILABLE {
			err = domain.WrapError(domain.EUNAVAILABLE, err, "fetch "+pageURL)
		}
		return domain.ExtractionRecord{}, err
	}

	rec := s.policy.Extract(html, pageURL)
	s.log.InfoObj("page extracted", "extraction", map[string]any{
		"url":        pageURL,
		"title":      rec.Title,
		"body_chars": domain.CharCount(rec.BodyText),
		"images":     len(rec.Images),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return rec, nil
}

func validatePageURL(raw string) error {
	if raw == "" {
		return domain.Errorf(domain.EVALIDATION, "URL required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.Errorf(domain.EVALIDATION, "URL %q must be an absolute http(s) URL", raw)
	}
	return nil
}
