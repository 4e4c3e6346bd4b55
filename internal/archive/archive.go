// Package archive keeps previously saved extraction records.
package archive

import (
	"context"
	"strings"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
	"github.com/samvad-hq/samvad-post-curator/internal/logger"
	"github.com/samvad-hq/samvad-post-curator/internal/storage"
)

// Archive saves, lists and deletes scrapes. Saved scrapes are immutable.
type Archive struct {
	table storage.Table[domain.SavedScrape]
	log   logger.Logger
}

// New wires an archive over the scrapes table.
func New(table storage.Table[domain.SavedScrape], log logger.Logger) *Archive {
	return &Archive{table: table, log: logger.Ensure(log)}
}

// Save snapshots rec as a whole. It needs a source URL and a title or body.
func (a *Archive) Save(ctx context.Context, rec domain.ExtractionRecord) (domain.SavedScrape, error) {
	scrape := domain.NewSavedScrape(rec)
	scrape.SourceURL = strings.TrimSpace(scrape.SourceURL)
	if err := scrape.Validate(); err != nil {
		return domain.SavedScrape{}, err
	}

	saved, err := a.table.Insert(ctx, scrape)
	if err != nil {
		return domain.SavedScrape{}, domain.Persistence(err, "save scrape")
	}
	a.log.InfoObj("scrape saved", "scrape", map[string]any{
		"id":         saved.ID,
		"source_url": saved.SourceURL,
		"images":     len(saved.Images),
	})
	return saved, nil
}

// List returns saved scrapes, most recent first.
func (a *Archive) List(ctx context.Context) ([]domain.SavedScrape, error) {
	scrapes, err := a.table.List(ctx, newestFirst)
	if err != nil {
		return nil, domain.Persistence(err, "list scrapes")
	}
	return scrapes, nil
}

// Delete removes a saved scrape; ENOTFOUND when it does not exist.
func (a *Archive) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Errorf(domain.EVALIDATION, "scrape id required")
	}
	if err := a.table.Delete(ctx, id); err != nil {
		return domain.Persistence(err, "delete scrape")
	}
	a.log.InfoObj("scrape deleted", "scrape_id", id)
	return nil
}

// Count returns the number of saved scrapes.
func (a *Archive) Count(ctx context.Context) (int, error) {
	scrapes, err := a.table.List(ctx, nil)
	if err != nil {
		return 0, domain.Persistence(err, "count scrapes")
	}
	return len(scrapes), nil
}

func newestFirst(a, b domain.SavedScrape) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(b.ID, a.ID)
}
