// Package storage is the persistence collaborator behind the scrape archive
// and the post lifecycle manager.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/samvad-post-curator/internal/domain"
)

// Table is the minimal persistence contract for one entity type.
// Errors other than domain ENOTFOUND are transport/availability failures.
type Table[T any] interface {
	// Insert assigns an id and creation timestamp and stores rec.
	Insert(ctx context.Context, rec T) (T, error)
	// List returns every record ordered by cmp; nil cmp leaves key order.
	List(ctx context.Context, cmp func(a, b T) int) ([]T, error)
	// Update applies mutate atomically. An error from mutate aborts the write.
	Update(ctx context.Context, id string, mutate func(*T) error) (T, error)
	// Delete removes the record; ENOTFOUND when absent.
	Delete(ctx context.Context, id string) error
}

// Store bundles the tables the curator persists.
type Store interface {
	Scrapes() Table[domain.SavedScrape]
	Posts() Table[domain.ScheduledPost]
	Close() error
}

// Options controls identity and clock behaviour for concrete stores.
type Options struct {
	Now   func() time.Time
	NewID func() string
}

const (
	TypeBBolt  = "bbolt"
	TypeMemory = "memory"
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeMemory:
		return newMemoryStore(opts), nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return opts
}

// entity is satisfied by pointers to records that carry identity.
type entity[T any] interface {
	*T
	GetID() string
	SetID(string)
	SetCreatedAt(time.Time)
}

func stamp[T any, P entity[T]](rec *T, opts Options) string {
	id := opts.NewID()
	P(rec).SetID(id)
	P(rec).SetCreatedAt(opts.Now().UTC())
	return id
}

func encode[T any](rec T) ([]byte, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return raw, nil
}

func decode[T any](raw []byte) (T, error) {
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

func notFound(kind, id string) error {
	return domain.Errorf(domain.ENOTFOUND, "%s %q not found", kind, id)
}
