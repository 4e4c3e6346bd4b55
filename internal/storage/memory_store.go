package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
)

// memoryStore keeps tables in process memory. Records are held encoded so
// callers never share slices with stored state.
type memoryStore struct {
	scrapes *memoryTable[domain.SavedScrape, *domain.SavedScrape]
	posts   *memoryTable[domain.ScheduledPost, *domain.ScheduledPost]
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		scrapes: newMemoryTable[domain.SavedScrape, *domain.SavedScrape]("scrape", opts),
		posts:   newMemoryTable[domain.ScheduledPost, *domain.ScheduledPost]("post", opts),
	}
}

func (m *memoryStore) Scrapes() Table[domain.SavedScrape] { return m.scrapes }
func (m *memoryStore) Posts() Table[domain.ScheduledPost] { return m.posts }
func (m *memoryStore) Close() error                       { return nil }

type memoryTable[T any, P entity[T]] struct {
	mu   sync.RWMutex
	rows map[string][]byte
	keys []string
	kind string
	opts Options
}

func newMemoryTable[T any, P entity[T]](kind string, opts Options) *memoryTable[T, P] {
	return &memoryTable[T, P]{rows: make(map[string][]byte), kind: kind, opts: normalizeOptions(opts)}
}

func (t *memoryTable[T, P]) Insert(ctx context.Context, rec T) (T, error) {
	if err := ctx.Err(); err != nil {
		return rec, err
	}
	id := stamp[T, P](&rec, t.opts)
	raw, err := encode(rec)
	if err != nil {
		return rec, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[id]; exists {
		return rec, fmt.Errorf("%s id %q already exists", t.kind, id)
	}
	t.rows[id] = raw
	t.keys = append(t.keys, id)
	return rec, nil
}

func (t *memoryTable[T, P]) List(ctx context.Context, cmp func(a, b T) int) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	out := make([]T, 0, len(t.keys))
	for _, id := range t.keys {
		rec, err := decode[T](t.rows[id])
		if err != nil {
			t.mu.RUnlock()
			return nil, err
		}
		out = append(out, rec)
	}
	t.mu.RUnlock()

	if cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out, nil
}

func (t *memoryTable[T, P]) Update(ctx context.Context, id string, mutate func(*T) error) (T, error) {
	var rec T
	if err := ctx.Err(); err != nil {
		return rec, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	raw, ok := t.rows[id]
	if !ok {
		return rec, notFound(t.kind, id)
	}
	rec, err := decode[T](raw)
	if err != nil {
		return rec, err
	}
	if err := mutate(&rec); err != nil {
		return rec, err
	}
	P(&rec).SetID(id)
	updated, err := encode(rec)
	if err != nil {
		return rec, err
	}
	t.rows[id] = updated
	return rec, nil
}

func (t *memoryTable[T, P]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return notFound(t.kind, id)
	}
	delete(t.rows, id)
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool { return k == id })
	return nil
}
