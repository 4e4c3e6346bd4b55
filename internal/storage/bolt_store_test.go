package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
)

func fixedOptions() Options {
	n := 0
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return Options{
		Now: func() time.Time { return base.Add(time.Duration(n) * time.Minute) },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%02d", n)
		},
	}
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()

	bolt, err := NewStore(TypeBBolt, filepath.Join(t.TempDir(), "nested", "curator.db"), fixedOptions())
	if err != nil {
		t.Fatalf("open bbolt: %v", err)
	}
	t.Cleanup(func() { bolt.Close() })

	mem, err := NewStore(TypeMemory, "", fixedOptions())
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	return map[string]Store{TypeBBolt: bolt, TypeMemory: mem}
}

func TestTableInsertAssignsIdentity(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			saved, err := store.Scrapes().Insert(ctx, domain.SavedScrape{SourceURL: "https://e.com", Title: "T"})
			if err != nil {
				t.Fatalf("Insert: %v", err)
			}
			if saved.ID != "id-01" {
				t.Fatalf("expected assigned id, got %q", saved.ID)
			}
			if saved.CreatedAt.IsZero() {
				t.Fatalf("expected CreatedAt to be set")
			}

			list, err := store.Scrapes().List(ctx, nil)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != 1 || list[0].Title != "T" || !list[0].CreatedAt.Equal(saved.CreatedAt) {
				t.Fatalf("unexpected list %#v", list)
			}
		})
	}
}

func TestTableListOrdersByComparator(t *testing.T) {
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, h := range []int{3, 1, 2} {
				if _, err := store.Posts().Insert(ctx, domain.ScheduledPost{
					Content:       fmt.Sprintf("t%d", h),
					ScheduledTime: base.Add(time.Duration(h) * time.Hour),
					Status:        domain.StatusPending,
				}); err != nil {
					t.Fatalf("Insert: %v", err)
				}
			}

			posts, err := store.Posts().List(ctx, domain.CompareScheduledTime)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			var got []string
			for _, p := range posts {
				got = append(got, p.Content)
			}
			if strings.Join(got, ",") != "t1,t2,t3" {
				t.Fatalf("unexpected order %v", got)
			}
		})
	}
}

func TestTableUpdate(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			post, err := store.Posts().Insert(ctx, domain.ScheduledPost{Content: "c", Status: domain.StatusPending})
			if err != nil {
				t.Fatalf("Insert: %v", err)
			}

			updated, err := store.Posts().Update(ctx, post.ID, func(p *domain.ScheduledPost) error {
				p.Status = domain.StatusCompleted
				p.ID = "hijack"
				return nil
			})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if updated.Status != domain.StatusCompleted || updated.ID != post.ID {
				t.Fatalf("unexpected update result %#v", updated)
			}

			boom := errors.New("rejected")
			if _, err := store.Posts().Update(ctx, post.ID, func(p *domain.ScheduledPost) error {
				p.Status = domain.StatusFailed
				return boom
			}); !errors.Is(err, boom) {
				t.Fatalf("expected mutate error, got %v", err)
			}

			list, _ := store.Posts().List(ctx, nil)
			if len(list) != 1 || list[0].Status != domain.StatusCompleted {
				t.Fatalf("aborted update must not persist, got %#v", list)
			}

			_, err = store.Posts().Update(ctx, "missing", func(*domain.ScheduledPost) error { return nil })
			if domain.ErrorCode(err) != domain.ENOTFOUND {
				t.Fatalf("expected ENOTFOUND, got %v", err)
			}
		})
	}
}

func TestTableDelete(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			saved, _ := store.Scrapes().Insert(ctx, domain.SavedScrape{Title: "a"})
			kept, _ := store.Scrapes().Insert(ctx, domain.SavedScrape{Title: "b"})

			if err := store.Scrapes().Delete(ctx, saved.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := store.Scrapes().Delete(ctx, saved.ID); domain.ErrorCode(err) != domain.ENOTFOUND {
				t.Fatalf("expected ENOTFOUND on second delete, got %v", err)
			}

			list, _ := store.Scrapes().List(ctx, nil)
			if len(list) != 1 || list[0].ID != kept.ID {
				t.Fatalf("unexpected remaining %#v", list)
			}
		})
	}
}

func TestTableHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Posts().Insert(ctx, domain.ScheduledPost{}); !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v", err)
			}
		})
	}
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curator.db")
	store, err := NewStore(TypeBBolt, path, Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	saved, err := store.Posts().Insert(context.Background(), domain.ScheduledPost{
		Content:   "persist me",
		MediaURLs: []string{"https://e.com/a.jpg"},
		Status:    domain.StatusPending,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore(TypeBBolt, path, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	posts, err := reopened.Posts().List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != saved.ID || posts[0].MediaURLs[0] != "https://e.com/a.jpg" {
		t.Fatalf("unexpected posts after reopen %#v", posts)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore(TypeBBolt, " ", Options{}); err == nil {
		t.Fatalf("expected error for missing bbolt path")
	}
}
