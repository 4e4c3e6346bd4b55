package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	scrapeBucket = "scrapes"
	postBucket   = "posts"
)

// boltStore implements a Store backed by BoltDB, one bucket per table.
type boltStore struct {
	db      *bolt.DB
	scrapes *boltTable[domain.SavedScrape, *domain.SavedScrape]
	posts   *boltTable[domain.ScheduledPost, *domain.ScheduledPost]
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{scrapeBucket, postBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &boltStore{
		db:      db,
		scrapes: &boltTable[domain.SavedScrape, *domain.SavedScrape]{db: db, bucket: scrapeBucket, kind: "scrape", opts: opts},
		posts:   &boltTable[domain.ScheduledPost, *domain.ScheduledPost]{db: db, bucket: postBucket, kind: "post", opts: opts},
	}, nil
}

func (b *boltStore) Scrapes() Table[domain.SavedScrape] { return b.scrapes }
func (b *boltStore) Posts() Table[domain.ScheduledPost] { return b.posts }

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// boltTable stores JSON-encoded records keyed by id in a single bucket.
type boltTable[T any, P entity[T]] struct {
	db     *bolt.DB
	bucket string
	kind   string
	opts   Options
}

func (t *boltTable[T, P]) Insert(ctx context.Context, rec T) (T, error) {
	if err := ctx.Err(); err != nil {
		return rec, err
	}
	id := stamp[T, P](&rec, t.opts)
	raw, err := encode(rec)
	if err != nil {
		return rec, err
	}
	err = t.db.Update(func(tx *bolt.Tx) error {
		bucket, err := t.bucketFor(tx)
		if err != nil {
			return err
		}
		if bucket.Get([]byte(id)) != nil {
			return fmt.Errorf("%s id %q already exists", t.kind, id)
		}
		return bucket.Put([]byte(id), raw)
	})
	return rec, err
}

func (t *boltTable[T, P]) List(ctx context.Context, cmp func(a, b T) int) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]T, 0)
	err := t.db.View(func(tx *bolt.Tx) error {
		bucket, err := t.bucketFor(tx)
		if err != nil {
			return err
		}
		return bucket.ForEach(func(_, v []byte) error {
			rec, err := decode[T](v)
			if err != nil {
				return err
			}
			out = append(out, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out, nil
}

func (t *boltTable[T, P]) Update(ctx context.Context, id string, mutate func(*T) error) (T, error) {
	var rec T
	if err := ctx.Err(); err != nil {
		return rec, err
	}
	err := t.db.Update(func(tx *bolt.Tx) error {
		bucket, err := t.bucketFor(tx)
		if err != nil {
			return err
		}
		raw := bucket.Get([]byte(id))
		if raw == nil {
			return notFound(t.kind, id)
		}
		if rec, err = decode[T](raw); err != nil {
			return err
		}
		if err := mutate(&rec); err != nil {
			return err
		}
		P(&rec).SetID(id)
		updated, err := encode(rec)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(id), updated)
	})
	return rec, err
}

func (t *boltTable[T, P]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.db.Update(func(tx *bolt.Tx) error {
		bucket, err := t.bucketFor(tx)
		if err != nil {
			return err
		}
		if bucket.Get([]byte(id)) == nil {
			return notFound(t.kind, id)
		}
		return bucket.Delete([]byte(id))
	})
}

func (t *boltTable[T, P]) bucketFor(tx *bolt.Tx) (*bolt.Bucket, error) {
	bucket := tx.Bucket([]byte(t.bucket))
	if bucket == nil {
		return nil, fmt.Errorf("%s bucket missing", t.bucket)
	}
	return bucket, nil
}
