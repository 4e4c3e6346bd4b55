// Package schedule owns the time-ordered queue of scheduled posts and the
// status state machine that governs each post.
package schedule

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
	"github.com/samvad-hq/samvad-post-curator/internal/logger"
	"github.com/samvad-hq/samvad-post-curator/internal/storage"
)

// Recorder observes lifecycle events.
type Recorder interface {
	PostScheduled(platform domain.Platform)
	PostTransitioned(to domain.Status)
	PostDeleted()
	TransitionRejected()
}

type nopRecorder struct{}

func (nopRecorder) PostScheduled(domain.Platform) {}
func (nopRecorder) PostTransitioned(domain.Status) {}
func (nopRecorder) PostDeleted()                  {}
func (nopRecorder) TransitionRejected()           {}

// Manager keeps an in-memory queue ordered by scheduled time, mirrored to a
// persistence table. Writes are serialized and reach the table before the
// queue changes, so a failed write leaves the queue untouched. Reads see a
// consistent snapshot.
type Manager struct {
	mu    sync.RWMutex
	posts []domain.ScheduledPost

	table    storage.Table[domain.ScheduledPost]
	now      func() time.Time
	log      logger.Logger
	recorder Recorder
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the clock used to reject past scheduled times.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithRecorder attaches a lifecycle observer.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) {
		if r != nil {
			m.recorder = r
		}
	}
}

// New builds an empty manager over table. Call Load to hydrate it.
func New(table storage.Table[domain.ScheduledPost], log logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		table:    table,
		now:      time.Now,
		log:      logger.Ensure(log),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the queue with what the table holds.
func (m *Manager) Load(ctx context.Context) error {
	posts, err := m.table.List(ctx, domain.CompareScheduledTime)
	if err != nil {
		return domain.Persistence(err, "load scheduled posts")
	}

	m.mu.Lock()
	m.posts = posts
	m.mu.Unlock()

	m.log.InfoObj("scheduled posts loaded", "queue", map[string]any{"count": len(posts)})
	return nil
}

// Schedule validates in, persists a pending post and inserts it in order.
// Over-limit content is rejected, never truncated.
func (m *Manager) Schedule(ctx context.Context, in domain.PostInput) (domain.ScheduledPost, error) {
	if err := in.Validate(m.now()); err != nil {
		return domain.ScheduledPost{}, err
	}

	media := make([]string, 0, len(in.MediaURLs))
	for _, u := range in.MediaURLs {
		if u = strings.TrimSpace(u); u != "" {
			media = append(media, u)
		}
	}
	post := domain.ScheduledPost{
		Content:       in.Content,
		Platform:      in.Platform,
		ScheduledTime: in.ScheduledTime.UTC(),
		MediaURLs:     media,
		Status:        domain.StatusPending,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, err := m.table.Insert(ctx, post)
	if err != nil {
		return domain.ScheduledPost{}, domain.Persistence(err, "schedule post")
	}

	idx, _ := slices.BinarySearchFunc(m.posts, stored, domain.CompareScheduledTime)
	m.posts = slices.Insert(m.posts, idx, stored)

	m.recorder.PostScheduled(stored.Platform)
	m.log.InfoObj("post scheduled", "post", map[string]any{
		"id":             stored.ID,
		"platform":       stored.Platform,
		"scheduled_time": stored.ScheduledTime,
		"chars":          domain.CharCount(stored.Content),
		"media":          len(stored.MediaURLs),
	})
	return stored.Clone(), nil
}

// UpdateStatus moves a pending post to completed or failed. Unknown ids are
// ENOTFOUND; a post that is already terminal is EINVALIDTRANSITION, even when
// the requested status matches the current one.
func (m *Manager) UpdateStatus(ctx context.Context, id string, to domain.Status) (domain.ScheduledPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return domain.ScheduledPost{}, errPostNotFound(id)
	}
	current := m.posts[idx]
	if err := current.Status.Transition(to); err != nil {
		m.rejected(current, to, err)
		return domain.ScheduledPost{}, err
	}

	var seen domain.ScheduledPost
	updated, err := m.table.Update(ctx, id, func(p *domain.ScheduledPost) error {
		seen = *p
		if err := p.Status.Transition(to); err != nil {
			return err
		}
		p.Status = to
		return nil
	})
	if err != nil {
		if domain.IsCode(err, domain.EINVALIDTRANSITION) {
			// Another writer got there first; adopt the stored state.
			m.posts[idx].Status = seen.Status
			m.rejected(seen, to, err)
			return domain.ScheduledPost{}, err
		}
		return domain.ScheduledPost{}, domain.Persistence(err, "update post status")
	}

	m.posts[idx].Status = updated.Status
	m.recorder.PostTransitioned(to)
	m.log.InfoObj("post status updated", "post_status", map[string]any{
		"id":   id,
		"from": current.Status,
		"to":   to,
	})
	return m.posts[idx].Clone(), nil
}

// Delete removes a post regardless of status.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return errPostNotFound(id)
	}
	if err := m.table.Delete(ctx, id); err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			m.posts = slices.Delete(m.posts, idx, idx+1)
			return err
		}
		return domain.Persistence(err, "delete post")
	}

	m.posts = slices.Delete(m.posts, idx, idx+1)
	m.recorder.PostDeleted()
	m.log.InfoObj("post deleted", "post_id", id)
	return nil
}

// Get returns one post by id.
func (m *Manager) Get(id string) (domain.ScheduledPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return domain.ScheduledPost{}, errPostNotFound(id)
	}
	return m.posts[idx].Clone(), nil
}

// List returns the posts matching filter in ascending scheduled time.
func (m *Manager) List(filter domain.StatusFilter) ([]domain.ScheduledPost, error) {
	if filter == "" {
		filter = domain.FilterAll
	}
	if filter != domain.FilterAll && !domain.Status(filter).Valid() {
		return nil, domain.Errorf(domain.EVALIDATION, "unknown status filter %q", filter)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.ScheduledPost, 0, len(m.posts))
	for _, p := range m.posts {
		if filter.Match(p.Status) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

// Due returns pending posts scheduled at or before now, oldest first.
func (m *Manager) Due(now time.Time) []domain.ScheduledPost {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.ScheduledPost
	for _, p := range m.posts {
		if p.ScheduledTime.After(now) {
			break
		}
		if p.Status == domain.StatusPending {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Counts fills the scheduling half of the dashboard stats.
func (m *Manager) Counts() domain.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := domain.Stats{TotalScheduled: len(m.posts)}
	for _, p := range m.posts {
		switch p.Status {
		case domain.StatusPending:
			s.Pending++
		case domain.StatusCompleted:
			s.Completed++
		case domain.StatusFailed:
			s.Failed++
		}
	}
	return s
}

func (m *Manager) indexOf(id string) int {
	return slices.IndexFunc(m.posts, func(p domain.ScheduledPost) bool { return p.ID == id })
}

func (m *Manager) rejected(p domain.ScheduledPost, to domain.Status, err error) {
	if !domain.IsCode(err, domain.EINVALIDTRANSITION) {
		return
	}
	m.recorder.TransitionRejected()
	m.log.WarnObj("post status transition rejected", "post_status", map[string]any{
		"id":   p.ID,
		"from": p.Status,
		"to":   to,
	})
}

func errPostNotFound(id string) error {
	return domain.Errorf(domain.ENOTFOUND, "post %q not found", id)
}
