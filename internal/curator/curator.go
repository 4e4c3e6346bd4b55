// Package curator holds the single editable copy of the latest extraction.
//
// Nothing is validated here; the archive and the scheduler validate at
// their own boundaries, so an operator may pass through invalid
// intermediate states (an over-length body, say) while editing.
package curator

import (
	"sync"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
)

// Curator stages at most one extraction record for editing.
type Curator struct {
	mu     sync.Mutex
	staged *domain.ExtractionRecord
}

// New returns an empty curator.
func New() *Curator {
	return &Curator{}
}

// Stage replaces the staged copy with a deep copy of rec.
func (c *Curator) Stage(rec domain.ExtractionRecord) {
	cp := rec.Clone()
	c.mu.Lock()
	c.staged = &cp
	c.mu.Unlock()
}

// Current returns a copy of the staged record.
func (c *Curator) Current() (domain.ExtractionRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.staged == nil {
		return domain.ExtractionRecord{}, false
	}
	return c.staged.Clone(), true
}

// Staged reports whether a record is staged.
func (c *Curator) Staged() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.staged != nil
}

// EditTitle replaces the staged title.
func (c *Curator) EditTitle(title string) error {
	return c.edit(func(r *domain.ExtractionRecord) error {
		r.Title = title
		return nil
	})
}

// EditBody replaces the staged body text.
func (c *Curator) EditBody(body string) error {
	return c.edit(func(r *domain.ExtractionRecord) error {
		r.BodyText = body
		return nil
	})
}

// EditImages replaces the staged image list.
func (c *Curator) EditImages(images []string) error {
	return c.edit(func(r *domain.ExtractionRecord) error {
		r.Images = append([]string(nil), images...)
		return nil
	})
}

// RemoveImage deletes the image at index; later entries shift left.
func (c *Curator) RemoveImage(index int) error {
	return c.edit(func(r *domain.ExtractionRecord) error {
		if index < 0 || index >= len(r.Images) {
			return domain.Errorf(domain.EVALIDATION, "image index %d out of range (have %d)", index, len(r.Images))
		}
		r.Images = append(r.Images[:index:index], r.Images[index+1:]...)
		return nil
	})
}

// Clear discards the staged copy.
func (c *Curator) Clear() {
	c.mu.Lock()
	c.staged = nil
	c.mu.Unlock()
}

// Draft prefills a post for platform from the staged record: the body cut
// to the platform limit and the first image, if any, as the only media URL.
// The scheduled time is left for the caller.
func (c *Curator) Draft(platform domain.Platform) (domain.PostInput, error) {
	if !platform.Valid() {
		return domain.PostInput{}, domain.Errorf(domain.EVALIDATION, "unsupported platform %q", platform)
	}
	rec, ok := c.Current()
	if !ok {
		return domain.PostInput{}, errNothingStaged()
	}
	if rec.BodyText == "" {
		return domain.PostInput{}, domain.Errorf(domain.EVALIDATION, "staged content is empty")
	}
	in := domain.PostInput{
		Content:  domain.TruncateChars(rec.BodyText, platform.CharLimit()),
		Platform: platform,
	}
	if len(rec.Images) > 0 {
		in.MediaURLs = []string{rec.Images[0]}
	}
	return in, nil
}

func (c *Curator) edit(fn func(*domain.ExtractionRecord) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.staged == nil {
		return errNothingStaged()
	}
	return fn(c.staged)
}

func errNothingStaged() error {
	return domain.Errorf(domain.ENOTFOUND, "no extraction staged")
}
