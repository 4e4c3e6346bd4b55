package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Platform is a social network a post can be published to.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
)

const (
	// MicroblogCharLimit applies to the microblogging platform.
	MicroblogCharLimit = 280
	// DefaultCharLimit applies to every other platform.
	DefaultCharLimit = 2000
)

// Platforms lists the supported platforms in display order.
func Platforms() []Platform {
	return []Platform{PlatformTwitter, PlatformFacebook, PlatformInstagram, PlatformLinkedIn}
}

// ParsePlatform resolves a platform name case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", Errorf(EVALIDATION, "unsupported platform %q", s)
	}
	return p, nil
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformTwitter, PlatformFacebook, PlatformInstagram, PlatformLinkedIn:
		return true
	}
	return false
}

// CharLimit is the maximum content length, in characters, accepted for p.
func (p Platform) CharLimit() int {
	if p == PlatformTwitter {
		return MicroblogCharLimit
	}
	return DefaultCharLimit
}

// ScheduledPost is a unit of future publication intent.
type ScheduledPost struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	Platform      Platform  `json:"platform"`
	ScheduledTime time.Time `json:"scheduled_time"`
	MediaURLs     []string  `json:"media_urls"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func (p *ScheduledPost) GetID() string            { return p.ID }
func (p *ScheduledPost) SetID(id string)          { p.ID = id }
func (p *ScheduledPost) SetCreatedAt(t time.Time) { p.CreatedAt = t }

// Clone returns a copy that shares no slices with p.
func (p ScheduledPost) Clone() ScheduledPost {
	out := p
	if p.MediaURLs != nil {
		out.MediaURLs = append([]string(nil), p.MediaURLs...)
	}
	return out
}

// CompareScheduledTime orders posts by ascending scheduled time, then id.
func CompareScheduledTime(a, b ScheduledPost) int {
	if c := a.ScheduledTime.Compare(b.ScheduledTime); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// PostInput carries the caller-supplied fields of a new post.
type PostInput struct {
	Content       string
	Platform      Platform
	ScheduledTime time.Time
	MediaURLs     []string
}

// Validate checks the input against the scheduling rules as of now.
func (in PostInput) Validate(now time.Time) error {
	if strings.TrimSpace(in.Content) == "" {
		return Errorf(EVALIDATION, "post content required")
	}
	if !in.Platform.Valid() {
		return Errorf(EVALIDATION, "unsupported platform %q", in.Platform)
	}
	if in.ScheduledTime.IsZero() {
		return Errorf(EVALIDATION, "scheduled time required")
	}
	if in.ScheduledTime.Before(now) {
		return Errorf(EVALIDATION, "scheduled time %s is in the past", in.ScheduledTime.Format(time.RFC3339))
	}
	if n, limit := CharCount(in.Content), in.Platform.CharLimit(); n > limit {
		return Errorf(EVALIDATION, "content is %d characters, %s allows %d", n, in.Platform, limit)
	}
	return nil
}

// CharCount counts characters the way platform limits are enforced.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

// TruncateChars cuts s to at most n characters with no regard for word boundaries.
func TruncateChars(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// localInputLayout is the format produced by HTML datetime-local inputs.
const localInputLayout = "2006-01-02T15:04"

// ParseScheduledTime resolves s to an absolute timestamp. RFC3339 values keep
// their offset; datetime-local values are read in loc.
func ParseScheduledTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, Errorf(EVALIDATION, "scheduled time required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(localInputLayout, s, loc)
	if err != nil {
		return time.Time{}, Errorf(EVALIDATION, "scheduled time %q is not a valid timestamp", s)
	}
	return t, nil
}
