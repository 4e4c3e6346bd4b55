package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
)

// Event is the payload handed to every publisher for a due post.
type Event struct {
	Post         domain.ScheduledPost `json:"post"`
	DispatchedAt time.Time            `json:"dispatched_at"`
}

// NewEvent wraps post for delivery at the given instant.
func NewEvent(post domain.ScheduledPost, at time.Time) Event {
	return Event{Post: post.Clone(), DispatchedAt: at.UTC()}
}

// attributes are attached to queue and topic messages for consumer-side routing.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"platform": string(e.Post.Platform),
		"post_id":  e.Post.ID,
	}
}
