package publishers

import (
	"context"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
)

// Publisher delivers a due post to a downstream sink (webhook, queue, topic).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Router is implemented by publishers that only accept some platforms.
type Router interface {
	Accepts(platform domain.Platform) bool
}
