package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
)

func testEvent() Event {
	return NewEvent(domain.ScheduledPost{
		ID:            "post-1",
		Content:       "hello world",
		Platform:      domain.PlatformTwitter,
		ScheduledTime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		MediaURLs:     []string{"https://cdn.example.com/a.jpg"},
		Status:        domain.StatusPending,
	}, time.Date(2026, 3, 1, 9, 0, 5, 0, time.UTC))
}
