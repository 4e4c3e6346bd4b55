package main

import (
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
)

const previewChars = 60

// Run executes the posts schedule command.
func (c *PostsScheduleCmd) Run(deps *Dependencies) error {
	platform, err := domain.ParsePlatform(c.Platform)
	if err != nil {
		return fail(deps, err)
	}
	at, err := domain.ParseScheduledTime(c.At, deps.Location)
	if err != nil {
		return fail(deps, err)
	}

	post, err := deps.Workspace.Schedule.Schedule(deps.Ctx, domain.PostInput{
		Content:       c.Content,
		Platform:      platform,
		ScheduledTime: at,
		MediaURLs:     c.Media,
	})
	if err != nil {
		return fail(deps, err)
	}
	fmt.Fprintf(deps.Stdout, "Scheduled post %s for %s on %s (%d/%d characters)\n",
		post.ID, post.Platform, formatTime(deps, post.ScheduledTime),
		domain.CharCount(post.Content), post.Platform.CharLimit())
	return nil
}

// Run executes the posts list command.
func (c *PostsListCmd) Run(deps *Dependencies) error {
	filter, err := domain.ParseStatusFilter(c.Status)
	if err != nil {
		return fail(deps, err)
	}
	posts, err := deps.Workspace.Schedule.List(filter)
	if err != nil {
		return fail(deps, err)
	}

	if len(posts) == 0 {
		fmt.Fprintln(deps.Stdout, "No scheduled posts. Use 'curator posts schedule' to add one.")
		return nil
	}
	for _, p := range posts {
		fmt.Fprintf(deps.Stdout, "%s  %-9s  %-9s  %s  %s\n",
			p.ID, p.Status, p.Platform, formatTime(deps, p.ScheduledTime), preview(p.Content))
	}
	return nil
}

// Run executes the posts complete command.
func (c *PostsCompleteCmd) Run(deps *Dependencies) error {
	return updateStatus(deps, c.ID, domain.StatusCompleted)
}

// Run executes the posts fail command.
func (c *PostsFailCmd) Run(deps *Dependencies) error {
	return updateStatus(deps, c.ID, domain.StatusFailed)
}

// Run executes the posts delete command.
func (c *PostsDeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Workspace.Schedule.Delete(deps.Ctx, c.ID); err != nil {
		return fail(deps, err)
	}
	fmt.Fprintf(deps.Stdout, "Deleted post %s\n", c.ID)
	return nil
}

func updateStatus(deps *Dependencies, id string, to domain.Status) error {
	post, err := deps.Workspace.Schedule.UpdateStatus(deps.Ctx, id, to)
	if err != nil {
		return fail(deps, err)
	}
	fmt.Fprintf(deps.Stdout, "Post %s is now %s\n", post.ID, post.Status)
	return nil
}

func preview(content string) string {
	if domain.CharCount(content) <= previewChars {
		return content
	}
	return domain.TruncateChars(content, previewChars-3) + "..."
}

func formatTime(deps *Dependencies, t time.Time) string {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02 15:04 MST")
}
