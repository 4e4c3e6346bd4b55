package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samvad-hq/samvad-post-curator/internal/domain"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	ws := deps.Workspace
	if c.Schedule && (c.Platform == "" || c.At == "") {
		return fail(deps, domain.Errorf(domain.EVALIDATION, "--schedule needs --platform and --at"))
	}

	rec, err := ws.Scraper.Scrape(deps.Ctx, c.URL)
	if err != nil {
		return fail(deps, err)
	}
	ws.Curator.Stage(rec)

	if err := c.applyEdits(deps); err != nil {
		return fail(deps, err)
	}
	staged, _ := ws.Curator.Current()
	printExtraction(deps, staged)

	if c.Save {
		saved, err := ws.Archive.Save(deps.Ctx, staged)
		if err != nil {
			return fail(deps, err)
		}
		fmt.Fprintf(deps.Stdout, "Saved scrape %s\n", saved.ID)
	}

	if c.Schedule {
		platform, err := domain.ParsePlatform(c.Platform)
		if err != nil {
			return fail(deps, err)
		}
		in, err := ws.Curator.Draft(platform)
		if c.Content != "" {
			in, err = domain.PostInput{Content: c.Content, Platform: platform}, nil
			if len(staged.Images) > 0 {
				in.MediaURLs = staged.Images[:1]
			}
		}
		if err != nil {
			return fail(deps, err)
		}
		if in.ScheduledTime, err = domain.ParseScheduledTime(c.At, deps.Location); err != nil {
			return fail(deps, err)
		}
		post, err := ws.Schedule.Schedule(deps.Ctx, in)
		if err != nil {
			return fail(deps, err)
		}
		fmt.Fprintf(deps.Stdout, "Scheduled post %s for %s on %s\n", post.ID, post.Platform, formatTime(deps, post.ScheduledTime))
	}
	return nil
}

func (c *ScrapeCmd) applyEdits(deps *Dependencies) error {
	cur := deps.Workspace.Curator
	if c.Title != "" {
		if err := cur.EditTitle(c.Title); err != nil {
			return err
		}
	}
	if c.Body != "" {
		if err := cur.EditBody(c.Body); err != nil {
			return err
		}
	}

	// Remove from the highest index down so earlier indexes stay valid.
	drops := slices.Clone(c.DropImage)
	slices.Sort(drops)
	drops = slices.Compact(drops)
	for i := len(drops) - 1; i >= 0; i-- {
		if err := cur.RemoveImage(drops[i]); err != nil {
			return err
		}
	}
	return nil
}

func printExtraction(deps *Dependencies, rec domain.ExtractionRecord) {
	fmt.Fprintf(deps.Stdout, "Source: %s\n", rec.SourceURL)
	fmt.Fprintf(deps.Stdout, "Title:  %s\n", rec.Title)
	fmt.Fprintf(deps.Stdout, "Body:   %d characters\n", domain.CharCount(rec.BodyText))
	if body := strings.TrimSpace(rec.BodyText); body != "" {
		fmt.Fprintf(deps.Stdout, "\n%s\n\n", body)
	}
	fmt.Fprintf(deps.Stdout, "Images: %d\n", len(rec.Images))
	for i, img := range rec.Images {
		fmt.Fprintf(deps.Stdout, "  [%d] %s\n", i, img)
	}
}
