package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/samvad-hq/samvad-post-curator/internal/app"
	"github.com/samvad-hq/samvad-post-curator/internal/domain"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Workspace *app.Workspace
	Location  *time.Location
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Scrape  ScrapeCmd  `cmd:"" help:"Fetch a page, extract it and optionally save or schedule it"`
	Scrapes ScrapesCmd `cmd:"" help:"Manage saved scrapes"`
	Posts   PostsCmd   `cmd:"" help:"Manage scheduled posts"`
	Stats   StatsCmd   `cmd:"" help:"Show archive and schedule totals"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL       string `arg:"" help:"Page URL (http or https)"`
	Title     string `help:"Replace the extracted title"`
	Body      string `help:"Replace the extracted body text"`
	DropImage []int  `name:"drop-image" help:"Drop the image at this index (repeatable)"`
	Save      bool   `help:"Save the curated extraction to the archive"`
	Schedule  bool   `help:"Schedule a post drafted from the curated extraction"`
	Platform  string `help:"Target platform for --schedule (twitter, facebook, instagram, linkedin)"`
	At        string `help:"Publication time for --schedule (RFC3339 or 2006-01-02T15:04)"`
	Content   string `help:"Post content for --schedule; defaults to the body cut to the platform limit"`
}

// ScrapesCmd groups saved-scrape subcommands.
type ScrapesCmd struct {
	List   ScrapesListCmd   `cmd:"" help:"List saved scrapes, newest first"`
	Delete ScrapesDeleteCmd `cmd:"" help:"Delete a saved scrape"`
}

// ScrapesListCmd is the "scrapes list" subcommand.
type ScrapesListCmd struct{}

// ScrapesDeleteCmd is the "scrapes delete" subcommand.
type ScrapesDeleteCmd struct {
	ID string `arg:"" help:"Scrape id"`
}

// PostsCmd groups scheduled-post subcommands.
type PostsCmd struct {
	Schedule PostsScheduleCmd `cmd:"" help:"Schedule a new post"`
	List     PostsListCmd     `cmd:"" help:"List scheduled posts by time"`
	Complete PostsCompleteCmd `cmd:"" help:"Mark a pending post completed"`
	Fail     PostsFailCmd     `cmd:"" help:"Mark a pending post failed"`
	Delete   PostsDeleteCmd   `cmd:"" help:"Delete a post"`
}

// PostsScheduleCmd is the "posts schedule" subcommand.
type PostsScheduleCmd struct {
	Platform string   `required:"" help:"Target platform (twitter, facebook, instagram, linkedin)"`
	At       string   `required:"" help:"Publication time (RFC3339 or 2006-01-02T15:04)"`
	Content  string   `required:"" help:"Post content"`
	Media    []string `help:"Media URL (repeatable)"`
}

// PostsListCmd is the "posts list" subcommand.
type PostsListCmd struct {
	Status string `default:"all" enum:"all,pending,completed,failed" help:"Filter by status"`
}

// PostsCompleteCmd is the "posts complete" subcommand.
type PostsCompleteCmd struct {
	ID string `arg:"" help:"Post id"`
}

// PostsFailCmd is the "posts fail" subcommand.
type PostsFailCmd struct {
	ID string `arg:"" help:"Post id"`
}

// PostsDeleteCmd is the "posts delete" subcommand.
type PostsDeleteCmd struct {
	ID string `arg:"" help:"Post id"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

func fail(deps *Dependencies, err error) error {
	fmt.Fprintf(deps.Stderr, "error: %s\n", domain.ErrorMessage(err))
	return err
}
