package main

import (
	"fmt"
)

// Run executes the scrapes list command.
func (c *ScrapesListCmd) Run(deps *Dependencies) error {
	scrapes, err := deps.Workspace.Archive.List(deps.Ctx)
	if err != nil {
		return fail(deps, err)
	}

	if len(scrapes) == 0 {
		fmt.Fprintln(deps.Stdout, "No saved scrapes. Use 'curator scrape URL --save' to add one.")
		return nil
	}
	for _, s := range scrapes {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", s.ID, formatTime(deps, s.CreatedAt), s.Title, s.SourceURL)
	}
	return nil
}

// Run executes the scrapes delete command.
func (c *ScrapesDeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Workspace.Archive.Delete(deps.Ctx, c.ID); err != nil {
		return fail(deps, err)
	}
	fmt.Fprintf(deps.Stdout, "Deleted scrape %s\n", c.ID)
	return nil
}
