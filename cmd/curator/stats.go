package main

import "fmt"

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Workspace.Stats(deps.Ctx)
	if err != nil {
		return fail(deps, err)
	}

	fmt.Fprintf(deps.Stdout, "Saved scrapes:   %d\n", stats.TotalScrapes)
	fmt.Fprintf(deps.Stdout, "Scheduled posts: %d\n", stats.TotalScheduled)
	fmt.Fprintf(deps.Stdout, "  pending:       %d\n", stats.Pending)
	fmt.Fprintf(deps.Stdout, "  completed:     %d\n", stats.Completed)
	fmt.Fprintf(deps.Stdout, "  failed:        %d\n", stats.Failed)
	return nil
}
