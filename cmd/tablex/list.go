package main

import (
	"fmt"

	"github.com/fwojciec/tablex"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	var url *string
	if c.URL != "" {
		url = &c.URL
	}

	if c.Pages {
		pages, err := deps.Pages.FindPages(deps.Ctx, tablex.PageFilter{URL: url})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", tablex.ErrorMessage(err))
			return err
		}
		if len(pages) == 0 {
			fmt.Fprintln(deps.Stdout, "No pages found. Use 'tablex extract --save' or 'tablex crawl --save' to store some.")
			return nil
		}
		for _, p := range pages {
			fmt.Fprintf(deps.Stdout, "%s  %d tables  %s\n", p.URL, p.TableCount, p.FetchedAt.Format("2006-01-02 15:04"))
		}
		return nil
	}

	tables, err := deps.Tables.FindTables(deps.Ctx, tablex.TableFilter{URL: url})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tablex.ErrorMessage(err))
		return err
	}
	if len(tables) == 0 {
		fmt.Fprintln(deps.Stdout, "No tables found. Use 'tablex extract --save' or 'tablex crawl --save' to store some.")
		return nil
	}
	for _, tbl := range tables {
		writeSummary(deps.Stdout, tbl)
	}
	return nil
}
