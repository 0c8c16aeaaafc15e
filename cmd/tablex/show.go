package main

import (
	"fmt"

	"github.com/fwojciec/tablex"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	tbl, err := deps.Tables.FindTableByID(deps.Ctx, c.ID)
	if tablex.ErrorCode(err) == tablex.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: table %q not found. Use 'tablex list' to see stored tables.\n", c.ID)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tablex.ErrorMessage(err))
		return err
	}

	if !c.Markdown {
		return writeJSON(deps.Stdout, tbl)
	}

	md, err := deps.Converter.ConvertTable(tbl)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tablex.ErrorMessage(err))
		return err
	}
	fmt.Fprint(deps.Stdout, md)
	return nil
}
