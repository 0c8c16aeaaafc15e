package main

import (
	"fmt"

	"github.com/fwojciec/tablex"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return tablex.Errorf(tablex.EINVALID, "use --force to confirm deletion")
	}

	n, err := deps.Tables.DeleteTablesByURL(deps.Ctx, c.URL)
	if tablex.ErrorCode(err) == tablex.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: page %q not found. Use 'tablex list --pages' to see stored pages.\n", c.URL)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tablex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %d tables of %s\n", n, c.URL)
	return nil
}
