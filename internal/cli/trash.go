package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/ideacapsule/internal/models"
)

func (c *Cli) runTrash(ctx context.Context, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return fmt.Errorf("%w. Usage: ideas trash <id>...", err)
	}
	n, err := c.svc.Trash(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to trash ideas: %w", err)
	}
	c.io.Printf("Moved %d idea(s) to trash\n", n)
	if skipped := int64(len(ids)) - n; skipped > 0 {
		c.io.Printf("Skipped %d locked or missing idea(s)\n", skipped)
	}
	return nil
}

func (c *Cli) runRestore(ctx context.Context, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return fmt.Errorf("%w. Usage: ideas restore <id>...", err)
	}
	n, err := c.svc.Restore(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to restore ideas: %w", err)
	}
	c.io.Printf("Restored %d idea(s)\n", n)
	return nil
}

func (c *Cli) runPurge(ctx context.Context, args []string) error {
	fs := c.newFlagSet("purge")
	force := fs.Bool("force", false, "Also delete ideas that are not in trash")
	yes := fs.Bool("y", false, "Don't ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ids, err := parseIDs(fs.Args())
	if err != nil {
		return fmt.Errorf("%w. Usage: ideas purge [-force] [-y] <id>...", err)
	}

	ok, err := c.confirm(fmt.Sprintf("Permanently delete %d idea(s)?", len(ids)), *yes)
	if err != nil || !ok {
		return err
	}

	n, err := c.svc.DeletePermanently(ctx, ids, *force)
	if err != nil {
		return fmt.Errorf("failed to delete ideas: %w", err)
	}
	c.io.Printf("Deleted %d idea(s)\n", n)
	return nil
}

func (c *Cli) runEmptyTrash(ctx context.Context, args []string) error {
	fs := c.newFlagSet("empty-trash")
	yes := fs.Bool("y", false, "Don't ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	total, err := c.svc.Count(ctx, models.FilterRequest{Scope: models.Scope{Kind: models.ScopeTrash}})
	if err != nil {
		return fmt.Errorf("failed to count trash: %w", err)
	}
	if total == 0 {
		c.io.Println("Trash is empty.")
		return nil
	}

	ok, err := c.confirm(fmt.Sprintf("Permanently delete %d trashed idea(s)?", total), *yes)
	if err != nil || !ok {
		return err
	}

	n, err := c.svc.EmptyTrash(ctx)
	if err != nil {
		return fmt.Errorf("failed to empty trash: %w", err)
	}
	c.io.Printf("Deleted %d idea(s)\n", n)
	return nil
}
