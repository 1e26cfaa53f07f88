package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/ideacapsule/internal/models"
)

func (c *Cli) runTag(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand. Usage: ideas tag <list|set|add|rm|rename|delete>")
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return c.runTagList(ctx)
	case "set":
		if len(rest) < 1 {
			return fmt.Errorf("usage: ideas tag set <id> [tag,tag]")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		var names []string
		if len(rest) > 1 {
			names = models.SplitTags(rest[1])
		}
		if err := c.svc.SetIdeaTags(ctx, id, names); err != nil {
			return fmt.Errorf("failed to set tags: %w", err)
		}
		c.io.Printf("Tags of idea #%d: %s\n", id, models.JoinTags(names))
	case "add":
		if len(rest) < 2 {
			return fmt.Errorf("usage: ideas tag add <tag,tag> <id>...")
		}
		ids, err := parseIDs(rest[1:])
		if err != nil {
			return err
		}
		if err := c.svc.AddTags(ctx, ids, models.SplitTags(rest[0])); err != nil {
			return fmt.Errorf("failed to add tags: %w", err)
		}
		c.io.Printf("Tagged %d idea(s)\n", len(ids))
	case "rm":
		if len(rest) < 2 {
			return fmt.Errorf("usage: ideas tag rm <tag> <id>...")
		}
		ids, err := parseIDs(rest[1:])
		if err != nil {
			return err
		}
		if err := c.svc.RemoveTag(ctx, ids, rest[0]); err != nil {
			return fmt.Errorf("failed to remove tag: %w", err)
		}
		c.io.Printf("Removed %q from %d idea(s)\n", rest[0], len(ids))
	case "rename":
		if len(rest) != 2 {
			return fmt.Errorf("usage: ideas tag rename <old> <new>")
		}
		if err := c.svc.RenameTag(ctx, rest[0], rest[1]); err != nil {
			return fmt.Errorf("failed to rename tag: %w", err)
		}
		c.io.Printf("Renamed tag %q to %q\n", rest[0], rest[1])
	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("usage: ideas tag delete <tag>")
		}
		if err := c.svc.DeleteTag(ctx, rest[0]); err != nil {
			return fmt.Errorf("failed to delete tag: %w", err)
		}
		c.io.Printf("Deleted tag %q\n", rest[0])
	default:
		return fmt.Errorf("unknown tag subcommand: %s", sub)
	}
	return nil
}

func (c *Cli) runTagList(ctx context.Context) error {
	st, err := c.svc.Statistics(ctx, models.FilterRequest{Scope: models.AllScope()})
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}

	c.io.Println("=== Tags ===")
	c.io.Println()
	if len(st.Tags) == 0 {
		c.io.Println("No tags found.")
		return nil
	}
	for _, tc := range st.Tags {
		c.io.Printf("%s (%d)\n", tc.Name, tc.Count)
	}
	return nil
}
