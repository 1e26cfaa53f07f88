package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/ideacapsule/internal/models"
)

func (c *Cli) runCategory(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand. Usage: ideas category <list|recent|add|rename|color|presets|move|assign|delete>")
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return c.runCategoryList(ctx)
	case "recent":
		return c.runCategoryRecent(ctx)
	case "add":
		return c.runCategoryAdd(ctx, rest)
	case "rename":
		if len(rest) < 2 {
			return fmt.Errorf("usage: ideas category rename <id> <name>")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		if err := c.svc.RenameCategory(ctx, id, strings.Join(rest[1:], " ")); err != nil {
			return fmt.Errorf("failed to rename category: %w", err)
		}
		c.io.Printf("Renamed category #%d\n", id)
	case "color":
		if len(rest) != 2 {
			return fmt.Errorf("usage: ideas category color <id> <#rrggbb>")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		if err := c.svc.SetCategoryColor(ctx, id, rest[1]); err != nil {
			return fmt.Errorf("failed to set category colour: %w", err)
		}
		c.io.Printf("Category #%d colour: %s\n", id, rest[1])
	case "presets":
		if len(rest) < 1 {
			return fmt.Errorf("usage: ideas category presets <id> [tag,tag]")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		csv := strings.Join(rest[1:], ",")
		if err := c.svc.SetPresetTags(ctx, id, csv); err != nil {
			return fmt.Errorf("failed to set preset tags: %w", err)
		}
		c.io.Printf("Preset tags of category #%d: %s\n", id, models.JoinTags(models.SplitTags(csv)))
	case "move":
		if len(rest) != 2 {
			return fmt.Errorf("usage: ideas category move <id> <parent|root>")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		parent, err := parseOptionalID(rest[1])
		if err != nil {
			return err
		}
		if err := c.svc.MoveCategory(ctx, id, parent); err != nil {
			return fmt.Errorf("failed to move category: %w", err)
		}
		c.io.Printf("Moved category #%d\n", id)
	case "assign":
		if len(rest) < 2 {
			return fmt.Errorf("usage: ideas category assign <category|none> <id>...")
		}
		target, err := parseOptionalID(rest[0])
		if err != nil {
			return err
		}
		ids, err := parseIDs(rest[1:])
		if err != nil {
			return err
		}
		n, err := c.svc.MoveToCategory(ctx, ids, target)
		if err != nil {
			return fmt.Errorf("failed to move ideas: %w", err)
		}
		c.io.Printf("Moved %d idea(s) to %s\n", n, c.categoryName(ctx, target))
	case "delete":
		return c.runCategoryDelete(ctx, rest)
	default:
		return fmt.Errorf("unknown category subcommand: %s", sub)
	}
	return nil
}

func (c *Cli) runCategoryAdd(ctx context.Context, args []string) error {
	fs := c.newFlagSet("category add")
	parent := fs.String("parent", "", "Parent category id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("missing name. Usage: ideas category add [-parent ID] <name>")
	}
	parentID, err := parseOptionalID(*parent)
	if err != nil {
		return err
	}

	cat, err := c.svc.CreateCategory(ctx, strings.Join(fs.Args(), " "), parentID)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	c.io.Printf("Created category #%d %s (%s)\n", cat.ID, cat.Name, cat.Color)
	return nil
}

func (c *Cli) runCategoryDelete(ctx context.Context, args []string) error {
	fs := c.newFlagSet("category delete")
	mode := fs.String("mode", "refuse", "Children: refuse, detach or subtree")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("missing category ID. Usage: ideas category delete [-mode refuse|detach|subtree] <id>")
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}

	var dm models.DeleteMode
	switch *mode {
	case "refuse":
		dm = models.DeleteRefuse
	case "detach":
		dm = models.DeleteDetachChildren
	case "subtree":
		dm = models.DeleteSubtree
	default:
		return fmt.Errorf("invalid delete mode: %s", *mode)
	}

	if err := c.svc.DeleteCategory(ctx, id, dm); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	c.io.Printf("Deleted category #%d\n", id)
	return nil
}

func (c *Cli) runCategoryList(ctx context.Context) error {
	tree, err := c.svc.CategoryTree(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	counts, err := c.svc.CategoryCounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}

	c.io.Println("=== Categories ===")
	c.io.Println()
	if len(tree) == 0 {
		c.io.Println("No categories found.")
		c.io.Println()
		c.io.Println("Use 'ideas category add <name>' to create one.")
		return nil
	}

	var walk func(nodes []*models.Category, depth int)
	walk = func(nodes []*models.Category, depth int) {
		for _, cat := range nodes {
			c.io.Printf("%s#%d %s %s (%d)", strings.Repeat("  ", depth), cat.ID, cat.Name, cat.Color, counts[cat.ID])
			if cat.PresetTags != "" {
				c.io.Printf(" tags: %s", cat.PresetTags)
			}
			c.io.Println()
			walk(cat.Children, depth+1)
		}
	}
	walk(tree, 0)
	return nil
}

func (c *Cli) runCategoryRecent(ctx context.Context) error {
	recent, err := c.svc.RecentCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load recent categories: %w", err)
	}

	c.io.Println("=== Recent Categories ===")
	c.io.Println()
	if len(recent) == 0 {
		c.io.Println("No recent categories.")
		return nil
	}
	for i, cat := range recent {
		c.io.Printf("%d. #%d %s\n", i+1, cat.ID, cat.Name)
	}
	return nil
}
