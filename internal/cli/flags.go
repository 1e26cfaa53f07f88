package cli

import (
	"context"
	"fmt"
	"strconv"
)

func (c *Cli) runFavorite(ctx context.Context, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return fmt.Errorf("%w. Usage: ideas fav <id>...", err)
	}
	on, err := c.svc.ToggleFavorite(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to toggle favorite: %w", err)
	}
	c.io.Printf("Favorite %s for %d idea(s)\n", onOff(on), len(ids))
	return nil
}

func (c *Cli) runLock(ctx context.Context, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return fmt.Errorf("%w. Usage: ideas lock <id>...", err)
	}
	on, err := c.svc.ToggleLock(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to toggle lock: %w", err)
	}
	c.io.Printf("Lock %s for %d idea(s)\n", onOff(on), len(ids))
	return nil
}

func (c *Cli) runPin(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("missing idea ID. Usage: ideas pin <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	on, err := c.svc.TogglePin(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to toggle pin: %w", err)
	}
	c.io.Printf("Pin %s for idea #%d\n", onOff(on), id)
	return nil
}

func (c *Cli) runRate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("missing arguments. Usage: ideas rate <0-5> <id>...")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid rating: %s", args[0])
	}
	ids, err := parseIDs(args[1:])
	if err != nil {
		return err
	}
	if err := c.svc.SetRating(ctx, ids, n); err != nil {
		return fmt.Errorf("failed to rate ideas: %w", err)
	}
	c.io.Printf("Rated %d idea(s): %d\n", len(ids), n)
	return nil
}
