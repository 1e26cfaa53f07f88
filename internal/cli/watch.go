package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/iudanet/ideacapsule/internal/inbox"
	"github.com/iudanet/ideacapsule/internal/metrics"
	"github.com/iudanet/ideacapsule/internal/models"
)

// runWatch captures files dropped into the inbox until ctx is cancelled
func (c *Cli) runWatch(ctx context.Context, args []string) error {
	fs := c.newFlagSet("watch")
	dir := fs.String("dir", c.cfg.InboxDir, "Inbox directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return fmt.Errorf("missing inbox directory. Use -dir or set inbox_dir")
	}
	if c.bus == nil {
		return fmt.Errorf("watch needs an event bus")
	}

	sub, err := c.bus.Subscribe()
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer c.bus.Unsubscribe(sub.ID)

	w := inbox.New(*dir, c.cfg.InboxSettle, c.svc, c.log, c.metrics)
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch inbox: %w", err)
	}
	defer func() {
		if err := w.Close(); err != nil {
			c.log.Error("failed to close inbox watcher", "error", err)
		}
	}()

	c.io.Printf("Watching %s (Ctrl+C to stop)\n", *dir)

	for {
		select {
		case <-ctx.Done():
			c.io.Println()
			return c.printSummary()
		case _, ok := <-sub.C:
			if !ok {
				return nil
			}
			total, err := c.svc.Count(ctx, models.FilterRequest{Scope: models.AllScope()})
			if err != nil {
				// контекст мог закрыться между событием и запросом
				c.log.Warn("failed to count ideas", "error", err)
				continue
			}
			c.io.Printf("Data changed: %d idea(s)\n", total)
		}
	}
}

// printSummary prints the counters gathered during the session
func (c *Cli) printSummary() error {
	if c.gatherer == nil {
		return nil
	}
	summary, err := metrics.Summarize(c.gatherer)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c.io.Println("=== Session Summary ===")
	for _, k := range keys {
		c.io.Printf("%s %g\n", k, summary[k])
	}
	return nil
}
