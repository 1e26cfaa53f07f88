package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/iudanet/ideacapsule/internal/models"
)

func (c *Cli) runList(ctx context.Context, args []string) error {
	fs := c.newFlagSet("list")
	var ff filterFlags
	ff.register(fs, c.cfg.PageSize)
	if err := fs.Parse(args); err != nil {
		return err
	}
	req, err := ff.request()
	if err != nil {
		return err
	}

	page, err := c.svc.Find(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to list ideas: %w", err)
	}

	c.io.Printf("=== Ideas: %s ===\n", req.Scope)
	c.io.Println()

	if len(page.Items) == 0 {
		c.io.Println("No ideas found.")
		c.io.Println()
		c.io.Println("Use 'ideas capture' to add your first idea.")
		return nil
	}

	if page.PageSize > 0 {
		c.io.Printf("Found %d idea(s), page %d of %d:\n", page.Total, page.Page, page.Pages)
	} else {
		c.io.Printf("Found %d idea(s):\n", page.Total)
	}
	c.io.Println()

	for _, idea := range page.Items {
		c.io.Printf("#%d %s%s\n", idea.ID, idea.Title, markers(idea.IsPinned, idea.IsFavorite, idea.IsLocked))
		c.io.Printf("   Type: %s  Rating: %d  Colour: %s  Updated: %s\n",
			idea.ItemType, idea.Rating, idea.Color, idea.UpdatedAt.Local().Format("2006-01-02 15:04"))
		if len(idea.Tags) > 0 {
			c.io.Printf("   Tags: %s\n", strings.Join(idea.Tags, ", "))
		}
	}
	c.io.Println()

	return nil
}

func (c *Cli) runShow(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing idea ID. Usage: ideas show <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	idea, err := c.svc.GetIdea(ctx, id, true)
	if err != nil {
		return fmt.Errorf("failed to get idea %d: %w", id, err)
	}

	c.io.Println("=== Idea Details ===")
	c.io.Println()
	c.io.Printf("Title:    %s\n", idea.Title)
	c.io.Printf("ID:       %d\n", idea.ID)
	c.io.Printf("Type:     %s\n", idea.ItemType)
	c.io.Printf("Category: %s\n", c.categoryName(ctx, idea.CategoryID))
	c.io.Printf("Colour:   %s\n", idea.Color)
	c.io.Printf("Rating:   %d\n", idea.Rating)
	c.io.Printf("Flags:    pinned=%t favorite=%t locked=%t trashed=%t\n",
		idea.IsPinned, idea.IsFavorite, idea.IsLocked, idea.IsDeleted)
	if len(idea.Tags) > 0 {
		c.io.Printf("Tags:     %s\n", strings.Join(idea.Tags, ", "))
	}
	c.io.Printf("Created:  %s\n", idea.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	c.io.Printf("Updated:  %s\n", idea.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	if len(idea.DataBlob) > 0 {
		c.io.Printf("Image:    %d bytes PNG\n", len(idea.DataBlob))
	}
	if idea.Content != "" {
		c.io.Println()
		c.io.Println(idea.Content)
	}
	c.io.Println()

	return nil
}

func (c *Cli) runStats(ctx context.Context, args []string) error {
	fs := c.newFlagSet("stats")
	var ff filterFlags
	ff.register(fs, 0)
	if err := fs.Parse(args); err != nil {
		return err
	}
	req, err := ff.request()
	if err != nil {
		return err
	}

	st, err := c.svc.Statistics(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to compute statistics: %w", err)
	}

	c.io.Printf("=== Statistics: %s ===\n", req.Scope)
	c.io.Println()

	c.io.Println("Stars:")
	for n := models.MaxRating; n >= models.MinRating; n-- {
		if count := st.Stars[n]; count > 0 {
			c.io.Printf("  %d: %d\n", n, count)
		}
	}

	c.io.Println("Colours:")
	for _, k := range sortedKeys(st.Colors) {
		c.io.Printf("  %s: %d\n", k, st.Colors[k])
	}

	c.io.Println("Types:")
	for _, k := range sortedKeys(st.Types) {
		c.io.Printf("  %s: %d\n", k, st.Types[k])
	}

	c.io.Println("Created:")
	for _, o := range models.DateOptions {
		c.io.Printf("  %s: %d\n", o, st.DateCreate[o])
	}

	c.io.Println("Tags:")
	for _, tc := range st.Tags {
		c.io.Printf("  %s: %d\n", tc.Name, tc.Count)
	}
	c.io.Println()

	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
