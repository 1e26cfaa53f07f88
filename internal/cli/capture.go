package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iudanet/ideacapsule/internal/clipboard"
	"github.com/iudanet/ideacapsule/internal/ingest"
	"github.com/iudanet/ideacapsule/internal/models"
)

func (c *Cli) runCapture(ctx context.Context, args []string) error {
	fs := c.newFlagSet("capture")
	asPaths := fs.Bool("path", false, "Treat arguments as file paths")
	image := fs.String("image", "", "PNG file to capture as an image")
	category := fs.String("category", "", "Category id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	categoryID, err := parseOptionalID(*category)
	if err != nil {
		return err
	}

	var snap clipboard.Snapshot
	switch {
	case *image != "":
		data, err := os.ReadFile(*image)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		snap = clipboard.ImageSnapshot(data)
	case *asPaths:
		if fs.NArg() == 0 {
			return fmt.Errorf("missing paths. Usage: ideas capture -path <file>...")
		}
		snap = clipboard.PathsSnapshot(fs.Args()...)
	default:
		text, err := c.readText(fs.Args())
		if err != nil {
			return fmt.Errorf("failed to read text: %w", err)
		}
		snap = clipboard.TextSnapshot(text)
	}

	res, err := c.svc.CaptureClipboard(ctx, snap, categoryID)
	if err != nil {
		return fmt.Errorf("failed to capture: %w", err)
	}

	switch res.Status {
	case ingest.CaptureNew:
		c.io.Printf("Captured idea #%d\n", res.ID)
	case ingest.CaptureDuplicate:
		c.io.Printf("Already captured as idea #%d, moved to top\n", res.ID)
	default:
		c.io.Println("Nothing to capture.")
	}
	return nil
}

func (c *Cli) runNote(ctx context.Context, args []string) error {
	fs := c.newFlagSet("note")
	title := fs.String("title", "", "Title (default: first line of the text)")
	category := fs.String("category", "", "Category id")
	tags := fs.String("tags", "", "Tags, comma separated")
	if err := fs.Parse(args); err != nil {
		return err
	}

	categoryID, err := parseOptionalID(*category)
	if err != nil {
		return err
	}
	content, err := c.readText(fs.Args())
	if err != nil {
		return fmt.Errorf("failed to read text: %w", err)
	}
	if strings.TrimSpace(content) == "" && *title == "" {
		return fmt.Errorf("empty note. Usage: ideas note [-title T] <text>")
	}

	idea, err := c.svc.CreateIdea(ctx, ingest.NewIdea{
		CategoryID: categoryID,
		Title:      *title,
		Content:    content,
		Tags:       models.SplitTags(*tags),
	})
	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}

	c.io.Printf("Added idea #%d: %s\n", idea.ID, idea.Title)
	return nil
}

func (c *Cli) runEdit(ctx context.Context, args []string) error {
	fs := c.newFlagSet("edit")
	title := fs.String("title", "", "New title")
	content := fs.String("content", "", "New content")
	tags := fs.String("tags", "", "Replace tags, comma separated")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("missing idea ID. Usage: ideas edit [-title T] [-content C] [-tags CSV] <id>")
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}

	var edit ingest.Edit
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			edit.Title = title
		case "content":
			edit.Content = content
		case "tags":
			edit.Tags = models.SplitTags(*tags)
			if edit.Tags == nil {
				edit.Tags = []string{}
			}
		}
	})
	if edit.Title == nil && edit.Content == nil && edit.Tags == nil {
		return fmt.Errorf("nothing to change")
	}

	idea, err := c.svc.UpdateIdea(ctx, id, edit)
	if err != nil {
		return fmt.Errorf("failed to edit idea: %w", err)
	}

	c.io.Printf("Updated idea #%d: %s\n", idea.ID, idea.Title)
	return nil
}
