// Package cli implements the ideas command line over the ingestion service.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iudanet/ideacapsule/internal/cli/iocli"
	"github.com/iudanet/ideacapsule/internal/config"
	"github.com/iudanet/ideacapsule/internal/events"
	"github.com/iudanet/ideacapsule/internal/ingest"
	"github.com/iudanet/ideacapsule/internal/metrics"
)

// ErrUnknownCommand is returned by Run for a command it doesn't know
var ErrUnknownCommand = errors.New("unknown command")

type Cli struct {
	io       iocli.IO
	svc      *ingest.Service
	cfg      *config.Config
	bus      *events.Bus
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	log      *slog.Logger
}

// Option configures Cli
type Option func(*Cli)

// WithBus enables change notifications for watch
func WithBus(b *events.Bus) Option {
	return func(c *Cli) { c.bus = b }
}

// WithMetrics sets the collectors and the registry watch summarizes on exit
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(c *Cli) {
		c.metrics = m
		c.gatherer = g
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Cli) {
		if l != nil {
			c.log = l
		}
	}
}

func New(io iocli.IO, svc *ingest.Service, cfg *config.Config, opts ...Option) *Cli {
	c := &Cli{
		io:  io,
		svc: svc,
		cfg: cfg,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes command with the arguments that follow it
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "capture":
		return c.runCapture(ctx, args)
	case "note":
		return c.runNote(ctx, args)
	case "edit":
		return c.runEdit(ctx, args)
	case "list":
		return c.runList(ctx, args)
	case "show":
		return c.runShow(ctx, args)
	case "stats":
		return c.runStats(ctx, args)
	case "trash":
		return c.runTrash(ctx, args)
	case "restore":
		return c.runRestore(ctx, args)
	case "purge":
		return c.runPurge(ctx, args)
	case "empty-trash":
		return c.runEmptyTrash(ctx, args)
	case "fav":
		return c.runFavorite(ctx, args)
	case "lock":
		return c.runLock(ctx, args)
	case "pin":
		return c.runPin(ctx, args)
	case "rate":
		return c.runRate(ctx, args)
	case "tag":
		return c.runTag(ctx, args)
	case "category":
		return c.runCategory(ctx, args)
	case "watch":
		return c.runWatch(ctx, args)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

func PrintUsage(out iocli.IO) {
	out.Println("Ideas")
	out.Println()
	out.Println("Usage:")
	out.Println("  ideas [OPTIONS] COMMAND [ARGS]")
	out.Println()
	out.Println("Options:")
	out.Println("  --version                    Show version information")
	out.Println("  --config PATH                Config file (default: ./ideas.yaml if present)")
	out.Println("  --db PATH                    Path to idea database (overrides db_path)")
	out.Println()
	out.Println("Environment:")
	out.Println("  IDEAS_DB_PATH, IDEAS_LOG_LEVEL, IDEAS_COLORS_TRASH ... override config keys")
	out.Println()
	out.Println("Commands:")
	out.Println("  capture [-path|-image FILE] [-category ID] [TEXT]")
	out.Println("                                       Capture text, paths or an image (reads stdin when piped)")
	out.Println("  note [-title T] [-category ID] [-tags CSV] TEXT")
	out.Println("                                       Add a note")
	out.Println("  edit [-title T] [-content C] [-tags CSV] ID")
	out.Println("                                       Edit an idea")
	out.Println("  list [FILTERS]                       List ideas")
	out.Println("  show ID                              Show idea details")
	out.Println("  stats [FILTERS]                      Show filter histograms")
	out.Println("  trash ID...                          Move ideas to trash")
	out.Println("  restore ID...                        Restore ideas from trash")
	out.Println("  purge [-force] [-y] ID...            Delete trashed ideas permanently")
	out.Println("  empty-trash [-y]                     Delete every unlocked trashed idea")
	out.Println("  fav ID...                            Toggle favorite")
	out.Println("  lock ID...                           Toggle lock")
	out.Println("  pin ID                               Toggle pin")
	out.Println("  rate N ID...                         Set rating 0-5")
	out.Println("  tag list|set|add|rm|rename|delete    Manage tags")
	out.Println("  category list|recent|add|rename|color|presets|move|assign|delete")
	out.Println("                                       Manage categories")
	out.Println("  watch [-dir PATH]                    Capture files dropped into the inbox directory")
	out.Println("  version                              Show version information")
	out.Println()
	out.Println("Filters:")
	out.Println("  -scope all|today|uncategorized|untagged|bookmark|trash|category[:ID]")
	out.Println("  -search TEXT  -tag NAME  -stars 4,5  -colors #ff6b81  -types text,pdf")
	out.Println("  -dates today,yesterday,week,month  -page N  -size N")
	out.Println()
	out.Println("Examples:")
	out.Println("  echo 'https://go.dev' | ideas capture")
	out.Println("  ideas capture -path ~/Downloads/report.pdf")
	out.Println("  ideas list -scope bookmark -stars 5")
	out.Println("  ideas category assign 3 12 13")
	out.Println("  ideas tag rename todo later")
}
