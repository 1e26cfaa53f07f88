package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/iudanet/ideacapsule/internal/models"
)

// newFlagSet returns a flag set that reports errors through IO
func (c *Cli) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.io)
	return fs
}

// parseIDs reads positive idea or category ids
func parseIDs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing id")
	}
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(strings.TrimPrefix(a, "#"), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id: %s", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(arg string) (int64, error) {
	ids, err := parseIDs([]string{arg})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// parseOptionalID maps "root", "none" and "" to nil
func parseOptionalID(arg string) (*int64, error) {
	switch strings.ToLower(arg) {
	case "", "root", "none":
		return nil, nil
	}
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// confirm asks a yes/no question unless yes is already set
func (c *Cli) confirm(prompt string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	answer, err := c.io.ReadInput(prompt + " [y/N]: ")
	if err != nil {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		c.io.Println("Cancelled.")
		return false, nil
	}
}

// readText joins args or reads piped input
func (c *Cli) readText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if !c.io.IsTerminal() {
		return c.io.ReadAll()
	}
	return c.io.ReadInput("Text: ")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// markers renders the state flags of an idea
func markers(pinned, favorite, locked bool) string {
	var m []string
	if pinned {
		m = append(m, "pinned")
	}
	if favorite {
		m = append(m, "favorite")
	}
	if locked {
		m = append(m, "locked")
	}
	if len(m) == 0 {
		return ""
	}
	return " [" + strings.Join(m, " ") + "]"
}

// categoryName resolves id against the flat list, "-" for none
func (c *Cli) categoryName(ctx context.Context, id *int64) string {
	if id == nil {
		return "-"
	}
	cats, err := c.svc.Categories(ctx)
	if err != nil {
		return strconv.FormatInt(*id, 10)
	}
	for _, cat := range cats {
		if cat.ID == *id {
			return fmt.Sprintf("%s (#%d)", cat.Name, cat.ID)
		}
	}
	return strconv.FormatInt(*id, 10)
}

// filterFlags are the list/stats filter options
type filterFlags struct {
	scope  string
	search string
	tag    string
	stars  string
	colors string
	types  string
	dates  string
	page   int
	size   int
}

func (f *filterFlags) register(fs *flag.FlagSet, pageSize int) {
	fs.StringVar(&f.scope, "scope", "all", "Scope: all, today, uncategorized, untagged, bookmark, trash, category[:ID]")
	fs.StringVar(&f.search, "search", "", "Search text")
	fs.StringVar(&f.tag, "tag", "", "Exact tag")
	fs.StringVar(&f.stars, "stars", "", "Ratings, comma separated")
	fs.StringVar(&f.colors, "colors", "", "Colours, comma separated")
	fs.StringVar(&f.types, "types", "", "Item types, comma separated")
	fs.StringVar(&f.dates, "dates", "", "Created buckets: today, yesterday, week, month")
	fs.IntVar(&f.page, "page", 1, "Page number")
	fs.IntVar(&f.size, "size", pageSize, "Page size, 0 disables paging")
}

func (f *filterFlags) request() (models.FilterRequest, error) {
	scope, err := models.ParseScope(f.scope)
	if err != nil {
		return models.FilterRequest{}, err
	}
	req := models.FilterRequest{
		Scope:     scope,
		Search:    f.search,
		TagFilter: f.tag,
		Page:      f.page,
		PageSize:  f.size,
	}

	cr := &models.Criteria{
		Colors: splitList(f.colors),
		Types:  splitList(f.types),
	}
	for _, s := range splitList(f.stars) {
		n, err := strconv.Atoi(s)
		if err != nil || n < models.MinRating || n > models.MaxRating {
			return models.FilterRequest{}, fmt.Errorf("invalid rating: %s", s)
		}
		cr.Stars = append(cr.Stars, n)
	}
	for _, d := range splitList(f.dates) {
		opt, err := parseDateOption(d)
		if err != nil {
			return models.FilterRequest{}, err
		}
		cr.DateCreate = append(cr.DateCreate, opt)
	}
	if len(cr.Stars)+len(cr.Colors)+len(cr.Types)+len(cr.DateCreate) > 0 {
		req.Criteria = cr
	}
	return req, nil
}

func parseDateOption(raw string) (models.DateOption, error) {
	for _, o := range models.DateOptions {
		if string(o) == raw {
			return o, nil
		}
	}
	return "", fmt.Errorf("invalid date option: %s", raw)
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
