// Package filter translates a models.FilterRequest into parameterized SQL.
//
// The list query and the count query share one WHERE tree. Column names
// are never taken from the request; only values travel as arguments.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/ideacapsule/internal/models"
)

// ErrInvalidFilter is returned for unknown scopes or date buckets
var ErrInvalidFilter = errors.New("invalid filter")

const day = 24 * time.Hour

// Query is one parameterized statement
type Query struct {
	SQL  string
	Args []any
}

// Compiled holds the shared WHERE tree of one request
type Compiled struct {
	Count Query
	list  Query
	order string
}

// Paged returns the list query for one window of the result
func (c *Compiled) Paged(p Pagination) Query {
	q := Query{
		SQL:  c.list.SQL + " ORDER BY " + c.order,
		Args: append([]any(nil), c.list.Args...),
	}
	if p.Limit > 0 {
		q.SQL += " LIMIT ? OFFSET ?"
		q.Args = append(q.Args, p.Limit, p.Offset)
	}
	return q
}

// Compiler builds SQL over the ideas table aliased as "i".
// FTS is decided once when the store is opened.
type Compiler struct {
	Now func() time.Time
	FTS bool
}

// New creates a compiler; nil now means time.Now
func New(fts bool, now func() time.Time) *Compiler {
	if now == nil {
		now = time.Now
	}
	return &Compiler{FTS: fts, Now: now}
}

// Compile builds list and count queries selecting columns from "ideas i"
func (c *Compiler) Compile(req models.FilterRequest, columns string) (*Compiled, error) {
	where, args, err := c.Where(req, true)
	if err != nil {
		return nil, err
	}

	return &Compiled{
		Count: Query{SQL: "SELECT COUNT(*) FROM ideas i WHERE " + where, Args: args},
		list:  Query{SQL: "SELECT " + columns + " FROM ideas i WHERE " + where, Args: args},
		order: OrderBy(req.Scope),
	}, nil
}

// Where returns the boolean expression and its args. Without criteria it is
// the browsing context only, which is what the statistics engine aggregates over.
func (c *Compiler) Where(req models.FilterRequest, withCriteria bool) (string, []any, error) {
	b := &builder{}

	if err := c.scope(b, req.Scope); err != nil {
		return "", nil, err
	}

	if tag := strings.TrimSpace(req.TagFilter); tag != "" {
		b.add(tagExists("t.name = ?"), tag)
	}

	c.search(b, req.Search)

	if withCriteria && req.Criteria != nil {
		if err := c.criteria(b, req.Criteria); err != nil {
			return "", nil, err
		}
	}

	return b.String(), b.args, nil
}

// OrderBy returns the ordering of a scope. id is a tiebreaker so that
// pages never overlap when timestamps collide.
func OrderBy(scope models.Scope) string {
	if scope.Kind == models.ScopeTrash {
		return "i.updated_at DESC, i.id DESC"
	}
	return "i.is_pinned DESC, i.updated_at DESC, i.id DESC"
}

func (c *Compiler) startOfToday() time.Time {
	now := c.Now()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

func (c *Compiler) scope(b *builder, scope models.Scope) error {
	switch scope.Kind {
	case models.ScopeAll, "":
		b.add("i.is_deleted = 0")
	case models.ScopeToday:
		start := c.startOfToday()
		b.add("i.is_deleted = 0")
		b.add("i.updated_at >= ? AND i.updated_at < ?", start.UnixMilli(), start.AddDate(0, 0, 1).UnixMilli())
	case models.ScopeUncategorized:
		b.add("i.is_deleted = 0")
		b.add("i.category_id IS NULL")
	case models.ScopeUntagged:
		b.add("i.is_deleted = 0")
		b.add("NOT EXISTS (SELECT 1 FROM idea_tags it WHERE it.idea_id = i.id)")
	case models.ScopeBookmark:
		b.add("i.is_deleted = 0")
		b.add("i.is_favorite = 1")
	case models.ScopeTrash:
		b.add("i.is_deleted = 1")
	case models.ScopeCategory:
		b.add("i.is_deleted = 0")
		if scope.CategoryID == nil {
			b.add("i.category_id IS NULL")
		} else {
			b.add("i.category_id IN ("+ClosureSQL+")", *scope.CategoryID)
		}
	default:
		return fmt.Errorf("%w: unknown scope %q", ErrInvalidFilter, scope.Kind)
	}
	return nil
}

// ClosureSQL selects a category id and all its descendants; one argument
const ClosureSQL = `WITH RECURSIVE closure(id) AS (
	SELECT ?
	UNION
	SELECT c.id FROM categories c JOIN closure cl ON c.parent_id = cl.id
) SELECT id FROM closure`

func (c *Compiler) criteria(b *builder, cr *models.Criteria) error {
	if len(cr.Stars) > 0 {
		b.addIn("i.rating", toArgs(cr.Stars))
	}

	if len(cr.Colors) > 0 {
		colors := make([]any, 0, len(cr.Colors))
		for _, col := range cr.Colors {
			colors = append(colors, strings.ToLower(strings.TrimSpace(col)))
		}
		b.addIn("i.color", colors)
	}

	if len(cr.Types) > 0 {
		b.addIn("i.item_type", toArgs(cr.Types))
	}

	if len(cr.Tags) > 0 {
		args := toArgs(cr.Tags)
		b.add(tagExists("t.name IN ("+placeholders(len(args))+")"), args...)
	}

	if len(cr.DateCreate) > 0 {
		if err := c.dateClause(b, cr.DateCreate); err != nil {
			return err
		}
	}

	return nil
}

// DateRange returns [from, to) of a bucket; to is zero for open ranges
func (c *Compiler) DateRange(opt models.DateOption) (from, to time.Time, err error) {
	start := c.startOfToday()
	switch opt {
	case models.DateToday:
		return start, time.Time{}, nil
	case models.DateYesterday:
		return start.AddDate(0, 0, -1), start, nil
	case models.DateWeek:
		return start.AddDate(0, 0, -6), time.Time{}, nil
	case models.DateMonth:
		return start.AddDate(0, 0, -29), time.Time{}, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown date option %q", ErrInvalidFilter, opt)
	}
}

func (c *Compiler) dateClause(b *builder, opts []models.DateOption) error {
	parts := make([]string, 0, len(opts))
	var args []any
	for _, opt := range opts {
		from, to, err := c.DateRange(opt)
		if err != nil {
			return err
		}
		if to.IsZero() {
			parts = append(parts, "i.created_at >= ?")
			args = append(args, from.UnixMilli())
			continue
		}
		parts = append(parts, "(i.created_at >= ? AND i.created_at < ?)")
		args = append(args, from.UnixMilli(), to.UnixMilli())
	}
	b.add(strings.Join(parts, " OR "), args...)
	return nil
}

func tagExists(cond string) string {
	return "EXISTS (SELECT 1 FROM idea_tags it JOIN tags t ON t.id = it.tag_id WHERE it.idea_id = i.id AND " + cond + ")"
}

func toArgs[T any](vals []T) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// builder accumulates AND-ed conditions
type builder struct {
	conds []string
	args  []any
}

func (b *builder) add(cond string, args ...any) {
	b.conds = append(b.conds, "("+cond+")")
	b.args = append(b.args, args...)
}

func (b *builder) addIn(column string, args []any) {
	b.add(column+" IN ("+placeholders(len(args))+")", args...)
}

func (b *builder) String() string {
	if len(b.conds) == 0 {
		return "1 = 1"
	}
	return strings.Join(b.conds, " AND ")
}
