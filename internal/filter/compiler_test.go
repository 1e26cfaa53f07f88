package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/ideacapsule/internal/models"
)

var fixedNow = time.Date(2026, 3, 15, 14, 30, 0, 0, time.Local)

func newTestCompiler(fts bool) *Compiler {
	return New(fts, func() time.Time { return fixedNow })
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func TestCompiler_Scopes(t *testing.T) {
	c := newTestCompiler(false)
	today := startOfDay(fixedNow)

	tests := []struct {
		name     string
		scope    models.Scope
		contains []string
		args     []any
	}{
		{
			name:     "all",
			scope:    models.AllScope(),
			contains: []string{"i.is_deleted = 0"},
		},
		{
			name:     "empty kind is all",
			scope:    models.Scope{},
			contains: []string{"i.is_deleted = 0"},
		},
		{
			name:     "today",
			scope:    models.Scope{Kind: models.ScopeToday},
			contains: []string{"i.updated_at >= ? AND i.updated_at < ?"},
			args:     []any{today.UnixMilli(), today.AddDate(0, 0, 1).UnixMilli()},
		},
		{
			name:     "uncategorized",
			scope:    models.Scope{Kind: models.ScopeUncategorized},
			contains: []string{"i.category_id IS NULL"},
		},
		{
			name:     "untagged",
			scope:    models.Scope{Kind: models.ScopeUntagged},
			contains: []string{"NOT EXISTS (SELECT 1 FROM idea_tags it WHERE it.idea_id = i.id)"},
		},
		{
			name:     "bookmark",
			scope:    models.Scope{Kind: models.ScopeBookmark},
			contains: []string{"i.is_favorite = 1", "i.is_deleted = 0"},
		},
		{
			name:     "trash",
			scope:    models.Scope{Kind: models.ScopeTrash},
			contains: []string{"i.is_deleted = 1"},
		},
		{
			name:     "category closure",
			scope:    models.CategoryScope(models.Ptr(int64(3))),
			contains: []string{"WITH RECURSIVE closure", "i.category_id IN ("},
			args:     []any{int64(3)},
		},
		{
			name:     "category null",
			scope:    models.CategoryScope(nil),
			contains: []string{"i.category_id IS NULL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args, err := c.Where(models.FilterRequest{Scope: tt.scope}, true)
			require.NoError(t, err)
			for _, frag := range tt.contains {
				assert.Contains(t, where, frag)
			}
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestCompiler_UnknownScope(t *testing.T) {
	c := newTestCompiler(false)
	_, _, err := c.Where(models.FilterRequest{Scope: models.Scope{Kind: "recent"}}, true)
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestCompiler_Criteria(t *testing.T) {
	c := newTestCompiler(false)
	req := models.FilterRequest{
		Scope: models.AllScope(),
		Criteria: &models.Criteria{
			Stars:  []int{4, 5},
			Colors: []string{"#ABCDEF"},
			Types:  []string{"text", "pdf"},
			Tags:   []string{"go"},
		},
	}

	where, args, err := c.Where(req, true)
	require.NoError(t, err)
	assert.Contains(t, where, "i.rating IN (?, ?)")
	assert.Contains(t, where, "i.color IN (?)")
	assert.Contains(t, where, "i.item_type IN (?, ?)")
	assert.Contains(t, where, "t.name IN (?)")
	assert.Equal(t, []any{4, 5, "#abcdef", "text", "pdf", "go"}, args)

	// без критериев остается только контекст
	ctxWhere, ctxArgs, err := c.Where(req, false)
	require.NoError(t, err)
	assert.Equal(t, "(i.is_deleted = 0)", ctxWhere)
	assert.Empty(t, ctxArgs)
}

func TestCompiler_EmptyCriteriaListsIgnored(t *testing.T) {
	c := newTestCompiler(false)
	where, args, err := c.Where(models.FilterRequest{Criteria: &models.Criteria{Stars: []int{}}}, true)
	require.NoError(t, err)
	assert.Equal(t, "(i.is_deleted = 0)", where)
	assert.Empty(t, args)
}

func TestCompiler_DateOptionsAreORed(t *testing.T) {
	c := newTestCompiler(false)
	today := startOfDay(fixedNow)

	where, args, err := c.Where(models.FilterRequest{
		Criteria: &models.Criteria{DateCreate: []models.DateOption{models.DateToday, models.DateYesterday}},
	}, true)
	require.NoError(t, err)
	assert.Contains(t, where, "(i.created_at >= ? OR (i.created_at >= ? AND i.created_at < ?))")
	assert.Equal(t, []any{today.UnixMilli(), today.AddDate(0, 0, -1).UnixMilli(), today.UnixMilli()}, args)

	_, _, err = c.Where(models.FilterRequest{
		Criteria: &models.Criteria{DateCreate: []models.DateOption{"decade"}},
	}, true)
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestCompiler_DateRange(t *testing.T) {
	c := newTestCompiler(false)
	today := startOfDay(fixedNow)

	from, to, err := c.DateRange(models.DateWeek)
	require.NoError(t, err)
	assert.Equal(t, today.AddDate(0, 0, -6), from)
	assert.True(t, to.IsZero())

	from, _, err = c.DateRange(models.DateMonth)
	require.NoError(t, err)
	assert.Equal(t, today.AddDate(0, 0, -29), from)
}

func TestCompiler_Search(t *testing.T) {
	t.Run("fallback like", func(t *testing.T) {
		c := newTestCompiler(false)
		where, args, err := c.Where(models.FilterRequest{Search: " 50%_off "}, true)
		require.NoError(t, err)
		assert.Contains(t, where, `i.title LIKE ? ESCAPE '\'`)
		assert.Contains(t, where, `i.content LIKE ? ESCAPE '\'`)
		assert.NotContains(t, where, "ideas_fts")
		assert.Equal(t, []any{`%50\%\_off%`, `%50\%\_off%`, `%50\%\_off%`}, args)
	})

	t.Run("fts with tag like", func(t *testing.T) {
		c := newTestCompiler(true)
		where, args, err := c.Where(models.FilterRequest{Search: `golang "lang`}, true)
		require.NoError(t, err)
		assert.Contains(t, where, "ideas_fts MATCH ?")
		assert.Contains(t, where, `t.name LIKE ? ESCAPE '\'`)
		assert.Equal(t, []any{`"golang" """lang"`, `%golang "lang%`}, args)
	})

	t.Run("short word falls back to like", func(t *testing.T) {
		c := newTestCompiler(true)
		where, args, err := c.Where(models.FilterRequest{Search: "go 链接"}, true)
		require.NoError(t, err)
		assert.NotContains(t, where, "ideas_fts")
		assert.Equal(t, []any{"%go 链接%", "%go 链接%", "%go 链接%"}, args)
	})

	t.Run("blank search ignored", func(t *testing.T) {
		c := newTestCompiler(true)
		where, _, err := c.Where(models.FilterRequest{Search: "   "}, true)
		require.NoError(t, err)
		assert.NotContains(t, where, "MATCH")
	})
}

func TestCompiler_TagFilter(t *testing.T) {
	c := newTestCompiler(false)
	where, args, err := c.Where(models.FilterRequest{TagFilter: "work"}, true)
	require.NoError(t, err)
	assert.Contains(t, where, "t.name = ?")
	assert.Equal(t, []any{"work"}, args)
}

func TestCompiled_SharedWhere(t *testing.T) {
	c := newTestCompiler(false)
	compiled, err := c.Compile(models.FilterRequest{
		Scope:    models.Scope{Kind: models.ScopeTrash},
		Criteria: &models.Criteria{Stars: []int{1}},
	}, "i.id")
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM ideas i WHERE (i.is_deleted = 1) AND (i.rating IN (?))", compiled.Count.SQL)
	assert.Equal(t, []any{1}, compiled.Count.Args)

	list := compiled.Paged(Paginate(25, 2, 10))
	assert.Equal(t, "SELECT i.id FROM ideas i WHERE (i.is_deleted = 1) AND (i.rating IN (?)) ORDER BY i.updated_at DESC, i.id DESC LIMIT ? OFFSET ?", list.SQL)
	assert.Equal(t, []any{1, 10, 10}, list.Args)

	// Paged не портит аргументы count запроса
	assert.Equal(t, []any{1}, compiled.Count.Args)

	all := compiled.Paged(Paginate(25, 1, 0))
	assert.NotContains(t, all.SQL, "LIMIT")
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "i.updated_at DESC, i.id DESC", OrderBy(models.Scope{Kind: models.ScopeTrash}))
	assert.Equal(t, "i.is_pinned DESC, i.updated_at DESC, i.id DESC", OrderBy(models.AllScope()))
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name              string
		total, page, size int
		want              Pagination
	}{
		{name: "first page", total: 25, page: 1, size: 10, want: Pagination{Page: 1, PageSize: 10, Pages: 3, Limit: 10, Offset: 0}},
		{name: "last page", total: 25, page: 3, size: 10, want: Pagination{Page: 3, PageSize: 10, Pages: 3, Limit: 10, Offset: 20}},
		{name: "clamped high", total: 25, page: 9, size: 10, want: Pagination{Page: 3, PageSize: 10, Pages: 3, Limit: 10, Offset: 20}},
		{name: "clamped low", total: 25, page: -1, size: 10, want: Pagination{Page: 1, PageSize: 10, Pages: 3, Limit: 10, Offset: 0}},
		{name: "empty result", total: 0, page: 4, size: 10, want: Pagination{Page: 1, PageSize: 10, Pages: 1, Limit: 10, Offset: 0}},
		{name: "no paging", total: 25, page: 2, size: 0, want: Pagination{Page: 1, Pages: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(tt.total, tt.page, tt.size))
		})
	}
}

func TestMatchExpr(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "words", raw: "hello  world", want: `"hello" "world"`},
		{name: "operators are inert", raw: "AND NEAR(", want: `"AND" "NEAR("`},
		{name: "cjk", raw: "学习了 网址链接", want: `"学习了" "网址链接"`},
		{name: "short word", raw: "hello go", want: ""},
		{name: "short cjk word", raw: "链接", want: ""},
		{name: "blank", raw: "  ", want: ""},
		{name: "no word runes", raw: `" * -`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchExpr(tt.raw))
		})
	}
}
