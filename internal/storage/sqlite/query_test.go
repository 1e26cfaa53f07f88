package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/ideacapsule/internal/filter"
	"github.com/iudanet/ideacapsule/internal/models"
)

func pageIDs(page *models.Page) []int64 {
	ids := make([]int64, 0, len(page.Items))
	for _, i := range page.Items {
		ids = append(ids, i.ID)
	}
	return ids
}

func TestFindIdeas_PaginationTotality(t *testing.T) {
	ctx := context.Background()
	s, clock, cleanup := setupClockedStorage(t)
	defer cleanup()

	f := faker.New()
	for i := 0; i < 23; i++ {
		pinned := i%7 == 0
		addTestIdea(t, ctx, s, f.Lorem().Sentence(4), func(idea *models.Idea) { idea.IsPinned = pinned })
		// часть записей с одинаковым временем
		if i%3 == 0 {
			clock.Advance(time.Second)
		}
	}

	all, err := s.FindIdeas(ctx, models.FilterRequest{})
	require.NoError(t, err)
	require.Len(t, all.Items, 23)
	assert.Equal(t, 1, all.Pages)

	const size = 5
	var concat []int64
	for k := 1; k <= 5; k++ {
		page, err := s.FindIdeas(ctx, models.FilterRequest{Page: k, PageSize: size})
		require.NoError(t, err)
		assert.Equal(t, 23, page.Total)
		assert.Equal(t, 5, page.Pages)
		assert.Equal(t, k, page.Page)
		concat = append(concat, pageIDs(page)...)
	}
	assert.Equal(t, pageIDs(all), concat)

	seen := make(map[int64]bool)
	for _, id := range concat {
		assert.False(t, seen[id], "duplicate %d", id)
		seen[id] = true
	}

	// закрепленные идут первыми
	for i, idea := range all.Items[:4] {
		assert.True(t, idea.IsPinned, i)
	}

	// номер страницы за пределами зажимается
	page, err := s.FindIdeas(ctx, models.FilterRequest{Page: 99, PageSize: size})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Page)
	assert.Len(t, page.Items, 3)
}

func TestFindIdeas_Scopes(t *testing.T) {
	ctx := context.Background()
	s, clock, cleanup := setupClockedStorage(t)
	defer cleanup()

	cat, err := s.AddCategory(ctx, "c", nil)
	require.NoError(t, err)

	clock.Advance(-48 * time.Hour)
	old := addTestIdea(t, ctx, s, "old", withTags("t"))
	clock.Advance(48 * time.Hour)

	categorized := addTestIdea(t, ctx, s, "categorized", inCategory(cat.ID), withTags("t"))
	fav := addTestIdea(t, ctx, s, "fav", func(i *models.Idea) { i.IsFavorite = true; i.Color = s.Palette().Bookmark })
	trashed := addTestIdea(t, ctx, s, "trashed")
	clock.Advance(time.Second)
	trashedLater := addTestIdea(t, ctx, s, "trashed later")
	_, err = s.ApplyPatch(ctx, []int64{trashed, trashedLater}, models.IdeaPatch{IsDeleted: models.Ptr(true)})
	require.NoError(t, err)

	tests := []struct {
		name  string
		scope models.Scope
		want  []int64
	}{
		{name: "all", scope: models.AllScope(), want: []int64{fav, categorized, old}},
		{name: "today", scope: models.Scope{Kind: models.ScopeToday}, want: []int64{fav, categorized}},
		{name: "uncategorized", scope: models.Scope{Kind: models.ScopeUncategorized}, want: []int64{fav, old}},
		{name: "untagged", scope: models.Scope{Kind: models.ScopeUntagged}, want: []int64{fav}},
		{name: "bookmark", scope: models.Scope{Kind: models.ScopeBookmark}, want: []int64{fav}},
		{name: "trash", scope: models.Scope{Kind: models.ScopeTrash}, want: []int64{trashedLater, trashed}},
		{name: "category", scope: models.CategoryScope(&cat.ID), want: []int64{categorized}},
		{name: "category null", scope: models.CategoryScope(nil), want: []int64{fav, old}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.FindIdeas(ctx, models.FilterRequest{Scope: tt.scope})
			require.NoError(t, err)
			assert.Equal(t, tt.want, pageIDs(page))

			n, err := s.CountIdeas(ctx, models.FilterRequest{Scope: tt.scope})
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), n)
		})
	}

	_, err = s.FindIdeas(ctx, models.FilterRequest{Scope: models.Scope{Kind: "bogus"}})
	assert.ErrorIs(t, err, filter.ErrInvalidFilter)
}

func TestFindIdeas_CategoryClosureCount(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	tr := buildTestTree(t, ctx, s)
	addTestIdea(t, ctx, s, "r", inCategory(tr.root.ID))
	addTestIdea(t, ctx, s, "c1", inCategory(tr.child.ID))
	addTestIdea(t, ctx, s, "c2", inCategory(tr.child.ID))
	addTestIdea(t, ctx, s, "g", inCategory(tr.grandchild.ID))
	addTestIdea(t, ctx, s, "o", inCategory(tr.other.ID))

	counts, err := s.CountByCategory(ctx)
	require.NoError(t, err)
	closure, err := s.CategoryClosure(ctx, tr.root.ID)
	require.NoError(t, err)

	sum := 0
	for _, id := range closure {
		sum += counts[id]
	}

	n, err := s.CountIdeas(ctx, models.FilterRequest{Scope: models.CategoryScope(&tr.root.ID)})
	require.NoError(t, err)
	assert.Equal(t, sum, n)
	assert.Equal(t, 4, n)

	n, err = s.CountIdeas(ctx, models.FilterRequest{Scope: models.CategoryScope(&tr.child.ID)})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFindIdeas_Search(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name string
		opts []Option
	}{
		{name: "fts"},
		{name: "like fallback", opts: []Option{WithoutFTS()}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, cleanup := setupTestStorage(t, tc.opts...)
			defer cleanup()

			byTitle := addTestIdea(t, ctx, s, "golang notes")
			byContent := addTestIdea(t, ctx, s, "misc", func(i *models.Idea) { i.Content = "about golang channels" })
			byTag := addTestIdea(t, ctx, s, "unrelated", withTags("golang-tips"))
			addTestIdea(t, ctx, s, "python")

			page, err := s.FindIdeas(ctx, models.FilterRequest{Search: "golang"})
			require.NoError(t, err)
			assert.ElementsMatch(t, []int64{byTitle, byContent, byTag}, pageIDs(page))

			page, err = s.FindIdeas(ctx, models.FilterRequest{Search: "golang channels"})
			require.NoError(t, err)
			assert.Equal(t, []int64{byContent}, pageIDs(page))

			// операторы и спецсимволы не ломают запрос
			for _, raw := range []string{`"`, "AND OR", "100%", "NEAR(", "*"} {
				_, err := s.FindIdeas(ctx, models.FilterRequest{Search: raw})
				assert.NoError(t, err, raw)
			}
		})
	}
}

func TestFindIdeas_SearchCJK(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name string
		opts []Option
	}{
		{name: "fts"},
		{name: "like fallback", opts: []Option{WithoutFTS()}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, cleanup := setupTestStorage(t, tc.opts...)
			defer cleanup()

			id := addTestIdea(t, ctx, s, "笔记", func(i *models.Idea) { i.Content = "今天学习了网址链接的用法" })
			addTestIdea(t, ctx, s, "other")

			for _, raw := range []string{"链接", "学习了", "今天", "网址链接的用法"} {
				page, err := s.FindIdeas(ctx, models.FilterRequest{Search: raw})
				require.NoError(t, err, raw)
				assert.Equal(t, []int64{id}, pageIDs(page), raw)
			}

			page, err := s.FindIdeas(ctx, models.FilterRequest{Search: "明天"})
			require.NoError(t, err)
			assert.Zero(t, page.Total)
		})
	}
}

func TestFindIdeas_Criteria(t *testing.T) {
	ctx := context.Background()
	s, clock, cleanup := setupClockedStorage(t)
	defer cleanup()

	now := clock.Now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	createdAt := func(ts time.Time) func(*models.Idea) {
		return func(i *models.Idea) { i.CreatedAt = ts }
	}

	a := addTestIdea(t, ctx, s, "a", createdAt(today.Add(time.Hour)), func(i *models.Idea) { i.Rating = 5; i.Color = "#ff0000" })
	b := addTestIdea(t, ctx, s, "b", createdAt(today.Add(-time.Hour)), withTags("x"), func(i *models.Idea) { i.Rating = 3 })
	c := addTestIdea(t, ctx, s, "c", createdAt(today.AddDate(0, 0, -10)), func(i *models.Idea) { i.ItemType = "pdf" })

	tests := []struct {
		name     string
		criteria models.Criteria
		want     []int64
	}{
		{name: "stars", criteria: models.Criteria{Stars: []int{5, 3}}, want: []int64{a, b}},
		{name: "colors", criteria: models.Criteria{Colors: []string{"#FF0000"}}, want: []int64{a}},
		{name: "types", criteria: models.Criteria{Types: []string{"pdf"}}, want: []int64{c}},
		{name: "tags", criteria: models.Criteria{Tags: []string{"x"}}, want: []int64{b}},
		{name: "today", criteria: models.Criteria{DateCreate: []models.DateOption{models.DateToday}}, want: []int64{a}},
		{name: "yesterday", criteria: models.Criteria{DateCreate: []models.DateOption{models.DateYesterday}}, want: []int64{b}},
		{name: "today or yesterday", criteria: models.Criteria{DateCreate: []models.DateOption{models.DateToday, models.DateYesterday}}, want: []int64{a, b}},
		{name: "month", criteria: models.Criteria{DateCreate: []models.DateOption{models.DateMonth}}, want: []int64{a, b, c}},
		{name: "and across keys", criteria: models.Criteria{Stars: []int{5, 3}, Tags: []string{"x"}}, want: []int64{b}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr := tt.criteria
			page, err := s.FindIdeas(ctx, models.FilterRequest{Criteria: &cr})
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, pageIDs(page))
		})
	}
}

func TestGetMetadataAndDetails(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	text := addTestIdea(t, ctx, s, "text", withTags("b", "a"))
	img := addTestIdea(t, ctx, s, "[图片]", func(i *models.Idea) {
		i.ItemType = models.ItemTypeImage
		i.DataBlob = []byte{9, 9}
	})

	meta, err := s.GetMetadata(ctx, models.FilterRequest{})
	require.NoError(t, err)
	require.Len(t, meta, 2)

	byID := map[int64]*models.IdeaMeta{}
	for _, m := range meta {
		byID[m.ID] = m
	}
	assert.ElementsMatch(t, []string{"a", "b"}, byID[text].Tags)
	assert.Empty(t, byID[img].Tags)
	assert.Equal(t, models.ItemTypeImage, byID[img].ItemType)

	paged, err := s.GetMetadata(ctx, models.FilterRequest{Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, text, paged[0].ID)

	details, err := s.GetDetails(ctx, []int64{text, 999, img, text})
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, text, details[0].ID)
	assert.Equal(t, img, details[1].ID)
	assert.Equal(t, []string{"a", "b"}, details[0].Tags)
	assert.Equal(t, []byte{9, 9}, details[1].DataBlob)
	assert.Equal(t, "text content", details[0].Content)
}
