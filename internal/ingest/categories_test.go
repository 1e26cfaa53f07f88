package ingest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/ideacapsule/internal/models"
	"github.com/iudanet/ideacapsule/internal/storage"
)

func TestMoveToCategory(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()
	palette := env.svc.Palette()

	cat := env.category(t, "projects", nil)
	require.NoError(t, env.svc.SetPresetTags(ctx, cat.ID, "project,todo"))

	plain := env.note(t, "plain", nil)
	fav := env.note(t, "fav", nil)
	trashed := env.note(t, "trashed", nil)
	require.NoError(t, env.svc.AddTags(ctx, []int64{plain.ID}, []string{"existing"}))
	require.NoError(t, env.svc.SetFavorite(ctx, fav.ID, true))
	_, err := env.svc.Trash(ctx, []int64{trashed.ID})
	require.NoError(t, err)

	n, err := env.svc.MoveToCategory(ctx, []int64{plain.ID, fav.ID, trashed.ID}, &cat.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	for _, id := range []int64{plain.ID, fav.ID, trashed.ID} {
		got := env.get(t, id)
		require.NotNil(t, got.CategoryID)
		assert.Equal(t, cat.ID, *got.CategoryID)
		assert.False(t, got.IsDeleted)
		assert.Contains(t, got.Tags, "project")
		assert.Contains(t, got.Tags, "todo")
	}
	assert.Equal(t, cat.Color, env.get(t, plain.ID).Color)
	assert.Equal(t, cat.Color, env.get(t, trashed.ID).Color)
	assert.Equal(t, palette.Bookmark, env.get(t, fav.ID).Color)
	assert.Contains(t, env.get(t, plain.ID).Tags, "existing")

	// в "без категории"
	n, err = env.svc.MoveToCategory(ctx, []int64{plain.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	got := env.get(t, plain.ID)
	assert.Nil(t, got.CategoryID)
	assert.Equal(t, palette.Uncategorized, got.Color)
	assert.Contains(t, got.Tags, "project", "moving never removes tags")
}

func TestMoveToCategory_ScopeCount(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	root := env.category(t, "root", nil)
	child := env.category(t, "child", &root.ID)
	env.note(t, "r", &root.ID)
	env.note(t, "c1", &child.ID)
	env.note(t, "c2", &child.ID)

	n, err := env.svc.Count(ctx, models.FilterRequest{Scope: models.CategoryScope(&root.ID)})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	counts, err := env.svc.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[root.ID])
	assert.Equal(t, 2, counts[child.ID])
}

func TestRecentCategories(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	idea := env.note(t, "mover", nil)

	recent, err := env.svc.RecentCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, recent)

	var cats []*models.Category
	for i := range MaxRecentCategories + 2 {
		cat := env.category(t, fmt.Sprintf("c%02d", i), nil)
		cats = append(cats, cat)
		_, err := env.svc.MoveToCategory(ctx, []int64{idea.ID}, &cat.ID)
		require.NoError(t, err)
	}
	// повторный переход поднимает категорию в начало без дублей
	_, err = env.svc.MoveToCategory(ctx, []int64{idea.ID}, &cats[5].ID)
	require.NoError(t, err)

	recent, err = env.svc.RecentCategories(ctx)
	require.NoError(t, err)
	require.Len(t, recent, MaxRecentCategories)
	assert.Equal(t, cats[5].ID, recent[0].ID)
	assert.Equal(t, cats[len(cats)-1].ID, recent[1].ID)

	seen := map[int64]bool{}
	for _, c := range recent {
		assert.False(t, seen[c.ID], "duplicate %d", c.ID)
		seen[c.ID] = true
	}

	// удалённые категории пропадают из списка
	require.NoError(t, env.svc.DeleteCategory(ctx, cats[5].ID, models.DeleteRefuse))
	recent, err = env.svc.RecentCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, recent, MaxRecentCategories-1)
	assert.NotEqual(t, cats[5].ID, recent[0].ID)
}

func TestRecentCategories_JunkHint(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	cat := env.category(t, "only", nil)
	require.NoError(t, env.settings.SetSetting(ctx, storage.SettingRecentCategories, fmt.Sprintf("x, %d,,999", cat.ID)))

	recent, err := env.svc.RecentCategories(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, cat.ID, recent[0].ID)
}

func TestCategoryColorCascade(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	root := env.category(t, "Root", nil)
	child := env.category(t, "Child", &root.ID)
	grand := env.category(t, "Grandchild", &child.ID)

	var ids []int64
	for _, c := range []*models.Category{root, child, grand} {
		ids = append(ids, env.note(t, c.Name+" idea", &c.ID).ID)
	}

	require.NoError(t, env.svc.SetCategoryColor(ctx, root.ID, "#abcdef"))

	list, err := env.svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, c := range list {
		assert.Equal(t, "#abcdef", c.Color, c.Name)
	}
	for _, id := range ids {
		assert.Equal(t, "#abcdef", env.get(t, id).Color)
	}
}

func TestDeleteCategory_DetachesIdeas(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	parent := env.category(t, "parent", nil)
	env.category(t, "kid", &parent.ID)
	idea := env.note(t, "member", &parent.ID)

	err := env.svc.DeleteCategory(ctx, parent.ID, models.DeleteRefuse)
	assert.ErrorIs(t, err, storage.ErrCategoryHasChildren)

	require.NoError(t, env.svc.DeleteCategory(ctx, parent.ID, models.DeleteSubtree))

	got := env.get(t, idea.ID)
	assert.Nil(t, got.CategoryID)
	assert.Equal(t, env.svc.Palette().Uncategorized, got.Color)

	tree, err := env.svc.CategoryTree(ctx)
	require.NoError(t, err)
	assert.Empty(t, tree)
}

func TestMoveCategory(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	a := env.category(t, "a", nil)
	b := env.category(t, "b", nil)
	a1 := env.category(t, "a1", &a.ID)
	a2 := env.category(t, "a2", &a.ID)

	require.NoError(t, env.svc.MoveCategory(ctx, b.ID, &a.ID))

	tree, err := env.svc.CategoryTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 3)
	assert.Equal(t, []int64{a1.ID, a2.ID, b.ID}, []int64{
		tree[0].Children[0].ID, tree[0].Children[1].ID, tree[0].Children[2].ID,
	})

	err = env.svc.MoveCategory(ctx, a.ID, &a1.ID)
	assert.ErrorIs(t, err, storage.ErrCategoryCycle)

	err = env.svc.MoveCategory(ctx, 404, nil)
	assert.ErrorIs(t, err, storage.ErrCategoryNotFound)

	require.NoError(t, env.svc.MoveCategory(ctx, a2.ID, nil))
	tree, err = env.svc.CategoryTree(ctx)
	require.NoError(t, err)
	assert.Len(t, tree, 2)
	assert.Equal(t, a2.ID, tree[1].ID)
}

func TestSaveCategoryOrder_Empty(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()

	require.NoError(t, env.svc.SaveCategoryOrder(context.Background(), nil))
	assert.Zero(t, env.bus.Count())
}

func TestCategoryRename(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	cat := env.category(t, "old", nil)
	require.NoError(t, env.svc.RenameCategory(ctx, cat.ID, "new"))

	list, err := env.svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].Name)
}
