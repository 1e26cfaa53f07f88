package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/ideacapsule/internal/models"
	"github.com/iudanet/ideacapsule/internal/storage"
	"github.com/iudanet/ideacapsule/internal/validation"
)

type testTree struct {
	root, child, grandchild, other *models.Category
}

// Root -> Child -> Grandchild, плюс отдельный Other
func buildTestTree(t *testing.T, ctx context.Context, s *Storage) testTree {
	t.Helper()
	var tr testTree
	var err error

	tr.root, err = s.AddCategory(ctx, "Root", nil)
	require.NoError(t, err)
	tr.child, err = s.AddCategory(ctx, "Child", &tr.root.ID)
	require.NoError(t, err)
	tr.grandchild, err = s.AddCategory(ctx, "Grandchild", &tr.child.ID)
	require.NoError(t, err)
	tr.other, err = s.AddCategory(ctx, "Other", nil)
	require.NoError(t, err)

	return tr
}

func TestCategoryStorage_AddCategory(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	a, err := s.AddCategory(ctx, " A ", nil)
	require.NoError(t, err)
	b, err := s.AddCategory(ctx, "B", nil)
	require.NoError(t, err)
	child, err := s.AddCategory(ctx, "A1", &a.ID)
	require.NoError(t, err)

	assert.Equal(t, "A", a.Name)
	assert.Equal(t, 1, a.SortOrder)
	assert.Equal(t, 2, b.SortOrder)
	assert.Equal(t, 1, child.SortOrder)
	assert.Contains(t, s.Palette().Categories, a.Color)

	_, err = s.AddCategory(ctx, "  ", nil)
	assert.ErrorIs(t, err, validation.ErrInvalid)

	_, err = s.AddCategory(ctx, "orphan", models.Ptr(int64(999)))
	assert.ErrorIs(t, err, storage.ErrCategoryNotFound)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCategoryStorage_Rename(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	c, err := s.AddCategory(ctx, "old", nil)
	require.NoError(t, err)

	require.NoError(t, s.RenameCategory(ctx, c.ID, " new "))
	got, err := s.GetCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)

	assert.ErrorIs(t, s.RenameCategory(ctx, c.ID, ""), validation.ErrInvalid)
	assert.ErrorIs(t, s.RenameCategory(ctx, 999, "x"), storage.ErrCategoryNotFound)
}

func TestCategoryStorage_SetColorCascade(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	tr := buildTestTree(t, ctx, s)
	ideas := []int64{
		addTestIdea(t, ctx, s, "in root", inCategory(tr.root.ID)),
		addTestIdea(t, ctx, s, "in child", inCategory(tr.child.ID)),
		addTestIdea(t, ctx, s, "in grandchild", inCategory(tr.grandchild.ID)),
	}
	outside := addTestIdea(t, ctx, s, "outside", inCategory(tr.other.ID), func(i *models.Idea) { i.Color = "#111111" })
	fav := addTestIdea(t, ctx, s, "fav", inCategory(tr.child.ID), func(i *models.Idea) {
		i.IsFavorite = true
		i.Color = s.Palette().Bookmark
	})

	require.NoError(t, s.SetCategoryColor(ctx, tr.root.ID, "#ABCDEF"))

	for _, c := range []*models.Category{tr.root, tr.child, tr.grandchild} {
		got, err := s.GetCategory(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "#abcdef", got.Color, c.Name)
	}
	for _, id := range ideas {
		assert.Equal(t, "#abcdef", mustGetIdea(t, ctx, s, id).Color)
	}

	other, err := s.GetCategory(ctx, tr.other.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "#abcdef", other.Color)
	assert.Equal(t, "#111111", mustGetIdea(t, ctx, s, outside).Color)
	assert.Equal(t, s.Palette().Bookmark, mustGetIdea(t, ctx, s, fav).Color)

	assert.ErrorIs(t, s.SetCategoryColor(ctx, tr.root.ID, "nope"), validation.ErrInvalid)
	assert.ErrorIs(t, s.SetCategoryColor(ctx, 999, "#000000"), storage.ErrCategoryNotFound)
}

func TestCategoryStorage_Closure(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	tr := buildTestTree(t, ctx, s)

	ids, err := s.CategoryClosure(ctx, tr.root.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{tr.root.ID, tr.child.ID, tr.grandchild.ID}, ids)

	ids, err = s.CategoryClosure(ctx, tr.grandchild.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{tr.grandchild.ID}, ids)
}

func TestCategoryStorage_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("refuse with children", func(t *testing.T) {
		s, cleanup := setupTestStorage(t)
		defer cleanup()
		tr := buildTestTree(t, ctx, s)

		err := s.DeleteCategory(ctx, tr.root.ID, models.DeleteRefuse)
		assert.ErrorIs(t, err, storage.ErrCategoryHasChildren)

		_, err = s.GetCategory(ctx, tr.root.ID)
		assert.NoError(t, err)
	})

	t.Run("leaf detaches ideas", func(t *testing.T) {
		s, cleanup := setupTestStorage(t)
		defer cleanup()
		tr := buildTestTree(t, ctx, s)

		plain := addTestIdea(t, ctx, s, "plain", inCategory(tr.grandchild.ID))
		fav := addTestIdea(t, ctx, s, "fav", inCategory(tr.grandchild.ID), func(i *models.Idea) {
			i.IsFavorite = true
			i.Color = s.Palette().Bookmark
		})

		require.NoError(t, s.DeleteCategory(ctx, tr.grandchild.ID, models.DeleteRefuse))

		_, err := s.GetCategory(ctx, tr.grandchild.ID)
		assert.ErrorIs(t, err, storage.ErrCategoryNotFound)

		p := mustGetIdea(t, ctx, s, plain)
		assert.Nil(t, p.CategoryID)
		assert.Equal(t, s.Palette().Uncategorized, p.Color)
		f := mustGetIdea(t, ctx, s, fav)
		assert.Nil(t, f.CategoryID)
		assert.Equal(t, s.Palette().Bookmark, f.Color)
	})

	t.Run("detach children", func(t *testing.T) {
		s, cleanup := setupTestStorage(t)
		defer cleanup()
		tr := buildTestTree(t, ctx, s)

		require.NoError(t, s.DeleteCategory(ctx, tr.root.ID, models.DeleteDetachChildren))

		child, err := s.GetCategory(ctx, tr.child.ID)
		require.NoError(t, err)
		assert.Nil(t, child.ParentID)
		grandchild, err := s.GetCategory(ctx, tr.grandchild.ID)
		require.NoError(t, err)
		assert.Equal(t, &tr.child.ID, grandchild.ParentID)
	})

	t.Run("subtree", func(t *testing.T) {
		s, cleanup := setupTestStorage(t)
		defer cleanup()
		tr := buildTestTree(t, ctx, s)
		id := addTestIdea(t, ctx, s, "deep", inCategory(tr.grandchild.ID))

		require.NoError(t, s.DeleteCategory(ctx, tr.root.ID, models.DeleteSubtree))

		cats, err := s.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, cats, 1)
		assert.Equal(t, tr.other.ID, cats[0].ID)

		idea := mustGetIdea(t, ctx, s, id)
		assert.Nil(t, idea.CategoryID)
	})

	t.Run("missing", func(t *testing.T) {
		s, cleanup := setupTestStorage(t)
		defer cleanup()
		assert.ErrorIs(t, s.DeleteCategory(ctx, 42, models.DeleteRefuse), storage.ErrCategoryNotFound)
	})
}

func TestCategoryStorage_Tree(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	tr := buildTestTree(t, ctx, s)

	roots, err := s.GetCategoryTree(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, tr.root.ID, roots[0].ID)
	assert.Equal(t, tr.other.ID, roots[1].ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, tr.child.ID, roots[0].Children[0].ID)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, tr.grandchild.ID, roots[0].Children[0].Children[0].ID)
}

func TestCategoryStorage_SaveOrder(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	tr := buildTestTree(t, ctx, s)

	// Other перед Root, Grandchild поднимается в корень
	err := s.SaveCategoryOrder(ctx, []models.OrderUpdate{
		{ID: tr.other.ID, SortOrder: 1},
		{ID: tr.root.ID, SortOrder: 2},
		{ID: tr.grandchild.ID, SortOrder: 3},
	})
	require.NoError(t, err)

	roots, err := s.GetCategoryTree(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 3)
	assert.Equal(t, []int64{tr.other.ID, tr.root.ID, tr.grandchild.ID},
		[]int64{roots[0].ID, roots[1].ID, roots[2].ID})

	tests := []struct {
		wantErr error
		name    string
		updates []models.OrderUpdate
	}{
		{
			name:    "self parent",
			updates: []models.OrderUpdate{{ID: tr.root.ID, ParentID: &tr.root.ID}},
			wantErr: storage.ErrCategoryCycle,
		},
		{
			name:    "parent under own child",
			updates: []models.OrderUpdate{{ID: tr.root.ID, ParentID: &tr.child.ID}},
			wantErr: storage.ErrCategoryCycle,
		},
		{
			name:    "unknown id",
			updates: []models.OrderUpdate{{ID: 999}},
			wantErr: storage.ErrCategoryNotFound,
		},
		{
			name:    "unknown parent",
			updates: []models.OrderUpdate{{ID: tr.root.ID, ParentID: models.Ptr(int64(999))}},
			wantErr: storage.ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SaveCategoryOrder(ctx, tt.updates)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// неудачные батчи ничего не меняют
	root, err := s.GetCategory(ctx, tr.root.ID)
	require.NoError(t, err)
	assert.Nil(t, root.ParentID)
	assert.Equal(t, 2, root.SortOrder)
}

func TestCategoryStorage_PresetTags(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	c, err := s.AddCategory(ctx, "c", nil)
	require.NoError(t, err)

	require.NoError(t, s.SetPresetTags(ctx, c.ID, " go, db ，go,"))
	csv, err := s.GetPresetTags(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "go,db", csv)

	assert.ErrorIs(t, s.SetPresetTags(ctx, 999, "x"), storage.ErrCategoryNotFound)
	_, err = s.GetPresetTags(ctx, 999)
	assert.ErrorIs(t, err, storage.ErrCategoryNotFound)
}

func TestCategoryStorage_CountByCategory(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	tr := buildTestTree(t, ctx, s)
	addTestIdea(t, ctx, s, "r1", inCategory(tr.root.ID))
	addTestIdea(t, ctx, s, "r2", inCategory(tr.root.ID))
	addTestIdea(t, ctx, s, "c1", inCategory(tr.child.ID))
	trashed := addTestIdea(t, ctx, s, "c2", inCategory(tr.child.ID))
	_, err := s.ApplyPatch(ctx, []int64{trashed}, models.IdeaPatch{IsDeleted: models.Ptr(true)})
	require.NoError(t, err)

	counts, err := s.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{tr.root.ID: 2, tr.child.ID: 1}, counts)
}
