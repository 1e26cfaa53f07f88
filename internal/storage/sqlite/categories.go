package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/iudanet/ideacapsule/internal/filter"
	"github.com/iudanet/ideacapsule/internal/models"
	"github.com/iudanet/ideacapsule/internal/storage"
	"github.com/iudanet/ideacapsule/internal/validation"
)

const categoryColumns = "id, name, parent_id, color, sort_order, preset_tags"

// AddCategory appends the category to its sibling list with a random palette colour
func (s *Storage) AddCategory(ctx context.Context, name string, parentID *int64) (*models.Category, error) {
	name, err := validation.NormalizeName("name", name)
	if err != nil {
		return nil, err
	}

	cat := &models.Category{
		Name:     name,
		ParentID: parentID,
		Color:    s.randomColor(),
	}

	err = s.RunInTx(ctx, func(ctx context.Context) error {
		if parentID != nil {
			if _, err := s.GetCategory(ctx, *parentID); err != nil {
				return err
			}
		}

		err := s.q(ctx).QueryRowContext(ctx,
			"SELECT COALESCE(MAX(sort_order), 0) + 1 FROM categories WHERE parent_id IS ?",
			nullID(parentID),
		).Scan(&cat.SortOrder)
		if err != nil {
			return fmt.Errorf("failed to compute sort order: %w", err)
		}

		res, err := s.q(ctx).ExecContext(ctx,
			"INSERT INTO categories (name, parent_id, color, sort_order, preset_tags) VALUES (?, ?, ?, ?, '')",
			cat.Name, nullID(parentID), cat.Color, cat.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("failed to insert category: %w", err)
		}

		cat.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, err
	}

	return cat, nil
}

func (s *Storage) randomColor() string {
	colors := s.palette.Categories
	if len(colors) == 0 {
		return s.palette.Uncategorized
	}
	return colors[rand.IntN(len(colors))]
}

// GetCategory returns ErrCategoryNotFound if category doesn't exist
func (s *Storage) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	row := s.q(ctx).QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = ?", id)

	cat, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return cat, nil
}

// RenameCategory sets a new non-blank name
func (s *Storage) RenameCategory(ctx context.Context, id int64, name string) error {
	name, err := validation.NormalizeName("name", name)
	if err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, "UPDATE categories SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("failed to rename category: %w", err)
	}
	return requireAffected(res, storage.ErrCategoryNotFound)
}

// SetCategoryColor recolours the whole closure in one transaction.
// Bookmarked ideas keep the bookmark colour.
func (s *Storage) SetCategoryColor(ctx context.Context, id int64, color string) error {
	color, err := validation.NormalizeColor(color)
	if err != nil {
		return err
	}

	return s.RunInTx(ctx, func(ctx context.Context) error {
		closure, err := s.CategoryClosure(ctx, id)
		if err != nil {
			return err
		}

		in := placeholders(len(closure))
		args := append([]any{color}, idArgs(closure)...)

		if _, err := s.q(ctx).ExecContext(ctx,
			"UPDATE categories SET color = ? WHERE id IN ("+in+")", args...); err != nil {
			return fmt.Errorf("failed to recolour categories: %w", err)
		}

		if _, err := s.q(ctx).ExecContext(ctx,
			"UPDATE ideas SET color = ? WHERE is_favorite = 0 AND is_deleted = 0 AND category_id IN ("+in+")",
			args...); err != nil {
			return fmt.Errorf("failed to recolour ideas: %w", err)
		}

		return nil
	})
}

// CategoryClosure returns id followed by all transitive descendants
func (s *Storage) CategoryClosure(ctx context.Context, id int64) ([]int64, error) {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.q(ctx).QueryContext(ctx, filter.ClosureSQL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query category closure: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var cid int64
		if err := rows.Scan(&cid); err != nil {
			return nil, fmt.Errorf("failed to scan closure id: %w", err)
		}
		ids = append(ids, cid)
	}

	return ids, rows.Err()
}

// DeleteCategory removes a category. Member ideas are detached, never deleted.
func (s *Storage) DeleteCategory(ctx context.Context, id int64, mode models.DeleteMode) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.GetCategory(ctx, id); err != nil {
			return err
		}

		var children int
		if err := s.q(ctx).QueryRowContext(ctx,
			"SELECT COUNT(*) FROM categories WHERE parent_id = ?", id).Scan(&children); err != nil {
			return fmt.Errorf("failed to count child categories: %w", err)
		}

		targets := []int64{id}
		switch mode {
		case models.DeleteRefuse:
			if children > 0 {
				return fmt.Errorf("%w: %d child categories", storage.ErrCategoryHasChildren, children)
			}
		case models.DeleteDetachChildren:
			if _, err := s.q(ctx).ExecContext(ctx,
				"UPDATE categories SET parent_id = NULL WHERE parent_id = ?", id); err != nil {
				return fmt.Errorf("failed to detach child categories: %w", err)
			}
		case models.DeleteSubtree:
			closure, err := s.CategoryClosure(ctx, id)
			if err != nil {
				return err
			}
			targets = closure
		default:
			return fmt.Errorf("unknown delete mode: %d", mode)
		}

		in := placeholders(len(targets))
		args := append([]any{s.palette.Bookmark, s.palette.Uncategorized}, idArgs(targets)...)

		if _, err := s.q(ctx).ExecContext(ctx, `
			UPDATE ideas
			SET category_id = NULL,
			    color = CASE WHEN is_favorite = 1 THEN ? ELSE ? END
			WHERE is_deleted = 0 AND category_id IN (`+in+`)`, args...); err != nil {
			return fmt.Errorf("failed to detach ideas: %w", err)
		}

		if _, err := s.q(ctx).ExecContext(ctx,
			"DELETE FROM categories WHERE id IN ("+in+")", idArgs(targets)...); err != nil {
			return fmt.Errorf("failed to delete categories: %w", err)
		}

		return nil
	})
}

// ListCategories returns a flat list ordered by parent and sort_order
func (s *Storage) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories ORDER BY COALESCE(parent_id, 0), sort_order, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	cats := make([]*models.Category, 0)
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cats = append(cats, cat)
	}

	return cats, rows.Err()
}

// GetCategoryTree builds the forest from one scan. A category whose parent
// is missing is shown as a root.
func (s *Storage) GetCategoryTree(ctx context.Context) ([]*models.Category, error) {
	cats, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*models.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	roots := make([]*models.Category, 0)
	for _, c := range cats {
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok {
				parent.Children = append(parent.Children, c)
				continue
			}
		}
		roots = append(roots, c)
	}

	return roots, nil
}

// SaveCategoryOrder applies re-parenting and sort order atomically
func (s *Storage) SaveCategoryOrder(ctx context.Context, updates []models.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	return s.RunInTx(ctx, func(ctx context.Context) error {
		cats, err := s.ListCategories(ctx)
		if err != nil {
			return err
		}

		parents := make(map[int64]*int64, len(cats))
		for _, c := range cats {
			parents[c.ID] = c.ParentID
		}

		for _, u := range updates {
			if _, ok := parents[u.ID]; !ok {
				return fmt.Errorf("category %d: %w", u.ID, storage.ErrCategoryNotFound)
			}
			if u.ParentID != nil {
				if _, ok := parents[*u.ParentID]; !ok {
					return fmt.Errorf("parent %d: %w", *u.ParentID, storage.ErrCategoryNotFound)
				}
			}
			parents[u.ID] = u.ParentID
		}

		if err := checkForest(parents); err != nil {
			return err
		}

		for _, u := range updates {
			if _, err := s.q(ctx).ExecContext(ctx,
				"UPDATE categories SET parent_id = ?, sort_order = ? WHERE id = ?",
				nullID(u.ParentID), u.SortOrder, u.ID,
			); err != nil {
				return fmt.Errorf("failed to update category order: %w", err)
			}
		}

		return nil
	})
}

// checkForest returns ErrCategoryCycle if following parents from any node revisits it
func checkForest(parents map[int64]*int64) error {
	for start := range parents {
		steps := 0
		for cur := parents[start]; cur != nil; cur = parents[*cur] {
			if *cur == start || steps > len(parents) {
				return fmt.Errorf("%w: category %d", storage.ErrCategoryCycle, start)
			}
			steps++
		}
	}
	return nil
}

// SetPresetTags stores a normalized comma-joined list
func (s *Storage) SetPresetTags(ctx context.Context, id int64, csv string) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"UPDATE categories SET preset_tags = ? WHERE id = ?", models.JoinTags(models.SplitTags(csv)), id)
	if err != nil {
		return fmt.Errorf("failed to set preset tags: %w", err)
	}
	return requireAffected(res, storage.ErrCategoryNotFound)
}

// GetPresetTags returns the comma-joined preset tags
func (s *Storage) GetPresetTags(ctx context.Context, id int64) (string, error) {
	var csv string
	err := s.q(ctx).QueryRowContext(ctx, "SELECT preset_tags FROM categories WHERE id = ?", id).Scan(&csv)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrCategoryNotFound
		}
		return "", fmt.Errorf("failed to get preset tags: %w", err)
	}
	return csv, nil
}

// CountByCategory returns non-trashed idea counts keyed by category id
func (s *Storage) CountByCategory(ctx context.Context) (map[int64]int, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT category_id, COUNT(*) FROM ideas
		WHERE is_deleted = 0 AND category_id IS NOT NULL
		GROUP BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to count ideas by category: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]int)
	for rows.Next() {
		var (
			id int64
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		out[id] = n
	}

	return out, rows.Err()
}

func scanCategory(row rowScanner) (*models.Category, error) {
	cat := &models.Category{}
	var parent sql.NullInt64

	if err := row.Scan(&cat.ID, &cat.Name, &parent, &cat.Color, &cat.SortOrder, &cat.PresetTags); err != nil {
		return nil, err
	}
	cat.ParentID = idPtr(parent)

	return cat, nil
}
