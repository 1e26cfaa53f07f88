package ingest

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/iudanet/ideacapsule/internal/models"
	"github.com/iudanet/ideacapsule/internal/storage"
)

// MaxRecentCategories bounds the recent_categories hint
const MaxRecentCategories = 10

// CreateCategory appends a category under parentID (nil = root)
func (s *Service) CreateCategory(ctx context.Context, name string, parentID *int64) (*models.Category, error) {
	var cat *models.Category
	err := s.mutate(ctx, "category_create", func(ctx context.Context) (bool, error) {
		var err error
		cat, err = s.store.AddCategory(ctx, name, parentID)
		return err == nil, err
	})
	return cat, err
}

// RenameCategory renames a category
func (s *Service) RenameCategory(ctx context.Context, id int64, name string) error {
	return s.mutate(ctx, "category_rename", func(ctx context.Context) (bool, error) {
		return true, s.store.RenameCategory(ctx, id, name)
	})
}

// SetCategoryColor recolours the category, its descendants and their ideas
func (s *Service) SetCategoryColor(ctx context.Context, id int64, color string) error {
	return s.mutate(ctx, "category_color", func(ctx context.Context) (bool, error) {
		return true, s.store.SetCategoryColor(ctx, id, color)
	})
}

// DeleteCategory removes a category; member ideas become uncategorised
func (s *Service) DeleteCategory(ctx context.Context, id int64, mode models.DeleteMode) error {
	return s.mutate(ctx, "category_delete", func(ctx context.Context) (bool, error) {
		return true, s.store.DeleteCategory(ctx, id, mode)
	})
}

// SaveCategoryOrder applies a drag-and-drop reorder atomically
func (s *Service) SaveCategoryOrder(ctx context.Context, updates []models.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return s.mutate(ctx, "category_order", func(ctx context.Context) (bool, error) {
		return true, s.store.SaveCategoryOrder(ctx, updates)
	})
}

// MoveCategory re-parents a category to the end of its new sibling list
func (s *Service) MoveCategory(ctx context.Context, id int64, parentID *int64) error {
	return s.mutate(ctx, "category_move", func(ctx context.Context) (bool, error) {
		list, err := s.store.ListCategories(ctx)
		if err != nil {
			return false, err
		}

		found := false
		last := 0
		for _, c := range list {
			if c.ID == id {
				found = true
				continue
			}
			if sameParent(c.ParentID, parentID) && c.SortOrder > last {
				last = c.SortOrder
			}
		}
		if !found {
			return false, storage.ErrCategoryNotFound
		}

		return true, s.store.SaveCategoryOrder(ctx, []models.OrderUpdate{
			{ID: id, ParentID: parentID, SortOrder: last + 1},
		})
	})
}

// SetPresetTags stores the comma-separated tags applied on move
func (s *Service) SetPresetTags(ctx context.Context, id int64, csv string) error {
	return s.mutate(ctx, "category_preset", func(ctx context.Context) (bool, error) {
		return true, s.store.SetPresetTags(ctx, id, csv)
	})
}

// RecentCategories resolves the recent_categories hint against the live
// categories, most recent first; stale ids are dropped
func (s *Service) RecentCategories(ctx context.Context) ([]*models.Category, error) {
	ids := s.recentIDs(ctx)
	if len(ids) == 0 {
		return []*models.Category{}, nil
	}

	list, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.Category, len(list))
	for _, c := range list {
		byID[c.ID] = c
	}

	out := make([]*models.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// rememberCategory puts id at the head of the recent list. Best effort.
func (s *Service) rememberCategory(ctx context.Context, id int64) {
	if s.settings == nil {
		return
	}

	ids := []int64{id}
	for _, old := range s.recentIDs(ctx) {
		if old != id && len(ids) < MaxRecentCategories {
			ids = append(ids, old)
		}
	}

	if err := s.settings.SetSetting(ctx, storage.SettingRecentCategories, formatIDs(ids)); err != nil {
		s.log.Warn("failed to store recent categories", "error", err)
	}
}

func (s *Service) recentIDs(ctx context.Context) []int64 {
	if s.settings == nil {
		return nil
	}

	raw, err := s.settings.GetSetting(ctx, storage.SettingRecentCategories)
	if err != nil {
		if !errors.Is(err, storage.ErrSettingNotFound) {
			s.log.Warn("failed to read recent categories", "error", err)
		}
		return nil
	}
	return parseIDs(raw)
}

// parseIDs reads "3,1,7"; junk entries are skipped
func parseIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func formatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
