package ingest

import (
	"context"
	"fmt"

	"github.com/iudanet/ideacapsule/internal/clipboard"
	"github.com/iudanet/ideacapsule/internal/models"
	"github.com/iudanet/ideacapsule/internal/storage"
	"github.com/iudanet/ideacapsule/internal/validation"
)

// lockExemptFields may still be changed on a locked idea
var lockExemptFields = map[string]struct{}{
	models.FieldIsPinned:   {},
	models.FieldIsFavorite: {},
	models.FieldIsLocked:   {},
	models.FieldRating:     {},
}

// NewIdea is a user-authored note
type NewIdea struct {
	CategoryID *int64
	Title      string
	Content    string
	Tags       []string
}

// Edit changes the text of an idea. Nil fields are kept; non-nil Tags replace the set.
type Edit struct {
	Title   *string
	Content *string
	Tags    []string
}

// CreateIdea stores a text note. An empty title is taken from the content.
func (s *Service) CreateIdea(ctx context.Context, in NewIdea) (*models.Idea, error) {
	title := in.Title
	if title == "" {
		title = clipboard.TextTitle(in.Content)
	}

	idea := &models.Idea{
		Title:       title,
		Content:     in.Content,
		ItemType:    models.ItemTypeText,
		ContentHash: clipboard.ContentHash(models.ItemTypeText, in.Content, nil),
		CategoryID:  in.CategoryID,
		Tags:        append([]string(nil), in.Tags...),
	}

	err := s.mutate(ctx, "create", func(ctx context.Context) (bool, error) {
		if in.CategoryID == nil {
			idea.Color = s.defaultColor(ctx)
		} else {
			cat, err := s.store.GetCategory(ctx, *in.CategoryID)
			if err != nil {
				return false, err
			}
			idea.Color = cat.Color
			idea.Tags = append(idea.Tags, cat.PresetTagList()...)
		}

		if _, err := s.store.AddIdea(ctx, idea); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return idea, nil
}

// UpdateIdea applies an edit. Locked ideas fail with ErrLocked.
// The content hash follows the new content.
func (s *Service) UpdateIdea(ctx context.Context, id int64, edit Edit) (*models.Idea, error) {
	var updated *models.Idea

	err := s.mutate(ctx, "update", func(ctx context.Context) (bool, error) {
		idea, err := s.store.GetIdea(ctx, id, true)
		if err != nil {
			return false, err
		}
		if idea == nil {
			return false, storage.ErrIdeaNotFound
		}
		if idea.IsLocked {
			return false, fmt.Errorf("%w: %d", storage.ErrLocked, id)
		}

		if edit.Title != nil {
			idea.Title = *edit.Title
		}
		if edit.Content != nil {
			idea.Content = *edit.Content
		}
		idea.Tags = edit.Tags
		idea.ContentHash = clipboard.ContentHash(idea.ItemType, idea.Content, idea.DataBlob)

		if err := s.store.UpdateIdea(ctx, idea); err != nil {
			return false, err
		}

		updated, err = s.store.GetIdea(ctx, id, false)
		return true, err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateField sets one allow-listed field. State fields are routed through
// their rules so colours stay normalized: is_favorite, is_deleted and
// category_id behave like SetFavorite, Trash/Restore and MoveToCategory.
func (s *Service) UpdateField(ctx context.Context, id int64, field string, value any) error {
	if !models.IsUpdatableField(field) {
		return fmt.Errorf("%w: %q", storage.ErrInvalidField, field)
	}

	state, err := s.state(ctx, id)
	if err != nil {
		return err
	}

	if _, exempt := lockExemptFields[field]; state.IsLocked && !exempt {
		return fmt.Errorf("%w: %d", storage.ErrLocked, id)
	}

	switch field {
	case models.FieldIsFavorite:
		fav, err := boolValue(field, value)
		if err != nil {
			return err
		}
		return s.SetFavorite(ctx, id, fav)
	case models.FieldIsDeleted:
		deleted, err := boolValue(field, value)
		if err != nil {
			return err
		}
		if deleted {
			_, err = s.Trash(ctx, []int64{id})
		} else {
			_, err = s.Restore(ctx, []int64{id})
		}
		return err
	case models.FieldCategoryID:
		target, err := categoryValue(value)
		if err != nil {
			return err
		}
		_, err = s.MoveToCategory(ctx, []int64{id}, target)
		return err
	}

	return s.mutate(ctx, "update_field", func(ctx context.Context) (bool, error) {
		return true, s.store.UpdateField(ctx, id, field, value)
	})
}

// TogglePin flips is_pinned and returns the new value
func (s *Service) TogglePin(ctx context.Context, id int64) (bool, error) {
	var pinned bool
	err := s.mutate(ctx, "pin", func(ctx context.Context) (bool, error) {
		v, err := s.store.ToggleField(ctx, id, models.FieldIsPinned)
		pinned = v
		return err == nil, err
	})
	return pinned, err
}

// Trash moves every unlocked id to the trash. Locked ids are skipped.
func (s *Service) Trash(ctx context.Context, ids []int64) (int64, error) {
	var n int64
	err := s.mutate(ctx, "trash", func(ctx context.Context) (bool, error) {
		states, err := s.store.GetStates(ctx, ids)
		if err != nil {
			return false, err
		}
		targets := selectIDs(ids, states, func(st models.IdeaState) bool { return !st.IsLocked })
		if len(targets) == 0 {
			return false, nil
		}

		n, err = s.store.ApplyPatch(ctx, targets, models.IdeaPatch{
			IsDeleted:   models.Ptr(true),
			SetCategory: true,
			Color:       models.Ptr(s.palette.Trash),
			Touch:       true,
		})
		return n > 0, err
	})
	return n, err
}

// Restore brings trashed ids back as uncategorised ideas.
// Favorites come back with the bookmark colour.
func (s *Service) Restore(ctx context.Context, ids []int64) (int64, error) {
	var restored int64
	err := s.mutate(ctx, "restore", func(ctx context.Context) (bool, error) {
		states, err := s.store.GetStates(ctx, ids)
		if err != nil {
			return false, err
		}

		var plain, favorites []int64
		for _, id := range selectIDs(ids, states, func(st models.IdeaState) bool { return st.IsDeleted }) {
			if states[id].IsFavorite {
				favorites = append(favorites, id)
			} else {
				plain = append(plain, id)
			}
		}

		for _, group := range []struct {
			color string
			ids   []int64
		}{{s.palette.Uncategorized, plain}, {s.palette.Bookmark, favorites}} {
			if len(group.ids) == 0 {
				continue
			}
			n, err := s.store.ApplyPatch(ctx, group.ids, models.IdeaPatch{
				IsDeleted:   models.Ptr(false),
				SetCategory: true,
				Color:       models.Ptr(group.color),
				Touch:       true,
			})
			if err != nil {
				return false, err
			}
			restored += n
		}
		return restored > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return restored, nil
}

// DeletePermanently removes trashed ids, or any unlocked id when force is set
func (s *Service) DeletePermanently(ctx context.Context, ids []int64, force bool) (int64, error) {
	var n int64
	err := s.mutate(ctx, "purge", func(ctx context.Context) (bool, error) {
		var err error
		n, err = s.store.DeleteIdeas(ctx, ids, !force)
		return n > 0, err
	})
	return n, err
}

// EmptyTrash removes every unlocked trashed idea
func (s *Service) EmptyTrash(ctx context.Context) (int64, error) {
	var n int64
	err := s.mutate(ctx, "empty_trash", func(ctx context.Context) (bool, error) {
		var err error
		n, err = s.store.EmptyTrash(ctx)
		return n > 0, err
	})
	return n, err
}

// SetFavorite bookmarks or un-bookmarks one idea
func (s *Service) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	return s.mutate(ctx, "favorite", func(ctx context.Context) (bool, error) {
		if _, err := s.state(ctx, id); err != nil {
			return false, err
		}
		return s.setFavorite(ctx, []int64{id}, favorite)
	})
}

// ToggleFavorite favorites the whole selection when any idea in it is not
// a favorite, otherwise un-favorites all of it. Returns the new value.
func (s *Service) ToggleFavorite(ctx context.Context, ids []int64) (bool, error) {
	var target bool
	err := s.mutate(ctx, "favorite", func(ctx context.Context) (bool, error) {
		states, err := s.store.GetStates(ctx, ids)
		if err != nil {
			return false, err
		}
		if len(states) == 0 {
			return false, nil
		}

		for _, st := range states {
			if !st.IsFavorite {
				target = true
				break
			}
		}
		return s.setFavorite(ctx, ids, target)
	})
	return target, err
}

// setFavorite sets the flag and the colour: bookmark colour when set, the
// category or uncategorised colour when cleared. Trashed ideas keep the trash colour.
func (s *Service) setFavorite(ctx context.Context, ids []int64, favorite bool) (bool, error) {
	states, err := s.store.GetStates(ctx, ids)
	if err != nil {
		return false, err
	}

	var (
		trashed []int64
		byColor = make(map[string][]int64)
		colors  = make(map[int64]string)
	)
	for _, id := range selectIDs(ids, states, nil) {
		st := states[id]
		if st.IsDeleted {
			trashed = append(trashed, id)
			continue
		}

		color := s.palette.Bookmark
		if !favorite && st.CategoryID != nil {
			c, ok := colors[*st.CategoryID]
			if !ok {
				if c, err = s.categoryColor(ctx, st.CategoryID); err != nil {
					return false, err
				}
				colors[*st.CategoryID] = c
			}
			color = c
		} else if !favorite {
			color = s.palette.Uncategorized
		}
		byColor[color] = append(byColor[color], id)
	}

	var total int64
	for color, group := range byColor {
		n, err := s.store.ApplyPatch(ctx, group, models.IdeaPatch{
			IsFavorite: models.Ptr(favorite),
			Color:      models.Ptr(color),
		})
		if err != nil {
			return false, err
		}
		total += n
	}
	if len(trashed) > 0 {
		n, err := s.store.ApplyPatch(ctx, trashed, models.IdeaPatch{IsFavorite: models.Ptr(favorite)})
		if err != nil {
			return false, err
		}
		total += n
	}

	return total > 0, nil
}

// SetRating sets the rating of every id; n must be in [0,5]
func (s *Service) SetRating(ctx context.Context, ids []int64, n int) error {
	if n < models.MinRating || n > models.MaxRating {
		return fmt.Errorf("%w: %d", storage.ErrInvalidRating, n)
	}

	return s.mutate(ctx, "rate", func(ctx context.Context) (bool, error) {
		affected, err := s.store.ApplyPatch(ctx, ids, models.IdeaPatch{Rating: models.Ptr(n)})
		return affected > 0, err
	})
}

// ToggleLock locks the whole selection when any idea in it is unlocked,
// otherwise unlocks all of it. Returns the new value.
func (s *Service) ToggleLock(ctx context.Context, ids []int64) (bool, error) {
	var target bool
	err := s.mutate(ctx, "lock", func(ctx context.Context) (bool, error) {
		locks, err := s.store.GetLockStatus(ctx, ids)
		if err != nil {
			return false, err
		}
		if len(locks) == 0 {
			return false, nil
		}

		for _, locked := range locks {
			if !locked {
				target = true
				break
			}
		}

		n, err := s.store.SetLocked(ctx, ids, target)
		return n > 0, err
	})
	return target, err
}

// MoveToCategory files unlocked ideas under target (nil = uncategorised),
// restores them from the trash, recolours them and unions the preset tags in.
// Favorites keep the bookmark colour.
func (s *Service) MoveToCategory(ctx context.Context, ids []int64, target *int64) (int64, error) {
	var moved int64
	err := s.mutate(ctx, "move", func(ctx context.Context) (bool, error) {
		var (
			color  = s.palette.Uncategorized
			preset []string
		)
		if target != nil {
			cat, err := s.store.GetCategory(ctx, *target)
			if err != nil {
				return false, err
			}
			color = cat.Color
			preset = cat.PresetTagList()
		}

		states, err := s.store.GetStates(ctx, ids)
		if err != nil {
			return false, err
		}

		var plain, favorites []int64
		for _, id := range selectIDs(ids, states, func(st models.IdeaState) bool { return !st.IsLocked }) {
			if states[id].IsFavorite {
				favorites = append(favorites, id)
			} else {
				plain = append(plain, id)
			}
		}

		for _, group := range []struct {
			color string
			ids   []int64
		}{{color, plain}, {s.palette.Bookmark, favorites}} {
			if len(group.ids) == 0 {
				continue
			}
			n, err := s.store.ApplyPatch(ctx, group.ids, models.IdeaPatch{
				CategoryID:  target,
				SetCategory: true,
				IsDeleted:   models.Ptr(false),
				Color:       models.Ptr(group.color),
				Touch:       true,
			})
			if err != nil {
				return false, err
			}
			moved += n
		}

		if len(preset) > 0 && moved > 0 {
			if err := s.store.AddTagsToIdeas(ctx, append(plain, favorites...), preset); err != nil {
				return false, err
			}
		}
		return moved > 0, nil
	})
	if err != nil {
		return 0, err
	}

	if target != nil && moved > 0 {
		s.rememberCategory(ctx, *target)
	}
	return moved, nil
}

// state returns the flags of an existing idea
func (s *Service) state(ctx context.Context, id int64) (models.IdeaState, error) {
	states, err := s.store.GetStates(ctx, []int64{id})
	if err != nil {
		return models.IdeaState{}, err
	}
	st, ok := states[id]
	if !ok {
		return models.IdeaState{}, storage.ErrIdeaNotFound
	}
	return st, nil
}

// selectIDs keeps ids present in states that match keep, in input order, once each
func selectIDs(ids []int64, states map[int64]models.IdeaState, keep func(models.IdeaState) bool) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		st, ok := states[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if keep == nil || keep(st) {
			out = append(out, id)
		}
	}
	return out
}

func boolValue(field string, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	}
	return false, validation.Fail(field, field+" must be a boolean")
}

func categoryValue(value any) (*int64, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *int64:
		return v, nil
	case int64:
		return &v, nil
	case int:
		id := int64(v)
		return &id, nil
	}
	return nil, validation.Fail(models.FieldCategoryID, "category_id must be an integer or null")
}
