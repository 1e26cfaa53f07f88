package ingest

import (
	"context"
	"fmt"

	"github.com/iudanet/ideacapsule/internal/models"
	"github.com/iudanet/ideacapsule/internal/storage"
)

// SetIdeaTags replaces the tag set of an unlocked idea
func (s *Service) SetIdeaTags(ctx context.Context, id int64, names []string) error {
	return s.mutate(ctx, "tag_set", func(ctx context.Context) (bool, error) {
		st, err := s.state(ctx, id)
		if err != nil {
			return false, err
		}
		if st.IsLocked {
			return false, fmt.Errorf("%w: %d", storage.ErrLocked, id)
		}
		return true, s.store.SetIdeaTags(ctx, id, names)
	})
}

// AddTags unions names into every unlocked idea of the selection
func (s *Service) AddTags(ctx context.Context, ids []int64, names []string) error {
	names = models.NormalizeTags(names)
	if len(names) == 0 {
		return nil
	}
	return s.mutate(ctx, "tag_add", func(ctx context.Context) (bool, error) {
		targets, err := s.unlocked(ctx, ids)
		if err != nil || len(targets) == 0 {
			return false, err
		}
		return true, s.store.AddTagsToIdeas(ctx, targets, names)
	})
}

// RemoveTag drops one tag from every unlocked idea of the selection
func (s *Service) RemoveTag(ctx context.Context, ids []int64, name string) error {
	return s.mutate(ctx, "tag_remove", func(ctx context.Context) (bool, error) {
		targets, err := s.unlocked(ctx, ids)
		if err != nil || len(targets) == 0 {
			return false, err
		}
		return true, s.store.RemoveTagFromIdeas(ctx, targets, name)
	})
}

// RenameTag renames a tag, merging into newName when it exists
func (s *Service) RenameTag(ctx context.Context, oldName, newName string) error {
	return s.mutate(ctx, "tag_rename", func(ctx context.Context) (bool, error) {
		return oldName != newName, s.store.RenameTag(ctx, oldName, newName)
	})
}

// DeleteTag removes a tag everywhere
func (s *Service) DeleteTag(ctx context.Context, name string) error {
	return s.mutate(ctx, "tag_delete", func(ctx context.Context) (bool, error) {
		return true, s.store.DeleteTag(ctx, name)
	})
}

func (s *Service) unlocked(ctx context.Context, ids []int64) ([]int64, error) {
	states, err := s.store.GetStates(ctx, ids)
	if err != nil {
		return nil, err
	}
	return selectIDs(ids, states, func(st models.IdeaState) bool { return !st.IsLocked }), nil
}
