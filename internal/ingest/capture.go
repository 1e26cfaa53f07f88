package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/ideacapsule/internal/clipboard"
	"github.com/iudanet/ideacapsule/internal/metrics"
	"github.com/iudanet/ideacapsule/internal/models"
	"github.com/iudanet/ideacapsule/internal/storage"
	"github.com/iudanet/ideacapsule/internal/validation"
)

// CaptureStatus is the outcome of one capture attempt
type CaptureStatus string

const (
	CaptureNew       CaptureStatus = metrics.CaptureNew
	CaptureDuplicate CaptureStatus = metrics.CaptureDuplicate
	CaptureSkipped   CaptureStatus = metrics.CaptureSkipped
)

// CaptureResult reports what happened to a snapshot
type CaptureResult struct {
	Status CaptureStatus `json:"status"`
	ID     int64         `json:"id,omitempty"`
	IsNew  bool          `json:"is_new"`
}

// CaptureClipboard classifies the snapshot and stores it under target
// (nil = uncategorised). Self-writes, empty snapshots, debounced repeats and
// unreadable payloads are skipped without an error; only storage failures
// are returned.
func (s *Service) CaptureClipboard(ctx context.Context, snap clipboard.Snapshot, target *int64) (*CaptureResult, error) {
	draft, err := s.classifier.Classify(snap)
	if err != nil {
		switch {
		case errors.Is(err, clipboard.ErrSelfCapture):
			s.log.Debug("clipboard written by self, skipped")
		case errors.Is(err, clipboard.ErrNothingToCapture):
			s.log.Debug("empty clipboard, skipped")
		default:
			s.log.Warn("clipboard event dropped", "error", err)
		}
		s.metrics.Capture(metrics.CaptureSkipped)
		return &CaptureResult{Status: CaptureSkipped}, nil
	}

	if s.watcher != nil && !s.watcher.Admit(draft.ItemType+":"+draft.Hash) {
		s.log.Debug("repeated clipboard notification, skipped", "hash", draft.Hash)
		s.metrics.Capture(metrics.CaptureSkipped)
		return &CaptureResult{Status: CaptureSkipped}, nil
	}

	return s.CaptureDraft(ctx, draft, target)
}

// CaptureDraft deduplicates by content hash. A known live hash only bumps
// updated_at of the existing idea; a trashed one is brought back into target
// unless it is locked. A new hash is inserted into target with its auto-tags
// and the category preset tags.
func (s *Service) CaptureDraft(ctx context.Context, draft *clipboard.Draft, target *int64) (*CaptureResult, error) {
	if draft == nil {
		return nil, validation.Fail("draft", "draft is required")
	}
	if draft.Hash == "" {
		draft.Hash = clipboard.ContentHash(draft.ItemType, draft.Content, draft.Blob)
	}

	result := &CaptureResult{}
	err := s.mutate(ctx, "capture", func(ctx context.Context) (bool, error) {
		var cat *models.Category
		if target != nil {
			var err error
			if cat, err = s.store.GetCategory(ctx, *target); err != nil {
				return false, err
			}
		}

		id, found, err := s.store.FindByHash(ctx, draft.Hash)
		if err != nil {
			return false, err
		}

		if found {
			result.ID, result.Status = id, CaptureDuplicate
			return true, s.reviveDuplicate(ctx, id, cat)
		}

		idea := &models.Idea{
			Title:       draft.Title,
			Content:     draft.Content,
			ItemType:    draft.ItemType,
			ContentHash: draft.Hash,
			DataBlob:    draft.Blob,
			CategoryID:  target,
			Color:       s.defaultColor(ctx),
			Tags:        append([]string(nil), draft.AutoTags...),
		}
		if cat != nil {
			idea.Color = cat.Color
			idea.Tags = append(idea.Tags, cat.PresetTagList()...)
		}

		id, err = s.store.AddIdea(ctx, idea)
		if err != nil {
			return false, fmt.Errorf("failed to store capture: %w", err)
		}
		result.ID, result.IsNew, result.Status = id, true, CaptureNew
		return true, nil
	})
	if err != nil {
		s.metrics.Capture(metrics.CaptureFailed)
		return nil, err
	}

	s.metrics.Capture(string(result.Status))
	s.log.Info("clipboard captured",
		"idea_id", result.ID,
		"item_type", draft.ItemType,
		"status", result.Status,
	)

	if target != nil {
		s.rememberCategory(ctx, *target)
	}
	return result, nil
}

// reviveDuplicate bumps an idea whose hash was captured again. A trashed,
// unlocked idea leaves the trash and is filed under cat (nil = uncategorised).
func (s *Service) reviveDuplicate(ctx context.Context, id int64, cat *models.Category) error {
	st, err := s.state(ctx, id)
	if err != nil {
		return err
	}
	if !st.IsDeleted || st.IsLocked {
		return s.store.UpdateTimestamp(ctx, id)
	}

	patch := models.IdeaPatch{
		IsDeleted:   models.Ptr(false),
		SetCategory: true,
		Color:       models.Ptr(s.palette.Uncategorized),
		Touch:       true,
	}
	if cat != nil {
		patch.CategoryID = &cat.ID
		patch.Color = models.Ptr(cat.Color)
	}
	if st.IsFavorite {
		patch.Color = models.Ptr(s.palette.Bookmark)
	}

	if _, err := s.store.ApplyPatch(ctx, []int64{id}, patch); err != nil {
		return err
	}
	if cat != nil {
		if preset := cat.PresetTagList(); len(preset) > 0 {
			return s.store.AddTagsToIdeas(ctx, []int64{id}, preset)
		}
	}
	return nil
}

// defaultColor returns the user_default_color hint when it is a valid colour
func (s *Service) defaultColor(ctx context.Context) string {
	if s.settings == nil {
		return s.palette.Uncategorized
	}

	raw, err := s.settings.GetSetting(ctx, storage.SettingUserDefaultColor)
	if err != nil {
		if !errors.Is(err, storage.ErrSettingNotFound) {
			s.log.Warn("failed to read default colour hint", "error", err)
		}
		return s.palette.Uncategorized
	}

	color, err := validation.NormalizeColor(raw)
	if err != nil {
		s.log.Warn("ignoring invalid default colour hint", "value", raw)
		return s.palette.Uncategorized
	}
	return color
}

// categoryColor is the colour an idea takes in category id, nil meaning none
func (s *Service) categoryColor(ctx context.Context, id *int64) (string, error) {
	if id == nil {
		return s.palette.Uncategorized, nil
	}
	cat, err := s.store.GetCategory(ctx, *id)
	if err != nil {
		return "", err
	}
	return cat.Color, nil
}
