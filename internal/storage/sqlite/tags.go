package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/ideacapsule/internal/models"
	"github.com/iudanet/ideacapsule/internal/storage"
	"github.com/iudanet/ideacapsule/internal/validation"
)

// ListTags returns all tags ordered by name
func (s *Storage) ListTags(ctx context.Context) ([]*models.Tag, error) {
	rows, err := s.q(ctx).QueryContext(ctx, "SELECT id, name FROM tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := make([]*models.Tag, 0)
	for rows.Next() {
		t := &models.Tag{}
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}

	return tags, rows.Err()
}

// GetTagsByIdea returns tag names of one idea
func (s *Storage) GetTagsByIdea(ctx context.Context, ideaID int64) ([]string, error) {
	return s.queryNames(ctx, `
		SELECT t.name FROM tags t
		JOIN idea_tags it ON it.tag_id = t.id
		WHERE it.idea_id = ?
		ORDER BY t.name`, ideaID)
}

// GetTagUnion returns tag names present on any of ids
func (s *Storage) GetTagUnion(ctx context.Context, ideaIDs []int64) ([]string, error) {
	ideaIDs = uniqueIDs(ideaIDs)
	if len(ideaIDs) == 0 {
		return []string{}, nil
	}

	return s.queryNames(ctx, `
		SELECT DISTINCT t.name FROM tags t
		JOIN idea_tags it ON it.tag_id = t.id
		WHERE it.idea_id IN (`+placeholders(len(ideaIDs))+`)
		ORDER BY t.name`, idArgs(ideaIDs)...)
}

func (s *Storage) queryNames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag names: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// SetIdeaTags replaces the association set of one idea
func (s *Storage) SetIdeaTags(ctx context.Context, ideaID int64, names []string) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.q(ctx).ExecContext(ctx, "DELETE FROM idea_tags WHERE idea_id = ?", ideaID); err != nil {
			return fmt.Errorf("failed to clear idea tags: %w", err)
		}
		return s.AddTagsToIdeas(ctx, []int64{ideaID}, names)
	})
}

// AddTagsToIdeas unions names into every idea's tag set
func (s *Storage) AddTagsToIdeas(ctx context.Context, ideaIDs []int64, names []string) error {
	names = models.NormalizeTags(names)
	ideaIDs = uniqueIDs(ideaIDs)
	if len(names) == 0 || len(ideaIDs) == 0 {
		return nil
	}

	return s.RunInTx(ctx, func(ctx context.Context) error {
		for _, name := range names {
			tagID, err := s.ensureTag(ctx, name)
			if err != nil {
				return err
			}
			for _, ideaID := range ideaIDs {
				_, err := s.q(ctx).ExecContext(ctx,
					"INSERT INTO idea_tags (idea_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
					ideaID, tagID,
				)
				if err != nil {
					return fmt.Errorf("failed to link tag %q: %w", name, err)
				}
			}
		}
		return nil
	})
}

// RemoveTagFromIdeas drops one association from every idea
func (s *Storage) RemoveTagFromIdeas(ctx context.Context, ideaIDs []int64, name string) error {
	ideaIDs = uniqueIDs(ideaIDs)
	name = strings.TrimSpace(name)
	if len(ideaIDs) == 0 || name == "" {
		return nil
	}

	query := `DELETE FROM idea_tags
		WHERE tag_id = (SELECT id FROM tags WHERE name = ?)
		AND idea_id IN (` + placeholders(len(ideaIDs)) + `)`
	args := append([]any{name}, idArgs(ideaIDs)...)

	if _, err := s.q(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to remove tag: %w", err)
	}
	return nil
}

// RenameTag renames oldName. When newName exists the associations are
// merged into it and oldName disappears.
func (s *Storage) RenameTag(ctx context.Context, oldName, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName, err := validation.NormalizeName("name", newName)
	if err != nil {
		return err
	}

	return s.RunInTx(ctx, func(ctx context.Context) error {
		oldID, ok, err := s.tagID(ctx, oldName)
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrTagNotFound
		}
		if oldName == newName {
			return nil
		}

		newID, exists, err := s.tagID(ctx, newName)
		if err != nil {
			return err
		}

		if !exists {
			_, err := s.q(ctx).ExecContext(ctx, "UPDATE tags SET name = ? WHERE id = ?", newName, oldID)
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: tag %q appeared during rename", storage.ErrConflict, newName)
			}
			if err != nil {
				return fmt.Errorf("failed to rename tag: %w", err)
			}
			return nil
		}

		// Слияние: переносим связи, дубликаты игнорируем
		_, err = s.q(ctx).ExecContext(ctx,
			"INSERT OR IGNORE INTO idea_tags (idea_id, tag_id) SELECT idea_id, ? FROM idea_tags WHERE tag_id = ?",
			newID, oldID,
		)
		if err != nil {
			return fmt.Errorf("failed to merge tag associations: %w", err)
		}
		if _, err := s.q(ctx).ExecContext(ctx, "DELETE FROM idea_tags WHERE tag_id = ?", oldID); err != nil {
			return fmt.Errorf("failed to drop old associations: %w", err)
		}
		res, err := s.q(ctx).ExecContext(ctx, "DELETE FROM tags WHERE id = ?", oldID)
		if err != nil {
			return fmt.Errorf("failed to delete merged tag: %w", err)
		}
		if err := requireAffected(res, storage.ErrConflict); err != nil {
			return fmt.Errorf("merged tag vanished: %w", err)
		}
		return nil
	})
}

// DeleteTag removes the tag and all its associations
func (s *Storage) DeleteTag(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)

	return s.RunInTx(ctx, func(ctx context.Context) error {
		id, ok, err := s.tagID(ctx, name)
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrTagNotFound
		}
		if _, err := s.q(ctx).ExecContext(ctx, "DELETE FROM idea_tags WHERE tag_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete tag associations: %w", err)
		}
		if _, err := s.q(ctx).ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete tag: %w", err)
		}
		return nil
	})
}

// ensureTag returns the id of name, creating it on first reference
func (s *Storage) ensureTag(ctx context.Context, name string) (int64, error) {
	_, err := s.q(ctx).ExecContext(ctx, "INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name)
	if err != nil {
		return 0, fmt.Errorf("failed to create tag %q: %w", name, err)
	}

	id, ok, err := s.tagID(ctx, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: tag %q missing after insert", storage.ErrConflict, name)
	}
	return id, nil
}

func (s *Storage) tagID(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := s.q(ctx).QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get tag: %w", err)
	}
	return id, true, nil
}

// loadTags fills Tags of every idea with one query
func (s *Storage) loadTags(ctx context.Context, ideas []*models.Idea) error {
	if len(ideas) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Idea, len(ideas))
	ids := make([]int64, 0, len(ideas))
	for _, idea := range ideas {
		idea.Tags = []string{}
		byID[idea.ID] = idea
		ids = append(ids, idea.ID)
	}

	query := `SELECT it.idea_id, t.name FROM idea_tags it
		JOIN tags t ON t.id = it.tag_id
		WHERE it.idea_id IN (` + placeholders(len(ids)) + `)
		ORDER BY t.name`

	rows, err := s.q(ctx).QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ideaID int64
			name   string
		)
		if err := rows.Scan(&ideaID, &name); err != nil {
			return fmt.Errorf("failed to scan tag: %w", err)
		}
		if idea, ok := byID[ideaID]; ok {
			idea.Tags = append(idea.Tags, name)
		}
	}

	return rows.Err()
}
