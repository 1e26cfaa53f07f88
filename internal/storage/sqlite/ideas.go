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

const ideaColumns = `i.id, i.title, i.content, i.color, i.is_pinned, i.is_favorite,
	i.created_at, i.updated_at, i.category_id, i.is_deleted, i.item_type,
	i.content_hash, i.is_locked, i.rating`

const ideaColumnsWithBlob = ideaColumns + ", i.data_blob"

type fieldKind int

const (
	kindText fieldKind = iota
	kindType
	kindColor
	kindRef
	kindBool
	kindRating
)

type updatableField struct {
	column string
	kind   fieldKind
}

// updatableFields is the only source of column names for UpdateField and ToggleField
var updatableFields = map[string]updatableField{
	models.FieldTitle:      {column: "title", kind: kindText},
	models.FieldContent:    {column: "content", kind: kindText},
	models.FieldItemType:   {column: "item_type", kind: kindType},
	models.FieldColor:      {column: "color", kind: kindColor},
	models.FieldCategoryID: {column: "category_id", kind: kindRef},
	models.FieldIsPinned:   {column: "is_pinned", kind: kindBool},
	models.FieldIsFavorite: {column: "is_favorite", kind: kindBool},
	models.FieldIsDeleted:  {column: "is_deleted", kind: kindBool},
	models.FieldIsLocked:   {column: "is_locked", kind: kindBool},
	models.FieldRating:     {column: "rating", kind: kindRating},
}

// AddIdea inserts the idea with its tags and returns the new id
func (s *Storage) AddIdea(ctx context.Context, idea *models.Idea) (int64, error) {
	idea.Color = strings.ToLower(idea.Color)
	if err := idea.Validate(); err != nil {
		return 0, err
	}
	if idea.ItemType == models.ItemTypeImage && len(idea.DataBlob) == 0 {
		return 0, validation.Fail("data_blob", "image items require data_blob")
	}

	now := s.now()
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now
	}
	idea.UpdatedAt = now

	err := s.RunInTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO ideas (
				title, content, color, is_pinned, is_favorite,
				created_at, updated_at, category_id, is_deleted, item_type,
				data_blob, content_hash, is_locked, rating
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`

		res, err := s.q(ctx).ExecContext(ctx, query,
			idea.Title,
			idea.Content,
			idea.Color,
			boolToInt(idea.IsPinned),
			boolToInt(idea.IsFavorite),
			idea.CreatedAt.UnixMilli(),
			idea.UpdatedAt.UnixMilli(),
			nullID(idea.CategoryID),
			boolToInt(idea.IsDeleted),
			idea.ItemType,
			nullBlob(idea.DataBlob),
			nullString(idea.ContentHash),
			boolToInt(idea.IsLocked),
			idea.Rating,
		)
		if err != nil {
			return fmt.Errorf("failed to insert idea: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get idea id: %w", err)
		}
		idea.ID = id

		if tags := models.NormalizeTags(idea.Tags); len(tags) > 0 {
			if err := s.AddTagsToIdeas(ctx, []int64{id}, tags); err != nil {
				return err
			}
			idea.Tags = tags
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return idea.ID, nil
}

// UpdateIdea replaces all mutable fields and bumps updated_at.
// A nil DataBlob keeps the stored image bytes; Tags nil keeps associations.
func (s *Storage) UpdateIdea(ctx context.Context, idea *models.Idea) error {
	idea.Color = strings.ToLower(idea.Color)
	if err := idea.Validate(); err != nil {
		return err
	}

	return s.RunInTx(ctx, func(ctx context.Context) error {
		query := `
			UPDATE ideas
			SET title = ?, content = ?, color = ?, is_pinned = ?, is_favorite = ?,
			    category_id = ?, is_deleted = ?, item_type = ?,
			    data_blob = CASE WHEN ? = 'image' THEN COALESCE(?, data_blob) ELSE NULL END,
			    content_hash = ?, is_locked = ?, rating = ?,
			    updated_at = MAX(?, updated_at + 1)
			WHERE id = ?
		`

		res, err := s.q(ctx).ExecContext(ctx, query,
			idea.Title,
			idea.Content,
			idea.Color,
			boolToInt(idea.IsPinned),
			boolToInt(idea.IsFavorite),
			nullID(idea.CategoryID),
			boolToInt(idea.IsDeleted),
			idea.ItemType,
			idea.ItemType,
			nullBlob(idea.DataBlob),
			nullString(idea.ContentHash),
			boolToInt(idea.IsLocked),
			idea.Rating,
			s.now().UnixMilli(),
			idea.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update idea: %w", err)
		}
		if err := requireAffected(res, storage.ErrIdeaNotFound); err != nil {
			return err
		}

		if idea.Tags != nil {
			return s.SetIdeaTags(ctx, idea.ID, idea.Tags)
		}
		return nil
	})
}

// UpdateField sets one allow-listed column
func (s *Storage) UpdateField(ctx context.Context, id int64, field string, value any) error {
	f, ok := updatableFields[field]
	if !ok {
		return fmt.Errorf("%w: %q", storage.ErrInvalidField, field)
	}

	arg, err := s.fieldValue(ctx, field, f.kind, value)
	if err != nil {
		return err
	}

	// f.column берется только из updatableFields
	query := "UPDATE ideas SET " + f.column + " = ? WHERE id = ?"
	res, err := s.q(ctx).ExecContext(ctx, query, arg, id)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", field, err)
	}

	return requireAffected(res, storage.ErrIdeaNotFound)
}

// ToggleField flips an allow-listed boolean column
func (s *Storage) ToggleField(ctx context.Context, id int64, field string) (bool, error) {
	f, ok := updatableFields[field]
	if !ok || f.kind != kindBool {
		return false, fmt.Errorf("%w: %q is not a toggleable field", storage.ErrInvalidField, field)
	}

	query := "UPDATE ideas SET " + f.column + " = 1 - " + f.column + " WHERE id = ? RETURNING " + f.column

	var v int
	if err := s.q(ctx).QueryRowContext(ctx, query, id).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, storage.ErrIdeaNotFound
		}
		return false, fmt.Errorf("failed to toggle %s: %w", field, err)
	}

	return intToBool(v), nil
}

func (s *Storage) fieldValue(ctx context.Context, field string, kind fieldKind, value any) (any, error) {
	switch kind {
	case kindText:
		str, ok := value.(string)
		if !ok {
			return nil, validation.Fail(field, field+" must be a string")
		}
		if field == models.FieldTitle {
			return validation.NormalizeName(field, str)
		}
		return str, nil
	case kindType:
		str, ok := value.(string)
		if !ok {
			return nil, validation.Fail(field, field+" must be a string")
		}
		if err := validation.Var(field, str, "required,lowercase"); err != nil {
			return nil, err
		}
		return str, nil
	case kindColor:
		str, ok := value.(string)
		if !ok {
			return nil, validation.Fail(field, field+" must be a string")
		}
		return validation.NormalizeColor(str)
	case kindRef:
		id, ok, err := refValue(value)
		if err != nil {
			return nil, validation.Fail(field, err.Error())
		}
		if !ok {
			return nil, nil
		}
		if _, err := s.GetCategory(ctx, id); err != nil {
			return nil, err
		}
		return id, nil
	case kindBool:
		switch v := value.(type) {
		case bool:
			return boolToInt(v), nil
		case int:
			if v == 0 || v == 1 {
				return v, nil
			}
		}
		return nil, validation.Fail(field, field+" must be a boolean")
	case kindRating:
		n, ok := intValue(value)
		if !ok {
			return nil, fmt.Errorf("%w: rating must be an integer", storage.ErrInvalidRating)
		}
		if n < models.MinRating || n > models.MaxRating {
			return nil, fmt.Errorf("%w: %d", storage.ErrInvalidRating, n)
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: %q", storage.ErrInvalidField, field)
}

func refValue(value any) (int64, bool, error) {
	switch v := value.(type) {
	case nil:
		return 0, false, nil
	case *int64:
		if v == nil {
			return 0, false, nil
		}
		return *v, true, nil
	case int64:
		return v, true, nil
	case int:
		return int64(v), true, nil
	default:
		return 0, false, errors.New("category_id must be an integer or null")
	}
}

func intValue(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

// GetIdea returns nil, nil when the idea doesn't exist
func (s *Storage) GetIdea(ctx context.Context, id int64, includeBlob bool) (*models.Idea, error) {
	cols := ideaColumns
	if includeBlob {
		cols = ideaColumnsWithBlob
	}

	row := s.q(ctx).QueryRowContext(ctx, "SELECT "+cols+" FROM ideas i WHERE i.id = ?", id)
	idea, err := scanIdea(row, includeBlob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}

	if idea.Tags, err = s.GetTagsByIdea(ctx, id); err != nil {
		return nil, err
	}

	return idea, nil
}

// GetStates returns the flag set of each existing id
func (s *Storage) GetStates(ctx context.Context, ids []int64) (map[int64]models.IdeaState, error) {
	out := make(map[int64]models.IdeaState, len(ids))
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT id, category_id, is_locked, is_favorite, is_deleted
		FROM ideas WHERE id IN (` + placeholders(len(ids)) + `)`

	rows, err := s.q(ctx).QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query idea states: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			st                          models.IdeaState
			cat                         sql.NullInt64
			locked, favorite, isDeleted int
		)
		if err := rows.Scan(&st.ID, &cat, &locked, &favorite, &isDeleted); err != nil {
			return nil, fmt.Errorf("failed to scan idea state: %w", err)
		}
		st.CategoryID = idPtr(cat)
		st.IsLocked = intToBool(locked)
		st.IsFavorite = intToBool(favorite)
		st.IsDeleted = intToBool(isDeleted)
		out[st.ID] = st
	}

	return out, rows.Err()
}

// GetLockStatus returns id -> is_locked
func (s *Storage) GetLockStatus(ctx context.Context, ids []int64) (map[int64]bool, error) {
	states, err := s.GetStates(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[int64]bool, len(states))
	for id, st := range states {
		out[id] = st.IsLocked
	}
	return out, nil
}

// SetLocked sets is_locked on every id
func (s *Storage) SetLocked(ctx context.Context, ids []int64, locked bool) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	query := "UPDATE ideas SET is_locked = ? WHERE id IN (" + placeholders(len(ids)) + ")"
	args := append([]any{boolToInt(locked)}, idArgs(ids)...)

	res, err := s.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to set lock: %w", err)
	}
	return res.RowsAffected()
}

// FindByHash looks up an idea by content hash; a live row wins over a trashed one
func (s *Storage) FindByHash(ctx context.Context, hash string) (int64, bool, error) {
	if hash == "" {
		return 0, false, nil
	}

	var id int64
	err := s.q(ctx).QueryRowContext(ctx,
		"SELECT id FROM ideas WHERE content_hash = ? ORDER BY is_deleted, id LIMIT 1", hash,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to find idea by hash: %w", err)
	}

	return id, true, nil
}

// UpdateTimestamp strictly increases updated_at even within one millisecond
func (s *Storage) UpdateTimestamp(ctx context.Context, id int64) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"UPDATE ideas SET updated_at = MAX(?, updated_at + 1) WHERE id = ?",
		s.now().UnixMilli(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update timestamp: %w", err)
	}
	return requireAffected(res, storage.ErrIdeaNotFound)
}

// ApplyPatch updates the non-nil patch fields on every id
func (s *Storage) ApplyPatch(ctx context.Context, ids []int64, patch models.IdeaPatch) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 || patch.Empty() {
		return 0, nil
	}

	var (
		sets []string
		args []any
	)

	if patch.SetCategory {
		sets = append(sets, "category_id = ?")
		args = append(args, nullID(patch.CategoryID))
	}
	if patch.Color != nil {
		color, err := validation.NormalizeColor(*patch.Color)
		if err != nil {
			return 0, err
		}
		sets = append(sets, "color = ?")
		args = append(args, color)
	}
	if patch.IsDeleted != nil {
		sets = append(sets, "is_deleted = ?")
		args = append(args, boolToInt(*patch.IsDeleted))
	}
	if patch.IsFavorite != nil {
		sets = append(sets, "is_favorite = ?")
		args = append(args, boolToInt(*patch.IsFavorite))
	}
	if patch.IsPinned != nil {
		sets = append(sets, "is_pinned = ?")
		args = append(args, boolToInt(*patch.IsPinned))
	}
	if patch.Rating != nil {
		if *patch.Rating < models.MinRating || *patch.Rating > models.MaxRating {
			return 0, fmt.Errorf("%w: %d", storage.ErrInvalidRating, *patch.Rating)
		}
		sets = append(sets, "rating = ?")
		args = append(args, *patch.Rating)
	}
	if patch.Touch {
		sets = append(sets, "updated_at = MAX(?, updated_at + 1)")
		args = append(args, s.now().UnixMilli())
	}

	query := "UPDATE ideas SET " + strings.Join(sets, ", ") +
		" WHERE id IN (" + placeholders(len(ids)) + ")"
	args = append(args, idArgs(ids)...)

	res, err := s.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to apply patch: %w", err)
	}
	return res.RowsAffected()
}

// DeleteIdeas permanently removes unlocked ideas with their tag associations
func (s *Storage) DeleteIdeas(ctx context.Context, ids []int64, onlyTrashed bool) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	cond := "id IN (" + placeholders(len(ids)) + ") AND is_locked = 0"
	if onlyTrashed {
		cond += " AND is_deleted = 1"
	}

	return s.deleteWhere(ctx, cond, idArgs(ids))
}

// EmptyTrash permanently removes every unlocked trashed idea
func (s *Storage) EmptyTrash(ctx context.Context) (int64, error) {
	return s.deleteWhere(ctx, "is_deleted = 1 AND is_locked = 0", nil)
}

// deleteWhere removes associations first so that tables without the
// cascade foreign key stay consistent
func (s *Storage) deleteWhere(ctx context.Context, cond string, args []any) (int64, error) {
	var n int64
	err := s.RunInTx(ctx, func(ctx context.Context) error {
		_, err := s.q(ctx).ExecContext(ctx,
			"DELETE FROM idea_tags WHERE idea_id IN (SELECT id FROM ideas WHERE "+cond+")", args...)
		if err != nil {
			return fmt.Errorf("failed to delete idea tags: %w", err)
		}

		res, err := s.q(ctx).ExecContext(ctx, "DELETE FROM ideas WHERE "+cond, args...)
		if err != nil {
			return fmt.Errorf("failed to delete ideas: %w", err)
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdea(row rowScanner, withBlob bool) (*models.Idea, error) {
	idea := &models.Idea{}
	var (
		pinned, favorite, deleted, locked int
		createdAt, updatedAt              int64
		category                          sql.NullInt64
		hash                              sql.NullString
	)

	dest := []any{
		&idea.ID,
		&idea.Title,
		&idea.Content,
		&idea.Color,
		&pinned,
		&favorite,
		&createdAt,
		&updatedAt,
		&category,
		&deleted,
		&idea.ItemType,
		&hash,
		&locked,
		&idea.Rating,
	}
	if withBlob {
		dest = append(dest, &idea.DataBlob)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	idea.IsPinned = intToBool(pinned)
	idea.IsFavorite = intToBool(favorite)
	idea.IsDeleted = intToBool(deleted)
	idea.IsLocked = intToBool(locked)
	idea.CreatedAt = msToTime(createdAt)
	idea.UpdatedAt = msToTime(updatedAt)
	idea.CategoryID = idPtr(category)
	idea.ContentHash = hash.String
	idea.Tags = []string{}

	return idea, nil
}

func nullBlob(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
