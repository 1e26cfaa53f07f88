package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iudanet/ideacapsule/internal/filter"
	"github.com/iudanet/ideacapsule/internal/models"
)

const metaColumns = `i.id, i.title, i.color, i.is_pinned, i.is_favorite,
	i.created_at, i.updated_at, i.item_type, i.rating, i.is_locked,
	(SELECT GROUP_CONCAT(t.name, char(31)) FROM idea_tags it JOIN tags t ON t.id = it.tag_id WHERE it.idea_id = i.id)`

// FindIdeas returns one page of matching ideas without image bytes
func (s *Storage) FindIdeas(ctx context.Context, req models.FilterRequest) (*models.Page, error) {
	compiled, err := s.compiler.Compile(req, ideaColumns)
	if err != nil {
		return nil, err
	}

	total, err := s.count(ctx, compiled)
	if err != nil {
		return nil, err
	}

	p := filter.Paginate(total, req.Page, req.PageSize)
	list := compiled.Paged(p)

	rows, err := s.q(ctx).QueryContext(ctx, list.SQL, list.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ideas: %w", err)
	}

	items, err := scanIdeas(rows, false)
	if err != nil {
		return nil, err
	}

	if err := s.loadTags(ctx, items); err != nil {
		return nil, err
	}

	return &models.Page{
		Items:    items,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
		Pages:    p.Pages,
	}, nil
}

// CountIdeas counts matching ideas ignoring pagination
func (s *Storage) CountIdeas(ctx context.Context, req models.FilterRequest) (int, error) {
	compiled, err := s.compiler.Compile(req, ideaColumns)
	if err != nil {
		return 0, err
	}
	return s.count(ctx, compiled)
}

func (s *Storage) count(ctx context.Context, compiled *filter.Compiled) (int, error) {
	var n int
	if err := s.q(ctx).QueryRowContext(ctx, compiled.Count.SQL, compiled.Count.Args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ideas: %w", err)
	}
	return n, nil
}

// GetMetadata returns light records of the requested page; tags come from
// one GROUP_CONCAT per row instead of a query per idea
func (s *Storage) GetMetadata(ctx context.Context, req models.FilterRequest) ([]*models.IdeaMeta, error) {
	compiled, err := s.compiler.Compile(req, metaColumns)
	if err != nil {
		return nil, err
	}

	p := filter.Paginate(0, 1, 0)
	if req.PageSize > 0 {
		total, err := s.count(ctx, compiled)
		if err != nil {
			return nil, err
		}
		p = filter.Paginate(total, req.Page, req.PageSize)
	}

	list := compiled.Paged(p)
	rows, err := s.q(ctx).QueryContext(ctx, list.SQL, list.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	out := make([]*models.IdeaMeta, 0)
	for rows.Next() {
		m := &models.IdeaMeta{}
		var (
			pinned, favorite, locked int
			createdAt, updatedAt     int64
			tags                     sql.NullString
		)
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Color, &pinned, &favorite,
			&createdAt, &updatedAt, &m.ItemType, &m.Rating, &locked, &tags,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		m.IsPinned = intToBool(pinned)
		m.IsFavorite = intToBool(favorite)
		m.IsLocked = intToBool(locked)
		m.CreatedAt = msToTime(createdAt)
		m.UpdatedAt = msToTime(updatedAt)
		m.Tags = splitConcat(tags)
		out = append(out, m)
	}

	return out, rows.Err()
}

// GetDetails returns full records, blobs included, in the order of ids
func (s *Storage) GetDetails(ctx context.Context, ids []int64) ([]*models.Idea, error) {
	uniq := uniqueIDs(ids)
	if len(uniq) == 0 {
		return []*models.Idea{}, nil
	}

	query := "SELECT " + ideaColumnsWithBlob + " FROM ideas i WHERE i.id IN (" + placeholders(len(uniq)) + ")"
	rows, err := s.q(ctx).QueryContext(ctx, query, idArgs(uniq)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query idea details: %w", err)
	}

	found, err := scanIdeas(rows, true)
	if err != nil {
		return nil, err
	}
	if err := s.loadTags(ctx, found); err != nil {
		return nil, err
	}

	byID := make(map[int64]*models.Idea, len(found))
	for _, idea := range found {
		byID[idea.ID] = idea
	}

	out := make([]*models.Idea, 0, len(found))
	for _, id := range uniq {
		if idea, ok := byID[id]; ok {
			out = append(out, idea)
		}
	}
	return out, nil
}

// scanIdeas drains and closes rows before the caller issues the next query
func scanIdeas(rows *sql.Rows, withBlob bool) ([]*models.Idea, error) {
	defer rows.Close()

	ideas := make([]*models.Idea, 0)
	for rows.Next() {
		idea, err := scanIdea(rows, withBlob)
		if err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		ideas = append(ideas, idea)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ideas: %w", err)
	}
	return ideas, nil
}
