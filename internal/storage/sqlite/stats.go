package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iudanet/ideacapsule/internal/models"
)

// Statistics aggregates over the browsing context of req: scope, tag filter
// and search. Criteria are deliberately left out so that ticking a checkbox
// does not change the counts shown next to the others.
func (s *Storage) Statistics(ctx context.Context, req models.FilterRequest) (*models.Statistics, error) {
	where, args, err := s.compiler.Where(req, false)
	if err != nil {
		return nil, err
	}

	st := models.NewStatistics()

	if err := s.groupCount(ctx, "i.rating", where, args, func(rows *sql.Rows) error {
		var rating, n int
		if err := rows.Scan(&rating, &n); err != nil {
			return err
		}
		st.Stars[rating] = n
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.groupCount(ctx, "i.color", where, args, func(rows *sql.Rows) error {
		var color string
		var n int
		if err := rows.Scan(&color, &n); err != nil {
			return err
		}
		st.Colors[color] = n
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.groupCount(ctx, "i.item_type", where, args, func(rows *sql.Rows) error {
		var itemType string
		var n int
		if err := rows.Scan(&itemType, &n); err != nil {
			return err
		}
		st.Types[itemType] = n
		return nil
	}); err != nil {
		return nil, err
	}

	if st.Tags, err = s.tagCounts(ctx, where, args); err != nil {
		return nil, err
	}

	if err := s.dateBuckets(ctx, st, where, args); err != nil {
		return nil, err
	}

	return st, nil
}

// groupCount runs SELECT column, COUNT(*) ... GROUP BY column; column is a literal
func (s *Storage) groupCount(ctx context.Context, column, where string, args []any, scan func(*sql.Rows) error) error {
	query := "SELECT " + column + ", COUNT(*) FROM ideas i WHERE " + where + " GROUP BY " + column

	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to group by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("failed to scan %s histogram: %w", column, err)
		}
	}
	return rows.Err()
}

func (s *Storage) tagCounts(ctx context.Context, where string, args []any) ([]models.TagCount, error) {
	query := `SELECT t.name, COUNT(*) AS cnt
		FROM ideas i
		JOIN idea_tags it ON it.idea_id = i.id
		JOIN tags t ON t.id = it.tag_id
		WHERE ` + where + `
		GROUP BY t.id, t.name
		ORDER BY cnt DESC, t.name`

	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count tags: %w", err)
	}
	defer rows.Close()

	out := make([]models.TagCount, 0)
	for rows.Next() {
		var tc models.TagCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tag count: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// dateBuckets counts every bucket in one scan
func (s *Storage) dateBuckets(ctx context.Context, st *models.Statistics, where string, args []any) error {
	var (
		sums  []string
		bargs []any
	)
	for _, opt := range models.DateOptions {
		from, to, err := s.compiler.DateRange(opt)
		if err != nil {
			return err
		}
		if to.IsZero() {
			sums = append(sums, "COALESCE(SUM(CASE WHEN i.created_at >= ? THEN 1 ELSE 0 END), 0)")
			bargs = append(bargs, from.UnixMilli())
			continue
		}
		sums = append(sums, "COALESCE(SUM(CASE WHEN i.created_at >= ? AND i.created_at < ? THEN 1 ELSE 0 END), 0)")
		bargs = append(bargs, from.UnixMilli(), to.UnixMilli())
	}

	query := "SELECT " + strings.Join(sums, ", ") + " FROM ideas i WHERE " + where

	counts := make([]int, len(models.DateOptions))
	dest := make([]any, len(counts))
	for i := range counts {
		dest[i] = &counts[i]
	}

	if err := s.q(ctx).QueryRowContext(ctx, query, append(bargs, args...)...).Scan(dest...); err != nil {
		return fmt.Errorf("failed to count date buckets: %w", err)
	}

	for i, opt := range models.DateOptions {
		st.DateCreate[opt] = counts[i]
	}
	return nil
}
