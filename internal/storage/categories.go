package storage

import (
	"context"

	"github.com/iudanet/ideacapsule/internal/models"
)

// CategoryStorage defines interface for the category forest
type CategoryStorage interface {
	// AddCategory appends a category to the end of its sibling list with a palette colour
	// Returns ErrCategoryNotFound if parentID doesn't exist
	AddCategory(ctx context.Context, name string, parentID *int64) (*models.Category, error)

	// GetCategory returns ErrCategoryNotFound if category doesn't exist
	GetCategory(ctx context.Context, id int64) (*models.Category, error)

	RenameCategory(ctx context.Context, id int64, name string) error

	// SetCategoryColor recolours the category closure and its non-bookmarked ideas
	SetCategoryColor(ctx context.Context, id int64, color string) error

	// DeleteCategory removes the category and detaches its ideas
	// Returns ErrCategoryHasChildren for DeleteRefuse when children exist
	DeleteCategory(ctx context.Context, id int64, mode models.DeleteMode) error

	// GetCategoryTree returns root categories with Children linked
	GetCategoryTree(ctx context.Context) ([]*models.Category, error)

	// ListCategories returns a flat list ordered by parent and sort_order
	ListCategories(ctx context.Context) ([]*models.Category, error)

	// SaveCategoryOrder applies all updates atomically
	// Returns ErrCategoryCycle if the result is not a forest
	SaveCategoryOrder(ctx context.Context, updates []models.OrderUpdate) error

	SetPresetTags(ctx context.Context, id int64, csv string) error
	GetPresetTags(ctx context.Context, id int64) (string, error)

	// CategoryClosure returns id and all its transitive descendants
	CategoryClosure(ctx context.Context, id int64) ([]int64, error)

	// CountByCategory returns the number of non-trashed ideas per category id
	CountByCategory(ctx context.Context) (map[int64]int, error)
}
