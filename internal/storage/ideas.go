package storage

import (
	"context"

	"github.com/iudanet/ideacapsule/internal/models"
)

// IdeaStorage defines interface for idea persistence
type IdeaStorage interface {
	// AddIdea inserts the idea, fills ID and timestamps, returns the new id
	AddIdea(ctx context.Context, idea *models.Idea) (int64, error)

	// UpdateIdea replaces all mutable fields and bumps updated_at
	// Returns ErrIdeaNotFound if idea doesn't exist
	UpdateIdea(ctx context.Context, idea *models.Idea) error

	// UpdateField sets one allow-listed column
	// Returns ErrInvalidField for any other name, ErrInvalidRating for out-of-range rating
	UpdateField(ctx context.Context, id int64, field string, value any) error

	// ToggleField flips one allow-listed boolean column and returns the new value
	ToggleField(ctx context.Context, id int64, field string) (bool, error)

	// GetIdea returns the idea with its tags, or nil when it doesn't exist
	GetIdea(ctx context.Context, id int64, includeBlob bool) (*models.Idea, error)

	// FindIdeas returns one page of ideas matching the request (no blobs)
	FindIdeas(ctx context.Context, req models.FilterRequest) (*models.Page, error)

	// CountIdeas counts ideas matching the request, ignoring pagination
	CountIdeas(ctx context.Context, req models.FilterRequest) (int, error)

	// GetMetadata returns the light per-row records of the requested page
	GetMetadata(ctx context.Context, req models.FilterRequest) ([]*models.IdeaMeta, error)

	// GetDetails returns full records in the order of ids; missing ids are skipped
	GetDetails(ctx context.Context, ids []int64) ([]*models.Idea, error)

	// GetStates returns the flag set of each existing id
	GetStates(ctx context.Context, ids []int64) (map[int64]models.IdeaState, error)

	// GetLockStatus returns id -> is_locked for each existing id
	GetLockStatus(ctx context.Context, ids []int64) (map[int64]bool, error)

	// SetLocked sets is_locked on every id
	SetLocked(ctx context.Context, ids []int64, locked bool) (int64, error)

	// FindByHash looks up an idea by content hash, trashed rows included.
	// A live row is preferred over a trashed one.
	FindByHash(ctx context.Context, hash string) (int64, bool, error)

	// UpdateTimestamp strictly increases updated_at of the idea
	UpdateTimestamp(ctx context.Context, id int64) error

	// ApplyPatch updates the non-nil patch fields on every id, returns affected rows
	ApplyPatch(ctx context.Context, ids []int64, patch models.IdeaPatch) (int64, error)

	// DeleteIdeas permanently removes unlocked ideas; onlyTrashed restricts to is_deleted=1
	DeleteIdeas(ctx context.Context, ids []int64, onlyTrashed bool) (int64, error)

	// EmptyTrash permanently removes every unlocked trashed idea
	EmptyTrash(ctx context.Context) (int64, error)

	// Statistics computes histograms for the scope and search of req; criteria are ignored
	Statistics(ctx context.Context, req models.FilterRequest) (*models.Statistics, error)
}
