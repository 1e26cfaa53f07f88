package storage

import (
	"context"

	"github.com/iudanet/ideacapsule/internal/models"
)

// TagStorage defines interface for tags and idea associations
type TagStorage interface {
	// ListTags returns all tags ordered by name
	ListTags(ctx context.Context) ([]*models.Tag, error)

	// GetTagsByIdea returns tag names of one idea ordered by name
	GetTagsByIdea(ctx context.Context, ideaID int64) ([]string, error)

	// GetTagUnion returns tag names present on any of ids
	GetTagUnion(ctx context.Context, ideaIDs []int64) ([]string, error)

	// SetIdeaTags replaces the association set, creating unknown tags
	SetIdeaTags(ctx context.Context, ideaID int64, names []string) error

	// AddTagsToIdeas unions names into every idea's tag set
	AddTagsToIdeas(ctx context.Context, ideaIDs []int64, names []string) error

	// RemoveTagFromIdeas drops one association from every idea
	RemoveTagFromIdeas(ctx context.Context, ideaIDs []int64, name string) error

	// RenameTag renames, merging into newName when it already exists
	// Returns ErrTagNotFound if oldName doesn't exist
	RenameTag(ctx context.Context, oldName, newName string) error

	// DeleteTag removes the tag and all its associations
	DeleteTag(ctx context.Context, name string) error
}
