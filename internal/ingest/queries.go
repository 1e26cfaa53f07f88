package ingest

import (
	"context"

	"github.com/iudanet/ideacapsule/internal/models"
	"github.com/iudanet/ideacapsule/internal/storage"
)

// GetIdea returns ErrIdeaNotFound when the idea doesn't exist
func (s *Service) GetIdea(ctx context.Context, id int64, includeBlob bool) (*models.Idea, error) {
	defer s.observe("get")()

	idea, err := s.store.GetIdea(ctx, id, includeBlob)
	if err != nil {
		return nil, err
	}
	if idea == nil {
		return nil, storage.ErrIdeaNotFound
	}
	return idea, nil
}

// Find returns one page of ideas
func (s *Service) Find(ctx context.Context, req models.FilterRequest) (*models.Page, error) {
	defer s.observe("find")()
	return s.store.FindIdeas(ctx, req)
}

// Count counts matching ideas ignoring pagination
func (s *Service) Count(ctx context.Context, req models.FilterRequest) (int, error) {
	defer s.observe("count")()
	return s.store.CountIdeas(ctx, req)
}

// Metadata returns the light records of one page
func (s *Service) Metadata(ctx context.Context, req models.FilterRequest) ([]*models.IdeaMeta, error) {
	defer s.observe("metadata")()
	return s.store.GetMetadata(ctx, req)
}

// Details returns full records for ids in input order
func (s *Service) Details(ctx context.Context, ids []int64) ([]*models.Idea, error) {
	defer s.observe("details")()
	return s.store.GetDetails(ctx, ids)
}

// Statistics computes filter histograms for the scope and search of req
func (s *Service) Statistics(ctx context.Context, req models.FilterRequest) (*models.Statistics, error) {
	defer s.observe("statistics")()
	return s.store.Statistics(ctx, req)
}

// CategoryTree returns the category forest
func (s *Service) CategoryTree(ctx context.Context) ([]*models.Category, error) {
	defer s.observe("category_tree")()
	return s.store.GetCategoryTree(ctx)
}

// Categories returns a flat category list
func (s *Service) Categories(ctx context.Context) ([]*models.Category, error) {
	defer s.observe("categories")()
	return s.store.ListCategories(ctx)
}

// CategoryCounts returns non-trashed idea counts per category
func (s *Service) CategoryCounts(ctx context.Context) (map[int64]int, error) {
	defer s.observe("category_counts")()
	return s.store.CountByCategory(ctx)
}

// Tags lists every tag
func (s *Service) Tags(ctx context.Context) ([]*models.Tag, error) {
	defer s.observe("tags")()
	return s.store.ListTags(ctx)
}

// TagUnion returns tags present on any of ids
func (s *Service) TagUnion(ctx context.Context, ids []int64) ([]string, error) {
	defer s.observe("tag_union")()
	return s.store.GetTagUnion(ctx, ids)
}
