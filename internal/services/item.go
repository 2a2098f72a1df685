package services

import (
	"context"
	"fmt"

	"github.com/marco0antonio0/back-makeapi/internal/models"
	"github.com/marco0antonio0/back-makeapi/internal/query"
)

// ItemStore is the persistence surface the item service needs.
type ItemStore interface {
	Create(ctx context.Context, endpointID string, values map[string]any) (*models.Item, error)
	List(ctx context.Context, endpointID string, limit int) ([]*models.Item, error)
	ListPage(ctx context.Context, endpointID string, page, limit int) ([]*models.Item, error)
	Get(ctx context.Context, id string) (*models.Item, error)
	Update(ctx context.Context, id string, values map[string]any) (*models.Item, error)
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, req query.Request) ([]*models.Item, error)
}

// ItemService handles item record operations.
type ItemService struct {
	repo ItemStore
}

// NewItemService creates an ItemService.
func NewItemService(repo ItemStore) *ItemService {
	return &ItemService{repo: repo}
}

// CreateItemInput is the payload for creating an item.
type CreateItemInput struct {
	EndpointID string         `json:"endpointId"`
	Values     map[string]any `json:"values"`
}

// UpdateItemInput replaces the item's values when present.
type UpdateItemInput struct {
	Values map[string]any `json:"values"`
}

// ListItemsInput are the query parameters of the item listing paths.
type ListItemsInput struct {
	EndpointID string
	Page       int
	Limit      int
}

func validateListBounds(name string, v int, out []query.Violation) []query.Violation {
	if v != 0 && (v < 1 || v > query.MaxLimit) {
		out = append(out, query.Violation{
			Field:   name,
			Message: fmt.Sprintf("%s must be between 1 and %d", name, query.MaxLimit),
		})
	}
	return out
}

// Validate checks listing parameters.
func (in ListItemsInput) Validate() []query.Violation {
	var out []query.Violation
	out = validateListBounds("page", in.Page, out)
	out = validateListBounds("limit", in.Limit, out)
	return out
}

// Create stores a new item. The endpoint id is recorded as given; its
// existence is not verified at write time.
func (s *ItemService) Create(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	var violations []query.Violation
	if in.EndpointID == "" {
		violations = append(violations, query.Violation{Field: "endpointId", Message: "endpointId is required"})
	}
	if in.Values == nil {
		violations = append(violations, query.Violation{Field: "values", Message: "values is required"})
	}
	if len(violations) > 0 {
		return nil, violationError(violations)
	}
	return s.repo.Create(ctx, in.EndpointID, in.Values)
}

// List returns items, optionally paginated when a page is requested.
func (s *ItemService) List(ctx context.Context, in ListItemsInput) ([]*models.Item, error) {
	if v := in.Validate(); len(v) > 0 {
		return nil, violationError(v)
	}
	if in.Page > 0 {
		return s.repo.ListPage(ctx, in.EndpointID, in.Page, in.Limit)
	}
	return s.repo.List(ctx, in.EndpointID, in.Limit)
}

// Get returns one item by id.
func (s *ItemService) Get(ctx context.Context, id string) (*models.Item, error) {
	return s.repo.Get(ctx, id)
}

// Update replaces the item's value mapping.
func (s *ItemService) Update(ctx context.Context, id string, in UpdateItemInput) (*models.Item, error) {
	return s.repo.Update(ctx, id, in.Values)
}

// Delete removes an item by id.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Query validates the filter request and runs it against the itens
// collection.
func (s *ItemService) Query(ctx context.Context, req query.Request) ([]*models.Item, error) {
	if v := req.Validate(); len(v) > 0 {
		return nil, violationError(v)
	}
	return s.repo.Query(ctx, req)
}
