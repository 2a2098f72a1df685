package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/marco0antonio0/back-makeapi/internal/models"
	"github.com/marco0antonio0/back-makeapi/internal/query"
)

const itemNotFound = "item not found"

// ItemRepo persists item records in the itens collection.
type ItemRepo struct {
	s *Store
}

// NewItemRepo creates an ItemRepo.
func NewItemRepo(s *Store) *ItemRepo {
	return &ItemRepo{s: s}
}

func mapItem(id string, data map[string]any) *models.Item {
	values, _ := data["data"].(map[string]any)
	if values == nil {
		values = map[string]any{}
	}
	return &models.Item{
		ID:         id,
		EndpointID: stringField(data, "endpointId"),
		Data:       values,
		CreatedAt:  isoTime(data["createdAt"]),
		UpdatedAt:  isoTime(data["updatedAt"]),
	}
}

// Create stores a new item. The referenced endpoint id is not verified.
func (r *ItemRepo) Create(ctx context.Context, endpointID string, values map[string]any) (*models.Item, error) {
	ref, _, err := r.s.client.Collection(itemCollection).Add(ctx, map[string]any{
		"endpointId": endpointID,
		"data":       values,
		"createdAt":  firestore.ServerTimestamp,
		"updatedAt":  firestore.ServerTimestamp,
	})
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, err
	}
	return mapItem(snap.Ref.ID, snap.Data()), nil
}

// List returns items, optionally restricted to one endpoint and capped
// store-side.
func (r *ItemRepo) List(ctx context.Context, endpointID string, limit int) ([]*models.Item, error) {
	q := r.s.client.Collection(itemCollection).Query
	if endpointID != "" {
		q = q.Where("endpointId", "==", endpointID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, mapQueryError(err)
	}
	out := make([]*models.Item, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, mapItem(snap.Ref.ID, snap.Data()))
	}
	return out, nil
}

// ListPage returns one page of items ordered by document id, walking
// StartAfter cursors up to the requested page. A page past the end of the
// collection yields an empty list.
func (r *ItemRepo) ListPage(ctx context.Context, endpointID string, page, limit int) ([]*models.Item, error) {
	if page < 1 {
		page = 1
	}

	base := r.s.client.Collection(itemCollection).Query
	if endpointID != "" {
		base = base.Where("endpointId", "==", endpointID)
	}
	base = base.OrderBy(firestore.DocumentID, firestore.Asc)

	var lastID string
	for p := 1; ; p++ {
		q := base
		if lastID != "" {
			q = q.StartAfter(lastID)
		}
		if limit > 0 {
			q = q.Limit(limit)
		}
		snaps, err := q.Documents(ctx).GetAll()
		if err != nil {
			return nil, mapQueryError(err)
		}
		if p == page {
			out := make([]*models.Item, 0, len(snaps))
			for _, snap := range snaps {
				out = append(out, mapItem(snap.Ref.ID, snap.Data()))
			}
			return out, nil
		}
		if len(snaps) == 0 {
			return []*models.Item{}, nil
		}
		lastID = snaps[len(snaps)-1].Ref.ID
	}
}

// Get returns one item by id.
func (r *ItemRepo) Get(ctx context.Context, id string) (*models.Item, error) {
	snap, err := r.s.getExisting(ctx, itemCollection, id, itemNotFound)
	if err != nil {
		return nil, err
	}
	return mapItem(snap.Ref.ID, snap.Data()), nil
}

// Update replaces the item's value mapping wholesale when values is
// non-nil, always bumping updatedAt.
func (r *ItemRepo) Update(ctx context.Context, id string, values map[string]any) (*models.Item, error) {
	if _, err := r.s.getExisting(ctx, itemCollection, id, itemNotFound); err != nil {
		return nil, err
	}

	updates := []firestore.Update{
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if values != nil {
		updates = append(updates, firestore.Update{Path: "data", Value: values})
	}

	ref := r.s.client.Collection(itemCollection).Doc(id)
	if _, err := ref.Update(ctx, updates); err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, err
	}
	return mapItem(snap.Ref.ID, snap.Data()), nil
}

// Delete removes an item.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.s.getExisting(ctx, itemCollection, id, itemNotFound); err != nil {
		return err
	}
	_, err := r.s.client.Collection(itemCollection).Doc(id).Delete(ctx)
	return err
}

// Query runs a filter request against the itens collection.
func (r *ItemRepo) Query(ctx context.Context, req query.Request) ([]*models.Item, error) {
	rows, err := r.s.runFilterQuery(ctx, itemCollection, req)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Item, 0, len(rows))
	for _, d := range rows {
		out = append(out, mapItem(d.id, d.data))
	}
	return out, nil
}
