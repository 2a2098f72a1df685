package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/marco0antonio0/back-makeapi/internal/models"
	"github.com/marco0antonio0/back-makeapi/internal/query"
)

const endpointNotFound = "endpoint not found"

// EndpointRepo persists endpoint schemas in the endpoint collection.
type EndpointRepo struct {
	s *Store
}

// NewEndpointRepo creates an EndpointRepo.
func NewEndpointRepo(s *Store) *EndpointRepo {
	return &EndpointRepo{s: s}
}

func fieldsToDoc(fields []models.Field) []any {
	out := make([]any, len(fields))
	for i, f := range fields {
		out[i] = map[string]any{
			"title":     f.Title,
			"type":      f.Type,
			"multiline": f.Multiline,
		}
	}
	return out
}

func fieldsFromDoc(v any) []models.Field {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]models.Field, 0, len(list))
	for _, e := range list {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		multiline, _ := m["multiline"].(bool)
		out = append(out, models.Field{
			Title:     stringField(m, "title"),
			Type:      stringField(m, "type"),
			Multiline: multiline,
		})
	}
	return out
}

func mapEndpoint(id string, data map[string]any) *models.Endpoint {
	return &models.Endpoint{
		ID:        id,
		Title:     stringField(data, "title"),
		Fields:    fieldsFromDoc(data["fields"]),
		CreatedAt: isoTime(data["createdAt"]),
		UpdatedAt: isoTime(data["updatedAt"]),
	}
}

// Create stores a new endpoint schema and reads it back so server-assigned
// timestamps appear in the returned entity.
func (r *EndpointRepo) Create(ctx context.Context, title string, fields []models.Field) (*models.Endpoint, error) {
	ref, _, err := r.s.client.Collection(endpointCollection).Add(ctx, map[string]any{
		"title":     title,
		"fields":    fieldsToDoc(fields),
		"createdAt": firestore.ServerTimestamp,
		"updatedAt": firestore.ServerTimestamp,
	})
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, err
	}
	return mapEndpoint(snap.Ref.ID, snap.Data()), nil
}

// List returns all endpoints, newest first (store-side ordering).
func (r *EndpointRepo) List(ctx context.Context) ([]*models.Endpoint, error) {
	snaps, err := r.s.client.Collection(endpointCollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, mapQueryError(err)
	}
	out := make([]*models.Endpoint, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, mapEndpoint(snap.Ref.ID, snap.Data()))
	}
	return out, nil
}

// Get returns one endpoint by id.
func (r *EndpointRepo) Get(ctx context.Context, id string) (*models.Endpoint, error) {
	snap, err := r.s.getExisting(ctx, endpointCollection, id, endpointNotFound)
	if err != nil {
		return nil, err
	}
	return mapEndpoint(snap.Ref.ID, snap.Data()), nil
}

// Update applies a partial update. The existence check runs first so a
// missing id yields NotFound rather than an implicit create.
func (r *EndpointRepo) Update(ctx context.Context, id string, patch models.EndpointPatch) (*models.Endpoint, error) {
	if _, err := r.s.getExisting(ctx, endpointCollection, id, endpointNotFound); err != nil {
		return nil, err
	}

	updates := []firestore.Update{
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if patch.Title != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *patch.Title})
	}
	if patch.Fields != nil {
		updates = append(updates, firestore.Update{Path: "fields", Value: fieldsToDoc(patch.Fields)})
	}

	ref := r.s.client.Collection(endpointCollection).Doc(id)
	if _, err := ref.Update(ctx, updates); err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, err
	}
	return mapEndpoint(snap.Ref.ID, snap.Data()), nil
}

// Delete removes an endpoint. Items referencing it are left in place.
func (r *EndpointRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.s.getExisting(ctx, endpointCollection, id, endpointNotFound); err != nil {
		return err
	}
	_, err := r.s.client.Collection(endpointCollection).Doc(id).Delete(ctx)
	return err
}

// Query runs a filter request against the endpoint collection.
func (r *EndpointRepo) Query(ctx context.Context, req query.Request) ([]*models.Endpoint, error) {
	rows, err := r.s.runFilterQuery(ctx, endpointCollection, req)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Endpoint, 0, len(rows))
	for _, d := range rows {
		out = append(out, mapEndpoint(d.id, d.data))
	}
	return out, nil
}
