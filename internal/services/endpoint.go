// Package services holds the business layer. Each service takes its store
// collaborator as an interface so handlers can be exercised against
// in-memory fakes.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/marco0antonio0/back-makeapi/internal/apierrors"
	"github.com/marco0antonio0/back-makeapi/internal/models"
	"github.com/marco0antonio0/back-makeapi/internal/query"
)

const (
	maxEndpointTitleLen = 120
	maxFieldTitleLen    = 80
)

// EndpointStore is the persistence surface the endpoint service needs.
type EndpointStore interface {
	Create(ctx context.Context, title string, fields []models.Field) (*models.Endpoint, error)
	List(ctx context.Context) ([]*models.Endpoint, error)
	Get(ctx context.Context, id string) (*models.Endpoint, error)
	Update(ctx context.Context, id string, patch models.EndpointPatch) (*models.Endpoint, error)
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, req query.Request) ([]*models.Endpoint, error)
}

// EndpointService handles endpoint schema operations.
type EndpointService struct {
	repo EndpointStore
}

// NewEndpointService creates an EndpointService.
func NewEndpointService(repo EndpointStore) *EndpointService {
	return &EndpointService{repo: repo}
}

// CreateEndpointInput is the payload for creating an endpoint schema.
type CreateEndpointInput struct {
	Title  string         `json:"title"`
	Fields []models.Field `json:"fields"`
}

// UpdateEndpointInput is a partial update payload; absent keys are left
// unchanged.
type UpdateEndpointInput struct {
	Title  *string        `json:"title"`
	Fields []models.Field `json:"fields"`
}

func validateFields(fields []models.Field, out []query.Violation) []query.Violation {
	if len(fields) == 0 {
		out = append(out, query.Violation{Field: "fields", Message: "at least one field is required"})
	}
	for i, f := range fields {
		name := fmt.Sprintf("fields[%d]", i)
		if strings.TrimSpace(f.Title) == "" {
			out = append(out, query.Violation{Field: name + ".title", Message: "title is required"})
		}
		if len(f.Title) > maxFieldTitleLen {
			out = append(out, query.Violation{
				Field:   name + ".title",
				Message: fmt.Sprintf("title must be at most %d characters", maxFieldTitleLen),
			})
		}
		if !models.ValidFieldType(f.Type) {
			out = append(out, query.Violation{
				Field:   name + ".type",
				Message: fmt.Sprintf("type must be one of %s, %s, %s", models.FieldTypeText, models.FieldTypeNumber, models.FieldTypeImage),
			})
		}
	}
	return out
}

// Validate checks the payload and returns every field-level violation.
func (in CreateEndpointInput) Validate() []query.Violation {
	var out []query.Violation
	if strings.TrimSpace(in.Title) == "" {
		out = append(out, query.Violation{Field: "title", Message: "title is required"})
	}
	if len(in.Title) > maxEndpointTitleLen {
		out = append(out, query.Violation{
			Field:   "title",
			Message: fmt.Sprintf("title must be at most %d characters", maxEndpointTitleLen),
		})
	}
	return validateFields(in.Fields, out)
}

// Validate checks the patch payload.
func (in UpdateEndpointInput) Validate() []query.Violation {
	var out []query.Violation
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			out = append(out, query.Violation{Field: "title", Message: "title must not be empty"})
		}
		if len(*in.Title) > maxEndpointTitleLen {
			out = append(out, query.Violation{
				Field:   "title",
				Message: fmt.Sprintf("title must be at most %d characters", maxEndpointTitleLen),
			})
		}
	}
	if in.Fields != nil {
		out = validateFields(in.Fields, out)
	}
	return out
}

func violationError(violations []query.Violation) error {
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.String()
	}
	return apierrors.BadRequest("invalid payload: " + strings.Join(msgs, "; "))
}

// Create validates and stores a new endpoint schema.
func (s *EndpointService) Create(ctx context.Context, in CreateEndpointInput) (*models.Endpoint, error) {
	if v := in.Validate(); len(v) > 0 {
		return nil, violationError(v)
	}
	return s.repo.Create(ctx, in.Title, in.Fields)
}

// List returns all endpoints, newest first.
func (s *EndpointService) List(ctx context.Context) ([]*models.Endpoint, error) {
	return s.repo.List(ctx)
}

// Get returns one endpoint by id.
func (s *EndpointService) Get(ctx context.Context, id string) (*models.Endpoint, error) {
	return s.repo.Get(ctx, id)
}

// Update applies a partial update to an endpoint schema.
func (s *EndpointService) Update(ctx context.Context, id string, in UpdateEndpointInput) (*models.Endpoint, error) {
	if v := in.Validate(); len(v) > 0 {
		return nil, violationError(v)
	}
	return s.repo.Update(ctx, id, models.EndpointPatch{Title: in.Title, Fields: in.Fields})
}

// Delete removes an endpoint by id.
func (s *EndpointService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Query validates the filter request and runs it against the endpoint
// collection.
func (s *EndpointService) Query(ctx context.Context, req query.Request) ([]*models.Endpoint, error) {
	if v := req.Validate(); len(v) > 0 {
		return nil, violationError(v)
	}
	return s.repo.Query(ctx, req)
}
