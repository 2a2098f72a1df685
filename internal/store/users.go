package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/marco0antonio0/back-makeapi/internal/apierrors"
	"github.com/marco0antonio0/back-makeapi/internal/models"
)

const userNotFound = "user not found"

// UserRepo persists accounts in the users collection.
type UserRepo struct {
	s *Store
}

// NewUserRepo creates a UserRepo.
func NewUserRepo(s *Store) *UserRepo {
	return &UserRepo{s: s}
}

func mapUser(id string, data map[string]any) *models.User {
	role, _ := data["role"].(int64)
	return &models.User{
		ID:           id,
		Username:     stringField(data, "username"),
		Email:        stringField(data, "email"),
		PasswordHash: stringField(data, "password"),
		Role:         int(role),
		CreatedAt:    isoTime(data["createdAt"]),
		UpdatedAt:    isoTime(data["updatedAt"]),
	}
}

func (r *UserRepo) findOne(ctx context.Context, field, value string) (*models.User, error) {
	snaps, err := r.s.client.Collection(userCollection).
		Where(field, "==", value).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, mapQueryError(err)
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	return mapUser(snaps[0].Ref.ID, snaps[0].Data()), nil
}

// FindByEmail returns the user with the given email, or nil when absent.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email", email)
}

// FindByUsername returns the user with the given username, or nil when absent.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username", username)
}

// GetByID returns one user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	snap, err := r.s.getExisting(ctx, userCollection, id, userNotFound)
	if err != nil {
		return nil, err
	}
	return mapUser(snap.Ref.ID, snap.Data()), nil
}

// Create stores a new account after re-checking email and username
// uniqueness. passwordHash must already be hashed by the caller.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	existing, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierrors.BadRequest("email already registered")
	}
	existing, err = r.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierrors.BadRequest("username already registered")
	}

	ref, _, err := r.s.client.Collection(userCollection).Add(ctx, map[string]any{
		"username":  username,
		"email":     email,
		"password":  passwordHash,
		"role":      0,
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
	return mapUser(snap.Ref.ID, snap.Data()), nil
}
