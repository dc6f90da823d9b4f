package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicware/clinic-api/internal/docstore"
	"github.com/clinicware/clinic-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.UserProfile) error
	Get(ctx context.Context, uid string) (*model.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*model.UserProfile, error)
	Update(ctx context.Context, user *model.UserProfile) error
	List(ctx context.Context) ([]*model.UserProfile, error)
}

type userRepository struct {
	store docstore.Store
}

func NewUserRepository(store docstore.Store) UserRepository {
	return &userRepository{store: store}
}

// storedUser carries the password hash, which the profile document keeps
// server-side only.
type storedUser struct {
	model.UserProfile
	PasswordHash string `json:"passwordHash,omitempty"`
}

func (r *userRepository) Create(ctx context.Context, user *model.UserProfile) error {
	if user.UID == "" {
		user.UID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	data, err := encode(storedUser{UserProfile: *user, PasswordHash: user.PasswordHash})
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if _, err := r.store.Put(ctx, docstore.CollectionUsers, user.UID, data); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, uid string) (*model.UserProfile, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionUsers, uid)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return decodeUser(*doc)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	docs, err := r.store.List(ctx, docstore.CollectionUsers, docstore.Query{
		Field: "email", Value: email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	if len(docs) == 0 {
		return nil, docstore.ErrNotFound
	}
	return decodeUser(docs[0])
}

func (r *userRepository) Update(ctx context.Context, user *model.UserProfile) error {
	data, err := encode(storedUser{UserProfile: *user, PasswordHash: user.PasswordHash})
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if _, err := r.store.Put(ctx, docstore.CollectionUsers, user.UID, data); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.UserProfile, error) {
	docs, err := r.store.List(ctx, docstore.CollectionUsers, docstore.Query{
		OrderBy: "createdAt", Desc: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*model.UserProfile, 0, len(docs))
	for _, doc := range docs {
		user, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func decodeUser(doc docstore.Document) (*model.UserProfile, error) {
	var stored storedUser
	if err := decode(docstore.CollectionUsers, doc, &stored); err != nil {
		return nil, err
	}
	user := stored.UserProfile
	user.UID = doc.ID
	user.PasswordHash = stored.PasswordHash
	return &user, nil
}
