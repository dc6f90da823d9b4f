package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicware/clinic-api/internal/docstore"
	"github.com/clinicware/clinic-api/internal/model"
)

func TestUserRoundTripKeepsPasswordHash(t *testing.T) {
	repo := NewUserRepository(docstore.NewMemoryStore())
	ctx := context.Background()

	user := &model.UserProfile{
		Name:         "Asha Verma",
		Email:        "asha@example.com",
		Role:         model.RoleDoctor,
		PasswordHash: "bcrypt-hash",
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.UID)

	got, err := repo.Get(ctx, user.UID)
	require.NoError(t, err)
	assert.Equal(t, "bcrypt-hash", got.PasswordHash)
	assert.Equal(t, model.RoleDoctor, got.Role)
}

func TestUserProfileJSONHidesPasswordHash(t *testing.T) {
	user := &model.UserProfile{UID: "u1", Name: "A", Email: "a@b.c", PasswordHash: "secret"}

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "passwordHash")
}

func TestUserGetByEmail(t *testing.T) {
	repo := NewUserRepository(docstore.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.UserProfile{Name: "A", Email: "a@example.com", Role: model.RoleAdmin}))
	require.NoError(t, repo.Create(ctx, &model.UserProfile{Name: "B", Email: "b@example.com", Role: model.RolePatient}))

	got, err := repo.GetByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)

	_, err = repo.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestMalformedRecordSurfacesTypedError(t *testing.T) {
	store := docstore.NewMemoryStore()
	repo := NewUserRepository(store)
	ctx := context.Background()

	// A document whose shape does not match the user schema.
	_, err := store.Put(ctx, docstore.CollectionUsers, "bad", []byte(`{"role":123}`))
	require.NoError(t, err)

	_, err = repo.Get(ctx, "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}
