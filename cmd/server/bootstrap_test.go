package main

import (
	"context"
	"testing"

	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUsers struct {
	repository.UserRepository
	users map[string]models.User
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	u, ok := m.users[email]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memoryUsers) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.users[user.Email] = user
	return user, nil
}

func TestEnsureSuperuser(t *testing.T) {
	users := &memoryUsers{users: map[string]models.User{}}

	require.NoError(t, ensureSuperuser(context.Background(), users, "admin@example.com", "s3cret!"))
	admin, ok := users.users["admin@example.com"]
	require.True(t, ok)
	assert.True(t, admin.IsAdmin)
	assert.True(t, admin.IsActive)
	assert.NotEqual(t, "s3cret!", admin.HashedPassword)

	// second run leaves the existing account alone
	admin.FullName = "Renamed"
	users.users["admin@example.com"] = admin
	require.NoError(t, ensureSuperuser(context.Background(), users, "admin@example.com", "other"))
	assert.Equal(t, "Renamed", users.users["admin@example.com"].FullName)
}

func TestEnsureSuperuserSkipsWithoutPassword(t *testing.T) {
	users := &memoryUsers{users: map[string]models.User{}}

	require.NoError(t, ensureSuperuser(context.Background(), users, "admin@example.com", ""))
	assert.Empty(t, users.users)
}
