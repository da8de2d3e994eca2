package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/repository/memory"
	"github.com/example/storefront/internal/utils"
)

func TestPromoteCreatesStaffAccount(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, promote(ctx, store, "admin", "s3cret", ""))

	user, err := store.Users().GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, user.IsStaff)
	assert.Equal(t, "admin", user.Phone)
	assert.True(t, utils.CheckPassword(user.PasswordHash, "s3cret"))
}

func TestPromoteExistingUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, promote(ctx, store, "alice", "pw", "+998900000000"))

	user, err := store.Users().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	user.IsStaff = false
	require.NoError(t, store.Users().Save(ctx, &user))

	require.NoError(t, promote(ctx, store, "alice", "", ""))
	user, err = store.Users().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, user.IsStaff)
	assert.Equal(t, "+998900000000", user.Phone)
}

func TestPromoteRequiresPasswordForNewAccount(t *testing.T) {
	assert.Error(t, promote(context.Background(), memory.NewStore(), "ghost", "", ""))
}
