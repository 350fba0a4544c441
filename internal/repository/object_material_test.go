package repository

import (
	"context"
	"testing"

	"openlearner_backend/pkg/objectstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectMaterialRepo(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	store := NewObjectMaterialRepo(inner, objectstore.NewLocalProvider(t.TempDir()))

	_, found, err := store.GetCourseMaterial(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SaveCourseMaterial(ctx, "c1", "notes about cells"))
	material, found, err := store.GetCourseMaterial(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "notes about cells", material)

	_, found, err = inner.GetCourseMaterial(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, found, "material bypasses the inner store")

	u, err := store.GetOrCreateUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.ID)
}
