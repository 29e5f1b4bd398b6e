package items

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storebilling/storebilling-backend/pkg/db/dbtest"
	"github.com/storebilling/storebilling-backend/pkg/db/models"
)

func seedItem(t *testing.T, repo *Repository, stock int) *models.Item {
	t.Helper()
	item := &models.Item{Name: "Pen", Price: decimal.RequireFromString("10.50"), Stock: stock}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func TestDecrementStock(t *testing.T) {
	repo := NewRepository(dbtest.New(t).DB())
	ctx := context.Background()
	item := seedItem(t, repo, 5)

	ok, err := repo.DecrementStock(ctx, item.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, item.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DecrementStock(ctx, item.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	reloaded, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Stock)

	ok, err = repo.DecrementStock(ctx, uuid.New(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRestoreStock(t *testing.T) {
	repo := NewRepository(dbtest.New(t).DB())
	ctx := context.Background()
	item := seedItem(t, repo, 1)

	require.NoError(t, repo.RestoreStock(ctx, item.ID, 4))
	require.NoError(t, repo.RestoreStock(ctx, uuid.New(), 4))

	reloaded, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Stock)
}

func TestFindByIDMissing(t *testing.T) {
	repo := NewRepository(dbtest.New(t).DB())
	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUpdateAndDelete(t *testing.T) {
	repo := NewRepository(dbtest.New(t).DB())
	ctx := context.Background()
	item := seedItem(t, repo, 2)

	found, err := repo.Update(ctx, item.ID, map[string]any{"name": "Marker"})
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Update(ctx, uuid.New(), map[string]any{"name": "Marker"})
	require.NoError(t, err)
	assert.False(t, found)

	deleted, err := repo.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
