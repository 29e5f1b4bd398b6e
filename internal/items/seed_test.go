package items

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storebilling/storebilling-backend/pkg/db/dbtest"
)

func TestSeedFillsEmptyCatalogOnce(t *testing.T) {
	client := dbtest.New(t)
	ctx := context.Background()

	inserted, err := Seed(ctx, client.DB())
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	inserted, err = Seed(ctx, client.DB())
	require.NoError(t, err)
	assert.Zero(t, inserted)

	listed, err := NewRepository(client.DB()).List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	byName := map[string]int{}
	for _, item := range listed {
		byName[item.Name] = item.Stock
	}
	assert.Equal(t, map[string]int{
		"Premium Coffee Beans": 50,
		"Reusable Cup":         80,
		"Chocolate Cookie":     120,
	}, byName)
}
