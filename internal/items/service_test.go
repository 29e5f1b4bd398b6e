package items

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storebilling/storebilling-backend/pkg/db/dbtest"
	pkgerrors "github.com/storebilling/storebilling-backend/pkg/errors"
	"github.com/storebilling/storebilling-backend/pkg/types"
)

type stubNormalizer struct {
	calls []string
	err   error
}

func (s *stubNormalizer) NormalizeDataURL(value string) (string, error) {
	s.calls = append(s.calls, value)
	if s.err != nil {
		return "", s.err
	}
	return "normalized:" + value, nil
}

func newTestService(t *testing.T) (Service, *Repository, *stubNormalizer) {
	t.Helper()
	client := dbtest.New(t)
	repo := NewRepository(client.DB())
	images := &stubNormalizer{}
	svc, err := NewService(repo, images, nil, nil)
	require.NoError(t, err)
	return svc, repo, images
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, &stubNormalizer{}, nil, nil)
	require.Error(t, err)

	_, err = NewService(NewRepository(nil), nil, nil, nil)
	require.Error(t, err)
}

func TestCreateItem(t *testing.T) {
	svc, _, images := newTestService(t)
	ctx := context.Background()

	image := "data:image/png;base64,AAAA"
	dto, err := svc.CreateItem(ctx, CreateItemInput{
		Name:        "  Pen ",
		Price:       decimal.RequireFromString("10.50"),
		Stock:       50,
		ImageBase64: &image,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, dto.ID)
	assert.Equal(t, "Pen", dto.Name)
	assert.Equal(t, 10.5, dto.Price)
	assert.Equal(t, 50, dto.Stock)
	require.NotNil(t, dto.ImageBase64)
	assert.Equal(t, "normalized:"+image, *dto.ImageBase64)
	assert.Len(t, images.calls, 1)

	fetched, err := svc.GetItem(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.Name, fetched.Name)
	assert.Equal(t, 50, fetched.Stock)
}

func TestCreateItemValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateItemInput
	}{
		{"blank name", CreateItemInput{Name: " ", Price: decimal.NewFromInt(1), Stock: 1}},
		{"negative price", CreateItemInput{Name: "Pen", Price: decimal.NewFromInt(-1), Stock: 1}},
		{"negative stock", CreateItemInput{Name: "Pen", Price: decimal.NewFromInt(1), Stock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateItem(ctx, tc.input)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}
}

func TestCreateItemPropagatesCompressionFailure(t *testing.T) {
	svc, repo, images := newTestService(t)
	images.err = pkgerrors.New(pkgerrors.CodeCompressionFailed, "unable to compress image below 1.0 MB")

	image := "data:image/png;base64,AAAA"
	_, err := svc.CreateItem(context.Background(), CreateItemInput{
		Name:        "Pen",
		Price:       decimal.NewFromInt(1),
		Stock:       1,
		ImageBase64: &image,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeCompressionFailed))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdateItemPartial(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	image := "data:image/png;base64,AAAA"
	created, err := svc.CreateItem(ctx, CreateItemInput{
		Name:        "Pen",
		Price:       decimal.RequireFromString("10.50"),
		Stock:       50,
		ImageBase64: &image,
	})
	require.NoError(t, err)

	stock := 7
	updated, err := svc.UpdateItem(ctx, created.ID, UpdateItemInput{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, "Pen", updated.Name)
	assert.Equal(t, 10.5, updated.Price)
	assert.Equal(t, 7, updated.Stock)
	assert.NotNil(t, updated.ImageBase64)

	cleared, err := svc.UpdateItem(ctx, created.ID, UpdateItemInput{
		ImageBase64: types.OptionalString{Set: true},
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.ImageBase64)
}

func TestUpdateItemMissing(t *testing.T) {
	svc, _, _ := newTestService(t)
	name := "Ghost"

	_, err := svc.UpdateItem(context.Background(), uuid.New(), UpdateItemInput{Name: &name})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.UpdateItem(context.Background(), uuid.New(), UpdateItemInput{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteItemIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, CreateItemInput{Name: "Pen", Price: decimal.NewFromInt(1), Stock: 1})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, created.ID))
	require.NoError(t, svc.DeleteItem(ctx, created.ID))

	_, err = svc.GetItem(ctx, created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListItems(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	list, err := svc.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, name := range []string{"Pen", "Notebook"} {
		_, err := svc.CreateItem(ctx, CreateItemInput{Name: name, Price: decimal.NewFromInt(2), Stock: 3})
		require.NoError(t, err)
	}
	list, err = svc.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
