package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func statusptr(s Status) *Status { return &s }

func TestMemoryRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	o := NewOrder(7, strptr("no onions"), []OrderProduct{{ID: 1, Name: "Burger", Quantity: 2, UnitPrice: decimal.NewFromInt(25)}})
	saved, err := repo.Create(ctx, o)
	require.NoError(t, err)
	assert.Equal(t, o.ID, saved.ID)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
	assert.True(t, decimal.NewFromInt(50).Equal(got.Total))
	assert.Equal(t, "no onions", *got.Observation)

	_, err = repo.Create(ctx, o)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	o := NewOrder(1, nil, []OrderProduct{{ID: 1, Name: "Fries", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}})
	_, err := repo.Create(ctx, o)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	got.Status = StatusDone
	got.Products[0].Name = "changed"

	again, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, again.Status)
	assert.Equal(t, "Fries", again.Products[0].Name)
}

func TestMemoryRepo_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	o := NewOrder(1, strptr("first"), nil)
	_, err := repo.Create(ctx, o)
	require.NoError(t, err)

	updated, err := repo.Update(ctx, o.ID, Patch{Status: statusptr(StatusReceived)})
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, updated.Status)
	assert.Equal(t, "first", *updated.Observation)

	updated, err = repo.Update(ctx, o.ID, Patch{Observation: strptr("second")})
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, updated.Status)
	assert.Equal(t, "second", *updated.Observation)
	assert.True(t, o.Total.Equal(updated.Total))
	assert.Equal(t, o.CustomerID, updated.CustomerID)

	_, err = repo.Update(ctx, o.ID, Patch{})
	assert.ErrorIs(t, err, ErrNoOp)

	_, err = repo.Update(ctx, "missing", Patch{Status: statusptr(StatusDone)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_UpdateExpectedStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	o := NewOrder(1, nil, nil)
	_, err := repo.Create(ctx, o)
	require.NoError(t, err)

	_, err = repo.Update(ctx, o.ID, Patch{Status: statusptr(StatusCancelled), ExpectedStatus: statusptr(StatusReceived)})
	assert.ErrorIs(t, err, ErrConflict)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	_, err = repo.Update(ctx, o.ID, Patch{Status: statusptr(StatusCancelled), ExpectedStatus: statusptr(StatusPending)})
	require.NoError(t, err)
}

func TestMemoryRepo_ListingsKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	var ids []string
	for i := 0; i < 4; i++ {
		o := NewOrder(int64(i), nil, nil)
		_, err := repo.Create(ctx, o)
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}
	_, err := repo.Update(ctx, ids[1], Patch{Status: statusptr(StatusReceived)})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, o := range all {
		assert.Equal(t, ids[i], o.ID)
	}

	pending, err := repo.GetByStatus(ctx, StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, []string{ids[0], ids[2], ids[3]}, []string{pending[0].ID, pending[1].ID, pending[2].ID})

	done, err := repo.GetByStatus(ctx, StatusDone)
	require.NoError(t, err)
	assert.NotNil(t, done)
	assert.Empty(t, done)
}

func TestMemoryRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	o := NewOrder(1, nil, nil)
	_, err := repo.Create(ctx, o)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, o.ID))
	_, err = repo.GetByID(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, o.ID), ErrNotFound)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
