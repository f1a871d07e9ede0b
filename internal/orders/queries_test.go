package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	a := seedOrder(t, repo, StatusPending)
	b := seedOrder(t, repo, StatusDone)
	c := seedOrder(t, repo, StatusPending)

	got, err := NewGetOrderHandler(repo).Handle(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, got.Status)

	_, err = NewGetOrderHandler(repo).Handle(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := NewGetAllOrdersHandler(repo).Handle(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	pending, err := NewGetOrdersByStatusHandler(repo).Handle(ctx, StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, a.ID, pending[0].ID)
	assert.Equal(t, c.ID, pending[1].ID)

	none, err := NewGetOrdersByStatusHandler(repo).Handle(ctx, StatusCancelled)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
