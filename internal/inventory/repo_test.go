package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonpos/moonpos-backend/pkg/db/dbtest"
	"github.com/moonpos/moonpos-backend/pkg/enums"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
)

func TestAppendAppliesDeltaAndRecordsMovement(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	p := seedProduct(t, conn, "SKU-1", 10, "5")
	orderID := uuid.New()

	movement, err := repo.Append(context.Background(), p, enums.MovementTypeSale, -4, nil, &Ref{Type: enums.RefTypeOrder, ID: &orderID})
	require.NoError(t, err)

	assert.Equal(t, 10, movement.BeforeQty)
	assert.Equal(t, 6, movement.AfterQty)
	assert.Equal(t, -4, movement.QuantityChange)
	require.NotNil(t, movement.RefID)
	assert.Equal(t, orderID, *movement.RefID)
	assert.Equal(t, 6, p.StockQty)
	assert.Equal(t, 6, stockOf(t, conn, p.ID))
}

func TestAppendGuardsAgainstNegativeStock(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	p := seedProduct(t, conn, "SKU-2", 2, "5")

	// stale snapshot claiming more stock than the row holds
	p.StockQty = 50
	_, err := repo.Append(context.Background(), p, enums.MovementTypeSale, -3, nil, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))
	assert.Equal(t, 2, stockOf(t, conn, p.ID))
}

func TestAppendRejectsUnknownKind(t *testing.T) {
	conn := dbtest.Open(t)
	p := seedProduct(t, conn, "SKU-3", 2, "5")

	_, err := NewRepository(conn).Append(context.Background(), p, enums.MovementType("refund"), 1, nil, nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAppendRejectsDeltaAgainstKind(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	p := seedProduct(t, conn, "SKU-K", 50, "5")
	ctx := context.Background()

	for _, tc := range []struct {
		kind  enums.MovementType
		delta int
	}{
		{enums.MovementTypeSale, 2},
		{enums.MovementTypeRestock, -1},
		{enums.MovementTypeAdjustment, 0},
	} {
		_, err := repo.Append(ctx, p, tc.kind, tc.delta, nil, nil)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "%s %d: got %v", tc.kind, tc.delta, err)
	}
	assert.Equal(t, 50, stockOf(t, conn, p.ID))
}

func TestListRejectsBadCursor(t *testing.T) {
	_, err := NewRepository(dbtest.Open(t)).List(context.Background(), pagination.Params{Cursor: "%%%"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListPagesWithLookAheadRow(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	p := seedProduct(t, conn, "SKU-P", 10, "5")
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := repo.Append(ctx, p, enums.MovementTypeRestock, 1, nil, nil)
		require.NoError(t, err)
	}

	first, err := repo.List(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Empty(t, second.NextCursor)
	assert.NotEqual(t, first.Items[1].ID, second.Items[0].ID)
}
