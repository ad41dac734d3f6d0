package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/toolstore/internal/model"
)

func newCartFixture() (*CartService, *mockCartRepo, *mockProductRepo) {
	products := newMockProductRepo()
	products.add(1, "100.00")
	products.add(2, "50.00")
	cart := newMockCartRepo(products)
	return NewCartService(cart, products), cart, products
}

func TestCartService_AddToCart_MergesQuantity(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	first, err := svc.AddToCart(ctx, "u1", 1, 2)
	require.NoError(t, err)
	second, err := svc.AddToCart(ctx, "u1", 1, 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)
	require.NotNil(t, second.Product)

	lines, err := svc.ListCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, "500.00", lines[0].Subtotal().StringFixed(2))
}

func TestCartService_AddToCart_Validation(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		productID int64
		quantity  int
		wantErr   error
	}{
		{"no user", "", 1, 1, ErrUnauthorized},
		{"zero quantity", "u1", 1, 0, ErrInvalidQuantity},
		{"negative quantity", "u1", 1, -3, ErrInvalidQuantity},
		{"above line limit", "u1", 1, model.MaxCartQuantity + 1, ErrInvalidQuantity},
		{"beyond int32", "u1", 1, 3_000_000_000, ErrInvalidQuantity},
		{"unknown product", "u1", 99, 1, ErrProductNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, cart, _ := newCartFixture()
			_, err := svc.AddToCart(context.Background(), tt.userID, tt.productID, tt.quantity)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, cart.lines["u1"])
		})
	}
}

func TestCartService_AddToCart_MergeLimit(t *testing.T) {
	svc, cart, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "u1", 1, 600)
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, "u1", 1, 400)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	require.Len(t, cart.lines["u1"], 1)
	assert.Equal(t, 600, cart.lines["u1"][0].Quantity)

	line, err := svc.AddToCart(ctx, "u1", 1, 399)
	require.NoError(t, err)
	assert.Equal(t, model.MaxCartQuantity, line.Quantity)
}

func TestCartService_UpdateCartItem(t *testing.T) {
	svc, cart, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.UpdateCartItem(ctx, "u1", 1, 4)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	_, err = svc.AddToCart(ctx, "u1", 1, 1)
	require.NoError(t, err)

	line, err := svc.UpdateCartItem(ctx, "u1", 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, line.Quantity)

	_, err = svc.UpdateCartItem(ctx, "u1", 1, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.UpdateCartItem(ctx, "u1", 1, model.MaxCartQuantity+1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 4, cart.lines["u1"][0].Quantity)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	require.NoError(t, svc.RemoveFromCart(ctx, "u1", 1))

	_, err := svc.AddToCart(ctx, "u1", 1, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "u1", 2, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "u2", 2, 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFromCart(ctx, "u1", 1))
	lines, _ := svc.ListCart(ctx, "u1")
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ProductID)

	require.NoError(t, svc.ClearCart(ctx, "u1"))
	lines, _ = svc.ListCart(ctx, "u1")
	assert.Empty(t, lines)

	other, _ := svc.ListCart(ctx, "u2")
	assert.Len(t, other, 1)

	assert.ErrorIs(t, svc.ClearCart(ctx, ""), ErrUnauthorized)
}

func TestCartService_Summary(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	empty, err := svc.Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, empty.Lines)
	assert.Equal(t, "0.00", empty.Total.StringFixed(2))

	_, err = svc.AddToCart(ctx, "u1", 1, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "u1", 2, 3)
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Lines)
	assert.Equal(t, "350.00", summary.Total.StringFixed(2))

	_, err = svc.Summary(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
