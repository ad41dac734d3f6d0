package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/toolstore/internal/model"
)

func TestCatalog_LeftJoinAndFilters(t *testing.T) {
	cleanupAll(t)
	ctx := context.Background()

	categories := NewCategoryRepository(testPool)
	products := NewProductRepository(testPool)

	cat := &model.Category{Name: "Hand Tools", Slug: "hand-tools", Icon: "tools"}
	require.NoError(t, categories.Upsert(ctx, cat))

	hammer := seedProduct(t, "hammer", "12.50", &cat.ID)
	loose := seedProduct(t, "loose-bolt", "0.99", nil)

	found, err := products.GetByID(ctx, hammer.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Category)
	assert.Equal(t, "hand-tools", found.Category.Slug)

	found, err = products.GetByID(ctx, loose.ID)
	require.NoError(t, err)
	assert.Nil(t, found.Category)
	assert.False(t, found.OriginalPrice.Valid)

	byCat, total, err := products.List(ctx, ProductFilter{CategoryID: &cat.ID})
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, hammer.ID, byCat[0].ID)

	byName, _, err := products.List(ctx, ProductFilter{Name: "Product hammer"})
	require.NoError(t, err)
	require.Len(t, byName, 1)

	partial, total, err := products.List(ctx, ProductFilter{Name: "hammer"})
	require.NoError(t, err)
	assert.Empty(t, partial)
	assert.Zero(t, total)

	bySlug, err := categories.GetBySlug(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, bySlug)
}

func TestProductRepo_ListPages(t *testing.T) {
	cleanupAll(t)
	ctx := context.Background()
	products := NewProductRepository(testPool)

	var ids []int64
	for _, slug := range []string{"saw", "level", "pliers", "wrench", "clamp"} {
		ids = append(ids, seedProduct(t, slug, "10.00", nil).ID)
	}

	tests := []struct {
		name   string
		offset int
		want   []int64
	}{
		{"first page", 0, ids[0:2]},
		{"middle page", 2, ids[2:4]},
		{"last partial page", 4, ids[4:5]},
		{"past the end", 6, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, total, err := products.List(ctx, ProductFilter{Limit: 2, Offset: tt.offset})
			require.NoError(t, err)
			assert.Equal(t, 5, total)
			got := make([]int64, 0, len(page))
			for _, p := range page {
				got = append(got, p.ID)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestProductRepo_ListCombinesFilters(t *testing.T) {
	cleanupAll(t)
	ctx := context.Background()
	categories := NewCategoryRepository(testPool)
	products := NewProductRepository(testPool)

	cat := &model.Category{Name: "Power Tools", Slug: "power-tools", Icon: "zap"}
	require.NoError(t, categories.Upsert(ctx, cat))

	featured := seedProduct(t, "drill", "80.00", &cat.ID)
	_, err := testPool.Exec(ctx, `UPDATE products SET featured = TRUE WHERE id = $1`, featured.ID)
	require.NoError(t, err)
	seedProduct(t, "sander", "60.00", &cat.ID)

	got, total, err := products.List(ctx, ProductFilter{CategoryID: &cat.ID, Featured: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, featured.ID, got[0].ID)
}

func TestCartRepo_AddRejectsMergePastLimit(t *testing.T) {
	cleanupAll(t)
	ctx := context.Background()
	repo := NewCartRepository(testPool)
	p := seedProduct(t, "anvil", "250.00", nil)

	require.NoError(t, repo.Add(ctx, &model.CartLine{UserID: "u1", ProductID: p.ID, Quantity: 900}))
	err := repo.Add(ctx, &model.CartLine{UserID: "u1", ProductID: p.ID, Quantity: 100})
	assert.ErrorIs(t, err, ErrQuantityLimit)

	lines, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 900, lines[0].Quantity)

	err = repo.Update(ctx, &model.CartLine{UserID: "u1", ProductID: p.ID, Quantity: model.MaxCartQuantity + 1})
	require.Error(t, err)
}

func TestCartRepo_AddMergesQuantity(t *testing.T) {
	cleanupAll(t)
	ctx := context.Background()
	repo := NewCartRepository(testPool)
	p := seedProduct(t, "drill", "80.00", nil)

	first := &model.CartLine{UserID: "u1", ProductID: p.ID, Quantity: 2}
	require.NoError(t, repo.Add(ctx, first))
	second := &model.CartLine{UserID: "u1", ProductID: p.ID, Quantity: 3}
	require.NoError(t, repo.Add(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	lines, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("80").Equal(lines[0].Product.Price))
}

func TestCartRepo_ConcurrentAddsDoNotLoseIncrements(t *testing.T) {
	cleanupAll(t)
	ctx := context.Background()
	repo := NewCartRepository(testPool)
	p := seedProduct(t, "saw", "25.00", nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Add(ctx, &model.CartLine{UserID: "u1", ProductID: p.ID, Quantity: 1}))
		}()
	}
	wg.Wait()

	lines, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 20, lines[0].Quantity)
}

func TestCartRepo_UpdateRemoveClear(t *testing.T) {
	cleanupAll(t)
	ctx := context.Background()
	repo := NewCartRepository(testPool)
	p := seedProduct(t, "pliers", "9.00", nil)

	err := repo.Update(ctx, &model.CartLine{UserID: "u1", ProductID: p.ID, Quantity: 4})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Add(ctx, &model.CartLine{UserID: "u1", ProductID: p.ID, Quantity: 1}))
	require.NoError(t, repo.Update(ctx, &model.CartLine{UserID: "u1", ProductID: p.ID, Quantity: 4}))

	lines, _ := repo.List(ctx, "u1")
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)

	require.NoError(t, repo.Remove(ctx, "u1", p.ID))
	require.NoError(t, repo.Remove(ctx, "u1", p.ID))

	require.NoError(t, repo.Add(ctx, &model.CartLine{UserID: "u1", ProductID: p.ID, Quantity: 1}))
	require.NoError(t, repo.Clear(ctx, "u1"))
	lines, _ = repo.List(ctx, "u1")
	assert.Empty(t, lines)
}

func TestWishlistRepo_AddIsIdempotent(t *testing.T) {
	cleanupAll(t)
	ctx := context.Background()
	repo := NewWishlistRepository(testPool)
	p := seedProduct(t, "level", "15.00", nil)

	first := &model.WishlistEntry{UserID: "u1", ProductID: p.ID}
	require.NoError(t, repo.Add(ctx, first))
	again := &model.WishlistEntry{UserID: "u1", ProductID: p.ID}
	require.NoError(t, repo.Add(ctx, again))
	assert.Equal(t, first.ID, again.ID)

	entries, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	ok, err := repo.Exists(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Remove(ctx, "u1", p.ID))
	require.NoError(t, repo.Remove(ctx, "u1", p.ID))
	ok, _ = repo.Exists(ctx, "u1", p.ID)
	assert.False(t, ok)
}

func placeOrder(t *testing.T, repo OrderRepository, userID string, items []model.OrderItem) *model.Order {
	t.Helper()
	order := &model.Order{UserID: userID, Status: model.OrderStatusPending, Total: decimal.RequireFromString("250.00"), ShippingAddress: "X"}
	err := repo.Checkout(context.Background(), func(tx CheckoutTx) error {
		if err := tx.CreateOrder(context.Background(), order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.AddOrderItem(context.Background(), &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	return order
}

func TestOrderRepo_CheckoutRollsBackOnFailure(t *testing.T) {
	cleanupAll(t)
	ctx := context.Background()
	repo := NewOrderRepository(testPool)
	p := seedProduct(t, "wrench", "100.00", nil)

	var orderID int64
	err := repo.Checkout(ctx, func(tx CheckoutTx) error {
		order := &model.Order{UserID: "u1", Status: model.OrderStatusPending, Total: decimal.RequireFromString("100"), ShippingAddress: "X"}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		orderID = order.ID
		if err := tx.AddOrderItem(ctx, &model.OrderItem{OrderID: order.ID, ProductID: p.ID, Quantity: 1, Price: p.Price}); err != nil {
			return err
		}
		// unknown product violates the foreign key
		return tx.AddOrderItem(ctx, &model.OrderItem{OrderID: order.ID, ProductID: p.ID + 1000, Quantity: 1, Price: p.Price})
	})
	require.Error(t, err)
	require.NotZero(t, orderID)

	found, err := repo.GetByID(ctx, orderID, "u1")
	require.NoError(t, err)
	assert.Nil(t, found)

	var items int
	require.NoError(t, testPool.QueryRow(ctx, `SELECT COUNT(*) FROM order_items`).Scan(&items))
	assert.Zero(t, items)
}

func TestOrderRepo_CheckoutAbortedByCallback(t *testing.T) {
	cleanupAll(t)
	ctx := context.Background()
	repo := NewOrderRepository(testPool)
	cart := NewCartRepository(testPool)
	p := seedProduct(t, "vise", "40.00", nil)
	require.NoError(t, cart.Add(ctx, &model.CartLine{UserID: "u1", ProductID: p.ID, Quantity: 1}))

	boom := errors.New("interrupted")
	err := repo.Checkout(ctx, func(tx CheckoutTx) error {
		if err := tx.CreateOrder(ctx, &model.Order{UserID: "u1", Status: model.OrderStatusPending, Total: p.Price, ShippingAddress: "X"}); err != nil {
			return err
		}
		if err := tx.ClearCart(ctx, "u1"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	orders, err := repo.ListByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, orders)

	lines, err := cart.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestOrderRepo_PriceSnapshotSurvivesPriceChange(t *testing.T) {
	cleanupAll(t)
	ctx := context.Background()
	repo := NewOrderRepository(testPool)
	p1 := seedProduct(t, "p1", "100.00", nil)
	p2 := seedProduct(t, "p2", "50.00", nil)

	order := placeOrder(t, repo, "u1", []model.OrderItem{
		{ProductID: p1.ID, Quantity: 2, Price: p1.Price},
		{ProductID: p2.ID, Quantity: 1, Price: p2.Price},
	})

	_, err := testPool.Exec(ctx, `UPDATE products SET price = 999.99 WHERE id = $1`, p1.ID)
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, order.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Len(t, found.Items, 2)
	assert.Equal(t, "100.00", found.Items[0].Price.StringFixed(2))
	assert.Equal(t, "999.99", found.Items[0].Product.Price.StringFixed(2))
	assert.Equal(t, "50.00", found.Items[1].Price.StringFixed(2))
	assert.Equal(t, "250.00", found.Total.StringFixed(2))
	assert.Equal(t, model.OrderStatusPending, found.Status)
}

func TestOrderRepo_ScopedReads(t *testing.T) {
	cleanupAll(t)
	ctx := context.Background()
	repo := NewOrderRepository(testPool)
	p := seedProduct(t, "clamp", "5.00", nil)

	older := placeOrder(t, repo, "u1", []model.OrderItem{{ProductID: p.ID, Quantity: 1, Price: p.Price}})
	newer := placeOrder(t, repo, "u1", []model.OrderItem{{ProductID: p.ID, Quantity: 3, Price: p.Price}})

	other, err := repo.GetByID(ctx, older.ID, "u2")
	require.NoError(t, err)
	assert.Nil(t, other)

	orders, err := repo.ListByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, 3, orders[0].Items[0].Quantity)
	assert.Equal(t, older.ID, orders[1].ID)
}

func TestOrderRepo_UpdateStatusAndHistory(t *testing.T) {
	cleanupAll(t)
	ctx := context.Background()
	repo := NewOrderRepository(testPool)
	p := seedProduct(t, "tape", "3.00", nil)
	order := placeOrder(t, repo, "u1", []model.OrderItem{{ProductID: p.ID, Quantity: 1, Price: p.Price}})

	tracking := "TRK123"
	updated, err := repo.UpdateStatus(ctx, order.ID, model.OrderStatusPending, model.OrderStatusShipped, &tracking)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)
	require.NotNil(t, updated.TrackingNumber)
	assert.Equal(t, "TRK123", *updated.TrackingNumber)
	assert.True(t, updated.UpdatedAt.After(order.UpdatedAt))

	_, err = repo.UpdateStatus(ctx, order.ID, model.OrderStatusPending, model.OrderStatusCancelled, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	kept, err := repo.UpdateStatus(ctx, order.ID, model.OrderStatusShipped, model.OrderStatusDelivered, nil)
	require.NoError(t, err)
	assert.Equal(t, "TRK123", *kept.TrackingNumber)

	byTracking, err := repo.GetByTrackingNumber(ctx, "u1", "TRK123")
	require.NoError(t, err)
	require.NotNil(t, byTracking)
	assert.Equal(t, order.ID, byTracking.ID)

	change := &model.OrderStatusChange{OrderID: order.ID, EventID: uuid.New(), Status: model.OrderStatusShipped, TrackingNumber: &tracking, ChangedAt: time.Now()}
	inserted, err := repo.AppendHistory(ctx, change)
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = repo.AppendHistory(ctx, change)
	require.NoError(t, err)
	assert.False(t, inserted)

	history, err := repo.ListHistory(ctx, order.ID, "u1")
	require.NoError(t, err)
	assert.Len(t, history, 1)

	history, err = repo.ListHistory(ctx, order.ID, "u2")
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = repo.GetStatus(ctx, order.ID+1000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_Upsert(t *testing.T) {
	cleanupAll(t)
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	user := &model.User{ID: "auth0|42", Email: "a@example.com", FirstName: "Ada"}
	require.NoError(t, repo.Upsert(ctx, user))

	user.FirstName = "Grace"
	require.NoError(t, repo.Upsert(ctx, user))

	found, err := repo.GetByID(ctx, "auth0|42")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Grace", found.FirstName)
}
