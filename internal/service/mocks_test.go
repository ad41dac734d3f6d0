package service

import (
	"context"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/flicky/toolstore/internal/model"
	"github.com/flicky/toolstore/internal/repository"
)

type mockCategoryRepo struct {
	categories map[string]*model.Category
	listCalls  int
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[string]*model.Category)}
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	m.listCalls++
	all := []model.Category{}
	for _, c := range m.categories {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (m *mockCategoryRepo) GetBySlug(_ context.Context, slug string) (*model.Category, error) {
	return m.categories[slug], nil
}

func (m *mockCategoryRepo) Upsert(_ context.Context, c *model.Category) error {
	if existing, ok := m.categories[c.Slug]; ok {
		c.ID = existing.ID
	} else {
		c.ID = int64(len(m.categories) + 1)
	}
	m.categories[c.Slug] = c
	return nil
}

type mockProductRepo struct {
	products map[int64]*model.Product
	getCalls int
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[int64]*model.Product)}
}

func (m *mockProductRepo) add(id int64, price string) *model.Product {
	p := &model.Product{ID: id, Name: "Product", Slug: "p", Price: mustDecimal(price), InStock: true}
	m.products[id] = p
	return p
}

func (m *mockProductRepo) GetByID(_ context.Context, id int64) (*model.Product, error) {
	m.getCalls++
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) List(_ context.Context, f repository.ProductFilter) ([]model.Product, int, error) {
	all := []model.Product{}
	for _, p := range m.products {
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		if f.Featured && !p.Featured || f.BestSelling && !p.BestSelling {
			continue
		}
		if f.Name != "" && p.Name != f.Name {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if f.Limit > 0 {
		start := min(f.Offset, total)
		all = all[start:min(start+f.Limit, total)]
	}
	return all, total, nil
}

func (m *mockProductRepo) Upsert(_ context.Context, p *model.Product) error {
	for id, existing := range m.products {
		if existing.Slug == p.Slug {
			p.ID = id
		}
	}
	if p.ID == 0 {
		p.ID = int64(len(m.products) + 1)
	}
	m.products[p.ID] = p
	return nil
}

type mockCartRepo struct {
	products *mockProductRepo
	lines    map[string][]*model.CartLine
	nextID   int64
}

func newMockCartRepo(products *mockProductRepo) *mockCartRepo {
	return &mockCartRepo{products: products, lines: make(map[string][]*model.CartLine)}
}

func (m *mockCartRepo) find(userID string, productID int64) *model.CartLine {
	for _, l := range m.lines[userID] {
		if l.ProductID == productID {
			return l
		}
	}
	return nil
}

func (m *mockCartRepo) List(_ context.Context, userID string) ([]model.CartLine, error) {
	lines := []model.CartLine{}
	for _, l := range m.lines[userID] {
		cp := *l
		if p, ok := m.products.products[l.ProductID]; ok {
			prod := *p
			cp.Product = &prod
		}
		lines = append(lines, cp)
	}
	return lines, nil
}

func (m *mockCartRepo) Add(_ context.Context, line *model.CartLine) error {
	if existing := m.find(line.UserID, line.ProductID); existing != nil {
		if existing.Quantity+line.Quantity > model.MaxCartQuantity {
			return repository.ErrQuantityLimit
		}
		existing.Quantity += line.Quantity
		existing.UpdatedAt = time.Now()
		*line = *existing
		return nil
	}
	m.nextID++
	line.ID = m.nextID
	line.CreatedAt = time.Now()
	line.UpdatedAt = line.CreatedAt
	stored := *line
	m.lines[line.UserID] = append(m.lines[line.UserID], &stored)
	return nil
}

func (m *mockCartRepo) Update(_ context.Context, line *model.CartLine) error {
	existing := m.find(line.UserID, line.ProductID)
	if existing == nil {
		return repository.ErrNotFound
	}
	existing.Quantity = line.Quantity
	*line = *existing
	return nil
}

func (m *mockCartRepo) Remove(_ context.Context, userID string, productID int64) error {
	kept := m.lines[userID][:0]
	for _, l := range m.lines[userID] {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	m.lines[userID] = kept
	return nil
}

func (m *mockCartRepo) Clear(_ context.Context, userID string) error {
	delete(m.lines, userID)
	return nil
}

type mockWishlistRepo struct {
	entries map[string][]*model.WishlistEntry
	nextID  int64
}

func newMockWishlistRepo() *mockWishlistRepo {
	return &mockWishlistRepo{entries: make(map[string][]*model.WishlistEntry)}
}

func (m *mockWishlistRepo) List(_ context.Context, userID string) ([]model.WishlistEntry, error) {
	out := []model.WishlistEntry{}
	for i := len(m.entries[userID]) - 1; i >= 0; i-- {
		out = append(out, *m.entries[userID][i])
	}
	return out, nil
}

func (m *mockWishlistRepo) Add(_ context.Context, entry *model.WishlistEntry) error {
	for _, e := range m.entries[entry.UserID] {
		if e.ProductID == entry.ProductID {
			*entry = *e
			return nil
		}
	}
	m.nextID++
	entry.ID = m.nextID
	entry.CreatedAt = time.Now()
	stored := *entry
	m.entries[entry.UserID] = append(m.entries[entry.UserID], &stored)
	return nil
}

func (m *mockWishlistRepo) Remove(_ context.Context, userID string, productID int64) error {
	kept := m.entries[userID][:0]
	for _, e := range m.entries[userID] {
		if e.ProductID != productID {
			kept = append(kept, e)
		}
	}
	m.entries[userID] = kept
	return nil
}

func (m *mockWishlistRepo) Exists(_ context.Context, userID string, productID int64) (bool, error) {
	for _, e := range m.entries[userID] {
		if e.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

// mockOrderRepo stages checkout writes and applies them only when the
// callback succeeds, like a committed transaction.
type mockOrderRepo struct {
	cart    *mockCartRepo
	orders  map[int64]*model.Order
	history []model.OrderStatusChange
	nextID  int64

	nextItemID int64

	itemErr error
	// raceTo, when set, moves the order to this status just before the
	// compare-and-set runs.
	raceTo model.OrderStatus
}

func newMockOrderRepo(cart *mockCartRepo) *mockOrderRepo {
	return &mockOrderRepo{cart: cart, orders: make(map[int64]*model.Order)}
}

type mockCheckoutTx struct {
	repo      *mockOrderRepo
	staged    []*model.Order
	clearUser string
}

func (t *mockCheckoutTx) CartLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	return t.repo.cart.List(ctx, userID)
}

func (t *mockCheckoutTx) CreateOrder(_ context.Context, o *model.Order) error {
	t.repo.nextID++
	o.ID = t.repo.nextID
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	t.staged = append(t.staged, o)
	return nil
}

func (t *mockCheckoutTx) AddOrderItem(_ context.Context, item *model.OrderItem) error {
	if t.repo.itemErr != nil {
		return t.repo.itemErr
	}
	t.repo.nextItemID++
	item.ID = t.repo.nextItemID
	return nil
}

func (t *mockCheckoutTx) ClearCart(_ context.Context, userID string) error {
	t.clearUser = userID
	return nil
}

func (m *mockOrderRepo) Checkout(_ context.Context, fn func(tx repository.CheckoutTx) error) error {
	tx := &mockCheckoutTx{repo: m}
	if err := fn(tx); err != nil {
		return err
	}
	for _, o := range tx.staged {
		stored := *o
		m.orders[o.ID] = &stored
	}
	if tx.clearUser != "" {
		delete(m.cart.lines, tx.clearUser)
	}
	return nil
}

func (m *mockOrderRepo) ListByUserID(_ context.Context, userID string) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, orderID int64, userID string) (*model.Order, error) {
	o, ok := m.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) GetByTrackingNumber(_ context.Context, userID, trackingNumber string) (*model.Order, error) {
	for _, o := range m.orders {
		if o.UserID == userID && o.TrackingNumber != nil && *o.TrackingNumber == trackingNumber {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockOrderRepo) GetStatus(_ context.Context, orderID int64) (model.OrderStatus, error) {
	o, ok := m.orders[orderID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return o.Status, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, orderID int64, from, to model.OrderStatus, trackingNumber *string) (*model.Order, error) {
	o, ok := m.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if m.raceTo != "" {
		o.Status = m.raceTo
	}
	if o.Status != from {
		return nil, repository.ErrNotFound
	}
	o.Status = to
	if trackingNumber != nil {
		tn := *trackingNumber
		o.TrackingNumber = &tn
	}
	o.UpdatedAt = time.Now()
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) AppendHistory(_ context.Context, change *model.OrderStatusChange) (bool, error) {
	for _, h := range m.history {
		if h.EventID == change.EventID {
			return false, nil
		}
	}
	change.ID = int64(len(m.history) + 1)
	m.history = append(m.history, *change)
	return true, nil
}

func (m *mockOrderRepo) ListHistory(_ context.Context, orderID int64, userID string) ([]model.OrderStatusChange, error) {
	out := []model.OrderStatusChange{}
	o, ok := m.orders[orderID]
	if !ok || o.UserID != userID {
		return out, nil
	}
	for _, h := range m.history {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Upsert(_ context.Context, u *model.User) error {
	now := time.Now()
	if existing, ok := m.users[u.ID]; ok {
		u.CreatedAt = existing.CreatedAt
	} else {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	return m.users[id], nil
}

type mockPublisher struct {
	events []model.OrderEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, event model.OrderEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

// fakeCache implements the handful of Redis commands the catalog uses.
type fakeCache struct {
	redis.Cmdable
	data   map[string]string
	getErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
