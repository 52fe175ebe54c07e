package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"trendz_shop/internal/models"
	"trendz_shop/internal/redis"
	"trendz_shop/internal/repository"
	"trendz_shop/internal/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	repos *repository.Repositories
	log   *zap.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)
	return &fixture{db: db, repos: repository.NewRepositories(db), log: zap.NewNop()}
}

func (f *fixture) user(t *testing.T, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, Role: string(models.RoleUser)}
	require.NoError(t, f.repos.Users.Create(context.Background(), user))
	return user
}

func (f *fixture) product(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Category:   "Apparel",
		SerialCode: name,
		Name:       name,
		Price:      decimal.RequireFromString(price),
	}
	product.SetStock(stock)
	require.NoError(t, f.repos.Products.Create(context.Background(), product))
	return product
}

func (f *fixture) reload(t *testing.T, id uint) *models.Product {
	t.Helper()
	product, err := f.repos.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return product
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// memoryCache is an OrderCache backed by a map.
type memoryCache struct {
	mu      sync.Mutex
	entries map[uint]models.OrderDetail
	hits    int
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[uint]models.OrderDetail{}}
}

func (c *memoryCache) GetOrderDetail(_ context.Context, id uint) (*models.OrderDetail, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	detail, ok := c.entries[id]
	if !ok {
		return nil, redis.ErrCacheMiss
	}
	c.hits++
	return &detail, nil
}

func (c *memoryCache) SetOrderDetail(_ context.Context, detail *models.OrderDetail) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[detail.OrderID] = *detail
	return nil
}

func (c *memoryCache) DeleteOrderDetail(_ context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.deletes++
	return nil
}

// faultyTx wraps the real transaction manager and injects failures into the
// unit of work it hands out.
type faultyTx struct {
	repository.TxManager
	failItemAfter   int
	rejectDecrement bool
}

func (m *faultyTx) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	uow, err := m.TxManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &faultyUnit{UnitOfWork: uow, tx: m}, nil
}

type faultyUnit struct {
	repository.UnitOfWork
	tx    *faultyTx
	items int
}

func (u *faultyUnit) OrderItems() repository.OrderItemRepository {
	return &failingItems{OrderItemRepository: u.UnitOfWork.OrderItems(), unit: u}
}

func (u *faultyUnit) Products() repository.ProductRepository {
	if !u.tx.rejectDecrement {
		return u.UnitOfWork.Products()
	}
	return rejectingProducts{ProductRepository: u.UnitOfWork.Products()}
}

var errDiskFull = errors.New("disk full")

type failingItems struct {
	repository.OrderItemRepository
	unit *faultyUnit
}

func (r *failingItems) Create(ctx context.Context, item *models.OrderItem) error {
	r.unit.items++
	if r.unit.tx.failItemAfter > 0 && r.unit.items > r.unit.tx.failItemAfter {
		return errDiskFull
	}
	return r.OrderItemRepository.Create(ctx, item)
}

// rejectingProducts behaves as if another transaction took the stock between
// the locked read and the guarded decrement.
type rejectingProducts struct {
	repository.ProductRepository
}

func (rejectingProducts) DecrementStock(context.Context, uint, int) (bool, error) {
	return false, nil
}
