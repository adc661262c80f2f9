package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	pkgdb "github.com/Skotchmaster/ecommerce_api/pkg/db"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &GormRepo{DB: db}
}

func seedProduct(t *testing.T, r *GormRepo, name string, price string, stock int) models.Product {
	t.Helper()
	ctx := context.Background()

	_, err := r.CreateCategoryIfMissing(ctx, "general")
	require.NoError(t, err)
	cat, err := r.GetCategoryByName(ctx, "general")
	require.NoError(t, err)

	p := models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		CategoryID:  cat.ID,
	}
	require.NoError(t, r.CreateProduct(ctx, &p))
	return p
}

func TestCreateProduct_DefaultsImage(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)

	p := seedProduct(t, r, "lamp", "12.50", 3)

	got, err := r.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultImgURL, got.ImgURL)
	require.NotNil(t, got.Category)
	assert.Equal(t, "general", got.Category.Name)
	assert.True(t, decimal.RequireFromString("12.5").Equal(got.Price))
}

func TestListProducts_Window(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		seedProduct(t, r, fmt.Sprintf("item-%02d", i), "1.00", 1)
	}

	total, all, err := r.ListProducts(ctx, 0, 100)
	require.NoError(t, err)
	require.EqualValues(t, 12, total)
	require.Len(t, all, 12)

	_, page, err := r.ListProducts(ctx, 5, 5)
	require.NoError(t, err)
	require.Len(t, page, 5)
	for i := range page {
		assert.Equal(t, all[5+i].ID, page[i].ID)
	}
}

func TestDecrementStock(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	p := seedProduct(t, r, "last-one", "5.00", 1)

	require.NoError(t, r.DecrementStock(ctx, p.ID))
	require.ErrorIs(t, r.DecrementStock(ctx, p.ID), ErrOutOfStock)

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestFindInStock_SkipsEmptyAndUnknown(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)

	a := seedProduct(t, r, "a", "1.00", 2)
	b := seedProduct(t, r, "b", "1.00", 0)

	items, err := r.FindInStock(context.Background(), []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ID)
}

func TestGetProductsByIDs_KeepsRequestOrder(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)

	a := seedProduct(t, r, "a", "1.00", 1)
	b := seedProduct(t, r, "b", "1.00", 1)

	items, err := r.GetProductsByIDs(context.Background(), []uuid.UUID{b.ID, uuid.New(), a.ID})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
}

func TestOrderDetail_LinksProductsWithoutRewritingThem(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	user := models.User{Name: "Ana", Email: "ana@mail.com", Password: "x"}
	require.NoError(t, r.CreateUser(ctx, &user))
	p := seedProduct(t, r, "mug", "7.00", 4)

	require.NoError(t, r.DecrementStock(ctx, p.ID))

	order := models.Order{Date: time.Now(), UserID: user.ID}
	require.NoError(t, r.CreateOrder(ctx, &order))

	stale := p // still carries stock 4
	detail := models.OrderDetail{OrderID: order.ID, Price: p.Price, Products: []models.Product{stale}}
	require.NoError(t, r.CreateOrderDetail(ctx, &detail))
	require.NoError(t, r.LinkOrderDetail(ctx, order.ID, detail.ID))

	got, err := r.GetOrderDetailByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	assert.Equal(t, 3, got.Products[0].Stock)

	o, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, o.OrderDetailID)
	assert.Equal(t, detail.ID, *o.OrderDetailID)
	require.NotNil(t, o.User)
	assert.Equal(t, "ana@mail.com", o.User.Email)
}

func TestWithTx_RollsBack(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	p := seedProduct(t, r, "tx", "1.00", 2)

	err := r.WithTx(ctx, func(tx *GormRepo) error {
		require.NoError(t, tx.DecrementStock(ctx, p.ID))
		return ErrOutOfStock
	})
	require.ErrorIs(t, err, ErrOutOfStock)

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
}

func TestUsers(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	u := models.User{Name: "Bob", Email: "bob@mail.com", Password: "hash"}
	require.NoError(t, r.CreateUser(ctx, &u))

	dup := models.User{Name: "Bob2", Email: "bob@mail.com", Password: "hash"}
	err := r.CreateUser(ctx, &dup)
	require.Error(t, err)
	assert.True(t, pkgdb.IsUniqueViolation(err))

	found, err := r.FindUserByEmail(ctx, "bob@mail.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", found.Password)

	_, err = r.FindUserByEmail(ctx, "nobody@mail.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, r.DeleteUser(ctx, u.ID))
	require.ErrorIs(t, r.DeleteUser(ctx, u.ID), gorm.ErrRecordNotFound)
}

func TestCreateCategoryIfMissing(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.CreateCategoryIfMissing(ctx, "monitor")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = r.CreateCategoryIfMissing(ctx, "monitor")
	require.NoError(t, err)
	assert.False(t, created)

	n, err := r.CountCategories(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSearchProducts_Fallback(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)

	seedProduct(t, r, "Gaming Mouse", "20.00", 1)
	seedProduct(t, r, "Keyboard", "30.00", 1)

	total, items, err := r.SearchProducts(context.Background(), "mouse", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Gaming Mouse", items[0].Name)
}
