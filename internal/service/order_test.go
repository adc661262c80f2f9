package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/mykafka"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
)

func stockOf(t *testing.T, r *repo.GormRepo, id uuid.UUID) int {
	t.Helper()
	p, err := r.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestOrderService_AddOrder_TotalsAndDecrements(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	pub := &fakePublisher{}
	svc := &OrderService{Repo: r, Events: pub}
	ctx := context.Background()

	user := mustUser(t, r, "buyer@mail.com")
	a := mustProduct(t, r, "a", "10", 5)
	b := mustProduct(t, r, "b", "20", 3)

	placed, err := svc.AddOrder(ctx, user.ID, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(30).Equal(placed.OrderDetail.Price), placed.OrderDetail.Price.String())
	assert.Equal(t, user.ID, placed.UserID)
	assert.Len(t, placed.OrderDetail.Products, 2)
	assert.WithinDuration(t, time.Now(), placed.Date, time.Minute)

	assert.Equal(t, 4, stockOf(t, r, a.ID))
	assert.Equal(t, 2, stockOf(t, r, b.ID))

	order, err := r.GetOrder(ctx, placed.ID)
	require.NoError(t, err)
	require.NotNil(t, order.OrderDetailID)
	assert.Equal(t, placed.OrderDetail.ID, *order.OrderDetailID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, mykafka.TopicOrders, pub.events[0].Topic)
	assert.Equal(t, "order_placed", pub.events[0].Event.Type)
}

func TestOrderService_AddOrder_UnknownUserTouchesNothing(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}

	a := mustProduct(t, r, "a", "10", 5)

	_, err := svc.AddOrder(context.Background(), uuid.New(), []uuid.UUID{a.ID})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "user does not exist")
	assert.Equal(t, 5, stockOf(t, r, a.ID))
}

func TestOrderService_AddOrder_NoStock(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}

	user := mustUser(t, r, "buyer@mail.com")
	a := mustProduct(t, r, "a", "10", 0)
	b := mustProduct(t, r, "b", "20", 0)

	_, err := svc.AddOrder(context.Background(), user.ID, []uuid.UUID{a.ID, b.ID})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "no products with stock available")
	assert.Equal(t, 0, stockOf(t, r, a.ID))
	assert.Equal(t, 0, stockOf(t, r, b.ID))

	var orders int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestOrderService_AddOrder_DropsUnavailableIDs(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}

	user := mustUser(t, r, "buyer@mail.com")
	a := mustProduct(t, r, "a", "12.50", 2)
	sold := mustProduct(t, r, "sold", "99", 0)

	placed, err := svc.AddOrder(context.Background(), user.ID, []uuid.UUID{a.ID, a.ID, sold.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, placed.OrderDetail.Products, 1)
	assert.Equal(t, a.ID, placed.OrderDetail.Products[0].ID)
	assert.True(t, decimal.RequireFromString("12.5").Equal(placed.OrderDetail.Price))
	assert.Equal(t, 1, stockOf(t, r, a.ID))
}

func TestOrderService_AddOrder_InvalidPriceRollsBack(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}

	user := mustUser(t, r, "buyer@mail.com")
	a := mustProduct(t, r, "a", "10", 5)
	free := mustProduct(t, r, "free", "1", 5)
	require.NoError(t, r.DB.Model(&models.Product{}).Where("id = ?", free.ID).Update("price", decimal.Zero).Error)

	_, err := svc.AddOrder(context.Background(), user.ID, []uuid.UUID{a.ID, free.ID})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "invalid product price")
	assert.Equal(t, 5, stockOf(t, r, a.ID))
	assert.Equal(t, 5, stockOf(t, r, free.ID))
}

func TestOrderService_GetOrder(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	user := mustUser(t, r, "buyer@mail.com")
	a := mustProduct(t, r, "a", "10", 5)

	placed, err := svc.AddOrder(ctx, user.ID, []uuid.UUID{a.ID})
	require.NoError(t, err)

	view, err := svc.GetOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, view.Order.ID)
	assert.Equal(t, user.ID, view.User.ID)
	assert.Equal(t, "buyer@mail.com", view.User.Email)
	assert.Nil(t, view.User.IsAdmin)
	assert.Equal(t, placed.OrderDetail.ID, view.OrderDetails.ID)
	assert.True(t, decimal.NewFromInt(10).Equal(view.OrderDetails.Total))
	require.Len(t, view.OrderDetails.Products, 1)
	assert.Equal(t, "a", view.OrderDetails.Products[0].Name)
}

func TestOrderService_GetOrder_NotFound(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}
	ctx := context.Background()

	_, err := svc.GetOrder(ctx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "no order for that id")

	user := mustUser(t, r, "buyer@mail.com")
	bare := models.Order{Date: time.Now(), UserID: user.ID}
	require.NoError(t, r.CreateOrder(ctx, &bare))

	_, err = svc.GetOrder(ctx, bare.ID)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "no detail for the order")
}
