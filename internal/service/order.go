package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/mykafka"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	"github.com/Skotchmaster/ecommerce_api/pkg/logging"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events Publisher
	Now    func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// priceOf reads a product price the way it is displayed, tolerating
// thousands separators.
func priceOf(p models.Product) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.ReplaceAll(p.Price.String(), ",", ""))
	if err != nil || !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: invalid product price", ErrValidation)
	}
	return price, nil
}

// AddOrder places one order for the in-stock products among productIDs.
// Every matched product counts as quantity 1. Unknown and sold-out ids are
// skipped. All writes share one transaction.
func (s *OrderService) AddOrder(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) (*transport.PlacedOrder, error) {
	l := logging.FromContext(ctx).With("svc", "order.add_order")

	var (
		order    models.Order
		detail   models.OrderDetail
		products []models.Product
	)

	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		user, err := tx.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user does not exist", ErrNotFound)
			}
			return err
		}

		products, err = tx.FindInStock(ctx, dedupe(productIDs))
		if err != nil {
			return err
		}
		if len(products) == 0 {
			return fmt.Errorf("%w: no products with stock available", ErrNotFound)
		}

		total := decimal.Zero
		for _, p := range products {
			price, err := priceOf(p)
			if err != nil {
				return err
			}
			total = total.Add(price)
		}

		for i := range products {
			if err := tx.DecrementStock(ctx, products[i].ID); err != nil {
				if errors.Is(err, repo.ErrOutOfStock) {
					return fmt.Errorf("%w: product %s out of stock", ErrConflict, products[i].ID)
				}
				return err
			}
			products[i].Stock--
		}

		checked, err := decimal.NewFromString(total.String())
		if err != nil || checked.IsNegative() || !checked.Equal(total) {
			return fmt.Errorf("%w: invalid computed total", ErrInternal)
		}

		order = models.Order{Date: s.now(), UserID: user.ID}
		if err := tx.CreateOrder(ctx, &order); err != nil {
			return err
		}

		detail = models.OrderDetail{OrderID: order.ID, Price: total, Products: products}
		if err := tx.CreateOrderDetail(ctx, &detail); err != nil {
			return err
		}

		if err := tx.LinkOrderDetail(ctx, order.ID, detail.ID); err != nil {
			return err
		}
		order.OrderDetailID = &detail.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.Info("order_placed", "order_id", order.ID, "user_id", order.UserID, "items", len(products), "total", detail.Price.String())
	publish(ctx, s.Events, mykafka.TopicOrders, order.ID.String(), "order_placed", map[string]any{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    detail.Price,
		"products": transport.Summaries(products),
	})

	return &transport.PlacedOrder{
		ID:     order.ID,
		Date:   order.Date,
		UserID: order.UserID,
		OrderDetail: transport.OrderDetailSummary{
			ID:       detail.ID,
			Price:    detail.Price,
			Products: transport.Summaries(products),
		},
	}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*transport.OrderView, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no order for that id", ErrNotFound)
		}
		return nil, err
	}

	detail, err := s.Repo.GetOrderDetailByOrder(ctx, order.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no detail for the order", ErrNotFound)
		}
		return nil, err
	}

	view := &transport.OrderView{
		Order: transport.OrderHeader{ID: order.ID, Date: order.Date},
		OrderDetails: transport.OrderDetailView{
			ID:       detail.ID,
			Total:    detail.Price,
			Products: transport.Summaries(detail.Products),
		},
	}
	if order.User != nil {
		view.User = transport.PublicUser(order.User)
	} else {
		view.User = transport.UserView{ID: order.UserID}
	}
	return view, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
