package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/mykafka"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/seed"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	"github.com/Skotchmaster/ecommerce_api/pkg/logging"
)

const (
	ProductsSeeded          = "products added"
	CategoriesAlreadyLoaded = "all categories already loaded"
)

type CatalogService struct {
	Repo    *repo.GormRepo
	Events  Publisher
	Index   ProductIndexer
	Dataset *seed.Dataset
}

func (s *CatalogService) dataset() (*seed.Dataset, error) {
	if s.Dataset != nil {
		return s.Dataset, nil
	}
	return seed.Load()
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.ListProducts(ctx, offset, limit)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product not found", ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func parsePrice(v float64) (decimal.Decimal, error) {
	price := decimal.NewFromFloat(v)
	if !price.IsPositive() || price.Exponent() < -2 {
		return decimal.Zero, fmt.Errorf("%w: price must be positive with at most 2 decimals", ErrValidation)
	}
	return price, nil
}

func (s *CatalogService) category(ctx context.Context, raw string) (*models.Category, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: category_id is not a uuid", ErrValidation)
	}
	cat, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category not found", ErrNotFound)
		}
		return nil, err
	}
	return cat, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (uuid.UUID, error) {
	price, err := parsePrice(req.Price)
	if err != nil {
		return uuid.Nil, err
	}
	if req.Stock < 0 {
		return uuid.Nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	cat, err := s.category(ctx, req.CategoryID)
	if err != nil {
		return uuid.Nil, err
	}

	product := models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		ImgURL:      req.ImgURL,
		CategoryID:  cat.ID,
	}
	if err := s.Repo.CreateProduct(ctx, &product); err != nil {
		return uuid.Nil, err
	}
	product.Category = cat

	s.productChanged(ctx, "product_created", &product)
	return product.ID, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (uuid.UUID, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return uuid.Nil, err
		}
		product.Price = price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return uuid.Nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
		}
		product.Stock = *req.Stock
	}
	if req.ImgURL != nil {
		product.ImgURL = *req.ImgURL
	}
	if req.CategoryID != nil {
		cat, err := s.category(ctx, *req.CategoryID)
		if err != nil {
			return uuid.Nil, err
		}
		product.CategoryID = cat.ID
		product.Category = cat
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return uuid.Nil, err
	}

	s.productChanged(ctx, "product_updated", product)
	return product.ID, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return uuid.Nil, fmt.Errorf("%w: product not found", ErrNotFound)
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return uuid.Nil, fmt.Errorf("%w: product is part of an order", ErrConflict)
		}
		return uuid.Nil, err
	}

	if s.Index != nil {
		ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
		if err := s.Index.DeleteProduct(ictx, id); err != nil {
			logging.FromContext(ctx).Warn("product_unindex_failed", "product_id", id, "error", err)
		}
		cancel()
	}
	publish(ctx, s.Events, mykafka.TopicProducts, id.String(), "product_deleted", map[string]any{"id": id})
	return id, nil
}

// productChanged keeps the search index and event stream in sync after a
// committed write.
func (s *CatalogService) productChanged(ctx context.Context, typ string, p *models.Product) {
	if s.Index != nil {
		ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
		if err := s.Index.IndexProduct(ictx, p); err != nil {
			logging.FromContext(ctx).Warn("product_index_failed", "product_id", p.ID, "error", err)
		}
		cancel()
	}
	publish(ctx, s.Events, mykafka.TopicProducts, p.ID.String(), typ, map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"price":       p.Price,
		"stock":       p.Stock,
		"category_id": p.CategoryID,
	})
}

// SearchProducts uses the search index when one is configured and falls
// back to a database substring match otherwise.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, []models.Product{}, nil
	}
	if s.Index == nil {
		return s.Repo.SearchProducts(ctx, q, offset, limit)
	}

	ids, total, err := s.Index.Search(ctx, q, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Warn("product_search_index_failed", "error", err)
		return s.Repo.SearchProducts(ctx, q, offset, limit)
	}
	items, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

// SeedCategories inserts the reference categories that are not there yet.
func (s *CatalogService) SeedCategories(ctx context.Context) (string, error) {
	ds, err := s.dataset()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}

	added := 0
	err = s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		for _, name := range ds.CategoryNames() {
			created, err := tx.CreateCategoryIfMissing(ctx, name)
			if err != nil {
				return err
			}
			if created {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if added == 0 {
		return CategoriesAlreadyLoaded, nil
	}
	return fmt.Sprintf("%d categories added", added), nil
}

// SeedProducts loads the reference products. It refuses to run before the
// categories exist or when any of the products is already present.
func (s *CatalogService) SeedProducts(ctx context.Context) (string, error) {
	ds, err := s.dataset()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}

	n, err := s.Repo.CountCategories(ctx)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", fmt.Errorf("%w: load categories first", ErrValidation)
	}

	created := make([]models.Product, 0, len(ds.Products))
	err = s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		for _, item := range ds.Products {
			exists, err := tx.ProductNameExists(ctx, item.Name)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: product %q already exists", ErrConflict, item.Name)
			}

			cat, err := tx.GetCategoryByName(ctx, item.Category)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: category %q not found", ErrNotFound, item.Category)
				}
				return err
			}

			p := models.Product{
				Name:        item.Name,
				Description: item.Description,
				Price:       item.Price,
				Stock:       item.Stock,
				CategoryID:  cat.ID,
			}
			if err := tx.CreateProduct(ctx, &p); err != nil {
				return err
			}
			p.Category = cat
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	for i := range created {
		s.productChanged(ctx, "product_created", &created[i])
	}
	return ProductsSeeded, nil
}
