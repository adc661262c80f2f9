package service

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/storage"
)

const MaxImageBytes = 204800

var imageType = regexp.MustCompile(`(jpg|jpeg|png|webp)$`)

type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type FileService struct {
	Catalog *CatalogService
	Store   storage.ImageStore
}

func validateUpload(u Upload) error {
	if len(u.Data) == 0 {
		return fmt.Errorf("%w: file is empty", ErrValidation)
	}
	if len(u.Data) > MaxImageBytes {
		return fmt.Errorf("%w: file is larger than %d bytes", ErrValidation, MaxImageBytes)
	}
	ct := strings.ToLower(u.ContentType)
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if !imageType.MatchString(ct) && !imageType.MatchString(ext) {
		return fmt.Errorf("%w: file must be jpg, jpeg, png or webp", ErrValidation)
	}
	return nil
}

// UploadImage stores a product picture and points the product at it.
func (s *FileService) UploadImage(ctx context.Context, productID uuid.UUID, u Upload) (*models.Product, error) {
	if err := validateUpload(u); err != nil {
		return nil, err
	}

	product, err := s.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	kind := imageType.FindString(strings.ToLower(u.ContentType))
	if kind == "" {
		kind = imageType.FindString(strings.ToLower(filepath.Ext(u.Filename)))
	}
	name := fmt.Sprintf("%s-%s.%s", product.ID, uuid.NewString()[:8], kind)

	url, err := s.Store.Put(ctx, name, storage.Normalize(u.Data, kind))
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	product.ImgURL = url
	if err := s.Catalog.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}

	s.Catalog.productChanged(ctx, "product_updated", product)
	return product, nil
}
