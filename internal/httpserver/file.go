package httpserver

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/pkg/logging"
	authmw "github.com/Skotchmaster/ecommerce_api/pkg/middleware/auth"
)

type FileHTTP struct {
	Svc *service.FileService
}

func (h *FileHTTP) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "file.upload_image")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "upload_image_failed", "id is not a uuid", err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(l, "upload_image_failed", "file is required", err)
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(l, "upload_image_failed", "cannot read file", err)
	}
	defer f.Close()

	// one byte past the limit is enough to reject oversize files
	data, err := io.ReadAll(io.LimitReader(f, service.MaxImageBytes+1))
	if err != nil {
		return badRequest(l, "upload_image_failed", "cannot read file", err)
	}

	product, err := h.Svc.UploadImage(ctx, id, service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return fail(l, "upload_image_failed", err)
	}

	l.Info("upload_image_success", "product_id", product.ID, "url", product.ImgURL)
	return c.JSON(http.StatusCreated, map[string]any{
		"file_upload": product,
		"exp":         authmw.Expiry(c).Unix(),
	})
}
