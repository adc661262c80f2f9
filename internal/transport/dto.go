package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

type SignUpRequest struct {
	Name            string `json:"name"             validate:"required,min=3,max=80"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,strongpwd"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Address         string `json:"address"          validate:"required,min=3,max=80"`
	Phone           int64  `json:"phone"            validate:"required"`
	Country         string `json:"country"          validate:"required,min=5,max=20"`
	City            string `json:"city"             validate:"required,min=5,max=20"`
	IsAdmin         *bool  `json:"is_admin"         validate:"isdefault"`
}

type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=15"`
}

type SignInResponse struct {
	Success string `json:"success"`
	Token   string `json:"token"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=3,max=80"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,strongpwd"`
	Address  *string `json:"address"  validate:"omitempty,min=3,max=80"`
	Phone    *int64  `json:"phone"    validate:"omitempty,gt=0"`
	Country  *string `json:"country"  validate:"omitempty,min=5,max=20"`
	City     *string `json:"city"     validate:"omitempty,min=5,max=20"`
	IsAdmin  *bool   `json:"is_admin" validate:"isdefault"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"        validate:"required,max=50"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Stock       int     `json:"stock"       validate:"required,gt=0"`
	ImgURL      string  `json:"img_url"     validate:"omitempty,url"`
	CategoryID  string  `json:"category_id" validate:"required,uuid"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1,max=50"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
	Price       *float64 `json:"price"       validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock"       validate:"omitempty,gte=0"`
	ImgURL      *string  `json:"img_url"     validate:"omitempty,url"`
	CategoryID  *string  `json:"category_id" validate:"omitempty,uuid"`
}

type OrderProduct struct {
	ID string `json:"id" validate:"required,uuid"`
}

type CreateOrderRequest struct {
	UserID   string         `json:"user_id"  validate:"required,uuid"`
	Products []OrderProduct `json:"products" validate:"required,min=1,dive"`
}

// UserView is a user without the password hash. IsAdmin is dropped by
// PublicUser for single-user reads.
type UserView struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Phone   int64     `json:"phone"`
	Country string    `json:"country"`
	Address string    `json:"address"`
	City    string    `json:"city"`
	IsAdmin *bool     `json:"is_admin,omitempty"`
}

func UserWithRole(u *models.User) UserView {
	v := PublicUser(u)
	isAdmin := u.IsAdmin
	v.IsAdmin = &isAdmin
	return v
}

func PublicUser(u *models.User) UserView {
	return UserView{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Country: u.Country,
		Address: u.Address,
		City:    u.City,
	}
}

type ProductSummary struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func Summaries(products []models.Product) []ProductSummary {
	out := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		out = append(out, ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	return out
}

type OrderDetailSummary struct {
	ID       uuid.UUID        `json:"id"`
	Price    decimal.Decimal  `json:"price"`
	Products []ProductSummary `json:"products"`
}

type PlacedOrder struct {
	ID          uuid.UUID          `json:"id"`
	Date        time.Time          `json:"date"`
	UserID      uuid.UUID          `json:"user_id"`
	OrderDetail OrderDetailSummary `json:"order_detail"`
}

type OrderHeader struct {
	ID   uuid.UUID `json:"id"`
	Date time.Time `json:"date"`
}

type OrderDetailView struct {
	ID       uuid.UUID        `json:"id"`
	Total    decimal.Decimal  `json:"total"`
	Products []ProductSummary `json:"products"`
}

type OrderView struct {
	User         UserView        `json:"user"`
	Order        OrderHeader     `json:"order"`
	OrderDetails OrderDetailView `json:"order_details"`
}
