package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultImgURL = "http://imagesDefault.com/image/1"

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	Name     string    `gorm:"size:80;not null"              json:"name"`
	Email    string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null"                      json:"-"`
	Phone    int64     `json:"phone"`
	Country  string    `gorm:"size:20"                       json:"country"`
	Address  string    `gorm:"size:80"                       json:"address"`
	City     string    `gorm:"size:20"                       json:"city"`
	IsAdmin  bool      `gorm:"not null;default:false"        json:"is_admin"`
}

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"         json:"id"`
	Name string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"          json:"id"`
	Name        string          `gorm:"size:50;not null"              json:"name"`
	Description string          `gorm:"not null"                      json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"   json:"price"`
	Stock       int             `gorm:"not null;check:stock >= 0"     json:"stock"`
	ImgURL      string          `gorm:"not null"                      json:"img_url"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"      json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID"         json:"category,omitempty"`
}

type Order struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"     json:"id"`
	Date          time.Time  `gorm:"not null"                 json:"date"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User      `gorm:"foreignKey:UserID"        json:"-"`
	OrderDetailID *uuid.UUID `gorm:"type:uuid;uniqueIndex"    json:"order_detail_id,omitempty"`
}

type OrderDetail struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"                json:"id"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null"         json:"price"`
	OrderID  uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"      json:"order_id"`
	Order    *Order          `gorm:"foreignKey:OrderID"                  json:"-"`
	Products []Product       `gorm:"many2many:order_details_products;"   json:"products"`
}

func (OrderDetail) TableName() string {
	return "order_details"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.ImgURL == "" {
		p.ImgURL = DefaultImgURL
	}
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (d *OrderDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// All lists the tables in migration order.
func All() []any {
	return []any{&User{}, &Category{}, &Product{}, &Order{}, &OrderDetail{}}
}
