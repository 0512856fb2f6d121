package product

import (
	"strings"
	"time"
)

const (
	CategoryMen         = "men"
	CategoryWomen       = "women"
	CategoryAccessories = "accessories"

	BadgeNew  = "new"
	BadgeSale = "sale"
)

// Sort keys accepted by List.
const (
	SortNewest    = ""
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortName      = "name"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

type Product struct {
	ID            string    `json:"_id" bson:"_id"`
	Name          string    `json:"name" bson:"name" validate:"required,max=100"`
	Description   string    `json:"description" bson:"description" validate:"required"`
	Price         float64   `json:"price" bson:"price" validate:"gte=0"`
	OriginalPrice *float64  `json:"originalPrice" bson:"originalPrice" validate:"omitempty,gte=0"`
	Category      string    `json:"category" bson:"category" validate:"required,oneof=men women accessories"`
	Badge         string    `json:"badge,omitempty" bson:"badge" validate:"omitempty,oneof=new sale"`
	Image         string    `json:"image" bson:"image"`
	Stock         int       `json:"stock" bson:"stock" validate:"gte=0"`
	Sold          int       `json:"sold" bson:"sold" validate:"gte=0"`
	Rating        float64   `json:"rating" bson:"rating" validate:"gte=0,lte=5"`
	NumReviews    int       `json:"numReviews" bson:"numReviews" validate:"gte=0"`
	IsActive      bool      `json:"isActive" bson:"isActive"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Input carries a create or partial-update payload. Nil fields are left
// untouched on update and take their defaults on create.
type Input struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	Category      *string  `json:"category"`
	Badge         *string  `json:"badge"`
	Image         *string  `json:"image"`
	Stock         *int     `json:"stock"`
	Sold          *int     `json:"sold"`
	Rating        *float64 `json:"rating"`
	NumReviews    *int     `json:"numReviews"`
	IsActive      *bool    `json:"isActive"`
}

func (in Input) applyTo(p *Product) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.OriginalPrice != nil {
		p.OriginalPrice = in.OriginalPrice
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Badge != nil {
		p.Badge = *in.Badge
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Sold != nil {
		p.Sold = *in.Sold
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.NumReviews != nil {
		p.NumReviews = *in.NumReviews
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

// Filter narrows the public catalog listing. Only active products are ever
// listed.
type Filter struct {
	Category string
	Badge    string
	Search   string
	PriceMin *float64
	PriceMax *float64
	Sort     string
	Page     int
	Limit    int
}

func (f Filter) normalize() Filter {
	if f.Category == "all" {
		f.Category = ""
	}
	f.Search = strings.TrimSpace(f.Search)
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

func (f Filter) offset() int {
	return (f.Page - 1) * f.Limit
}

type Page struct {
	Items []Product
	Total int64
	Page  int
	Pages int
}
