package order

import "time"

// Order lifecycle states.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

const (
	MethodCOD  = "cod"
	MethodBank = "bank"
	MethodCard = "card"
	MethodMomo = "momo"
)

var (
	orderStatuses   = []string{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
	paymentStatuses = []string{PaymentPending, PaymentPaid, PaymentFailed}
	paymentMethods  = []string{MethodCOD, MethodBank, MethodCard, MethodMomo}
)

// LineItem is a snapshot of the product at purchase time; later catalog
// edits never touch it.
type LineItem struct {
	Product  string  `json:"product" bson:"product" validate:"required"`
	Name     string  `json:"name" bson:"name" validate:"required"`
	Quantity int     `json:"quantity" bson:"quantity" validate:"min=1"`
	Price    float64 `json:"price" bson:"price" validate:"gte=0"`
}

type ShippingInfo struct {
	FullName string `json:"fullName" bson:"fullName"`
	Email    string `json:"email" bson:"email"`
	Phone    string `json:"phone" bson:"phone"`
	Address  string `json:"address" bson:"address"`
	City     string `json:"city" bson:"city"`
	District string `json:"district" bson:"district"`
	Note     string `json:"note" bson:"note"`
}

type Order struct {
	ID            string       `json:"_id" bson:"_id"`
	User          string       `json:"user" bson:"user"`
	OrderItems    []LineItem   `json:"orderItems" bson:"orderItems" validate:"required,min=1,dive"`
	ShippingInfo  ShippingInfo `json:"shippingInfo" bson:"shippingInfo"`
	PaymentMethod string       `json:"paymentMethod" bson:"paymentMethod" validate:"oneof=cod bank card momo"`
	PaymentStatus string       `json:"paymentStatus" bson:"paymentStatus" validate:"oneof=pending paid failed"`
	OrderStatus   string       `json:"orderStatus" bson:"orderStatus" validate:"oneof=pending processing shipped delivered cancelled"`
	ItemsPrice    float64      `json:"itemsPrice" bson:"itemsPrice" validate:"gte=0"`
	ShippingPrice float64      `json:"shippingPrice" bson:"shippingPrice" validate:"gte=0"`
	TotalPrice    float64      `json:"totalPrice" bson:"totalPrice" validate:"gte=0"`
	DeliveredAt   *time.Time   `json:"deliveredAt" bson:"deliveredAt"`
	CreatedAt     time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// CanCancel reports whether the order may still be cancelled.
func (o Order) CanCancel() bool {
	return o.OrderStatus == StatusPending || o.OrderStatus == StatusProcessing
}

func (o Order) OwnedBy(userID string) bool {
	return userID != "" && o.User == userID
}

// ItemInput accepts the product reference as either productId or product.
type ItemInput struct {
	ProductID string   `json:"productId"`
	Product   string   `json:"product"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	Price     *float64 `json:"price"`
}

func (in ItemInput) productRef() string {
	if in.ProductID != "" {
		return in.ProductID
	}
	return in.Product
}

type CreateInput struct {
	OrderItems    []ItemInput   `json:"orderItems"`
	ShippingInfo  *ShippingInfo `json:"shippingInfo"`
	PaymentMethod string        `json:"paymentMethod"`
	ItemsPrice    *float64      `json:"itemsPrice"`
	ShippingPrice *float64      `json:"shippingPrice"`
	TotalPrice    *float64      `json:"totalPrice"`
}

// StatusInput is an admin status change; empty fields are left unchanged.
type StatusInput struct {
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
