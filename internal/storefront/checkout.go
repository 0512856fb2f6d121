package storefront

import (
	"context"
	"errors"

	"github.com/wichananm65/elite-shop-backend/internal/order"
)

const (
	FreeShippingThreshold = 2000000
	StandardShippingFee   = 50000
)

// ErrLoginRequired is returned by Checkout when nobody is signed in.
var ErrLoginRequired = errors.New("Vui lòng đăng nhập")

// ShippingFee is free from FreeShippingThreshold upward.
func ShippingFee(itemsPrice float64) float64 {
	if itemsPrice >= FreeShippingThreshold {
		return 0
	}
	return StandardShippingFee
}

type CheckoutDetails struct {
	ShippingInfo  order.ShippingInfo
	PaymentMethod string
}

// Shop ties the client, cart and session to one Storage.
type Shop struct {
	Client  *Client
	Cart    *Cart
	Session *Session
}

func NewShop(baseURL string, s Storage) *Shop {
	session := NewSession(s)
	return &Shop{
		Client:  NewClient(baseURL, session),
		Cart:    NewCart(NewStorageCartStore(s)),
		Session: session,
	}
}

// BuildOrder prices a cart snapshot into an order submission.
func BuildOrder(items []Item, details CheckoutDetails) order.CreateInput {
	lines := make([]order.ItemInput, 0, len(items))
	for _, it := range items {
		price := it.Price
		lines = append(lines, order.ItemInput{
			Product:  it.ProductID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    &price,
		})
	}

	itemsPrice := subtotal(items)
	shipping := ShippingFee(itemsPrice)
	total := itemsPrice + shipping
	info := details.ShippingInfo
	return order.CreateInput{
		OrderItems:    lines,
		ShippingInfo:  &info,
		PaymentMethod: details.PaymentMethod,
		ItemsPrice:    &itemsPrice,
		ShippingPrice: &shipping,
		TotalPrice:    &total,
	}
}

// Checkout submits the current cart as an order. The cart is cleared only
// once the order has been accepted.
func (s *Shop) Checkout(ctx context.Context, details CheckoutDetails) (order.Order, error) {
	account, err := s.Session.CurrentUser(ctx)
	if err != nil {
		return order.Order{}, err
	}
	if account == nil {
		return order.Order{}, ErrLoginRequired
	}

	items, err := s.Cart.Items(ctx)
	if err != nil {
		return order.Order{}, err
	}

	placed, err := s.Client.PlaceOrder(ctx, BuildOrder(items, details))
	if err != nil {
		return order.Order{}, err
	}
	if err := s.Cart.Clear(ctx); err != nil {
		return placed, err
	}
	return placed, nil
}
