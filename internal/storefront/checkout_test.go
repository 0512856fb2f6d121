package storefront

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wichananm65/elite-shop-backend/internal/config"
	"github.com/wichananm65/elite-shop-backend/internal/order"
	"github.com/wichananm65/elite-shop-backend/internal/product"
	"github.com/wichananm65/elite-shop-backend/internal/seed"
	"github.com/wichananm65/elite-shop-backend/internal/server"
)

func TestShippingFee(t *testing.T) {
	assert.Equal(t, float64(StandardShippingFee), ShippingFee(0))
	assert.Equal(t, float64(StandardShippingFee), ShippingFee(1999999))
	assert.Equal(t, 0.0, ShippingFee(2000000))
	assert.Equal(t, 0.0, ShippingFee(3500000))
}

func TestBuildOrder(t *testing.T) {
	items := []Item{
		{ProductID: "p1", Name: "Ví Da Nam", Price: 450000, Quantity: 2},
		{ProductID: "p2", Name: "Thắt Lưng Da", Price: 650000, Quantity: 1},
	}
	in := BuildOrder(items, CheckoutDetails{PaymentMethod: order.MethodMomo})

	require.Len(t, in.OrderItems, 2)
	assert.Equal(t, "p1", in.OrderItems[0].Product)
	assert.Equal(t, 450000.0, *in.OrderItems[0].Price)
	assert.Equal(t, 1550000.0, *in.ItemsPrice)
	assert.Equal(t, 50000.0, *in.ShippingPrice)
	assert.Equal(t, 1600000.0, *in.TotalPrice)
	assert.Equal(t, order.MethodMomo, in.PaymentMethod)
}

func TestCheckout_RequiresLogin(t *testing.T) {
	shop := NewShop("http://127.0.0.1:1", NewMemoryStorage())
	_, err := shop.Cart.Add(context.Background(), Item{ProductID: "p1", Price: 10})
	require.NoError(t, err)

	_, err = shop.Checkout(context.Background(), CheckoutDetails{PaymentMethod: order.MethodCOD})
	assert.ErrorIs(t, err, ErrLoginRequired)

	count, err := shop.Cart.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count, "cart untouched")
}

// startAPI serves a seeded in-memory API on a loopback port.
func startAPI(t *testing.T) string {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Env: "test", CORSOrigins: "*", AllowResetProducts: true, BcryptCost: bcrypt.MinCost},
		JWT:    config.JWTConfig{Secret: "storefront-test", Expire: time.Hour},
		Store:  config.StoreConfig{Driver: config.DriverMemory},
	}
	log := zap.NewNop()
	svc := server.NewServices(cfg, server.MemoryStores(), log)
	require.NoError(t, seed.Run(context.Background(), svc.Users, svc.Products, log))

	app := server.New(cfg, log, svc)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String() + "/api"
}

var shipping = order.ShippingInfo{
	FullName: "Test User", Email: "user@elite.com", Phone: "0900000000",
	Address: "1 Lê Lợi", City: "Hồ Chí Minh", District: "Quận 1",
}

func TestShopAgainstAPI(t *testing.T) {
	ctx := context.Background()
	shop := NewShop(startAPI(t), NewMemoryStorage())

	_, err := shop.Client.Login(ctx, "user@elite.com", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, fiber.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Email hoặc mật khẩu không đúng", apiErr.Message)

	account, err := shop.Client.Login(ctx, "user@elite.com", seed.DefaultPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, account.Token)
	current, err := shop.Session.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, account.ID, current.ID)

	me, err := shop.Client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user@elite.com", me.Email)

	list, err := shop.Client.Products(ctx, product.Filter{Category: "women", Sort: product.SortPriceDesc})
	require.NoError(t, err)
	assert.EqualValues(t, 4, list.Total)
	require.NotEmpty(t, list.Items)
	top := list.Items[0]
	assert.Equal(t, "Váy Dạ Hội", top.Name)

	got, err := shop.Client.Product(ctx, top.ID)
	require.NoError(t, err)
	assert.Equal(t, top.Price, got.Price)

	// A rejected order keeps the cart.
	_, err = shop.Cart.Add(ctx, Item{ProductID: top.ID, Name: top.Name, Price: top.Price, Image: top.Image})
	require.NoError(t, err)
	_, err = shop.Checkout(ctx, CheckoutDetails{ShippingInfo: shipping, PaymentMethod: "paypal"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, fiber.StatusBadRequest, apiErr.Status)
	count, err := shop.Cart.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	placed, err := shop.Checkout(ctx, CheckoutDetails{ShippingInfo: shipping, PaymentMethod: order.MethodCOD})
	require.NoError(t, err)
	assert.Equal(t, 0.0, placed.ShippingPrice, "over the free shipping threshold")
	assert.Equal(t, top.Price, placed.TotalPrice)
	count, err = shop.Cart.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "cart cleared after a successful order")

	mine, err := shop.Client.MyOrders(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, placed.ID, mine[0].ID)

	cancelled, err := shop.Client.CancelOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, cancelled.OrderStatus)
	_, err = shop.Client.CancelOrder(ctx, placed.ID)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, fiber.StatusBadRequest, apiErr.Status)

	_, err = shop.Client.AllOrders(ctx)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, fiber.StatusForbidden, apiErr.Status)

	require.NoError(t, shop.Client.Logout(ctx))
	_, err = shop.Client.Me(ctx)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, fiber.StatusUnauthorized, apiErr.Status)
}

func TestAdminClient(t *testing.T) {
	ctx := context.Background()
	shop := NewShop(startAPI(t), NewMemoryStorage())
	_, err := shop.Client.Login(ctx, "admin@elite.com", seed.DefaultPassword)
	require.NoError(t, err)

	name, desc, cat := "Khăn Lụa", "Khăn lụa tơ tằm", product.CategoryAccessories
	price := 520000.0
	created, err := shop.Client.CreateProduct(ctx, product.Input{Name: &name, Description: &desc, Category: &cat, Price: &price})
	require.NoError(t, err)

	newPrice := 480000.0
	updated, err := shop.Client.UpdateProduct(ctx, created.ID, product.Input{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, newPrice, updated.Price)

	require.NoError(t, shop.Client.DeleteProduct(ctx, created.ID))
	_, err = shop.Client.Product(ctx, created.ID)
	assert.Error(t, err)

	_, err = shop.Cart.Add(ctx, Item{ProductID: "p1", Name: "Ví Da Nam", Price: 450000})
	require.NoError(t, err)
	placed, err := shop.Checkout(ctx, CheckoutDetails{ShippingInfo: shipping, PaymentMethod: order.MethodBank})
	require.NoError(t, err)
	assert.Equal(t, 500000.0, placed.TotalPrice)

	all, err := shop.Client.AllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	delivered, err := shop.Client.UpdateOrderStatus(ctx, placed.ID, order.StatusInput{OrderStatus: order.StatusDelivered})
	require.NoError(t, err)
	assert.NotNil(t, delivered.DeliveredAt)

	n, err := shop.Client.ResetProducts(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}
