package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wichananm65/elite-shop-backend/internal/auth"
	"github.com/wichananm65/elite-shop-backend/internal/config"
	"github.com/wichananm65/elite-shop-backend/internal/logger"
	"github.com/wichananm65/elite-shop-backend/internal/seed"
	"github.com/wichananm65/elite-shop-backend/internal/user"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Addr:               ":0",
			Env:                "test",
			CORSOrigins:        "*",
			AllowResetProducts: true,
			BcryptCost:         bcrypt.MinCost,
		},
		JWT:   config.JWTConfig{Secret: "test-secret", Expire: time.Hour},
		Store: config.StoreConfig{Driver: config.DriverMemory},
	}
}

type testServer struct {
	app *fiber.App
	svc Services
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := testConfig()
	log := zap.NewNop()
	svc := NewServices(cfg, MemoryStores(), log)
	require.NoError(t, seed.Run(context.Background(), svc.Users, svc.Products, log))
	return &testServer{app: New(cfg, log, svc), svc: svc}
}

type response struct {
	status int
	header func(string) string
	body   map[string]interface{}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := s.app.Test(req, -1)
	require.NoError(t, err)

	out := response{status: res.StatusCode, header: res.Header.Get}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out.body), "%s %s", method, path)
	return out
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	res := s.do(t, "POST", "/api/auth/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, fiber.StatusOK, res.status, res.body)
	return res.body["data"].(map[string]interface{})["token"].(string)
}

const checkoutBody = `{
	"orderItems": [
		{"productId": "p1", "name": "Áo Sơ Mi Premium", "quantity": 1, "price": 1200000},
		{"productId": "p2", "name": "Thắt Lưng Da", "quantity": 2, "price": 400000}
	],
	"shippingInfo": {"fullName": "Minh Anh", "email": "minhanh@example.com", "phone": "0900000000", "address": "1 Lê Lợi", "city": "Hồ Chí Minh", "district": "Quận 1"},
	"paymentMethod": "cod",
	"itemsPrice": 2000000,
	"shippingPrice": 0,
	"totalPrice": 2000000
}`

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, "GET", "/health", "", "")
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.Equal(t, "ok", res.body["status"])
	assert.NotEmpty(t, res.header(logger.RequestIDHeader))

	res = s.do(t, "GET", "/api/nowhere", "", "")
	assert.Equal(t, fiber.StatusNotFound, res.status)
	assert.Equal(t, false, res.body["success"])
	assert.Equal(t, "Không tìm thấy đường dẫn", res.body["message"])
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, "POST", "/api/auth/register", `{"name":"Lan","email":"Lan@Example.com","password":"secret"}`, "")
	require.Equal(t, fiber.StatusCreated, res.status, res.body)
	data := res.body["data"].(map[string]interface{})
	assert.Equal(t, "lan@example.com", data["email"])
	assert.Equal(t, auth.RoleUser, data["role"])
	token := data["token"].(string)

	res = s.do(t, "POST", "/api/auth/register", `{"name":"Lan","email":"lan@example.com","password":"x"}`, "")
	assert.Equal(t, fiber.StatusBadRequest, res.status)
	assert.Equal(t, user.MsgEmailTaken, res.body["message"])

	res = s.do(t, "GET", "/api/auth/me", "", token)
	require.Equal(t, fiber.StatusOK, res.status)
	me := res.body["data"].(map[string]interface{})
	assert.Equal(t, "Lan", me["name"])
	assert.NotContains(t, me, "password")

	res = s.do(t, "GET", "/api/auth/me", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, res.status)
	assert.Equal(t, auth.MsgLoginRequired, res.body["message"])

	res = s.do(t, "GET", "/api/auth/me", "", "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, res.status)
	assert.Equal(t, auth.MsgInvalidToken, res.body["message"])

	res = s.do(t, "POST", "/api/auth/login", `{"email":"lan@example.com","password":"wrong"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, res.status)
	assert.Equal(t, user.MsgBadCredentials, res.body["message"])

	require.NoError(t, s.svc.Users.DeleteAll(context.Background()))
	res = s.do(t, "GET", "/api/auth/me", "", token)
	assert.Equal(t, fiber.StatusUnauthorized, res.status)
	assert.Equal(t, auth.MsgUserMissing, res.body["message"])
}

func TestCatalogAccess(t *testing.T) {
	s := newTestServer(t)
	userToken := s.login(t, "user@elite.com", seed.DefaultPassword)
	adminToken := s.login(t, "admin@elite.com", seed.DefaultPassword)

	res := s.do(t, "GET", "/api/products?category=accessories&sort=price-asc", "", "")
	require.Equal(t, fiber.StatusOK, res.status)
	assert.Equal(t, float64(4), res.body["total"])
	items := res.body["data"].([]interface{})
	assert.Equal(t, "Ví Da Nam", items[0].(map[string]interface{})["name"])

	newProduct := `{"name":"Khăn Lụa","description":"Khăn lụa tơ tằm","price":520000,"category":"accessories"}`
	res = s.do(t, "POST", "/api/products", newProduct, "")
	assert.Equal(t, fiber.StatusUnauthorized, res.status)
	res = s.do(t, "POST", "/api/products", newProduct, userToken)
	assert.Equal(t, fiber.StatusForbidden, res.status)
	assert.Equal(t, auth.MsgAdminOnly, res.body["message"])

	res = s.do(t, "POST", "/api/products", newProduct, adminToken)
	require.Equal(t, fiber.StatusCreated, res.status, res.body)
	id := res.body["data"].(map[string]interface{})["_id"].(string)

	res = s.do(t, "PUT", "/api/products/"+id, `{"isActive":false}`, adminToken)
	require.Equal(t, fiber.StatusOK, res.status)
	res = s.do(t, "GET", "/api/products/"+id, "", "")
	assert.Equal(t, fiber.StatusNotFound, res.status)

	res = s.do(t, "DELETE", "/api/products/"+id, "", adminToken)
	assert.Equal(t, fiber.StatusOK, res.status)

	res = s.do(t, "POST", "/api/dev/reset-products", "", "")
	require.Equal(t, fiber.StatusOK, res.status)
	assert.Equal(t, float64(12), res.body["count"])
}

func TestOrderFlow(t *testing.T) {
	s := newTestServer(t)
	res := s.do(t, "POST", "/api/auth/register", `{"name":"Minh Anh","email":"minhanh@example.com","password":"matkhau123"}`, "")
	require.Equal(t, fiber.StatusCreated, res.status, res.body)
	userToken := s.login(t, "minhanh@example.com", "matkhau123")
	otherToken := s.login(t, "user@elite.com", seed.DefaultPassword)
	adminToken := s.login(t, "admin@elite.com", seed.DefaultPassword)

	res = s.do(t, "POST", "/api/orders", checkoutBody, "")
	assert.Equal(t, fiber.StatusUnauthorized, res.status)

	res = s.do(t, "POST", "/api/orders", checkoutBody, userToken)
	require.Equal(t, fiber.StatusCreated, res.status, res.body)
	placed := res.body["data"].(map[string]interface{})
	id := placed["_id"].(string)
	assert.Equal(t, "pending", placed["orderStatus"])
	assert.Len(t, placed["orderItems"], 2)
	assert.Equal(t, float64(2000000), placed["itemsPrice"])
	assert.Equal(t, float64(0), placed["shippingPrice"])
	assert.Equal(t, float64(2000000), placed["totalPrice"])

	res = s.do(t, "GET", "/api/orders/myorders", "", userToken)
	require.Equal(t, fiber.StatusOK, res.status)
	assert.Equal(t, float64(1), res.body["count"])
	mine := res.body["data"].([]interface{})
	assert.Equal(t, id, mine[0].(map[string]interface{})["_id"])

	res = s.do(t, "GET", "/api/orders/myorders", "", otherToken)
	require.Equal(t, fiber.StatusOK, res.status)
	assert.Equal(t, float64(0), res.body["count"])
	res = s.do(t, "GET", "/api/orders/"+id, "", otherToken)
	assert.Equal(t, fiber.StatusForbidden, res.status)

	res = s.do(t, "GET", "/api/orders", "", userToken)
	assert.Equal(t, fiber.StatusForbidden, res.status)
	res = s.do(t, "GET", "/api/orders", "", adminToken)
	require.Equal(t, fiber.StatusOK, res.status)
	assert.Equal(t, float64(1), res.body["count"])

	res = s.do(t, "PUT", "/api/orders/"+id+"/status", `{"orderStatus":"processing"}`, adminToken)
	require.Equal(t, fiber.StatusOK, res.status)

	res = s.do(t, "PUT", "/api/orders/"+id+"/cancel", "", userToken)
	require.Equal(t, fiber.StatusOK, res.status)
	assert.Equal(t, "cancelled", res.body["data"].(map[string]interface{})["orderStatus"])

	res = s.do(t, "PUT", "/api/orders/"+id+"/cancel", "", userToken)
	assert.Equal(t, fiber.StatusBadRequest, res.status)
	assert.Equal(t, false, res.body["success"])

	res = s.do(t, "GET", "/api/orders/"+id, "", adminToken)
	require.Equal(t, fiber.StatusOK, res.status)
	assert.Equal(t, "cancelled", res.body["data"].(map[string]interface{})["orderStatus"])
}

func TestOrderKeepsPriceAfterProductUpdate(t *testing.T) {
	s := newTestServer(t)
	userToken := s.login(t, "user@elite.com", seed.DefaultPassword)
	adminToken := s.login(t, "admin@elite.com", seed.DefaultPassword)

	res := s.do(t, "POST", "/api/products", `{"name":"Áo Khoác Len","description":"Len cashmere","price":1500000,"category":"men"}`, adminToken)
	require.Equal(t, fiber.StatusCreated, res.status, res.body)
	productID := res.body["data"].(map[string]interface{})["_id"].(string)

	body := `{
		"orderItems": [{"productId": "` + productID + `", "name": "Áo Khoác Len", "quantity": 1, "price": 1500000}],
		"shippingInfo": {"fullName": "Test User", "email": "user@elite.com", "phone": "0900000000", "address": "1 Lê Lợi", "city": "Hồ Chí Minh", "district": "Quận 1"},
		"paymentMethod": "bank",
		"itemsPrice": 1500000,
		"shippingPrice": 50000,
		"totalPrice": 1550000
	}`
	res = s.do(t, "POST", "/api/orders", body, userToken)
	require.Equal(t, fiber.StatusCreated, res.status, res.body)
	orderID := res.body["data"].(map[string]interface{})["_id"].(string)

	res = s.do(t, "PUT", "/api/products/"+productID, `{"price":990000,"name":"Áo Khoác Len Sale"}`, adminToken)
	require.Equal(t, fiber.StatusOK, res.status, res.body)
	assert.Equal(t, float64(990000), res.body["data"].(map[string]interface{})["price"])

	res = s.do(t, "GET", "/api/orders/"+orderID, "", userToken)
	require.Equal(t, fiber.StatusOK, res.status)
	items := res.body["data"].(map[string]interface{})["orderItems"].([]interface{})
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, productID, line["product"])
	assert.Equal(t, float64(1500000), line["price"])
	assert.Equal(t, "Áo Khoác Len", line["name"])
}

func TestOpenStores(t *testing.T) {
	cfg := testConfig()
	stores, err := OpenStores(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, stores.Driver)
	assert.NoError(t, stores.Close(context.Background()))

	cfg.Store.Driver = "sqlite"
	_, err = OpenStores(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
