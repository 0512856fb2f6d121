package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/elite-shop-backend/internal/order"
	"github.com/wichananm65/elite-shop-backend/internal/product"
	"github.com/wichananm65/elite-shop-backend/internal/user"
)

const (
	DefaultBaseURL = "http://localhost:5000/api"

	msgRequestFailed = "Có lỗi xảy ra"
)

// APIError is a non-success answer from the API.
type APIError struct {
	Status  int
	Message string
	Fields  []string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, "; ")
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
	Count   int             `json:"count"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Pages   int             `json:"pages"`
	Data    json.RawMessage `json:"data"`
}

// ProductList is one page of the public catalog.
type ProductList struct {
	Items []product.Product
	Count int
	Total int64
	Page  int
	Pages int
}

// Client talks to the REST API. Requests that need a login carry the token
// kept in the session.
type Client struct {
	baseURL string
	session *Session
	timeout time.Duration
}

func NewClient(baseURL string, session *Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		timeout: 30 * time.Second,
	}
}

func newAgent(method, target string) *fiber.Agent {
	switch method {
	case fiber.MethodPost:
		return fiber.Post(target)
	case fiber.MethodPut:
		return fiber.Put(target)
	case fiber.MethodDelete:
		return fiber.Delete(target)
	default:
		return fiber.Get(target)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, authed bool) (*envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := newAgent(method, c.baseURL+path)
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	a.Timeout(timeout)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	if authed {
		token, err := c.session.Token(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			a.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
	}
	if body != nil {
		a.JSON(body)
	}

	status, raw, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s %s: %w", method, path, errs[0])
	}

	env := new(envelope)
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, &APIError{Status: status, Message: msgRequestFailed}
	}
	if status >= fiber.StatusBadRequest || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = msgRequestFailed
		}
		return nil, &APIError{Status: status, Message: msg, Fields: env.Errors}
	}
	return env, nil
}

func (c *Client) call(ctx context.Context, method, path string, body interface{}, authed bool, out interface{}) error {
	env, err := c.do(ctx, method, path, body, authed)
	if err != nil {
		return err
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (Account, error) {
	var a Account
	if err := c.call(ctx, fiber.MethodPost, path, body, false, &a); err != nil {
		return Account{}, err
	}
	if a.Token != "" {
		if err := c.session.SignIn(ctx, a); err != nil {
			return Account{}, err
		}
	}
	return a, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (Account, error) {
	return c.authenticate(ctx, "/auth/register", fiber.Map{"name": name, "email": email, "password": password})
}

func (c *Client) Login(ctx context.Context, email, password string) (Account, error) {
	return c.authenticate(ctx, "/auth/login", fiber.Map{"email": email, "password": password})
}

func (c *Client) Logout(ctx context.Context) error {
	return c.session.SignOut(ctx)
}

func (c *Client) Me(ctx context.Context) (user.User, error) {
	var u user.User
	err := c.call(ctx, fiber.MethodGet, "/auth/me", nil, true, &u)
	return u, err
}

func productQuery(f product.Filter) string {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("category", f.Category)
	set("badge", f.Badge)
	set("search", f.Search)
	set("sort", f.Sort)
	if f.PriceMin != nil {
		q.Set("priceMin", strconv.FormatFloat(*f.PriceMin, 'f', -1, 64))
	}
	if f.PriceMax != nil {
		q.Set("priceMax", strconv.FormatFloat(*f.PriceMax, 'f', -1, 64))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) Products(ctx context.Context, f product.Filter) (ProductList, error) {
	env, err := c.do(ctx, fiber.MethodGet, "/products"+productQuery(f), nil, false)
	if err != nil {
		return ProductList{}, err
	}
	list := ProductList{Count: env.Count, Total: env.Total, Page: env.Page, Pages: env.Pages}
	if err := json.Unmarshal(env.Data, &list.Items); err != nil {
		return ProductList{}, fmt.Errorf("decode products: %w", err)
	}
	return list, nil
}

func (c *Client) Product(ctx context.Context, id string) (product.Product, error) {
	var p product.Product
	err := c.call(ctx, fiber.MethodGet, "/products/"+url.PathEscape(id), nil, false, &p)
	return p, err
}

func (c *Client) CreateProduct(ctx context.Context, in product.Input) (product.Product, error) {
	var p product.Product
	err := c.call(ctx, fiber.MethodPost, "/products", in, true, &p)
	return p, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in product.Input) (product.Product, error) {
	var p product.Product
	err := c.call(ctx, fiber.MethodPut, "/products/"+url.PathEscape(id), in, true, &p)
	return p, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.call(ctx, fiber.MethodDelete, "/products/"+url.PathEscape(id), nil, true, nil)
}

// ResetProducts replaces the catalog; nil loads the server's demo catalog.
func (c *Client) ResetProducts(ctx context.Context, products []product.Product) (int, error) {
	var body interface{}
	if products != nil {
		body = products
	}
	env, err := c.do(ctx, fiber.MethodPost, "/dev/reset-products", body, false)
	if err != nil {
		return 0, err
	}
	return env.Count, nil
}

func (c *Client) PlaceOrder(ctx context.Context, in order.CreateInput) (order.Order, error) {
	var o order.Order
	err := c.call(ctx, fiber.MethodPost, "/orders", in, true, &o)
	return o, err
}

func (c *Client) MyOrders(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	err := c.call(ctx, fiber.MethodGet, "/orders/myorders", nil, true, &orders)
	return orders, err
}

func (c *Client) AllOrders(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	err := c.call(ctx, fiber.MethodGet, "/orders", nil, true, &orders)
	return orders, err
}

func (c *Client) Order(ctx context.Context, id string) (order.Order, error) {
	var o order.Order
	err := c.call(ctx, fiber.MethodGet, "/orders/"+url.PathEscape(id), nil, true, &o)
	return o, err
}

func (c *Client) CancelOrder(ctx context.Context, id string) (order.Order, error) {
	var o order.Order
	err := c.call(ctx, fiber.MethodPut, "/orders/"+url.PathEscape(id)+"/cancel", nil, true, &o)
	return o, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, in order.StatusInput) (order.Order, error) {
	var o order.Order
	err := c.call(ctx, fiber.MethodPut, "/orders/"+url.PathEscape(id)+"/status", in, true, &o)
	return o, err
}
