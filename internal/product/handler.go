package product

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/elite-shop-backend/internal/apperr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/products", h.getProducts)
	r.Get("/products/:id", h.getProduct)
}

// RegisterAdminRoutes mounts the write routes behind the given guards.
func (h *Handler) RegisterAdminRoutes(r fiber.Router, guards ...fiber.Handler) {
	chain := func(handler fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guards...), handler)
	}
	r.Post("/products", chain(h.createProduct)...)
	r.Put("/products/:id", chain(h.updateProduct)...)
	r.Delete("/products/:id", chain(h.deleteProduct)...)
}

// RegisterDevRoutes mounts the catalog reset endpoint. It answers 403 unless
// enabled; defaults are used when the body is not a product list.
func (h *Handler) RegisterDevRoutes(r fiber.Router, enabled bool, defaults func() []Product) {
	r.Post("/dev/reset-products", func(c *fiber.Ctx) error {
		if !enabled {
			return apperr.Forbidden("reset not allowed")
		}

		var products []Product
		var body []resetItem
		if err := c.BodyParser(&body); err != nil {
			products = defaults()
		} else {
			products = make([]Product, 0, len(body))
			for _, item := range body {
				products = append(products, item.product())
			}
		}

		out, err := h.service.Reset(c.UserContext(), products)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "count": len(out), "data": out})
	})
}

// resetItem is one product of a posted catalog. Omitted fields take the
// same defaults as a create, so a product without isActive is listed.
type resetItem struct {
	ID string `json:"_id"`
	Input
}

func (r resetItem) product() Product {
	p := Product{ID: r.ID, IsActive: true}
	r.Input.applyTo(&p)
	return p
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(page.Items),
		"total":   page.Total,
		"page":    page.Page,
		"pages":   page.Pages,
		"data":    page.Items,
	})
}

func parseFilter(c *fiber.Ctx) (Filter, error) {
	f := Filter{
		Category: c.Query("category"),
		Badge:    c.Query("badge"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     atoiOrZero(c.Query("page")),
		Limit:    atoiOrZero(c.Query("limit")),
	}

	var err error
	if f.PriceMin, err = parsePrice(c.Query("priceMin")); err != nil {
		return Filter{}, err
	}
	if f.PriceMax, err = parsePrice(c.Query("priceMax")); err != nil {
		return Filter{}, err
	}
	return f, nil
}

func parsePrice(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validation(MsgInvalidPrice)
	}
	return &v, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": p})
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	in := new(Input)
	if err := c.BodyParser(in); err != nil {
		return apperr.Validation(apperr.MsgInvalidData)
	}

	p, err := h.service.Create(c.UserContext(), *in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Tạo sản phẩm thành công",
		"data":    p,
	})
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	in := new(Input)
	if err := c.BodyParser(in); err != nil {
		return apperr.Validation(apperr.MsgInvalidData)
	}

	p, err := h.service.Update(c.UserContext(), c.Params("id"), *in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cập nhật sản phẩm thành công",
		"data":    p,
	})
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Xóa sản phẩm thành công"})
}
