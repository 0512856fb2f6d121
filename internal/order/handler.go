package order

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/elite-shop-backend/internal/apperr"
	"github.com/wichananm65/elite-shop-backend/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterRoutes mounts the order routes. /orders/myorders is registered
// ahead of /orders/:id so it is not captured as an id.
func (h *Handler) RegisterRoutes(r fiber.Router, protect, admin fiber.Handler) {
	r.Post("/orders", protect, h.createOrder)
	r.Get("/orders", protect, admin, h.getAllOrders)
	r.Get("/orders/myorders", protect, h.getMyOrders)
	r.Get("/orders/:id", protect, h.getOrder)
	r.Put("/orders/:id/status", protect, admin, h.updateStatus)
	r.Put("/orders/:id/cancel", protect, h.cancelOrder)
}

func requester(c *fiber.Ctx) (auth.Identity, error) {
	id, ok := auth.CurrentIdentity(c)
	if !ok {
		return auth.Identity{}, apperr.Unauthorized(auth.MsgLoginRequired)
	}
	return id, nil
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	who, err := requester(c)
	if err != nil {
		return err
	}

	payload := new(CreateInput)
	if err := c.BodyParser(payload); err != nil {
		return apperr.Validation(apperr.MsgInvalidData)
	}

	created, err := h.service.Create(c.UserContext(), who.ID, *payload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Đặt hàng thành công",
		"data":    created,
	})
}

func (h *Handler) getMyOrders(c *fiber.Ctx) error {
	who, err := requester(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListMine(c.UserContext(), who.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "count": len(orders), "data": orders})
}

func (h *Handler) getAllOrders(c *fiber.Ctx) error {
	who, err := requester(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListAll(c.UserContext(), who)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "count": len(orders), "data": orders})
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	who, err := requester(c)
	if err != nil {
		return err
	}

	o, err := h.service.Get(c.UserContext(), c.Params("id"), who)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": o})
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	who, err := requester(c)
	if err != nil {
		return err
	}

	payload := new(StatusInput)
	if err := c.BodyParser(payload); err != nil {
		return apperr.Validation(apperr.MsgInvalidData)
	}

	o, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), *payload, who)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cập nhật trạng thái thành công",
		"data":    o,
	})
}

func (h *Handler) cancelOrder(c *fiber.Ctx) error {
	who, err := requester(c)
	if err != nil {
		return err
	}

	o, err := h.service.Cancel(c.UserContext(), c.Params("id"), who)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Đã hủy đơn hàng",
		"data":    o,
	})
}
