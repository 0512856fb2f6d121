package user

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/elite-shop-backend/internal/apperr"
	"github.com/wichananm65/elite-shop-backend/internal/auth"
)

type Handler struct {
	service *Service
	issuer  *auth.Issuer
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHandler(service *Service, issuer *auth.Issuer) *Handler {
	return &Handler{service: service, issuer: issuer}
}

func (h *Handler) RegisterRoutes(r fiber.Router, protect fiber.Handler) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Get("/auth/me", protect, h.me)
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperr.Validation(MsgRegisterFieldsMissing)
	}

	created, err := h.service.Register(c.UserContext(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		return err
	}

	data, err := h.withToken(created)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Đăng ký thành công",
		"data":    data,
	})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperr.Validation(MsgLoginFieldsMissing)
	}

	user, err := h.service.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	data, err := h.withToken(user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Đăng nhập thành công",
		"data":    data,
	})
}

func (h *Handler) me(c *fiber.Ctx) error {
	id, ok := auth.CurrentIdentity(c)
	if !ok {
		return apperr.Unauthorized(auth.MsgLoginRequired)
	}

	user, err := h.service.GetByID(c.UserContext(), id.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}

func (h *Handler) withToken(u User) (fiber.Map, error) {
	token, err := h.issuer.Issue(u.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return fiber.Map{
		"_id":   u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
		"token": token,
	}, nil
}
