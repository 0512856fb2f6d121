// Package server assembles the Fiber application: middleware, error
// rendering and the /api routes of every domain package.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/wichananm65/elite-shop-backend/internal/apperr"
	"github.com/wichananm65/elite-shop-backend/internal/auth"
	"github.com/wichananm65/elite-shop-backend/internal/config"
	"github.com/wichananm65/elite-shop-backend/internal/logger"
	"github.com/wichananm65/elite-shop-backend/internal/order"
	"github.com/wichananm65/elite-shop-backend/internal/product"
	"github.com/wichananm65/elite-shop-backend/internal/seed"
	"github.com/wichananm65/elite-shop-backend/internal/user"
)

type Services struct {
	Users    *user.Service
	Products *product.Service
	Orders   *order.Service
	Issuer   *auth.Issuer
}

func NewServices(cfg *config.Config, stores *Stores, log *zap.Logger) Services {
	var userOpts []user.Option
	if cfg.Server.BcryptCost > 0 {
		userOpts = append(userOpts, user.WithHashCost(cfg.Server.BcryptCost))
	}
	return Services{
		Users:    user.NewService(stores.Users, log, userOpts...),
		Products: product.NewService(stores.Products, log),
		Orders:   order.NewService(stores.Orders, log),
		Issuer:   auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.Expire),
	}
}

// New builds the application. Middleware order: panic recovery, request
// logging, CORS.
func New(cfg *config.Config, log *zap.Logger, svc Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "elite-shop",
		ErrorHandler: apperr.Handler(log, !cfg.IsProduction()),
	})

	app.Use(recover.New())
	app.Use(logger.Middleware(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	guard := auth.NewGuard(svc.Issuer, svc.Users)
	protect := guard.Protect()
	admin := guard.AdminOnly()

	api := app.Group("/api")
	user.NewHandler(svc.Users, svc.Issuer).RegisterRoutes(api, protect)

	products := product.NewHandler(svc.Products)
	products.RegisterPublicRoutes(api)
	products.RegisterAdminRoutes(api, protect, admin)
	products.RegisterDevRoutes(api, cfg.Server.AllowResetProducts, seed.Products)

	order.NewHandler(svc.Orders).RegisterRoutes(api, protect, admin)

	return app
}
