package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/cache"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/handlers"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/services"
)

// Dependencies are the long-lived collaborators the routes are built from.
type Dependencies struct {
	Store       repository.Store
	Revocations cache.RevocationStore
	Notifier    services.OrderNotifier
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, deps Dependencies, cfg *config.Config) {
	addressResolver := services.NewAddressResolver(deps.Store)
	authService := services.NewAuthService(deps.Store, deps.Revocations, cfg)
	catalogService := services.NewCatalogService(deps.Store)

	authHandler := handlers.NewAuthHandler(authService, cfg)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	productHandler := handlers.NewProductHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(services.NewOrderService(deps.Store, addressResolver, deps.Notifier))
	profileHandler := handlers.NewProfileHandler(services.NewProfileService(deps.Store, addressResolver))
	paymentHandler := handlers.NewPaymentHandler(services.NewPaymentService(deps.Store))

	requireAuth := middleware.AuthMiddleware(authService)
	requireStaff := middleware.RequireStaff()

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := deps.Store.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "status": "unavailable"})
		}
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/token/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	// Catalog routes
	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Post("/", requireAuth, requireStaff, catalogHandler.CreateCategory)
	categories.Put("/:id", requireAuth, requireStaff, catalogHandler.UpdateCategory)
	categories.Delete("/:id", requireAuth, requireStaff, catalogHandler.DeleteCategory)

	subcategories := api.Group("/subcategories")
	subcategories.Get("/", catalogHandler.ListSubCategories)
	subcategories.Get("/:id", catalogHandler.GetSubCategory)
	subcategories.Post("/", requireAuth, requireStaff, catalogHandler.CreateSubCategory)
	subcategories.Put("/:id", requireAuth, requireStaff, catalogHandler.UpdateSubCategory)
	subcategories.Delete("/:id", requireAuth, requireStaff, catalogHandler.DeleteSubCategory)

	// Products
	products := api.Group("/products")
	productHandler.RegisterProductRoutes(products, requireAuth)

	// Protected routes
	protected := api.Group("", requireAuth)

	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Delete("/orders/:id", orderHandler.DeleteOrder)

	protected.Post("/payments", paymentHandler.CreatePayment)
	protected.Get("/payments", paymentHandler.ListPayments)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Get("/profile/addresses", profileHandler.ListAddresses)
	protected.Post("/profile/addresses", profileHandler.CreateAddress)
	protected.Put("/profile/addresses/:id", profileHandler.UpdateAddress)
	protected.Delete("/profile/addresses/:id", profileHandler.DeleteAddress)
}
