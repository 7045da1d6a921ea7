package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/okeetropics/internal/config"
	"github.com/example/okeetropics/internal/handlers"
	"github.com/example/okeetropics/internal/metrics"
	"github.com/example/okeetropics/internal/middleware"
	"github.com/example/okeetropics/internal/models"
	"github.com/example/okeetropics/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, collector *metrics.Collector) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	authHandler := handlers.NewAuthHandler(db, cfg, collector)
	articleHandler := handlers.NewArticleHandler(db)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db, telegramService, collector)
	userHandler := handlers.NewUserHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	authenticated := middleware.Authenticate(cfg)
	adminOnly := middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin)
	superAdminOnly := middleware.RequireRole(models.RoleSuperAdmin)

	api := app.Group("/api")

	// Auth routes, rate limited per client IP
	authLimiter := middleware.NewRateLimiter(30)
	auth := api.Group("/auth", authLimiter.Handler())
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Articles: reads are public, writes need an admin role
	articles := api.Group("/articles")
	articles.Get("/", articleHandler.ListArticles)
	articles.Get("/:id", articleHandler.GetArticle)
	articles.Post("/", authenticated, adminOnly, articleHandler.CreateArticle)
	articles.Put("/:id", authenticated, adminOnly, articleHandler.UpdateArticle)
	articles.Delete("/:id", authenticated, adminOnly, articleHandler.DeleteArticle)

	// Products: same split as articles
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Post("/", authenticated, adminOnly, productHandler.CreateProduct)
	products.Put("/:id", authenticated, adminOnly, productHandler.UpdateProduct)
	products.Delete("/:id", authenticated, adminOnly, productHandler.DeleteProduct)

	// Orders: all operations need authentication, admin subset needs role
	orders := api.Group("/orders", authenticated)
	orders.Get("/admin", adminOnly, orderHandler.ListAdminOrders)
	orders.Get("/my-orders", orderHandler.ListMyOrders)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Put("/:id", adminOnly, orderHandler.UpdateOrderStatus)
	orders.Delete("/:id", adminOnly, orderHandler.DeleteOrder)

	// User administration console
	users := api.Group("/users", authenticated, superAdminOnly)
	users.Get("/", userHandler.ListUsers)
	users.Get("/:id", userHandler.GetUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)

	// Profile and dashboard
	api.Get("/profile", authenticated, profileHandler.GetProfile)
	api.Put("/profile", authenticated, profileHandler.UpdateProfile)
	api.Get("/admin/stats", authenticated, adminOnly, adminHandler.DashboardStats)
}
