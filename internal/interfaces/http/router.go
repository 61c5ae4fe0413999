package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/maintenance"
	"github.com/jhoicas/almacen-api/internal/application/orders"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	OrdersUC      *orders.UseCase
	StockUC       *stock.UseCase
	MaintenanceUC *maintenance.UseCase
	ArticleRepo   repository.ArticleRepository
	LocationRepo  repository.LocationRepository
	JWTSecret     string
}

// Router registra las rutas de la API. La autorización fina por sede (lista de
// responsables) vive en los casos de uso; aquí solo JWT y RBAC de rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: login público, registro solo-admin
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), RequireAdmin(), authHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de artículos (mutaciones solo-admin)
	articles := protected.Group("/articles")
	articleHandler := NewArticleHandler(deps.ArticleRepo)
	articles.Get("/", articleHandler.List)
	articles.Get("/:id", articleHandler.GetByID)
	articles.Post("/", RequireAdmin(), articleHandler.Create)
	articles.Put("/:id", RequireAdmin(), articleHandler.Update)

	// Sedes (mutaciones solo-admin)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationRepo)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Post("/", RequireAdmin(), locationHandler.Create)
	locations.Put("/:id", RequireAdmin(), locationHandler.Update)

	// Libro de stock de una sede
	stockHandler := NewStockHandler(deps.StockUC, deps.ArticleRepo)
	locations.Get("/:id/stock", stockHandler.GetStock)
	locations.Post("/:id/receipts", stockHandler.RegisterReceipt)
	locations.Post("/:id/writeoffs", stockHandler.WriteOff)
	protected.Post("/writeoffs/:id/cancel", stockHandler.CancelWriteOff)

	// Pedidos
	orderHandler := NewOrderHandler(deps.OrdersUC)
	ordersGroup := protected.Group("/orders")
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Post("/:id/ship", orderHandler.Ship)
	ordersGroup.Post("/:id/receive", orderHandler.Receive)
	ordersGroup.Post("/:id/cancel", orderHandler.Cancel)
	locations.Get("/:id/orders", orderHandler.ListByLocation)

	// Mantenimiento de hardware
	maintenanceHandler := NewMaintenanceHandler(deps.MaintenanceUC)
	protected.Get("/maintenance/due", maintenanceHandler.DueList)
}
