package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quesarte/queseria-api/internal/application/auth"
	"github.com/quesarte/queseria-api/internal/application/ledger"
	"github.com/quesarte/queseria-api/internal/application/usecase"
	"github.com/quesarte/queseria-api/internal/domain/entity"
	"github.com/quesarte/queseria-api/internal/infrastructure/cache"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UnitUC        *ledger.UnitUseCase
	ElementUC     *ledger.ElementUseCase
	ProductUC     *usecase.ProductUseCase
	ProductTypeUC *usecase.ProductTypeUseCase
	ElementTypeUC *usecase.ElementTypeUseCase
	ReasonUC      *usecase.ReasonUseCase
	AlertUC       *usecase.AlertUseCase
	Cache         *cache.Cache
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth. Login es público; el alta de usuarios la hace un admin (el
	// primer admin se siembra con cmd/seed).
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleAdmin),
		authHandler.Register,
	)

	// Rutas protegidas (requieren Bearer Token). El caché de lecturas va
	// después del auth: nunca se sirve una respuesta sin validar el token.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Use(CacheMiddleware(deps.Cache))

	anyRole := RequireRole(entity.RoleAdmin, entity.RoleUser)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Units + partitions (ledger de peso)
	units := protected.Group("/units", anyRole)
	unitHandler := NewUnitHandler(deps.UnitUC)
	units.Post("/", unitHandler.Create)
	units.Get("/", unitHandler.List)
	units.Get("/:id", unitHandler.GetByID)
	units.Put("/:id", unitHandler.Update)
	units.Delete("/:id", adminOnly, unitHandler.Delete)
	units.Post("/:id/partitions", unitHandler.AddPartition)

	partitions := protected.Group("/partitions", anyRole)
	partitions.Get("/", unitHandler.ListPartitions)
	partitions.Put("/:id", unitHandler.UpdatePartition)

	// Elements + movements (ledger de conteo)
	elements := protected.Group("/elements", anyRole)
	elementHandler := NewElementHandler(deps.ElementUC)
	elements.Post("/", elementHandler.Create)
	elements.Get("/", elementHandler.List)
	elements.Get("/low-stock", elementHandler.BelowThreshold)
	elements.Get("/:id", elementHandler.GetByID)
	elements.Put("/:id", elementHandler.Update)
	elements.Delete("/:id", adminOnly, elementHandler.Delete)
	elements.Post("/:id/ingress", elementHandler.Ingress)
	elements.Post("/:id/egress", elementHandler.Egress)
	elements.Post("/:id/adjustment", elementHandler.Adjustment)
	elements.Get("/:id/movements", elementHandler.Movements)
	elements.Get("/:id/verify", elementHandler.Verify)

	// Products (catálogo)
	products := protected.Group("/products", anyRole)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Catálogos chicos
	catalogHandler := NewCatalogHandler(deps.ProductTypeUC, deps.ElementTypeUC, deps.ReasonUC)

	productTypes := protected.Group("/product-types", anyRole)
	productTypes.Post("/", catalogHandler.CreateProductType)
	productTypes.Get("/", catalogHandler.ListProductTypes)
	productTypes.Put("/:id", catalogHandler.UpdateProductType)
	productTypes.Delete("/:id", adminOnly, catalogHandler.DeleteProductType)

	elementTypes := protected.Group("/element-types", anyRole)
	elementTypes.Post("/", catalogHandler.CreateElementType)
	elementTypes.Get("/", catalogHandler.ListElementTypes)
	elementTypes.Put("/:id", catalogHandler.UpdateElementType)
	elementTypes.Delete("/:id", adminOnly, catalogHandler.DeactivateElementType)

	reasons := protected.Group("/reasons", anyRole)
	reasons.Post("/", adminOnly, catalogHandler.CreateReason)
	reasons.Get("/", catalogHandler.ListReasons)
	reasons.Delete("/:id", adminOnly, catalogHandler.DeactivateReason)

	// Alertas de stock (tablero)
	alerts := protected.Group("/alerts", anyRole)
	alertHandler := NewAlertHandler(deps.AlertUC)
	alerts.Get("/low-stock", alertHandler.LowStock)
}
