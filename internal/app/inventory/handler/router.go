package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"almacen/pkg/logger"
	"almacen/pkg/metrics"
)

// SetupRoutes настраивает все маршруты Inventory Service
func SetupRoutes(inventoryHandler *InventoryHandler) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("inventory-service"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "inventory-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	categories := router.Group("/categorias")
	{
		categories.POST("", inventoryHandler.CreateCategory)
		categories.GET("", inventoryHandler.GetAllCategories)           // ?activas=bool
		categories.GET("/buscar", inventoryHandler.FindCategory)        // ?id= | ?nombre=
		categories.PUT("/:id", inventoryHandler.UpdateCategory)
		categories.PATCH("/:id/desactivar", inventoryHandler.DeactivateCategory) // каскадно снимает товары с продажи
		categories.PATCH("/:id/activar", inventoryHandler.ActivateCategory)
		categories.GET("/:id/productos", inventoryHandler.GetCategoryProducts)
		categories.DELETE("/:id", inventoryHandler.DeleteCategory) // семантика по INVENTORY_DELETE_MODE
	}

	products := router.Group("/productos")
	{
		products.POST("", inventoryHandler.CreateProduct)
		products.GET("", inventoryHandler.GetAllProducts) // ?categoria_id=&precio_min=&stock_min=&disponibles=
		products.GET("/buscar", inventoryHandler.FindProduct)
		products.PUT("/:id", inventoryHandler.UpdateProduct)
		products.PATCH("/:id/desactivar", inventoryHandler.DeactivateProduct)
		products.POST("/:id/comprar", inventoryHandler.PurchaseProduct) // ?cantidad=
		products.DELETE("/:id", inventoryHandler.DeleteProduct)
	}

	return router
}
