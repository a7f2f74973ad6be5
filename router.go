package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type application struct {
	db  *gorm.DB
	cfg Config
}

// SetupRouter wires every route onto a gin engine. The storage handle and
// configuration are passed in explicitly so tests can run the full router
// against an in-memory database.
func SetupRouter(db *gorm.DB, cfg Config) *gin.Engine {
	app := &application{db: db, cfg: cfg}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		abortError(c, http.StatusInternalServerError, CodeUnknown, "Internal server error")
	}))
	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, CodeNotFound, "Route not found")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static(uploadsRoute, cfg.UploadsDir)

	api := r.Group(cfg.APIPrefix)

	categories := api.Group("/categories")
	categories.GET("", app.listCategories)
	categories.GET("/:id", app.getCategory)
	categories.POST("", app.requireAdmin(), app.createCategory)
	categories.PUT("/:id", app.requireAdmin(), app.updateCategory)
	categories.DELETE("/:id", app.requireAdmin(), app.deleteCategory)

	products := api.Group("/products")
	products.GET("", app.listProducts)
	products.GET("/brief", app.listProductsBrief)
	products.GET("/:id", app.getProduct)
	products.GET("/brief/:id", app.getProductBrief)
	products.GET("/get/count", app.countProducts)
	products.GET("/get/featured", app.listFeaturedProducts)
	products.GET("/get/featured/:count", app.listFeaturedProducts)
	products.POST("", app.requireAdmin(), app.createProduct)
	products.PUT("/:id", app.requireAdmin(), app.updateProduct)
	products.PUT("/:id/gallery", app.requireAdmin(), app.updateProductGallery)
	products.DELETE("/:id", app.requireAdmin(), app.deleteProduct)

	orders := api.Group("/orders")
	orders.GET("", app.requireAdmin(), app.listOrders)
	orders.GET("/:id", app.optionalAuth(), app.getOrder)
	orders.GET("/get/user/:id", app.optionalAuth(), app.listUserOrders)
	orders.GET("/get/count", app.requireAdmin(), app.countOrders)
	orders.GET("/get/totalsales", app.requireAdmin(), app.totalSales)
	orders.POST("", app.optionalAuth(), app.createOrder)
	orders.POST("/:id/set/status/:status", app.requireAdmin(), app.setOrderStatus)
	orders.PUT("/:id", app.requireAdmin(), app.updateOrder)
	orders.DELETE("/:id", app.requireAdmin(), app.deleteOrder)

	users := api.Group("/users")
	users.GET("", app.requireAdmin(), app.listUsers)
	users.GET("/:id", app.optionalAuth(), app.getUser)
	users.GET("/get/count", app.requireAdmin(), app.countUsers)
	users.POST("", app.requireAdmin(), app.registerUser)
	users.POST("/register", app.registerUser)
	users.PUT("/:id", app.requireAdmin(), app.updateUser)
	users.DELETE("/:id", app.requireAdmin(), app.deleteUser)
	users.POST("/login", app.optionalAuth(), app.login)
	users.POST("/change/password", app.changePassword)

	return r
}
