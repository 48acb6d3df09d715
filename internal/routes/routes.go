package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/su413/storefront-golang/internal/handlers"
	"github.com/su413/storefront-golang/internal/middleware"
)

// CORSMiddleware tells the browser the configured storefront origin may
// send requests to us, Authorization header included.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight OPTIONS requests get an empty 204.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	// CORS must be the very first thing the router uses.
	router.Use(CORSMiddleware(h.Config.CORSOrigin))

	// Uploaded product images are served straight from disk.
	router.Static("/uploads", h.Config.UploadDir)

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		// --- Storefront Catalog (Public) ---
		v1.GET("/catalog", h.GetCatalog)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/categories", h.GetCategories)

		// --- Checkout (Guest or Logged In) ---
		v1.POST("/api/place-order", middleware.OptionalAuth(), h.PlaceOrder)

		// --- Payments (Public) ---
		v1.POST("/payment/bakong/initiate", h.CreateBakongPayment)
		v1.GET("/payment/bakong/status/:id", h.GetBakongPaymentStatus)
		v1.POST("/payment/callback/bakong", h.BakongCallback)
		v1.POST("/payment/checkout/create-order", h.CreateCheckoutOrder)
		v1.GET("/payment/checkout/status/:id", h.GetCheckoutOrderStatus)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware())
		{
			auth.GET("/orders", h.GetMyOrders)
			auth.GET("/orders/:id", h.GetOrderDetails)
		}

		// --- Admin Routes (Login + Admin Flag Required) ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin(h.DB))
		{
			admin.GET("/dashboard", h.GetDashboardStats)

			// Products
			admin.GET("/products", h.AdminListProducts)
			admin.POST("/products", h.CreateProduct)
			admin.GET("/products/:id", h.AdminGetProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)
			admin.POST("/products/:id/toggle-active", h.ToggleProductActive)
			admin.POST("/products/:id/toggle-featured", h.ToggleProductFeatured)
			admin.POST("/upload", h.UploadProductImage)

			// Categories
			admin.GET("/categories", h.AdminListCategories)
			admin.POST("/categories", h.CreateCategory)
			admin.PUT("/categories/:id", h.UpdateCategory)
			admin.DELETE("/categories/:id", h.DeleteCategory)
			admin.POST("/categories/:id/toggle", h.ToggleCategoryActive)

			// Orders
			admin.GET("/orders", h.AdminListOrders)
			admin.GET("/orders/:id", h.AdminGetOrder)
			admin.POST("/orders/:id/approve", h.ApproveOrder)
			admin.POST("/orders/:id/reject", h.RejectOrder)
			admin.POST("/orders/:id/process", h.ProcessOrder)
			admin.POST("/orders/:id/ship", h.ShipOrder)
			admin.POST("/orders/:id/deliver", h.DeliverOrder)
			admin.POST("/orders/:id/cancel", h.CancelOrder)
			admin.POST("/orders/:id/notes", h.UpdateOrderNotes)
		}
	}

	return router
}
