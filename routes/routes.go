package routes

import (
	"sorveteria-service/controllers"
	"sorveteria-service/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the public storefront surface and the bearer-token
// protected admin surface.
func RegisterRoutes(
	r *gin.Engine,
	jwtSecret string,
	productController *controllers.ProductController,
	categoryController *controllers.CategoryController,
	checkoutController *controllers.CheckoutController,
) {
	products := r.Group("/products")
	{
		products.GET("", productController.GetCatalog)
		products.GET("/:id", productController.GetProduct)
		products.POST("/:id/decrement", productController.DecrementStock)
	}

	r.GET("/categories", categoryController.GetCategories)
	r.POST("/checkout", checkoutController.Checkout)

	admin := r.Group("/admin", middleware.AuthMiddleware(jwtSecret))
	{
		admin.POST("/products", productController.CreateProduct)
		admin.PATCH("/products/:id", productController.UpdateProduct)
		admin.DELETE("/products/:id", productController.DeleteProduct)
	}
}
