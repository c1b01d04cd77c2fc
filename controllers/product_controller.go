package controllers

import (
	"net/http"

	"sorveteria-service/catalog"
	"sorveteria-service/models"
	"sorveteria-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductController handles the public catalog reads and the admin CRUD
// surface.
type ProductController struct {
	productService services.ProductService
	validator      *RequestValidator
	cache          *CacheManager
}

func NewProductController(productService services.ProductService, cache *CacheManager) *ProductController {
	return &ProductController{
		productService: productService,
		validator:      NewRequestValidator(),
		cache:          cache,
	}
}

// GetCatalog handles GET /products (public).
func (pc *ProductController) GetCatalog(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, ok := pc.cache.GetCatalog(ctx); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, svcErr := pc.productService.ListCatalog(ctx)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	payload := map[string]interface{}{
		"products":   products,
		"categories": catalog.CategoryNames(products),
	}
	pc.cache.SetCatalogAsync(payload)
	c.JSON(http.StatusOK, payload)
}

// GetProduct handles GET /products/:id (public).
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	product, svcErr := pc.productService.GetProduct(c.Request.Context(), id)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct handles POST /admin/products (multipart, bearer auth).
func (pc *ProductController) CreateProduct(c *gin.Context) {
	req, image, err := pc.validator.ValidateCreateProduct(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, svcErr := pc.productService.CreateProduct(c.Request.Context(), req, image)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	pc.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct handles PATCH /admin/products/:id (JSON or multipart).
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	req, image, err := pc.validator.ValidateUpdateProduct(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, svcErr := pc.productService.UpdateProduct(c.Request.Context(), id, req, image)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	pc.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct handles DELETE /admin/products/:id.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	if svcErr := pc.productService.DeleteProduct(c.Request.Context(), id); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	pc.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// DecrementStock handles POST /products/:id/decrement (public, trusted
// client).
func (pc *ProductController) DecrementStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var req models.DecrementStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := pc.productService.DecrementStock(c.Request.Context(), id, req.Quantity); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	pc.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated"})
}
