package controllers

import (
	"net/http"

	"sorveteria-service/services"

	"github.com/gin-gonic/gin"
)

// CategoryController serves the navigation category list.
type CategoryController struct {
	categoryService services.CategoryService
}

func NewCategoryController(categoryService services.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// GetCategories handles GET /categories (public).
func (cc *CategoryController) GetCategories(c *gin.Context) {
	categories, svcErr := cc.categoryService.ListCategories(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
