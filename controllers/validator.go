package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"sorveteria-service/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	// MaxUploadSize caps the multipart body for admin mutations.
	MaxUploadSize = 20 * 1024 * 1024 // 20MB
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// RequestValidator validates admin payloads at the boundary, before any
// field is acted on.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// ValidateCreateProduct parses the multipart create payload. Name, price and
// image are required.
func (rv *RequestValidator) ValidateCreateProduct(c *gin.Context) (*models.CreateProductRequest, *multipart.FileHeader, error) {
	if err := c.Request.ParseMultipartForm(MaxUploadSize); err != nil {
		return nil, nil, errors.New("invalid multipart form")
	}

	var req models.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		return nil, nil, fmt.Errorf("invalid form fields: %w", err)
	}
	if err := rv.validate.Struct(&req); err != nil {
		return nil, nil, firstValidationError(err)
	}

	image, err := c.FormFile("image")
	if err != nil {
		return nil, nil, errors.New("image is required")
	}
	if err := rv.validateImage(image); err != nil {
		return nil, nil, err
	}

	return &req, image, nil
}

// ValidateUpdateProduct parses a partial update from either a JSON body or a
// multipart form (when a new image rides along).
func (rv *RequestValidator) ValidateUpdateProduct(c *gin.Context) (*models.UpdateProductRequest, *multipart.FileHeader, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var req models.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		return &req, nil, nil
	}

	if err := c.Request.ParseMultipartForm(MaxUploadSize); err != nil {
		return nil, nil, errors.New("invalid multipart form")
	}

	req := &models.UpdateProductRequest{}
	if v, ok := c.GetPostForm("name"); ok {
		req.Name = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		req.Description = &v
	}
	if v, ok := c.GetPostForm("price"); ok {
		req.Price = &v
	}
	if v, ok := c.GetPostForm("original_price"); ok {
		req.OriginalPrice = &v
	}
	if v, ok := c.GetPostForm("stock"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, nil, errors.New("invalid stock value")
		}
		req.Stock = &f
	}
	if v, ok := c.GetPostForm("is_new"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, nil, errors.New("invalid is_new value")
		}
		req.IsNew = &b
	}
	if v, ok := c.GetPostForm("is_best_seller"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, nil, errors.New("invalid is_best_seller value")
		}
		req.IsBestSeller = &b
	}
	if v, ok := c.GetPostForm("categories"); ok {
		var names []string
		if err := json.Unmarshal([]byte(v), &names); err != nil {
			return nil, nil, errors.New("categories must be a JSON string array")
		}
		req.Categories = &names
	}

	image, err := c.FormFile("image")
	if err == nil {
		if err := rv.validateImage(image); err != nil {
			return nil, nil, err
		}
		return req, image, nil
	}
	return req, nil, nil
}

func (rv *RequestValidator) validateImage(image *multipart.FileHeader) error {
	if image.Size > MaxUploadSize {
		return errors.New("image exceeds the maximum upload size")
	}
	contentType := image.Header.Get("Content-Type")
	if contentType != "" && !allowedImageTypes[contentType] {
		return fmt.Errorf("unsupported image type %q", contentType)
	}
	return nil
}

func firstValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("missing or invalid field: %s", strings.ToLower(verrs[0].Field()))
	}
	return err
}
