package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"sorveteria-service/catalog"
	"sorveteria-service/models"
	"sorveteria-service/pricing"
	"sorveteria-service/repository"
	"sorveteria-service/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultCategory is linked when a product is created without any category.
const DefaultCategory = "Geral"

// ProductService defines the business logic for catalog reads and the admin
// CRUD surface.
type ProductService interface {
	ListCatalog(ctx context.Context) ([]catalog.Product, *ServiceError)
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, *ServiceError)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest, image *multipart.FileHeader) (*catalog.Product, *ServiceError)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest, image *multipart.FileHeader) (*catalog.Product, *ServiceError)
	DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) *ServiceError
}

type productServiceImpl struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	store        storage.ObjectStorage
	aggregator   *catalog.Aggregator
	logger       *zap.Logger
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	store storage.ObjectStorage,
	logger *zap.Logger,
) ProductService {
	return &productServiceImpl{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		store:        store,
		aggregator:   catalog.NewAggregator(store.PublicBaseURL()),
		logger:       logger,
	}
}

func (s *productServiceImpl) ListCatalog(ctx context.Context) ([]catalog.Product, *ServiceError) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: err.Error()}
	}
	return s.aggregator.FlattenAll(products), nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, *ServiceError) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to fetch product", zap.String("id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: err.Error()}
	}
	out := s.aggregator.Flatten(product)
	return &out, nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req *models.CreateProductRequest, image *multipart.FileHeader) (*catalog.Product, *ServiceError) {
	price, ok := pricing.Normalize(req.Price)
	if !ok {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid price"}
	}
	original, hasOriginal := pricing.Normalize(req.OriginalPrice)
	if !hasOriginal {
		original = price
	}

	stock := 0
	if req.Stock != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(req.Stock), 64)
		if err != nil {
			return nil, &ServiceError{StatusCode: 400, Message: "Invalid stock"}
		}
		stock = catalog.CoerceStock(f)
	}

	imageKey, svcErr := s.storeImage(ctx, image)
	if svcErr != nil {
		return nil, svcErr
	}

	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         pricing.Round2(price),
		OriginalPrice: pricing.Round2(original),
		ImageKey:      imageKey,
		Stock:         stock,
		IsNew:         parseFlag(req.IsNew),
		IsBestSeller:  parseFlag(req.IsBestSeller),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to insert product", zap.String("name", req.Name), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: err.Error()}
	}

	names := parseCategoryNames(req.Categories)
	if len(names) == 0 {
		names = []string{DefaultCategory}
	}
	s.linkCategories(ctx, product, names)

	out := s.aggregator.Flatten(product)
	return &out, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest, image *multipart.FileHeader) (*catalog.Product, *ServiceError) {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: err.Error()}
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		price, ok := pricing.Normalize(*req.Price)
		if !ok {
			return nil, &ServiceError{StatusCode: 400, Message: "Invalid price"}
		}
		updates["price"] = pricing.Round2(price)
	}
	if req.OriginalPrice != nil {
		original, ok := pricing.Normalize(*req.OriginalPrice)
		if !ok {
			return nil, &ServiceError{StatusCode: 400, Message: "Invalid original price"}
		}
		updates["original_price"] = pricing.Round2(original)
	}
	if req.Stock != nil {
		updates["stock"] = catalog.CoerceStock(*req.Stock)
	}
	if req.IsNew != nil {
		updates["is_new"] = *req.IsNew
	}
	if req.IsBestSeller != nil {
		updates["is_best_seller"] = *req.IsBestSeller
	}

	newImageKey := ""
	if image != nil {
		imageKey, svcErr := s.storeImage(ctx, image)
		if svcErr != nil {
			return nil, svcErr
		}
		newImageKey = imageKey
		updates["image_key"] = imageKey
	}

	if len(updates) > 0 {
		if err := s.productRepo.Update(ctx, id, updates); err != nil {
			s.logger.Error("Failed to update product", zap.String("id", id.String()), zap.Error(err))
			// The row still references the old object; drop the orphaned
			// upload instead.
			if newImageKey != "" {
				s.removeStoredImage(ctx, newImageKey)
			}
			return nil, &ServiceError{StatusCode: 500, Message: err.Error()}
		}
	}

	// Only after the row points at the new object is the old one removed.
	if newImageKey != "" {
		s.removeStoredImage(ctx, existing.ImageKey)
	}

	if req.Categories != nil {
		s.linkCategories(ctx, existing, *req.Categories)
	}

	updated, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: err.Error()}
	}
	out := s.aggregator.Flatten(updated)
	return &out, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		return &ServiceError{StatusCode: 500, Message: err.Error()}
	}

	// Stored image removal is best-effort; the row goes away regardless.
	s.removeStoredImage(ctx, existing.ImageKey)

	if err := s.productRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product", zap.String("id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: err.Error()}
	}
	return nil
}

func (s *productServiceImpl) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) *ServiceError {
	if err := s.productRepo.DecrementStock(ctx, id, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to decrement stock", zap.String("id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: err.Error()}
	}
	return nil
}

// storeImage transcodes the upload to JPEG and pushes it to object storage,
// returning the storage key.
func (s *productServiceImpl) storeImage(ctx context.Context, image *multipart.FileHeader) (string, *ServiceError) {
	file, err := image.Open()
	if err != nil {
		return "", &ServiceError{StatusCode: 400, Message: "Failed to read image upload"}
	}
	defer file.Close()

	data, err := storage.TranscodeJPEG(file, storage.MaxImageDimension, storage.JPEGQuality)
	if err != nil {
		return "", &ServiceError{StatusCode: 400, Message: "Unsupported or corrupt image"}
	}

	key := fmt.Sprintf("products/%s.jpg", uuid.New().String())
	if _, err := s.store.Upload(ctx, key, bytes.NewReader(data), "image/jpeg"); err != nil {
		s.logger.Error("Image upload failed", zap.String("key", key), zap.Error(err))
		return "", &ServiceError{StatusCode: 500, Message: err.Error()}
	}
	return key, nil
}

// removeStoredImage deletes an owned object, logging failures. Absolute URLs
// point outside our bucket and are left alone.
func (s *productServiceImpl) removeStoredImage(ctx context.Context, key string) {
	if key == "" || strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to remove stored image", zap.String("key", key), zap.Error(err))
	}
}

// linkCategories upserts the named categories and swaps the association set.
// Linkage is best-effort: failures are logged and never abort the product
// mutation itself.
func (s *productServiceImpl) linkCategories(ctx context.Context, product *models.Product, names []string) {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if t := strings.TrimSpace(name); t != "" {
			cleaned = append(cleaned, t)
		}
	}

	// Resolve known categories in one query; only unseen names get upserted.
	byName := make(map[string]models.Category)
	existing, err := s.categoryRepo.FindByNames(ctx, cleaned)
	if err != nil {
		s.logger.Warn("Category lookup failed",
			zap.String("product_id", product.ID.String()),
			zap.Error(err))
	}
	for _, cat := range existing {
		byName[cat.Name] = cat
	}

	categories := make([]models.Category, 0, len(cleaned))
	for _, name := range cleaned {
		if cat, ok := byName[name]; ok {
			categories = append(categories, cat)
			continue
		}
		cat, err := s.categoryRepo.UpsertByName(ctx, name)
		if err != nil {
			s.logger.Warn("Category upsert failed",
				zap.String("product_id", product.ID.String()),
				zap.String("category", name),
				zap.Error(err))
			continue
		}
		categories = append(categories, *cat)
	}

	if err := s.productRepo.ReplaceCategories(ctx, product.ID, categories); err != nil {
		s.logger.Warn("Category linkage failed",
			zap.String("product_id", product.ID.String()),
			zap.Error(err))
		return
	}
	product.Categories = categories
}

func parseCategoryNames(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		// Accept a plain comma-separated list as well.
		names = strings.Split(raw, ",")
	}
	out := names[:0]
	for _, n := range names {
		if t := strings.TrimSpace(n); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseFlag(raw string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && b
}
