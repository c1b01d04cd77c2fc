package repository

import (
	"context"

	"sorveteria-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository defines the data access surface for categories.
type CategoryRepository interface {
	UpsertByName(ctx context.Context, name string) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByNames(ctx context.Context, names []string) ([]models.Category, error)
}

// GormCategoryRepository implements CategoryRepository using GORM.
type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

// UpsertByName inserts the category if the unique name is unseen and returns
// the stored row either way.
func (r *GormCategoryRepository) UpsertByName(ctx context.Context, name string) (*models.Category, error) {
	cat := models.Category{Name: name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&cat).Error
	if err != nil {
		return nil, err
	}

	// On conflict the insert is skipped and no ID comes back; reload by name.
	var stored models.Category
	if err := r.db.WithContext(ctx).First(&stored, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *GormCategoryRepository) FindByNames(ctx context.Context, names []string) ([]models.Category, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var categories []models.Category
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&categories).Error
	return categories, err
}
