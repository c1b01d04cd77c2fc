package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"testing"

	"sorveteria-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Fakes ---

type fakeProductRepo struct {
	products  map[uuid.UUID]*models.Product
	links     map[uuid.UUID][]models.Category
	replaces  int
	updateErr error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: make(map[uuid.UUID]*models.Product),
		links:    make(map[uuid.UUID][]models.Category),
	}
}

func (f *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	copied.Categories = f.links[id]
	return &copied, nil
}

func (f *fakeProductRepo) FindAll(_ context.Context) ([]models.Product, error) {
	var out []models.Product
	for id, p := range f.products {
		copied := *p
		copied.Categories = f.links[id]
		out = append(out, copied)
	}
	return out, nil
}

func (f *fakeProductRepo) Update(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "name":
			p.Name = v.(string)
		case "description":
			p.Description = v.(string)
		case "price":
			p.Price = v.(float64)
		case "original_price":
			p.OriginalPrice = v.(float64)
		case "stock":
			p.Stock = v.(int)
		case "is_new":
			p.IsNew = v.(bool)
		case "is_best_seller":
			p.IsBestSeller = v.(bool)
		case "image_key":
			p.ImageKey = v.(string)
		}
	}
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.products, id)
	delete(f.links, id)
	return nil
}

func (f *fakeProductRepo) ReplaceCategories(_ context.Context, id uuid.UUID, cats []models.Category) error {
	f.replaces++
	f.links[id] = cats
	return nil
}

func (f *fakeProductRepo) DecrementStock(_ context.Context, id uuid.UUID, qty int) error {
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock -= qty
	if p.Stock < 0 {
		p.Stock = 0
	}
	return nil
}

type fakeCategoryRepo struct {
	byName  map[string]*models.Category
	upserts int
	failAll bool
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byName: make(map[string]*models.Category)}
}

func (f *fakeCategoryRepo) UpsertByName(_ context.Context, name string) (*models.Category, error) {
	f.upserts++
	if f.failAll {
		return nil, fmt.Errorf("category store unavailable")
	}
	if c, ok := f.byName[name]; ok {
		return c, nil
	}
	c := &models.Category{ID: uuid.New(), Name: name, Slug: models.Slugify(name)}
	f.byName[name] = c
	return c, nil
}

func (f *fakeCategoryRepo) FindAll(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.byName {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) FindByNames(_ context.Context, names []string) ([]models.Category, error) {
	var out []models.Category
	for _, n := range names {
		if c, ok := f.byName[n]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeStorage struct {
	uploaded []string
	deleted  []string
}

func (f *fakeStorage) Upload(_ context.Context, key string, _ io.Reader, _ string) (string, error) {
	f.uploaded = append(f.uploaded, key)
	return f.PublicBaseURL() + "/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) PublicBaseURL() string {
	return "https://storage.test/sorveteria"
}

// --- Helpers ---

func imageFileHeader(t *testing.T) *multipart.FileHeader {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for x := 0; x < 40; x++ {
		for y := 0; y < 40; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, img))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "sorvete.png")
	require.NoError(t, err)
	_, err = part.Write(imgBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["image"][0]
}

func newTestProductService(pr *fakeProductRepo, cr *fakeCategoryRepo, st *fakeStorage) ProductService {
	logger, _ := zap.NewDevelopment()
	return NewProductService(pr, cr, st, logger)
}

// --- Tests ---

func TestCreateProduct_NormalizesPriceAndDefaultsCategory(t *testing.T) {
	pr := newFakeProductRepo()
	cr := newFakeCategoryRepo()
	st := &fakeStorage{}
	svc := newTestProductService(pr, cr, st)

	req := &models.CreateProductRequest{
		Name:  "Sorvete Teste",
		Price: "12,90",
		Stock: "5",
	}

	out, svcErr := svc.CreateProduct(context.Background(), req, imageFileHeader(t))
	require.Nil(t, svcErr)

	assert.Equal(t, 12.9, out.Price)
	assert.Equal(t, 12.9, out.OriginalPrice) // falls back to price
	assert.Equal(t, 5, out.Stock)
	assert.NotEmpty(t, out.Image)
	assert.Equal(t, []string{DefaultCategory}, out.Categories)
	assert.Len(t, st.uploaded, 1)
}

func TestCreateProduct_InvalidPrice(t *testing.T) {
	svc := newTestProductService(newFakeProductRepo(), newFakeCategoryRepo(), &fakeStorage{})

	req := &models.CreateProductRequest{Name: "Picolé", Price: "abc"}
	_, svcErr := svc.CreateProduct(context.Background(), req, imageFileHeader(t))
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestCreateProduct_CategoryFailureDoesNotAbort(t *testing.T) {
	pr := newFakeProductRepo()
	cr := newFakeCategoryRepo()
	cr.failAll = true
	svc := newTestProductService(pr, cr, &fakeStorage{})

	req := &models.CreateProductRequest{Name: "Açaí", Price: "10,00", Categories: `["Açaí"]`}
	out, svcErr := svc.CreateProduct(context.Background(), req, imageFileHeader(t))
	require.Nil(t, svcErr)
	assert.Empty(t, out.Categories)
	assert.Len(t, pr.products, 1)
}

func TestLinkCategories_ResolvesKnownNamesWithoutUpsert(t *testing.T) {
	pr := newFakeProductRepo()
	cr := newFakeCategoryRepo()
	svc := newTestProductService(pr, cr, &fakeStorage{})

	_, err := cr.UpsertByName(context.Background(), "Geral")
	require.NoError(t, err)
	cr.upserts = 0

	id := uuid.New()
	pr.products[id] = &models.Product{ID: id, Name: "Sorvete", Price: 10}

	names := []string{"Geral", "Picolés"}
	req := &models.UpdateProductRequest{Categories: &names}
	out, svcErr := svc.UpdateProduct(context.Background(), id, req, nil)
	require.Nil(t, svcErr)
	assert.ElementsMatch(t, []string{"Geral", "Picolés"}, out.Categories)
	assert.Equal(t, 1, cr.upserts) // only the unseen name
}

func TestUpdateProduct_ReplacesCategoriesWithEmptyList(t *testing.T) {
	pr := newFakeProductRepo()
	cr := newFakeCategoryRepo()
	svc := newTestProductService(pr, cr, &fakeStorage{})

	id := uuid.New()
	pr.products[id] = &models.Product{ID: id, Name: "Sorvete", Price: 10}
	geral, _ := cr.UpsertByName(context.Background(), "Geral")
	pr.links[id] = []models.Category{*geral}

	empty := []string{}
	req := &models.UpdateProductRequest{Categories: &empty}
	out, svcErr := svc.UpdateProduct(context.Background(), id, req, nil)
	require.Nil(t, svcErr)
	assert.Empty(t, out.Categories)
	assert.Equal(t, 1, pr.replaces)
}

func TestUpdateProduct_ClampsNegativeStock(t *testing.T) {
	pr := newFakeProductRepo()
	svc := newTestProductService(pr, newFakeCategoryRepo(), &fakeStorage{})

	id := uuid.New()
	pr.products[id] = &models.Product{ID: id, Name: "Sorvete", Price: 10, Stock: 4}

	stock := -3.0
	req := &models.UpdateProductRequest{Stock: &stock}
	out, svcErr := svc.UpdateProduct(context.Background(), id, req, nil)
	require.Nil(t, svcErr)
	assert.Equal(t, 0, out.Stock)
}

func TestUpdateProduct_NewImageRemovesOldObject(t *testing.T) {
	pr := newFakeProductRepo()
	st := &fakeStorage{}
	svc := newTestProductService(pr, newFakeCategoryRepo(), st)

	id := uuid.New()
	pr.products[id] = &models.Product{ID: id, Name: "Sorvete", Price: 10, ImageKey: "products/old.jpg"}

	_, svcErr := svc.UpdateProduct(context.Background(), id, &models.UpdateProductRequest{}, imageFileHeader(t))
	require.Nil(t, svcErr)
	assert.Equal(t, []string{"products/old.jpg"}, st.deleted)
	assert.Len(t, st.uploaded, 1)
}

func TestUpdateProduct_FailedRowUpdateKeepsOldObject(t *testing.T) {
	pr := newFakeProductRepo()
	st := &fakeStorage{}
	svc := newTestProductService(pr, newFakeCategoryRepo(), st)

	id := uuid.New()
	pr.products[id] = &models.Product{ID: id, Name: "Sorvete", Price: 10, ImageKey: "products/old.jpg"}
	pr.updateErr = fmt.Errorf("connection reset")

	_, svcErr := svc.UpdateProduct(context.Background(), id, &models.UpdateProductRequest{}, imageFileHeader(t))
	require.NotNil(t, svcErr)
	assert.Equal(t, 500, svcErr.StatusCode)

	// The row still references the old object, so only the orphaned new
	// upload is removed.
	require.Len(t, st.uploaded, 1)
	assert.Equal(t, []string{st.uploaded[0]}, st.deleted)
	assert.NotContains(t, st.deleted, "products/old.jpg")
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc := newTestProductService(newFakeProductRepo(), newFakeCategoryRepo(), &fakeStorage{})

	_, svcErr := svc.UpdateProduct(context.Background(), uuid.New(), &models.UpdateProductRequest{}, nil)
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestDeleteProduct_RemovesImageBestEffort(t *testing.T) {
	pr := newFakeProductRepo()
	st := &fakeStorage{}
	svc := newTestProductService(pr, newFakeCategoryRepo(), st)

	id := uuid.New()
	pr.products[id] = &models.Product{ID: id, Name: "Sorvete", ImageKey: "products/x.jpg"}

	svcErr := svc.DeleteProduct(context.Background(), id)
	require.Nil(t, svcErr)
	assert.Empty(t, pr.products)
	assert.Equal(t, []string{"products/x.jpg"}, st.deleted)
}

func TestDecrementStock_Clamped(t *testing.T) {
	pr := newFakeProductRepo()
	svc := newTestProductService(pr, newFakeCategoryRepo(), &fakeStorage{})

	id := uuid.New()
	pr.products[id] = &models.Product{ID: id, Name: "Sorvete", Stock: 2}

	require.Nil(t, svc.DecrementStock(context.Background(), id, 5))
	assert.Equal(t, 0, pr.products[id].Stock)
}
