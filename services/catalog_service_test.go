package services

import (
	"context"
	"errors"
	"testing"

	"nightloom_server/lib"
	"nightloom_server/structs"
	"nightloom_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogBackend struct {
	active     []tables.Product
	categories map[string]*tables.Category
	hotSale    []tables.Product

	failActive  bool
	failHotSale bool
	failRelated bool
}

func (f *fakeCatalogBackend) FetchActive(ctx context.Context) ([]tables.Product, error) {
	if f.failActive {
		return nil, errors.New("connection refused")
	}
	return f.active, nil
}

func (f *fakeCatalogBackend) FetchBySlug(ctx context.Context, slug string) (*tables.Product, error) {
	if f.failActive {
		return nil, errors.New("connection refused")
	}
	for i := range f.active {
		if f.active[i].Slug == slug {
			return &f.active[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogBackend) FetchByID(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	for i := range f.active {
		if f.active[i].ID == id {
			return &f.active[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogBackend) FetchCategoryBySlug(ctx context.Context, slug string) (*tables.Category, error) {
	return f.categories[slug], nil
}

func (f *fakeCatalogBackend) FetchByCategory(ctx context.Context, categoryID uuid.UUID) ([]tables.Product, error) {
	out := []tables.Product{}
	for _, p := range f.active {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogBackend) FetchHotSale(ctx context.Context, limit int) ([]tables.Product, error) {
	if f.failHotSale {
		return nil, errors.New("connection refused")
	}
	return f.hotSale, nil
}

func (f *fakeCatalogBackend) FetchRelated(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]tables.Product, error) {
	if f.failRelated {
		return nil, errors.New("connection refused")
	}
	out := []tables.Product{}
	for _, p := range f.active {
		if p.CategoryID == categoryID && p.ID != excludeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogBackend) FetchRecommended(ctx context.Context, limit int) ([]tables.Product, error) {
	if f.failActive {
		return nil, errors.New("connection refused")
	}
	return f.active, nil
}

func newTestCatalogService(backend CatalogBackend) *CatalogService {
	cfg := &structs.Config{
		Catalog: &structs.CatalogConfig{
			HotSaleLimit:     8,
			RelatedLimit:     4,
			RecommendedLimit: 8,
		},
	}
	return NewCatalogService(gecho.NewDefaultLogger(), cfg, backend, nil)
}

func TestListActiveWrapsBackendFailure(t *testing.T) {
	svc := newTestCatalogService(&fakeCatalogBackend{failActive: true})

	_, err := svc.ListActive(context.Background())
	assert.ErrorIs(t, err, lib.ErrDataUnavailable)
}

func TestListActiveReturnsProducts(t *testing.T) {
	backend := &fakeCatalogBackend{
		active: []tables.Product{{ID: uuid.New(), Name: "Tee", Slug: "tee", IsActive: true}},
	}
	svc := newTestCatalogService(backend)

	products, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestGetBySlugNotFound(t *testing.T) {
	svc := newTestCatalogService(&fakeCatalogBackend{})

	_, err := svc.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestHotSaleEmptyIsNotFallback(t *testing.T) {
	backend := &fakeCatalogBackend{hotSale: []tables.Product{}}
	svc := newTestCatalogService(backend)

	// Zero flagged products is a valid answer, not a reason to substitute
	// the fallback catalog
	products := svc.ListHotSale(context.Background())
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestHotSaleDegradesToEmptyOnFailure(t *testing.T) {
	svc := newTestCatalogService(&fakeCatalogBackend{failHotSale: true})

	products := svc.ListHotSale(context.Background())
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestRelatedDegradesToEmptyOnFailure(t *testing.T) {
	svc := newTestCatalogService(&fakeCatalogBackend{failRelated: true})

	product := &tables.Product{ID: uuid.New(), CategoryID: uuid.New()}
	related := svc.ListRelated(context.Background(), product)
	assert.NotNil(t, related)
	assert.Empty(t, related)
}

func TestListByCategoryUnknownSlug(t *testing.T) {
	svc := newTestCatalogService(&fakeCatalogBackend{categories: map[string]*tables.Category{}})

	_, err := svc.ListByCategory(context.Background(), "nope")
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestListByCategoryReturnsMatches(t *testing.T) {
	category := &tables.Category{ID: uuid.New(), Name: "Streetwear", Slug: "streetwear"}
	backend := &fakeCatalogBackend{
		categories: map[string]*tables.Category{"streetwear": category},
		active: []tables.Product{
			{ID: uuid.New(), Name: "Tee", CategoryID: category.ID},
			{ID: uuid.New(), Name: "Vase", CategoryID: uuid.New()},
		},
	}
	svc := newTestCatalogService(backend)

	products, err := svc.ListByCategory(context.Background(), "streetwear")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Tee", products[0].Name)
}

func TestFallbackCatalogShape(t *testing.T) {
	products := FallbackCatalog()
	require.NotEmpty(t, products)

	for _, p := range products {
		assert.True(t, p.IsActive)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Slug)
		assert.NotZero(t, p.Price)
		require.NotNil(t, p.Category)
	}

	// Fresh copies each call so callers cannot poison the fallback
	first := FallbackCatalog()
	first[0].Name = "mutated"
	assert.NotEqual(t, "mutated", FallbackCatalog()[0].Name)
}
