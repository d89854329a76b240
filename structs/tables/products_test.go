package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayImagePrefersPrimary(t *testing.T) {
	p := Product{
		Images: []ProductImage{
			{URL: "/a.png", SortOrder: 0},
			{URL: "/b.png", SortOrder: 1, IsPrimary: true},
		},
	}

	img := p.DisplayImage()
	require.NotNil(t, img)
	assert.Equal(t, "/b.png", img.URL)
}

func TestDisplayImageFallsBackToLowestSortOrder(t *testing.T) {
	p := Product{
		Images: []ProductImage{
			{URL: "/second.png", SortOrder: 2},
			{URL: "/first.png", SortOrder: 1},
		},
	}

	img := p.DisplayImage()
	require.NotNil(t, img)
	assert.Equal(t, "/first.png", img.URL)
}

func TestDisplayImageTiesKeepInsertionOrder(t *testing.T) {
	p := Product{
		Images: []ProductImage{
			{URL: "/kept.png", SortOrder: 1},
			{URL: "/skipped.png", SortOrder: 1},
		},
	}

	img := p.DisplayImage()
	require.NotNil(t, img)
	assert.Equal(t, "/kept.png", img.URL)
}

func TestDisplayImageNilWhenNoImages(t *testing.T) {
	p := Product{}
	assert.Nil(t, p.DisplayImage())
}

func TestDisplayImageURLPlaceholder(t *testing.T) {
	p := Product{}
	assert.Equal(t, PlaceholderImageURL, p.DisplayImageURL())

	p.Images = []ProductImage{{URL: "/real.png"}}
	assert.Equal(t, "/real.png", p.DisplayImageURL())
}

func TestCategoryName(t *testing.T) {
	p := Product{}
	assert.Equal(t, "", p.CategoryName())

	p.Category = &Category{Name: "Streetwear"}
	assert.Equal(t, "Streetwear", p.CategoryName())
}
