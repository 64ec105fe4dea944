package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekokraft/katalog/internal/domain"
)

const testCatalogJSON = `{
  "categories": [
    {
      "id": "gifts",
      "title": {"ar": "الهدايا", "de": "Geschenke"},
      "description": {"ar": "هدايا", "de": "Geschenke für alle"},
      "representativeProductId": "gift-001"
    },
    {
      "id": "candel",
      "title": {"ar": "الشموع", "de": "Kerzen"},
      "description": {"ar": "شموع", "de": "Kerzen und Deko"},
      "representativeProductId": "candel-001"
    }
  ],
  "products": [
    {
      "id": "gift-001",
      "category": "gifts",
      "title": {"ar": "سلة هدايا", "de": "Geschenkkorb"},
      "description": {"ar": "سلة", "de": "Korb"},
      "imageStem": "images/gift-001-02-01",
      "galleryCount": 2
    },
    {
      "id": "gift-002",
      "category": "gifts",
      "title": {"ar": "إطار صور", "de": "Bilderrahmen"},
      "description": {"ar": "إطار", "de": "Rahmen"},
      "imageStem": "images/gift-002-03-01",
      "galleryCount": 3
    },
    {
      "id": "gift-003",
      "category": "gifts",
      "title": {"ar": "مزهرية", "de": "Vase"},
      "description": {"ar": "مزهرية سيراميك", "de": "Keramikvase"},
      "imageStem": "images/gift-003",
      "galleryCount": 0,
      "relatedIds": ["candel-001"]
    },
    {
      "id": "candel-001",
      "category": "candel",
      "title": {"ar": "شمعة", "de": "Kerze"},
      "description": {"ar": "شمعة معطرة", "de": "Duftkerze"},
      "imageStem": "images/candel-001-03-01",
      "galleryCount": 3
    }
  ]
}`

type fakeSource struct {
	data  []byte
	err   error
	calls int
}

func (s *fakeSource) Fetch(context.Context) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func TestCatalogLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("CachesAfterFirstLoad", func(t *testing.T) {
		src := &fakeSource{data: []byte(testCatalogJSON)}
		uc := &CatalogUC{Source: src}

		first, err := uc.Load(ctx)
		require.NoError(t, err)
		second, err := uc.Load(ctx)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, src.calls)
	})

	t.Run("FetchFailure", func(t *testing.T) {
		uc := &CatalogUC{Source: &fakeSource{err: errors.New("boom")}}
		_, err := uc.Load(ctx)
		var loadErr *domain.CatalogLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "fetch", loadErr.Reason)
	})

	t.Run("MalformedPayload", func(t *testing.T) {
		uc := &CatalogUC{Source: &fakeSource{data: []byte("{not json")}}
		_, err := uc.Load(ctx)
		var loadErr *domain.CatalogLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "decode", loadErr.Reason)
	})

	t.Run("UnknownCategoryReference", func(t *testing.T) {
		bad := `{"categories":[{"id":"gifts","representativeProductId":"p1"}],
			"products":[{"id":"p1","category":"nope","imageStem":"x-01"}]}`
		uc := &CatalogUC{Source: &fakeSource{data: []byte(bad)}}
		_, err := uc.Load(ctx)
		var loadErr *domain.CatalogLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "validate", loadErr.Reason)
	})

	t.Run("UnknownRepresentativeProduct", func(t *testing.T) {
		bad := `{"categories":[{"id":"gifts","representativeProductId":"ghost"}],
			"products":[{"id":"p1","category":"gifts","imageStem":"x-01"}]}`
		uc := &CatalogUC{Source: &fakeSource{data: []byte(bad)}}
		_, err := uc.Load(ctx)
		var loadErr *domain.CatalogLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "validate", loadErr.Reason)
	})

	t.Run("FailureIsNotCached", func(t *testing.T) {
		src := &fakeSource{err: errors.New("down")}
		uc := &CatalogUC{Source: src}
		_, err := uc.Load(ctx)
		require.Error(t, err)

		src.err = nil
		src.data = []byte(testCatalogJSON)
		_, err = uc.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, src.calls)
	})
}

func TestCatalogLookups(t *testing.T) {
	ctx := context.Background()
	uc := &CatalogUC{Source: &fakeSource{data: []byte(testCatalogJSON)}}

	t.Run("FindProductByID", func(t *testing.T) {
		p, err := uc.FindProductByID(ctx, "gift-002")
		require.NoError(t, err)
		assert.Equal(t, 3, p.GalleryCount)

		_, err = uc.FindProductByID(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ProductsByCategoryKeepsOrder", func(t *testing.T) {
		ps, err := uc.ProductsByCategory(ctx, "gifts")
		require.NoError(t, err)
		ids := make([]string, len(ps))
		for i, p := range ps {
			ids[i] = p.ID
		}
		assert.Equal(t, []string{"gift-001", "gift-002", "gift-003"}, ids)
	})

	t.Run("AllCategoriesKeepsOrder", func(t *testing.T) {
		cats, err := uc.AllCategories(ctx)
		require.NoError(t, err)
		require.Len(t, cats, 2)
		assert.Equal(t, "gifts", cats[0].ID)
		assert.Equal(t, "candel", cats[1].ID)
	})

	t.Run("FindCategoryCaseInsensitive", func(t *testing.T) {
		c, err := uc.FindCategory(ctx, "GIFTS")
		require.NoError(t, err)
		assert.Equal(t, "gifts", c.ID)

		_, err = uc.FindCategory(ctx, "toys")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("FirstFallbacks", func(t *testing.T) {
		p, err := uc.FirstProduct(ctx)
		require.NoError(t, err)
		assert.Equal(t, "gift-001", p.ID)

		c, err := uc.FirstCategory(ctx)
		require.NoError(t, err)
		assert.Equal(t, "gifts", c.ID)
	})
}
