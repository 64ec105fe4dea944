package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/dekokraft/katalog/internal/domain"
)

// CatalogUC loads the catalog document once and serves read-only lookups
// for the rest of the process lifetime.
type CatalogUC struct {
	Source domain.CatalogSource

	mu     sync.Mutex
	loaded *domain.Catalog
	byID   map[string]*domain.Product
}

// Load fetches, parses and validates the catalog on first call and
// returns the cached result afterwards. A failed load is not cached, so
// the next page request gets another chance.
func (uc *CatalogUC) Load(ctx context.Context) (*domain.Catalog, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.loaded != nil {
		return uc.loaded, nil
	}

	raw, err := uc.Source.Fetch(ctx)
	if err != nil {
		return nil, &domain.CatalogLoadError{Reason: "fetch", Err: err}
	}
	var cat domain.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, &domain.CatalogLoadError{Reason: "decode", Err: err}
	}
	if err := validate(&cat); err != nil {
		return nil, &domain.CatalogLoadError{Reason: "validate", Err: err}
	}

	uc.loaded = &cat
	uc.byID = make(map[string]*domain.Product, len(cat.Products))
	for i := range cat.Products {
		uc.byID[cat.Products[i].ID] = &cat.Products[i]
	}
	return uc.loaded, nil
}

func validate(cat *domain.Catalog) error {
	if len(cat.Categories) == 0 || len(cat.Products) == 0 {
		return fmt.Errorf("empty catalog: %d categories, %d products", len(cat.Categories), len(cat.Products))
	}
	catIDs := map[string]struct{}{}
	for _, c := range cat.Categories {
		if c.ID == "" {
			return fmt.Errorf("category with empty id")
		}
		catIDs[c.ID] = struct{}{}
	}
	prodIDs := map[string]struct{}{}
	for _, p := range cat.Products {
		if p.ID == "" {
			return fmt.Errorf("product with empty id")
		}
		if _, ok := catIDs[p.Category]; !ok {
			return fmt.Errorf("product %s references unknown category %q", p.ID, p.Category)
		}
		prodIDs[p.ID] = struct{}{}
	}
	for _, c := range cat.Categories {
		if _, ok := prodIDs[c.RepresentativeProductID]; !ok {
			return fmt.Errorf("category %s references unknown product %q", c.ID, c.RepresentativeProductID)
		}
	}
	return nil
}

// FindProductByID returns the product or domain.ErrNotFound.
func (uc *CatalogUC) FindProductByID(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uc.Load(ctx); err != nil {
		return nil, err
	}
	uc.mu.Lock()
	p := uc.byID[id]
	uc.mu.Unlock()
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ProductsByCategory returns the products of a category in catalog order.
func (uc *CatalogUC) ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	cat, err := uc.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Product
	for _, p := range cat.Products {
		if p.Category == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

// AllCategories returns categories in catalog-declared order.
func (uc *CatalogUC) AllCategories(ctx context.Context) ([]domain.Category, error) {
	cat, err := uc.Load(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Categories, nil
}

// FindCategory matches a category id case-insensitively.
func (uc *CatalogUC) FindCategory(ctx context.Context, id string) (*domain.Category, error) {
	cat, err := uc.Load(ctx)
	if err != nil {
		return nil, err
	}
	id = strings.ToLower(strings.TrimSpace(id))
	for i := range cat.Categories {
		if strings.ToLower(cat.Categories[i].ID) == id {
			return &cat.Categories[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// FirstProduct is the soft-fail fallback for unresolvable product ids.
func (uc *CatalogUC) FirstProduct(ctx context.Context) (*domain.Product, error) {
	cat, err := uc.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &cat.Products[0], nil
}

// FirstCategory is the soft-fail fallback for unresolvable category ids.
func (uc *CatalogUC) FirstCategory(ctx context.Context) (*domain.Category, error) {
	cat, err := uc.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &cat.Categories[0], nil
}
