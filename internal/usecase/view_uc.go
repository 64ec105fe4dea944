package usecase

import (
	"context"
	"errors"
	"math/rand"
	"net/url"
	"sync"

	"github.com/dekokraft/katalog/internal/adapters/images"
	"github.com/dekokraft/katalog/internal/domain"
	"github.com/dekokraft/katalog/internal/i18n"
)

// DefaultFeaturedCap bounds the randomly sampled featured set on the
// home view. Configurable via FEATURED_COUNT.
const DefaultFeaturedCap = 8

// Card is one product or category tile: resolved image, localized text,
// link target.
type Card struct {
	ID          string
	Title       string
	Description string
	Image       images.Ref
	Href        string
}

type HomeView struct {
	Lang     string
	Dir      string
	UI       map[string]string
	Sections []Card
	Featured []Card
}

type CategoryView struct {
	Lang       string
	Dir        string
	UI         map[string]string
	CategoryID string
	Title      string
	Subtitle   string
	Products   []Card
}

// Thumb is one gallery strip entry.
type Thumb struct {
	Angle  int
	Image  images.Ref
	Active bool
}

type ProductView struct {
	Lang         string
	Dir          string
	UI           map[string]string
	ID           string
	Title        string
	Description  string
	Angle        int
	GalleryCount int
	Main         images.Ref
	Thumbs       []Thumb
	Similar      []Card
}

// ViewUC builds the display model for each page type from the catalog,
// the localization resolver and the image pipeline. The builders are
// read-only over the catalog; the only state is the shuffle source.
type ViewUC struct {
	Catalog     *CatalogUC
	Locales     *i18n.Resolver
	Images      *images.Resolver
	FeaturedCap int

	// Rand drives the featured-product sampling; tests inject a seeded
	// source. nil means a time-seeded one is created on first use.
	Rand   *rand.Rand
	randMu sync.Mutex
}

func productHref(id string) string {
	return "/product?id=" + url.QueryEscape(id)
}

func (uc *ViewUC) card(ctx context.Context, p *domain.Product, lang string) Card {
	title := uc.Locales.Text(p.Title, lang)
	return Card{
		ID:          p.ID,
		Title:       title,
		Description: uc.Locales.Text(p.Description, lang),
		Image:       uc.Images.Resolve(ctx, p.ImageStem, title),
		Href:        productHref(p.ID),
	}
}

// Home renders the category sections (catalog order) and a shuffled
// featured sample of every product that is not some category's
// representative.
func (uc *ViewUC) Home(ctx context.Context, lang string) (*HomeView, error) {
	cat, err := uc.Catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	lang = uc.Locales.Canonical(lang)
	view := &HomeView{Lang: lang, Dir: uc.Locales.Direction(lang), UI: uc.Locales.UI(lang)}

	representative := map[string]struct{}{}
	for _, c := range cat.Categories {
		representative[c.RepresentativeProductID] = struct{}{}
	}

	for _, c := range cat.Categories {
		title := uc.Locales.Text(c.Title, lang)
		section := Card{
			ID:          c.ID,
			Title:       title,
			Description: uc.Locales.Text(c.Description, lang),
			Href:        productHref(c.RepresentativeProductID),
		}
		if p, err := uc.Catalog.FindProductByID(ctx, c.RepresentativeProductID); err == nil {
			section.Image = uc.Images.Resolve(ctx, p.ImageStem, title)
		}
		view.Sections = append(view.Sections, section)
	}

	var rest []*domain.Product
	for i := range cat.Products {
		if _, ok := representative[cat.Products[i].ID]; !ok {
			rest = append(rest, &cat.Products[i])
		}
	}
	uc.shuffle(rest)
	limit := uc.FeaturedCap
	if limit <= 0 {
		limit = DefaultFeaturedCap
	}
	if len(rest) > limit {
		rest = rest[:limit]
	}
	for _, p := range rest {
		view.Featured = append(view.Featured, uc.card(ctx, p, lang))
	}
	return view, nil
}

func (uc *ViewUC) shuffle(ps []*domain.Product) {
	uc.randMu.Lock()
	defer uc.randMu.Unlock()
	if uc.Rand == nil {
		uc.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	uc.Rand.Shuffle(len(ps), func(i, j int) { ps[i], ps[j] = ps[j], ps[i] })
}

// Category renders all products of the requested category in catalog
// order. Unknown or missing ids fall back to the first category; that is
// the intended behavior, not an error.
func (uc *ViewUC) Category(ctx context.Context, rawCat, lang string) (*CategoryView, error) {
	c, err := uc.Catalog.FindCategory(ctx, rawCat)
	if errors.Is(err, domain.ErrNotFound) {
		c, err = uc.Catalog.FirstCategory(ctx)
	}
	if err != nil {
		return nil, err
	}
	lang = uc.Locales.Canonical(lang)
	view := &CategoryView{
		Lang:       lang,
		Dir:        uc.Locales.Direction(lang),
		UI:         uc.Locales.UI(lang),
		CategoryID: c.ID,
		Title:      uc.Locales.Text(c.Title, lang),
		Subtitle:   uc.Locales.UIString(lang, "cat_subtitle"),
	}
	prods, err := uc.Catalog.ProductsByCategory(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	for i := range prods {
		view.Products = append(view.Products, uc.card(ctx, &prods[i], lang))
	}
	return view, nil
}

// Product renders the detail view for rawID at the given angle. Unknown
// ids fall back to the first catalog product; the angle is clamped into
// the gallery bounds.
func (uc *ViewUC) Product(ctx context.Context, rawID, lang string, angle int) (*ProductView, error) {
	p, err := uc.Catalog.FindProductByID(ctx, rawID)
	if errors.Is(err, domain.ErrNotFound) {
		p, err = uc.Catalog.FirstProduct(ctx)
	}
	if err != nil {
		return nil, err
	}
	lang = uc.Locales.Canonical(lang)
	if angle < 1 || angle > p.GalleryCount {
		angle = 1
	}

	title := uc.Locales.Text(p.Title, lang)
	view := &ProductView{
		Lang:         lang,
		Dir:          uc.Locales.Direction(lang),
		UI:           uc.Locales.UI(lang),
		ID:           p.ID,
		Title:        title,
		Description:  uc.Locales.Text(p.Description, lang),
		Angle:        angle,
		GalleryCount: p.GalleryCount,
	}

	mainStem := p.ImageStem
	if p.GalleryCount > 0 {
		mainStem = images.AngleStem(p.ImageStem, angle)
	}
	view.Main = uc.Images.Resolve(ctx, mainStem, title)

	if p.GalleryCount == 0 {
		view.Thumbs = []Thumb{{Angle: 1, Image: uc.Images.Resolve(ctx, p.ImageStem, title), Active: true}}
	} else {
		for a := 1; a <= p.GalleryCount; a++ {
			view.Thumbs = append(view.Thumbs, Thumb{
				Angle:  a,
				Image:  uc.Images.Resolve(ctx, images.AngleStem(p.ImageStem, a), title),
				Active: a == angle,
			})
		}
	}

	similar, err := uc.similar(ctx, p)
	if err != nil {
		return nil, err
	}
	for _, s := range similar {
		view.Similar = append(view.Similar, uc.card(ctx, s, lang))
	}
	return view, nil
}

// similar prefers the product's explicit related list when it names any
// known product, otherwise it takes the same-category siblings in
// catalog order, excluding the product itself.
func (uc *ViewUC) similar(ctx context.Context, p *domain.Product) ([]*domain.Product, error) {
	if len(p.RelatedIDs) > 0 {
		var out []*domain.Product
		for _, id := range p.RelatedIDs {
			if id == p.ID {
				continue
			}
			rel, err := uc.Catalog.FindProductByID(ctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			out = append(out, rel)
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	siblings, err := uc.Catalog.ProductsByCategory(ctx, p.Category)
	if err != nil {
		return nil, err
	}
	var out []*domain.Product
	for i := range siblings {
		if siblings[i].ID != p.ID {
			out = append(out, &siblings[i])
		}
	}
	return out, nil
}
