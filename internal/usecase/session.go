package usecase

import (
	"context"
	"errors"
	"math"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/dekokraft/katalog/internal/domain"
)

// SwipeThreshold is the minimum horizontal drag, in logical pixels, that
// counts as a gallery gesture.
const SwipeThreshold = 45

// Session is the product-page state machine: the currently displayed
// product, gallery angle and language. Commands return the freshly built
// view model; the shell redraws from it and rewrites the address bar
// from Query(). Handlers run to completion one at a time, so there is no
// locking here.
type Session struct {
	Views *ViewUC
	Prefs domain.PreferenceStore

	lang      string
	productID string
	angle     int
	maxAngle  int
}

// NewSession initializes the language from the persisted preference;
// absence or a read failure defaults to the primary language.
func NewSession(views *ViewUC, prefs domain.PreferenceStore) *Session {
	s := &Session{Views: views, Prefs: prefs}
	s.lang = views.Locales.Primary()
	if prefs != nil {
		if stored, err := prefs.Language(); err == nil {
			s.lang = views.Locales.Canonical(stored)
		} else {
			log.Debug().Err(err).Msg("language preference unreadable, using primary")
		}
	}
	return s
}

func (s *Session) Language() string  { return s.lang }
func (s *Session) ProductID() string { return s.productID }
func (s *Session) Angle() int        { return s.angle }

// Start enters the Displaying state from the page's raw id parameter.
// An absent or unknown id lands on the first catalog product.
func (s *Session) Start(ctx context.Context, rawID string) (*ProductView, error) {
	return s.SelectProduct(ctx, rawID)
}

// SelectProduct switches the displayed product and resets the angle to 1.
func (s *Session) SelectProduct(ctx context.Context, id string) (*ProductView, error) {
	view, err := s.Views.Product(ctx, id, s.lang, 1)
	if err != nil {
		return nil, err
	}
	s.productID = view.ID
	s.angle = view.Angle
	s.maxAngle = view.GalleryCount
	return view, nil
}

// SetAngle shows the given gallery angle of the current product. Values
// outside the gallery bounds reset to 1.
func (s *Session) SetAngle(ctx context.Context, n int) (*ProductView, error) {
	if err := s.requireProduct(ctx); err != nil {
		return nil, err
	}
	view, err := s.Views.Product(ctx, s.productID, s.lang, n)
	if err != nil {
		return nil, err
	}
	s.angle = view.Angle
	return view, nil
}

// NextAngle advances one angle, wrapping past the last back to 1.
func (s *Session) NextAngle(ctx context.Context) (*ProductView, error) {
	if err := s.requireProduct(ctx); err != nil {
		return nil, err
	}
	if s.maxAngle <= 1 {
		return s.SetAngle(ctx, s.angle)
	}
	next := s.angle + 1
	if next > s.maxAngle {
		next = 1
	}
	return s.SetAngle(ctx, next)
}

// PrevAngle retreats one angle, wrapping before the first to the last.
func (s *Session) PrevAngle(ctx context.Context) (*ProductView, error) {
	if err := s.requireProduct(ctx); err != nil {
		return nil, err
	}
	if s.maxAngle <= 1 {
		return s.SetAngle(ctx, s.angle)
	}
	prev := s.angle - 1
	if prev < 1 {
		prev = s.maxAngle
	}
	return s.SetAngle(ctx, prev)
}

// Swipe interprets a touch gesture on the primary image. Vertical-
// dominant drags belong to page scrolling and are ignored, as are drags
// under the threshold. Dragging left advances, dragging right retreats.
// The returned bool reports whether the gesture changed anything.
func (s *Session) Swipe(ctx context.Context, dx, dy float64) (*ProductView, bool, error) {
	if math.Abs(dy) > math.Abs(dx) || math.Abs(dx) < SwipeThreshold {
		return nil, false, nil
	}
	if s.maxAngle <= 1 {
		return nil, false, nil
	}
	var view *ProductView
	var err error
	if dx < 0 {
		view, err = s.NextAngle(ctx)
	} else {
		view, err = s.PrevAngle(ctx)
	}
	if err != nil {
		return nil, false, err
	}
	return view, true, nil
}

// SetLanguage switches the active language, persists the preference and
// rebuilds the current view. Switching to the already-active language
// re-renders and nothing else. A failed persist keeps the in-memory
// switch and is only logged; losing the preference is not worth failing
// the page over.
func (s *Session) SetLanguage(ctx context.Context, lang string) (*ProductView, error) {
	canon := s.Views.Locales.Canonical(lang)
	if canon != s.lang {
		s.lang = canon
		if s.Prefs != nil {
			if err := s.Prefs.SetLanguage(canon); err != nil {
				log.Warn().Err(err).Str("lang", canon).Msg("persist language preference")
			}
		}
	}
	if s.productID == "" {
		return nil, nil
	}
	return s.Views.Product(ctx, s.productID, s.lang, s.angle)
}

// Query returns the URL query values for the current state, so the shell
// can rewrite the address bar in place after every command.
func (s *Session) Query() url.Values {
	v := url.Values{}
	if s.productID != "" {
		v.Set("id", s.productID)
	}
	if s.angle > 1 {
		v.Set("angle", strconv.Itoa(s.angle))
	}
	return v
}

func (s *Session) requireProduct(ctx context.Context) error {
	if s.productID != "" {
		return nil
	}
	_, err := s.Start(ctx, "")
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}
