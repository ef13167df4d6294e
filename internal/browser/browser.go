// Package browser implements the recipe browser component: the navigation
// menu, category loader, meal lister, meal detail viewer and search
// controller. Every operation renders into a view.Surface passed by the
// caller.
package browser

import (
	"context"
	"html/template"
	"log/slog"
	"sync"

	"github.com/starford/mealboard/internal/models"
	"github.com/starford/mealboard/internal/view"
)

// Catalog is the upstream recipe source.
type Catalog interface {
	Categories(ctx context.Context) ([]models.Category, error)
	MealsByCategory(ctx context.Context, category string) ([]models.MealSummary, error)
	SearchMeals(ctx context.Context, query string) ([]models.MealSummary, error)
	MealByID(ctx context.Context, id string) (*models.MealDetail, error)
}

// Notice texts shown when the upstream request fails.
const (
	noticeCategories = "Could not load categories."
	noticeMeals      = "Could not load recipes."
	noticeDetails    = "Could not load recipe details."
)

// Browser wires the catalog to the renderer.
//
// Fetches are issued synchronously (the target generation is taken at call
// time) and complete on their own goroutine; Wait blocks until all of them
// have finished.
type Browser struct {
	catalog Catalog
	views   *view.Renderer
	logger  *slog.Logger

	wg sync.WaitGroup
}

// New creates a Browser.
func New(catalog Catalog, views *view.Renderer, logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{catalog: catalog, views: views, logger: logger}
}

// Wait blocks until every in-flight fetch has completed.
func (b *Browser) Wait() {
	b.wg.Wait()
}

func (b *Browser) dispatch(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// apply renders html into t when gen is still current.
func (b *Browser) apply(doc view.Surface, t view.Target, gen uint64, html template.HTML) bool {
	if !doc.Render(t, gen, html) {
		b.logger.Debug("discarded stale render",
			slog.String("target", string(t)),
			slog.Uint64("generation", gen))
		return false
	}
	return true
}

func (b *Browser) fail(doc view.Surface, notice, msg string, err error, attrs ...slog.Attr) {
	args := []any{slog.String("error", err.Error())}
	for _, a := range attrs {
		args = append(args, a)
	}
	b.logger.Error(msg, args...)
	doc.Notice(notice)
}
