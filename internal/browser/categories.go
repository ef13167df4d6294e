package browser

import (
	"context"
	"log/slog"

	"github.com/starford/mealboard/internal/models"
	"github.com/starford/mealboard/internal/view"
)

// FetchCategories loads the category list and renders it into both the menu
// and the category grid. On failure the previous content stays in place.
func (b *Browser) FetchCategories(ctx context.Context, doc view.Surface) {
	menuGen := doc.Begin(view.TargetMenu)
	gridGen := doc.Begin(view.TargetCategories)

	b.dispatch(func() {
		categories, err := b.catalog.Categories(ctx)
		if err != nil {
			b.fail(doc, noticeCategories, "fetch categories failed", err)
			return
		}
		b.DisplayCategoriesInMenu(doc, menuGen, categories)
		b.DisplayCategoriesOnPage(doc, gridGen, categories)
	})
}

// DisplayCategoriesInMenu rebuilds the menu with one link per category.
// Activating a link selects the category and closes the menu.
func (b *Browser) DisplayCategoriesInMenu(doc view.Surface, gen uint64, categories []models.Category) bool {
	html, err := b.views.Menu(categories)
	if err != nil {
		b.logger.Error("render menu failed", slog.String("error", err.Error()))
		return false
	}
	return b.apply(doc, view.TargetMenu, gen, html)
}

// DisplayCategoriesOnPage rebuilds the category grid with one tile per category.
func (b *Browser) DisplayCategoriesOnPage(doc view.Surface, gen uint64, categories []models.Category) bool {
	html, err := b.views.CategoryGrid(categories)
	if err != nil {
		b.logger.Error("render category grid failed", slog.String("error", err.Error()))
		return false
	}
	return b.apply(doc, view.TargetCategories, gen, html)
}
