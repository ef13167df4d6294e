package browser

import (
	"context"
	"log/slog"

	"github.com/starford/mealboard/internal/models"
	"github.com/starford/mealboard/internal/view"
)

// SelectCategory handles a category click. Clicks from the menu close it.
func (b *Browser) SelectCategory(ctx context.Context, doc view.Surface, category string, fromMenu bool) {
	if fromMenu {
		b.CloseMenu(doc)
	}
	b.FetchMealsByCategory(ctx, doc, category)
}

// FetchMealsByCategory loads the meals of category into the meal grid.
func (b *Browser) FetchMealsByCategory(ctx context.Context, doc view.Surface, category string) {
	gen := doc.Begin(view.TargetMeals)

	b.dispatch(func() {
		meals, err := b.catalog.MealsByCategory(ctx, category)
		if err != nil {
			b.fail(doc, noticeMeals, "fetch meals failed", err, slog.String("category", category))
			return
		}
		b.DisplayMeals(doc, gen, meals)
	})
}

// DisplayMeals rebuilds the meal grid with one tile per meal. An empty or
// nil list renders view.MsgNoRecipes.
func (b *Browser) DisplayMeals(doc view.Surface, gen uint64, meals []models.MealSummary) bool {
	html, err := b.views.MealGrid(meals)
	if err != nil {
		b.logger.Error("render meal grid failed", slog.String("error", err.Error()))
		return false
	}
	return b.apply(doc, view.TargetMeals, gen, html)
}
