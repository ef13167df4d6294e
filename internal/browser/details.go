package browser

import (
	"context"
	"errors"
	"log/slog"

	"github.com/starford/mealboard/internal/apperr"
	"github.com/starford/mealboard/internal/models"
	"github.com/starford/mealboard/internal/view"
)

// FetchMealDetails loads the meal with the given id into the detail panel.
// An unknown id renders view.MsgNoDetails. The meal grid generation is taken
// here too, so a list requested after this call is never cleared by it.
func (b *Browser) FetchMealDetails(ctx context.Context, doc view.Surface, mealID string) {
	gen := doc.Begin(view.TargetDetails)
	mealsGen := doc.Begin(view.TargetMeals)

	b.dispatch(func() {
		meal, err := b.catalog.MealByID(ctx, mealID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			b.logger.Info("no details found for this meal", slog.String("meal_id", mealID))
			html, rerr := b.views.Message(view.MsgNoDetails)
			if rerr != nil {
				b.logger.Error("render message failed", slog.String("error", rerr.Error()))
				return
			}
			if b.apply(doc, view.TargetDetails, gen, html) {
				doc.SetVisible(view.TargetDetails, true)
			}
		case err != nil:
			b.fail(doc, noticeDetails, "fetch meal details failed", err, slog.String("meal_id", mealID))
		default:
			b.DisplayMealDetails(doc, gen, mealsGen, meal)
		}
	})
}

// DisplayMealDetails renders meal into the detail panel, shows the panel and
// clears the meal grid if mealsGen is still current. The category grid is
// left as is.
func (b *Browser) DisplayMealDetails(doc view.Surface, gen, mealsGen uint64, meal *models.MealDetail) bool {
	html, err := b.views.MealDetail(meal)
	if err != nil {
		b.logger.Error("render meal details failed", slog.String("error", err.Error()))
		return false
	}
	if !b.apply(doc, view.TargetDetails, gen, html) {
		return false
	}
	doc.SetVisible(view.TargetDetails, true)
	b.apply(doc, view.TargetMeals, mealsGen, "")
	return true
}
