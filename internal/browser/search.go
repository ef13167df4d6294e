package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/mealboard/internal/apperr"
	"github.com/starford/mealboard/internal/view"
)

// AlertEmptyQuery is raised when a search is submitted without a name.
const AlertEmptyQuery = "Please enter a recipe name to search."

// SearchRecipes searches meals by name and renders the results into the meal
// grid. A blank input raises AlertEmptyQuery, issues no request and returns
// an error wrapping apperr.ErrInvalidInput.
func (b *Browser) SearchRecipes(ctx context.Context, doc view.Surface, input string) error {
	query := strings.TrimSpace(input)
	if err := validation.Validate(query, validation.Required.Error(AlertEmptyQuery)); err != nil {
		doc.Alert(AlertEmptyQuery)
		return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, err.Error())
	}

	gen := doc.Begin(view.TargetMeals)

	b.dispatch(func() {
		meals, err := b.catalog.SearchMeals(ctx, query)
		if err != nil {
			b.fail(doc, noticeMeals, "search meals failed", err, slog.String("query", query))
			return
		}
		b.DisplayMeals(doc, gen, meals)
	})
	return nil
}
