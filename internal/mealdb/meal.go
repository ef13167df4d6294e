package mealdb

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/starford/mealboard/internal/models"
)

// IngredientSlots is the number of numbered ingredient/measure field pairs
// carried by a lookup record.
const IngredientSlots = 20

// ParseMeal builds a MealDetail from a flat lookup record. Missing and null
// fields read as empty strings.
func ParseMeal(rec map[string]any) models.MealDetail {
	return models.MealDetail{
		ID:           field(rec, "idMeal"),
		Name:         field(rec, "strMeal"),
		ThumbnailURL: field(rec, "strMealThumb"),
		Category:     field(rec, "strCategory"),
		Area:         field(rec, "strArea"),
		Instructions: field(rec, "strInstructions"),
		Ingredients:  ExtractIngredients(rec),
		Tags:         splitTags(field(rec, "strTags")),
		YouTubeURL:   field(rec, "strYoutube"),
		SourceURL:    field(rec, "strSource"),
	}
}

// ExtractIngredients scans strIngredient1..20 and strMeasure1..20 and keeps
// the slots whose ingredient name is non-blank, in slot order.
func ExtractIngredients(rec map[string]any) []models.Ingredient {
	var out []models.Ingredient
	for i := 1; i <= IngredientSlots; i++ {
		n := strconv.Itoa(i)
		name := field(rec, "strIngredient"+n)
		if name == "" {
			continue
		}
		out = append(out, models.Ingredient{
			Name:    name,
			Measure: field(rec, "strMeasure"+n),
		})
	}
	return out
}

func field(rec map[string]any, key string) string {
	return strings.TrimSpace(cast.ToString(rec[key]))
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
