package mcpserver

// MealFormat documents the JSON shapes returned by the tools.
const MealFormat = `# Meal Format

Tools return JSON text.

## list_categories

A list of categories in upstream order:

` + "```" + `json
[{"name": "Beef", "thumbnail_url": "https://...", "description": "..."}]
` + "```" + `

## list_meals_by_category, search_meals

A list of meal summaries. An empty list means no recipes were found.

` + "```" + `json
[{"id": "52772", "name": "Teriyaki Chicken Casserole", "thumbnail_url": "https://..."}]
` + "```" + `

## get_meal

One meal detail. ` + "`ingredients`" + ` holds only the filled slots of the twenty
upstream ingredient slots, in slot order. Names and measures are trimmed; a
slot with a blank name is skipped and a missing measure is an empty string.

` + "```" + `json
{
  "id": "52772",
  "name": "Teriyaki Chicken Casserole",
  "category": "Chicken",
  "area": "Japanese",
  "instructions": "Preheat oven to 350 F...",
  "ingredients": [{"name": "soy sauce", "measure": "3/4 cup"}],
  "tags": ["Meat", "Casserole"]
}
` + "```" + `

Unknown ids yield a tool error.
`
