// Package models defines the domain types for mealboard.
package models

// Category is a named grouping of meals with an illustrative thumbnail.
type Category struct {
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Description  string `json:"description,omitempty"`
}

// MealSummary is the minimal identity of a meal used for grid tiles.
type MealSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Ingredient pairs an ingredient name with its measure. Measure may be empty.
type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// MealDetail is the full meal record rendered in the detail panel.
type MealDetail struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ThumbnailURL string       `json:"thumbnail_url"`
	Category     string       `json:"category"`
	Area         string       `json:"area"`
	Instructions string       `json:"instructions"`
	Ingredients  []Ingredient `json:"ingredients"`
	Tags         []string     `json:"tags,omitempty"`
	YouTubeURL   string       `json:"youtube_url,omitempty"`
	SourceURL    string       `json:"source_url,omitempty"`
}
