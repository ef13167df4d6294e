// Package mealdb is a read-only client for the public TheMealDB JSON API.
package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/mealboard/internal/apperr"
	"github.com/starford/mealboard/internal/models"
)

// DefaultBaseURL is the free-tier TheMealDB endpoint.
const DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"

const maxBodyBytes = 4 << 20

// Client talks to the four TheMealDB endpoints used by the browser.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout of the underlying HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a client rooted at baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type categoriesResponse struct {
	Categories []struct {
		Name        string `json:"strCategory"`
		Thumb       string `json:"strCategoryThumb"`
		Description string `json:"strCategoryDescription"`
	} `json:"categories"`
}

type mealsResponse struct {
	Meals []struct {
		ID    string `json:"idMeal"`
		Name  string `json:"strMeal"`
		Thumb string `json:"strMealThumb"`
	} `json:"meals"`
}

type lookupResponse struct {
	Meals []map[string]any `json:"meals"`
}

// Categories lists every meal category.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var resp categoriesResponse
	if err := c.get(ctx, "categories.php", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(resp.Categories))
	for _, cat := range resp.Categories {
		out = append(out, models.Category{
			Name:         cat.Name,
			ThumbnailURL: cat.Thumb,
			Description:  cat.Description,
		})
	}
	return out, nil
}

// MealsByCategory lists the meals of a category. A null result yields a nil slice.
func (c *Client) MealsByCategory(ctx context.Context, category string) ([]models.MealSummary, error) {
	return c.summaries(ctx, "filter.php", url.Values{"c": {category}})
}

// SearchMeals finds meals whose name matches query. A null result yields a nil slice.
func (c *Client) SearchMeals(ctx context.Context, query string) ([]models.MealSummary, error) {
	return c.summaries(ctx, "search.php", url.Values{"s": {query}})
}

// MealByID looks up a single meal. It returns apperr.ErrNotFound when the
// result set is empty.
func (c *Client) MealByID(ctx context.Context, id string) (*models.MealDetail, error) {
	var resp lookupResponse
	if err := c.get(ctx, "lookup.php", url.Values{"i": {id}}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Meals) == 0 || resp.Meals[0] == nil {
		return nil, fmt.Errorf("mealdb: meal %q: %w", id, apperr.ErrNotFound)
	}
	meal := ParseMeal(resp.Meals[0])
	return &meal, nil
}

func (c *Client) summaries(ctx context.Context, endpoint string, q url.Values) ([]models.MealSummary, error) {
	var resp mealsResponse
	if err := c.get(ctx, endpoint, q, &resp); err != nil {
		return nil, err
	}
	if resp.Meals == nil {
		return nil, nil
	}
	out := make([]models.MealSummary, 0, len(resp.Meals))
	for _, m := range resp.Meals {
		out = append(out, models.MealSummary{
			ID:           m.ID,
			Name:         m.Name,
			ThumbnailURL: m.Thumb,
		})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, dst any) error {
	u := c.baseURL + "/" + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("mealdb: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mealdb: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("mealdb: %s: unexpected status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("mealdb: %s: decode response: %w", endpoint, err)
	}
	return nil
}
