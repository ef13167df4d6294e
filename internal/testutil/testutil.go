// Package testutil provides a fake TheMealDB server for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// MealDB is an in-memory stand-in for the TheMealDB JSON API.
//
// Responses are keyed by endpoint and query value, e.g. Filter["Beef"].
// A missing key answers {"meals": null} like the real service.
type MealDB struct {
	Categories []map[string]any
	Filter     map[string][]map[string]any
	Search     map[string][]map[string]any
	Lookup     map[string]map[string]any

	// Hook, if set, runs before every response and may block to control
	// completion order. Returning false aborts with a 500.
	Hook func(r *http.Request) bool

	mu       sync.Mutex
	requests []string

	server *httptest.Server
}

// NewMealDB starts a fake server and registers cleanup on t.
func NewMealDB(t *testing.T) *MealDB {
	t.Helper()
	m := &MealDB{
		Filter: map[string][]map[string]any{},
		Search: map[string][]map[string]any{},
		Lookup: map[string]map[string]any{},
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.server.Close)
	return m
}

// URL returns the base URL to hand to mealdb.NewClient.
func (m *MealDB) URL() string {
	return m.server.URL
}

// Requests returns every request seen so far as "endpoint?query".
func (m *MealDB) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

func (m *MealDB) serve(w http.ResponseWriter, r *http.Request) {
	endpoint := strings.TrimPrefix(r.URL.Path, "/")
	m.mu.Lock()
	m.requests = append(m.requests, endpoint+"?"+r.URL.RawQuery)
	m.mu.Unlock()

	if m.Hook != nil && !m.Hook(r) {
		http.Error(w, "upstream failure", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	var body any
	switch endpoint {
	case "categories.php":
		body = map[string]any{"categories": m.Categories}
	case "filter.php":
		body = mealsBody(m.Filter[q.Get("c")])
	case "search.php":
		body = mealsBody(m.Search[q.Get("s")])
	case "lookup.php":
		if rec, ok := m.Lookup[q.Get("i")]; ok {
			body = map[string]any{"meals": []map[string]any{rec}}
		} else {
			body = map[string]any{"meals": nil}
		}
	default:
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func mealsBody(meals []map[string]any) map[string]any {
	if len(meals) == 0 {
		return map[string]any{"meals": nil}
	}
	return map[string]any{"meals": meals}
}

// Category returns a categories.php item.
func Category(name string) map[string]any {
	return map[string]any{
		"idCategory":             "1",
		"strCategory":            name,
		"strCategoryThumb":       "https://img.example/" + strings.ToLower(name) + ".png",
		"strCategoryDescription": name + " dishes",
	}
}

// Meal returns a filter.php/search.php item.
func Meal(id, name string) map[string]any {
	return map[string]any{
		"idMeal":       id,
		"strMeal":      name,
		"strMealThumb": "https://img.example/meal/" + id + ".jpg",
	}
}
