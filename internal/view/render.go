package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"sync/atomic"

	"github.com/starford/mealboard/internal/models"
)

//go:embed templates/*.html
var embedded embed.FS

// Empty-state messages.
const (
	MsgNoRecipes    = "No recipes found."
	MsgNoCategories = "No categories available."
	MsgNoDetails    = "No details found for this meal."
)

// PageData is the input of the page shell template.
type PageData struct {
	Title      string
	Menu       TargetView
	Categories TargetView
	Meals      TargetView
	Details    TargetView
}

// NewPageData captures the current state of doc for the page shell.
func NewPageData(doc *Document) PageData {
	return PageData{
		Title:      "Recipe Browser",
		Menu:       doc.View(TargetMenu),
		Categories: doc.View(TargetCategories),
		Meals:      doc.View(TargetMeals),
		Details:    doc.View(TargetDetails),
	}
}

type categoryList struct {
	Categories []models.Category
	Empty      string
}

type mealList struct {
	Meals []models.MealSummary
	Empty string
}

// Renderer turns domain values into markup for the render targets.
//
// Templates are embedded; when dir is set, *.html files found there are
// parsed on top and may redefine any named template.
type Renderer struct {
	dir  string
	tmpl atomic.Pointer[template.Template]
}

// NewRenderer parses the templates once and returns a ready renderer.
func NewRenderer(dir string) (*Renderer, error) {
	r := &Renderer{dir: dir}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Dir returns the override directory, or "" when only embedded templates are used.
func (r *Renderer) Dir() string {
	return r.dir
}

// Reload re-parses all templates. On error the previous set stays active.
func (r *Renderer) Reload() error {
	t, err := template.New("mealboard").ParseFS(embedded, "templates/*.html")
	if err != nil {
		return fmt.Errorf("view: parse embedded templates: %w", err)
	}
	if r.dir != "" {
		matches, err := filepath.Glob(filepath.Join(r.dir, "*.html"))
		if err != nil {
			return fmt.Errorf("view: glob templates: %w", err)
		}
		if len(matches) > 0 {
			if t, err = t.ParseFiles(matches...); err != nil {
				return fmt.Errorf("view: parse templates from %s: %w", r.dir, err)
			}
		}
	}
	r.tmpl.Store(t)
	return nil
}

// Page writes the full page shell.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	return r.tmpl.Load().ExecuteTemplate(w, "page", data)
}

// Menu renders one link per category for the menu overlay.
func (r *Renderer) Menu(categories []models.Category) (template.HTML, error) {
	return r.execute("menu", categoryList{Categories: categories, Empty: MsgNoCategories})
}

// CategoryGrid renders one tile per category.
func (r *Renderer) CategoryGrid(categories []models.Category) (template.HTML, error) {
	return r.execute("categories", categoryList{Categories: categories, Empty: MsgNoCategories})
}

// MealGrid renders one tile per meal, or MsgNoRecipes when meals is empty.
func (r *Renderer) MealGrid(meals []models.MealSummary) (template.HTML, error) {
	return r.execute("meals", mealList{Meals: meals, Empty: MsgNoRecipes})
}

// MealDetail renders the detail panel for meal.
func (r *Renderer) MealDetail(meal *models.MealDetail) (template.HTML, error) {
	return r.execute("detail", meal)
}

// Message renders a standalone empty/error state.
func (r *Renderer) Message(msg string) (template.HTML, error) {
	return r.execute("message", msg)
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Load().ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("view: render %s: %w", name, err)
	}
	// Output of html/template is already escaped.
	return template.HTML(buf.String()), nil //nolint:gosec
}
