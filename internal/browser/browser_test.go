package browser

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/mealboard/internal/apperr"
	"github.com/starford/mealboard/internal/mealdb"
	"github.com/starford/mealboard/internal/testutil"
	"github.com/starford/mealboard/internal/view"
)

type recorder struct {
	mu      sync.Mutex
	changes []view.Change
}

func (r *recorder) notify(c view.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) kind(kind string) []view.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []view.Change
	for _, c := range r.changes {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func testBrowser(t *testing.T) (*Browser, *testutil.MealDB, *view.Document, *recorder) {
	t.Helper()
	fake := testutil.NewMealDB(t)
	views, err := view.NewRenderer("")
	require.NoError(t, err)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	b := New(mealdb.NewClient(fake.URL()), views, logger)
	rec := &recorder{}
	return b, fake, view.NewDocument("test", rec.notify), rec
}

func target(t *testing.T, doc *view.Document, tgt view.Target) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(string(doc.View(tgt).HTML)))
	require.NoError(t, err)
	return d
}

func TestFetchCategories_RendersMenuAndGridInOrder(t *testing.T) {
	b, fake, doc, _ := testBrowser(t)
	names := []string{"Beef", "Chicken", "Dessert", "Lamb"}
	for _, n := range names {
		fake.Categories = append(fake.Categories, testutil.Category(n))
	}

	b.FetchCategories(context.Background(), doc)
	b.Wait()

	links := target(t, doc, view.TargetMenu).Find("a")
	tiles := target(t, doc, view.TargetCategories).Find(".category-item")
	require.Equal(t, len(names), links.Length())
	require.Equal(t, len(names), tiles.Length())
	for i, n := range names {
		assert.Equal(t, n, links.Eq(i).Text())
		assert.Equal(t, n, tiles.Eq(i).Find("p").Text())
	}
	assert.Equal(t, []string{"categories.php?"}, fake.Requests())
}

func TestFetchCategories_FailureKeepsContent(t *testing.T) {
	b, fake, doc, rec := testBrowser(t)
	gen := doc.Begin(view.TargetCategories)
	doc.Render(view.TargetCategories, gen, "<p>previous</p>")
	fake.Hook = func(*http.Request) bool { return false }

	b.FetchCategories(context.Background(), doc)
	b.Wait()

	assert.Equal(t, "<p>previous</p>", string(doc.View(view.TargetCategories).HTML))
	notices := rec.kind(view.ChangeNotice)
	require.Len(t, notices, 1)
	assert.Equal(t, noticeCategories, notices[0].Message)
}

func TestFetchMealsByCategory_TilesKeyedByID(t *testing.T) {
	b, fake, doc, _ := testBrowser(t)
	fake.Filter["Seafood"] = []map[string]any{
		testutil.Meal("52959", "Baked salmon"),
		testutil.Meal("52819", "Cajun spiced fish tacos"),
	}

	b.FetchMealsByCategory(context.Background(), doc, "Seafood")
	b.Wait()

	tiles := target(t, doc, view.TargetMeals).Find(".meal-item")
	require.Equal(t, 2, tiles.Length())
	id, _ := tiles.Eq(1).Attr("data-meal-id")
	assert.Equal(t, "52819", id)

	b.FetchMealDetails(context.Background(), doc, id)
	b.Wait()
	assert.Contains(t, fake.Requests(), "lookup.php?i=52819")
}

func TestFetchMealsByCategory_NullShowsNoRecipes(t *testing.T) {
	b, _, doc, _ := testBrowser(t)

	b.FetchMealsByCategory(context.Background(), doc, "Nothing")
	b.Wait()

	grid := target(t, doc, view.TargetMeals)
	assert.Equal(t, 0, grid.Find(".meal-item").Length())
	assert.Equal(t, view.MsgNoRecipes, grid.Find("p.empty").Text())
}

func TestSelectCategory_FromMenuClosesMenu(t *testing.T) {
	b, fake, doc, _ := testBrowser(t)
	fake.Filter["Beef"] = []map[string]any{testutil.Meal("1", "Beef Wellington")}
	b.ToggleMenu(doc)
	require.True(t, doc.View(view.TargetMenu).Visible)

	b.SelectCategory(context.Background(), doc, "Beef", true)
	b.Wait()

	assert.False(t, doc.View(view.TargetMenu).Visible)
	assert.Equal(t, 1, target(t, doc, view.TargetMeals).Find(".meal-item").Length())
}

func TestSelectCategory_FromGridLeavesMenu(t *testing.T) {
	b, _, doc, rec := testBrowser(t)

	b.SelectCategory(context.Background(), doc, "Beef", false)
	b.Wait()

	assert.False(t, doc.View(view.TargetMenu).Visible)
	assert.Empty(t, rec.kind(view.ChangeVisibility))
}

func TestToggleMenu(t *testing.T) {
	b, _, doc, _ := testBrowser(t)
	assert.True(t, b.ToggleMenu(doc))
	assert.False(t, b.ToggleMenu(doc))
}

func TestCategoryGrid_LastIssuedRequestWins(t *testing.T) {
	b, fake, doc, _ := testBrowser(t)
	fake.Filter["Beef"] = []map[string]any{testutil.Meal("1", "Beef Wellington")}
	fake.Filter["Chicken"] = []map[string]any{testutil.Meal("2", "Chicken Handi")}

	release := make(chan struct{})
	fake.Hook = func(r *http.Request) bool {
		if r.URL.Query().Get("c") == "Beef" {
			<-release
		}
		return true
	}

	b.FetchMealsByCategory(context.Background(), doc, "Beef")
	b.FetchMealsByCategory(context.Background(), doc, "Chicken")

	deadline := time.Now().Add(3 * time.Second)
	for !strings.Contains(string(doc.View(view.TargetMeals).HTML), "Chicken Handi") {
		if time.Now().After(deadline) {
			close(release)
			t.Fatal("newer category never rendered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The older response now completes and must be discarded.
	close(release)
	b.Wait()

	grid := target(t, doc, view.TargetMeals)
	require.Equal(t, 1, grid.Find(".meal-item").Length())
	assert.Equal(t, "Chicken Handi", grid.Find("h3").Text())
}

func TestFetchMealDetails_RendersAndClearsMeals(t *testing.T) {
	b, fake, doc, _ := testBrowser(t)
	fake.Categories = []map[string]any{testutil.Category("Dessert")}
	fake.Filter["Dessert"] = []map[string]any{testutil.Meal("52768", "Apple Frangipan Tart")}
	fake.Lookup["52768"] = map[string]any{
		"idMeal":          "52768",
		"strMeal":         "Apple Frangipan Tart",
		"strCategory":     "Dessert",
		"strArea":         "British",
		"strInstructions": "Bake it.",
		"strIngredient1":  "digestive biscuits",
		"strMeasure1":     "175g/6oz",
		"strIngredient3":  "Bramley apples",
		"strMeasure3":     "200g/7oz",
	}

	b.FetchCategories(context.Background(), doc)
	b.FetchMealsByCategory(context.Background(), doc, "Dessert")
	b.Wait()
	require.Equal(t, 1, target(t, doc, view.TargetMeals).Find(".meal-item").Length())

	b.FetchMealDetails(context.Background(), doc, "52768")
	b.Wait()

	details := target(t, doc, view.TargetDetails)
	assert.True(t, doc.View(view.TargetDetails).Visible)
	assert.Equal(t, "Apple Frangipan Tart", details.Find("h2").Text())
	items := details.Find("li")
	require.Equal(t, 2, items.Length())
	assert.Equal(t, "digestive biscuits - 175g/6oz", items.Eq(0).Text())
	assert.Equal(t, "Bramley apples - 200g/7oz", items.Eq(1).Text())

	assert.Empty(t, string(doc.View(view.TargetMeals).HTML))
	assert.Equal(t, 1, target(t, doc, view.TargetCategories).Find(".category-item").Length())
}

func TestFetchMealDetails_NotFoundShowsMessage(t *testing.T) {
	b, _, doc, _ := testBrowser(t)

	b.FetchMealDetails(context.Background(), doc, "0")
	b.Wait()

	assert.True(t, doc.View(view.TargetDetails).Visible)
	assert.Equal(t, view.MsgNoDetails, target(t, doc, view.TargetDetails).Find("p.empty").Text())
}

func TestFetchMealDetails_DiscardsInFlightMealList(t *testing.T) {
	b, fake, doc, _ := testBrowser(t)
	fake.Filter["Beef"] = []map[string]any{testutil.Meal("1", "Beef Wellington")}
	fake.Lookup["1"] = map[string]any{"idMeal": "1", "strMeal": "Beef Wellington"}

	release := make(chan struct{})
	fake.Hook = func(r *http.Request) bool {
		if r.URL.Path == "/filter.php" {
			<-release
		}
		return true
	}

	b.FetchMealsByCategory(context.Background(), doc, "Beef")
	b.FetchMealDetails(context.Background(), doc, "1")

	deadline := time.Now().Add(3 * time.Second)
	for !doc.View(view.TargetDetails).Visible {
		if time.Now().After(deadline) {
			close(release)
			t.Fatal("details never rendered")
		}
		time.Sleep(10 * time.Millisecond)
	}
	close(release)
	b.Wait()

	assert.Empty(t, string(doc.View(view.TargetMeals).HTML))
}

func TestSearchRecipes_BlankInputAlertsWithoutRequest(t *testing.T) {
	b, fake, doc, rec := testBrowser(t)

	err := b.SearchRecipes(context.Background(), doc, "   ")
	b.Wait()

	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	alerts := rec.kind(view.ChangeAlert)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertEmptyQuery, alerts[0].Message)
	assert.Empty(t, fake.Requests())
}

func TestSearchRecipes_NoResults(t *testing.T) {
	b, fake, doc, _ := testBrowser(t)

	require.NoError(t, b.SearchRecipes(context.Background(), doc, "arrabiata"))
	b.Wait()

	grid := target(t, doc, view.TargetMeals)
	assert.Equal(t, 0, grid.Find(".meal-item").Length())
	assert.Equal(t, "No recipes found.", grid.Find("p.empty").Text())
	assert.Equal(t, []string{"search.php?s=arrabiata"}, fake.Requests())
}

func TestSearchRecipes_TrimsAndRenders(t *testing.T) {
	b, fake, doc, _ := testBrowser(t)
	fake.Search["Arrabiata"] = []map[string]any{testutil.Meal("52771", "Spicy Arrabiata Penne")}

	require.NoError(t, b.SearchRecipes(context.Background(), doc, "  Arrabiata "))
	b.Wait()

	tiles := target(t, doc, view.TargetMeals).Find(".meal-item")
	require.Equal(t, 1, tiles.Length())
	id, _ := tiles.Attr("data-meal-id")
	assert.Equal(t, "52771", id)
}

func TestFetchMealDetails_KeepsListRequestedLater(t *testing.T) {
	b, fake, doc, _ := testBrowser(t)
	fake.Lookup["1"] = map[string]any{"idMeal": "1", "strMeal": "Beef Wellington"}
	fake.Search["Arrabiata"] = []map[string]any{testutil.Meal("52771", "Spicy Arrabiata Penne")}

	release := make(chan struct{})
	fake.Hook = func(r *http.Request) bool {
		if r.URL.Path == "/lookup.php" {
			<-release
		}
		return true
	}

	b.FetchMealDetails(context.Background(), doc, "1")
	require.NoError(t, b.SearchRecipes(context.Background(), doc, "Arrabiata"))

	deadline := time.Now().Add(3 * time.Second)
	for !strings.Contains(string(doc.View(view.TargetMeals).HTML), "Spicy Arrabiata Penne") {
		if time.Now().After(deadline) {
			close(release)
			t.Fatal("search results never rendered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The detail response arrives after the newer search and must not clear it.
	close(release)
	b.Wait()

	assert.True(t, doc.View(view.TargetDetails).Visible)
	assert.Equal(t, "Beef Wellington", target(t, doc, view.TargetDetails).Find("h2").Text())
	grid := target(t, doc, view.TargetMeals)
	require.Equal(t, 1, grid.Find(".meal-item").Length())
	assert.Equal(t, "Spicy Arrabiata Penne", grid.Find("h3").Text())
}

func TestUpstreamFailureKeepsContent(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		target   view.Target
		notice   string
		issue    func(b *Browser, doc *view.Document)
	}{
		{
			name:     "category meals",
			endpoint: "/filter.php",
			target:   view.TargetMeals,
			notice:   noticeMeals,
			issue: func(b *Browser, doc *view.Document) {
				b.FetchMealsByCategory(context.Background(), doc, "Beef")
			},
		},
		{
			name:     "search",
			endpoint: "/search.php",
			target:   view.TargetMeals,
			notice:   noticeMeals,
			issue: func(b *Browser, doc *view.Document) {
				_ = b.SearchRecipes(context.Background(), doc, "Arrabiata")
			},
		},
		{
			name:     "meal details",
			endpoint: "/lookup.php",
			target:   view.TargetDetails,
			notice:   noticeDetails,
			issue: func(b *Browser, doc *view.Document) {
				b.FetchMealDetails(context.Background(), doc, "52771")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, fake, doc, rec := testBrowser(t)
			for _, tgt := range []view.Target{view.TargetMeals, view.TargetDetails} {
				doc.Render(tgt, doc.Begin(tgt), template.HTML("<p>previous "+string(tgt)+"</p>"))
			}
			doc.SetVisible(view.TargetDetails, true)
			before := map[view.Target]view.TargetView{
				view.TargetMeals:   doc.View(view.TargetMeals),
				view.TargetDetails: doc.View(view.TargetDetails),
			}
			fake.Hook = func(r *http.Request) bool { return r.URL.Path != tt.endpoint }

			tt.issue(b, doc)
			b.Wait()

			for tgt, want := range before {
				assert.Equal(t, want, doc.View(tgt), "target %s", tgt)
			}
			notices := rec.kind(view.ChangeNotice)
			require.Len(t, notices, 1)
			assert.Equal(t, tt.notice, notices[0].Message)
			assert.Len(t, fake.Requests(), 1)
		})
	}
}
