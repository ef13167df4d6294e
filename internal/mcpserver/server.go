// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the recipe catalog to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/mealboard/internal/apperr"
	"github.com/starford/mealboard/internal/models"
)

const formatURI = "mealboard://meal-format"

// Catalog is the recipe source queried by the tools.
type Catalog interface {
	Categories(ctx context.Context) ([]models.Category, error)
	MealsByCategory(ctx context.Context, category string) ([]models.MealSummary, error)
	SearchMeals(ctx context.Context, query string) ([]models.MealSummary, error)
	MealByID(ctx context.Context, id string) (*models.MealDetail, error)
}

// Server wraps the MCP server with the catalog tools.
type Server struct {
	mcp     *server.MCPServer
	catalog Catalog
	logger  *slog.Logger
}

// New creates a new MCP server with all tools registered.
func New(catalog Catalog, logger *slog.Logger) *Server {
	s := &Server{catalog: catalog, logger: logger}

	s.mcp = server.NewMCPServer(
		"Mealboard",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List all recipe categories."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("list_meals_by_category",
		mcp.WithDescription("List the meals of one category."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category name (e.g. Seafood)")),
	), s.listMealsByCategory)

	s.mcp.AddTool(mcp.NewTool("search_meals",
		mcp.WithDescription("Search meals by name."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Recipe name or part of it")),
	), s.searchMeals)

	s.mcp.AddTool(mcp.NewTool("get_meal",
		mcp.WithDescription("Get the full recipe of a meal, including ingredients and instructions. "+
			"The result shape is described by the mealboard://meal-format resource."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Meal id as returned by the list tools")),
	), s.getMeal)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Meal Format",
			mcp.WithResourceDescription("JSON shapes returned by the recipe tools."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMealFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// requireArg returns the trimmed string argument key or an error when it is
// missing or blank.
func requireArg(req mcp.CallToolRequest, key string) (string, error) {
	value := strings.TrimSpace(req.GetString(key, ""))
	if err := validation.Validate(value, validation.Required); err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func (s *Server) jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) upstreamError(tool string, err error) (*mcp.CallToolResult, error) {
	s.logger.Error("mcp tool failed", slog.String("tool", tool), slog.String("error", err.Error()))
	return mcp.NewToolResultError(err.Error()), nil
}

func (s *Server) listCategories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		return s.upstreamError("list_categories", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return s.jsonResult(categories)
}

func (s *Server) listMealsByCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := requireArg(req, "category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	meals, err := s.catalog.MealsByCategory(ctx, category)
	if err != nil {
		return s.upstreamError("list_meals_by_category", err)
	}
	if meals == nil {
		meals = []models.MealSummary{}
	}
	return s.jsonResult(meals)
}

func (s *Server) searchMeals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := requireArg(req, "query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	meals, err := s.catalog.SearchMeals(ctx, query)
	if err != nil {
		return s.upstreamError("search_meals", err)
	}
	if meals == nil {
		meals = []models.MealSummary{}
	}
	return s.jsonResult(meals)
}

func (s *Server) getMeal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireArg(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	meal, err := s.catalog.MealByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("meal not found: %s", id)), nil
		}
		return s.upstreamError("get_meal", err)
	}
	return s.jsonResult(meal)
}

func (s *Server) readMealFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     MealFormat,
		},
	}, nil
}
