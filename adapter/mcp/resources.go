package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/taskrank/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/services"
)

// RegisterResources registers MCP resources that expose stored tasks and rankings.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Resource("taskrank://tasks").
		Name("Tasks").
		Description("Every stored task in id order").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListTasksHandler == nil {
				return nil, fmt.Errorf("task listing requires a task store")
			}
			tasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, tasks)
		})

	srv.Resource("taskrank://suggestions/today").
		Name("Today's Suggestions").
		Description("The top stored tasks under the default strategy").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.SuggestTasksHandler == nil {
				return nil, fmt.Errorf("suggestions require a task store")
			}
			result, err := app.SuggestTasksHandler.Handle(ctx, queries.SuggestTasksQuery{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, result)
		})

	srv.Resource("taskrank://strategies").
		Name("Strategies").
		Description("Scoring strategies and their formulas").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return jsonResource(uri, services.Strategies())
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
