package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common prioritization workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("daily_priorities").
		Description("Pick what to work on today from the stored tasks.").
		Argument("strategy", "Scoring strategy: fastest_wins, high_impact, deadline_driven or smart_balance", false).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			strategy := args["strategy"]
			if strategy == "" {
				strategy = "smart_balance"
			}
			return userPrompt("Daily Priorities", fmt.Sprintf(`Help me decide what to work on today.

1. Call tasks.suggest with strategy %q and limit 5.
2. Read the explanation of each suggestion.
3. If any task is flagged as part of a circular dependency, point it out and propose which dependency to drop.

Then give me an ordered plan for the day with one sentence per task on why it is there.`, strategy)), nil
		})

	srv.Prompt("compare_strategies").
		Description("Rank the same stored tasks under every strategy and compare the results.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Strategy Comparison", `Compare how my stored tasks rank under each strategy.

1. Call strategies.list.
2. Call tasks.suggest once per strategy with limit 3.
3. Summarize which tasks stay on top everywhere and which only win under one strategy.

Recommend one strategy for this week and say why.`), nil
		})

	srv.Prompt("untangle_dependencies").
		Description("Find blocking tasks and circular dependencies in the backlog.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Dependency Review", `Review the dependencies in my backlog.

1. Read the taskrank://tasks resource.
2. Call tasks.analyze with those tasks and strategy high_impact.
3. List the tasks that block others, most blocking first.
4. List every task whose explanation mentions a circular dependency and propose the smallest change that breaks each cycle.`), nil
		})

	return nil
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}
