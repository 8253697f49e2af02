package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service, writable bool) {
	registerListModelsTool(srv, svc)
	registerListSectionsTool(srv, svc)
	registerGetNodeTool(srv, svc)
	if writable {
		registerUpdateNodeTool(srv, svc)
	}
}

func registerListModelsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_models",
		mcp.WithDescription("List the stored class models."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summaries, err := svc.ListModels(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"models": summaries,
			"count":  len(summaries),
		})
	})
}

func registerListSectionsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_sections",
		mcp.WithDescription("List the sections of a model and the node keys in each."),
		mcp.WithString("model",
			mcp.Required(),
			mcp.Description("Name of the stored model."),
		),
		mcp.WithBoolean("items",
			mcp.Description("Include the nodes of every section (default true)."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("model")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		items := request.GetBool("items", true)

		sections, err := svc.ListSections(ctx, name, items)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"model":    name,
			"sections": sections,
		})
	})
}

func registerGetNodeTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_node",
		mcp.WithDescription("Fetch a node by key along with its notation text."),
		mcp.WithString("model",
			mcp.Required(),
			mcp.Description("Name of the stored model."),
		),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Node key such as class:Book or op:Book:0."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Model string `json:"model"`
			Key   string `json:"key"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.GetNode(ctx, strings.TrimSpace(args.Model), args.Key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerUpdateNodeTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_node",
		mcp.WithDescription("Replace a node's notation text. Text that does not convert is kept as notes on the node."),
		mcp.WithString("model",
			mcp.Required(),
			mcp.Description("Name of the stored model."),
		),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Node key to update."),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("New notation text for the node."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Model string `json:"model"`
			Key   string `json:"key"`
			Text  string `json:"text"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if strings.TrimSpace(args.Model) == "" {
			return mcp.NewToolResultError("model is required"), nil
		}

		dto, err := svc.UpdateNode(ctx, strings.TrimSpace(args.Model), args.Key, args.Text)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
