package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerModelsResource(srv, svc)
	registerModelTemplate(srv, svc)
}

func registerModelsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"modelnav://models",
		"Models",
		mcp.WithResourceDescription("All stored class models with element counts."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		summaries, err := svc.ListModels(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"models": summaries,
			"count":  len(summaries),
		})
	})
}

func registerModelTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"modelnav://models/{name}",
		"Model",
		mcp.WithTemplateDescription("The full structured model, including text kept as notes."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name := templateArg(request.Params.Arguments["name"])
		if name == "" {
			return nil, fmt.Errorf("model name is required")
		}
		m, err := svc.Model(ctx, name)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, m)
	})
}

// templateArg accepts both a bare string and the single-element slice some
// template matchers produce.
func templateArg(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
