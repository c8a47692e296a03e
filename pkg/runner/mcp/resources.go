package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerProjectsResource(srv, svc)
	registerProjectTemplate(srv, svc)
	registerTaskTemplate(srv, svc)
}

func registerProjectsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"gantt://projects",
		"Projects",
		mcp.WithResourceDescription("All available projects with aggregate schedule metadata."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		summaries, err := svc.ListProjects(ctx)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"projects": summaries,
			"count":    len(summaries),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerProjectTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"gantt://projects/{name}",
		"Project Tasks",
		mcp.WithTemplateDescription("Tasks that belong to a project, in display order."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name, _ := request.Params.Arguments["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("project name is required")
		}

		tasks, err := svc.ListTasks(ctx, name)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"project": name,
			"count":   len(tasks),
			"tasks":   tasks,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerTaskTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"gantt://tasks/{id}",
		"Task Details",
		mcp.WithTemplateDescription("Detailed information about a single task."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, _ := request.Params.Arguments["id"].(string)
		if id == "" {
			return nil, fmt.Errorf("task id is required")
		}

		dto, err := svc.findTask(ctx, id)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"task": dto,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
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
