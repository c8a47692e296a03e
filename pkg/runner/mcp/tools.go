package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/gantt/pkg/task"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerCreateTaskTool(srv, svc)
	registerUpdateTaskTool(srv, svc)
	registerRescheduleTaskTool(srv, svc)
	registerSetProgressTool(srv, svc)
	registerLinkTasksTool(srv, svc)
	registerUnlinkTasksTool(srv, svc)
	registerDeleteTaskTool(srv, svc)
	registerListTasksTool(srv, svc)
	registerListProjectsTool(srv, svc)
	registerProjectSummaryTool(srv, svc)
	registerSCurveTool(srv, svc)
	registerSearchTasksTool(srv, svc)
	registerGetTaskTool(srv, svc)
}

func registerCreateTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_task",
		mcp.WithDescription("Create a new task or group in a project schedule."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project that should hold the new task."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Display name for the task."),
		),
		mcp.WithString("parent_id",
			mcp.Description("Optional parent group identifier."),
		),
		mcp.WithBoolean("group",
			mcp.Description("Create a group instead of a leaf task."),
		),
		mcp.WithString("category",
			mcp.Description("Top level category label."),
		),
		mcp.WithString("subcategory",
			mcp.Description("Second level category label."),
		),
		mcp.WithString("subsubcategory",
			mcp.Description("Third level category label."),
		),
		mcp.WithString("plan_start",
			mcp.Description("Planned start date such as 2024-09-01 or 1/9/2024."),
		),
		mcp.WithString("plan_end",
			mcp.Description("Planned end date."),
		),
		mcp.WithNumber("cost",
			mcp.Description("Budgeted cost used for weighted progress."),
		),
		mcp.WithString("quantity",
			mcp.Description("Quantity label such as 120 m3."),
		),
		mcp.WithString("responsible",
			mcp.Description("Person or crew responsible for the work."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Project        string  `json:"project"`
			Name           string  `json:"name"`
			ParentID       string  `json:"parent_id"`
			Group          bool    `json:"group"`
			Category       string  `json:"category"`
			Subcategory    string  `json:"subcategory"`
			Subsubcategory string  `json:"subsubcategory"`
			PlanStart      string  `json:"plan_start"`
			PlanEnd        string  `json:"plan_end"`
			Cost           float64 `json:"cost"`
			Quantity       string  `json:"quantity"`
			Responsible    string  `json:"responsible"`
		}

		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.CreateTask(ctx, CreateTaskOptions{
			Project:        args.Project,
			Name:           args.Name,
			ParentID:       args.ParentID,
			Group:          args.Group,
			Category:       args.Category,
			Subcategory:    args.Subcategory,
			Subsubcategory: args.Subsubcategory,
			PlanStart:      args.PlanStart,
			PlanEnd:        args.PlanEnd,
			Cost:           args.Cost,
			Quantity:       args.Quantity,
			Responsible:    args.Responsible,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return toJSONResult(dto)
	})
}

func registerUpdateTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_task",
		mcp.WithDescription("Update fields on an existing task. Omitted fields are left unchanged."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project containing the task."),
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier to modify."),
		),
		mcp.WithString("name",
			mcp.Description("New display name."),
		),
		mcp.WithString("responsible",
			mcp.Description("New responsible person or crew."),
		),
		mcp.WithNumber("cost",
			mcp.Description("New budgeted cost."),
		),
		mcp.WithString("quantity",
			mcp.Description("New quantity label."),
		),
		mcp.WithString("status",
			mcp.Description("New status value."),
			mcp.Enum("not-started", "in-progress", "completed", "delayed"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := request.RequireString("project")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		fields := task.Fields{}
		if v := request.GetString("name", ""); v != "" {
			fields.Name = &v
		}
		if v := request.GetString("responsible", ""); v != "" {
			fields.Responsible = &v
		}
		if v := request.GetFloat("cost", -1); v >= 0 {
			fields.Cost = &v
		}
		if v := request.GetString("quantity", ""); v != "" {
			fields.Quantity = &v
		}
		if v := request.GetString("status", ""); v != "" {
			status, err := ParseStatus(v)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			fields.Status = &status
		}

		dto, err := svc.UpdateTask(ctx, project, id, fields)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerRescheduleTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"reschedule_task",
		mcp.WithDescription("Move a task's plan or actual bar to new dates."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project containing the task."),
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier to reschedule."),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("New start date."),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("New end date."),
		),
		mcp.WithBoolean("actual",
			mcp.Description("Move the actual bar instead of the plan bar."),
		),
		mcp.WithBoolean("cascade",
			mcp.Description("Shift transitive successors by the same number of days."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Project string `json:"project"`
			ID      string `json:"id"`
			Start   string `json:"start"`
			End     string `json:"end"`
			Actual  bool   `json:"actual"`
			Cascade bool   `json:"cascade"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.RescheduleTask(ctx, args.Project, args.ID, args.Start, args.End, args.Actual, args.Cascade)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSetProgressTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"set_progress",
		mcp.WithDescription("Set percent complete on a task. Status follows automatically unless delayed."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project containing the task."),
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier to update."),
		),
		mcp.WithNumber("percent",
			mcp.Required(),
			mcp.Description("Percent complete between 0 and 100."),
			mcp.Min(0),
			mcp.Max(100),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := request.RequireString("project")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		pct := request.GetInt("percent", 0)

		dto, err := svc.SetProgress(ctx, project, id, pct)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerLinkTasksTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"link_tasks",
		mcp.WithDescription("Link two tasks end to start so the target depends on the source."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project containing both tasks."),
		),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Predecessor task identifier."),
		),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Dependent task identifier."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := request.RequireString("project")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		source, err := request.RequireString("source")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		target, err := request.RequireString("target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.LinkTasks(ctx, project, source, target)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerUnlinkTasksTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"unlink_tasks",
		mcp.WithDescription("Remove a dependency link between two tasks."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project containing both tasks."),
		),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Predecessor task identifier."),
		),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Dependent task identifier."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := request.RequireString("project")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		source, err := request.RequireString("source")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		target, err := request.RequireString("target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.UnlinkTasks(ctx, project, source, target)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerDeleteTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_task",
		mcp.WithDescription("Delete a task. Children are kept and promoted; dangling links are removed."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project containing the task."),
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier to delete."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := request.RequireString("project")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := svc.DeleteTask(ctx, project, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"deleted": id,
			"project": project,
		})
	})
}

func registerListTasksTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List every task in a project, ordered by display order."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project to list."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := request.RequireString("project")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		results, err := svc.ListTasks(ctx, project)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"project": project,
			"tasks":   results,
			"count":   len(results),
		})
	})
}

func registerListProjectsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_projects",
		mcp.WithDescription("List all projects with aggregate schedule metadata."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summaries, err := svc.ListProjects(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"projects": summaries,
			"count":    len(summaries),
		})
	})
}

func registerProjectSummaryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"project_summary",
		mcp.WithDescription("Roll one project up into date range, cost, and weighted progress."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project to summarize."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := request.RequireString("project")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		summary, err := svc.ProjectSummary(ctx, project)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(summary)
	})
}

func registerSCurveTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"s_curve",
		mcp.WithDescription("Compute the daily cumulative plan and actual progress series for a project."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project to compute."),
		),
		mcp.WithString("as_of",
			mcp.Description("Reference date for in-flight actuals (default today)."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := request.RequireString("project")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		asOf := strings.TrimSpace(request.GetString("as_of", ""))

		series, err := svc.SCurve(ctx, project, asOf)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(series)
	})
}

func registerSearchTasksTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_tasks",
		mcp.WithDescription("Search tasks by substring match across names, categories, and responsible."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive search text."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tasks to return (default 20)."),
			mcp.Min(1),
			mcp.Max(100),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 20)

		results, err := svc.SearchTasks(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query":   query,
			"limit":   limit,
			"results": results,
			"count":   len(results),
		})
	})
}

func registerGetTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_task",
		mcp.WithDescription("Fetch a single task by identifier."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project containing the task."),
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier to fetch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := request.RequireString("project")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.TaskByID(ctx, project, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
