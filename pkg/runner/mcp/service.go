// Package mcp provides the Model Context Protocol server integration for gantt.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"tableflip.dev/gantt/pkg/app"
	"tableflip.dev/gantt/pkg/curve"
	"tableflip.dev/gantt/pkg/depgraph"
	"tableflip.dev/gantt/pkg/drag"
	"tableflip.dev/gantt/pkg/store"
	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/timeutil"
	"tableflip.dev/gantt/pkg/tree"
)

// Service coordinates persistence-backed operations that are shared by the MCP server.
type Service struct {
	Persistence store.Persistence
	App         *app.Service
}

// ErrTaskNotFound is returned when a task cannot be located in persistence.
var ErrTaskNotFound = errors.New("task not found")

// CreateTaskOptions captures the parameters used to create a new task.
type CreateTaskOptions struct {
	Project        string
	Name           string
	ParentID       string
	Group          bool
	Category       string
	Subcategory    string
	Subsubcategory string
	PlanStart      string
	PlanEnd        string
	Cost           float64
	Quantity       string
	Responsible    string
}

// ProjectSummaryDTO describes a project and basic aggregate metadata.
type ProjectSummaryDTO struct {
	Name        string  `json:"name"`
	TaskCount   int     `json:"taskCount"`
	LeafCount   int     `json:"leafCount"`
	PlanStart   string  `json:"planStart,omitempty"`
	PlanEnd     string  `json:"planEnd,omitempty"`
	TotalCost   float64 `json:"totalCost"`
	AvgProgress float64 `json:"avgProgress"`
	WeightBasis string  `json:"weightBasis"`
}

// TaskDTO is a transport-friendly projection of a task.
type TaskDTO struct {
	ID             string   `json:"id"`
	Project        string   `json:"project"`
	Name           string   `json:"name"`
	ParentID       string   `json:"parentId,omitempty"`
	Category       string   `json:"category,omitempty"`
	Subcategory    string   `json:"subcategory,omitempty"`
	Subsubcategory string   `json:"subsubcategory,omitempty"`
	Type           string   `json:"type"`
	PlanStart      string   `json:"planStart,omitempty"`
	PlanEnd        string   `json:"planEnd,omitempty"`
	DurationDays   int      `json:"durationDays"`
	ActualStart    string   `json:"actualStart,omitempty"`
	ActualEnd      string   `json:"actualEnd,omitempty"`
	Progress       int      `json:"progress"`
	Cost           float64  `json:"cost,omitempty"`
	Quantity       string   `json:"quantity,omitempty"`
	Responsible    string   `json:"responsible,omitempty"`
	Status         string   `json:"status"`
	Predecessors   []string `json:"predecessors,omitempty"`
	Order          float64  `json:"order"`
}

// CurveDTO is the cumulative progress series for a project.
type CurveDTO struct {
	Start  string    `json:"start"`
	Days   int       `json:"days"`
	Plan   []float64 `json:"plan"`
	Actual []float64 `json:"actual"`
}

// NewService builds a service wrapper using the provided persistence layer.
func NewService(p store.Persistence) *Service {
	return &Service{Persistence: p, App: &app.Service{Persistence: p}}
}

// ListProjects returns summaries for every project in persistence.
func (s *Service) ListProjects(ctx context.Context) ([]ProjectSummaryDTO, error) {
	if s.Persistence == nil {
		return nil, errors.New("persistence is not configured")
	}

	metas := s.Persistence.Projects(ctx, "")
	summaries := make([]ProjectSummaryDTO, 0, len(metas))
	for _, meta := range metas {
		dto, err := s.ProjectSummary(ctx, meta.Name)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *dto)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return strings.ToLower(summaries[i].Name) < strings.ToLower(summaries[j].Name)
	})
	return summaries, nil
}

// ProjectSummary rolls one project up into aggregate metadata.
func (s *Service) ProjectSummary(ctx context.Context, proj string) (*ProjectSummaryDTO, error) {
	if s.Persistence == nil {
		return nil, errors.New("persistence is not configured")
	}
	if proj == "" {
		return nil, errors.New("project is required")
	}

	idx := tree.Build(s.Persistence.List(ctx, proj))
	weights, basis := curve.LeafWeights(idx.Leaves())
	summary := curve.ProjectSummary(idx, weights)

	return &ProjectSummaryDTO{
		Name:        proj,
		TaskCount:   idx.Len(),
		LeafCount:   summary.Leaves,
		PlanStart:   summary.Start.String(),
		PlanEnd:     summary.End.String(),
		TotalCost:   summary.TotalCost,
		AvgProgress: summary.AvgProgress,
		WeightBasis: string(basis),
	}, nil
}

// ListTasks gathers tasks for the requested project.
func (s *Service) ListTasks(ctx context.Context, proj string) ([]TaskDTO, error) {
	if s.Persistence == nil {
		return nil, errors.New("persistence is not configured")
	}
	if proj == "" {
		return nil, errors.New("project is required")
	}
	tasks := s.Persistence.List(ctx, proj)
	return rollUpGroups(tree.Build(tasks), toDTOs(tasks)), nil
}

// CreateTask persists a new task using the supplied options.
func (s *Service) CreateTask(ctx context.Context, opts CreateTaskOptions) (*TaskDTO, error) {
	if s.Persistence == nil {
		return nil, errors.New("persistence is not configured")
	}
	if opts.Project == "" {
		return nil, errors.New("project is required")
	}

	fields := task.Fields{}
	if opts.Group {
		typ := task.TypeGroup
		fields.Type = &typ
	}
	setString(&fields.Category, opts.Category)
	setString(&fields.Subcategory, opts.Subcategory)
	setString(&fields.Subsubcategory, opts.Subsubcategory)
	setString(&fields.Responsible, opts.Responsible)
	setString(&fields.Quantity, opts.Quantity)
	if opts.Cost != 0 {
		fields.Cost = &opts.Cost
	}
	if opts.PlanStart != "" {
		d, err := task.ParseDate(opts.PlanStart)
		if err != nil {
			return nil, fmt.Errorf("invalid planStart: %w", err)
		}
		fields.PlanStart = &d
	}
	if opts.PlanEnd != "" {
		d, err := task.ParseDate(opts.PlanEnd)
		if err != nil {
			return nil, fmt.Errorf("invalid planEnd: %w", err)
		}
		fields.PlanEnd = &d
	}

	t, err := s.App.Create(ctx, opts.Project, opts.Name, opts.ParentID, fields)
	if err != nil {
		return nil, err
	}
	dto := toDTO(t)
	return &dto, nil
}

// UpdateTask applies a partial update to a task.
func (s *Service) UpdateTask(ctx context.Context, proj, id string, fields task.Fields) (*TaskDTO, error) {
	t, err := s.App.Update(ctx, proj, id, fields)
	if err != nil {
		return nil, mapNotFound(err, id)
	}
	dto := toDTO(t)
	return &dto, nil
}

// RescheduleTask moves a task's plan or actual bar to new dates.
func (s *Service) RescheduleTask(ctx context.Context, proj, id, start, end string, actual, cascade bool) (*TaskDTO, error) {
	from, err := task.ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("invalid start: %w", err)
	}
	to, err := task.ParseDate(end)
	if err != nil {
		return nil, fmt.Errorf("invalid end: %w", err)
	}
	if to.Time.Before(from.Time) {
		return nil, fmt.Errorf("end %s precedes start %s", to, from)
	}

	bar := drag.BarPlan
	if actual {
		bar = drag.BarActual
	}

	svc := s.App
	if cascade != svc.Cascade {
		svc = &app.Service{Persistence: s.Persistence, Cascade: cascade}
	}
	t, err := svc.Reschedule(ctx, proj, id, bar, from, to)
	if err != nil {
		return nil, mapNotFound(err, id)
	}
	dto := toDTO(t)
	return &dto, nil
}

// SetProgress updates percent complete for a task.
func (s *Service) SetProgress(ctx context.Context, proj, id string, pct int) (*TaskDTO, error) {
	t, err := s.App.SetProgress(ctx, proj, id, pct)
	if err != nil {
		return nil, mapNotFound(err, id)
	}
	dto := toDTO(t)
	return &dto, nil
}

// LinkTasks records target as dependent on source (end to start).
func (s *Service) LinkTasks(ctx context.Context, proj, source, target string) (*TaskDTO, error) {
	t, err := s.App.Link(ctx, proj, source, depgraph.AnchorEnd, target, depgraph.AnchorStart)
	if err != nil {
		return nil, err
	}
	dto := toDTO(t)
	return &dto, nil
}

// UnlinkTasks removes the dependency of target on source.
func (s *Service) UnlinkTasks(ctx context.Context, proj, source, target string) (*TaskDTO, error) {
	t, err := s.App.Unlink(ctx, proj, source, target)
	if err != nil {
		return nil, mapNotFound(err, target)
	}
	dto := toDTO(t)
	return &dto, nil
}

// DeleteTask removes a task permanently.
func (s *Service) DeleteTask(ctx context.Context, proj, id string) error {
	if err := s.App.Delete(ctx, proj, id); err != nil {
		return mapNotFound(err, id)
	}
	return nil
}

// SCurve computes the cumulative plan and actual progress series.
func (s *Service) SCurve(ctx context.Context, proj, asOf string) (*CurveDTO, error) {
	if s.Persistence == nil {
		return nil, errors.New("persistence is not configured")
	}
	ref := time.Now()
	if asOf != "" {
		d, err := task.ParseDate(asOf)
		if err != nil {
			return nil, fmt.Errorf("invalid asOf: %w", err)
		}
		ref = d.Time
	}

	idx := tree.Build(s.Persistence.List(ctx, proj))
	weights, _ := curve.LeafWeights(idx.Leaves())
	summary := curve.ProjectSummary(idx, weights)
	if summary.Start.IsZero() || summary.End.IsZero() {
		return &CurveDTO{}, nil
	}

	series := curve.SCurve(idx, summary.Start.Time, summary.End.Time, ref)
	return &CurveDTO{
		Start:  task.DateOf(series.Start).String(),
		Days:   len(series.Days),
		Plan:   series.Plan,
		Actual: series.Actual,
	}, nil
}

// SearchTasks performs a substring match across task names and categories.
func (s *Service) SearchTasks(ctx context.Context, query string, limit int) ([]TaskDTO, error) {
	if s.Persistence == nil {
		return nil, errors.New("persistence is not configured")
	}
	q := strings.TrimSpace(strings.ToLower(query))
	if q == "" {
		return []TaskDTO{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	all := s.Persistence.ListAll(ctx)
	results := make([]TaskDTO, 0, limit)
	for _, t := range all {
		if len(results) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.Category), q) ||
			strings.Contains(strings.ToLower(t.Responsible), q) {
			results = append(results, toDTO(t))
		}
	}
	return results, nil
}

// TaskByID locates a task by id and returns the DTO representation.
func (s *Service) TaskByID(ctx context.Context, proj, id string) (*TaskDTO, error) {
	if s.Persistence == nil {
		return nil, errors.New("persistence is not configured")
	}
	if id == "" {
		return nil, errors.New("id is required")
	}
	t, err := s.Persistence.Get(ctx, proj, id)
	if err != nil {
		return nil, mapNotFound(err, id)
	}
	idx := tree.Build(s.Persistence.List(ctx, t.Project))
	dtos := rollUpGroups(idx, []TaskDTO{toDTO(t)})
	return &dtos[0], nil
}

// findTask scans every project for the id. Used by resources that address
// tasks without naming a project.
func (s *Service) findTask(ctx context.Context, id string) (*TaskDTO, error) {
	if s.Persistence == nil {
		return nil, errors.New("persistence is not configured")
	}
	for _, t := range s.Persistence.ListAll(ctx) {
		if t.ID == id {
			idx := tree.Build(s.Persistence.List(ctx, t.Project))
			dtos := rollUpGroups(idx, []TaskDTO{toDTO(t)})
			return &dtos[0], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// ParseStatus resolves a user supplied status string.
func ParseStatus(v string) (task.Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "not-started", "notstarted":
		return task.StatusNotStarted, nil
	case "in-progress", "inprogress":
		return task.StatusInProgress, nil
	case "completed", "complete", "done":
		return task.StatusCompleted, nil
	case "delayed", "late":
		return task.StatusDelayed, nil
	default:
		return task.StatusNotStarted, fmt.Errorf("unknown status %q", v)
	}
}

func mapNotFound(err error, id string) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, app.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return err
}

func setString(dst **string, v string) {
	if v != "" {
		*dst = &v
	}
}

func toDTOs(tasks []*task.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toDTO(t))
	}
	return out
}

func toDTO(t *task.Task) TaskDTO {
	dto := TaskDTO{
		ID:             t.ID,
		Project:        t.Project,
		Name:           t.Name,
		ParentID:       t.ParentID,
		Category:       t.Category,
		Subcategory:    t.Subcategory,
		Subsubcategory: t.Subsubcategory,
		Type:           string(t.Type),
		PlanStart:      t.PlanStart.String(),
		PlanEnd:        t.PlanEnd.String(),
		DurationDays:   t.Duration(),
		Progress:       t.Progress,
		Cost:           t.Cost,
		Quantity:       t.Quantity,
		Responsible:    t.Responsible,
		Status:         string(t.Status),
		Predecessors:   append([]string(nil), t.Predecessors...),
		Order:          t.Order,
	}
	if t.ActualStart != nil {
		dto.ActualStart = t.ActualStart.String()
	}
	if t.ActualEnd != nil {
		dto.ActualEnd = t.ActualEnd.String()
	}
	return dto
}

// rollUpGroups replaces each group DTO's plan window, duration, progress,
// and cost with the roll-up of its leaf descendants.
func rollUpGroups(idx *tree.Index, dtos []TaskDTO) []TaskDTO {
	weights, _ := curve.LeafWeights(idx.Leaves())
	for i := range dtos {
		if !idx.HasChildren(dtos[i].ID) {
			continue
		}
		s := curve.GroupSummary(idx, dtos[i].ID, weights)
		dtos[i].PlanStart = s.Start.String()
		dtos[i].PlanEnd = s.End.String()
		dtos[i].DurationDays = 0
		if !s.Start.IsZero() && !s.End.IsZero() {
			dtos[i].DurationDays = timeutil.DaysBetween(s.Start.Time, s.End.Time) + 1
		}
		dtos[i].Progress = int(s.AvgProgress + 0.5)
		dtos[i].Cost = s.TotalCost
	}
	return dtos
}
