package service

import (
	"context"
	"time"

	"taskhub/internal/model"
	"taskhub/internal/repository"
)

// PriorityCount is one point of the dashboard priority chart
type PriorityCount struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// ActiveUser is the trimmed-down user projection exposed on the dashboard
type ActiveUser struct {
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type DashboardSummary struct {
	TotalTasks     int             `json:"totalTasks"`
	RecentTasks    []model.Task    `json:"last10Task"`
	StageCounts    map[string]int  `json:"tasks"`
	PriorityCounts []PriorityCount `json:"graphData"`
	ActiveUsers    []ActiveUser    `json:"users"`
}

// Summarize reduces the current non-trashed task set into grouped counts by
// stage and priority plus a recent-tasks slice. Scoped to the owner unless
// admin. Priority counts keep first-seen order, not alphabetical. Pure read.
func (s *TaskService) Summarize(ctx context.Context, ownerID uint, isAdmin bool) (*DashboardSummary, error) {
	tasks, err := s.tasks.List(ctx, repository.TaskListFilter{
		OwnerID:    ownerID,
		AdminScope: isAdmin,
		IsTrashed:  false,
	})
	if err != nil {
		return nil, err
	}

	stageCounts := make(map[string]int)
	for _, t := range tasks {
		stageCounts[t.Stage]++
	}

	priorityCounts := []PriorityCount{}
	seen := make(map[string]int)
	for _, t := range tasks {
		if i, ok := seen[t.Priority]; ok {
			priorityCounts[i].Total++
			continue
		}
		seen[t.Priority] = len(priorityCounts)
		priorityCounts = append(priorityCounts, PriorityCount{Name: t.Priority, Total: 1})
	}

	recent := tasks
	if len(recent) > 10 {
		recent = recent[:10]
	}

	summary := &DashboardSummary{
		TotalTasks:     len(tasks),
		RecentTasks:    recent,
		StageCounts:    stageCounts,
		PriorityCounts: priorityCounts,
		ActiveUsers:    []ActiveUser{},
	}

	if isAdmin {
		users, err := s.users.ListActive(ctx, 10)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			summary.ActiveUsers = append(summary.ActiveUsers, ActiveUser{
				Name:      u.Name,
				Title:     u.Title,
				Role:      u.Role,
				CreatedAt: u.CreatedAt,
			})
		}
	}

	return summary, nil
}

// DueTomorrow retrieves the non-trashed, not completed tasks due on the next
// calendar day. This query is the reminder job's only contract with the core.
func (s *TaskService) DueTomorrow(ctx context.Context) ([]model.Task, error) {
	return s.tasks.DueOn(ctx, truncateDate(time.Now().AddDate(0, 0, 1)))
}
