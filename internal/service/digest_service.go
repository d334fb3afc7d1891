package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

// DigestService builds the periodic overdue-task summary.
type DigestService struct {
	tasks *repository.TaskRepository
	users *repository.UserRepository
}

func NewDigestService(tasks *repository.TaskRepository, users *repository.UserRepository) *DigestService {
	return &DigestService{tasks: tasks, users: users}
}

// OverdueSummary lists unfinished tasks past their deadline, grouped by
// owner, as HTML-safe text. It also returns how many tasks were listed.
func (s *DigestService) OverdueSummary(ctx context.Context, now time.Time) (string, int, error) {
	tasks, err := s.tasks.ListOverdue(ctx, now)
	if err != nil {
		return "", 0, storage("overdue digest", err)
	}

	users, err := s.users.ListAll(ctx)
	if err != nil {
		return "", 0, storage("overdue digest", err)
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	byOwner := make(map[uint][]model.Task)
	var owners []uint
	for _, task := range tasks {
		if _, seen := byOwner[task.UserID]; !seen {
			owners = append(owners, task.UserID)
		}
		byOwner[task.UserID] = append(byOwner[task.UserID], task)
	}

	var builder strings.Builder
	builder.WriteString("<b>Overdue tasks</b>\n")
	builder.WriteString(fmt.Sprintf("%s\n", now.Format(model.DeadlineLayout)))

	if len(tasks) == 0 {
		builder.WriteString("\nNothing is overdue.\n")
		return strings.TrimSpace(builder.String()), 0, nil
	}

	for _, owner := range owners {
		name := names[owner]
		if name == "" {
			name = fmt.Sprintf("user #%d", owner)
		}
		builder.WriteString(fmt.Sprintf("\n<b>%s</b>\n", html.EscapeString(name)))
		for _, task := range byOwner[owner] {
			builder.WriteString(formatOverdue(task, now))
		}
	}

	return strings.TrimSpace(builder.String()), len(tasks), nil
}

func formatOverdue(task model.Task, now time.Time) string {
	title := html.EscapeString(strings.TrimSpace(task.Title))
	line := fmt.Sprintf("- #%d %s [%s, %s] due %s", task.ID, title, task.Priority, task.Status, task.Deadline)
	if d, err := time.ParseInLocation(model.DeadlineLayout, task.Deadline, now.Location()); err == nil {
		days := int(now.Sub(d).Hours() / 24)
		if days > 0 {
			line += fmt.Sprintf(" (%d d late)", days)
		}
	}
	return line + "\n"
}
