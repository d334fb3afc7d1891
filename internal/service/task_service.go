package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

// TaskInput carries every mutable task field. Updates resupply all of them.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	Deadline    string
}

func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid("title", "is required")
	}
	if !model.IsStatus(in.Status) {
		return invalid("status", "must be one of "+strings.Join(model.Statuses, ", "))
	}
	if !model.IsPriority(in.Priority) {
		return invalid("priority", "must be one of "+strings.Join(model.Priorities, ", "))
	}
	if err := validateDate(in.Deadline); err != nil {
		return invalid("deadline", err.Error())
	}
	return nil
}

// ValidateFilter rejects filter values that could never match a stored task.
func ValidateFilter(f repository.TaskFilter) error {
	if f.Status != "" && f.Status != model.FilterAll && !model.IsStatus(f.Status) {
		return invalid("status", "unknown status filter")
	}
	if f.Priority != "" && f.Priority != model.FilterAll && !model.IsPriority(f.Priority) {
		return invalid("priority", "unknown priority filter")
	}
	if f.DeadlineBefore != "" {
		if err := validateDate(f.DeadlineBefore); err != nil {
			return invalid("deadline", err.Error())
		}
	}
	return nil
}

func validateDate(v string) error {
	if v == "" {
		return errors.New("is required")
	}
	if _, err := time.Parse(model.DeadlineLayout, v); err != nil {
		return errors.New("must be a date in YYYY-MM-DD format")
	}
	return nil
}

// CanModify reports whether identity may edit or delete task.
func CanModify(identity model.Identity, task model.Task) bool {
	return identity.IsAdmin() || task.UserID == identity.UserID
}

// TaskDetail is everything shown on a single task page.
type TaskDetail struct {
	Task      model.Task
	Comments  []model.CommentView
	Activity  []model.ActivityView
	CanModify bool
}

// ActivityEvent describes a committed task action.
type ActivityEvent struct {
	TaskID    uint
	TaskTitle string
	Action    string
	ActorName string
	At        time.Time
}

// Notifier is told about each committed action.
type Notifier interface {
	NotifyActivity(ctx context.Context, event ActivityEvent) error
}

const defaultNotifyTimeout = 5 * time.Second

// TaskService wraps task-related business logic.
type TaskService struct {
	store         *repository.Store
	notifier      Notifier
	notifyTimeout time.Duration
	now           func() time.Time
}

func NewTaskService(store *repository.Store, notifier Notifier) *TaskService {
	return &TaskService{
		store:         store,
		notifier:      notifier,
		notifyTimeout: defaultNotifyTimeout,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithNotifyTimeout bounds how long a mutation waits on the notifier.
func (s *TaskService) WithNotifyTimeout(d time.Duration) *TaskService {
	cp := *s
	if d > 0 {
		cp.notifyTimeout = d
	}
	return &cp
}

// WithClock replaces the time source.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	cp := *s
	cp.now = now
	return &cp
}

func (s *TaskService) List(ctx context.Context, identity model.Identity, filter repository.TaskFilter) ([]model.Task, error) {
	if err := ValidateFilter(filter); err != nil {
		return nil, err
	}
	tasks, err := s.store.Tasks.List(ctx, identity, filter)
	if err != nil {
		return nil, storage("list tasks", err)
	}
	return tasks, nil
}

// Get loads a task with its comments and trail. Any signed-in user may view
// any task.
func (s *TaskService) Get(ctx context.Context, identity model.Identity, taskID uint) (*TaskDetail, error) {
	task, err := s.find(ctx, s.store, taskID)
	if err != nil {
		return nil, err
	}

	comments, err := s.store.Comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, storage("view task", err)
	}
	activity, err := s.store.Activity.ListByTask(ctx, taskID)
	if err != nil {
		return nil, storage("view task", err)
	}

	return &TaskDetail{
		Task:      *task,
		Comments:  comments,
		Activity:  activity,
		CanModify: CanModify(identity, *task),
	}, nil
}

// Create stores a task owned by identity and logs it in one transaction.
func (s *TaskService) Create(ctx context.Context, identity model.Identity, in TaskInput) (uint, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}

	now := s.now()
	task := model.Task{
		UserID:      identity.UserID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		Deadline:    in.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		if err := tx.Tasks.Create(ctx, &task); err != nil {
			return err
		}
		return tx.Activity.Log(ctx, task.ID, identity.UserID, model.ActionTaskCreated, task.Title, now)
	})
	if err != nil {
		return 0, storage("create task", err)
	}

	s.notify(ctx, identity, task, model.ActionTaskCreated, now)
	return task.ID, nil
}

// Update overwrites all mutable fields of a task the caller may modify.
func (s *TaskService) Update(ctx context.Context, identity model.Identity, taskID uint, in TaskInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	now := s.now()
	var updated model.Task
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		task, err := s.authorize(ctx, tx, identity, taskID)
		if err != nil {
			return err
		}

		task.Title = in.Title
		task.Description = in.Description
		task.Status = in.Status
		task.Priority = in.Priority
		task.Deadline = in.Deadline
		if now.After(task.UpdatedAt) {
			task.UpdatedAt = now
		}

		if err := tx.Tasks.Update(ctx, task); err != nil {
			return err
		}
		updated = *task
		return tx.Activity.Log(ctx, task.ID, identity.UserID, model.ActionTaskUpdated, task.Title, now)
	})
	if err != nil {
		return mutationError("update task", err)
	}

	s.notify(ctx, identity, updated, model.ActionTaskUpdated, now)
	return nil
}

// Delete removes a task the caller may modify. The deletion is logged
// before the row goes away; comments are removed with the task while the
// activity trail is kept.
func (s *TaskService) Delete(ctx context.Context, identity model.Identity, taskID uint) error {
	now := s.now()
	var deleted model.Task
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		task, err := s.authorize(ctx, tx, identity, taskID)
		if err != nil {
			return err
		}
		deleted = *task

		if err := tx.Activity.Log(ctx, task.ID, identity.UserID, model.ActionTaskDeleted, task.Title, now); err != nil {
			return err
		}
		if err := tx.Comments.DeleteByTask(ctx, task.ID); err != nil {
			return err
		}
		return tx.Tasks.Delete(ctx, task.ID)
	})
	if err != nil {
		return mutationError("delete task", err)
	}

	s.notify(ctx, identity, deleted, model.ActionTaskDeleted, now)
	return nil
}

// AddComment attaches a comment to any existing task. No ownership check
// applies.
func (s *TaskService) AddComment(ctx context.Context, identity model.Identity, taskID uint, text string) error {
	if strings.TrimSpace(text) == "" {
		return invalid("comment", "is required")
	}

	now := s.now()
	var target model.Task
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		task, err := s.find(ctx, tx, taskID)
		if err != nil {
			return err
		}
		target = *task

		comment := model.Comment{
			TaskID:    taskID,
			UserID:    identity.UserID,
			Body:      text,
			CreatedAt: now,
		}
		if err := tx.Comments.Create(ctx, &comment); err != nil {
			return err
		}
		return tx.Activity.Log(ctx, taskID, identity.UserID, model.ActionCommentAdded, task.Title, now)
	})
	if err != nil {
		return mutationError("add comment", err)
	}

	s.notify(ctx, identity, target, model.ActionCommentAdded, now)
	return nil
}

func (s *TaskService) find(ctx context.Context, store *repository.Store, taskID uint) (*model.Task, error) {
	task, err := store.Tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storage("find task", err)
	}
	return task, nil
}

func (s *TaskService) authorize(ctx context.Context, store *repository.Store, identity model.Identity, taskID uint) (*model.Task, error) {
	task, err := s.find(ctx, store, taskID)
	if err != nil {
		return nil, err
	}
	if !CanModify(identity, *task) {
		return nil, ErrUnauthorized
	}
	return task, nil
}

func (s *TaskService) notify(ctx context.Context, identity model.Identity, task model.Task, action string, at time.Time) {
	if s.notifier == nil {
		return
	}
	event := ActivityEvent{
		TaskID:    task.ID,
		TaskTitle: task.Title,
		Action:    action,
		ActorName: identity.Name,
		At:        at,
	}
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	if err := s.notifier.NotifyActivity(ctx, event); err != nil {
		log.Printf("[warn] notify %q on task %d: %v", action, task.ID, err)
	}
}

// mutationError passes domain errors through and marks the rest as
// storage failures.
func mutationError(op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrValidation), errors.Is(err, ErrStorage):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return storage(op, err)
	}
}
