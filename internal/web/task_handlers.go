package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
	"task-tracker/internal/service"
)

type filterQuery struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Deadline string `form:"deadline"`
}

type taskForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
	Status      string `form:"status" binding:"required"`
	Priority    string `form:"priority" binding:"required"`
	Deadline    string `form:"deadline" binding:"required"`
}

func (f taskForm) input() service.TaskInput {
	return service.TaskInput{
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		Priority:    f.Priority,
		Deadline:    f.Deadline,
	}
}

func formOf(t model.Task) taskForm {
	return taskForm{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Deadline:    t.Deadline,
	}
}

type commentForm struct {
	Comment string `form:"comment" binding:"required"`
}

func (s *Server) listTasks(c *gin.Context) {
	identity, err := identityFrom(c)
	if err != nil {
		fail(c, err)
		return
	}

	var q filterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, &service.ValidationError{Field: "filter", Message: "malformed query"})
		return
	}
	filter := repository.TaskFilter{
		Search:         q.Search,
		Status:         q.Status,
		Priority:       q.Priority,
		DeadlineBefore: q.Deadline,
	}

	p := newPage(c, "Tasks")
	p.Filter = filter

	tasks, err := s.tasks.List(c.Request.Context(), identity, filter)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			p.Error = err.Error()
			render(c, http.StatusBadRequest, "index.html", p)
			return
		}
		fail(c, err)
		return
	}

	p.Tasks = tasks
	render(c, http.StatusOK, "index.html", p)
}

func (s *Server) addTaskPage(c *gin.Context) {
	p := newPage(c, "New task")
	p.Action = "/add"
	p.Form = taskForm{Status: model.StatusOpen, Priority: model.PriorityMedium}
	render(c, http.StatusOK, "task_form.html", p)
}

func (s *Server) addTask(c *gin.Context) {
	identity, err := identityFrom(c)
	if err != nil {
		fail(c, err)
		return
	}

	var form taskForm
	bindErr := c.ShouldBind(&form)
	if bindErr == nil {
		_, err = s.tasks.Create(c.Request.Context(), identity, form.input())
	}
	if bindErr != nil || errors.Is(err, service.ErrValidation) {
		s.rerenderForm(c, "New task", "/add", form, bindErr, err)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	redirect(c, "/")
}

func (s *Server) viewTask(c *gin.Context) {
	identity, taskID, ok := s.taskRequest(c)
	if !ok {
		return
	}

	detail, err := s.tasks.Get(c.Request.Context(), identity, taskID)
	if err != nil {
		fail(c, err)
		return
	}

	p := newPage(c, detail.Task.Title)
	p.Detail = detail
	render(c, http.StatusOK, "view.html", p)
}

func (s *Server) addComment(c *gin.Context) {
	identity, taskID, ok := s.taskRequest(c)
	if !ok {
		return
	}

	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, &service.ValidationError{Field: "comment", Message: "is required"})
		return
	}

	if err := s.tasks.AddComment(c.Request.Context(), identity, taskID, form.Comment); err != nil {
		fail(c, err)
		return
	}

	redirect(c, "/view/"+strconv.FormatUint(uint64(taskID), 10))
}

func (s *Server) editTaskPage(c *gin.Context) {
	identity, taskID, ok := s.taskRequest(c)
	if !ok {
		return
	}

	detail, err := s.tasks.Get(c.Request.Context(), identity, taskID)
	if err != nil {
		fail(c, err)
		return
	}
	if !detail.CanModify {
		fail(c, service.ErrUnauthorized)
		return
	}

	p := newPage(c, "Edit task")
	p.Action = "/edit/" + strconv.FormatUint(uint64(taskID), 10)
	p.Form = formOf(detail.Task)
	render(c, http.StatusOK, "task_form.html", p)
}

func (s *Server) editTask(c *gin.Context) {
	identity, taskID, ok := s.taskRequest(c)
	if !ok {
		return
	}

	var form taskForm
	var err error
	bindErr := c.ShouldBind(&form)
	if bindErr == nil {
		err = s.tasks.Update(c.Request.Context(), identity, taskID, form.input())
	}
	if bindErr != nil || errors.Is(err, service.ErrValidation) {
		action := "/edit/" + strconv.FormatUint(uint64(taskID), 10)
		s.rerenderForm(c, "Edit task", action, form, bindErr, err)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	redirect(c, "/")
}

func (s *Server) deleteTask(c *gin.Context) {
	identity, taskID, ok := s.taskRequest(c)
	if !ok {
		return
	}

	if err := s.tasks.Delete(c.Request.Context(), identity, taskID); err != nil {
		fail(c, err)
		return
	}

	redirect(c, "/")
}

// taskRequest extracts the caller and the :id parameter. It writes the
// response itself when either is missing.
func (s *Server) taskRequest(c *gin.Context) (model.Identity, uint, bool) {
	identity, err := identityFrom(c)
	if err != nil {
		fail(c, err)
		return model.Identity{}, 0, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, service.ErrNotFound)
		return model.Identity{}, 0, false
	}

	return identity, uint(id), true
}

func (s *Server) rerenderForm(c *gin.Context, title, action string, form taskForm, bindErr, err error) {
	p := newPage(c, title)
	p.Action = action
	p.Form = form
	if bindErr != nil {
		p.Error = "Title, status, priority and deadline are required"
	} else {
		p.Error = err.Error()
	}
	render(c, http.StatusBadRequest, "task_form.html", p)
}
