package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
	"task-tracker/internal/service"
)

// pageData is the single view model shared by every template.
type pageData struct {
	Title    string
	Error    string
	Identity *model.Identity

	Name  string
	Email string

	Filter     repository.TaskFilter
	Tasks      []model.Task
	Statuses   []string
	Priorities []string

	Action string
	Form   taskForm
	Detail *service.TaskDetail
}

func newPage(c *gin.Context, title string) pageData {
	p := pageData{
		Title:      title,
		Statuses:   model.Statuses,
		Priorities: model.Priorities,
	}
	if identity, err := identityFrom(c); err == nil {
		p.Identity = &identity
	}
	return p
}

func render(c *gin.Context, status int, name string, data pageData) {
	c.HTML(status, name, data)
}

// fail renders the page matching err. Unauthenticated callers are sent to
// the login page instead.
func fail(c *gin.Context, err error) {
	status, title := classify(err)
	if status == http.StatusSeeOther {
		redirect(c, "/login")
		return
	}
	if status == http.StatusInternalServerError {
		log.Printf("[error] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	p := newPage(c, title)
	if status == http.StatusBadRequest {
		p.Error = err.Error()
	}
	render(c, status, "error.html", p)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusSeeOther, ""
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden, "Unauthorized"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Task not found"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, "Email already registered"
	default:
		return http.StatusInternalServerError, "Something went wrong"
	}
}
