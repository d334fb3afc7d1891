// Package web serves the tracker's HTML interface over gin.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"task-tracker/internal/service"
	"task-tracker/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server holds the collaborators of the HTTP handlers.
type Server struct {
	auth         *service.AuthService
	tasks        *service.TaskService
	sessions     *session.Manager
	secureCookie bool
}

func NewServer(auth *service.AuthService, tasks *service.TaskService, sessions *session.Manager) *Server {
	return &Server{auth: auth, tasks: tasks, sessions: sessions}
}

// WithSecureCookie marks the session cookie Secure, for HTTPS deployments.
func (s *Server) WithSecureCookie(secure bool) *Server {
	s.secureCookie = secure
	return s
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(parseTemplates())

	r.GET("/login", s.loginPage)
	r.POST("/login", s.login)
	r.GET("/logout", s.logout)
	r.GET("/register", s.registerPage)
	r.POST("/register", s.register)

	authed := r.Group("/", s.RequireSession())
	authed.GET("/", s.listTasks)
	authed.GET("/add", s.addTaskPage)
	authed.POST("/add", s.addTask)
	authed.GET("/view/:id", s.viewTask)
	authed.POST("/comment/:id", s.addComment)
	authed.GET("/edit/:id", s.editTaskPage)
	authed.POST("/edit/:id", s.editTask)
	authed.POST("/delete/:id", s.deleteTask)

	return r
}

func parseTemplates() *template.Template {
	funcs := template.FuncMap{
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04:05")
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
