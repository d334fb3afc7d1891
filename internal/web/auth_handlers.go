package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"task-tracker/internal/service"
)

type loginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type registerForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

func (s *Server) loginPage(c *gin.Context) {
	render(c, http.StatusOK, "login.html", newPage(c, "Log in"))
}

func (s *Server) login(c *gin.Context) {
	var form loginForm
	p := newPage(c, "Log in")
	if err := c.ShouldBind(&form); err != nil {
		p.Email = form.Email
		p.Error = "Email and password are required"
		render(c, http.StatusBadRequest, "login.html", p)
		return
	}

	identity, err := s.auth.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			p.Email = form.Email
			p.Error = "Invalid email or password"
			render(c, http.StatusUnauthorized, "login.html", p)
			return
		}
		fail(c, err)
		return
	}

	token, err := s.sessions.Issue(identity)
	if err != nil {
		fail(c, err)
		return
	}
	s.setSessionCookie(c, token)
	log.Printf("[info] user %d signed in", identity.UserID)
	redirect(c, "/")
}

func (s *Server) logout(c *gin.Context) {
	s.clearSessionCookie(c)
	redirect(c, "/login")
}

func (s *Server) registerPage(c *gin.Context) {
	render(c, http.StatusOK, "register.html", newPage(c, "Register"))
}

func (s *Server) register(c *gin.Context) {
	var form registerForm
	p := newPage(c, "Register")
	if err := c.ShouldBind(&form); err != nil {
		p.Name, p.Email = form.Name, form.Email
		p.Error = "Name, a valid email and a password are required"
		render(c, http.StatusBadRequest, "register.html", p)
		return
	}

	_, err := s.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		p.Name, p.Email = form.Name, form.Email
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			p.Error = "An account with this email already exists"
			render(c, http.StatusConflict, "register.html", p)
		case errors.Is(err, service.ErrValidation):
			p.Error = err.Error()
			render(c, http.StatusBadRequest, "register.html", p)
		default:
			fail(c, err)
		}
		return
	}

	redirect(c, "/login")
}
