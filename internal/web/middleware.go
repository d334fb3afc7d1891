package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"task-tracker/internal/model"
	"task-tracker/internal/service"
	"task-tracker/internal/session"
)

const identityKey = "identity"

// RequireSession resolves the session cookie into an Identity once per
// request. Requests without a valid session are sent to the login page.
func (s *Server) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := s.resolveSession(c)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthenticated) {
				log.Printf("[warn] resolve session: %v", err)
			}
			s.clearSessionCookie(c)
			redirect(c, "/login")
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func (s *Server) resolveSession(c *gin.Context) (model.Identity, error) {
	token, err := c.Cookie(session.CookieName)
	if err != nil || token == "" {
		return model.Identity{}, service.ErrUnauthenticated
	}

	claimed, err := s.sessions.Parse(token)
	if err != nil {
		return model.Identity{}, service.ErrUnauthenticated
	}

	return s.auth.Resolve(c.Request.Context(), claimed.UserID)
}

// identityFrom returns the identity stored by RequireSession.
func identityFrom(c *gin.Context) (model.Identity, error) {
	v, ok := c.Get(identityKey)
	if !ok {
		return model.Identity{}, service.ErrUnauthenticated
	}
	identity, ok := v.(model.Identity)
	if !ok {
		return model.Identity{}, service.ErrUnauthenticated
	}
	return identity, nil
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, int(s.sessions.Lifetime().Seconds()), "/", "", s.secureCookie, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", s.secureCookie, true)
}
