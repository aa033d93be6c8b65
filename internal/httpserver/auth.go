package httpserver

import (
	"log"
	"net/http"

	sessionsvc "gelataria/internal/service/session"
	"github.com/gin-gonic/gin"
)

func signUpHandler(svc SessionService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in sessionsvc.SignUpInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		u, err := svc.SignUp(c.Request.Context(), in)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": u})
	}
}

func signInHandler(svc SessionService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in sessionsvc.SignInInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		sess, err := svc.SignIn(c.Request.Context(), in)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

func signOutHandler(svc SessionService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if err := svc.SignOut(c.Request.Context(), token); err != nil {
				writeError(c, logger, err)
				return
			}
		}
		c.Status(http.StatusNoContent)
	}
}

func sessionHandler(c *gin.Context) {
	ident, _ := identityFrom(c)
	c.JSON(http.StatusOK, ident)
}
