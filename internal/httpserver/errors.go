package httpserver

import (
	"errors"
	"log"
	"net/http"

	"gelataria/internal/domain"
	cartsvc "gelataria/internal/service/cart"
	checkoutsvc "gelataria/internal/service/checkout"
	sessionsvc "gelataria/internal/service/session"
	"gelataria/internal/validation"
	"github.com/gin-gonic/gin"
)

// errorResponse carries a message and, where the client should navigate
// elsewhere, the path to go to.
type errorResponse struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// writeError maps service errors onto HTTP responses. logger may be nil for
// errors that never need logging.
func writeError(c *gin.Context, logger *log.Logger, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, sessionsvc.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "please sign in", Redirect: "/auth"})
	case errors.Is(err, sessionsvc.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, errorResponse{Error: "access denied", Redirect: "/"})
	case errors.Is(err, checkoutsvc.ErrEmptyCart):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error(), Redirect: "/cart"})
	case errors.Is(err, sessionsvc.ErrDuplicateAccount), errors.Is(err, cartsvc.ErrProductUnavailable):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, errorResponse{Error: "already exists"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found", Redirect: "/"})
	case errors.Is(err, checkoutsvc.ErrOrderCreation):
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	default:
		if logger != nil {
			logger.Printf("http: %s %s error=%v", c.Request.Method, c.FullPath(), err)
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
