package httpserver

import (
	"log"
	"net/http"

	checkoutsvc "gelataria/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

func prepareCheckoutHandler(svc CheckoutService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		prep, err := svc.Prepare(c.Request.Context(), userID(c))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, prep)
	}
}

func submitCheckoutHandler(svc CheckoutService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form checkoutsvc.Form
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		res, err := svc.Submit(c.Request.Context(), userID(c), form)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}
