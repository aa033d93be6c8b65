package httpserver

import (
	"log"
	"net/http"

	profilesvc "gelataria/internal/service/profile"
	"github.com/gin-gonic/gin"
)

func getProfileHandler(svc ProfileService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), userID(c))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func updateProfileHandler(svc ProfileService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in profilesvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		p, err := svc.Update(c.Request.Context(), userID(c), in)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func profileOrdersHandler(svc ProfileService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.Orders(c.Request.Context(), userID(c))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(orders), "results": toOrderViews(orders)})
	}
}
