package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func listFavoritesHandler(svc FavoriteService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		favs, err := svc.List(c.Request.Context(), userID(c))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(favs), "results": favs})
	}
}

func toggleFavoriteHandler(svc FavoriteService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Toggle(c.Request.Context(), userID(c), c.Param("productId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func removeFavoriteHandler(svc FavoriteService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Remove(c.Request.Context(), userID(c), c.Param("id")); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
