package httpserver

import (
	"log"
	"net/http"
	"strconv"

	productsvc "gelataria/internal/service/product"
	"github.com/gin-gonic/gin"
)

func listProductsHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		featured, _ := strconv.ParseBool(c.Query("featured"))
		products, err := svc.List(c.Request.Context(), productsvc.ListInput{
			Category:     c.Query("category"),
			FeaturedOnly: featured,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(products), "results": products})
	}
}

func getProductHandler(svc ProductService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func listCategoriesHandler(svc CategoryService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(categories), "results": categories})
	}
}
