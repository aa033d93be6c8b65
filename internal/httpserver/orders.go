package httpserver

import (
	"log"
	"net/http"

	"gelataria/internal/domain"
	"github.com/gin-gonic/gin"
)

// orderView adds the customer-facing reference and suggested next statuses.
type orderView struct {
	domain.Order
	ShortRef string               `json:"shortRef"`
	Next     []domain.OrderStatus `json:"next"`
}

func toOrderView(o domain.Order) orderView {
	return orderView{Order: o, ShortRef: o.ShortRef(), Next: o.Status.Next()}
}

func toOrderViews(orders []domain.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderView(o))
	}
	return out
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func listOrdersHandler(svc OrderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.List(c.Request.Context(), c.Query("status"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(orders), "results": toOrderViews(orders)})
	}
}

func orderStatsHandler(svc OrderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Stats(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func setOrderStatusHandler(svc OrderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
			badRequest(c, "status is required")
			return
		}
		o, err := svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toOrderView(*o))
	}
}
