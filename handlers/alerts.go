package handlers

import (
	"net/http"

	"github.com/fritterhq/fritter-services/internal/alerts"
	"github.com/fritterhq/fritter-services/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterAlertRoutes mounts the alert listing endpoint. Alerts are ephemeral
// per-user entries written by mutation handlers; they expire on their own.
func RegisterAlertRoutes(r *gin.Engine, store *alerts.Store, ver middleware.Verifier) {
	r.GET("/api/alerts", middleware.AuthMiddleware(ver), func(c *gin.Context) {
		actor, _ := middleware.GetActor(c)
		list, err := store.List(c.Request.Context(), actor.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list alerts"})
			return
		}
		c.JSON(http.StatusOK, list)
	})
}
