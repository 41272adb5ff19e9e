package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fritterhq/fritter-services/internal/alerts"
	"github.com/fritterhq/fritter-services/internal/annotation"
	"github.com/fritterhq/fritter-services/internal/annotation/service"
	"github.com/fritterhq/fritter-services/internal/apperr"
	freetsvc "github.com/fritterhq/fritter-services/internal/freets/service"
	"github.com/fritterhq/fritter-services/internal/users"
	"github.com/fritterhq/fritter-services/pkg/logger"
	"github.com/fritterhq/fritter-services/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// Handler exposes the like/flag/pin wire API over the three engine instances.
type Handler struct {
	likes  *service.Engine
	flags  *service.Engine
	pins   *service.Engine
	freets *freetsvc.Service
	users  *users.Service
	alerts *alerts.Store
}

func New(likes, flags, pins *service.Engine, freets *freetsvc.Service, users *users.Service, alerts *alerts.Store) *Handler {
	return &Handler{likes: likes, flags: flags, pins: pins, freets: freets, users: users, alerts: alerts}
}

// Register mounts the annotation routes. Mutations require authentication.
func (h *Handler) Register(r *gin.Engine, ver middleware.Verifier) {
	auth := middleware.AuthMiddleware(ver)
	opt := middleware.OptionalAuthMiddleware(ver)

	r.GET("/api/liked", h.listToggles(h.likes))
	r.POST("/api/liked/:freetId", auth, h.addToggle(h.likes, "liked"))
	r.DELETE("/api/liked/:freetId", auth, h.removeToggle(h.likes, "unliked"))

	r.GET("/api/flagged", h.listToggles(h.flags))
	r.POST("/api/flagged/:freetId", auth, h.addToggle(h.flags, "flagged"))
	r.DELETE("/api/flagged/:freetId", auth, h.removeToggle(h.flags, "unflagged"))

	r.GET("/api/pin", opt, h.getPin)
	r.POST("/api/pin/:freetId", auth, h.addPin)
	r.DELETE("/api/pin", auth, h.removePin)
	r.DELETE("/api/pin/:freetId", auth, h.removePin)
}

func (h *Handler) resolver() *usernameResolver {
	return newUsernameResolver(func(ctx context.Context, id string) (string, error) {
		u, err := h.users.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return u.Username, nil
	})
}

func respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logger.Errorf("request failed: %v", err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) notify(c *gin.Context, actor middleware.Actor, message string) {
	if err := h.alerts.Put(c.Request.Context(), actor.UserID, message, "success"); err != nil {
		logger.Warnf("failed to record alert: %v", err)
	}
}

// listToggles handles GET for like/flag listings; with an author query it
// scopes to that author's records, otherwise it returns all of the kind.
func (h *Handler) listToggles(eng *service.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var list []*annotation.Annotation
		var err error
		if username := c.Query("author"); username != "" {
			u, rerr := h.users.Resolve(ctx, username)
			if rerr != nil {
				respondError(c, rerr)
				return
			}
			list, err = eng.ListByAuthor(ctx, u.ID)
		} else {
			list, err = eng.ListAll(ctx)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, h.resolver().views(ctx, list))
	}
}

func (h *Handler) addToggle(eng *service.Engine, verb string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		actor, _ := middleware.GetActor(c)
		freetID := c.Param("freetId")
		fr, err := h.freets.Get(ctx, freetID)
		if err != nil {
			respondError(c, err)
			return
		}
		a, err := eng.Add(ctx, actor.UserID, fr)
		if err != nil {
			respondError(c, err)
			return
		}
		msg := fmt.Sprintf("You successfully %s freet %s.", verb, freetID)
		h.notify(c, actor, msg)
		c.JSON(http.StatusCreated, gin.H{"message": msg, "freet": h.resolver().view(ctx, a)})
	}
}

func (h *Handler) removeToggle(eng *service.Engine, verb string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		actor, _ := middleware.GetActor(c)
		freetID := c.Param("freetId")
		if err := eng.Remove(ctx, actor.UserID, freetID); err != nil {
			respondError(c, err)
			return
		}
		msg := fmt.Sprintf("You successfully %s freet %s.", verb, freetID)
		h.notify(c, actor, msg)
		c.JSON(http.StatusOK, gin.H{"message": msg})
	}
}

// getPin returns the active pin for the requested scope: the author query
// parameter when present, else the authenticated caller. Absence of a pin is
// a 200 with a null body, not an error.
func (h *Handler) getPin(c *gin.Context) {
	ctx := c.Request.Context()
	scopeID := ""
	if username := c.Query("author"); username != "" {
		u, err := h.users.Resolve(ctx, username)
		if err != nil {
			respondError(c, err)
			return
		}
		scopeID = u.ID
	} else if actor, ok := middleware.GetActor(c); ok {
		scopeID = actor.UserID
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "an author query parameter or login is required"})
		return
	}
	a, err := h.pins.FindActive(ctx, scopeID)
	if err != nil {
		if apperr.IsNotFound(err) {
			c.JSON(http.StatusOK, nil)
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.resolver().view(ctx, a))
}

// addPin pins the freet for the caller's scope, replacing any prior pin in
// the same operation. A repeat pin is never a conflict.
func (h *Handler) addPin(c *gin.Context) {
	ctx := c.Request.Context()
	actor, _ := middleware.GetActor(c)
	freetID := c.Param("freetId")
	fr, err := h.freets.Get(ctx, freetID)
	if err != nil {
		respondError(c, err)
		return
	}
	a, err := h.pins.Add(ctx, actor.UserID, fr)
	if err != nil {
		respondError(c, err)
		return
	}
	msg := fmt.Sprintf("You successfully pinned freet %s.", freetID)
	h.notify(c, actor, msg)
	c.JSON(http.StatusCreated, gin.H{"message": msg, "freet": h.resolver().view(ctx, a)})
}

// removePin unpins the caller's active pin. When a freet ID is supplied it
// must match the active pin.
func (h *Handler) removePin(c *gin.Context) {
	ctx := c.Request.Context()
	actor, _ := middleware.GetActor(c)
	if freetID := c.Param("freetId"); freetID != "" {
		active, err := h.pins.FindActive(ctx, actor.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		if active.FreetID != freetID {
			respondError(c, apperr.NotFound("pin", freetID))
			return
		}
	}
	if err := h.pins.Remove(ctx, actor.UserID, ""); err != nil {
		respondError(c, err)
		return
	}
	msg := "You successfully unpinned freet."
	h.notify(c, actor, msg)
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
