package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	annsvc "github.com/fritterhq/fritter-services/internal/annotation/service"
	"github.com/fritterhq/fritter-services/internal/apperr"
	"github.com/fritterhq/fritter-services/internal/freets"
	"github.com/fritterhq/fritter-services/internal/freets/service"
	"github.com/fritterhq/fritter-services/internal/users"
	"github.com/fritterhq/fritter-services/pkg/logger"
	"github.com/fritterhq/fritter-services/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// FreetView is the wire shape for a freet.
type FreetView struct {
	ID           string `json:"_id"`
	Author       string `json:"author"`
	Content      string `json:"content"`
	DateModified string `json:"dateModified"`
}

// Handler exposes freet CRUD. The general feed hides flagged freets; flags
// are a moderation signal, not a per-viewer preference.
type Handler struct {
	svc   *service.Service
	flags *annsvc.Engine
	users *users.Service
}

func New(svc *service.Service, flags *annsvc.Engine, users *users.Service) *Handler {
	return &Handler{svc: svc, flags: flags, users: users}
}

func (h *Handler) Register(r *gin.Engine, ver middleware.Verifier) {
	auth := middleware.AuthMiddleware(ver)

	r.GET("/api/freets", h.list)
	r.POST("/api/freets", auth, h.create)
	r.PUT("/api/freets/:freetId", auth, h.update)
	r.DELETE("/api/freets/:freetId", auth, h.remove)
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

func formatDate(t time.Time) string {
	day := t.Day()
	return fmt.Sprintf("%s %d%s %d, %s",
		t.Month().String(), day, ordinalSuffix(day), t.Year(),
		strings.ToLower(t.Format("3:04:05 PM")))
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

func (h *Handler) view(c *gin.Context, f *freets.Freet) FreetView {
	author := "unknown"
	if u, err := h.users.GetByID(c.Request.Context(), f.AuthorID); err == nil {
		author = u.Username
	}
	return FreetView{ID: f.ID, Author: author, Content: f.Content, DateModified: formatDate(f.DateModified)}
}

// list returns the feed, excluding flagged freets. With ?author= it returns
// that author's freets instead (still unfiltered by flags, matching the
// profile view).
func (h *Handler) list(c *gin.Context) {
	ctx := c.Request.Context()
	if username := c.Query("author"); username != "" {
		u, err := h.users.Resolve(ctx, username)
		if err != nil {
			respondError(c, err)
			return
		}
		list, err := h.svc.ListByAuthor(ctx, u.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, h.views(c, list))
		return
	}
	list, err := h.svc.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	flagged, err := h.flags.ListAll(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	hidden := make(map[string]bool, len(flagged))
	for _, fl := range flagged {
		hidden[fl.FreetID] = true
	}
	visible := list[:0]
	for _, f := range list {
		if !hidden[f.ID] {
			visible = append(visible, f)
		}
	}
	c.JSON(http.StatusOK, h.views(c, visible))
}

func (h *Handler) views(c *gin.Context, list []*freets.Freet) []FreetView {
	out := make([]FreetView, 0, len(list))
	for _, f := range list {
		out = append(out, h.view(c, f))
	}
	return out
}

func (h *Handler) create(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := h.svc.Create(c.Request.Context(), actor.UserID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Your freet was created successfully.",
		"freet":   h.view(c, f),
	})
}

func (h *Handler) update(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := h.svc.Update(c.Request.Context(), actor.UserID, c.Param("freetId"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Your freet was updated successfully.",
		"freet":   h.view(c, f),
	})
}

func (h *Handler) remove(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	if err := h.svc.Delete(c.Request.Context(), actor.UserID, c.Param("freetId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your freet was deleted successfully."})
}
