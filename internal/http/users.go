package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"myflix-api/internal/domain"
)

func (h *Handler) registerUser(c *gin.Context) {
	var input domain.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.String(http.StatusBadRequest, "Error: "+err.Error())
		return
	}

	user, err := h.users.Register(c.Request.Context(), input)
	if errors.Is(err, domain.ErrDuplicateUsername) {
		h.respondDuplicate(c, input.Username)
		return
	}
	h.respondDocument(c, http.StatusCreated, user, err)
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.users.GetByUsername(c.Request.Context(), c.Param("Username"))
	h.respondDocument(c, http.StatusOK, user, err)
}

func (h *Handler) updateUser(c *gin.Context) {
	var input domain.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.String(http.StatusBadRequest, "Error: "+err.Error())
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("Username"), input)
	if errors.Is(err, domain.ErrDuplicateUsername) {
		h.respondDuplicate(c, input.Username)
		return
	}
	h.respondDocument(c, http.StatusOK, user, err)
}

func (h *Handler) addFavorite(c *gin.Context) {
	user, err := h.users.AddFavorite(c.Request.Context(), c.Param("Username"), c.Param("MovieID"))
	h.respondDocument(c, http.StatusOK, user, err)
}

func (h *Handler) removeFavorite(c *gin.Context) {
	user, err := h.users.RemoveFavorite(c.Request.Context(), c.Param("Username"), c.Param("MovieID"))
	h.respondDocument(c, http.StatusOK, user, err)
}

func (h *Handler) deleteUser(c *gin.Context) {
	username := c.Param("Username")
	err := h.users.Delete(c.Request.Context(), username)
	switch {
	case err == nil:
		c.String(http.StatusOK, username+" was deleted.")
	case errors.Is(err, domain.ErrNotFound):
		c.String(http.StatusBadRequest, username+" was not found")
	default:
		h.respondError(c, err)
	}
}

// respondDuplicate keeps the historical message, which has no space before
// "already exists".
func (h *Handler) respondDuplicate(c *gin.Context, username string) {
	c.String(http.StatusBadRequest, strings.TrimSpace(username)+"already exists")
}
