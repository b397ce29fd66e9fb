package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"myflix-api/internal/domain"
)

const genericFailure = "Something went wrong on the server!"

// respondDocument renders doc as JSON with status. A lookup that matched
// nothing renders 200 null.
func (h *Handler) respondDocument(c *gin.Context, status int, doc any, err error) {
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(status, doc)
}

// respondError maps service failures to plain-text responses. Store errors
// carry their message to the client; anything else is logged and hidden.
func (h *Handler) respondError(c *gin.Context, err error) {
	var storeErr *domain.StoreError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.String(http.StatusBadRequest, "Error: "+err.Error())
	case errors.As(err, &storeErr):
		h.logger.WithFields(logrus.Fields{
			"op":     storeErr.Op,
			"method": c.Request.Method,
			"route":  c.FullPath(),
		}).WithError(storeErr.Err).Error("store operation failed")
		c.String(http.StatusInternalServerError, "Error: "+err.Error())
	default:
		h.logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"route":  c.FullPath(),
		}).WithError(err).Error("request failed")
		c.String(http.StatusInternalServerError, genericFailure)
	}
}
