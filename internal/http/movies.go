package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listMovies(c *gin.Context) {
	movies, err := h.movies.ListMovies(c.Request.Context())
	h.respondDocument(c, http.StatusOK, movies, err)
}

func (h *Handler) getMovie(c *gin.Context) {
	movie, err := h.movies.GetMovieByTitle(c.Request.Context(), c.Param("Title"))
	h.respondDocument(c, http.StatusOK, movie, err)
}

func (h *Handler) getGenre(c *gin.Context) {
	genre, err := h.movies.GetGenreByName(c.Request.Context(), c.Param("Name"))
	h.respondDocument(c, http.StatusOK, genre, err)
}

func (h *Handler) getDirector(c *gin.Context) {
	director, err := h.movies.GetDirectorByName(c.Request.Context(), c.Param("Name"))
	h.respondDocument(c, http.StatusOK, director, err)
}
