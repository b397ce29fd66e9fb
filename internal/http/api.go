package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"myflix-api/internal/service"
)

// HealthFunc probes the document store.
type HealthFunc func(ctx context.Context) error

// Handler wires HTTP routes to domain services.
type Handler struct {
	movies  service.MovieService
	users   service.UserService
	health  HealthFunc
	logger  *logrus.Logger
	metrics bool
}

// Options carries optional collaborators of the Handler.
type Options struct {
	Health  HealthFunc
	Metrics bool
}

func NewHandler(movies service.MovieService, users service.UserService, logger *logrus.Logger, opts Options) *Handler {
	return &Handler{
		movies:  movies,
		users:   users,
		health:  opts.Health,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// RegisterRoutes installs the middleware chain and every route. Logging and
// recovery are installed by the caller before this, see Recovery and RequestLogger.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	if h.metrics {
		router.Use(metricsMiddleware())
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to myFlix app!")
	})
	router.GET("/health", h.healthCheck)

	router.GET("/movies", h.listMovies)
	router.GET("/movies/:Title", h.getMovie)
	router.GET("/genres/:Name", h.getGenre)
	router.GET("/directors/:Name", h.getDirector)

	router.POST("/users", h.registerUser)
	router.GET("/users/:Username", h.getUser)
	router.PUT("/users/:Username", h.updateUser)
	router.DELETE("/users/:Username", h.deleteUser)
	router.POST("/users/:Username/movies/:MovieID", h.addFavorite)
	router.DELETE("/users/:Username/movies/:MovieID", h.removeFavorite)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	if h.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.health(ctx); err != nil {
		h.logger.WithError(err).Warn("health probe failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
