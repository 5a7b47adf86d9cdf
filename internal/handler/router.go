package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck reports whether the store is reachable.
type HealthCheck func(ctx context.Context) error

// NewRouter returns a gin.Engine with the post routes, health and metrics wired.
func NewRouter(posts *PostHandler, jwtSecret []byte, health HealthCheck) *gin.Engine {
	router := gin.New()
	if gin.Mode() != gin.TestMode {
		router.Use(gin.Logger())
	}
	router.Use(gin.CustomRecovery(recoverJSON), RequestID(), Metrics())

	router.GET("/healthz", healthHandler(health))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/posts", posts.ListPosts)
	router.GET("/posts/:postId", posts.GetPost)

	protected := router.Group("/", Auth(jwtSecret))
	protected.POST("/posts", posts.CreatePost)
	protected.PUT("/posts/:postId", posts.UpdatePost)
	protected.DELETE("/posts/:postId", posts.DeletePost)

	return router
}

func recoverJSON(c *gin.Context, _ any) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Message: messageInternalError})
}

func healthHandler(check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
