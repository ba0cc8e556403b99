package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/document-manager/internal/handlers"
	"github.com/jonesrussell/document-manager/internal/logger"
	"github.com/jonesrussell/document-manager/internal/models"
)

const corsMaxAgeHours = 12

// NewRouter wires the HTTP surface: the three pipeline endpoints plus the
// document read endpoints and a health check.
func NewRouter(
	ingest *handlers.IngestHandler,
	documents *handlers.DocumentHandler,
	corsOrigins []string,
	log logger.Logger,
) *gin.Engine {
	router := gin.New()

	// CORS middleware - must be first
	router.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"Authorization", "accept", "origin", "Cache-Control",
			"X-Requested-With", "X-User-ID", "X-Username",
		},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeHours * time.Hour,
	}))

	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(resolveUser())

	docs := v1.Group("/documents")
	docs.POST("/template", ingest.GenerateTemplate)
	docs.POST("/validate", ingest.Validate)
	docs.POST("/upload", ingest.Process)
	docs.GET("", documents.List)
	docs.GET("/:id", documents.GetByID)

	return router
}

// resolveUser turns the identity headers set by the auth gateway into an
// explicit user object for handlers. No headers means no user; the upload
// handler treats that as fatal.
func resolveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetHeader("X-Username")
		if username == "" {
			c.Next()
			return
		}
		c.Set(handlers.UserContextKey, &models.User{
			ID:       c.GetHeader("X-User-ID"),
			Username: username,
		})
		c.Next()
	}
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", statusCode),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", duration),
		)
	}
}
