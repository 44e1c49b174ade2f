package api

import (
	"log"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aggregator-service/middleware"
)

// NewRouter wires the API routes onto a gin engine.
func NewRouter(h *Handler, corsOrigins []string) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(corsOrigins) == 0 || contains(corsOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = corsOrigins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.PrometheusMiddleware("aggregator-service"))

	router.GET("/health", healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/", h.root)
		apiGroup.GET("/content", h.getContent)
		apiGroup.POST("/content/analyze", h.analyzeContent)
		apiGroup.POST("/content/manual", h.uploadManualContent)
		apiGroup.POST("/rss-sources", h.addSource)
		apiGroup.GET("/rss-sources", h.listSources)
		apiGroup.POST("/rss-sources/:id/fetch", h.fetchSource)
		apiGroup.POST("/fetch-all", h.fetchAllSources)
		apiGroup.POST("/feedback", h.logFeedback)
		apiGroup.POST("/setup/default-sources", h.setupDefaultSources)
	}

	return router
}

// StartServer runs the API until the listener fails.
func StartServer(h *Handler, port string, corsOrigins []string) error {
	router := NewRouter(h, corsOrigins)
	log.Printf("Knowledge Aggregator API is running at :%s", port)
	return router.Run(":" + port)
}

func healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "healthy", "service": "aggregator-service"})
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func intQuery(c *gin.Context, key string, defaultValue int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func floatQuery(c *gin.Context, key string, defaultValue float64) float64 {
	if v := c.Query(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
