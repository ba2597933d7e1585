package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/babytracker/babytracker/internal/config"
	"github.com/babytracker/babytracker/internal/handlers"
	"github.com/babytracker/babytracker/internal/logging"
	"github.com/babytracker/babytracker/internal/metrics"
	"github.com/babytracker/babytracker/internal/requestid"
	"github.com/babytracker/babytracker/internal/store"
)

// NewRouter wires operational endpoints and the event API.
// Operational: /health, /ready, /metrics
// API: /api/diapers, /api/feedings
// Every route answers cross-origin requests from cfg.CORSOrigins.
func NewRouter(cfg config.Config, st store.Store, now func() time.Time) *gin.Engine {
	if now == nil {
		now = time.Now
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestid.Middleware(), logging.AccessLog(), countRequests(), corsMiddleware(cfg.CORSOrigins))

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the store is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	handlers.RegisterDiaperRoutes(api, st.Diapers(), now)
	handlers.RegisterFeedingRoutes(api, st.Feedings())

	return r
}

// countRequests labels by route template so ids do not explode cardinality.
func countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// corsMiddleware allows every origin when origins is empty or "*".
func corsMiddleware(origins []string) gin.HandlerFunc {
	cc := cors.DefaultConfig()
	cc.AllowHeaders = append(cc.AllowHeaders, requestid.Header)
	cc.ExposeHeaders = []string{requestid.Header}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cors.New(cc)
}
