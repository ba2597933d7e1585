package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/babytracker/babytracker/internal/metrics"
	"github.com/babytracker/babytracker/internal/models"
	"github.com/babytracker/babytracker/internal/store"
)

// RegisterFeedingRoutes registers the feeding endpoints. They mirror the
// diaper ones; both start_time and end_time are required on create, and an
// end before the start is accepted as entered.
func RegisterFeedingRoutes(r gin.IRoutes, st store.FeedingStore) {
	r.POST("/feedings", func(c *gin.Context) {
		var req models.FeedingCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		if req.StartTime == "" || req.EndTime == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_time and end_time are required"})
			return
		}
		start, err := parseRFC3339(req.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be RFC3339"})
			return
		}
		end, err := parseRFC3339(req.EndTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be RFC3339"})
			return
		}

		f := models.Feeding{StartTime: start, EndTime: end}
		if err := st.Create(c.Request.Context(), &f); err != nil {
			storeError(c, models.KindFeeding, err)
			return
		}

		metrics.EventsWritten.WithLabelValues(models.KindFeeding, "create").Inc()
		c.JSON(http.StatusCreated, f)
	})

	r.GET("/feedings", func(c *gin.Context) {
		f, err := parseListFilter(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rows, err := st.List(c.Request.Context(), f)
		if err != nil {
			storeError(c, models.KindFeeding, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	r.GET("/feedings/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		f, err := st.Get(c.Request.Context(), id)
		if err != nil {
			storeError(c, models.KindFeeding, err)
			return
		}
		c.JSON(http.StatusOK, f)
	})

	r.PUT("/feedings/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		var req models.FeedingUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		var (
			patch models.FeedingPatch
			err   error
		)
		if patch.StartTime, err = parseOptionalTime(req.StartTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be RFC3339"})
			return
		}
		if patch.EndTime, err = parseOptionalTime(req.EndTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be RFC3339"})
			return
		}
		if patch.Empty() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
			return
		}

		f, err := st.Update(c.Request.Context(), id, patch)
		if err != nil {
			storeError(c, models.KindFeeding, err)
			return
		}

		metrics.EventsWritten.WithLabelValues(models.KindFeeding, "update").Inc()
		c.JSON(http.StatusOK, f)
	})

	r.DELETE("/feedings/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		if err := st.Delete(c.Request.Context(), id); err != nil {
			storeError(c, models.KindFeeding, err)
			return
		}

		metrics.EventsWritten.WithLabelValues(models.KindFeeding, "delete").Inc()
		c.Status(http.StatusNoContent)
	})
}
