package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/babytracker/babytracker/internal/metrics"
	"github.com/babytracker/babytracker/internal/models"
	"github.com/babytracker/babytracker/internal/store"
)

// RegisterDiaperRoutes registers the diaper collection and item endpoints.
//
// POST   /diapers      - type required; timestamp defaults to now()
// GET    /diapers      - optional start_date, end_date, limit; newest first
// GET    /diapers/:id
// PUT    /diapers/:id  - partial update of type and/or timestamp
// DELETE /diapers/:id  - 404 when the id does not exist
func RegisterDiaperRoutes(r gin.IRoutes, st store.DiaperStore, now func() time.Time) {
	r.POST("/diapers", func(c *gin.Context) {
		var req models.DiaperCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		typ := models.DiaperType(req.Type)
		if !typ.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid diaper type"})
			return
		}

		ts := now().UTC()
		if req.Timestamp != nil {
			t, err := parseRFC3339(*req.Timestamp)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "timestamp must be RFC3339"})
				return
			}
			ts = t
		}

		d := models.Diaper{Type: typ, Timestamp: ts}
		if err := st.Create(c.Request.Context(), &d); err != nil {
			storeError(c, models.KindDiaper, err)
			return
		}

		metrics.EventsWritten.WithLabelValues(models.KindDiaper, "create").Inc()
		c.JSON(http.StatusCreated, d)
	})

	r.GET("/diapers", func(c *gin.Context) {
		f, err := parseListFilter(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rows, err := st.List(c.Request.Context(), f)
		if err != nil {
			storeError(c, models.KindDiaper, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	r.GET("/diapers/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		d, err := st.Get(c.Request.Context(), id)
		if err != nil {
			storeError(c, models.KindDiaper, err)
			return
		}
		c.JSON(http.StatusOK, d)
	})

	r.PUT("/diapers/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		var req models.DiaperUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		var patch models.DiaperPatch
		if req.Type != nil {
			typ := models.DiaperType(*req.Type)
			if !typ.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid diaper type"})
				return
			}
			patch.Type = &typ
		}
		ts, err := parseOptionalTime(req.Timestamp)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "timestamp must be RFC3339"})
			return
		}
		patch.Timestamp = ts

		if patch.Empty() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
			return
		}

		d, err := st.Update(c.Request.Context(), id, patch)
		if err != nil {
			storeError(c, models.KindDiaper, err)
			return
		}

		metrics.EventsWritten.WithLabelValues(models.KindDiaper, "update").Inc()
		c.JSON(http.StatusOK, d)
	})

	r.DELETE("/diapers/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		if err := st.Delete(c.Request.Context(), id); err != nil {
			storeError(c, models.KindDiaper, err)
			return
		}

		metrics.EventsWritten.WithLabelValues(models.KindDiaper, "delete").Inc()
		c.Status(http.StatusNoContent)
	})
}
