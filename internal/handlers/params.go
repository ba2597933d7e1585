package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/babytracker/babytracker/internal/models"
	"github.com/babytracker/babytracker/internal/requestid"
	"github.com/babytracker/babytracker/internal/store"
)

const dateLayout = "2006-01-02"

// parseRFC3339 parses an RFC3339 timestamp and normalizes it to UTC.
func parseRFC3339(ts string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseOptionalTime parses a nullable RFC3339 field.
func parseOptionalTime(ts *string) (*time.Time, error) {
	if ts == nil {
		return nil, nil
	}
	t, err := parseRFC3339(*ts)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseBound accepts an RFC3339 instant or a bare YYYY-MM-DD date. A bare
// date as the upper bound covers the whole UTC day.
func parseBound(s string, upper bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := parseRFC3339(s); err == nil {
		return &t, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	if upper {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return &d, nil
}

// parseListFilter reads start_date, end_date and limit.
// The range is inclusive at both ends.
func parseListFilter(c *gin.Context) (models.ListFilter, error) {
	var f models.ListFilter
	var err error

	if f.Start, err = parseBound(c.Query("start_date"), false); err != nil {
		return f, errors.New("start_date must be RFC3339 or YYYY-MM-DD")
	}
	if f.End, err = parseBound(c.Query("end_date"), true); err != nil {
		return f, errors.New("end_date must be RFC3339 or YYYY-MM-DD")
	}
	if f.Start != nil && f.End != nil && f.Start.After(*f.End) {
		return f, errors.New("start_date must be <= end_date")
	}

	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return f, errors.New("limit must be a positive integer")
		}
		f.Limit = n
	}
	return f, nil
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// storeError maps storage errors onto responses. Anything unrecognized is
// logged and reported as a generic 500.
func storeError(c *gin.Context, kind string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": kind + " not found"})
	case errors.Is(err, store.ErrInvalidType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid diaper type"})
	case errors.Is(err, store.ErrEmptyPatch), errors.Is(err, store.ErrMissingTime):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.WithFields(log.Fields{
			"request_id": requestid.Get(c),
			"kind":       kind,
			"path":       c.FullPath(),
		}).WithError(err).Error("store operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db operation failed"})
	}
}
