package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Jubbyperson/nutrition-chatbot/metrics"
	"github.com/Jubbyperson/nutrition-chatbot/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LogController struct {
	M *metrics.Metrics
}

func NewLogController(m *metrics.Metrics) *LogController {
	return &LogController{M: m}
}

// POST /logs
func (lc *LogController) SaveLog(c *gin.Context) {
	userID := c.GetUint("userID")

	var input services.LogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := services.UpsertDailyLog(userID, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lc.M.LogsSavedTotal.Inc()
	c.JSON(http.StatusCreated, entry)
}

// GET /logs?from=YYYY-MM-DD&to=YYYY-MM-DD (defaults to the trailing 30 days)
func (lc *LogController) ListLogs(c *gin.Context) {
	userID := c.GetUint("userID")

	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	logs, err := services.ListLogs(userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GET /logs/latest
func (lc *LogController) LatestLog(c *gin.Context) {
	userID := c.GetUint("userID")

	entry, err := services.LatestLog(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no logs yet"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DELETE /logs/:id
func (lc *LogController) DeleteLog(c *gin.Context) {
	userID := c.GetUint("userID")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	if err := services.DeleteLog(userID, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "log not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// parseRange reads optional from/to query params; an empty value stays
// zero so services fall back to their defaults. Writes the error response
// itself when a param is malformed.
func parseRange(c *gin.Context) (from, to time.Time, ok bool) {
	loc := time.Now().Location()
	if v := c.Query("from"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return from, to, false
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return from, to, false
		}
		to = parsed
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "`to` must be on/after `from`"})
		return from, to, false
	}
	return from, to, true
}
