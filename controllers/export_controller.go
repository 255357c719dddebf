package controllers

import (
	"net/http"

	"github.com/Jubbyperson/nutrition-chatbot/services"

	"github.com/gin-gonic/gin"
)

// GET /export/logs?from=&to=
func ExportLogs(c *gin.Context) {
	userID := c.GetUint("userID")

	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	url, err := services.ExportLogsCSV(c.Request.Context(), userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
