package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jubbyperson/nutrition-chatbot/models"
	"github.com/Jubbyperson/nutrition-chatbot/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteLogEndpoint(t *testing.T) {
	db := newControllerDB(t)
	user := &models.User{Email: "logs@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	entry, err := services.UpsertDailyLog(user.ID, services.LogInput{
		Date: "2025-03-10", WeightLbs: 180, Calories: 2000, Protein: 150, Carbs: 200, Fat: 70,
	})
	require.NoError(t, err)

	lc := NewLogController(testMetrics)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/logs/:id", func(c *gin.Context) { c.Set("userID", user.ID) }, lc.DeleteLog)

	del := func(id string) int {
		req := httptest.NewRequest(http.MethodDelete, "/logs/"+id, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusBadRequest, del("not-a-number"))
	assert.Equal(t, http.StatusNotFound, del("999999"))
	assert.Equal(t, http.StatusNoContent, del(fmt.Sprint(entry.ID)))
	// already gone
	assert.Equal(t, http.StatusNotFound, del(fmt.Sprint(entry.ID)))
}
