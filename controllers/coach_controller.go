package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Jubbyperson/nutrition-chatbot/config"
	"github.com/Jubbyperson/nutrition-chatbot/metrics"
	"github.com/Jubbyperson/nutrition-chatbot/models"
	"github.com/Jubbyperson/nutrition-chatbot/services"
	"github.com/Jubbyperson/nutrition-chatbot/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type CoachController struct {
	Coach *services.CoachService
	Tips  *services.TipCache
	M     *metrics.Metrics
}

func NewCoachController(coach *services.CoachService, tips *services.TipCache, m *metrics.Metrics) *CoachController {
	return &CoachController{Coach: coach, Tips: tips, M: m}
}

// profileFor loads the user and computes targets; writes the error
// response itself on failure.
func profileFor(c *gin.Context) (*utils.Profile, *models.User, bool) {
	userID := c.GetUint("userID")

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, nil, false
	}

	profile, err := services.ProfileForUser(&user)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "complete your profile first: " + err.Error()})
		return nil, nil, false
	}
	return profile, &user, true
}

// GET /coach/advice
func (cc *CoachController) GetAdvice(c *gin.Context) {
	profile, user, ok := profileFor(c)
	if !ok {
		return
	}

	advice, err := cc.Coach.PersonalizedAdvice(c.Request.Context(), profile, user.Goal)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	cc.M.CoachCallsTotal.WithLabelValues("advice").Inc()
	c.JSON(http.StatusOK, advice)
}

type mealSuggestInput struct {
	MealType    string            `json:"meal_type" binding:"required"`
	Preferences map[string]string `json:"preferences"`
}

// POST /coach/meal
func (cc *CoachController) SuggestMeal(c *gin.Context) {
	profile, _, ok := profileFor(c)
	if !ok {
		return
	}

	var input mealSuggestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := cc.Coach.SuggestMeal(c.Request.Context(), profile, input.MealType, input.Preferences)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	cc.M.CoachCallsTotal.WithLabelValues("meal").Inc()
	c.JSON(http.StatusOK, meal)
}

// GET /coach/analysis, last 30 days of logs against the computed targets
func (cc *CoachController) AnalyzeProgress(c *gin.Context) {
	profile, _, ok := profileFor(c)
	if !ok {
		return
	}

	userID := c.GetUint("userID")
	logs, err := services.ListLogs(userID, time.Time{}, time.Time{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cc.M.CoachCallsTotal.WithLabelValues("analysis").Inc()
	c.JSON(http.StatusOK, cc.Coach.AnalyzeProgress(profile, logs))
}

// GET /coach/tip
func (cc *CoachController) GetQuickTip(c *gin.Context) {
	profile, user, ok := profileFor(c)
	if !ok {
		return
	}

	userID := c.GetUint("userID")
	if tip, hit := cc.Tips.Get(c.Request.Context(), userID); hit {
		c.JSON(http.StatusOK, gin.H{"tip": tip, "cached": true})
		return
	}

	tip := cc.Coach.QuickTip(c.Request.Context(), profile, user.Goal)
	cc.Tips.Set(c.Request.Context(), userID, tip)

	cc.M.CoachCallsTotal.WithLabelValues("tip").Inc()
	c.JSON(http.StatusOK, gin.H{"tip": tip})
}

var coachUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind a proxy if needed
}

type chatClientMsg struct {
	Message string `json:"message"`
}

type chatServerMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// maxChatHistory bounds the prompt: older turns are dropped pairwise.
const maxChatHistory = 20

// CoachWS is the chat surface: each text frame is one user message, each
// reply frame one coach answer. History lives only for the lifetime of
// the connection, like a chat panel session.
func (cc *CoachController) CoachWS(c *gin.Context) {
	profile, user, ok := profileFor(c)
	if !ok {
		return
	}

	conn, err := coachUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var history []services.ChatMessage
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var in chatClientMsg
		if err := json.Unmarshal(raw, &in); err != nil || in.Message == "" {
			writeChatMsg(conn, chatServerMsg{Role: "coach", Error: "send {\"message\": \"...\"}"})
			continue
		}

		reply, err := cc.Coach.ChatReply(c.Request.Context(), profile, user.Goal, history, in.Message)
		if err != nil {
			writeChatMsg(conn, chatServerMsg{Role: "coach", Error: err.Error()})
			continue
		}

		cc.M.CoachCallsTotal.WithLabelValues("chat").Inc()
		history = append(history,
			services.ChatMessage{Role: "user", Content: in.Message},
			services.ChatMessage{Role: "assistant", Content: reply},
		)
		if len(history) > maxChatHistory {
			history = history[len(history)-maxChatHistory:]
		}

		writeChatMsg(conn, chatServerMsg{Role: "coach", Content: reply})
	}
}

func writeChatMsg(conn *websocket.Conn, msg chatServerMsg) {
	raw, _ := json.Marshal(msg)
	_ = conn.WriteMessage(websocket.TextMessage, raw)
}
