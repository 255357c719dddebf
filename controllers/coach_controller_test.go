package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Jubbyperson/nutrition-chatbot/metrics"
	"github.com/Jubbyperson/nutrition-chatbot/models"
	"github.com/Jubbyperson/nutrition-chatbot/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// promauto registers into the default registry, so one instance serves
// every test in the package.
var testMetrics = metrics.New()

type coachWSFixture struct {
	conn *websocket.Conn

	mu       sync.Mutex
	captured [][]services.ChatMessage
}

// messages returns a copy of the message lists sent upstream so far.
func (f *coachWSFixture) messages() [][]services.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]services.ChatMessage(nil), f.captured...)
}

func (f *coachWSFixture) send(t *testing.T, msg string) map[string]string {
	t.Helper()
	require.NoError(t, f.conn.WriteJSON(map[string]string{"message": msg}))
	require.NoError(t, f.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var out map[string]string
	require.NoError(t, f.conn.ReadJSON(&out))
	return out
}

// dialCoachWS stands up a stub completions endpoint, a chat socket for a
// complete-profile user, and returns a connected client.
func dialCoachWS(t *testing.T, reply string) *coachWSFixture {
	t.Helper()

	db := newControllerDB(t)
	user := &models.User{
		Email:         "coach@example.com",
		Password:      "x",
		Age:           30,
		HeightInches:  70,
		WeightLbs:     180,
		Sex:           "male",
		ActivityLevel: "moderate",
		Goal:          "lose_weight",
	}
	require.NoError(t, db.Create(user).Error)

	f := &coachWSFixture{}
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []services.ChatMessage `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		f.captured = append(f.captured, req.Messages)
		f.mu.Unlock()

		resp, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		})
		_, _ = w.Write(resp)
	}))
	t.Cleanup(api.Close)
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", api.URL)

	cc := NewCoachController(services.NewCoachService(), nil, testMetrics)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/coach/ws", func(c *gin.Context) { c.Set("userID", user.ID) }, cc.CoachWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/coach/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	f.conn = conn
	return f
}

func TestCoachWSChat(t *testing.T) {
	f := dialCoachWS(t, "Keep protein high at breakfast.")

	out := f.send(t, "What should I eat?")
	assert.Equal(t, "coach", out["role"])
	assert.Equal(t, "Keep protein high at breakfast.", out["content"])

	// the profile system prompt anchors the conversation
	msgs := f.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "system", msgs[0][0].Role)
	assert.Contains(t, msgs[0][0].Content, "2349 calories")
	assert.Equal(t, "What should I eat?", msgs[0][len(msgs[0])-1].Content)
}

func TestCoachWSRejectsMalformedFrame(t *testing.T) {
	f := dialCoachWS(t, "unused")

	require.NoError(t, f.conn.WriteMessage(websocket.TextMessage, []byte("{}")))
	require.NoError(t, f.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var out map[string]string
	require.NoError(t, f.conn.ReadJSON(&out))
	assert.NotEmpty(t, out["error"])

	// the connection survives and keeps answering
	reply := f.send(t, "still there?")
	assert.Equal(t, "unused", reply["content"])
}

func TestCoachWSTrimsHistory(t *testing.T) {
	f := dialCoachWS(t, "noted")

	for i := 0; i < 12; i++ {
		f.send(t, fmt.Sprintf("message %d", i))
	}

	msgs := f.messages()
	require.Len(t, msgs, 12)

	// system prompt + 20 capped history turns + the current message
	last := msgs[11]
	require.Len(t, last, 22)
	assert.Equal(t, "system", last[0].Role)
	assert.Equal(t, "message 11", last[21].Content)
	// the oldest pair was dropped, so retained history starts at turn 1
	assert.Equal(t, "message 1", last[1].Content)
	assert.Equal(t, "user", last[1].Role)
}
