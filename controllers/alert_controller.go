package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Jubbyperson/nutrition-chatbot/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type AlertController struct {
	RT *services.RealtimeHub
}

func NewAlertController(rt *services.RealtimeHub) *AlertController {
	return &AlertController{RT: rt}
}

// GET /alerts?limit=
func (ac *AlertController) ListAlerts(c *gin.Context) {
	userID := c.GetUint("userID")

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	alerts, err := services.ListAlerts(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

var alertUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AlertsWS streams alert.created events to the client.
func (ac *AlertController) AlertsWS(c *gin.Context) {
	uid := c.GetUint("userID")

	conn, err := alertUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.WSClient{UserID: uid, Conn: conn}
	ac.RT.Register(cl)

	// ping to keep connections alive through proxies
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for range t.C {
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				ac.RT.Unregister(cl)
				return
			}
		}
	}()

	// read loop ends on client close/error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			ac.RT.Unregister(cl)
			return
		}
	}
}
