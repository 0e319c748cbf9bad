package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	ws "github.com/ikkim/foodgram-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedController_PushesRecipePublished(t *testing.T) {
	hub := ws.NewHub()
	go hub.Run()
	feed := NewFeedController(hub, []string{"http://localhost:3000"})

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		c.Set("user_id", uint(2))
		c.Next()
	}, feed.WebSocketHandler)
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.IsUserOnline(2) }, 2*time.Second, 10*time.Millisecond)

	hub.NotifyRecipePublished([]uint{2}, service.RecipePublishedEvent{
		AuthorID: 1,
		Recipe:   service.RecipeShortView{ID: 7, Name: "Soup", CookingTime: 20},
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "recipe_published", msg["type"])
	assert.Equal(t, float64(1), msg["author_id"])
	assert.Equal(t, "Soup", msg["recipe"].(map[string]interface{})["name"])
}

func TestFeedController_RejectsForeignOrigin(t *testing.T) {
	hub := ws.NewHub()
	go hub.Run()
	feed := NewFeedController(hub, []string{"http://localhost:3000"})

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		c.Set("user_id", uint(2))
		c.Next()
	}, feed.WebSocketHandler)
	server := httptest.NewServer(router)
	defer server.Close()

	header := http.Header{}
	header.Set("Origin", "http://evil.test")
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	_, resp, err := gorillaws.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestFeedController_RequiresUser(t *testing.T) {
	feed := NewFeedController(ws.NewHub(), nil)
	router := gin.New()
	router.GET("/ws", feed.WebSocketHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
