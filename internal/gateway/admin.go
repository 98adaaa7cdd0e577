package gateway

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gamehub/pokerroom/internal/game"
	"github.com/gamehub/pokerroom/internal/store"
)

// AdminHandler returns the operator HTTP API: room listing, inspection,
// creation and teardown. It serves redacted views; nobody's hole cards leak
// through the admin surface.
func (g *Gateway) AdminHandler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/rooms", func(c *gin.Context) {
		ids, err := g.hub.Rooms(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rooms": ids})
	})

	router.GET("/rooms/:id", func(c *gin.Context) {
		room, err := g.hub.Room(c.Request.Context(), game.RoomID(c.Param("id")))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": NewRoomView(room, "")})
	})

	router.POST("/rooms", func(c *gin.Context) {
		req := CreateRoomData{}
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		room, err := g.hub.CreateRoom(c.Request.Context(), req.SmallBlind, req.BigBlind)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"room": RoomCreatedData{
			RoomID:     string(room.ID),
			SmallBlind: room.SmallBlind,
			BigBlind:   room.BigBlind,
		}})
	})

	router.DELETE("/rooms/:id", func(c *gin.Context) {
		if err := g.hub.CloseRoom(c.Request.Context(), game.RoomID(c.Param("id"))); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"closed": c.Param("id")})
	})

	return router
}
