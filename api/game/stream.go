package gameapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/beka-birhanu/glade/api/identity"
	"github.com/beka-birhanu/glade/service"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// stream upgrades to a websocket that pushes every new session frame as JSON.
// The client may send MoveRequest messages on the same socket.
func (c *Controller) stream(ctx *gin.Context) {
	player, ok := identity.PlayerFrom(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	updates, cancel, err := c.sessions.Subscribe(player.ID)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	defer cancel()

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// The upgrader has already replied.
		c.logger.Warning(fmt.Sprintf("upgrading stream of %s: %v", player.Username, err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var request MoveRequest
			if err := conn.ReadJSON(&request); err != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			if _, _, err := c.sessions.Move(player.ID, request.Direction); err != nil {
				if !errors.Is(err, service.ErrNoSession) {
					c.logger.Error(fmt.Sprintf("stream move of %s: %v", player.Username, err))
				}
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case state, ok := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
				return
			}
			if err := conn.WriteJSON(toSessionResponse(state)); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
