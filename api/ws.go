package api

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-solo/session"
	"github.com/hoshinonyaruko/snake-solo/structs"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// steerMessage is what clients send over the socket to turn the snake.
type steerMessage struct {
	Direction string `json:"direction"`
}

// StreamFrames upgrades to a websocket, sends the current frame and then
// one frame per published change. Clients may send {"direction": "up"}.
func StreamFrames(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookupSession(c, m)
		if !ok {
			return
		}
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			log.Printf("Error accepting websocket: %v", err)
			return
		}
		defer conn.Close(websocket.StatusInternalError, "")

		frames, unsubscribe := s.Subscribe()
		defer unsubscribe()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()
		go readSteering(ctx, cancel, conn, s)

		if err := wsjson.Write(ctx, conn, s.Frame()); err != nil {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case frame, ok := <-frames:
				if !ok {
					conn.Close(websocket.StatusGoingAway, "session closed")
					return
				}
				if err := wsjson.Write(ctx, conn, frame); err != nil {
					log.Printf("session %s: websocket write: %v", s.ID, err)
					return
				}
			}
		}
	}
}

// readSteering 读取客户端发来的方向，连接断开时取消ctx
func readSteering(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, s *session.Session) {
	defer cancel()
	for {
		var msg steerMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return
		}
		d, err := structs.ParseDirection(msg.Direction)
		if err != nil {
			continue
		}
		s.SetDirection(d)
	}
}
