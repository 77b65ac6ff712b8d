package socket

import (
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog"
)

func userRoom(userID string) string {
	return "user:" + userID
}

// NewSocketServer initializes the Socket.IO server. Clients join a room named
// after their user id; the core announces matches and unmatches into that
// room through the Emitter.
func NewSocketServer(log zerolog.Logger) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Debug().Str("socketId", c.ID()).Msg("socket connected")
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, userID string) {
		if userID == "" {
			log.Warn().Str("socketId", c.ID()).Msg("join without userId")
			return
		}
		c.Join(userRoom(userID))
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Debug().Str("socketId", c.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	return server
}

// Emitter adapts the Socket.IO server to the core's Realtime interface.
type Emitter struct {
	Server *socketio.Server
}

// EmitToUser broadcasts an event to every connection the user holds.
// Best-effort: a user with no connected sockets simply receives nothing.
func (e *Emitter) EmitToUser(userID, event string, payload interface{}) error {
	e.Server.BroadcastToRoom("/", userRoom(userID), event, payload)
	return nil
}
