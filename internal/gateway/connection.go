package gateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/gamehub/pokerroom/internal/game"
)

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = errors.New("gateway: connection closed")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Connection wraps one websocket client. Reads are handled by the gateway's
// dispatch loop; writes go through a buffered channel so a slow client never
// blocks the hub.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu       sync.RWMutex
	playerID game.PlayerID
	rooms    map[game.RoomID]struct{}
}

// NewConnection wraps an upgraded websocket.
func NewConnection(conn *websocket.Conn, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
		rooms:  make(map[game.RoomID]struct{}),
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// Done is closed when the connection shuts down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Send queues a message for the client. A full buffer closes the connection
// rather than blocking the caller.
func (c *Connection) Send(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}
	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("send buffer full, closing connection", "player", c.PlayerID())
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetPlayer associates the connection with a player after hello.
func (c *Connection) SetPlayer(id game.PlayerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = id
}

// PlayerID returns the player behind the connection, or "".
func (c *Connection) PlayerID() game.PlayerID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// WatchRoom marks the connection as interested in a room's events.
func (c *Connection) WatchRoom(id game.RoomID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[id] = struct{}{}
}

// UnwatchRoom stops delivery of a room's events.
func (c *Connection) UnwatchRoom(id game.RoomID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, id)
}

// Watching reports whether the connection follows a room.
func (c *Connection) Watching(id game.RoomID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.rooms[id]
	return ok
}

// writePump drains the send channel onto the socket and keeps the connection
// alive with pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("write failed", "err", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// readLoop decodes inbound messages and hands them to the dispatcher until
// the socket drops.
func (c *Connection) readLoop(dispatch func(*Connection, *Message)) {
	defer func() { _ = c.Close() }()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msg := &Message{}
		if err := c.conn.ReadJSON(msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read failed", "err", err)
			}
			return
		}
		dispatch(c, msg)
	}
}
