// Package gateway exposes the hub over websockets for players and over a
// small HTTP API for operators. Commands arrive as JSON messages; state
// changes flow back as event batches, with hole cards routed only to their
// owner.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/gamehub/pokerroom/internal/game"
	"github.com/gamehub/pokerroom/internal/hub"
	"github.com/gamehub/pokerroom/internal/store"
)

// Gateway bridges websocket clients and the hub.
type Gateway struct {
	hub      *hub.Hub
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[*Connection]struct{}
}

// New creates a gateway over the given hub.
func New(h *hub.Hub, logger *log.Logger) *Gateway {
	return &Gateway{
		hub:    h,
		logger: logger.WithPrefix("gateway"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[*Connection]struct{}),
	}
}

// Handler returns the websocket endpoint.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.handleWS)
	return mux
}

// Run pumps hub events out to connected clients until the context ends.
func (g *Gateway) Run(ctx context.Context) {
	events, cancel := g.hub.Subscribe()
	defer cancel()

	for {
		select {
		case env, ok := <-events:
			if !ok {
				return
			}
			g.fanOut(env)
		case <-ctx.Done():
			return
		}
	}
}

func (g *Gateway) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("upgrade failed", "err", err)
		return
	}

	conn := NewConnection(ws, g.logger)
	g.mu.Lock()
	g.conns[conn] = struct{}{}
	g.mu.Unlock()

	g.logger.Debug("client connected", "remote", r.RemoteAddr)
	go conn.writePump()
	conn.readLoop(g.dispatch)

	g.mu.Lock()
	delete(g.conns, conn)
	g.mu.Unlock()
	g.logger.Debug("client disconnected", "remote", r.RemoteAddr)
}

// dispatch handles one inbound command.
func (g *Gateway) dispatch(c *Connection, msg *Message) {
	ctx := context.Background()

	if msg.Type != MessageHello && c.PlayerID() == "" {
		g.sendError(c, msg, "unauthenticated", "send hello first")
		return
	}

	switch msg.Type {
	case MessageHello:
		g.handleHello(c, msg)

	case MessageCreate:
		data := CreateRoomData{}
		if !g.decode(c, msg, &data) {
			return
		}
		room, err := g.hub.CreateRoom(ctx, data.SmallBlind, data.BigBlind)
		if err != nil {
			g.sendError(c, msg, errorCode(err), err.Error())
			return
		}
		c.WatchRoom(room.ID)
		g.reply(c, msg, MessageRoomCreated, RoomCreatedData{
			RoomID:     string(room.ID),
			SmallBlind: room.SmallBlind,
			BigBlind:   room.BigBlind,
		})

	case MessageJoin:
		data := JoinRoomData{}
		if !g.decode(c, msg, &data) {
			return
		}
		roomID := game.RoomID(data.RoomID)
		if _, err := g.hub.Join(ctx, roomID, c.PlayerID(), string(c.PlayerID()), data.BuyIn); err != nil {
			g.sendError(c, msg, errorCode(err), err.Error())
			return
		}
		c.WatchRoom(roomID)
		g.sendState(c, msg, roomID)

	case MessageLeave:
		data := LeaveRoomData{}
		if !g.decode(c, msg, &data) {
			return
		}
		roomID := game.RoomID(data.RoomID)
		if _, err := g.hub.Leave(ctx, roomID, c.PlayerID()); err != nil {
			g.sendError(c, msg, errorCode(err), err.Error())
			return
		}
		c.UnwatchRoom(roomID)

	case MessageStartHand:
		data := StartHandData{}
		if !g.decode(c, msg, &data) {
			return
		}
		if _, err := g.hub.StartHand(ctx, game.RoomID(data.RoomID)); err != nil {
			g.sendError(c, msg, errorCode(err), err.Error())
			return
		}

	case MessageAction:
		data := ActionData{}
		if !g.decode(c, msg, &data) {
			return
		}
		action, err := parseAction(data)
		if err != nil {
			g.sendError(c, msg, "invalid_action", err.Error())
			return
		}
		if _, err := g.hub.Act(ctx, game.RoomID(data.RoomID), c.PlayerID(), action); err != nil {
			g.sendError(c, msg, errorCode(err), err.Error())
			return
		}

	case MessageGetState:
		data := GetStateData{}
		if !g.decode(c, msg, &data) {
			return
		}
		g.sendState(c, msg, game.RoomID(data.RoomID))

	default:
		g.sendError(c, msg, "unknown_command", fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func (g *Gateway) handleHello(c *Connection, msg *Message) {
	data := HelloData{}
	if !g.decode(c, msg, &data) {
		return
	}
	if data.PlayerID == "" {
		g.sendError(c, msg, "invalid_hello", "playerId is required")
		return
	}
	c.SetPlayer(game.PlayerID(data.PlayerID))
	g.reply(c, msg, MessageWelcome, WelcomeData{PlayerID: data.PlayerID})
}

// fanOut routes one envelope to the watching connections. Hole cards only go
// to their owner; everything else is broadcast.
func (g *Gateway) fanOut(env hub.Envelope) {
	public := make([]EventEnvelope, 0, len(env.Events))
	private := map[game.PlayerID][]game.HoleCardsDealtEvent{}
	for _, ev := range env.Events {
		if hole, ok := ev.(game.HoleCardsDealtEvent); ok {
			private[hole.PlayerID] = append(private[hole.PlayerID], hole)
			continue
		}
		public = append(public, EventEnvelope{Type: ev.EventType(), Event: ev})
	}

	g.mu.RLock()
	conns := make([]*Connection, 0, len(g.conns))
	for conn := range g.conns {
		conns = append(conns, conn)
	}
	g.mu.RUnlock()

	for _, conn := range conns {
		if !conn.Watching(env.RoomID) {
			continue
		}
		if len(public) > 0 {
			msg, err := NewMessage(MessageEvents, EventsData{
				RoomID: string(env.RoomID),
				Events: public,
			})
			if err == nil {
				_ = conn.Send(msg)
			}
		}
		for _, hole := range private[conn.PlayerID()] {
			msg, err := NewMessage(MessageHoleCards, HoleCardsData{
				RoomID: string(env.RoomID),
				Cards:  hole.Cards,
			})
			if err == nil {
				_ = conn.Send(msg)
			}
		}
	}
}

func (g *Gateway) sendState(c *Connection, req *Message, roomID game.RoomID) {
	room, err := g.hub.Room(context.Background(), roomID)
	if err != nil {
		g.sendError(c, req, errorCode(err), err.Error())
		return
	}
	g.reply(c, req, MessageState, StateData{Room: NewRoomView(room, c.PlayerID())})
}

func (g *Gateway) reply(c *Connection, req *Message, mt MessageType, data interface{}) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		g.logger.Error("encoding reply", "err", err)
		return
	}
	msg.RequestID = req.RequestID
	_ = c.Send(msg)
}

func (g *Gateway) sendError(c *Connection, req *Message, code, message string) {
	g.reply(c, req, MessageError, ErrorData{Code: code, Message: message})
}

func (g *Gateway) decode(c *Connection, msg *Message, out interface{}) bool {
	if err := json.Unmarshal(msg.Data, out); err != nil {
		g.sendError(c, msg, "bad_payload", err.Error())
		return false
	}
	return true
}

// parseAction translates a wire action into an engine action.
func parseAction(data ActionData) (game.Action, error) {
	at, err := game.ParseActionType(data.Action)
	if err != nil {
		return game.Action{}, err
	}
	switch at {
	case game.ActionFold:
		return game.Fold(), nil
	case game.ActionCheck:
		return game.Check(), nil
	case game.ActionCall:
		return game.Call(), nil
	case game.ActionRaise:
		if data.Amount <= 0 {
			return game.Action{}, fmt.Errorf("raise requires a positive amount")
		}
		return game.RaiseTo(data.Amount), nil
	case game.ActionAllIn:
		return game.AllIn(), nil
	}
	return game.Action{}, fmt.Errorf("unsupported action %q", data.Action)
}

// errorCode maps engine errors onto stable wire codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, game.ErrBelowMinimumRaise):
		return "below_minimum_raise"
	case errors.Is(err, game.ErrInsufficientChips):
		return "insufficient_chips"
	case errors.Is(err, game.ErrPlayerFolded):
		return "player_folded"
	case errors.Is(err, game.ErrInvalidAction):
		return "invalid_action"
	case errors.Is(err, game.ErrNotSeated):
		return "not_seated"
	case errors.Is(err, game.ErrAlreadySeated):
		return "already_seated"
	case errors.Is(err, game.ErrRoomFull):
		return "room_full"
	case errors.Is(err, game.ErrHandInProgress):
		return "hand_in_progress"
	case errors.Is(err, game.ErrNotEnoughPlayers):
		return "not_enough_players"
	case errors.Is(err, game.ErrRoomNotPlaying):
		return "room_not_playing"
	case errors.Is(err, store.ErrNotFound):
		return "room_not_found"
	default:
		return "internal_error"
	}
}
