package gateway

import (
	"encoding/json"
	"time"

	"github.com/gamehub/pokerroom/internal/deck"
	"github.com/gamehub/pokerroom/internal/game"
)

// MessageType identifies a websocket message.
type MessageType string

// Client → server commands.
const (
	MessageHello     MessageType = "hello"
	MessageCreate    MessageType = "create_room"
	MessageJoin      MessageType = "join_room"
	MessageLeave     MessageType = "leave_room"
	MessageStartHand MessageType = "start_hand"
	MessageAction    MessageType = "action"
	MessageGetState  MessageType = "get_state"
)

// Server → client messages.
const (
	MessageWelcome     MessageType = "welcome"
	MessageRoomCreated MessageType = "room_created"
	MessageState       MessageType = "state"
	MessageEvents      MessageType = "events"
	MessageHoleCards   MessageType = "hole_cards"
	MessageError       MessageType = "error"
)

// Message is the wire envelope. Data holds the type-specific payload.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage wraps a payload in an envelope with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = bytes
	}
	return &Message{
		Type:      messageType,
		Data:      raw,
		Timestamp: time.Now(),
	}, nil
}

// Client → server payloads.

// HelloData introduces the player behind the connection.
type HelloData struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name,omitempty"`
}

// CreateRoomData requests a new room. Zero blinds take the server defaults.
type CreateRoomData struct {
	SmallBlind int `json:"smallBlind,omitempty"`
	BigBlind   int `json:"bigBlind,omitempty"`
}

// JoinRoomData seats the player. A zero buy-in takes the server default.
type JoinRoomData struct {
	RoomID string `json:"roomId"`
	BuyIn  int    `json:"buyIn,omitempty"`
}

// LeaveRoomData gives up the player's seat.
type LeaveRoomData struct {
	RoomID string `json:"roomId"`
}

// StartHandData deals the next hand.
type StartHandData struct {
	RoomID string `json:"roomId"`
}

// ActionData applies a betting action. Amount is the raise-to total and is
// only read for raises.
type ActionData struct {
	RoomID string `json:"roomId"`
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// GetStateData requests a room snapshot.
type GetStateData struct {
	RoomID string `json:"roomId"`
}

// Server → client payloads.

// WelcomeData acknowledges a hello.
type WelcomeData struct {
	PlayerID string `json:"playerId"`
}

// RoomCreatedData carries the id of a freshly created room.
type RoomCreatedData struct {
	RoomID     string `json:"roomId"`
	SmallBlind int    `json:"smallBlind"`
	BigBlind   int    `json:"bigBlind"`
}

// StateData is a room snapshot with the private parts stripped for the
// receiving player.
type StateData struct {
	Room *RoomView `json:"room"`
}

// EventsData is a batch of public events from one room.
type EventsData struct {
	RoomID string          `json:"roomId"`
	Events []EventEnvelope `json:"events"`
}

// EventEnvelope pairs an event with its type tag so clients can decode it.
type EventEnvelope struct {
	Type  game.EventType `json:"type"`
	Event interface{}    `json:"event"`
}

// HoleCardsData delivers a player's private cards.
type HoleCardsData struct {
	RoomID string      `json:"roomId"`
	Cards  []deck.Card `json:"cards"`
}

// ErrorData reports a rejected command.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
