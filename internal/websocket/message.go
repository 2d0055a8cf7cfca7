package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	// Client to Server
	MessageTypeJoinRoom  MessageType = "JOIN_ROOM"
	MessageTypeLeaveRoom MessageType = "LEAVE_ROOM"

	// Server to Client
	MessageTypeJoined MessageType = "JOINED"
	MessageTypeEvent  MessageType = "EVENT"
	MessageTypeError  MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type JoinRoomPayload struct {
	Room string `json:"room"`
}

// Server to Client payloads

type JoinedPayload struct {
	Room string `json:"room"`
}

// EventPayload wraps a fan-out bridge event for delivery to a client.
type EventPayload struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
