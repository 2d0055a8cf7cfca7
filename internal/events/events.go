// Package events is the bridge between state-mutating services and the
// realtime layer. Services publish room-tagged events to a shared broker
// channel; every broadcast-serving process subscribes and forwards matching
// events to its own websocket connections, so clients see every event in
// publish order no matter which process handled the mutating request.
package events

import "context"

// Channel is the shared broker channel all game events flow through.
const Channel = "bingo:events"

// Event names published by the core.
const (
	EventDraw          = "draw"
	EventGameStatus    = "game_status"
	EventGameCompleted = "game_completed"
	EventPlayerJoined  = "player_joined"
	EventClaimAccepted = "claim_accepted"
	EventClaimDenied   = "claim_denied"
)

// Event is one state-change notification, tagged with the target room.
type Event struct {
	Room string      `json:"room"`
	Name string      `json:"event"`
	Data interface{} `json:"data"`
}

// Publisher delivers events to the broker. Fire-and-forget: failures are the
// publisher's to log, callers never retry, and reconnecting clients recover
// by re-fetching a snapshot.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Handler receives events on the subscribing side.
type Handler interface {
	HandleEvent(room, name string, data []byte)
}
