package service

import (
	"encoding/json"
	"log"
)

// publish pushes an event to the websocket hub when one is wired. The send is
// non-blocking: a hub without consumers must never stall a sync or a sale.
func publish(hub interface{ GetBroadcast() chan []byte }, event string, payload map[string]any) {
	if hub == nil {
		return
	}
	msg, err := json.Marshal(map[string]any{"event": event, "data": payload})
	if err != nil {
		log.Printf("failed to marshal %s event: %v", event, err)
		return
	}
	select {
	case hub.GetBroadcast() <- msg:
	default:
	}
}
