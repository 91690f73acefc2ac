// Package basenode implements the point-to-point transport this node
// uses to talk to Master Core and to peer controller nodes: a UDP
// socket carrying length-prefixed JSON envelopes, plus an in-memory
// loopback transport implementing the same interface for tests.
package basenode

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageType enumerates the envelope kinds exchanged with Master Core
// and peers.
type MessageType string

const (
	MessageTypeCommand   MessageType = "COMMAND"
	MessageTypeResponse  MessageType = "RESPONSE"
	MessageTypeData      MessageType = "DATA"
	MessageTypeHeartbeat MessageType = "HEARTBEAT"
	MessageTypeEmergency MessageType = "EMERGENCY"
	MessageTypeError     MessageType = "ERROR"
	MessageTypeConfig    MessageType = "CONFIG"
)

// Priority is the envelope's delivery priority, used by Master Core to
// order processing: error/command responses and emergency broadcasts
// jump the queue ahead of ordinary traffic.
type Priority string

const (
	PriorityNormal    Priority = "NORMAL"
	PriorityHigh      Priority = "HIGH"
	PriorityEmergency Priority = "EMERGENCY"
)

// Message is the wire envelope exchanged over the BaseNode transport:
// a UUID-tagged, typed, prioritized payload with an explicit
// source/destination pair.
type Message struct {
	MessageID   string          `json:"message_id"`
	Type        MessageType     `json:"type"`
	Priority    Priority        `json:"priority"`
	Source      string          `json:"source"`
	Destination string          `json:"destination"`
	Payload     json.RawMessage `json:"payload"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NewMessage stamps a fresh message_id and the caller-supplied time now.
func NewMessage(msgType MessageType, priority Priority, source, destination string, payload interface{}, now time.Time) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{
		MessageID:   uuid.NewString(),
		Type:        msgType,
		Priority:    priority,
		Source:      source,
		Destination: destination,
		Payload:     raw,
		Timestamp:   now,
	}, nil
}
