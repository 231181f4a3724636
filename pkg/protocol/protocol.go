package protocol

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"
)

// MessageKind defines the kind of message being sent
type MessageKind string

const (
	// Instruction messages carry a command line for the controller to execute
	KindInstruction MessageKind = "instruction"

	// Response messages carry execution output back to the console
	KindResponse MessageKind = "response"

	// Liveness probe round trip
	KindPing MessageKind = "ping"
	KindPong MessageKind = "pong"
)

// Message is the wire unit exchanged between console and controller.
// The Kind discriminant tags the payload so new kinds can be added
// without breaking older peers.
type Message struct {
	Kind      MessageKind     `json:"kind"`
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// InstructionPayload carries one raw command line to execute remotely.
type InstructionPayload struct {
	Line string `json:"line"`
}

// ResponsePayload carries the result of executing one instruction.
// InstructionID correlates the response back to the instruction that
// produced it; exactly one response is sent per instruction.
type ResponsePayload struct {
	InstructionID string   `json:"instruction_id"`
	Lines         []string `json:"lines,omitempty"`
	ErrorText     string   `json:"error_text,omitempty"`
}

// PongPayload echoes the ID of the ping being answered.
type PongPayload struct {
	PingID string `json:"ping_id"`
}

// NewMessage creates a new message with the given kind and payload
func NewMessage(kind MessageKind, payload interface{}) (*Message, error) {
	var data json.RawMessage
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}

	return &Message{
		Kind:      kind,
		ID:        GenerateID(),
		Timestamp: time.Now(),
		Payload:   data,
	}, nil
}

// ParsePayload unmarshals the message payload into the given interface
func (m *Message) ParsePayload(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

// GenerateID generates a unique message ID
func GenerateID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
