package xstatus

import (
	"bytes"
	"encoding/json"
)

// Message is one element popped from (or peeked at) a status queue.
// Payload holds the codec-encoded bytes exactly as they sit in the store; the
// consumer path never inspects them.
type Message struct {
	// Queue is the physical queue name the message came from.
	Queue string
	// Payload is the encoded record.
	Payload []byte
}

// Level is the display severity of a status record.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Valid reports whether l is one of the four known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelInfo, LevelSuccess, LevelWarning, LevelError:
		return true
	}
	return false
}

// Status is the conventional display record pushed by background jobs.
type Status struct {
	Status Level  `json:"status"`
	Msg    string `json:"msg"`
}

// Record is the schema-less view of a message used for rendering. Extra keys
// pushed by producers survive untouched.
type Record map[string]any

// Status returns the record's status field, or "" when absent or not a string.
func (r Record) Status() string {
	s, _ := r["status"].(string)
	return s
}

// Msg returns the record's msg field, or "" when absent or not a string.
func (r Record) Msg() string {
	s, _ := r["msg"].(string)
	return s
}

// DecodeRecord turns a message into a Record. It never fails: payloads that
// are not objects are placed under "value", and payloads the codec cannot
// read are kept verbatim as a string.
func DecodeRecord(c Codec, m Message) Record {
	if c == nil {
		c = JSONCodec{}
	}
	var obj map[string]any
	if err := c.Unmarshal(m.Payload, &obj); err == nil && obj != nil {
		return Record(obj)
	}
	var v any
	if err := c.Unmarshal(m.Payload, &v); err == nil {
		return Record{"value": v}
	}
	return Record{"value": string(bytes.TrimSpace(m.Payload))}
}

// DecodeRecords maps DecodeRecord over msgs, preserving order.
func DecodeRecords(c Codec, msgs []Message) []Record {
	out := make([]Record, len(msgs))
	for i := range msgs {
		out[i] = DecodeRecord(c, msgs[i])
	}
	return out
}

// MarshalJSON keeps Record output stable when nil.
func (r Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(r))
}
