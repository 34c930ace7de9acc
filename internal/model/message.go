package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Message is a stored webhook payload. It is serialized flat: the payload
// fields plus "id" and "timestamp".
//
// Documents written by older versions may carry a payload's own non-integer
// id. Such a message has ID 0 and keeps that id in Payload.
type Message struct {
	ID        int64
	Timestamp string
	Payload   map[string]any
}

func (m Message) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Payload)+2)
	for k, v := range m.Payload {
		out[k] = v
	}
	if _, legacy := m.Payload["id"]; !legacy || m.ID != 0 {
		out["id"] = m.ID
	}
	out["timestamp"] = m.Timestamp
	return json.Marshal(out)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber() // keep payload numbers as written
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("message is not a JSON object")
	}

	if n, ok := raw["id"].(json.Number); ok {
		if id, err := n.Int64(); err == nil {
			m.ID = id
			delete(raw, "id")
		}
	}
	if ts, ok := raw["timestamp"].(string); ok {
		m.Timestamp = ts
		delete(raw, "timestamp")
	}
	m.Payload = raw
	return nil
}

// WebhookPayload is the decoded body of an inbound webhook call.
type WebhookPayload map[string]any

// Timestamp returns the payload's own timestamp, if it carries a string one.
func (p WebhookPayload) Timestamp() (string, bool) {
	ts, ok := p["timestamp"].(string)
	return ts, ok && ts != ""
}
