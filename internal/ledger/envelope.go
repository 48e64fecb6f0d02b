package ledger

import (
	"bytes"
	"encoding/json"
)

// Envelope is the {success, msg} wrapper returned by every ledger call.
type Envelope struct {
	Success bool    `json:"success"`
	Msg     Message `json:"msg"`
}

// Message holds the raw JSON of an envelope's msg. The contract returns
// either a human-readable string, string-encoded JSON, or a JSON document.
type Message json.RawMessage

func (m Message) MarshalJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("null"), nil
	}
	return m, nil
}

func (m *Message) UnmarshalJSON(data []byte) error {
	*m = append((*m)[:0], data...)
	return nil
}

// Text returns the message when it is a JSON string, "" otherwise.
func (m Message) Text() string {
	b := bytes.TrimSpace(m)
	if len(b) == 0 || b[0] != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ""
	}
	return s
}

// Payload returns the bytes a record should be decoded from: the content of
// a JSON string, or the raw document otherwise. An absent message is null.
func (m Message) Payload() []byte {
	b := bytes.TrimSpace(m)
	if len(b) == 0 {
		return []byte("null")
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			return []byte(s)
		}
	}
	return b
}

// TextMessage builds a message from a plain string.
func TextMessage(s string) Message {
	b, _ := json.Marshal(s)
	return b
}

// Ok returns a successful envelope carrying v encoded as string-encoded
// JSON, the way the contract returns records. Strings are carried as-is.
func Ok(v any) Envelope {
	if s, ok := v.(string); ok {
		return Envelope{Success: true, Msg: TextMessage(s)}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return Envelope{}
	}
	return Envelope{Success: true, Msg: TextMessage(string(b))}
}

// Fail returns a failed envelope. An empty reason leaves msg absent.
func Fail(reason string) Envelope {
	if reason == "" {
		return Envelope{}
	}
	return Envelope{Msg: TextMessage(reason)}
}
