// Package realtime defines the envelope pushed over websocket channels. The
// payload travels as a loose map so one envelope type can carry any feed.
package realtime

import (
	"encoding/json"

	"github.com/mitchellh/mapstructure"
)

type Event struct {
	Op   string         `json:"op"`
	Data map[string]any `json:"data"`
}

const (
	OpChatMessage = "chat_message"
	OpPrayCount   = "pray_count"
	OpNewPrayer   = "new_prayer"
	OpNotify      = "notify"
)

// NewEvent flattens payload into the envelope's data map through its json
// tags.
func NewEvent(op string, payload any) (*Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	data := map[string]any{}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, err
	}

	return &Event{Op: op, Data: data}, nil
}

func (e *Event) Bytes() ([]byte, error) {
	return json.Marshal(e)
}

func ParseEvent(raw []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, err
	}

	return &event, nil
}

// DecodeData maps the event payload back into a typed struct, matching on
// json tags so the same tags serve both directions.
func DecodeData(event *Event, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(event.Data)
}
