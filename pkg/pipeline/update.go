package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnclassifiedUpdate is returned when an update carries no payload
// field next to its identifier. The update source guarantees exactly one
// payload field per update, so this is a contract violation upstream,
// not something handlers are expected to recover from.
var ErrUnclassifiedUpdate = errors.New("pipeline: update has no payload field")

// Update is one inbound event delivered to the pipeline.
//
// Type is the name of the single top-level payload field other than
// update_id (e.g. "message", "callback_query"). Raw holds the update
// body exactly as it arrived; the pipeline never mutates it.
type Update struct {
	ID   int64
	Type string
	Raw  json.RawMessage
}

// ParseUpdate decodes an inbound update and classifies it.
func ParseUpdate(raw []byte) (Update, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Update{}, fmt.Errorf("pipeline: decode update: %w", err)
	}

	u := Update{Raw: append(json.RawMessage(nil), raw...)}

	if id, ok := fields["update_id"]; ok {
		if err := json.Unmarshal(id, &u.ID); err != nil {
			return Update{}, fmt.Errorf("pipeline: decode update_id: %w", err)
		}
	}

	for name := range fields {
		if name != "update_id" {
			u.Type = name
			break
		}
	}
	if u.Type == "" {
		return Update{}, ErrUnclassifiedUpdate
	}

	return u, nil
}
