package bot

import (
	"fmt"
	"strconv"
	"strings"

	"content-bot/internal/channel"
)

// Callback payloads are the only persisted pointer from a delivered
// draft back to its plan entry, so they carry an explicit version and
// are parsed strictly. The separator cannot collide with the encoded
// values: actions and channels are fixed tokens and the day is numeric.
const (
	payloadVersion = "v1"
	payloadSep     = ":"
)

type Action string

const (
	ActionPublish  Action = "pub"
	ActionNewPhoto Action = "pic"
	ActionNewText  Action = "txt"
)

type Payload struct {
	Action  Action
	Channel channel.Channel
	Day     int
}

func (p Payload) Encode() string {
	return strings.Join([]string{
		payloadVersion,
		string(p.Action),
		p.Channel.String(),
		strconv.Itoa(p.Day),
	}, payloadSep)
}

func ParsePayload(raw string) (Payload, error) {
	parts := strings.Split(raw, payloadSep)
	if len(parts) != 4 {
		return Payload{}, fmt.Errorf("callback payload %q: expected 4 fields, got %d", raw, len(parts))
	}
	if parts[0] != payloadVersion {
		return Payload{}, fmt.Errorf("callback payload %q: unsupported version %q", raw, parts[0])
	}
	action := Action(parts[1])
	switch action {
	case ActionPublish, ActionNewPhoto, ActionNewText:
	default:
		return Payload{}, fmt.Errorf("callback payload %q: unknown action %q", raw, parts[1])
	}
	ch, err := channel.Parse(parts[2])
	if err != nil {
		return Payload{}, fmt.Errorf("callback payload %q: %w", raw, err)
	}
	day, err := strconv.Atoi(parts[3])
	if err != nil || day < 1 {
		return Payload{}, fmt.Errorf("callback payload %q: bad day %q", raw, parts[3])
	}
	return Payload{Action: action, Channel: ch, Day: day}, nil
}
