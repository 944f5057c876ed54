package aim

import (
	"encoding/json"
	"fmt"

	"github.com/playpool/aimline/internal/geom"
)

// Wire names of the command types accepted from clients.
const (
	MsgPointerMoved    = "pointer_moved"
	MsgPointerPressed  = "pointer_pressed"
	MsgPointerReleased = "pointer_released"
	MsgKeyPressed      = "key_pressed"
	MsgCarryCancel     = "carry_cancel"
)

type pointerData struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Button string   `json:"button"`
}

type keyData struct {
	Key string `json:"key"`
}

// ParseButton maps "left", "right" and "middle" to a Button. An empty name
// is the left button.
func ParseButton(s string) (Button, error) {
	switch s {
	case "", "left":
		return ButtonLeft, nil
	case "right":
		return ButtonRight, nil
	case "middle":
		return ButtonMiddle, nil
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

// DecodeCommand builds a Command from a client message type and its JSON
// payload.
func DecodeCommand(kind string, data json.RawMessage) (Command, error) {
	switch kind {
	case MsgPointerMoved, MsgPointerPressed, MsgPointerReleased:
		at, button, err := decodePointer(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		switch kind {
		case MsgPointerMoved:
			return PointerMoved{At: at}, nil
		case MsgPointerPressed:
			return PointerPressed{At: at, Button: button}, nil
		}
		return PointerReleased{At: at}, nil

	case MsgKeyPressed:
		var d keyData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		k, err := ParseKey(d.Key)
		if err != nil {
			return nil, err
		}
		return KeyPressed{Key: k}, nil

	case MsgCarryCancel:
		return CarryCancel{}, nil
	}
	return nil, fmt.Errorf("unknown command type %q", kind)
}

func decodePointer(data json.RawMessage) (geom.Point, Button, error) {
	var d pointerData
	if err := json.Unmarshal(data, &d); err != nil {
		return geom.Point{}, 0, err
	}
	if d.X == nil || d.Y == nil {
		return geom.Point{}, 0, fmt.Errorf("x and y required")
	}
	p := geom.Pt(*d.X, *d.Y)
	if !p.IsFinite() {
		return geom.Point{}, 0, fmt.Errorf("non-finite position")
	}
	b, err := ParseButton(d.Button)
	return p, b, err
}
