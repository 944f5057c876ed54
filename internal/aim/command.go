package aim

import (
	"fmt"

	"github.com/playpool/aimline/internal/geom"
)

// Command is one input event. The set is closed: only the types in this file
// implement it.
type Command interface {
	isCommand()
}

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

type PointerMoved struct {
	At geom.Point
}

type PointerPressed struct {
	At     geom.Point
	Button Button
}

type PointerReleased struct {
	At geom.Point
}

type KeyPressed struct {
	Key Key
}

// CarryCancel abandons an active carry without closing the overlay.
type CarryCancel struct{}

func (PointerMoved) isCommand()    {}
func (PointerPressed) isCommand()  {}
func (PointerReleased) isCommand() {}
func (KeyPressed) isCommand()      {}
func (CarryCancel) isCommand()     {}

// Key is a recognized hotkey.
type Key string

const (
	KeyToggleLock        Key = "toggle_lock"
	KeyCancel            Key = "cancel"
	KeyPocket1           Key = "pocket_1"
	KeyPocket2           Key = "pocket_2"
	KeyPocket3           Key = "pocket_3"
	KeyPocket4           Key = "pocket_4"
	KeyPocket5           Key = "pocket_5"
	KeyPocket6           Key = "pocket_6"
	KeySave              Key = "save"
	KeyLoad              Key = "load"
	KeyToggleSnap        Key = "toggle_snap"
	KeyTogglePocketLines Key = "toggle_pocket_lines"
	KeyToggleAimLine     Key = "toggle_aim_line"
	KeyToggleBank        Key = "toggle_bank"
	KeyToggleDoubleBank  Key = "toggle_double_bank"
)

var pocketKeys = [NumPockets]Key{KeyPocket1, KeyPocket2, KeyPocket3, KeyPocket4, KeyPocket5, KeyPocket6}

var knownKeys = map[Key]bool{
	KeyToggleLock: true, KeyCancel: true, KeySave: true, KeyLoad: true,
	KeyToggleSnap: true, KeyTogglePocketLines: true, KeyToggleAimLine: true,
	KeyToggleBank: true, KeyToggleDoubleBank: true,
}

func init() {
	for _, k := range pocketKeys {
		knownKeys[k] = true
	}
}

// PocketKey returns the hotkey for pocket index i.
func PocketKey(i int) Key {
	return pocketKeys[i]
}

// PocketIndex reports which pocket a hotkey targets.
func (k Key) PocketIndex() (int, bool) {
	for i, pk := range pocketKeys {
		if pk == k {
			return i, true
		}
	}
	return 0, false
}

// ParseKey validates a key name received from a client.
func ParseKey(s string) (Key, error) {
	k := Key(s)
	if !knownKeys[k] {
		return "", fmt.Errorf("unknown key %q", s)
	}
	return k, nil
}

// Effect tells the caller what to do after a command was applied.
type Effect int

const (
	EffectNone Effect = iota
	EffectRedraw
	EffectSave
	EffectLoad
	EffectClose
)

func (e Effect) String() string {
	switch e {
	case EffectRedraw:
		return "redraw"
	case EffectSave:
		return "save"
	case EffectLoad:
		return "load"
	case EffectClose:
		return "close"
	}
	return "none"
}
