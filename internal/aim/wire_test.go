package aim

import (
	"encoding/json"
	"testing"

	"github.com/playpool/aimline/internal/geom"
)

func TestDecodeCommand(t *testing.T) {
	cases := []struct {
		kind string
		data string
		want Command
	}{
		{MsgPointerMoved, `{"x":10,"y":20}`, PointerMoved{At: geom.Pt(10, 20)}},
		{MsgPointerPressed, `{"x":1.5,"y":2}`, PointerPressed{At: geom.Pt(1.5, 2), Button: ButtonLeft}},
		{MsgPointerPressed, `{"x":0,"y":0,"button":"right"}`, PointerPressed{At: geom.Pt(0, 0), Button: ButtonRight}},
		{MsgPointerReleased, `{"x":3,"y":4}`, PointerReleased{At: geom.Pt(3, 4)}},
		{MsgKeyPressed, `{"key":"pocket_2"}`, KeyPressed{Key: KeyPocket2}},
		{MsgCarryCancel, ``, CarryCancel{}},
	}
	for _, tc := range cases {
		got, err := DecodeCommand(tc.kind, json.RawMessage(tc.data))
		if err != nil {
			t.Errorf("DecodeCommand(%s, %s): %v", tc.kind, tc.data, err)
			continue
		}
		if got != tc.want {
			t.Errorf("DecodeCommand(%s, %s) = %#v, want %#v", tc.kind, tc.data, got, tc.want)
		}
	}
}

func TestDecodeCommandRejects(t *testing.T) {
	bad := []struct{ kind, data string }{
		{"shoot", `{}`},
		{MsgPointerMoved, `{"x":1}`},
		{MsgPointerPressed, `{"x":1,"y":1,"button":"thumb"}`},
		{MsgKeyPressed, `{"key":"explode"}`},
		{MsgPointerReleased, `not json`},
	}
	for _, tc := range bad {
		if _, err := DecodeCommand(tc.kind, json.RawMessage(tc.data)); err == nil {
			t.Errorf("DecodeCommand(%s, %s) succeeded", tc.kind, tc.data)
		}
	}
}
