package dispatch

import (
	"testing"

	"github.com/mfulz/pigeist/protocol"
)

func TestDispatch(t *testing.T) {
	d := New()
	d.Register(protocol.CmdPing, func(req *protocol.Request) *protocol.Response {
		return &protocol.Response{Status: protocol.StatusOK, Data: "pong"}
	})

	req := protocol.NewRequest(protocol.CmdPing, nil, nil)
	resp := d.Dispatch(req)
	if resp.Status != protocol.StatusOK || resp.Data != "pong" {
		t.Errorf("Dispatch(ping) = %+v", resp)
	}
	if resp.ID != req.ID {
		t.Errorf("response ID = %q, want %q", resp.ID, req.ID)
	}

	unknown := protocol.NewRequest("robot.fly", nil, nil)
	resp = d.Dispatch(unknown)
	if resp.Status != protocol.StatusError || resp.Error != "unknown command" || resp.ID != unknown.ID {
		t.Errorf("Dispatch(unknown) = %+v", resp)
	}

	if got := d.Commands(); len(got) != 1 || got[0] != protocol.CmdPing {
		t.Errorf("Commands() = %v", got)
	}
}
