// Package controlcli provides shared client-side IPC wrappers for interacting with pigeistd.
// This module unifies command execution and abstracts the SendCommandWithAuth layer.
package controlcli

import (
	"fmt"

	"github.com/mfulz/pigeist/internal/configcli"
	"github.com/mfulz/pigeist/internal/logging"
	"github.com/mfulz/pigeist/protocol"
)

// Options selects the daemon and identity for one-shot commands.
type Options struct {
	Daemon        string
	User          string
	OverrideAddr  string
	OverrideToken string
}

// Target resolves o against cfg.
func (o Options) Target(cfg *configcli.Config) (Target, error) {
	return ResolveTarget(cfg, o.Daemon, o.User, o.OverrideAddr, o.OverrideToken)
}

// execWithAuth sends one command to the daemon selected by opts and turns
// error responses into errors.
func execWithAuth(cmd string, payload interface{}, cfg *configcli.Config, opts Options) (*protocol.Response, error) {
	var resp *protocol.Response
	var err error

	switch {
	case opts.OverrideAddr != "":
		resp, err = SendDirectCommand(opts.OverrideAddr, opts.OverrideToken, opts.User, cmd, payload)
	case opts.OverrideToken != "":
		t, terr := opts.Target(cfg)
		if terr != nil {
			return nil, terr
		}
		resp, err = send(t, cmd, payload)
	default:
		resp, err = SendCommandWithAuth(cfg, opts.Daemon, opts.User, cmd, payload)
	}

	if err != nil {
		logging.Log.Errorf("[pigeistctl] %s failed: %v", cmd, err)
		return nil, err
	}
	if resp.Status != protocol.StatusOK {
		logging.Log.Errorf("[pigeistctl] %s rejected: %s", cmd, resp.Error)
		return resp, fmt.Errorf("%w: %s", ErrRejected, resp.Error)
	}
	return resp, nil
}

// ListKeymap sends CmdKeymapList and returns the bindings in menu order.
func ListKeymap(cfg *configcli.Config, opts Options) ([]protocol.Binding, error) {
	resp, err := execWithAuth(protocol.CmdKeymapList, nil, cfg, opts)
	if err != nil {
		return nil, err
	}
	var out protocol.KeymapResponse
	if err := protocol.DecodePayload(resp.Data, &out); err != nil {
		logging.Log.Errorf("Failed to parse KeymapResponse: %v", err)
		return nil, err
	}
	return out.Bindings, nil
}

// RobotState sends CmdRobotState.
func RobotState(cfg *configcli.Config, opts Options) (*protocol.StateResponse, error) {
	resp, err := execWithAuth(protocol.CmdRobotState, nil, cfg, opts)
	if err != nil {
		return nil, err
	}
	var out protocol.StateResponse
	if err := protocol.DecodePayload(resp.Data, &out); err != nil {
		logging.Log.Errorf("Failed to parse StateResponse: %v", err)
		return nil, err
	}
	return &out, nil
}

// Ping sends CmdPing and returns the daemon's backend name.
func Ping(cfg *configcli.Config, opts Options) (string, error) {
	resp, err := execWithAuth(protocol.CmdPing, nil, cfg, opts)
	if err != nil {
		return "", err
	}
	var out protocol.PingResponse
	if err := protocol.DecodePayload(resp.Data, &out); err != nil {
		return "", err
	}
	return out.Backend, nil
}
