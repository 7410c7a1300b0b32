// Package controlcli handles daemon communication and request encoding from pigeistctl.
package controlcli

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/mfulz/pigeist/internal/configcli"
	"github.com/mfulz/pigeist/protocol"
)

// ErrRejected wraps error responses returned by the daemon.
var ErrRejected = errors.New("rejected by daemon")

// DialTimeout bounds connection setup to a daemon.
var DialTimeout = 2 * time.Second

// Target is a resolved daemon endpoint plus the credentials to present.
type Target struct {
	Network string // "unix" or "tcp"
	Address string
	Auth    *protocol.Auth
}

// ResolveTarget selects the daemon to talk to. A non-empty overrideAddr is
// used directly (a path for unix sockets, host:port otherwise) together with
// overrideToken; otherwise the named daemon and user come from cfg. An empty
// userName falls back to cfg.User; with neither, no credentials are sent.
func ResolveTarget(cfg *configcli.Config, daemonName, userName, overrideAddr, overrideToken string) (Target, error) {
	var t Target

	if userName == "" && cfg != nil {
		userName = cfg.User
	}

	if overrideAddr != "" {
		t.Network, t.Address = "tcp", overrideAddr
		if isSocketPath(overrideAddr) {
			t.Network = "unix"
		}
		if overrideToken != "" || userName != "" {
			t.Auth = &protocol.Auth{User: userName, Token: overrideToken}
		}
		return t, nil
	}

	if daemonName == "" {
		daemonName = GuessDefaultDaemon(cfg)
	}
	daemon, ok := cfg.Daemons[daemonName]
	if !ok {
		return t, fmt.Errorf("daemon '%s' not found", daemonName)
	}
	switch {
	case daemon.Socket != "":
		t.Network, t.Address = "unix", daemon.Socket
	case daemon.TCP != "":
		t.Network, t.Address = "tcp", daemon.TCP
	default:
		return t, fmt.Errorf("invalid daemon config: no socket or tcp defined")
	}

	if userName != "" {
		user, ok := cfg.Users[userName]
		if !ok {
			return t, fmt.Errorf("user '%s' not found", userName)
		}
		token := user.Token
		if overrideToken != "" {
			token = overrideToken
		}
		t.Auth = &protocol.Auth{User: userName, Token: token}
	}
	return t, nil
}

func isSocketPath(addr string) bool {
	return len(addr) > 0 && (addr[0] == '/' || addr[0] == '.')
}

// Session is a persistent connection to a daemon. Drive mode keeps one
// session open for the whole key loop.
type Session struct {
	conn   net.Conn
	reader *bufio.Reader
	auth   *protocol.Auth
}

// Dial opens a session to t.
func Dial(t Target) (*Session, error) {
	conn, err := net.DialTimeout(t.Network, t.Address, DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon at %s: %w", t.Address, err)
	}
	return &Session{conn: conn, reader: bufio.NewReader(conn), auth: t.Auth}, nil
}

// Do sends one request and waits for its response. Error responses are
// returned as they are; only transport failures produce an error.
func (s *Session) Do(command string, data interface{}) (*protocol.Response, error) {
	req := protocol.NewRequest(command, s.auth, data)
	if err := protocol.WriteRequest(s.conn, req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	resp, err := protocol.ReadResponse(s.reader)
	if err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	if resp.ID != "" && resp.ID != req.ID {
		return nil, fmt.Errorf("response id %s does not match request %s", resp.ID, req.ID)
	}
	return resp, nil
}

// PressKey sends one key and returns the reported effect name.
func (s *Session) PressKey(key string) (string, error) {
	resp, err := s.Do(protocol.CmdKeyPress, protocol.KeyRequest{Key: key})
	if err != nil {
		return "", err
	}
	if resp.Status != protocol.StatusOK {
		return "", fmt.Errorf("%w: %s", ErrRejected, resp.Error)
	}
	var out protocol.KeyResponse
	if err := protocol.DecodePayload(resp.Data, &out); err != nil {
		return "", err
	}
	return out.Effect, nil
}

// Close ends the session.
func (s *Session) Close() error {
	return s.conn.Close()
}

// SendCommandWithAuth connects to a configured daemon and sends a single request.
func SendCommandWithAuth(cfg *configcli.Config, daemonName, userName, command string, data interface{}) (*protocol.Response, error) {
	t, err := ResolveTarget(cfg, daemonName, userName, "", "")
	if err != nil {
		return nil, err
	}
	return send(t, command, data)
}

// SendDirectCommand sends a single request to addr without consulting the config.
func SendDirectCommand(addr, token, userName, command string, data interface{}) (*protocol.Response, error) {
	t, err := ResolveTarget(nil, "", userName, addr, token)
	if err != nil {
		return nil, err
	}
	return send(t, command, data)
}

func send(t Target, command string, data interface{}) (*protocol.Response, error) {
	s, err := Dial(t)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Do(command, data)
}

// ListAvailableDaemons returns the configured daemon names, sorted.
func ListAvailableDaemons(cfg *configcli.Config) []string {
	return cfg.DaemonNames()
}

// GuessDefaultDaemon returns the preferred daemon name or "" if none is configured.
func GuessDefaultDaemon(cfg *configcli.Config) string {
	return cfg.DefaultDaemonName()
}
