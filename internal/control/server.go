// Package control provides the server-side daemon logic. It accepts JSON-line
// requests from pigeistctl on every enabled control instance (unix socket or
// TCP listener) and routes them through a dispatch.Dispatcher.
package control

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/mfulz/pigeist/dispatch"
	"github.com/mfulz/pigeist/internal/acl"
	"github.com/mfulz/pigeist/internal/configd"
	"github.com/mfulz/pigeist/internal/logging"
	"github.com/mfulz/pigeist/internal/robot"
	"github.com/mfulz/pigeist/protocol"
)

// Server owns the listeners of all control instances and the robot they drive.
type Server struct {
	cfg   *configd.Config
	robot *robot.Robot
	acl   *acl.Checker

	// mu serializes access to the robot's dispatcher across connections.
	mu  sync.Mutex
	ctx context.Context

	wg        sync.WaitGroup
	lmu       sync.Mutex
	listeners []net.Listener
	conns     map[net.Conn]struct{}
	closed    bool
}

// NewServer builds a server for cfg. The ACL section of cfg is validated here.
func NewServer(cfg *configd.Config, r *robot.Robot) (*Server, error) {
	checker, err := acl.New(cfg.ACL, acl.Permissions())
	if err != nil {
		return nil, fmt.Errorf("invalid acl config: %w", err)
	}
	return &Server{
		cfg:   cfg,
		robot: r,
		acl:   checker,
		ctx:   context.Background(),
		conns: make(map[net.Conn]struct{}),
	}, nil
}

// Start binds every enabled control instance and serves it in the background.
// Cancelling ctx closes all listeners and connections and aborts running
// choreography. If any instance fails to bind, the already bound ones are
// closed again and the error is returned.
func (s *Server) Start(ctx context.Context) error {
	s.ctx = ctx

	for _, inst := range s.cfg.Control.Instances {
		if !inst.Enabled {
			logging.Log.Debugf("[control] Instance '%s' disabled, skipping", inst.Name)
			continue
		}
		ln, err := listen(inst)
		if err != nil {
			s.Close()
			return fmt.Errorf("control instance '%s': %w", inst.Name, err)
		}
		s.lmu.Lock()
		s.listeners = append(s.listeners, ln)
		s.lmu.Unlock()

		logging.Log.Infof("[control] Listening on %s %s (instance '%s', auth=%v)",
			inst.Mode, ln.Addr(), inst.Name, inst.Auth.Enabled)

		d := s.newDispatcher(inst)
		s.wg.Add(1)
		go s.serve(ln, inst, d)
	}

	go func() {
		<-ctx.Done()
		s.Close()
	}()
	return nil
}

// Addrs returns the bound listener addresses in instance order.
func (s *Server) Addrs() []net.Addr {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	out := make([]net.Addr, 0, len(s.listeners))
	for _, ln := range s.listeners {
		out = append(out, ln.Addr())
	}
	return out
}

// Close shuts all listeners and open connections. It is safe to call twice.
func (s *Server) Close() {
	s.lmu.Lock()
	s.closed = true
	for _, ln := range s.listeners {
		_ = ln.Close()
	}
	s.listeners = nil
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.lmu.Unlock()
}

// Wait blocks until every accept loop and connection handler has returned.
func (s *Server) Wait() {
	s.wg.Wait()
}

func listen(inst configd.ControlInstance) (net.Listener, error) {
	switch inst.Mode {
	case "unix":
		// Clean up a stale socket from a previous run
		if _, err := os.Stat(inst.Listen); err == nil {
			_ = os.Remove(inst.Listen)
		}
		ln, err := net.Listen("unix", inst.Listen)
		if err != nil {
			return nil, fmt.Errorf("failed to bind unix socket: %w", err)
		}
		return ln, nil
	case "tcp":
		ln, err := net.Listen("tcp", inst.Listen)
		if err != nil {
			return nil, fmt.Errorf("failed to bind tcp listener: %w", err)
		}
		return ln, nil
	default:
		return nil, fmt.Errorf("unsupported control mode '%s'", inst.Mode)
	}
}

func (s *Server) newDispatcher(inst configd.ControlInstance) *dispatch.Dispatcher {
	d := dispatch.New()
	d.Register(protocol.CmdKeyPress, s.KeyPressHandler(inst))
	d.Register(protocol.CmdKeymapList, s.KeymapHandler(inst))
	d.Register(protocol.CmdRobotState, s.RobotStateHandler(inst))
	d.Register(protocol.CmdPing, s.PingHandler(inst))
	return d
}

func (s *Server) serve(ln net.Listener, inst configd.ControlInstance, d *dispatch.Dispatcher) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				logging.Log.Infof("[control] Instance '%s' stopped", inst.Name)
				return
			}
			logging.Log.Warnf("[control] Accept error on '%s': %v", inst.Name, err)
			continue
		}

		s.lmu.Lock()
		if s.closed {
			s.lmu.Unlock()
			_ = conn.Close()
			return
		}
		s.conns[conn] = struct{}{}
		s.lmu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn, inst, d)
		}()
	}
}

// handleConn serves one client until it disconnects. Every request is
// answered with exactly one response line.
func (s *Server) handleConn(conn net.Conn, inst configd.ControlInstance, d *dispatch.Dispatcher) {
	defer func() {
		s.lmu.Lock()
		delete(s.conns, conn)
		s.lmu.Unlock()
		_ = conn.Close()
	}()

	reader := bufio.NewReader(conn)
	for {
		req, err := protocol.ReadRequest(reader)
		if err != nil && !errors.Is(err, protocol.ErrMalformed) {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				logging.Log.Debugf("[control] Connection on '%s' closed: %v", inst.Name, err)
			}
			return
		}

		var resp *protocol.Response
		if err != nil {
			logging.Log.Warnf("[control] Bad request on '%s': %v", inst.Name, err)
			resp = protocol.Fail(&protocol.Request{}, err.Error())
		} else if err := s.authenticate(inst, req); err != nil {
			logging.Log.Warnf("[control] Rejected %s from '%s' on '%s'", req.Type, extractUser(req), inst.Name)
			resp = protocol.Fail(req, err.Error())
		} else {
			resp = d.Dispatch(req)
		}

		if err := protocol.WriteResponse(conn, resp); err != nil {
			logging.Log.Debugf("[control] Write failed on '%s': %v", inst.Name, err)
			return
		}
	}
}
