package control

import (
	"github.com/mfulz/pigeist/dispatch"
	"github.com/mfulz/pigeist/internal/acl"
	"github.com/mfulz/pigeist/internal/command"
	"github.com/mfulz/pigeist/internal/configd"
	"github.com/mfulz/pigeist/internal/logging"
	"github.com/mfulz/pigeist/protocol"
)

// KeyPressHandler dispatches one key on the robot. Controller failures are
// reported as error responses; the effect is "nothing" in that case.
func (s *Server) KeyPressHandler(inst configd.ControlInstance) dispatch.HandlerFunc {
	return func(req *protocol.Request) *protocol.Response {
		var payload protocol.KeyRequest
		if err := protocol.DecodePayload(req.Data, &payload); err != nil {
			return protocol.Fail(req, err.Error())
		}

		var rules acl.RuleSet
		if b, ok := s.robot.Dispatcher.Lookup(payload.Key); ok {
			rules = s.cfg.ACL.Handlers[b.Handler]
		}
		if err := s.authorize(inst, req, acl.PermDrive, rules); err != nil {
			return protocol.Fail(req, err.Error())
		}

		s.mu.Lock()
		effect, err := s.robot.Dispatcher.Dispatch(s.ctx, payload.Key)
		s.mu.Unlock()

		if err != nil {
			logging.Log.Errorf("[control] Key %q from '%s' failed: %v", payload.Key, extractUser(req), err)
			return protocol.Fail(req, err.Error())
		}
		logging.Log.Debugf("[control] Key %q from '%s' -> %s", payload.Key, extractUser(req), effect)
		return protocol.OK(req, protocol.KeyResponse{Key: payload.Key, Effect: string(effect)})
	}
}

// KeymapHandler lists the bindings in menu order.
func (s *Server) KeymapHandler(inst configd.ControlInstance) dispatch.HandlerFunc {
	return func(req *protocol.Request) *protocol.Response {
		if err := s.authorize(inst, req, acl.PermObserve, acl.RuleSet{}); err != nil {
			return protocol.Fail(req, err.Error())
		}
		return protocol.OK(req, keymapResponse(s.robot.Dispatcher.Keymap()))
	}
}

// RobotStateHandler reports the dispatcher's toggle flags.
func (s *Server) RobotStateHandler(inst configd.ControlInstance) dispatch.HandlerFunc {
	return func(req *protocol.Request) *protocol.Response {
		if err := s.authorize(inst, req, acl.PermObserve, acl.RuleSet{}); err != nil {
			return protocol.Fail(req, err.Error())
		}
		s.mu.Lock()
		st := s.robot.Dispatcher.State()
		s.mu.Unlock()
		return protocol.OK(req, protocol.StateResponse{
			LeftBlinker:  st.LeftBlinker,
			RightBlinker: st.RightBlinker,
			LeftEye:      st.LeftEye,
			RightEye:     st.RightEye,
			EyesOn:       st.EyesOn,
		})
	}
}

// PingHandler answers with the backend name. It only requires authentication.
func (s *Server) PingHandler(configd.ControlInstance) dispatch.HandlerFunc {
	return func(req *protocol.Request) *protocol.Response {
		return protocol.OK(req, protocol.PingResponse{Backend: s.robot.Backend})
	}
}

// keymapResponse orders the bindings as the menu does.
func keymapResponse(km command.Keymap) protocol.KeymapResponse {
	index := km.Index()
	out := protocol.KeymapResponse{Bindings: make([]protocol.Binding, 0, len(km.Order))}
	for _, key := range km.Order {
		b, ok := index[key]
		if !ok {
			continue
		}
		out.Bindings = append(out.Bindings, protocol.Binding{
			Key:         b.Key,
			Description: b.Description,
			Handler:     b.Handler,
		})
	}
	return out
}
