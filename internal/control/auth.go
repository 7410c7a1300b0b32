package control

import (
	"errors"

	"github.com/mfulz/pigeist/internal/acl"
	"github.com/mfulz/pigeist/internal/configd"
	"github.com/mfulz/pigeist/protocol"
)

var (
	// ErrUnauthorized is returned for requests with missing or wrong credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when an authenticated user lacks a permission.
	ErrForbidden = errors.New("not allowed")
)

// extractUser returns the request auth user or "unauthenticated".
func extractUser(req *protocol.Request) string {
	if req.Auth != nil {
		return req.Auth.User
	}
	return "unauthenticated"
}

// authenticate checks credentials on instances with auth enabled.
func (s *Server) authenticate(inst configd.ControlInstance, req *protocol.Request) error {
	if !inst.Auth.Enabled {
		return nil
	}
	if !s.acl.Authenticate(req.Auth) {
		return ErrUnauthorized
	}
	return nil
}

// authorize checks perm for the request user. Instances without auth skip
// permission checks entirely.
func (s *Server) authorize(inst configd.ControlInstance, req *protocol.Request, perm acl.Permission, rules acl.RuleSet) error {
	if !inst.Auth.Enabled {
		return nil
	}
	if !s.acl.Can(extractUser(req), perm, rules) {
		return ErrForbidden
	}
	return nil
}
