// Package acl provides a simple role- and group-based access control layer
// for remote robot control. Users authenticate with a token and are granted
// permissions through roles, either directly or through group membership.
// Individual handlers can further restrict access with rule sets.
//
// Example usage:
//
//	checker, err := acl.New(cfg, acl.Permissions())
//	if !checker.Can("userx", acl.PermDrive, cfg.Handlers["pounce"]) {
//		return errors.New("permission denied")
//	}
package acl

import (
	"fmt"
	"slices"

	"github.com/mfulz/pigeist/internal/logging"
	"github.com/mfulz/pigeist/protocol"
)

// Permission defines a named right or capability.
type Permission string

const (
	// PermDrive allows pressing keys on the robot.
	PermDrive Permission = "robot_drive"
	// PermObserve allows reading the key map and toggle state.
	PermObserve Permission = "robot_observe"
)

// Permissions returns every permission known to the daemon.
func Permissions() []Permission {
	return []Permission{PermDrive, PermObserve}
}

// RuleSet defines a set of rules for a handler or other object.
type RuleSet struct {
	Rules []Rule `mapstructure:"rules"`
}

// Rule grants or denies permissions to a list of subjects (users or groups).
type Rule struct {
	Description string       `mapstructure:"description"`
	Subjects    []string     `mapstructure:"subjects"`
	Permissions []Permission `mapstructure:"permissions,omitempty"`
	Deny        bool         `mapstructure:"deny"`
}

// User defines a named user (e.g. login name).
type User struct {
	Name   string   `mapstructure:"name"`
	Roles  []string `mapstructure:"roles"`
	Token  string   `mapstructure:"token"`
	groups []string
}

// Group defines a named group of users.
type Group struct {
	Name    string   `mapstructure:"name"`
	Members []string `mapstructure:"members"`
	Roles   []string `mapstructure:"roles"`
}

// Role defines a named role, grouping one or more permissions.
type Role struct {
	Name        string       `mapstructure:"name"`
	Permissions []Permission `mapstructure:"permissions"`
}

// Config defines the ACL structure loaded from config. Handlers maps a
// handler name (e.g. "pounce") to the rules restricting it.
type Config struct {
	Enabled  bool               `mapstructure:"enabled"`
	Users    map[string]User    `mapstructure:"users"`
	Groups   map[string]Group   `mapstructure:"groups"`
	Roles    map[string]Role    `mapstructure:"roles"`
	Handlers map[string]RuleSet `mapstructure:"handlers"`
}

// Checker holds the evaluated ACL state. A nil Checker rejects everything.
type Checker struct {
	enabled bool
	users   map[string]User
	groups  map[string]Group
	roles   map[string]Role
}

// New validates cfg against the accepted permission names and builds a Checker.
// The maps in cfg are copied; the caller's config is left untouched.
func New(cfg Config, perms []Permission) (*Checker, error) {
	users := make(map[string]User, len(cfg.Users))
	for name, user := range cfg.Users {
		if user.Name == "" {
			user.Name = name
		}
		user.groups = nil
		users[name] = user
	}

	roles := make(map[string]Role, len(cfg.Roles))
	for name, role := range cfg.Roles {
		for _, perm := range role.Permissions {
			if !slices.Contains(perms, perm) {
				return nil, fmt.Errorf("invalid permission '%s' in role '%s'", perm, name)
			}
		}
		if role.Name == "" {
			role.Name = name
		}
		roles[name] = role
	}

	groups := make(map[string]Group, len(cfg.Groups))
	for name, group := range cfg.Groups {
		if group.Name == "" {
			group.Name = name
		}
		for _, member := range group.Members {
			u, ok := users[member]
			if !ok {
				return nil, fmt.Errorf("invalid user '%s' in group '%s'", member, group.Name)
			}
			u.groups = append(u.groups, group.Name)
			users[member] = u
		}
		groups[name] = group
	}

	for handler, set := range cfg.Handlers {
		for _, rule := range set.Rules {
			for _, perm := range rule.Permissions {
				if !slices.Contains(perms, perm) {
					return nil, fmt.Errorf("invalid permission '%s' in rules for handler '%s'", perm, handler)
				}
			}
		}
	}

	return &Checker{
		enabled: cfg.Enabled,
		users:   users,
		groups:  groups,
		roles:   roles,
	}, nil
}

// valid checks whether the checker is ready and enabled.
// Returns (true, false) → reject: uninitialized
// Returns (true, true)  → allow: disabled in config
// Returns (false, _)    → continue with normal check
func (c *Checker) valid() (bool, bool) {
	if c == nil {
		return true, false
	}
	if !c.enabled {
		return true, true
	}
	return false, false
}

// Authenticate checks if the request carries a known user with the correct token.
func (c *Checker) Authenticate(auth *protocol.Auth) bool {
	if handled, result := c.valid(); handled {
		return result
	}
	if auth == nil {
		return false
	}
	u, ok := c.users[auth.User]
	return ok && u.Token != "" && u.Token == auth.Token
}

// Can checks whether the user holds perm and is not excluded by rules.
// An empty rule set only requires the permission itself.
func (c *Checker) Can(user string, perm Permission, rules RuleSet) bool {
	if handled, result := c.valid(); handled {
		return result
	}

	logging.Log.Debugf("[acl] check %s/%s against %d rules", user, perm, len(rules.Rules))

	if !c.userHasPermission(user, perm) {
		return false
	}
	if len(rules.Rules) == 0 {
		return true
	}

	matches := false
	for _, rule := range rules.Rules {
		if !rule.hasPerm(perm) || !c.ruleHasSubject(rule, user) {
			continue
		}
		if rule.Deny {
			return false
		}
		matches = true
	}
	return matches
}

// hasPerm checks if the rule covers perm. Empty permissions match all.
func (r Rule) hasPerm(perm Permission) bool {
	if len(r.Permissions) == 0 {
		return true
	}
	return slices.Contains(r.Permissions, perm)
}

func (c *Checker) ruleHasSubject(r Rule, user string) bool {
	for _, s := range r.Subjects {
		if c.userMatches(user, s) {
			return true
		}
	}
	return false
}

// userRoles collects the user's own roles and those of its groups.
func (c *Checker) userRoles(user User) []string {
	ret := append([]string(nil), user.Roles...)
	for _, groupName := range user.groups {
		if group, ok := c.groups[groupName]; ok {
			ret = append(ret, group.Roles...)
		}
	}
	return ret
}

func (c *Checker) userHasPermission(user string, perm Permission) bool {
	u, ok := c.users[user]
	if !ok {
		return false
	}
	for _, roleName := range c.userRoles(u) {
		if role, ok := c.roles[roleName]; ok && slices.Contains(role.Permissions, perm) {
			return true
		}
	}
	return false
}

// userMatches returns true if the subject matches the user or one of their groups.
func (c *Checker) userMatches(user string, subject string) bool {
	if subject == user {
		return true
	}
	u, ok := c.users[user]
	if !ok {
		return false
	}
	return slices.Contains(u.groups, subject)
}
