// Package requirements holds the canonical, versioned table of role skill requirements.
// Both the self-rating gap calculator and the resume keyword readiness model read from it.
package requirements

import (
	"sort"
	"strings"
)

// CurrentVersion is the version of the catalog returned by Default.
const CurrentVersion = 2

// Role is a target role and the level (0-10) required for each of its skills.
type Role struct {
	Name    string         `json:"name"`
	Skills  map[string]int `json:"skills"`
	Aliases []string       `json:"aliases,omitempty"`
}

// Catalog is an immutable set of roles. Lookups are case-insensitive and alias aware.
type Catalog struct {
	Version int
	roles   map[string]Role
	index   map[string]string
}

// New builds a catalog from roles. Later roles with the same name replace earlier ones.
func New(version int, roles ...Role) *Catalog {
	c := &Catalog{
		Version: version,
		roles:   make(map[string]Role, len(roles)),
		index:   make(map[string]string, len(roles)),
	}
	for _, r := range roles {
		skills := make(map[string]int, len(r.Skills))
		for k, v := range r.Skills {
			skills[k] = v
		}
		r.Skills = skills
		c.roles[r.Name] = r
		c.index[normalize(r.Name)] = r.Name
		for _, a := range r.Aliases {
			c.index[normalize(a)] = r.Name
		}
	}
	return c
}

// Lookup resolves a role name or alias. The returned skill map is a copy.
func (c *Catalog) Lookup(role string) (Role, bool) {
	if c == nil {
		return Role{}, false
	}
	name, ok := c.index[normalize(role)]
	if !ok {
		return Role{}, false
	}
	r := c.roles[name]
	skills := make(map[string]int, len(r.Skills))
	for k, v := range r.Skills {
		skills[k] = v
	}
	r.Skills = skills
	return r, true
}

// Skills returns the requirement table for role, or an empty map when the role is unknown.
func (c *Catalog) Skills(role string) map[string]int {
	r, ok := c.Lookup(role)
	if !ok {
		return map[string]int{}
	}
	return r.Skills
}

// Roles returns the canonical role names in alphabetical order.
func (c *Catalog) Roles() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.roles))
	for name := range c.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
