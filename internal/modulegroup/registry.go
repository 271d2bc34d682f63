// Package modulegroup maps module keys to configuration groups: sets of
// modules whose field definitions must stay consistent with each other.
//
// Group membership is static. A Registry is built once, never mutated, and
// passed by value into the sync engine so tests can substitute their own.
package modulegroup

import (
	"fmt"
	"sort"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// Kind is the role a module plays within its group.
type Kind string

// Member kinds.
const (
	KindMaster       Kind = "MASTER"
	KindTransactions Kind = "TRANSACTIONS"
	KindUpdates      Kind = "UPDATES"
	KindBalance      Kind = "BALANCE"
)

// Member is one module of a group.
type Member struct {
	Key  string `json:"key" yaml:"key"`
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// Group is a named set of interdependent modules.
type Group struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Members []Member `json:"members" yaml:"members"`
}

// Member returns the member with the given key.
func (g Group) Member(key string) (Member, bool) {
	for _, m := range g.Members {
		if m.Key == key {
			return m, true
		}
	}
	return Member{}, false
}

func (g Group) clone() Group {
	g.Members = append([]Member(nil), g.Members...)
	return g
}

// Registry is an immutable module-to-group index.
type Registry struct {
	groups []Group
	byKey  map[string]int
}

// NewRegistry indexes groups. It fails when a module key appears in more
// than one group or twice in the same group.
func NewRegistry(groups ...Group) (Registry, error) {
	r := Registry{
		groups: make([]Group, 0, len(groups)),
		byKey:  make(map[string]int),
	}
	for _, g := range groups {
		idx := len(r.groups)
		g.Members = append([]Member(nil), g.Members...)
		r.groups = append(r.groups, g)
		for _, m := range g.Members {
			if prev, ok := r.byKey[m.Key]; ok {
				return Registry{}, fmt.Errorf("%s in %q and %q: %w",
					m.Key, r.groups[prev].Name, g.Name, cerrors.ErrDuplicateGroupMember)
			}
			r.byKey[m.Key] = idx
		}
	}
	return r, nil
}

// MustRegistry is NewRegistry for compile-time tables.
func MustRegistry(groups ...Group) Registry {
	r, err := NewRegistry(groups...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the group of moduleKey and its siblings (every other
// member). ok is false when the module is not grouped; sync is then a no-op.
func (r Registry) Lookup(moduleKey string) (group Group, siblings []Member, ok bool) {
	idx, found := r.byKey[moduleKey]
	if !found {
		return Group{}, nil, false
	}
	group = r.groups[idx].clone()
	for _, m := range group.Members {
		if m.Key != moduleKey {
			siblings = append(siblings, m)
		}
	}
	return group, siblings, true
}

// Groups returns every group sorted by ID.
func (r Registry) Groups() []Group {
	out := make([]Group, len(r.groups))
	for i, g := range r.groups {
		out[i] = g.clone()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of grouped module keys.
func (r Registry) Len() int {
	return len(r.byKey)
}
