// Package query models the boolean search expression: groups are ANDed,
// badges inside a group are ORed.
package query

import "strings"

// Group is one OR-clause of free-text badges.
type Group struct {
	ID     string   `json:"id"`
	Badges []string `json:"badges"`
}

// Terms returns the trimmed non-empty badges of the group.
func (g Group) Terms() []string {
	out := make([]string, 0, len(g.Badges))
	for _, b := range g.Badges {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// IsEmpty reports whether the group has no usable badge.
// An empty group is vacuously satisfied.
func (g Group) IsEmpty() bool {
	return len(g.Terms()) == 0
}

// Query is the AND of its groups.
type Query []Group

// Terms returns every distinct term across all groups in order of first
// appearance.
func (q Query) Terms() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, g := range q {
		for _, t := range g.Terms() {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// IsEmpty reports whether the query has no term at all.
func (q Query) IsEmpty() bool {
	for _, g := range q {
		if !g.IsEmpty() {
			return false
		}
	}
	return true
}
