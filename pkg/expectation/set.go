package expectation

import "sort"

// Set is an immutable set of test identifiers.
// The zero value is an empty set and is safe to use.
type Set struct {
	m map[string]struct{}
}

// NewSet builds a set from ids. Duplicates collapse silently.
func NewSet(ids ...string) Set {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return Set{m: m}
}

// Contains reports whether id is a member of s.
func (s Set) Contains(id string) bool {
	_, ok := s.m[id]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s.m)
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s.m))
	for id := range s.m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set holding the members of s and all others.
func (s Set) Union(others ...Set) Set {
	size := len(s.m)
	for _, o := range others {
		size += len(o.m)
	}
	m := make(map[string]struct{}, size)
	for id := range s.m {
		m[id] = struct{}{}
	}
	for _, o := range others {
		for id := range o.m {
			m[id] = struct{}{}
		}
	}
	return Set{m: m}
}

// Difference returns the members of s that are not in other.
func (s Set) Difference(other Set) Set {
	m := make(map[string]struct{}, len(s.m))
	for id := range s.m {
		if !other.Contains(id) {
			m[id] = struct{}{}
		}
	}
	return Set{m: m}
}

// IsSupersetOf reports whether every member of other is in s.
func (s Set) IsSupersetOf(other Set) bool {
	if len(other.m) > len(s.m) {
		return false
	}
	for id := range other.m {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

// Equal reports whether s and other have the same members.
func (s Set) Equal(other Set) bool {
	return len(s.m) == len(other.m) && s.IsSupersetOf(other)
}
