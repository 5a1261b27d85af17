package facet

import (
	"sort"
	"strings"
)

// FilterState is the one mutable object of the pipeline: the active tag
// selections per dimension, the free-text query and the grouping mode.
// An empty selection set and an absent dimension mean the same thing.
type FilterState struct {
	Query    string
	Grouping string

	selections map[string]map[string]struct{}
}

func NewFilterState() *FilterState {
	return &FilterState{selections: make(map[string]map[string]struct{})}
}

func (s *FilterState) Select(dimension, key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	if s.selections == nil {
		s.selections = make(map[string]map[string]struct{})
	}
	set := s.selections[dimension]
	if set == nil {
		set = make(map[string]struct{})
		s.selections[dimension] = set
	}
	set[key] = struct{}{}
}

func (s *FilterState) Unselect(dimension, key string) {
	set := s.selections[dimension]
	if set == nil {
		return
	}
	delete(set, key)
	if len(set) == 0 {
		delete(s.selections, dimension)
	}
}

func (s *FilterState) Toggle(dimension, key string) {
	if s.Selected(dimension, key) {
		s.Unselect(dimension, key)
		return
	}
	s.Select(dimension, key)
}

func (s *FilterState) Clear(dimension string) {
	delete(s.selections, dimension)
}

func (s *FilterState) ClearAll() {
	s.Query = ""
	s.selections = make(map[string]map[string]struct{})
}

func (s *FilterState) Selected(dimension, key string) bool {
	_, ok := s.selections[dimension][key]
	return ok
}

func (s *FilterState) HasSelection(dimension string) bool {
	return len(s.selections[dimension]) > 0
}

// Selection returns the selected keys of a dimension, sorted for
// deterministic encoding.
func (s *FilterState) Selection(dimension string) []string {
	set := s.selections[dimension]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Empty reports whether the state imposes no constraint at all.
func (s *FilterState) Empty() bool {
	if strings.TrimSpace(s.Query) != "" {
		return false
	}
	for _, set := range s.selections {
		if len(set) > 0 {
			return false
		}
	}
	return true
}

// Without returns a copy of the state with one dimension's selection
// removed. The remaining selection sets are copied, never shared with
// the receiver.
func (s *FilterState) Without(dimension string) *FilterState {
	out := NewFilterState()
	out.Query = s.Query
	out.Grouping = s.Grouping
	for dim, set := range s.selections {
		if dim == dimension {
			continue
		}
		for k := range set {
			out.Select(dim, k)
		}
	}
	return out
}
