package facet

import (
	"net/url"
	"podarc/internal/domain/config"
	"strings"
)

// Encode serializes the state into query parameters: one parameter per
// dimension holding the comma-joined selected keys, q for the text query,
// group for the grouping mode. Decode(Encode(s)) reproduces the same
// selection sets: set equality, not string equality.
func Encode(s *FilterState, dims []config.DimensionConfig) url.Values {
	v := url.Values{}
	for _, d := range dims {
		if sel := s.Selection(d.Name); len(sel) > 0 {
			v.Set(d.Param, strings.Join(sel, ","))
		}
	}
	if q := strings.TrimSpace(s.Query); q != "" {
		v.Set("q", q)
	}
	if g := strings.TrimSpace(s.Grouping); g != "" {
		v.Set("group", g)
	}
	return v
}

func Decode(v url.Values, dims []config.DimensionConfig) *FilterState {
	s := NewFilterState()
	for _, d := range dims {
		raw := v.Get(d.Param)
		if raw == "" {
			continue
		}
		for _, piece := range strings.Split(raw, ",") {
			s.Select(d.Name, strings.TrimSpace(piece))
		}
	}
	s.Query = strings.TrimSpace(v.Get("q"))
	s.Grouping = strings.TrimSpace(v.Get("group"))
	return s
}
