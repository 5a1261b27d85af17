package facet

import (
	"podarc/internal/domain/catalog"
	"podarc/internal/domain/config"
)

// Option is one entry of a dimension's filter panel.
type Option struct {
	Key      string
	Label    string
	Selected bool
}

// OptionsFor collects the distinct effective tags of one dimension over a
// set of episodes and emits them under the dimension's sort policy, the
// unassigned sentinel last.
func OptionsFor(episodes []catalog.Episode, dim config.DimensionConfig) []Option {
	tags := make(map[string]catalog.Tag)
	for _, e := range episodes {
		for _, t := range e.EffectiveTags(dim.Name) {
			if _, ok := tags[t.Key()]; !ok {
				tags[t.Key()] = t
			}
		}
	}

	ordered := make([]catalog.Tag, 0, len(tags))
	for _, t := range tags {
		ordered = append(ordered, t)
	}
	SortTags(dim.Sort, ordered)

	out := make([]Option, 0, len(ordered))
	for _, t := range ordered {
		out = append(out, Option{Key: t.Key(), Label: t.Label()})
	}
	return out
}

// RebuildOptions recomputes the option list of every dimension that has no
// active selection from the filtered subset. A dimension the user is
// filtering by keeps its previous list untouched (only the Selected marks
// are refreshed): narrowing a dimension by its own selection would make the
// checked value vanish from its own panel, with no way back out.
func RebuildOptions(filtered []catalog.Episode, s *FilterState, dims []config.DimensionConfig, prev map[string][]Option) map[string][]Option {
	out := make(map[string][]Option, len(dims))
	for _, d := range dims {
		if s.HasSelection(d.Name) {
			kept := make([]Option, len(prev[d.Name]))
			for i, o := range prev[d.Name] {
				o.Selected = s.Selected(d.Name, o.Key)
				kept[i] = o
			}
			out[d.Name] = kept
			continue
		}
		out[d.Name] = OptionsFor(filtered, d)
	}
	return out
}
