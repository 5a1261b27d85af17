package facet

import (
	"fmt"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"podarc/internal/domain/catalog"
	"podarc/internal/domain/config"
	"sort"
	"strings"
)

// Matches decides inclusion of one episode: the query must appear in the
// lower-cased haystack, and every dimension with an active selection must
// intersect the episode's effective tag set. AND across dimensions, OR
// within one.
func Matches(e catalog.Episode, s *FilterState, dims []config.DimensionConfig) bool {
	if q := strings.ToLower(strings.TrimSpace(s.Query)); q != "" {
		if !strings.Contains(haystack(e, dims), q) {
			return false
		}
	}
	for _, d := range dims {
		if !s.HasSelection(d.Name) {
			continue
		}
		hit := false
		for _, t := range e.EffectiveTags(d.Name) {
			if s.Selected(d.Name, t.Key()) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func haystack(e catalog.Episode, dims []config.DimensionConfig) string {
	parts := []string{e.Title, e.Description}
	for _, d := range dims {
		for _, t := range e.Tags[d.Name] {
			parts = append(parts, t.Label())
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Filter applies Matches over the collection, preserving the original
// relative order. Sorting is a separate step.
func Filter(episodes []catalog.Episode, s *FilterState, dims []config.DimensionConfig) []catalog.Episode {
	out := make([]catalog.Episode, 0, len(episodes))
	for _, e := range episodes {
		if Matches(e, s, dims) {
			out = append(out, e)
		}
	}
	return out
}

// SortCanonical orders episodes year desc, month desc, ordinal desc (absent
// ordinal lowest), then title ascending under the given locale. Undated
// episodes sort last.
func SortCanonical(episodes []catalog.Episode, lang language.Tag) {
	coll := collate.New(lang)
	sort.SliceStable(episodes, func(i, j int) bool {
		a, b := episodes[i], episodes[j]
		ay, am := yearMonth(a)
		by, bm := yearMonth(b)
		if ay != by {
			return ay > by
		}
		if am != bm {
			return am > bm
		}
		if a.Ordinal != b.Ordinal {
			return a.Ordinal > b.Ordinal
		}
		return coll.CompareString(a.Title, b.Title) < 0
	})
}

func yearMonth(e catalog.Episode) (int, int) {
	if !e.HasDate() {
		return 0, 0
	}
	return e.Date.Year(), int(e.Date.Month())
}

// Group is one bucket of a grouped listing: a year of the archive, or one
// tag of a dimension.
type Group struct {
	Key      string
	Label    string
	Episodes []catalog.Episode
}

// GroupByYear buckets episodes per publish year, newest year first, with an
// "Undated" bucket at the end. Episode order inside a bucket follows the
// input order.
func GroupByYear(episodes []catalog.Episode) []Group {
	byYear := make(map[int][]catalog.Episode)
	for _, e := range episodes {
		y := 0
		if e.HasDate() {
			y = e.Date.Year()
		}
		byYear[y] = append(byYear[y], e)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		if y != 0 {
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	groups := make([]Group, 0, len(byYear))
	for _, y := range years {
		groups = append(groups, Group{
			Key:      fmt.Sprintf("%d", y),
			Label:    fmt.Sprintf("%d", y),
			Episodes: byYear[y],
		})
	}
	if undated, ok := byYear[0]; ok {
		groups = append(groups, Group{Key: "undated", Label: "Undated", Episodes: undated})
	}
	return groups
}

// GroupByDimension buckets episodes per effective tag of one dimension,
// ordered by the dimension's sort policy. An episode with several tags
// appears in each of its buckets.
func GroupByDimension(episodes []catalog.Episode, dim config.DimensionConfig) []Group {
	byKey := make(map[string][]catalog.Episode)
	tags := make(map[string]catalog.Tag)
	for _, e := range episodes {
		for _, t := range e.EffectiveTags(dim.Name) {
			if _, ok := tags[t.Key()]; !ok {
				tags[t.Key()] = t
			}
			byKey[t.Key()] = append(byKey[t.Key()], e)
		}
	}

	ordered := make([]catalog.Tag, 0, len(tags))
	for _, t := range tags {
		ordered = append(ordered, t)
	}
	SortTags(dim.Sort, ordered)

	groups := make([]Group, 0, len(ordered))
	for _, t := range ordered {
		groups = append(groups, Group{
			Key:      t.Key(),
			Label:    t.Label(),
			Episodes: byKey[t.Key()],
		})
	}
	return groups
}
