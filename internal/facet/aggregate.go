package facet

import (
	"podarc/internal/domain/catalog"
	"podarc/internal/domain/config"
	"sort"
)

// AggregateRow is one line of a per-tag count table.
type AggregateRow struct {
	Label      string
	Count      int
	Percentage float64
}

// BuildTagStats counts how many episodes carry each effective tag of the
// dimension. An episode with three topics contributes to three rows, so the
// column sum may exceed the episode count. Percentages are shares of
// totalDenominator, by convention the unfiltered collection size, so a
// narrowed view still reads as "share of everything". Rows come out in
// first-occurrence order; callers sort.
func BuildTagStats(episodes []catalog.Episode, dimension string, totalDenominator int) []AggregateRow {
	counts := make(map[string]int)
	var order []string
	for _, e := range episodes {
		for _, t := range e.EffectiveTags(dimension) {
			label := t.Label()
			if _, ok := counts[label]; !ok {
				order = append(order, label)
			}
			counts[label]++
		}
	}

	out := make([]AggregateRow, 0, len(order))
	for _, label := range order {
		c := counts[label]
		pct := 0.0
		if totalDenominator > 0 {
			pct = 100 * float64(c) / float64(totalDenominator)
		}
		out = append(out, AggregateRow{Label: label, Count: c, Percentage: pct})
	}
	return out
}

// SortStatsByCount orders rows count descending, label ascending on ties.
func SortStatsByCount(rows []AggregateRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return rows[i].Label < rows[j].Label
		}
		return rows[i].Count > rows[j].Count
	})
}

// YearSeries is the year × tag count matrix for charting. Counts holds one
// row per tag label, aligned with Years; cells are literal counts, zero
// included. Whether a zero renders as a gap is the chart's decision.
type YearSeries struct {
	Years  []int
	Tags   []string
	Counts map[string][]int
}

// BuildYearSeries counts, per observed effective tag and per publish year
// present in the input, the episodes carrying that tag in that year.
// Undated episodes contribute no year. Tags is ordered by the dimension's
// sort policy.
func BuildYearSeries(episodes []catalog.Episode, dim config.DimensionConfig) YearSeries {
	yearSet := make(map[int]struct{})
	tagByKey := make(map[string]catalog.Tag)
	perTagYear := make(map[string]map[int]int)

	for _, e := range episodes {
		tags := e.EffectiveTags(dim.Name)
		for _, t := range tags {
			if _, ok := tagByKey[t.Key()]; !ok {
				tagByKey[t.Key()] = t
				perTagYear[t.Key()] = make(map[int]int)
			}
		}
		if !e.HasDate() {
			continue
		}
		y := e.Date.Year()
		yearSet[y] = struct{}{}
		for _, t := range tags {
			perTagYear[t.Key()][y]++
		}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	ordered := make([]catalog.Tag, 0, len(tagByKey))
	for _, t := range tagByKey {
		ordered = append(ordered, t)
	}
	SortTags(dim.Sort, ordered)

	out := YearSeries{
		Years:  years,
		Tags:   make([]string, 0, len(ordered)),
		Counts: make(map[string][]int, len(ordered)),
	}
	for _, t := range ordered {
		label := t.Label()
		row, ok := out.Counts[label]
		if !ok {
			row = make([]int, len(years))
			out.Tags = append(out.Tags, label)
		}
		for i, y := range years {
			row[i] += perTagYear[t.Key()][y]
		}
		out.Counts[label] = row
	}
	return out
}
