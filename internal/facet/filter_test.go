package facet

import (
	"golang.org/x/text/language"
	"podarc/internal/domain/catalog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func ep(ordinal int, title string, dt time.Time, tags map[string][]string) catalog.Episode {
	e := catalog.Episode{Ordinal: ordinal, Title: title, Date: dt}
	if len(tags) > 0 {
		e.Tags = make(map[string][]catalog.Tag, len(tags))
		for dim, raws := range tags {
			for _, raw := range raws {
				e.Tags[dim] = append(e.Tags[dim], catalog.Tag{Raw: raw})
			}
		}
	}
	return e
}

func fixtureEpisodes() []catalog.Episode {
	return []catalog.Episode{
		ep(1, "A", date(2020, 3, 1), map[string][]string{"period": {"1. Ancient"}, "region": {"Europe"}}),
		ep(2, "B", date(2020, 5, 1), nil),
		ep(3, "C", date(2021, 1, 1), map[string][]string{"period": {"1. Ancient", "2. Medieval"}, "region": {"Asia"}}),
	}
}

func TestFilterIdentity(t *testing.T) {
	eps := fixtureEpisodes()
	got := Filter(eps, NewFilterState(), testDims())
	require.Len(t, got, len(eps))
	for i := range eps {
		assert.Equal(t, eps[i].Title, got[i].Title)
	}
}

func TestFilterBySelection(t *testing.T) {
	eps := fixtureEpisodes()
	s := NewFilterState()
	s.Select("period", "1. Ancient")

	got := Filter(eps, s, testDims())
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "C", got[1].Title)
}

func TestFilterOrWithinDimension(t *testing.T) {
	eps := fixtureEpisodes()
	s := NewFilterState()
	s.Select("period", "2. Medieval")
	s.Select("period", "No period assigned")

	got := Filter(eps, s, testDims())
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Title) // matches via the sentinel
	assert.Equal(t, "C", got[1].Title)
}

func TestFilterAndAcrossDimensions(t *testing.T) {
	eps := fixtureEpisodes()
	s := NewFilterState()
	s.Select("period", "1. Ancient")
	s.Select("region", "Asia")

	got := Filter(eps, s, testDims())
	require.Len(t, got, 1)
	assert.Equal(t, "C", got[0].Title)
}

func TestFilterQuery(t *testing.T) {
	eps := []catalog.Episode{
		ep(1, "The Fall of Rome", date(2020, 1, 1), map[string][]string{"topic": {"Empire"}}),
		ep(2, "Viking Voyages", date(2020, 2, 1), nil),
	}
	eps[1].Description = "Norse expansion across the North Atlantic"

	s := NewFilterState()
	s.Query = "ROME"
	got := Filter(eps, s, testDims())
	require.Len(t, got, 1)
	assert.Equal(t, "The Fall of Rome", got[0].Title)

	// description is part of the haystack
	s.Query = "atlantic"
	got = Filter(eps, s, testDims())
	require.Len(t, got, 1)
	assert.Equal(t, "Viking Voyages", got[0].Title)

	// tag labels are part of the haystack
	s.Query = "empire"
	got = Filter(eps, s, testDims())
	require.Len(t, got, 1)
	assert.Equal(t, "The Fall of Rome", got[0].Title)

	s.Query = "no such thing"
	assert.Empty(t, Filter(eps, s, testDims()))
}

func TestFilterQueryCombinesWithSelections(t *testing.T) {
	eps := fixtureEpisodes()
	s := NewFilterState()
	s.Query = "a" // matches titles A and C... and every episode whose haystack has an 'a'
	s.Select("region", "Asia")

	got := Filter(eps, s, testDims())
	require.Len(t, got, 1)
	assert.Equal(t, "C", got[0].Title)
}

func TestSortCanonical(t *testing.T) {
	eps := []catalog.Episode{
		ep(0, "Undated", time.Time{}, nil),
		ep(10, "Mid", date(2020, 6, 1), nil),
		ep(12, "Newer same month", date(2021, 3, 10), nil),
		ep(11, "Older same month", date(2021, 3, 2), nil),
		ep(0, "No ordinal", date(2020, 6, 15), nil),
		ep(2, "Alpha tie b", date(2019, 1, 1), nil),
		ep(2, "Alpha tie a", date(2019, 1, 1), nil),
	}
	SortCanonical(eps, language.English)

	titles := make([]string, len(eps))
	for i, e := range eps {
		titles[i] = e.Title
	}
	assert.Equal(t, []string{
		"Newer same month",  // 2021-03 ordinal 12
		"Older same month",  // 2021-03 ordinal 11
		"Mid",               // 2020-06 ordinal 10
		"No ordinal",        // 2020-06 ordinal absent sorts below 10
		"Alpha tie a",       // 2019-01, ordinal tie, title asc
		"Alpha tie b",
		"Undated", // always last
	}, titles)
}

func TestGroupByYear(t *testing.T) {
	eps := fixtureEpisodes()
	eps = append(eps, ep(4, "D", time.Time{}, nil))
	SortCanonical(eps, language.English)

	groups := GroupByYear(eps)
	require.Len(t, groups, 3)
	assert.Equal(t, "2021", groups[0].Key)
	assert.Equal(t, "2020", groups[1].Key)
	assert.Equal(t, "undated", groups[2].Key)
	assert.Equal(t, "Undated", groups[2].Label)
	assert.Len(t, groups[1].Episodes, 2)
}

func TestGroupByDimension(t *testing.T) {
	eps := fixtureEpisodes()
	groups := GroupByDimension(eps, testDims()[0])

	require.Len(t, groups, 3)
	assert.Equal(t, "1. Ancient", groups[0].Key)
	assert.Equal(t, "Ancient", groups[0].Label)
	assert.Equal(t, "2. Medieval", groups[1].Key)
	assert.Equal(t, "No period assigned", groups[2].Key)

	// C carries two periods and appears in both buckets
	assert.Len(t, groups[0].Episodes, 2)
	assert.Len(t, groups[1].Episodes, 1)
	assert.Equal(t, "C", groups[1].Episodes[0].Title)
	assert.Equal(t, "B", groups[2].Episodes[0].Title)
}
