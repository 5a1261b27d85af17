package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripOrdinalPrefix(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"1. Ancient", "Ancient"},
		{"12.Classical", "Classical"},
		{"3.   Iron Age", "Iron Age"},
		{"Ancient", "Ancient"},
		{"1 Ancient", "1 Ancient"}, // no dot, no strip
		{"1. 2. Layered", "Layered"},
		{"", ""},
		{"No period assigned", "No period assigned"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StripOrdinalPrefix(c.in), "input %q", c.in)
	}
}

func TestStripOrdinalPrefixIdempotent(t *testing.T) {
	inputs := []string{"1. Ancient", "1. 2. Foo", "Plain", "7.", "10. 9. 8. Deep", ""}
	for _, in := range inputs {
		once := StripOrdinalPrefix(in)
		assert.Equal(t, once, StripOrdinalPrefix(once), "input %q", in)
	}
}

func TestParseLeadingInt(t *testing.T) {
	n, ok := ParseLeadingInt("42. The Answer")
	require.True(t, ok)
	assert.Equal(t, 42, n)

	n, ok = ParseLeadingInt("  7 ")
	require.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = ParseLeadingInt("Episode 7")
	assert.False(t, ok)

	_, ok = ParseLeadingInt("")
	assert.False(t, ok)

	_, ok = ParseLeadingInt("99999999999999999999 overflow")
	assert.False(t, ok)
}

func TestParseTagList(t *testing.T) {
	tags := ParseTagList(" 1. Ancient , 2. Classical ,, 1. Ancient ", false)
	require.Len(t, tags, 2)
	assert.Equal(t, "1. Ancient", tags[0].Raw)
	assert.Equal(t, "Ancient", tags[0].Label())
	assert.Equal(t, "2. Classical", tags[1].Raw)

	for _, tag := range tags {
		assert.NotEmpty(t, tag.Raw)
		assert.False(t, tag.Unassigned)
	}

	assert.Nil(t, ParseTagList("   ", false))
	assert.Nil(t, ParseTagList("", true))
}

func TestParseTagListStripped(t *testing.T) {
	tags := ParseTagList("1. Ancient, Ancient", true)
	// both collapse to the same stripped form
	require.Len(t, tags, 1)
	assert.Equal(t, "Ancient", tags[0].Raw)
}

func TestUnassignedTag(t *testing.T) {
	tag := UnassignedTag("period")
	assert.True(t, tag.Unassigned)
	assert.Equal(t, "No period assigned", tag.Key())
	assert.Equal(t, "No period assigned", tag.Label())

	// a real tag that merely looks like the sentinel is not one
	real := Tag{Raw: "No period assigned"}
	assert.False(t, real.Unassigned)
}

func TestEffectiveTags(t *testing.T) {
	e := Episode{
		Title: "A",
		Tags:  map[string][]Tag{"period": {{Raw: "1. Ancient"}}},
	}
	require.Len(t, e.EffectiveTags("period"), 1)
	assert.Equal(t, "1. Ancient", e.EffectiveTags("period")[0].Raw)

	sentinel := e.EffectiveTags("region")
	require.Len(t, sentinel, 1)
	assert.True(t, sentinel[0].Unassigned)
	assert.Equal(t, "No region assigned", sentinel[0].Label())
}
