package facet

import (
	"podarc/internal/domain/catalog"
	"podarc/internal/domain/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tagKeys(tags []catalog.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Key()
	}
	return out
}

func TestSortTagsNumeric(t *testing.T) {
	tags := []catalog.Tag{
		{Raw: "3. Gold"},
		catalog.UnassignedTag("period"),
		{Raw: "1. Bronze"},
		{Raw: "2. Silver"},
	}
	SortTags(config.SortNumeric, tags)
	assert.Equal(t, []string{"1. Bronze", "2. Silver", "3. Gold", "No period assigned"}, tagKeys(tags))
}

func TestSortTagsNumericMixed(t *testing.T) {
	tags := []catalog.Tag{
		{Raw: "Zeta"},
		{Raw: "2. Beta"},
		{Raw: "Alpha"},
		{Raw: "1. Gamma"},
	}
	SortTags(config.SortNumeric, tags)
	// numbered tags first, the rest alphabetical by stripped label
	assert.Equal(t, []string{"1. Gamma", "2. Beta", "Alpha", "Zeta"}, tagKeys(tags))
}

func TestSortTagsAlpha(t *testing.T) {
	tags := []catalog.Tag{
		catalog.UnassignedTag("region"),
		{Raw: "Oceania"},
		{Raw: "Asia"},
		{Raw: "Europe"},
	}
	SortTags(config.SortAlpha, tags)
	assert.Equal(t, []string{"Asia", "Europe", "Oceania", "No region assigned"}, tagKeys(tags))
}

func TestCompareTagsTotalOrder(t *testing.T) {
	a := catalog.Tag{Raw: "1. Ancient"}
	b := catalog.Tag{Raw: "1.Ancient"}
	// same number, same stripped label: raw token breaks the tie, both ways
	assert.Equal(t, -CompareTags(config.SortNumeric, b, a), CompareTags(config.SortNumeric, a, b))
	assert.NotEqual(t, 0, CompareTags(config.SortNumeric, a, b))
	assert.Equal(t, 0, CompareTags(config.SortNumeric, a, a))
}
