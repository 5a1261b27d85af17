package facet

import (
	"podarc/internal/domain/catalog"
	"podarc/internal/domain/config"
	"sort"
	"strings"
)

// CompareTags is a total order over tag values under the given policy.
// The unassigned sentinel sorts after everything in both policies.
//
// numeric: both tags carry a leading number -> numeric ascending; only one
// does -> the numbered one first; neither -> stripped labels, byte order.
// alpha: raw labels, byte order, case-sensitive.
func CompareTags(policy config.SortPolicy, a, b catalog.Tag) int {
	switch {
	case a.Unassigned && b.Unassigned:
		return strings.Compare(a.Raw, b.Raw)
	case a.Unassigned:
		return 1
	case b.Unassigned:
		return -1
	}

	if policy == config.SortNumeric {
		an, aok := catalog.ParseLeadingInt(a.Raw)
		bn, bok := catalog.ParseLeadingInt(b.Raw)
		switch {
		case aok && bok:
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
		case aok:
			return -1
		case bok:
			return 1
		}
		if c := strings.Compare(a.Label(), b.Label()); c != 0 {
			return c
		}
		// 同号同名时回退到原始 token，保证全序
		return strings.Compare(a.Raw, b.Raw)
	}

	return strings.Compare(a.Raw, b.Raw)
}

func SortTags(policy config.SortPolicy, tags []catalog.Tag) {
	sort.SliceStable(tags, func(i, j int) bool {
		return CompareTags(policy, tags[i], tags[j]) < 0
	})
}
