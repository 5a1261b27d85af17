package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// Tag 规范存储原始 token（"1. Ancient" 保留前缀），展示时再剥离。
// Unassigned 标记哨兵值："该集在这个维度上没有标签"。判定永远走这个
// 标志位，不看字符串形状。
type Tag struct {
	Raw        string `json:"raw"`
	Unassigned bool   `json:"unassigned,omitempty"`
}

// UnassignedTag returns the sentinel tag for a dimension. It takes part in
// filtering, option lists and counts like a real tag.
func UnassignedTag(dimension string) Tag {
	return Tag{Raw: "No " + dimension + " assigned", Unassigned: true}
}

// Key is the identity used in selection sets, query strings and option
// lists. For the sentinel this is its fixed label.
func (t Tag) Key() string { return t.Raw }

// Label is the display form: the ordinal prefix is stripped, never stored
// stripped, so sort key and label cannot drift.
func (t Tag) Label() string {
	if t.Unassigned {
		return t.Raw
	}
	return StripOrdinalPrefix(t.Raw)
}

var ordinalPrefix = regexp.MustCompile(`^\d+\.\s*`)

// StripOrdinalPrefix removes a leading "N. " prefix. It keeps stripping
// until the pattern no longer matches, so the function is idempotent for
// every input, including ones like "1. 2. Foo".
func StripOrdinalPrefix(s string) string {
	for {
		stripped := ordinalPrefix.ReplaceAllString(s, "")
		if stripped == s {
			return s
		}
		s = stripped
	}
}

// ParseLeadingInt returns the integer formed by the longest leading digit
// run after trimming, or false when the string does not start with a digit.
func ParseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		// 数字串超出 int 范围
		return 0, false
	}
	return n, true
}

// ParseTagList splits a comma-delimited field into trimmed, deduplicated
// tags. With stripPrefix the ordinal prefix is removed from the stored form;
// the default is to keep it, since stripping destroys the numeric sort key.
func ParseTagList(raw string, stripPrefix bool) []Tag {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	pieces := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(pieces))
	out := make([]Tag, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if stripPrefix {
			piece = StripOrdinalPrefix(piece)
		}
		if _, ok := seen[piece]; ok {
			continue
		}
		seen[piece] = struct{}{}
		out = append(out, Tag{Raw: piece})
	}
	return out
}
