package catalog

import "time"

// Episode is one normalized row of the source sheet. The collection is
// built once per fetch and never mutated afterwards.
type Episode struct {
	// Ordinal 0 表示源数据没给集数。
	Ordinal     int       `json:"ordinal,omitempty"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date,omitempty"` // zero = unknown publish date
	Description string    `json:"description,omitempty"`
	AudioURL    string    `json:"audio_url,omitempty"`

	// Tags maps dimension name to the canonical (unstripped) tags of that
	// dimension. A declared dimension with no tags is simply absent.
	Tags map[string][]Tag `json:"tags,omitempty"`
}

func (e Episode) HasDate() bool { return !e.Date.IsZero() }

// EffectiveTags returns the episode's tags for a dimension, or the single
// unassigned sentinel when it has none.
func (e Episode) EffectiveTags(dimension string) []Tag {
	if tags := e.Tags[dimension]; len(tags) > 0 {
		return tags
	}
	return []Tag{UnassignedTag(dimension)}
}
