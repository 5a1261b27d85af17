package render

import (
	"podarc/internal/domain/catalog"
	"podarc/internal/domain/config"
	"podarc/internal/facet"
	"time"
)

type TagView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type EpisodeView struct {
	Ordinal     int                  `json:"ordinal,omitempty"`
	Title       string               `json:"title"`
	Date        string               `json:"date,omitempty"` // 2006-01-02
	Description string               `json:"description,omitempty"`
	AudioURL    string               `json:"audio_url,omitempty"`
	Tags        map[string][]TagView `json:"tags,omitempty"`
}

type GroupView struct {
	Key      string        `json:"key"`
	Label    string        `json:"label"`
	Count    int           `json:"count"`
	Episodes []EpisodeView `json:"episodes"`
}

type OptionView struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type StatRowView struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type StatsView struct {
	Dimension string        `json:"dimension"`
	Total     int           `json:"total"`
	Rows      []StatRowView `json:"rows"`
}

type SeriesView struct {
	Dimension string           `json:"dimension"`
	Years     []int            `json:"years"`
	Tags      []string         `json:"tags"`
	Counts    map[string][]int `json:"counts"`
}

// ViewSnapshot is the full answer to one filter state: the grouped listing,
// the next available options per dimension and the canonical query string
// for the client's history entry.
type ViewSnapshot struct {
	Site      config.SiteConfig       `json:"site"`
	Total     int                     `json:"total"`
	Count     int                     `json:"count"`
	Query     string                  `json:"query,omitempty"`
	Grouping  string                  `json:"grouping"`
	State     string                  `json:"state"` // canonical query string
	Groups    []GroupView             `json:"groups"`
	Options   map[string][]OptionView `json:"options"`
	Generated time.Time               `json:"generated"`
}

type EpisodePage struct {
	Episode       EpisodeView `json:"episode"`
	ShowNotesHTML string      `json:"show_notes_html,omitempty"`
}

func NewEpisodeView(e catalog.Episode) EpisodeView {
	v := EpisodeView{
		Ordinal:     e.Ordinal,
		Title:       e.Title,
		Description: e.Description,
		AudioURL:    e.AudioURL,
	}
	if e.HasDate() {
		v.Date = e.Date.Format(time.DateOnly)
	}
	if len(e.Tags) > 0 {
		v.Tags = make(map[string][]TagView, len(e.Tags))
		for dim, tags := range e.Tags {
			tvs := make([]TagView, 0, len(tags))
			for _, t := range tags {
				tvs = append(tvs, TagView{Key: t.Key(), Label: t.Label()})
			}
			v.Tags[dim] = tvs
		}
	}
	return v
}

func NewGroupView(g facet.Group) GroupView {
	eps := make([]EpisodeView, 0, len(g.Episodes))
	for _, e := range g.Episodes {
		eps = append(eps, NewEpisodeView(e))
	}
	return GroupView{Key: g.Key, Label: g.Label, Count: len(g.Episodes), Episodes: eps}
}

func NewOptionViews(opts []facet.Option) []OptionView {
	out := make([]OptionView, 0, len(opts))
	for _, o := range opts {
		out = append(out, OptionView{Key: o.Key, Label: o.Label, Selected: o.Selected})
	}
	return out
}

func NewStatsView(dimension string, total int, rows []facet.AggregateRow) StatsView {
	v := StatsView{Dimension: dimension, Total: total, Rows: make([]StatRowView, 0, len(rows))}
	for _, r := range rows {
		v.Rows = append(v.Rows, StatRowView{Label: r.Label, Count: r.Count, Percentage: r.Percentage})
	}
	return v
}

func NewSeriesView(dimension string, ys facet.YearSeries) SeriesView {
	return SeriesView{Dimension: dimension, Years: ys.Years, Tags: ys.Tags, Counts: ys.Counts}
}
