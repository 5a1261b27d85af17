package export

import (
	"context"
	"encoding/json"
	"fmt"
	"golang.org/x/text/language"
	"os"
	"path/filepath"
	"podarc/internal/domain/catalog"
	"podarc/internal/domain/config"
	"podarc/internal/facet"
	"podarc/internal/feed"
	"podarc/internal/index"
	"podarc/internal/render"
	"time"
)

// Exporter fetches the source once and writes every derived view as static
// JSON, for hosting without the server.
type Exporter struct {
	Cfg       config.Config
	IndexPath string
	OutDir    string
}

type Result struct {
	Episodes int
	Warnings []feed.Warning
	Files    []string
}

func (ex *Exporter) Run(ctx context.Context) (*Result, error) {
	data, hash, err := feed.Fetch(ctx, ex.Cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	rows, err := feed.ParseRows(data)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	eps, warns := feed.Normalize(rows, ex.Cfg.Dimensions)

	st, err := index.Open(index.OpenOptions{Path: ex.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	if err := st.Rebuild(eps, index.Snapshot{
		SourceHash: hash,
		FetchedAt:  time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}

	if err := os.MkdirAll(ex.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", ex.OutDir, err)
	}

	res := &Result{Episodes: len(eps), Warnings: warns}
	if err := ex.writeAll(res, eps); err != nil {
		return nil, err
	}
	return res, nil
}

func (ex *Exporter) writeAll(res *Result, eps []catalog.Episode) error {
	lang := language.Make(ex.Cfg.Site.Language)
	sorted := append([]catalog.Episode(nil), eps...)
	facet.SortCanonical(sorted, lang)

	if err := ex.writeEpisodes(res, sorted); err != nil {
		return fmt.Errorf("export episodes: %w", err)
	}
	if err := ex.writeArchive(res, sorted); err != nil {
		return fmt.Errorf("export archive: %w", err)
	}
	if err := ex.writeOptions(res, eps); err != nil {
		return fmt.Errorf("export options: %w", err)
	}
	for _, d := range ex.Cfg.Dimensions {
		if err := ex.writeStats(res, eps, d); err != nil {
			return fmt.Errorf("export %s stats: %w", d.Name, err)
		}
		if err := ex.writeSeries(res, eps, d); err != nil {
			return fmt.Errorf("export %s series: %w", d.Name, err)
		}
	}
	return nil
}

func (ex *Exporter) writeEpisodes(res *Result, sorted []catalog.Episode) error {
	views := make([]render.EpisodeView, 0, len(sorted))
	for _, e := range sorted {
		views = append(views, render.NewEpisodeView(e))
	}
	return ex.writeFile(res, "episodes.json", views)
}

func (ex *Exporter) writeArchive(res *Result, sorted []catalog.Episode) error {
	groups := facet.GroupByYear(sorted)
	views := make([]render.GroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, render.NewGroupView(g))
	}
	return ex.writeFile(res, "archive.json", views)
}

func (ex *Exporter) writeOptions(res *Result, eps []catalog.Episode) error {
	out := make(map[string][]render.OptionView, len(ex.Cfg.Dimensions))
	for _, d := range ex.Cfg.Dimensions {
		out[d.Name] = render.NewOptionViews(facet.OptionsFor(eps, d))
	}
	return ex.writeFile(res, "options.json", out)
}

func (ex *Exporter) writeStats(res *Result, eps []catalog.Episode, d config.DimensionConfig) error {
	rows := facet.BuildTagStats(eps, d.Name, len(eps))
	facet.SortStatsByCount(rows)
	return ex.writeFile(res, "stats_"+d.Name+".json", render.NewStatsView(d.Name, len(eps), rows))
}

func (ex *Exporter) writeSeries(res *Result, eps []catalog.Episode, d config.DimensionConfig) error {
	return ex.writeFile(res, "series_"+d.Name+".json", render.NewSeriesView(d.Name, facet.BuildYearSeries(eps, d)))
}

func (ex *Exporter) writeFile(res *Result, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(ex.OutDir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return err
	}
	res.Files = append(res.Files, path)
	return nil
}
