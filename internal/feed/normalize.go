package feed

import (
	"podarc/internal/domain/catalog"
	"podarc/internal/domain/config"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Recognized fixed columns; tag columns come from the dimension table.
const (
	colEpisode  = "Episode"
	colTitle    = "Title"
	colDate     = "Publish Date"
	colDesc     = "Description"
	colAudioURL = "Audio URL"
)

type Warning struct {
	Row int // 1-based data row number (header excluded)
	Msg string
}

type result struct {
	idx     int
	episode catalog.Episode
	warns   []Warning
	skip    bool
}

// Normalize maps raw rows to episodes. Malformed dates and ordinals degrade
// to absent with a warning; only a missing title drops the row. Input order
// is preserved in the output.
func Normalize(rows []RawRow, dims []config.DimensionConfig) ([]catalog.Episode, []Warning) {
	if len(rows) == 0 {
		return nil, nil
	}

	workers := runtime.GOMAXPROCS(0)
	type job struct {
		idx int
		row RawRow
	}
	jobs := make(chan job)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- normalizeRow(j.idx, j.row, dims)
			}
		}()
	}

	go func() {
		for i, row := range rows {
			jobs <- job{idx: i, row: row}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	// 按行号回填，保持源表顺序
	byIdx := make([]result, len(rows))
	for r := range results {
		byIdx[r.idx] = r
	}

	var out []catalog.Episode
	var warns []Warning
	for _, r := range byIdx {
		warns = append(warns, r.warns...)
		if r.skip {
			continue
		}
		out = append(out, r.episode)
	}
	return out, warns
}

func normalizeRow(idx int, row RawRow, dims []config.DimensionConfig) result {
	res := result{idx: idx}
	rowNo := idx + 1

	title := strings.TrimSpace(row[colTitle])
	if title == "" {
		res.warns = append(res.warns, Warning{Row: rowNo, Msg: "missing title, row skipped"})
		res.skip = true
		return res
	}

	e := catalog.Episode{
		Title:       title,
		Description: strings.TrimSpace(row[colDesc]),
		AudioURL:    strings.TrimSpace(row[colAudioURL]),
	}

	if n, ok := catalog.ParseLeadingInt(row[colEpisode]); ok {
		e.Ordinal = n
	}

	if raw := strings.TrimSpace(row[colDate]); raw != "" {
		e.Date = ParseDate(raw)
		if e.Date.IsZero() {
			res.warns = append(res.warns, Warning{Row: rowNo, Msg: "unparseable publish date: " + raw})
		}
	}

	for _, d := range dims {
		tags := catalog.ParseTagList(row[d.Field], false)
		if len(tags) == 0 {
			continue
		}
		if e.Tags == nil {
			e.Tags = make(map[string][]catalog.Tag, len(dims))
		}
		e.Tags[d.Name] = tags
	}

	res.episode = e
	return res
}

// ParseDate tries the layouts spreadsheet exports actually produce. Zero
// time on failure; it never errors.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339,
		time.DateOnly,
		"2006/01/02",
		"1/2/2006",
		"1/2/06",
		"January 2, 2006",
		"Jan 2, 2006",
		time.DateTime,
		"2006-01-02 15:04",
	} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}
