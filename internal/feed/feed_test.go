package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"podarc/internal/domain/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Episode,Title,Publish Date,Description,Audio URL,Period,Region
1,The First Cities,2020-03-01,Uruk and friends,https://cdn.example.com/1.mp3,"1. Ancient",Mesopotamia
2,Untitled row,,no title below,,,
,  ,2020-04-01,this row has no title,,,
3,Steppe Nomads,not-a-date,,,"2. Classical, 2. Classical",Central Asia
`

func testSourceDims() []config.DimensionConfig {
	return []config.DimensionConfig{
		{Name: "period", Field: "Period", Sort: config.SortNumeric, Param: "periods"},
		{Name: "region", Field: "Region", Sort: config.SortAlpha, Param: "regions"},
	}
}

func TestParseRows(t *testing.T) {
	rows, err := ParseRows([]byte(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "The First Cities", rows[0]["Title"])
	assert.Equal(t, "1. Ancient", rows[0]["Period"])
	// missing cells read as empty strings
	assert.Equal(t, "", rows[1]["Region"])
}

func TestParseRowsEmpty(t *testing.T) {
	rows, err := ParseRows(nil)
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestNormalize(t *testing.T) {
	rows, err := ParseRows([]byte(sampleCSV))
	require.NoError(t, err)

	eps, warns := Normalize(rows, testSourceDims())
	require.Len(t, eps, 3)

	// source order preserved
	assert.Equal(t, "The First Cities", eps[0].Title)
	assert.Equal(t, 1, eps[0].Ordinal)
	assert.Equal(t, 2020, eps[0].Date.Year())
	assert.Equal(t, "Uruk and friends", eps[0].Description)
	assert.Equal(t, "https://cdn.example.com/1.mp3", eps[0].AudioURL)
	require.Len(t, eps[0].Tags["period"], 1)
	assert.Equal(t, "1. Ancient", eps[0].Tags["period"][0].Raw)

	// no date and no tags degrade silently to absent
	assert.Equal(t, "Untitled row", eps[1].Title)
	assert.False(t, eps[1].HasDate())
	assert.Empty(t, eps[1].Tags)

	// malformed date keeps the row, drops the date; duplicate tags collapse
	assert.Equal(t, "Steppe Nomads", eps[2].Title)
	assert.False(t, eps[2].HasDate())
	require.Len(t, eps[2].Tags["period"], 1)

	// one warning for the dropped titleless row, one for the bad date
	require.Len(t, warns, 2)
	assert.Equal(t, 3, warns[0].Row)
	assert.Contains(t, warns[0].Msg, "missing title")
	assert.Contains(t, warns[1].Msg, "unparseable publish date")
}

func TestNormalizeMissingColumns(t *testing.T) {
	rows := []RawRow{{"Title": "Bare"}}
	eps, warns := Normalize(rows, testSourceDims())
	require.Len(t, eps, 1)
	assert.Empty(t, warns)
	assert.Equal(t, 0, eps[0].Ordinal)
	assert.False(t, eps[0].HasDate())
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2020-03-01", time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"3/1/2020", time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"March 1, 2020", time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"Mar 1, 2020", time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"soonish", time.Time{}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseDate(c.in), "input %q", c.in)
	}
}

func TestFetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episodes.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	data, hash, err := Fetch(context.Background(), config.SourceConfig{
		File:    path,
		Timeout: config.Duration(5 * time.Second),
	})
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(data))
	assert.Equal(t, HashBytes([]byte(sampleCSV)), hash)
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	data, hash, err := Fetch(context.Background(), config.SourceConfig{
		SheetURL: srv.URL,
		Timeout:  config.Duration(5 * time.Second),
	})
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(data))
	assert.NotEmpty(t, hash)
}

func TestFetchHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, _, err := Fetch(context.Background(), config.SourceConfig{
		SheetURL: srv.URL,
		Timeout:  config.Duration(5 * time.Second),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}
