package config

import (
	"gopkg.in/yaml.v3"
	"net/url"
	"os"
	domainerr "podarc/internal/domain/errors"
	"strings"
	"time"
)

type Config struct {
	Site       SiteConfig        `yaml:"site"`
	Source     SourceConfig      `yaml:"source"`
	Server     ServerConfig      `yaml:"server"`
	Dimensions []DimensionConfig `yaml:"dimensions"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
}

type SourceConfig struct {
	SheetURL        string   `yaml:"sheet_url"`
	File            string   `yaml:"file"`
	RefreshInterval Duration `yaml:"refresh_interval"`
	Timeout         Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type SortPolicy string

const (
	// SortNumeric 先按 "N. " 前缀数字排，没有前缀的靠后，再按字母。
	SortNumeric SortPolicy = "numeric"
	SortAlpha   SortPolicy = "alpha"
)

// DimensionConfig declares one tag facet: which source column feeds it, how
// its option lists are ordered, and which query-string parameter carries its
// selection.
type DimensionConfig struct {
	Name  string     `yaml:"name"`
	Field string     `yaml:"field"`
	Sort  SortPolicy `yaml:"sort"`
	Param string     `yaml:"param"`
}

// Duration lets yaml carry "15m" / "30s" style values.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Podarc",
			Language: "en",
		},
		Source: SourceConfig{
			File:            "data/episodes.csv",
			RefreshInterval: Duration(15 * time.Minute),
			Timeout:         Duration(30 * time.Second),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Dimensions: []DimensionConfig{
			{Name: "period", Field: "Period", Sort: SortNumeric, Param: "periods"},
			{Name: "region", Field: "Region", Sort: SortAlpha, Param: "regions"},
			{Name: "topic", Field: "Topic", Sort: SortAlpha, Param: "topics"},
			{Name: "series", Field: "Series", Sort: SortAlpha, Param: "series"},
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}

	hasURL := strings.TrimSpace(c.Source.SheetURL) != ""
	hasFile := strings.TrimSpace(c.Source.File) != ""
	switch {
	case !hasURL && !hasFile:
		ve.Add("source", "either sheet_url or file must be set")
	case hasURL && hasFile:
		ve.Add("source", "sheet_url and file are mutually exclusive")
	case hasURL && !isValidAbsURL(c.Source.SheetURL):
		ve.Add("source.sheet_url", "must be a valid absolute URL")
	}
	if c.Source.Timeout.Std() <= 0 {
		ve.Add("source.timeout", "must be positive")
	}
	if c.Source.RefreshInterval.Std() < 0 {
		ve.Add("source.refresh_interval", "must not be negative")
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		ve.Add("server.addr", "must not be empty")
	}

	if len(c.Dimensions) == 0 {
		ve.Add("dimensions", "at least one dimension is required")
	}
	seenName := make(map[string]struct{}, len(c.Dimensions))
	seenParam := make(map[string]struct{}, len(c.Dimensions))
	for _, d := range c.Dimensions {
		if strings.TrimSpace(d.Name) == "" {
			ve.Add("dimensions.name", "must not be empty")
			continue
		}
		if _, ok := seenName[d.Name]; ok {
			ve.Addf("dimensions.name", "duplicate dimension %q", d.Name)
		}
		seenName[d.Name] = struct{}{}

		if strings.TrimSpace(d.Field) == "" {
			ve.Addf("dimensions.field", "dimension %q has no source field", d.Name)
		}
		switch d.Sort {
		case SortNumeric, SortAlpha:
		default:
			ve.Addf("dimensions.sort", "dimension %q: must be 'numeric' or 'alpha'", d.Name)
		}
		if strings.TrimSpace(d.Param) == "" {
			ve.Addf("dimensions.param", "dimension %q has no query parameter", d.Name)
		} else if _, ok := seenParam[d.Param]; ok {
			ve.Addf("dimensions.param", "duplicate parameter %q", d.Param)
		} else {
			seenParam[d.Param] = struct{}{}
		}
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// 直接 Unmarshal 到 cfg 上：文件中写到的字段覆盖默认值，其他字段保留 Default
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault 文件不存在时退回默认配置。
func LoadOrDefault(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := cfg.Validate(); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
