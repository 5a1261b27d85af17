package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/language"
	"log"
	"net/http"
	"path/filepath"
	"podarc/internal/domain/catalog"
	"podarc/internal/domain/config"
	"podarc/internal/facet"
	"podarc/internal/feed"
	"podarc/internal/index"
	"podarc/internal/render"
	"strconv"
	"strings"
	"sync"
	"time"
)

const groupByYear = "year"

type Server struct {
	cfg  config.Config
	lang language.Tag

	idx   *index.Store
	notes *render.ShowNotes

	mu       sync.RWMutex
	episodes []catalog.Episode
	snap     index.Snapshot

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, indexPath string) (*Server, error) {
	st, err := index.Open(index.OpenOptions{Path: indexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}
	return &Server{
		cfg:      cfg,
		lang:     language.Make(cfg.Site.Language),
		idx:      st,
		notes:    render.NewShowNotes(),
		sseConns: make(map[chan string]struct{}),
	}, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.refresh(ctx); err != nil {
		// 拉取失败不致命：还有上一次的快照可用
		log.Printf("[warn] initial fetch failed: %v", err)
		if err := s.loadSnapshot(); err != nil {
			log.Printf("[warn] no stored snapshot either: %v", err)
		}
	}

	if s.cfg.Source.File != "" {
		if err := s.startWatch(ctx); err != nil {
			return err
		}
	}
	if s.cfg.Source.SheetURL != "" && s.cfg.Source.RefreshInterval.Std() > 0 {
		go s.refreshLoop(ctx)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/view", s.handleView)
	mux.HandleFunc("/api/episodes/", s.handleEpisode)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/series", s.handleSeries)
	mux.HandleFunc("/api/refresh", s.handleRefresh)
	mux.HandleFunc("/healthz", s.handleHealth)

	// dev SSE
	mux.HandleFunc("/dev/events", s.handleSSE)

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// 支持 ctx 取消
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Printf("[serve] listening on %s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// collection returns the current immutable episode slice plus snapshot
// info. The slice is replaced whole on refresh and never mutated.
func (s *Server) collection() ([]catalog.Episode, index.Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.episodes, s.snap
}

func (s *Server) loadSnapshot() error {
	eps, err := s.idx.ListAll()
	if err != nil {
		return err
	}
	snap, err := s.idx.Meta()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.episodes = eps
	s.snap = snap
	s.mu.Unlock()
	log.Printf("[serve] loaded stored snapshot: %d episodes from %s", len(eps), snap.FetchedAt.Format(time.RFC3339))
	return nil
}

func (s *Server) refresh(ctx context.Context) error {
	data, hash, err := feed.Fetch(ctx, s.cfg.Source)
	if err != nil {
		return err
	}

	_, cur := s.collection()
	if cur.SourceHash == hash && cur.Episodes > 0 {
		log.Printf("[feed] source unchanged, skipping rebuild")
		return nil
	}

	rows, err := feed.ParseRows(data)
	if err != nil {
		return err
	}
	eps, warns := feed.Normalize(rows, s.cfg.Dimensions)
	for _, w := range warns {
		log.Printf("[warn] row %d: %s", w.Row, w.Msg)
	}

	snap := index.Snapshot{SourceHash: hash, FetchedAt: time.Now(), Episodes: len(eps)}
	if err := s.idx.Rebuild(eps, snap); err != nil {
		return fmt.Errorf("index rebuild: %w", err)
	}

	s.mu.Lock()
	s.episodes = eps
	s.snap = snap
	s.mu.Unlock()

	log.Printf("[serve] rebuilt: %d episodes", len(eps))
	s.broadcastSSE("reload")
	return nil
}

func (s *Server) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Source.RefreshInterval.Std())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ctx2, cancel := context.WithTimeout(ctx, s.cfg.Source.Timeout.Std())
			if err := s.refresh(ctx2); err != nil {
				log.Printf("[warn] refresh error: %v", err)
			}
			cancel()
		}
	}
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		go s.watchLoop(ctx)

		// watch 目录而不是文件：编辑器保存常用 rename 替换
		err = w.Add(filepath.Dir(s.cfg.Source.File))
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	log.Printf("[serve] watching %s for changes ...", s.cfg.Source.File)
	target := filepath.Clean(s.cfg.Source.File)

	debounce := time.NewTicker(time.Hour)
	debounce.Stop()

	trigger := func() {
		select {
		case <-debounce.C:
		default:
		}
		debounce.Reset(200 * time.Millisecond)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[warn] watcher error: %v", err)
		case <-debounce.C:
			ctx2, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := s.refresh(ctx2); err != nil {
				log.Printf("[serve] refresh error: %v", err)
			}
			cancel()
		}
	}
}

// handleView answers one filter state with one consistent snapshot:
// filtered grouped listing, next available options, canonical query string.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	all, _ := s.collection()
	dims := s.cfg.Dimensions

	state := facet.Decode(r.URL.Query(), dims)
	filtered := facet.Filter(all, state, dims)
	facet.SortCanonical(filtered, s.lang)

	grouping := state.Grouping
	if grouping == "" {
		grouping = groupByYear
	}
	var groups []facet.Group
	if dim, ok := s.dimension(grouping); ok {
		groups = facet.GroupByDimension(filtered, dim)
	} else {
		grouping = groupByYear
		groups = facet.GroupByYear(filtered)
	}

	// 受约束维度的面板始终用全集重建：不随其他维度或搜索词收窄，
	// 勾选中的值永远不会从自己的面板里消失。
	prev := make(map[string][]facet.Option, len(dims))
	for _, d := range dims {
		if !state.HasSelection(d.Name) {
			continue
		}
		prev[d.Name] = facet.OptionsFor(all, d)
	}
	options := facet.RebuildOptions(filtered, state, dims, prev)

	groupViews := make([]render.GroupView, 0, len(groups))
	for _, g := range groups {
		groupViews = append(groupViews, render.NewGroupView(g))
	}
	optionViews := make(map[string][]render.OptionView, len(options))
	for dim, opts := range options {
		optionViews[dim] = render.NewOptionViews(opts)
	}

	writeJSON(w, render.ViewSnapshot{
		Site:      s.cfg.Site,
		Total:     len(all),
		Count:     len(filtered),
		Query:     state.Query,
		Grouping:  grouping,
		State:     facet.Encode(state, dims).Encode(),
		Groups:    groupViews,
		Options:   optionViews,
		Generated: time.Now(),
	})
}

// 单集详情：/api/episodes/<ordinal>
func (s *Server) handleEpisode(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/episodes/")
	raw = strings.TrimSuffix(raw, "/")
	ordinal, err := strconv.Atoi(raw)
	if err != nil || ordinal <= 0 {
		http.Error(w, "bad episode ordinal", http.StatusBadRequest)
		return
	}

	e, err := s.idx.GetByOrdinal(ordinal)
	if errors.Is(err, index.ErrNotFound) {
		http.Error(w, "episode not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[serve] episode query error: %v", err)
		http.Error(w, "episode query error", http.StatusInternalServerError)
		return
	}

	page := render.EpisodePage{Episode: render.NewEpisodeView(e)}
	if e.Description != "" {
		html, err := s.notes.Render(e.Description)
		if err != nil {
			log.Printf("[warn] show notes render error: %v", err)
		} else {
			page.ShowNotesHTML = html
		}
	}
	writeJSON(w, page)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	dim, ok := s.dimension(r.URL.Query().Get("dimension"))
	if !ok {
		http.Error(w, "unknown dimension", http.StatusBadRequest)
		return
	}
	all, _ := s.collection()
	state := facet.Decode(r.URL.Query(), s.cfg.Dimensions)
	filtered := facet.Filter(all, state, s.cfg.Dimensions)

	// 百分比永远以全集为分母
	rows := facet.BuildTagStats(filtered, dim.Name, len(all))
	facet.SortStatsByCount(rows)
	writeJSON(w, render.NewStatsView(dim.Name, len(all), rows))
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	dim, ok := s.dimension(r.URL.Query().Get("dimension"))
	if !ok {
		http.Error(w, "unknown dimension", http.StatusBadRequest)
		return
	}
	all, _ := s.collection()
	state := facet.Decode(r.URL.Query(), s.cfg.Dimensions)
	filtered := facet.Filter(all, state, s.cfg.Dimensions)

	writeJSON(w, render.NewSeriesView(dim.Name, facet.BuildYearSeries(filtered, dim)))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.refresh(r.Context()); err != nil {
		log.Printf("[serve] refresh error: %v", err)
		http.Error(w, "refresh failed", http.StatusBadGateway)
		return
	}
	_, snap := s.collection()
	writeJSON(w, map[string]any{"episodes": snap.Episodes, "fetched_at": snap.FetchedAt})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, snap := s.collection()
	writeJSON(w, map[string]any{"ok": true, "episodes": snap.Episodes})
}

func (s *Server) dimension(name string) (config.DimensionConfig, bool) {
	for _, d := range s.cfg.Dimensions {
		if d.Name == name {
			return d, true
		}
	}
	return config.DimensionConfig{}, false
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

// ===================== 工具 =====================

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
