// Package server is the local dashboard: it shows the ranked articles of
// the latest pipeline run and generates LinkedIn posts on demand. All state
// is in memory; every run replaces it.
package server

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/warpzoneai/newsradar/internal/article"
	"github.com/warpzoneai/newsradar/internal/pipeline"
	"github.com/warpzoneai/newsradar/internal/social"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Bullet summaries carry markup the model was told to emit (the closing
// <strong> line), so raw HTML passes through.
var md = goldmark.New(goldmark.WithRendererOptions(ghtml.WithUnsafe()))

// Runner runs the aggregation pipeline; satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, days int) ([]article.Article, error)
}

// PostGenerator generates a LinkedIn post; satisfied by *social.Generator.
type PostGenerator interface {
	Post(ctx context.Context, a article.Article) (string, error)
}

var (
	_ Runner        = (*pipeline.Pipeline)(nil)
	_ PostGenerator = (*social.Generator)(nil)
)

// Server holds the dashboard state. The pipeline itself is single-threaded;
// the mutex only serializes concurrent browser requests around it.
type Server struct {
	pipe        Runner
	posts       PostGenerator
	defaultDays int
	threshold   int
	topN        int
	pages       map[string]*template.Template
	mux         *chi.Mux

	mu            sync.Mutex
	articles      []article.Article
	days          int
	fetchedAt     time.Time
	linkedinPosts map[int]string
	lastErr       string
}

// New creates a dashboard server.
func New(pipe Runner, posts PostGenerator, defaultDays, threshold, topN int) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown":   renderMarkdown,
		"formatDate": formatDate,
	}

	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	pageNames := []string{"index.html", "posts.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{
		pipe:          pipe,
		posts:         posts,
		defaultDays:   defaultDays,
		threshold:     threshold,
		topN:          topN,
		pages:         pages,
		mux:           chi.NewRouter(),
		linkedinPosts: make(map[int]string),
	}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.Get("/", s.handleIndex)
	s.mux.Post("/refresh", s.handleRefresh)
	s.mux.Get("/posts", s.handlePosts)
	s.mux.Post("/articles/{idx}/linkedin", s.handleLinkedIn)
}

// articleView pairs an article with its stable index into the current run,
// used for per-article routes.
type articleView struct {
	Index int
	article.Article
	Post string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	top, trending := s.partition()
	s.render(w, "index.html", map[string]any{
		"HasRun":   !s.fetchedAt.IsZero(),
		"Days":     s.daysOrDefault(),
		"Total":    len(s.articles),
		"Top":      top,
		"Trending": trending,
		"All":      s.views(s.articles),
		"Error":    s.lastErr,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	days := s.defaultDays
	if v := r.FormValue("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	articles, err := s.pipe.Run(r.Context(), days)
	if err != nil {
		// Fatal fetch errors leave the previous run on screen.
		log.Printf("Pipeline run failed: %v", err)
		s.lastErr = err.Error()
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	s.articles = articles
	s.days = days
	s.fetchedAt = time.Now()
	s.linkedinPosts = make(map[int]string)
	s.lastErr = ""

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var generated []articleView
	top, _ := s.partition()
	for _, v := range top {
		if post, ok := s.linkedinPosts[v.Index]; ok {
			v.Post = post
			generated = append(generated, v)
		}
	}

	s.render(w, "posts.html", map[string]any{
		"HasRun": !s.fetchedAt.IsZero(),
		"Posts":  generated,
		"Top":    top,
	})
}

func (s *Server) handleLinkedIn(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil || idx < 0 || idx >= len(s.articles) {
		http.NotFound(w, r)
		return
	}

	post, err := s.posts.Post(r.Context(), s.articles[idx])
	if err != nil {
		log.Printf("LinkedIn post generation failed for %d: %v", idx, err)
		s.lastErr = err.Error()
	} else {
		s.linkedinPosts[idx] = post
		s.lastErr = ""
	}

	http.Redirect(w, r, "/posts", http.StatusFound)
}

// partition splits the current run into top stories (above the threshold,
// capped at topN, relying on the sorted order) and the remaining qualifiers.
func (s *Server) partition() (top, trending []articleView) {
	for i, a := range s.articles {
		v := articleView{Index: i, Article: a}
		if a.RelevanceScore != nil && *a.RelevanceScore > s.threshold && len(top) < s.topN {
			top = append(top, v)
			continue
		}
		if a.RelevanceScore != nil && *a.RelevanceScore >= s.threshold {
			trending = append(trending, v)
		}
	}
	return top, trending
}

func (s *Server) views(articles []article.Article) []articleView {
	out := make([]articleView, len(articles))
	for i, a := range articles {
		out[i] = articleView{Index: i, Article: a}
	}
	return out
}

func (s *Server) daysOrDefault() int {
	if s.days > 0 {
		return s.days
	}
	return s.defaultDays
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// formatDate turns the pipeline's timestamp format into a friendlier one,
// passing unrecognized values (including the no-date sentinel) through.
func formatDate(value string) string {
	t, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		return value
	}
	return t.Format("January 2, 2006")
}

// Serve starts the HTTP server on the given port.
func Serve(pipe Runner, posts PostGenerator, defaultDays, threshold, topN, port int) error {
	srv, err := New(pipe, posts, defaultDays, threshold, topN)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Dashboard listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
