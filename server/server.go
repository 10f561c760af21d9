// Package server exposes stored recordings over HTTP.
//
// Recorders upload finished videos to POST /api/upload with the multipart
// contract of recorder.HTTPUploader. Stored videos can be downloaded,
// inspected, rendered to PNG or PDF at any moment, and played remotely
// through a websocket session.
package server

import (
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/internal/framecache"
	"github.com/gogpu/screencast/store"

	_ "github.com/gogpu/screencast/drawing/backends/pdf"
	_ "github.com/gogpu/screencast/format/msgpack"
	_ "github.com/gogpu/screencast/format/svganim"
)

const (
	// DefaultMaxUploadBytes limits the size of an uploaded recording.
	DefaultMaxUploadBytes = 32 << 20

	// DefaultFrameCacheBytes is the memory kept for rendered frames.
	DefaultFrameCacheBytes = 64 << 20

	// DefaultSessionInterval is the frame interval of playback sessions.
	DefaultSessionInterval = time.Second / 60

	maxFrameSize = 4096
)

// Server handles the HTTP API.
type Server struct {
	store    store.Store
	router   chi.Router
	upgrader websocket.Upgrader
	frames   *framecache.Cache

	maxUpload  int64
	cacheBytes int64
	origins    []string
	interval   time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithMaxUploadBytes limits the request body of uploads.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithFrameCacheBytes sets the memory kept for rendered frames. Zero
// disables the cache.
func WithFrameCacheBytes(n int64) Option {
	return func(s *Server) {
		s.cacheBytes = max(n, 0)
	}
}

// WithAllowedOrigins sets the origins accepted by CORS and by the session
// endpoint. Without it only local origins are accepted.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithSessionInterval sets the frame interval of playback sessions.
func WithSessionInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.interval = d
		}
	}
}

// New creates a server for the recordings in st.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:      st,
		maxUpload:  DefaultMaxUploadBytes,
		cacheBytes: DefaultFrameCacheBytes,
		interval:   DefaultSessionInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.frames = framecache.New(s.cacheBytes)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.allowOrigin(r, origin)
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  s.allowOrigin,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/videos", s.handleList)
		r.Route("/videos/{id}", func(r chi.Router) {
			r.Get("/", s.handleDownload)
			r.Delete("/", s.handleDelete)
			r.Get("/info", s.handleInfo)
			r.Get("/frame.png", s.handleFrame("raster", "image/png"))
			r.Get("/frame.pdf", s.handleFrame("pdf", "application/pdf"))
			r.Get("/session", s.handleSession)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) allowOrigin(_ *http.Request, origin string) bool {
	if slices.Contains(s.origins, "*") || slices.Contains(s.origins, origin) {
		return true
	}
	if len(s.origins) > 0 {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https":
		switch u.Hostname() {
		case "localhost", "127.0.0.1", "::1":
			return true
		}
	}
	return false
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		screencast.Logger().Debug("server: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func fail(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	log := screencast.Logger().With("request_id", middleware.GetReqID(r.Context()), "err", err)
	if status >= http.StatusInternalServerError {
		log.Error("server: " + msg)
	} else {
		log.Warn("server: " + msg)
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}
