package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"codeberg.org/snonux/wordspeak/internal/speechcache"
	"codeberg.org/snonux/wordspeak/internal/wordlist"
)

// WordService loads the current word list
type WordService interface {
	Load(ctx context.Context) (wordlist.WordList, error)
}

// SpeechService produces and locates cached audio
type SpeechService interface {
	Speak(ctx context.Context, text string) (*speechcache.Asset, error)
	Resolve(name string) (string, error)
	Stats() (speechcache.Stats, error)
}

// Server represents an HTTP server.
type Server struct {
	ln  net.Listener
	srv *http.Server

	// Services
	Words  WordService
	Speech SpeechService

	// Server options.
	Addr        string // bind address
	Recoverable bool   // panic recovery

	Logger *log.Logger
}

// NewServer returns a new instance of Server.
func NewServer() *Server {
	return &Server{
		Addr:        "127.0.0.1:8765",
		Recoverable: true,
		Logger:      log.New(io.Discard),
	}
}

// Open opens the server.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http server stopped", "error", err)
		}
	}()

	u := s.URL()
	s.Logger.Info("listening", "url", u.String())
	return nil
}

// Close stops the server, letting in-flight requests finish within ctx.
func (s *Server) Close(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// URL returns a base URL string with the scheme and host.
// This is available after the server has been opened.
func (s *Server) URL() url.URL {
	if s.ln == nil {
		return url.URL{}
	}
	return url.URL{Scheme: "http", Host: s.ln.Addr().String()}
}

// Handler returns the router serving all endpoints.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Attach router middleware.
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	if s.Recoverable {
		r.Use(middleware.Recoverer)
	}

	r.Get("/ping", s.handlePing)
	r.Route("/api", func(r chi.Router) {
		r.Get("/words", s.handleWords)
		r.Post("/speak", s.handleSpeak)
		r.Get("/cache", s.handleCache)
	})
	r.Get("/media/{name}", s.handleMedia)

	return r
}

// logRequests logs one line per request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"remote", r.RemoteAddr,
			"duration", time.Since(start))
	})
}
