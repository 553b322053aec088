package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"codeberg.org/snonux/wordspeak/internal/wordlist"
)

type speakRequest struct {
	Text string `json:"text"`
}

type speakResponse struct {
	URL    string `json:"url"`
	Name   string `json:"name"`
	Cached bool   `json:"cached"`
}

// handlePing returns a success.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleWords reloads the word list from disk on every request.
func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	words, err := s.Words.Load(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if words == nil {
		words = wordlist.WordList{}
	}
	s.writeJSON(w, http.StatusOK, words)
}

func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		s.Error(w, r, ErrInvalidJSON)
		return
	}

	asset, err := s.Speech.Speak(r.Context(), req.Text)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, &speakResponse{
		URL:    "/media/" + asset.Name,
		Name:   asset.Name,
		Cached: asset.Cached,
	})
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	path, err := s.Speech.Resolve(chi.URLParam(r, "name"))
	if err != nil {
		s.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeFile(w, r, path)
}

func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Speech.Stats()
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Warn("failed to encode response", "error", err)
	}
}
