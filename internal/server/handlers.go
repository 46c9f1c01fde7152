package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"navisync/internal/models"
	"navisync/internal/session"
)

// CheckRequest names the playlist to check. All checks every local playlist
// and takes precedence over Playlist.
type CheckRequest struct {
	Playlist string `json:"playlist"`
	All      bool   `json:"all"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePlaylists(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	local, err := s.sess.LocalPlaylists()
	if err != nil {
		http.Error(w, "Failed to list playlists", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"local":   local,
		"checked": s.sess.Checked(),
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["playlist"]

	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := s.sess.Results(name)
	if errors.Is(err, session.ErrNotChecked) {
		http.Error(w, "Playlist has not been checked", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if !req.All && req.Playlist == "" {
		http.Error(w, "Name a playlist or set all", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sess.Config().Complete() {
		http.Error(w, session.ErrIncompleteConfig.Error(), http.StatusServiceUnavailable)
		return
	}
	if !req.All && !s.sess.HasLocalPlaylist(req.Playlist) {
		http.Error(w, "Playlist not found", http.StatusNotFound)
		return
	}

	flusher, err := setupSSE(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	send := func(v any) { sendEvent(w, flusher, v) }

	ctx := r.Context()
	if _, err := s.sess.EnsureCache(ctx, nil); err != nil {
		send(map[string]string{
			"status":  "info",
			"message": "Song cache unavailable, every track will be searched",
		})
	}

	onProgress := func(playlist string, done, total int, res *models.CheckResult) {
		send(map[string]any{
			"status":   "processing",
			"playlist": playlist,
			"index":    done,
			"total":    total,
			"result":   res,
		})
	}

	var final map[string]any
	if req.All {
		checked, err := s.sess.CheckAll(ctx, onProgress)
		if err != nil {
			checkFailed(ctx.Err(), send, err)
			return
		}
		final = map[string]any{"status": "complete", "playlists": checked}
	} else {
		results, err := s.sess.Check(ctx, req.Playlist, onProgress)
		if err != nil {
			checkFailed(ctx.Err(), send, err)
			return
		}
		final = map[string]any{"status": "complete", "playlist": req.Playlist, "tracks": results}
	}

	final["meta"] = map[string]any{"timestamp": time.Now().Format(time.RFC3339)}
	send(final)
}

func checkFailed(ctxErr error, send func(any), err error) {
	if ctxErr != nil {
		slog.Info("Client disconnected during check")
		return
	}
	send(map[string]string{
		"status":  "error",
		"message": "Check failed: " + err.Error(),
	})
}
