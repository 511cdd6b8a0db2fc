package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tokentap/internal/auth"
	"tokentap/internal/config"
	"tokentap/internal/game"
	"tokentap/internal/metrics"
)

type Server struct {
	cfg     config.APIConfig
	log     *slog.Logger
	game    *game.Service
	metrics *metrics.Metrics
	mux     *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, gameSvc *game.Service, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		log:     logger,
		game:    gameSvc,
		metrics: m,
		mux:     chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if s.cfg.AllowedOrigin != "" {
		r.Use(s.allowOrigin)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth", s.handleAuth)
		r.Post("/tap", s.handleTap)
		r.Post("/upgrade", s.handleUpgrade)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

type actionRequest struct {
	InitData string `json:"init_data"`
}

// verifyRequest re-checks the signed credential on every call; no
// session state survives between requests.
func (s *Server) verifyRequest(w http.ResponseWriter, r *http.Request) (game.Identity, bool) {
	var in actionRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return game.Identity{}, false
	}
	user, err := auth.Verify(in.InitData, s.cfg.BotToken)
	if err != nil {
		s.metrics.AuthFailures.Inc()
		writeError(w, http.StatusUnauthorized, err.Error())
		return game.Identity{}, false
	}
	return game.Identity{
		TelegramID: user.ID,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		PhotoURL:   user.PhotoURL,
	}, true
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	id, ok := s.verifyRequest(w, r)
	if !ok {
		return
	}
	player, snap, err := s.game.Authenticate(r.Context(), id)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"player": player.View(),
		"state":  snap,
	})
}

func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	id, ok := s.verifyRequest(w, r)
	if !ok {
		return
	}
	res, err := s.game.Tap(r.Context(), id)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}
	s.metrics.Taps.WithLabelValues(metrics.Outcome(res.OK)).Inc()
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	id, ok := s.verifyRequest(w, r)
	if !ok {
		return
	}
	res, err := s.game.Upgrade(r.Context(), id)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}
	s.metrics.Upgrades.WithLabelValues(metrics.Outcome(res.OK)).Inc()
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	n := game.DefaultLeaderboardSize
	if raw := strings.TrimSpace(r.URL.Query().Get("n")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}
	rows, err := s.game.Leaderboard(r.Context(), n)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}
	if rows == nil {
		rows = []game.LeaderboardRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (s *Server) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) allowOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == s.cfg.AllowedOrigin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
