// Package httpapi serves player stats, the leaderboard and share frames over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/verte-zerg/cryptomatch/internal/model"
	"github.com/verte-zerg/cryptomatch/internal/stats"
)

const (
	requestTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 16
)

// Server bundles the router and the stats backend.
type Server struct {
	r       *chi.Mux
	svc     stats.Service
	baseURL string
	log     zerolog.Logger
}

// New constructs a Server, installs middleware and registers routes.
// baseURL is where players open the game; frame actions redirect there.
func New(svc stats.Service, baseURL string, log zerolog.Logger) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		svc:     svc,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.With().Str("component", "httpapi").Logger(),
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(s.log))
	s.r.Use(requestIDField)
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(requestTimeout))
	s.r.Use(jsonContentType)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.Route("/api", func(r chi.Router) {
		r.Route("/players/{wallet}", func(r chi.Router) {
			r.Get("/", s.handleGetPlayer)
			r.Post("/score", s.handleScore)
			r.Post("/identity", s.handleIdentity)
			r.Post("/nft", s.handleNFT)
		})
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/airdrop", s.handleAirdrop)
		r.Get("/frame", s.handleFrame)
		r.Post("/frame-action", s.handleFrameAction)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, stats.APIError{Error: "method not allowed"})
	})

	return s
}

// Router exposes the handler, mainly for tests.
func (s *Server) Router() http.Handler { return s.r }

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("stats api listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info().Msg("stats api shutting down")
	return srv.Shutdown(shutdownCtx)
}

// ----------------------------- middleware ----------------------------------

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// requestIDField tags the request logger with chi's request id.
func requestIDField(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			log := zerolog.Ctx(r.Context())
			log.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

// ------------------------------ players ------------------------------------

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := s.svc.GetStats(r.Context(), chi.URLParam(r, "wallet"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req stats.ScoreUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	player, err := s.svc.UpdateStats(r.Context(), chi.URLParam(r, "wallet"), req.Score, req.XPDelta)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (s *Server) handleIdentity(w http.ResponseWriter, r *http.Request) {
	var req stats.IdentityUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	display := strings.TrimSpace(req.DisplayIdentity)
	if err := s.svc.SetIdentity(r.Context(), chi.URLParam(r, "wallet"), display); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNFT(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.MarkNFTMinted(r.Context(), chi.URLParam(r, "wallet")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------- leaderboard ----------------------------------

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, stats.APIError{Error: "invalid limit"})
			return
		}
		limit = n
	}
	entries, err := s.svc.GetLeaderboard(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAirdrop(w http.ResponseWriter, r *http.Request) {
	qualified, err := s.svc.CountQualified(r.Context(), stats.QualifyScore)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.AirdropProgress(qualified))
}

// ------------------------------ helpers ------------------------------------

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, stats.APIError{Error: "invalid json body"})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		msg = "internal error"
	}
	writeJSON(w, status, stats.APIError{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, stats.ErrInvalidWallet), errors.Is(err, stats.ErrInvalidUpdate):
		return http.StatusBadRequest
	case errors.Is(err, stats.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, stats.ErrNotEligible):
		return http.StatusConflict
	case errors.Is(err, stats.ErrDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) playURL(mode string) string {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return s.baseURL + "/play?mode=" + url.QueryEscape(mode)
	}
	u = u.JoinPath("play")
	q := u.Query()
	q.Set("mode", mode)
	u.RawQuery = q.Encode()
	return u.String()
}
