// Package adminapi exposes the control-plane HTTP surface for operators:
// session listing and forced disconnects, behind bearer-token auth.
// Grounded in the teacher's pkg/api/router.go (chi middleware stack,
// route grouping, custom request logger) and its JWT auth pairing.
package adminapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aoserver/aoserver/internal/logger"
	"github.com/aoserver/aoserver/internal/metrics"
	"github.com/aoserver/aoserver/internal/registry"
	"github.com/aoserver/aoserver/internal/telemetry"
)

// Kicker is the subset of aolisten.Listener the admin API needs; kept as
// an interface so this package does not import aolisten directly.
type Kicker interface {
	KickSlot(slot int) bool
}

// Server holds the collaborators the admin API's handlers read from.
type Server struct {
	Registry *registry.Registry
	Listener Kicker
	Issuer   *TokenIssuer

	// Gatherer, if set, is served unauthenticated at /metrics in the
	// Prometheus exposition format. Nil disables the route entirely.
	Gatherer prometheus.Gatherer
}

// sessionView is the wire shape for GET /api/v1/sessions.
type sessionView struct {
	Slot        int    `json:"slot"`
	IdentityID  int64  `json:"identity_id"`
	CharacterID int    `json:"character_id"`
	IsModerator bool   `json:"is_moderator"`
	DisplayName string `json:"display_name,omitempty"`
}

// Router builds the chi router for the admin API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/health", s.handleHealth)
	if s.Gatherer != nil {
		r.Get("/metrics", metrics.Handler(s.Gatherer).ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(requireBearer(s.Issuer))

		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions/{slot}/kick", s.handleKickSession)
		r.Post("/bans", s.handleAddBan)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	snapshot := s.Registry.Snapshot()
	out := make([]sessionView, len(snapshot))
	for i, sess := range snapshot {
		out[i] = sessionView{
			Slot:        sess.SlotID,
			IdentityID:  sess.IdentityID,
			CharacterID: sess.CharacterID,
			IsModerator: sess.IsModerator,
			DisplayName: sess.DisplayName,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleKickSession(w http.ResponseWriter, r *http.Request) {
	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		http.Error(w, "invalid slot", http.StatusBadRequest)
		return
	}

	_, span := telemetry.StartSessionSpan(r.Context(), telemetry.SpanAdminKick, slot)
	defer span.End()

	if !s.Listener.KickSlot(slot) {
		http.Error(w, "no session in that slot", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "kicked"})
}

// banRequest is the wire shape for POST /api/v1/bans.
type banRequest struct {
	IP     string `json:"ip"`
	Reason string `json:"reason"`
}

func (s *Server) handleAddBan(w http.ResponseWriter, r *http.Request) {
	var req banRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IP == "" {
		http.Error(w, "invalid ban request", http.StatusBadRequest)
		return
	}

	_, span := telemetry.StartDomainSpan(r.Context(), telemetry.SpanAdminBan, telemetry.ClientIP(req.IP))
	defer span.End()

	s.Registry.Ban(req.IP, req.Reason)
	logger.InfoCtx(r.Context(), "ip banned", logger.Route(req.IP))
	writeJSON(w, http.StatusOK, map[string]string{"status": "banned"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// requestLogger mirrors the teacher's own custom chi request-completion
// logger, using this project's structured logger instead of the
// teacher's.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Info("admin api request",
			logger.RequestID(middleware.GetReqID(r.Context())),
			logger.Route(r.URL.Path),
			logger.Status(ww.Status()),
			logger.DurationMs(float64(time.Since(start).Milliseconds())),
		)
	})
}
