package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jask/sitepatrol/internal/metrics"
	"github.com/jask/sitepatrol/internal/patrol"
	"github.com/jask/sitepatrol/internal/service"
)

const maxBodyBytes = 1 << 20

// Service is what the HTTP layer serves.
type Service interface {
	patrol.Backend
	Revisions(ctx context.Context, siteID, routeID string) ([]patrol.RouteRevision, error)
}

// Error codes carried next to the message so clients can recover the
// sentinel errors.
const (
	codeBadRequest    = "bad_request"
	codeSiteNotFound  = "site_not_found"
	codeRouteNotFound = "route_not_found"
	codeInvalidRoute  = "invalid_route"
	codeInternal      = "internal"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type server struct {
	svc     Service
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHandler builds the router. gatherer may be nil to leave /metrics out.
func NewHandler(svc Service, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &server{svc: svc, metrics: m, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/sites", func(r chi.Router) {
		r.Get("/", s.listSites)
		r.Route("/{siteID}", func(r chi.Router) {
			r.Get("/", s.getSite)
			r.Post("/routes", s.createRoute)
			r.Put("/routes/{routeID}", s.updateRoute)
			r.Delete("/routes/{routeID}", s.deleteRoute)
			r.Get("/routes/{routeID}/revisions", s.listRevisions)
		})
	})
	return r
}

func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(pattern, r.Method, status, time.Since(start))
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *server) listSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.svc.Sites(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

func (s *server) getSite(w http.ResponseWriter, r *http.Request) {
	agg, err := s.svc.Site(r.Context(), chi.URLParam(r, "siteID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

func (s *server) createRoute(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRoute(w, r)
	if !ok {
		return
	}
	rec, err := s.svc.CreateRoute(r.Context(), chi.URLParam(r, "siteID"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *server) updateRoute(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRoute(w, r)
	if !ok {
		return
	}
	rec, err := s.svc.UpdateRoute(r.Context(), chi.URLParam(r, "siteID"), chi.URLParam(r, "routeID"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) deleteRoute(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteRoute(r.Context(), chi.URLParam(r, "siteID"), chi.URLParam(r, "routeID")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) listRevisions(w http.ResponseWriter, r *http.Request) {
	revs, err := s.svc.Revisions(r.Context(), chi.URLParam(r, "siteID"), chi.URLParam(r, "routeID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, revs)
}

func (s *server) decodeRoute(w http.ResponseWriter, r *http.Request) (patrol.RouteRequest, bool) {
	var req patrol.RouteRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error(), Code: codeBadRequest})
		return patrol.RouteRequest{}, false
	}
	return req, true
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, status, errorBody{Error: "internal error", Code: code})
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Code: code})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrSiteNotFound):
		return http.StatusNotFound, codeSiteNotFound
	case errors.Is(err, service.ErrRouteNotFound):
		return http.StatusNotFound, codeRouteNotFound
	case errors.Is(err, service.ErrInvalidRoute):
		return http.StatusUnprocessableEntity, codeInvalidRoute
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
