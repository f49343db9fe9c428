package http

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/aretw0/drunkard"
	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/aretw0/drunkard/pkg/field"
	"github.com/aretw0/drunkard/pkg/ports"
	"github.com/go-chi/chi/v5"
)

// Config wires the handler.
type Config struct {
	// Options are applied to every simulator built for a request, before
	// the request's own seed and anomaly.
	Options []drunkard.Option
	Logger  *slog.Logger
	// Metrics is served on GET /metrics when set.
	Metrics http.Handler
	// Limits default to drunkard.DefaultLimits when zero.
	Limits drunkard.Limits
	// Cache, when set, stores responses to seeded requests, which are
	// deterministic.
	Cache ports.ResultCache
}

// Server serves the simulation API.
type Server struct {
	options []drunkard.Option
	logger  *slog.Logger
	limits  drunkard.Limits
	cache   ports.ResultCache
}

// SweepRequest asks for the mean distance at every step count.
type SweepRequest struct {
	Steps    []int                 `json:"steps"`
	Trials   int                   `json:"trials"`
	Policies []domain.Policy       `json:"policies,omitempty"`
	Seed     uint64                `json:"seed,omitempty"`
	Anomaly  *field.WormholeConfig `json:"anomaly,omitempty"`
}

// SweepResponse carries one sweep per policy.
type SweepResponse struct {
	Sweeps []drunkard.PolicySweep `json:"sweeps"`
}

// LocationsRequest asks for the final locations of a batch per policy.
type LocationsRequest struct {
	Steps    int                   `json:"steps"`
	Trials   int                   `json:"trials"`
	Policies []domain.Policy       `json:"policies,omitempty"`
	Seed     uint64                `json:"seed,omitempty"`
	Anomaly  *field.WormholeConfig `json:"anomaly,omitempty"`
}

// LocationsResponse carries one batch of final locations per policy.
type LocationsResponse struct {
	Batches []drunkard.LocationBatch `json:"batches"`
}

// TraceRequest asks for the spots visited by one walk per policy.
type TraceRequest struct {
	Steps     int                   `json:"steps"`
	Policies  []domain.Policy       `json:"policies,omitempty"`
	Seed      uint64                `json:"seed,omitempty"`
	Wormholes *field.WormholeConfig `json:"wormholes,omitempty"`
}

// TraceResponse carries one trace per policy.
type TraceResponse struct {
	Traces []drunkard.WalkTrace `json:"traces"`
}

// NewHandler creates a new HTTP handler for the simulation API.
func NewHandler(cfg Config) http.Handler {
	s := &Server{
		options: cfg.Options,
		logger:  cfg.Logger,
		limits:  cfg.Limits,
		cache:   cfg.Cache,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.limits == (drunkard.Limits{}) {
		s.limits = drunkard.DefaultLimits
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/sweep", s.Sweep)
		r.Post("/locations", s.Locations)
		r.Post("/trace", s.Trace)
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(drunkard.Version),
	})
}

// Sweep handles POST /v1/sweep.
func (s *Server) Sweep(w http.ResponseWriter, r *http.Request) {
	var body SweepRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.respond(w, r, "Sweep", body.Seed, body, func() (any, error) {
		if len(body.Steps) == 0 {
			return nil, fmt.Errorf("%w: no step counts given", domain.ErrInvalidSteps)
		}
		policies := policiesOrAll(body.Policies)
		if err := s.limits.Check(workload(body.Steps, body.Trials, policies, body.Anomaly)); err != nil {
			return nil, err
		}
		sim, err := s.simulator(body.Seed, body.Anomaly)
		if err != nil {
			return nil, err
		}
		sweeps, err := sim.SweepAll(r.Context(), body.Steps, body.Trials, policies...)
		if err != nil {
			return nil, err
		}
		return SweepResponse{Sweeps: sweeps}, nil
	})
}

// Locations handles POST /v1/locations.
func (s *Server) Locations(w http.ResponseWriter, r *http.Request) {
	var body LocationsRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.respond(w, r, "Locations", body.Seed, body, func() (any, error) {
		policies := policiesOrAll(body.Policies)
		if err := s.limits.Check(workload([]int{body.Steps}, body.Trials, policies, body.Anomaly)); err != nil {
			return nil, err
		}
		sim, err := s.simulator(body.Seed, body.Anomaly)
		if err != nil {
			return nil, err
		}
		batches, err := sim.Scatter(r.Context(), body.Steps, body.Trials, policies...)
		if err != nil {
			return nil, err
		}
		return LocationsResponse{Batches: batches}, nil
	})
}

// Trace handles POST /v1/trace.
func (s *Server) Trace(w http.ResponseWriter, r *http.Request) {
	var body TraceRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.respond(w, r, "Trace", body.Seed, body, func() (any, error) {
		policies := policiesOrAll(body.Policies)
		if err := s.limits.Check(workload([]int{body.Steps}, 1, policies, body.Wormholes)); err != nil {
			return nil, err
		}
		sim, err := s.simulator(body.Seed, body.Wormholes)
		if err != nil {
			return nil, err
		}
		traces, err := sim.TraceWalks(r.Context(), body.Steps, policies...)
		if err != nil {
			return nil, err
		}
		return TraceResponse{Traces: traces}, nil
	})
}

// respond runs compute and writes its result as JSON. Seeded requests are
// served from and stored in the cache when one is configured.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, op string, seed uint64, req any, compute func() (any, error)) {
	var key string
	if s.cache != nil && seed != 0 {
		key = cacheKey(r.URL.Path, req)
		if data, ok, err := s.cache.Get(r.Context(), key); err != nil {
			s.logger.Warn("Cache lookup failed", "path", r.URL.Path, "error", err)
		} else if ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(data)
			return
		}
	}

	resp, err := compute()
	if err != nil {
		s.fail(w, op, err)
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		s.fail(w, op, err)
		return
	}
	data = append(data, '\n')

	if key != "" {
		if err := s.cache.Set(r.Context(), key, data); err != nil {
			s.logger.Warn("Cache store failed", "path", r.URL.Path, "error", err)
		}
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// cacheKey identifies a request by route and canonical body.
func cacheKey(path string, req any) string {
	canonical, _ := json.Marshal(req)
	sum := sha256.Sum256(canonical)
	return strings.TrimPrefix(path, "/") + ":" + hex.EncodeToString(sum[:])
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		return false
	}
	return true
}

func workload(steps []int, trials int, policies []domain.Policy, holes *field.WormholeConfig) drunkard.Workload {
	w := drunkard.Workload{Steps: steps, Trials: trials, Policies: len(policies)}
	if holes != nil {
		w.Holes = holes.Holes
	}
	return w
}

func (s *Server) simulator(seed uint64, anomaly *field.WormholeConfig) (*drunkard.Simulator, error) {
	opts := slices.Clone(s.options)
	opts = append(opts, drunkard.WithLogger(s.logger))
	if seed != 0 {
		opts = append(opts, drunkard.WithSeed(seed))
	}
	if anomaly != nil {
		opts = append(opts, drunkard.WithAnomaly(*anomaly))
	}
	return drunkard.New(opts...)
}

func policiesOrAll(ps []domain.Policy) []domain.Policy {
	if len(ps) == 0 {
		return domain.AllPolicies()
	}
	return ps
}

// fail maps simulation errors to status codes: bad input is 400, oversized
// requests 413 and anything else 500.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, drunkard.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidSteps),
		errors.Is(err, domain.ErrInvalidTrials),
		errors.Is(err, domain.ErrUnknownPolicy),
		errors.Is(err, domain.ErrInvalidWormholes):
		status = http.StatusBadRequest
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "status", status, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}
