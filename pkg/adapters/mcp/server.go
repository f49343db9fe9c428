package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/drunkard"
	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/aretw0/drunkard/pkg/field"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// AnomalyArgs optionally turn the plain field into a wormhole field.
type AnomalyArgs struct {
	Holes  int `json:"holes,omitempty"`
	XRange int `json:"x_range,omitempty"`
	YRange int `json:"y_range,omitempty"`
}

// Config returns the wormhole configuration, or nil for a plain field.
func (a AnomalyArgs) Config() *field.WormholeConfig {
	if a.Holes == 0 {
		return nil
	}
	return &field.WormholeConfig{Holes: a.Holes, XRange: a.XRange, YRange: a.YRange}
}

// SweepArgs are the arguments of simulate_sweep.
type SweepArgs struct {
	Steps    []int    `json:"steps"`
	Trials   int      `json:"trials"`
	Policies []string `json:"policies,omitempty"`
	Seed     uint64   `json:"seed,omitempty"`
	AnomalyArgs
}

// SweepResult is the output of simulate_sweep.
type SweepResult struct {
	Sweeps []drunkard.PolicySweep `json:"sweeps" jsonschema_description:"Mean distance and CV per step count, one sweep per policy"`
}

// LocationsArgs are the arguments of final_locations.
type LocationsArgs struct {
	Steps    int      `json:"steps"`
	Trials   int      `json:"trials"`
	Policies []string `json:"policies,omitempty"`
	Seed     uint64   `json:"seed,omitempty"`
	AnomalyArgs
}

// LocationsResult is the output of final_locations.
type LocationsResult struct {
	Batches []drunkard.LocationBatch `json:"batches" jsonschema_description:"Final (x, y) of every walk, one batch per policy"`
}

// TraceArgs are the arguments of trace_walk.
type TraceArgs struct {
	Steps    int      `json:"steps"`
	Policies []string `json:"policies,omitempty"`
	Seed     uint64   `json:"seed,omitempty"`
	AnomalyArgs
}

// TraceResult is the output of trace_walk.
type TraceResult struct {
	Traces []drunkard.WalkTrace `json:"traces" jsonschema_description:"Ordered spots visited, one walk per policy"`
}

// Server exposes the simulator as MCP tools.
type Server struct {
	options   []drunkard.Option
	logger    *slog.Logger
	limits    drunkard.Limits
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. opts apply to every
// simulator built for a tool call.
func NewServer(logger *slog.Logger, opts ...drunkard.Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		options:   opts,
		logger:    logger,
		limits:    drunkard.DefaultLimits,
		mcpServer: server.NewMCPServer("drunkard-mcp", strings.TrimSpace(drunkard.Version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func policiesArg() mcp.ToolOption {
	return mcp.WithArray("policies",
		mcp.Description("Policies to simulate: isotropic4, cold-biased, east-west2 (default all)"),
		mcp.Items(map[string]any{"type": "string", "enum": policyNames()}),
	)
}

func seedArg() mcp.ToolOption {
	return mcp.WithNumber("seed",
		mcp.Description("Seed of the random source; the same seed gives the same result (0 draws from entropy)"),
		mcp.Min(0),
	)
}

func anomalyArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("holes", mcp.Description("Number of wormholes (0 for a plain field)"), mcp.Min(0)),
		mcp.WithNumber("x_range", mcp.Description("Wormholes lie within [-x_range, x_range]"), mcp.Min(0), mcp.Max(field.MaxRange)),
		mcp.WithNumber("y_range", mcp.Description("Wormholes lie within [-y_range, y_range]"), mcp.Min(0), mcp.Max(field.MaxRange)),
	}
}

func (s *Server) registerTools() {
	// TOOL: simulate_sweep
	sweepTool := mcp.NewTool("simulate_sweep", append([]mcp.ToolOption{
		mcp.WithDescription("Run batches of random walks at several step counts and report the mean distance from the origin and its coefficient of variation."),
		mcp.WithArray("steps", mcp.Required(),
			mcp.Description("Step counts to simulate, e.g. [10, 100, 1000]"),
			mcp.Items(map[string]any{"type": "integer", "minimum": 0}),
		),
		mcp.WithNumber("trials", mcp.Required(), mcp.Description("Walks per batch"), mcp.Min(1)),
		policiesArg(),
		seedArg(),
		mcp.WithOutputSchema[SweepResult](),
	}, anomalyArgs()...)...)
	s.mcpServer.AddTool(sweepTool, mcp.NewStructuredToolHandler(s.handleSweep))

	// TOOL: final_locations
	locationsTool := mcp.NewTool("final_locations", append([]mcp.ToolOption{
		mcp.WithDescription("Run a batch of random walks, optionally through a wormhole field, and report where each one ended."),
		mcp.WithNumber("steps", mcp.Required(), mcp.Description("Steps per walk"), mcp.Min(0)),
		mcp.WithNumber("trials", mcp.Required(), mcp.Description("Walks per policy"), mcp.Min(1)),
		policiesArg(),
		seedArg(),
		mcp.WithOutputSchema[LocationsResult](),
	}, anomalyArgs()...)...)
	s.mcpServer.AddTool(locationsTool, mcp.NewStructuredToolHandler(s.handleLocations))

	// TOOL: trace_walk
	traceTool := mcp.NewTool("trace_walk", append([]mcp.ToolOption{
		mcp.WithDescription("Walk one walker per policy through a shared field, optionally full of wormholes, and report every spot visited."),
		mcp.WithNumber("steps", mcp.Required(), mcp.Description("Steps per walk"), mcp.Min(0)),
		policiesArg(),
		seedArg(),
		mcp.WithOutputSchema[TraceResult](),
	}, anomalyArgs()...)...)
	s.mcpServer.AddTool(traceTool, mcp.NewStructuredToolHandler(s.handleTrace))
}

// Handler methods for structured tools

func (s *Server) handleSweep(ctx context.Context, request mcp.CallToolRequest, args SweepArgs) (SweepResult, error) {
	if len(args.Steps) == 0 {
		return SweepResult{}, fmt.Errorf("%w: no step counts given", domain.ErrInvalidSteps)
	}
	policies, err := parsePolicies(args.Policies)
	if err != nil {
		return SweepResult{}, err
	}
	anomaly := args.Config()
	if err := s.limits.Check(workload(args.Steps, args.Trials, policies, anomaly)); err != nil {
		return SweepResult{}, err
	}
	sim, err := s.simulator(args.Seed, anomaly)
	if err != nil {
		return SweepResult{}, err
	}
	sweeps, err := sim.SweepAll(ctx, args.Steps, args.Trials, policies...)
	if err != nil {
		return SweepResult{}, fmt.Errorf("simulate_sweep failed: %w", err)
	}
	return SweepResult{Sweeps: sweeps}, nil
}

func (s *Server) handleLocations(ctx context.Context, request mcp.CallToolRequest, args LocationsArgs) (LocationsResult, error) {
	policies, err := parsePolicies(args.Policies)
	if err != nil {
		return LocationsResult{}, err
	}
	anomaly := args.Config()
	if err := s.limits.Check(workload([]int{args.Steps}, args.Trials, policies, anomaly)); err != nil {
		return LocationsResult{}, err
	}
	sim, err := s.simulator(args.Seed, anomaly)
	if err != nil {
		return LocationsResult{}, err
	}
	batches, err := sim.Scatter(ctx, args.Steps, args.Trials, policies...)
	if err != nil {
		return LocationsResult{}, fmt.Errorf("final_locations failed: %w", err)
	}
	return LocationsResult{Batches: batches}, nil
}

func (s *Server) handleTrace(ctx context.Context, request mcp.CallToolRequest, args TraceArgs) (TraceResult, error) {
	policies, err := parsePolicies(args.Policies)
	if err != nil {
		return TraceResult{}, err
	}
	holes := args.Config()
	if err := s.limits.Check(workload([]int{args.Steps}, 1, policies, holes)); err != nil {
		return TraceResult{}, err
	}
	sim, err := s.simulator(args.Seed, holes)
	if err != nil {
		return TraceResult{}, err
	}
	traces, err := sim.TraceWalks(ctx, args.Steps, policies...)
	if err != nil {
		return TraceResult{}, fmt.Errorf("trace_walk failed: %w", err)
	}
	return TraceResult{Traces: traces}, nil
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

func workload(steps []int, trials int, policies []domain.Policy, holes *field.WormholeConfig) drunkard.Workload {
	w := drunkard.Workload{Steps: steps, Trials: trials, Policies: len(policies)}
	if holes != nil {
		w.Holes = holes.Holes
	}
	return w
}

func parsePolicies(names []string) ([]domain.Policy, error) {
	if len(names) == 0 {
		return domain.AllPolicies(), nil
	}
	out := make([]domain.Policy, 0, len(names))
	for _, name := range names {
		p, err := domain.ParsePolicy(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func policyNames() []string {
	all := domain.AllPolicies()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.String()
	}
	return names
}
