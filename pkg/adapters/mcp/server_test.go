package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/drunkard"
	"github.com/aretw0/drunkard/internal/logging"
	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	return NewServer(logging.NewNop(), drunkard.WithWorkers(2))
}

func TestServer_ListsTools(t *testing.T) {
	s := newTestServer()
	resp := s.mcpServer.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	require.NotNil(t, resp)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	body := string(raw)
	assert.Contains(t, body, `"simulate_sweep"`)
	assert.Contains(t, body, `"final_locations"`)
	assert.Contains(t, body, `"trace_walk"`)
}

func TestHandleSweep(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()
	args := SweepArgs{Steps: []int{0, 10}, Trials: 4, Policies: []string{"ew"}, Seed: 11}

	res, err := s.handleSweep(ctx, mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	require.Len(t, res.Sweeps, 1)
	assert.Equal(t, domain.EastWest2, res.Sweeps[0].Policy)
	require.Len(t, res.Sweeps[0].Points, 2)

	again, err := s.handleSweep(ctx, mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	assert.Equal(t, res.Sweeps[0].Points[1], again.Sweeps[0].Points[1], "same seed, same result")
}

func TestHandleSweep_Errors(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	_, err := s.handleSweep(ctx, mcp.CallToolRequest{}, SweepArgs{Trials: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidSteps)

	_, err = s.handleSweep(ctx, mcp.CallToolRequest{}, SweepArgs{Steps: []int{1}, Trials: 1, Policies: []string{"sober"}})
	assert.ErrorIs(t, err, domain.ErrUnknownPolicy)

	_, err = s.handleSweep(ctx, mcp.CallToolRequest{}, SweepArgs{Steps: []int{1}, Trials: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidTrials)

	_, err = s.handleSweep(ctx, mcp.CallToolRequest{}, SweepArgs{Steps: []int{drunkard.DefaultLimits.MaxSteps + 1}, Trials: 1})
	assert.ErrorIs(t, err, drunkard.ErrTooLarge)

	_, err = s.handleSweep(ctx, mcp.CallToolRequest{}, SweepArgs{Steps: []int{1_000_000}, Trials: 10_000})
	assert.ErrorIs(t, err, drunkard.ErrTooLarge, "each bound met, total work too big")

	_, err = s.handleSweep(ctx, mcp.CallToolRequest{}, SweepArgs{Steps: []int{1}, Trials: 1, AnomalyArgs: AnomalyArgs{Holes: 1, XRange: 1 << 62, YRange: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidWormholes)

	_, err = s.handleSweep(ctx, mcp.CallToolRequest{}, SweepArgs{Steps: []int{1}, Trials: 1, AnomalyArgs: AnomalyArgs{Holes: drunkard.DefaultLimits.MaxHoles + 1}})
	assert.ErrorIs(t, err, drunkard.ErrTooLarge)
}

func TestHandleSweep_Anomaly(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()
	args := SweepArgs{Steps: []int{40}, Trials: 6, Policies: []string{"ew"}, Seed: 13}

	plain, err := s.handleSweep(ctx, mcp.CallToolRequest{}, args)
	require.NoError(t, err)

	args.AnomalyArgs = AnomalyArgs{Holes: 200, XRange: 3, YRange: 3}
	warped, err := s.handleSweep(ctx, mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	require.Len(t, warped.Sweeps, 1)
	assert.NotEqual(t, plain.Sweeps[0].Points, warped.Sweeps[0].Points)
}

func TestHandleLocations(t *testing.T) {
	s := newTestServer()
	res, err := s.handleLocations(context.Background(), mcp.CallToolRequest{}, LocationsArgs{Steps: 3, Trials: 5, Seed: 2})
	require.NoError(t, err)
	require.Len(t, res.Batches, 3)
	for _, b := range res.Batches {
		assert.Len(t, b.Locations, 5)
		assert.Equal(t, 3, b.Steps)
	}
}

func TestHandleLocations_Anomaly(t *testing.T) {
	s := newTestServer()
	args := LocationsArgs{Steps: 25, Trials: 20, Policies: []string{"ew"}, Seed: 9}
	args.AnomalyArgs = AnomalyArgs{Holes: 100, XRange: 2, YRange: 2}

	res, err := s.handleLocations(context.Background(), mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	require.Len(t, res.Batches, 1)
	// East-west walkers only leave the x axis through a wormhole.
	offAxis := 0
	for _, loc := range res.Batches[0].Locations {
		if loc.Y != 0 {
			offAxis++
		}
	}
	assert.Positive(t, offAxis)

	args.XRange = -1
	_, err = s.handleLocations(context.Background(), mcp.CallToolRequest{}, args)
	assert.ErrorIs(t, err, domain.ErrInvalidWormholes)
}

func TestHandleTrace(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	plain, err := s.handleTrace(ctx, mcp.CallToolRequest{}, TraceArgs{Steps: 30, Policies: []string{"isotropic4"}, Seed: 8})
	require.NoError(t, err)
	require.Len(t, plain.Traces, 1)
	assert.Len(t, plain.Traces[0].Locations, 30)
	assert.Zero(t, plain.Traces[0].Teleports)

	_, err = s.handleTrace(ctx, mcp.CallToolRequest{}, TraceArgs{Steps: 30, AnomalyArgs: AnomalyArgs{Holes: -2}})
	assert.ErrorIs(t, err, domain.ErrInvalidWormholes)
}
