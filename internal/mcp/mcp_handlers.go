package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/netseries/core"
	"github.com/huangsam/netseries/core/measures"
	"github.com/huangsam/netseries/internal/contract"
	"github.com/huangsam/netseries/internal/eventsrc"
	"github.com/huangsam/netseries/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseInput *contract.ConfigRawInput
}

// windowsResult is the list_windows payload.
type windowsResult struct {
	Windows     []schema.WindowSummary `json:"windows"`
	Diagnostics []schema.Diagnostic    `json:"diagnostics,omitempty"`
}

// measureEntry is one list_measures item.
type measureEntry struct {
	Name        string `json:"name"`
	Level       string `json:"level"`
	Description string `json:"description"`
}

// resolveSource overlays the shared source arguments onto a copy of the base input.
func (h *toolHandler) resolveSource(request mcp.CallToolRequest) *contract.ConfigRawInput {
	in := *h.baseInput
	in.InputPathStr = request.GetString("events_path", in.InputPathStr)
	in.Source = request.GetString("source", in.Source)
	in.Table = request.GetString("table", in.Table)
	in.Size = request.GetString("window_size", in.Size)
	in.Shift = request.GetString("window_shift", in.Shift)
	in.Resolution = request.GetString("resolution", in.Resolution)
	in.Start = request.GetString("start", in.Start)
	// Results go back as tool text, never to a file
	in.Output = string(schema.JSONOut)
	in.OutputFile = ""
	return &in
}

// openSource validates the input and opens its event source.
func openSource(in *contract.ConfigRawInput) (*contract.Config, contract.EventSource, error) {
	cfg := &contract.Config{}
	if err := contract.ProcessAndValidate(cfg, in); err != nil {
		return nil, nil, fmt.Errorf("invalid parameters: %w", err)
	}
	src, err := eventsrc.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, src, nil
}

func (h *toolHandler) handleExtractSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := h.resolveSource(request)
	in.Measure = request.GetString("measure", in.Measure)
	in.Pairwise = request.GetString("pairwise", in.Pairwise)
	in.Directed = request.GetBool("directed", in.Directed)
	in.Lag = request.GetInt("lag", in.Lag)
	in.FirstNetOnly = request.GetBool("first_net_only", in.FirstNetOnly)
	in.Permutations = request.GetInt("permutations", in.Permutations)
	in.Confidence = request.GetFloat("confidence", in.Confidence)
	in.Convergence = request.GetBool("convergence", in.Convergence)
	in.RatioIndex = request.GetBool("ratio_index", in.RatioIndex)
	in.Trim = request.GetBool("trim", in.Trim)
	in.Workers = request.GetInt("workers", in.Workers)
	in.Seed = uint64(request.GetInt("seed", int(in.Seed)))

	cfg, src, err := openSource(in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer func() { _ = src.Close() }()

	table, err := core.RunConfig(ctx, cfg, src, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", err)), nil
	}

	return jsonResult(table)
}

func (h *toolHandler) handleListWindows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, src, err := openSource(h.resolveSource(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer func() { _ = src.Close() }()

	windows, diags, err := core.ScheduleConfig(ctx, cfg, src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scheduling failed: %v", err)), nil
	}

	return jsonResult(windowsResult{Windows: windows, Diagnostics: diags})
}

func (h *toolHandler) handleListMeasures(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defs := measures.List()
	entries := make([]measureEntry, len(defs))
	for i, d := range defs {
		entries[i] = measureEntry{Name: d.Name, Level: string(d.Level), Description: d.Description}
	}
	payload := map[string]any{
		"measures": entries,
		"pairwise": measures.PairwiseNames(),
	}
	return jsonResult(payload)
}

// jsonResult renders v as indented JSON tool text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
